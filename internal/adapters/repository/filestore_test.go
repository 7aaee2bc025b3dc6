package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/draftboard/internal/adapters/repository"
	"github.com/okian/draftboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const date = "2025-08-16"

func finalPlayer(slug string, rank int) model.Player {
	return model.Player{
		FirstName:   "A",
		LastName:    slug,
		Team:        "KC",
		Position:    "WR",
		Slug:        slug,
		ADP:         model.Float(12.3),
		ExpectedPPG: model.Float(15),
		VOR:         model.Float(4),
		Rank:        rank,
	}
}

func TestFileStore(t *testing.T) {
	Convey("Given a file store in a temp dir", t, func() {
		ctx := context.Background()
		root := t.TempDir()
		store := repository.NewFileStore(root)

		Convey("When saving and loading the raw roster", func() {
			raw := map[string]model.RawPlayer{
				"4046": {PlayerID: "4046", FirstName: "Patrick", LastName: "Mahomes", Position: "QB", Team: "KC", ByeWeek: model.Int(10)},
			}
			So(store.SaveRaw(ctx, date, raw), ShouldBeNil)
			got, err := store.LoadRaw(ctx, date)

			Convey("Then the mapping should round-trip under the dated path", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, raw)
				_, statErr := os.Stat(filepath.Join(root, date, "raw_players.json"))
				So(statErr, ShouldBeNil)
			})
		})

		Convey("When saving the final board", func() {
			players := []model.Player{finalPlayer("a", 1), finalPlayer("b", 2)}
			So(store.SavePlayers(ctx, date, repository.PlayersFinal, players), ShouldBeNil)

			Convey("Then it should load back and validate", func() {
				got, err := store.LoadPlayers(ctx, date, repository.PlayersFinal)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, players)
			})

			Convey("Then the date should be listed", func() {
				dates, err := store.Dates(ctx, repository.PlayersFinal)
				So(err, ShouldBeNil)
				So(dates, ShouldResemble, []string{date})
				none, _ := store.Dates(ctx, repository.PlayersWithPPG)
				So(none, ShouldBeEmpty)
			})
		})

		Convey("When an artifact is missing", func() {
			_, err := store.LoadPlayers(ctx, date, repository.PlayersEnriched)
			So(err, ShouldWrap, repository.ErrNotFound)
		})

		Convey("When an artifact lacks a required field", func() {
			p := finalPlayer("a", 1)
			p.ExpectedPPG = nil
			So(store.SavePlayers(ctx, date, repository.PlayersWithPPG, []model.Player{p}), ShouldBeNil)

			_, err := store.LoadPlayers(ctx, date, repository.PlayersWithPPG)

			Convey("Then loading should fail with a typed validation error", func() {
				So(err, ShouldWrap, repository.ErrInvalidArtifact)
				So(err.Error(), ShouldContainSubstring, "expected_ppg")
			})
		})

		Convey("When an artifact is not valid JSON", func() {
			dir := filepath.Join(root, date)
			So(os.MkdirAll(dir, 0o755), ShouldBeNil)
			So(os.WriteFile(filepath.Join(dir, "players_enriched.json"), []byte(`{"not": "a list"}`), 0o600), ShouldBeNil)

			_, err := store.LoadPlayers(ctx, date, repository.PlayersEnriched)
			So(err, ShouldWrap, repository.ErrInvalidArtifact)
		})

		Convey("When the date is not a calendar date", func() {
			err := store.SavePlayers(ctx, "../../etc", repository.PlayersFinal, nil)
			So(err, ShouldWrap, repository.ErrInvalidDate)
		})

		Convey("When an empty list is saved", func() {
			So(store.SavePlayers(ctx, date, repository.RosterPlayers, nil), ShouldBeNil)
			got, err := store.LoadPlayers(ctx, date, repository.RosterPlayers)
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given records for each stage", t, func() {
		roster := model.Player{FirstName: "A", LastName: "B", Position: "RB", Team: "DET"}
		enriched := roster
		enriched.Slug = "a-b"
		withPPG := enriched
		withPPG.ExpectedPPG = model.Float(11)

		Convey("Then each stage should accept its own shape", func() {
			So(repository.Validate(repository.RosterPlayers, []model.Player{roster}), ShouldBeNil)
			So(repository.Validate(repository.PlayersEnriched, []model.Player{enriched}), ShouldBeNil)
			So(repository.Validate(repository.PlayersWithPPG, []model.Player{withPPG}), ShouldBeNil)
			So(repository.Validate(repository.PlayersFinal, []model.Player{finalPlayer("x", 1)}), ShouldBeNil)
		})

		Convey("Then later stages should reject earlier shapes", func() {
			So(repository.Validate(repository.PlayersEnriched, []model.Player{roster}), ShouldWrap, repository.ErrInvalidArtifact)
			So(repository.Validate(repository.PlayersWithPPG, []model.Player{enriched}), ShouldWrap, repository.ErrInvalidArtifact)
			So(repository.Validate(repository.PlayersFinal, []model.Player{withPPG}), ShouldWrap, repository.ErrInvalidArtifact)
		})

		Convey("Then a rostered record needs a team", func() {
			free := roster
			free.Team = ""
			So(repository.Validate(repository.RosterPlayers, []model.Player{free}), ShouldWrap, repository.ErrInvalidArtifact)
		})
	})
}
