package roster_test

import (
	"testing"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRoster(t *testing.T) {
	Convey("Given a raw roster keyed by player id", t, func() {
		raw := map[string]model.RawPlayer{
			"300": {PlayerID: "300", FirstName: "Free", LastName: "Agent", Position: "WR"},
			"100": {PlayerID: "100", FirstName: "Josh", LastName: "Allen", Position: "QB", Team: "BUF"},
			"200": {FirstName: "Long", LastName: "Snapper", Position: "LS", Team: "DAL"},
			"400": {PlayerID: "400", FirstName: "Brandon", LastName: "Aubrey", Position: "K", Team: "DAL"},
		}

		players := roster.FromRaw(raw)

		Convey("Then players should be ordered by id with ids filled in", func() {
			So(len(players), ShouldEqual, 4)
			So(players[0].PlayerID, ShouldEqual, "100")
			So(players[1].PlayerID, ShouldEqual, "200")
		})

		Convey("When filtering to roster positions", func() {
			kept := roster.KeepRosteredAndRelevant(players, []string{"QB", "RB", "WR", "TE", "K", "DEF"})

			Convey("Then free agents and positions without a slot should be dropped", func() {
				So(len(kept), ShouldEqual, 2)
				So(kept[0].LastName, ShouldEqual, "Allen")
				So(kept[1].LastName, ShouldEqual, "Aubrey")
			})
		})

		Convey("When no positions are relevant", func() {
			So(roster.KeepRosteredAndRelevant(players, nil), ShouldBeEmpty)
		})
	})
}
