package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/draftboard/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPlayer(t *testing.T) {
	convey.Convey("Given a roster record", t, func() {
		raw := model.RawPlayer{
			PlayerID:  "4046",
			FirstName: "Patrick",
			LastName:  "Mahomes",
			Position:  "QB",
			Team:      "KC",
			ByeWeek:   model.Int(10),
		}

		convey.Convey("When converting it to a player", func() {
			p := model.FromRaw(raw)

			convey.Convey("Then identity fields should be copied and values left absent", func() {
				convey.So(p.PlayerID, convey.ShouldEqual, "4046")
				convey.So(p.FullName(), convey.ShouldEqual, "Patrick Mahomes")
				convey.So(*p.ByeWeek, convey.ShouldEqual, 10)
				convey.So(p.Slug, convey.ShouldBeEmpty)
				convey.So(p.ADP, convey.ShouldBeNil)
				convey.So(p.ExpectedPPG, convey.ShouldBeNil)
			})
		})

		convey.Convey("When decoding the roster source field names", func() {
			var r model.RawPlayer
			err := json.Unmarshal([]byte(`{"player_id":"1","first_name":"A","last_name":"B","fantasy_data_tms_bye_week":7}`), &r)

			convey.Convey("Then the bye week alias should be honoured", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(*r.ByeWeek, convey.ShouldEqual, 7)
				convey.So(r.Team, convey.ShouldBeEmpty)
			})
		})
	})

	convey.Convey("Given a player with an absent ADP", t, func() {
		p := model.Player{FirstName: "Rookie", LastName: "Guy", ProjectedPPG: model.Float(12.5)}

		convey.Convey("Then the JSON should carry an explicit null", func() {
			b, err := json.Marshal(p)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldContainSubstring, `"adp":null`)
		})

		convey.Convey("Then attribute accessors should distinguish absence", func() {
			convey.So(model.AttrADP(&p), convey.ShouldBeNil)
			convey.So(*model.AttrProjectedPPG(&p), convey.ShouldEqual, 12.5)
			convey.So(model.Value(model.AttrTopNAvg(&p)), convey.ShouldEqual, 0)
		})
	})
}
