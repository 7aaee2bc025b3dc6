package history_test

import (
	"testing"

	"github.com/okian/draftboard/internal/domain/history"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTopNAverage(t *testing.T) {
	Convey("Given a season of weekly scores", t, func() {
		scores := []float64{10, 30, 5, 40, 1}

		Convey("When averaging the top three with no minimum", func() {
			avg, ok := history.TopNAverage(scores, 3, 0)

			Convey("Then it should average 40, 30 and 10", func() {
				So(ok, ShouldBeTrue)
				So(avg, ShouldAlmostEqual, 26.67, 0.01)
			})
		})

		Convey("When weeks below the minimum are discarded", func() {
			avg, ok := history.TopNAverage(scores, 5, 6)

			Convey("Then only qualifying weeks should count", func() {
				So(ok, ShouldBeTrue)
				So(avg, ShouldAlmostEqual, 80.0/3, 1e-9)
			})
		})

		Convey("When fewer weeks qualify than requested", func() {
			avg, ok := history.TopNAverage([]float64{12, 18}, 8, 0)

			Convey("Then all qualifying weeks should be averaged", func() {
				So(ok, ShouldBeTrue)
				So(avg, ShouldEqual, 15)
			})
		})

		Convey("When no week qualifies", func() {
			_, ok := history.TopNAverage([]float64{1, 2, 3}, 3, 5)

			Convey("Then there should be no data", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the input is left untouched", func() {
			in := []float64{3, 1, 2}
			_, _ = history.TopNAverage(in, 2, 0)
			So(in, ShouldResemble, []float64{3, 1, 2})
		})

		Convey("When a genuine zero qualifies", func() {
			avg, ok := history.TopNAverage([]float64{0, 0}, 2, 0)

			Convey("Then zero should be a value, not absence", func() {
				So(ok, ShouldBeTrue)
				So(avg, ShouldEqual, 0)
			})
		})

		Convey("When n is not positive", func() {
			_, ok := history.TopNAverage(scores, 0, 0)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given weekly scores keyed by canonical slug", t, func() {
		weekly := map[string][]float64{
			"ja-marr-chase": {30, 25, 20},
			"injured-guy":   {2, 1},
			"not-rostered":  {40},
		}
		slugs := []string{"ja-marr-chase", "injured-guy", "rookie", "ja-marr-chase"}

		res := history.Aggregate(weekly, slugs, 2, 5)

		Convey("Then rostered players with data should get an average", func() {
			So(res["ja-marr-chase"], ShouldEqual, 27.5)
		})

		Convey("Then players without qualifying weeks should be absent", func() {
			_, injured := res["injured-guy"]
			_, rookie := res["rookie"]
			So(injured, ShouldBeFalse)
			So(rookie, ShouldBeFalse)
		})

		Convey("Then slugs outside the roster should be ignored", func() {
			_, ok := res["not-rostered"]
			So(ok, ShouldBeFalse)
			So(len(res), ShouldEqual, 1)
		})
	})
}
