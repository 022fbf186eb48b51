package scoring_test

import (
	"math"
	"testing"

	"github.com/okian/resumerank/internal/domain/model"
	"github.com/okian/resumerank/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSuitability(t *testing.T) {
	Convey("Given the suitability formula", t, func() {
		Convey("It follows skills*2 + experience*10 + education*5", func() {
			So(scoring.Suitability(0, 0, 0), ShouldEqual, 0)
			So(scoring.Suitability(5, 2, 1), ShouldEqual, 35)
			So(scoring.Suitability(10, 3, 2), ShouldEqual, 60)
		})

		Convey("It is capped at 100", func() {
			So(scoring.Suitability(40, 5, 2), ShouldEqual, 100)
			So(scoring.Suitability(1000, 1000, 1000), ShouldEqual, 100)
		})

		Convey("It stays in range and never decreases in any single count", func() {
			for s := 0; s <= 30; s++ {
				for e := 0; e <= 12; e++ {
					for ed := 0; ed <= 6; ed++ {
						v := scoring.Suitability(s, e, ed)
						So(v >= 0 && v <= 100, ShouldBeTrue)
						So(scoring.Suitability(s+1, e, ed), ShouldBeGreaterThanOrEqualTo, v)
						So(scoring.Suitability(s, e+1, ed), ShouldBeGreaterThanOrEqualTo, v)
						So(scoring.Suitability(s, e, ed+1), ShouldBeGreaterThanOrEqualTo, v)
					}
				}
			}
		})

		Convey("Negative counts count as zero", func() {
			So(scoring.Suitability(-3, 1, 0), ShouldEqual, 10)
		})

		Convey("ForResume reads the list lengths", func() {
			r := model.Resume{
				ProfessionalSummary: model.ProfessionalSummary{Skills: []string{"a", "b", "c"}},
				Experience:          []model.Experience{{}, {}},
				Education:           []model.Education{{}},
			}
			So(scoring.ForResume(r), ShouldEqual, 31)
		})
	})
}

func TestBuckets(t *testing.T) {
	Convey("Bucket is a pure function of the score", t, func() {
		So(scoring.Bucket(79), ShouldEqual, 60)
		So(scoring.Bucket(80), ShouldEqual, 80)
		So(scoring.Bucket(100), ShouldEqual, 80)
		So(scoring.Bucket(0), ShouldEqual, 0)
		So(scoring.Bucket(19), ShouldEqual, 0)
		So(scoring.Bucket(20), ShouldEqual, 20)
		So(scoring.Bucket(-5), ShouldEqual, 0)
	})

	Convey("Bucket labels close the top bin at 100", t, func() {
		So(scoring.Buckets(), ShouldResemble, []int{0, 20, 40, 60, 80})
		So(scoring.BucketLabel(0), ShouldEqual, "0-19")
		So(scoring.BucketLabel(60), ShouldEqual, "60-79")
		So(scoring.BucketLabel(80), ShouldEqual, "80-100")
	})

	Convey("Bands split at 40, 60 and 80", t, func() {
		So(scoring.BandOf(100), ShouldEqual, scoring.Excellent)
		So(scoring.BandOf(80), ShouldEqual, scoring.Excellent)
		So(scoring.BandOf(79), ShouldEqual, scoring.Good)
		So(scoring.BandOf(60), ShouldEqual, scoring.Good)
		So(scoring.BandOf(59), ShouldEqual, scoring.Average)
		So(scoring.BandOf(40), ShouldEqual, scoring.Average)
		So(scoring.BandOf(39), ShouldEqual, scoring.BelowAverage)
	})
}

func TestLevels(t *testing.T) {
	Convey("Experience levels are a fixed lookup", t, func() {
		for _, c := range []int{0, 1, 2} {
			l, ok := scoring.LevelOf(c)
			So(ok, ShouldBeTrue)
			So(l, ShouldEqual, scoring.Entry)
		}
		for _, c := range []int{3, 4, 5} {
			l, _ := scoring.LevelOf(c)
			So(l, ShouldEqual, scoring.Mid)
		}
		for _, c := range []int{6, 7, 8, 9, 10} {
			l, _ := scoring.LevelOf(c)
			So(l, ShouldEqual, scoring.Senior)
		}
	})

	Convey("More than ten entries match no level", t, func() {
		_, ok := scoring.LevelOf(11)
		So(ok, ShouldBeFalse)
		So(scoring.InLevels(11, scoring.Levels()), ShouldBeFalse)
		So(scoring.InLevels(4, []scoring.Level{scoring.Entry, scoring.Mid}), ShouldBeTrue)
		So(scoring.InLevels(4, []scoring.Level{scoring.Senior}), ShouldBeFalse)
	})

	Convey("ParseLevel and Counts", t, func() {
		l, ok := scoring.ParseLevel(" Senior ")
		So(ok, ShouldBeTrue)
		So(l.Counts(), ShouldResemble, []int{6, 7, 8, 9, 10})
		_, ok = scoring.ParseLevel("principal")
		So(ok, ShouldBeFalse)
	})
}

func TestClampPercent(t *testing.T) {
	Convey("ClampPercent bounds model scores", t, func() {
		So(scoring.ClampPercent(120), ShouldEqual, 100)
		So(scoring.ClampPercent(-3), ShouldEqual, 0)
		So(scoring.ClampPercent(67.5), ShouldEqual, 67.5)
		So(scoring.ClampPercent(math.NaN()), ShouldEqual, 0)
	})
}
