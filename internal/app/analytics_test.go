package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/resumerank/internal/domain/analytics"
	"github.com/okian/resumerank/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_Analytics(t *testing.T) {
	Convey("Given two uploads by one user and one by another", t, func() {
		f := newFixture(t)
		ctx := context.Background()
		f.upload("hr@x.io")
		f.clock.advance(time.Hour)
		f.upload("hr@x.io")
		f.upload("other@x.io")
		f.clock.advance(time.Minute)

		Convey("Recruitment metrics are scoped to the caller", func() {
			m, err := f.svc.RecruitmentMetrics(ctx, "hr@x.io", 30, analytics.Filter{})
			So(err, ShouldBeNil)
			So(m.TotalResumes, ShouldEqual, 2)
			So(m.FilteredResumes, ShouldEqual, 2)
			So(m.DailyUploads, ShouldHaveLength, 1)
			So(m.DailyUploads[0].Count, ShouldEqual, 2)
			So(m.AverageSkillsPerResume, ShouldEqual, 3.0)
			So(m.FiltersApplied.ScoreRange, ShouldResemble, [2]int{0, 100})
			So(m.FiltersApplied.DateRange, ShouldHaveLength, 2)
		})

		Convey("Filters narrow the metrics", func() {
			m, err := f.svc.RecruitmentMetrics(ctx, "hr@x.io", 30, analytics.Filter{
				Levels: []scoring.Level{scoring.Senior},
			})
			So(err, ShouldBeNil)
			So(m.TotalResumes, ShouldEqual, 2)
			So(m.FilteredResumes, ShouldEqual, 0)
			So(m.FiltersApplied.ExperienceLevels, ShouldResemble, []string{"senior"})
		})

		Convey("Skills are counted case-folded", func() {
			s, err := f.svc.SkillsAnalysis(ctx, "hr@x.io", analytics.SkillQuery{TopN: 20, MinFrequency: 1})
			So(err, ShouldBeNil)
			So(s.TotalUniqueSkills, ShouldEqual, 3)
			So(s.TopSkills[0].Count, ShouldEqual, 2)
			So(s.AvailableCategories, ShouldContain, "database")
		})

		Convey("Ranking performance buckets the suitability score", func() {
			p, err := f.svc.RankingPerformance(ctx, "hr@x.io", time.Time{}, time.Time{})
			So(err, ShouldBeNil)
			So(p.TotalRanked, ShouldEqual, 2)
			So(p.AverageScore, ShouldEqual, 21.0)
			So(p.Distribution[1].Range, ShouldEqual, "20-39")
			So(p.Distribution[1].Count, ShouldEqual, 2)
			So(p.Breakdown.BelowAverage, ShouldEqual, 2)
			So(p.PerformanceTrends, ShouldHaveLength, 7)
			So(p.PerformanceTrends[6].ResumeCount, ShouldEqual, 2)
		})

		Convey("The dashboard counts the last day", func() {
			d, err := f.svc.RealTimeDashboard(ctx, "hr@x.io", 30)
			So(err, ShouldBeNil)
			So(d.ActivitySummary.UploadsLast24h, ShouldEqual, 2)
			So(d.ActivitySummary.TotalResumes, ShouldEqual, 2)
			So(d.ActivitySummary.ProcessingQueue, ShouldEqual, 0)
			So(d.RecentUploads, ShouldHaveLength, 2)
			So(d.RecentUploads[0].TimeAgo, ShouldEqual, "0h 1m ago")
			So(d.HourlyActivity, ShouldHaveLength, 24)
			So(d.SystemHealth.Database, ShouldEqual, "healthy")
			So(d.RefreshInterval, ShouldEqual, 30)
		})

		Convey("Filter options list the caller's vocabulary", func() {
			o, err := f.svc.AdvancedFilters(ctx, "hr@x.io")
			So(err, ShouldBeNil)
			So(o.Skills, ShouldContain, "Go")
			So(o.Companies, ShouldResemble, []string{"Acme"})
			So(o.DateRange.Min, ShouldNotBeNil)
		})

		Convey("Filtered resumes carry the computed score", func() {
			res, err := f.svc.FilteredResumes(ctx, "hr@x.io", analytics.Filter{}, 50)
			So(err, ShouldBeNil)
			So(res.TotalMatches, ShouldEqual, 2)
			So(res.Resumes[0].CalculatedScore, ShouldEqual, 21)

			res, err = f.svc.FilteredResumes(ctx, "hr@x.io", analytics.Filter{Score: &analytics.ScoreRange{Min: 50, Max: 100}}, 50)
			So(err, ShouldBeNil)
			So(res.TotalMatches, ShouldEqual, 0)
			So(res.Resumes, ShouldNotBeNil)
			So(res.AppliedFilters.ScoreRange, ShouldResemble, [2]int{50, 100})
		})

		Convey("The live snapshot spans every user", func() {
			snap, err := f.svc.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(snap.TotalResumes, ShouldEqual, 3)
			So(snap.RecentUploads, ShouldEqual, 3)
			So(snap.ActiveUsers, ShouldEqual, 2)
			So(snap.ProcessingQueue, ShouldEqual, 0)
		})
	})
}
