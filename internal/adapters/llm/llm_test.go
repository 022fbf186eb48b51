package llm_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/okian/resumerank/internal/adapters/llm"
	"github.com/okian/resumerank/internal/domain/model"
	"github.com/okian/resumerank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeGenerator struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
	temps   []float32
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, temperature float32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.temps = append(f.temps, temperature)
	return f.answer, f.err
}

func TestStripFences(t *testing.T) {
	Convey("StripFences", t, func() {
		So(llm.StripFences("```json\n{\"a\":1}\n```"), ShouldEqual, `{"a":1}`)
		So(llm.StripFences("```\n{\"a\":1}```"), ShouldEqual, `{"a":1}`)
		So(llm.StripFences("  {\"a\":1}  "), ShouldEqual, `{"a":1}`)
	})

	Convey("ParseObject accepts only objects", t, func() {
		obj, err := llm.ParseObject("```json\n{\"a\": [1, 2]}\n```")
		So(err, ShouldBeNil)
		So(obj["a"], ShouldResemble, []any{1.0, 2.0})

		_, err = llm.ParseObject(`[1, 2]`)
		So(errors.Is(err, llm.ErrMalformed), ShouldBeTrue)

		_, err = llm.ParseObject(`Sorry, I cannot help.`)
		So(errors.Is(err, llm.ErrMalformed), ShouldBeTrue)
	})
}

func TestViolations(t *testing.T) {
	Convey("A well-formed ranking has no violations", t, func() {
		obj, _ := llm.ParseObject(`{"overall_score": 80, "criteria_scores": {"skills_match": 1, "experience_relevance": 2, "education_fit": 3, "additional_qualifications": 4}, "analysis": "ok"}`)
		So(llm.Violations(llm.SchemaRanking, obj), ShouldBeEmpty)
	})

	Convey("Missing and mistyped fields are listed", t, func() {
		obj, _ := llm.ParseObject(`{"overall_score": "high"}`)
		So(len(llm.Violations(llm.SchemaRanking, obj)), ShouldBeGreaterThanOrEqualTo, 2)
	})

	Convey("Unknown schemas report nothing", t, func() {
		So(llm.Violations("nope", map[string]any{}), ShouldBeNil)
	})
}

func TestClient(t *testing.T) {
	Convey("Given a client over a fake generator", t, func() {
		_ = logger.Init()
		ctx := context.Background()
		gen := &fakeGenerator{}
		client := llm.NewClient(gen)

		Convey("ExtractResume builds a normalized record at temperature 0", func() {
			gen.answer = "```json\n" + `{"personal_information": {"full_name": "Asha", "phone": "+91 98765 43210"}, "professional_summary": {"skills": ["Go"]}}` + "\n```"

			r, err := client.ExtractResume(ctx, "resume text")

			So(err, ShouldBeNil)
			So(r.PersonalInformation.FullName, ShouldEqual, "Asha")
			So(r.ProfessionalSummary.Skills, ShouldResemble, []string{"Go"})
			So(r.Experience, ShouldResemble, []model.Experience{})
			So(gen.temps, ShouldResemble, []float32{0})
			So(gen.prompts[0], ShouldEndWith, "resume text")
		})

		Convey("ExtractResume rejects an error-only or empty answer", func() {
			gen.answer = `{"error": "not a resume"}`
			_, err := client.ExtractResume(ctx, "x")
			So(errors.Is(err, llm.ErrNoResume), ShouldBeTrue)

			gen.answer = `{}`
			_, err = client.ExtractResume(ctx, "x")
			So(errors.Is(err, llm.ErrNoResume), ShouldBeTrue)
		})

		Convey("ExtractResume propagates transport failures", func() {
			gen.err = llm.ErrTimeout
			_, err := client.ExtractResume(ctx, "x")
			So(errors.Is(err, llm.ErrTimeout), ShouldBeTrue)
		})

		Convey("RankResume clamps and tolerates loose numbers", func() {
			gen.answer = `{"overall_score": 140, "criteria_scores": {"skills_match": "85", "experience_relevance": -3, "education_fit": 70.5}, "analysis": " solid "}`

			res, err := client.RankResume(ctx, "resume", "Go developer")

			So(err, ShouldBeNil)
			So(res.OverallScore, ShouldEqual, 100)
			So(res.CriteriaScores, ShouldResemble, model.CriteriaScores{SkillsMatch: 85, EducationFit: 70.5})
			So(res.Analysis, ShouldEqual, "solid")
			So(gen.temps, ShouldResemble, []float32{0.1})
			So(gen.prompts[0], ShouldContainSubstring, "Go developer")
		})

		Convey("RankResume fails on prose", func() {
			gen.answer = "I think this candidate is great."
			_, err := client.RankResume(ctx, "resume", "job")
			So(errors.Is(err, llm.ErrMalformed), ShouldBeTrue)
		})

		Convey("ScreeningQuestions keeps the first five usable strings", func() {
			gen.answer = `{"questions": ["Q1", " ", 7, "Q2", "Q3", "Q4", "Q5", "Q6"]}`
			r := model.Resume{
				PersonalInformation: model.PersonalInformation{FullName: "Asha"},
				ProfessionalSummary: model.ProfessionalSummary{Skills: []string{"Go", "SQL"}},
				Experience:          []model.Experience{{Company: "Acme", Role: "Engineer", Period: "2021-2024"}},
			}

			qs, err := client.ScreeningQuestions(ctx, r, "Backend role")

			So(err, ShouldBeNil)
			So(qs, ShouldResemble, []string{"Q1", "Q2", "Q3", "Q4", "Q5"})
			So(gen.temps, ShouldResemble, []float32{0.3})
			So(gen.prompts[0], ShouldContainSubstring, "Go, SQL")
			So(gen.prompts[0], ShouldContainSubstring, "Engineer at Acme")
		})

		Convey("ScreeningQuestions without usable entries fails", func() {
			for _, answer := range []string{`{"questions": []}`, `{"questions": "Q1"}`, `{"other": 1}`, `{"questions": [" ", null]}`} {
				gen.answer = answer
				_, err := client.ScreeningQuestions(ctx, model.Resume{}, "job")
				So(errors.Is(err, llm.ErrNoQuestions), ShouldBeTrue)
			}
		})
	})

	Convey("A client without a generator is not configured", t, func() {
		_ = logger.Init()
		client := llm.NewClient(nil)
		So(client.Configured(), ShouldBeFalse)

		_, err := client.RankResume(context.Background(), "r", "j")
		So(errors.Is(err, llm.ErrNotConfigured), ShouldBeTrue)
		So(llm.NewClient(&fakeGenerator{}).Configured(), ShouldBeTrue)
	})

	Convey("The Gemini generator needs an API key", t, func() {
		_, err := llm.NewGemini(context.Background(), "  ")
		So(errors.Is(err, llm.ErrNotConfigured), ShouldBeTrue)
	})
}

func TestPrompts(t *testing.T) {
	Convey("Extraction prompts ask for the record keys", t, func() {
		_ = logger.Init()
		gen := &fakeGenerator{answer: `{"personal_information": {}}`}
		_, _ = llm.NewClient(gen).ExtractResume(context.Background(), "text")
		for _, key := range []string{"personal_information", "college_university", "key_activities", "extracurricular_hobbies"} {
			So(strings.Contains(gen.prompts[0], key), ShouldBeTrue)
		}
	})
}
