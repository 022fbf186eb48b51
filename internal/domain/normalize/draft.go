// Package normalize turns the language model's loosely typed resume draft into
// a complete, strongly typed record and repairs its contact fields.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okian/resumerank/internal/domain/model"
	"github.com/spf13/cast"
)

// Parse decodes a JSON payload and builds a record from it. It fails only when
// the payload is not a JSON object; anything inside the object that is
// missing, null or mistyped becomes the field's empty value.
func Parse(payload []byte) (model.Resume, error) {
	var draft map[string]any
	if err := json.Unmarshal(payload, &draft); err != nil {
		return model.Resume{}, fmt.Errorf("%w: %w", ErrNotObject, err)
	}
	if draft == nil {
		return model.Resume{}, ErrNotObject
	}
	return FromMap(draft), nil
}

// FromMap builds a record from an already decoded draft. Provenance fields are
// left empty for the caller to fill.
func FromMap(draft map[string]any) model.Resume {
	pi := object(draft, "personal_information")
	ps := object(draft, "professional_summary")

	r := model.Resume{
		PersonalInformation: model.PersonalInformation{
			FullName:    text(pi, "full_name"),
			Email:       text(pi, "email"),
			Phone:       text(pi, "phone"),
			Location:    text(pi, "location"),
			LinkedIn:    text(pi, "linkedin"),
			GitHub:      text(pi, "github"),
			DateOfBirth: text(pi, "date_of_birth"),
		},
		ProfessionalSummary: model.ProfessionalSummary{
			Summary:   text(ps, "summary"),
			Skills:    texts(ps, "skills"),
			Languages: texts(ps, "languages"),
		},
		RelevantCoursework:     texts(draft, "relevant_coursework"),
		Certifications:         texts(draft, "certifications"),
		ExtracurricularHobbies: texts(draft, "extracurricular_hobbies"),
	}

	for _, e := range objects(draft, "education") {
		r.Education = append(r.Education, model.Education{
			Degree:              text(e, "degree"),
			CollegeUniversity:   text(e, "college_university"),
			StreamField:         text(e, "stream_field"),
			YearPeriod:          text(e, "year_period"),
			GradeCGPAPercentage: text(e, "grade_cgpa_percentage"),
		})
	}
	for _, e := range objects(draft, "experience") {
		r.Experience = append(r.Experience, model.Experience{
			Company:     text(e, "company"),
			Role:        text(e, "role"),
			Period:      text(e, "period"),
			Description: text(e, "description"),
		})
	}
	for _, p := range objects(draft, "projects") {
		cert := object(p, "certificate")
		r.Projects = append(r.Projects, model.Project{
			ProjectTitle:               text(p, "project_title"),
			TechnologiesCourseSemester: text(p, "technologies_course_semester"),
			Description:                text(p, "description"),
			URL:                        text(p, "url"),
			ClientName:                 text(p, "client_name"),
			StartEndDate:               text(p, "start_end_date"),
			KeyActivities:              texts(p, "key_activities"),
			OutcomeImpact:              text(p, "outcome_impact"),
			TeamSize:                   text(p, "team_size"),
			BudgetOrSize:               text(p, "budget_or_size"),
			Certificate: model.Certificate{
				FileName:   text(cert, "file_name"),
				FilePath:   text(cert, "file_path"),
				UploadedAt: text(cert, "uploaded_at"),
			},
		})
	}
	return Fill(r)
}

// text reads a scalar. Objects and lists are not scalars and read as "".
func text(m map[string]any, key string) string {
	return scalar(m[key])
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case map[string]any, map[any]any, []any:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// listItemKeys name the field read from an object found where a string list
// item was expected, e.g. {"name": "AWS SAA", "issuer": "Amazon"}.
var listItemKeys = []string{"name", "title", "certification", "skill", "language"}

// texts reads a list of strings, dropping blank and unusable items.
func texts(m map[string]any, key string) []string {
	out := []string{}
	items, err := list(m[key])
	if err != nil {
		return out
	}
	for _, item := range items {
		s := scalar(item)
		if obj, ok := asObject(item); ok {
			for _, k := range listItemKeys {
				if s = text(obj, k); s != "" {
					break
				}
			}
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func list(v any) ([]any, error) {
	if v == nil {
		return nil, ErrNotList
	}
	if _, isString := v.(string); isString {
		return nil, ErrNotList
	}
	return cast.ToSliceE(v)
}

// object reads a nested object; anything else reads as an empty object.
func object(m map[string]any, key string) map[string]any {
	if obj, ok := asObject(m[key]); ok {
		return obj
	}
	return map[string]any{}
}

func asObject(v any) (map[string]any, bool) {
	switch v.(type) {
	case map[string]any, map[any]any:
		obj, err := cast.ToStringMapE(v)
		return obj, err == nil
	}
	return nil, false
}

// objects reads a list of objects, skipping items that are not objects.
func objects(m map[string]any, key string) []map[string]any {
	items, err := list(m[key])
	if err != nil {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := asObject(item); ok {
			out = append(out, obj)
		}
	}
	return out
}
