package llm

import (
	"github.com/xeipuuv/gojsonschema"
)

// Schema names used in metrics and logs.
const (
	SchemaResume  = "resume"
	SchemaRanking = "ranking"
)

// Shapes the model is asked for. Violations are reported, never fatal: the
// normalizer and the ranking decoder tolerate missing or mistyped fields.
const resumeSchema = `{
  "type": "object",
  "required": ["personal_information", "professional_summary", "education", "experience"],
  "properties": {
    "personal_information": {
      "type": "object",
      "properties": {
        "full_name": {"type": ["string", "null"]},
        "email": {"type": ["string", "null"]},
        "phone": {"type": ["string", "number", "null"]},
        "location": {"type": ["string", "null"]},
        "linkedin": {"type": ["string", "null"]},
        "github": {"type": ["string", "null"]},
        "date_of_birth": {"type": ["string", "null"]}
      }
    },
    "professional_summary": {
      "type": "object",
      "properties": {
        "summary": {"type": ["string", "null"]},
        "skills": {"type": "array"},
        "languages": {"type": "array"}
      }
    },
    "education": {"type": "array", "items": {"type": "object"}},
    "relevant_coursework": {"type": "array"},
    "experience": {"type": "array", "items": {"type": "object"}},
    "projects": {"type": "array", "items": {"type": "object"}},
    "certifications": {"type": "array"},
    "extracurricular_hobbies": {"type": "array"}
  }
}`

const rankingSchema = `{
  "type": "object",
  "required": ["overall_score", "criteria_scores", "analysis"],
  "properties": {
    "overall_score": {"type": "number", "minimum": 0, "maximum": 100},
    "criteria_scores": {
      "type": "object",
      "required": ["skills_match", "experience_relevance", "education_fit", "additional_qualifications"],
      "properties": {
        "skills_match": {"type": "number"},
        "experience_relevance": {"type": "number"},
        "education_fit": {"type": "number"},
        "additional_qualifications": {"type": "number"}
      }
    },
    "analysis": {"type": "string"}
  }
}`

var schemas = map[string]*gojsonschema.Schema{
	SchemaResume:  mustSchema(resumeSchema),
	SchemaRanking: mustSchema(rankingSchema),
}

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}

// Violations lists the ways obj departs from the named schema.
func Violations(name string, obj map[string]any) []string {
	s, ok := schemas[name]
	if !ok {
		return nil
	}
	res, err := s.Validate(gojsonschema.NewGoLoader(obj))
	if err != nil {
		return []string{err.Error()}
	}
	if res.Valid() {
		return nil
	}
	out := make([]string, len(res.Errors()))
	for i, desc := range res.Errors() {
		out[i] = desc.String()
	}
	return out
}
