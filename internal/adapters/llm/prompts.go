package llm

import (
	"fmt"
	"strings"

	"github.com/okian/resumerank/internal/domain/model"
)

const extractionInstructions = `Extract the resume below into exactly this JSON structure and nothing else.
Fill every key with values found in the resume. Use "" for missing text, [] for
missing lists and {} for missing objects. Copy LinkedIn and GitHub profile URLs
in full, starting with "https://". When a project has no description, write a
short two or three line description from its title and technologies.

Answer with one JSON object, no markdown.

{
  "personal_information": {"full_name": "", "email": "", "phone": "", "location": "", "linkedin": "", "github": "", "date_of_birth": ""},
  "professional_summary": {"summary": "", "skills": [], "languages": []},
  "education": [{"degree": "", "college_university": "", "stream_field": "", "year_period": "", "grade_cgpa_percentage": ""}],
  "relevant_coursework": [],
  "experience": [{"company": "", "role": "", "period": "", "description": ""}],
  "projects": [{"project_title": "", "technologies_course_semester": "", "description": "", "url": "", "client_name": "", "start_end_date": "", "key_activities": [], "outcome_impact": "", "team_size": "", "budget_or_size": ""}],
  "certifications": [],
  "extracurricular_hobbies": []
}

If the text is not a resume or is unreadable, answer {"error": "<reason>"}.`

func extractionPrompt(text string) string {
	return extractionInstructions + "\n\nResume:\n" + text
}

func rankingPrompt(resumeText, jobDescription string) string {
	var b strings.Builder
	b.WriteString("Act as a senior recruiter. Score the resume against the job description.\n\n")
	b.WriteString("Job description:\n")
	b.WriteString(jobDescription)
	b.WriteString("\n\nResume:\n")
	b.WriteString(resumeText)
	b.WriteString(`

Rate each criterion from 0 to 100:
- skills_match: overlap between the candidate's skills and the requirements
- experience_relevance: relevance and depth of work history
- education_fit: alignment of education with the role
- additional_qualifications: certifications, projects and achievements

Answer with one JSON object, no markdown:
{"overall_score": 0, "criteria_scores": {"skills_match": 0, "experience_relevance": 0, "education_fit": 0, "additional_qualifications": 0}, "analysis": "two or three sentences on strengths and gaps"}`)
	return b.String()
}

func questionsPrompt(r model.Resume, jobDescription string) string {
	recent := "none listed"
	if len(r.Experience) > 0 {
		e := r.Experience[0]
		recent = fmt.Sprintf("%s at %s (%s)", e.Role, e.Company, e.Period)
	}
	name := r.PersonalInformation.FullName
	if name == "" {
		name = "the candidate"
	}
	return fmt.Sprintf(`Write screening questions for %s.

Job description:
%s

Key skills: %s
Most recent role: %s

Cover technical depth, motivation, team fit and claims worth verifying.
Answer with one JSON object, no markdown: {"questions": ["...", "..."]}`,
		name, jobDescription, strings.Join(r.TopSkills(questionSkills), ", "), recent)
}
