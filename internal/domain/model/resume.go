// Package model contains domain models passed between layers.
package model

import "time"

// DefaultCandidateName is shown when a record carries no name.
const DefaultCandidateName = "Unknown"

// Resume is the normalized structured representation of one uploaded document.
type Resume struct {
	ID                     string              `bson:"_id,omitempty" json:"_id,omitempty"`
	PersonalInformation    PersonalInformation `bson:"personal_information" json:"personal_information"`
	ProfessionalSummary    ProfessionalSummary `bson:"professional_summary" json:"professional_summary"`
	Education              []Education         `bson:"education" json:"education"`
	RelevantCoursework     []string            `bson:"relevant_coursework" json:"relevant_coursework"`
	Experience             []Experience        `bson:"experience" json:"experience"`
	Projects               []Project           `bson:"projects" json:"projects"`
	Certifications         []string            `bson:"certifications" json:"certifications"`
	ExtracurricularHobbies []string            `bson:"extracurricular_hobbies" json:"extracurricular_hobbies"`

	// Provenance.
	OriginalText string    `bson:"original_text" json:"original_text"`
	UploadedBy   string    `bson:"uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time `bson:"uploaded_at" json:"uploaded_at"`
	FileName     string    `bson:"file_name" json:"file_name"`
	FileType     string    `bson:"file_type" json:"file_type"`
}

// PersonalInformation holds contact details. Contact fields are either
// well-formed or empty.
type PersonalInformation struct {
	FullName    string `bson:"full_name" json:"full_name"`
	Email       string `bson:"email" json:"email"`
	Phone       string `bson:"phone" json:"phone"`
	Location    string `bson:"location" json:"location"`
	LinkedIn    string `bson:"linkedin" json:"linkedin"`
	GitHub      string `bson:"github" json:"github"`
	DateOfBirth string `bson:"date_of_birth" json:"date_of_birth"`
}

type ProfessionalSummary struct {
	Summary   string   `bson:"summary" json:"summary"`
	Skills    []string `bson:"skills" json:"skills"`
	Languages []string `bson:"languages" json:"languages"`
}

type Education struct {
	Degree              string `bson:"degree" json:"degree"`
	CollegeUniversity   string `bson:"college_university" json:"college_university"`
	StreamField         string `bson:"stream_field" json:"stream_field"`
	YearPeriod          string `bson:"year_period" json:"year_period"`
	GradeCGPAPercentage string `bson:"grade_cgpa_percentage" json:"grade_cgpa_percentage"`
}

type Experience struct {
	Company     string `bson:"company" json:"company"`
	Role        string `bson:"role" json:"role"`
	Period      string `bson:"period" json:"period"`
	Description string `bson:"description" json:"description"`
}

type Project struct {
	ProjectTitle               string      `bson:"project_title" json:"project_title"`
	TechnologiesCourseSemester string      `bson:"technologies_course_semester" json:"technologies_course_semester"`
	Description                string      `bson:"description" json:"description"`
	URL                        string      `bson:"url" json:"url"`
	ClientName                 string      `bson:"client_name" json:"client_name"`
	StartEndDate               string      `bson:"start_end_date" json:"start_end_date"`
	KeyActivities              []string    `bson:"key_activities" json:"key_activities"`
	OutcomeImpact              string      `bson:"outcome_impact" json:"outcome_impact"`
	TeamSize                   string      `bson:"team_size" json:"team_size"`
	BudgetOrSize               string      `bson:"budget_or_size" json:"budget_or_size"`
	Certificate                Certificate `bson:"certificate" json:"certificate"`
}

// Certificate links a stored certificate file to a project. The zero value
// means no certificate has been uploaded.
type Certificate struct {
	FileName   string `bson:"file_name" json:"file_name"`
	FilePath   string `bson:"file_path" json:"file_path"`
	UploadedAt string `bson:"uploaded_at" json:"uploaded_at"`
}

// Links are hyperlinks scraped from the document itself, independent of the
// model's reading of it.
type Links struct {
	LinkedIn string
	GitHub   string
}

func (r Resume) SkillCount() int      { return len(r.ProfessionalSummary.Skills) }
func (r Resume) ExperienceCount() int { return len(r.Experience) }
func (r Resume) EducationCount() int  { return len(r.Education) }

// CandidateName returns the full name or DefaultCandidateName.
func (r Resume) CandidateName() string {
	if r.PersonalInformation.FullName == "" {
		return DefaultCandidateName
	}
	return r.PersonalInformation.FullName
}

// FirstDegree returns the degree of the first education entry, if any.
func (r Resume) FirstDegree() string {
	if len(r.Education) == 0 {
		return ""
	}
	return r.Education[0].Degree
}

// TopSkills returns at most n skills in listed order.
func (r Resume) TopSkills(n int) []string {
	skills := r.ProfessionalSummary.Skills
	if n >= 0 && len(skills) > n {
		skills = skills[:n]
	}
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}

// HasProject reports whether any project carries the given title.
func (r Resume) HasProject(title string) bool {
	for _, p := range r.Projects {
		if p.ProjectTitle == title {
			return true
		}
	}
	return false
}
