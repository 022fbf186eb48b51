package normalize

import "github.com/okian/resumerank/internal/domain/model"

// Record repairs contact fields and fills every list so the record matches
// the fixed schema. It never fails: invalid values are cleared, and applying
// it to its own output changes nothing.
func Record(r model.Resume, links model.Links) model.Resume {
	r = Fill(r)

	pi := &r.PersonalInformation
	pi.Email = Email(pi.Email)
	pi.Phone = Phone(pi.Phone)
	pi.DateOfBirth = DateOfBirth(pi.DateOfBirth)
	pi.LinkedIn = ProfileURL(pi.LinkedIn, links.LinkedIn, LinkedInDomain)
	pi.GitHub = ProfileURL(pi.GitHub, links.GitHub, GitHubDomain)
	return r
}

// Fill replaces nil lists with empty ones, including those nested in
// projects and the professional summary. Records read back from a store go
// through Fill before they are served.
func Fill(r model.Resume) model.Resume {
	r.ProfessionalSummary.Skills = nonNil(r.ProfessionalSummary.Skills)
	r.ProfessionalSummary.Languages = nonNil(r.ProfessionalSummary.Languages)
	r.RelevantCoursework = nonNil(r.RelevantCoursework)
	r.Certifications = nonNil(r.Certifications)
	r.ExtracurricularHobbies = nonNil(r.ExtracurricularHobbies)

	if r.Education == nil {
		r.Education = []model.Education{}
	}
	if r.Experience == nil {
		r.Experience = []model.Experience{}
	}
	if r.Projects == nil {
		r.Projects = []model.Project{}
	}
	projects := make([]model.Project, len(r.Projects))
	for i, p := range r.Projects {
		p.KeyActivities = nonNil(p.KeyActivities)
		projects[i] = p
	}
	r.Projects = projects
	return r
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
