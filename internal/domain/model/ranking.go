package model

import "time"

// RankingFailureAnalysis is the analysis text of a default ranking.
const RankingFailureAnalysis = "Error occurred during ranking analysis"

// CriteriaScores are the four named 0-100 sub-scores of a ranking.
type CriteriaScores struct {
	SkillsMatch              float64 `json:"skills_match"`
	ExperienceRelevance      float64 `json:"experience_relevance"`
	EducationFit             float64 `json:"education_fit"`
	AdditionalQualifications float64 `json:"additional_qualifications"`
}

// RankingResult is the model's job-fit judgement for one resume. It is never
// persisted.
type RankingResult struct {
	OverallScore   float64        `json:"overall_score"`
	CriteriaScores CriteriaScores `json:"criteria_scores"`
	Analysis       string         `json:"analysis"`
}

// DefaultRanking is substituted when a resume could not be ranked.
func DefaultRanking() RankingResult {
	return RankingResult{Analysis: RankingFailureAnalysis}
}

// RankedCandidate is one row of a ranking response.
type RankedCandidate struct {
	ResumeID        string         `json:"resume_id"`
	CandidateName   string         `json:"candidate_name"`
	CandidateEmail  string         `json:"candidate_email"`
	OverallScore    float64        `json:"overall_score"`
	CriteriaScores  CriteriaScores `json:"criteria_scores"`
	Analysis        string         `json:"analysis"`
	Skills          []string       `json:"skills"`
	ExperienceYears int            `json:"experience_years"`
	Education       string         `json:"education"`
	UploadedAt      time.Time      `json:"uploaded_at"`
}

// NewRankedCandidate joins a resume with its ranking.
func NewRankedCandidate(r Resume, res RankingResult) RankedCandidate {
	return RankedCandidate{
		ResumeID:        r.ID,
		CandidateName:   r.CandidateName(),
		CandidateEmail:  r.PersonalInformation.Email,
		OverallScore:    res.OverallScore,
		CriteriaScores:  res.CriteriaScores,
		Analysis:        res.Analysis,
		Skills:          r.TopSkills(5),
		ExperienceYears: r.ExperienceCount(),
		Education:       r.FirstDegree(),
		UploadedAt:      r.UploadedAt,
	}
}

var defaultQuestions = []string{
	"Tell us about your relevant experience for this role.",
	"What interests you most about this position?",
	"How do you stay updated with industry trends?",
	"Describe a challenging project you've worked on.",
	"How do you handle tight deadlines and pressure?",
}

// DefaultScreeningQuestions is the canned list used when no questions could
// be generated.
func DefaultScreeningQuestions() []string {
	out := make([]string, len(defaultQuestions))
	copy(out, defaultQuestions)
	return out
}
