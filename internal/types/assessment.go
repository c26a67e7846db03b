package types

// ModelAssessment represents the advisory evaluation returned by the external model.
// None of it is trusted without reconciliation.
type ModelAssessment struct {
	Analysis   AnalysisLists `json:"analysis"`
	ResumePack ResumePack    `json:"resume_pack"`
	Scores     ModelScores   `json:"scores"`
}

// AnalysisLists represents the coaching prose lists shown to the user
type AnalysisLists struct {
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
	OverallSummary  string   `json:"overall_summary,omitempty"`
}

// ResumePack represents structured résumé content extracted by the model
type ResumePack struct {
	ProfessionalSummary    string            `json:"professional_summary"`
	KeySkills              []string          `json:"key_skills"`
	ToolsAndTechnologies   []string          `json:"tools_and_technologies"`
	ProfessionalExperience []ExperienceEntry `json:"professional_experience"`
	KeyProjects            []ProjectEntry    `json:"key_projects"`
	Education              []EducationEntry  `json:"education_and_certification"`
}

// ExperienceEntry represents one role in the résumé
type ExperienceEntry struct {
	Employer string   `json:"employer"`
	Title    string   `json:"title"`
	Location string   `json:"location,omitempty"`
	Start    string   `json:"start,omitempty"`
	End      string   `json:"end,omitempty"`
	Bullets  []string `json:"bullets"`
}

// ProjectEntry represents a key project
type ProjectEntry struct {
	Name    string   `json:"name"`
	Context string   `json:"context,omitempty"`
	Tools   []string `json:"tools,omitempty"`
	Bullets []string `json:"bullets"`
}

// EducationEntry represents a degree or certification
type EducationEntry struct {
	Name        string `json:"name"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// ModelScores represents the model's numeric claims
type ModelScores struct {
	ATS   ModelATS   `json:"ats"`
	Match ModelMatch `json:"match"`
}

// ModelATS represents the model's ATS score and six-bucket breakdown
type ModelATS struct {
	Score     *int          `json:"score,omitempty"`
	Breakdown []BucketScore `json:"breakdown"`
	Feedback  []string      `json:"feedback"`
}

// ModelMatch represents the model's job-fit score
type ModelMatch struct {
	Score                 *int     `json:"score,omitempty"`
	MatchedSkills         []string `json:"matched_skills"`
	MissingSkills         []string `json:"missing_skills"`
	CriticalMissingSkills []string `json:"critical_missing_skills"`
}
