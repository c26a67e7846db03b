package types

import (
	"time"

	"github.com/google/uuid"
)

// Report represents the full result of one résumé/JD analysis
type Report struct {
	ID          uuid.UUID     `json:"id"`
	JobTitle    string        `json:"job_title,omitempty"`
	CompanyName string        `json:"company_name,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Scores      ReportScores  `json:"scores"`
	Breakdown   []BucketScore `json:"breakdown"`
	Feedback    []string      `json:"feedback"`
	Keywords    KeywordReport `json:"keywords"`
	Flags       SectionFlags  `json:"flags"`
	Skills      []string      `json:"skills"`
	Analysis    AnalysisLists `json:"analysis"`
	Meta        Meta          `json:"meta"`
}

// ReportScores represents the top-line scores, each in [0,100]
type ReportScores struct {
	ATS     int `json:"ats"`
	JobFit  int `json:"job_fit"`
	Overall int `json:"overall"`
}

// KeywordReport represents the dictionary match plus its display-filtered lists
type KeywordReport struct {
	KeywordMatch
	DisplayMatched []string `json:"display_matched"`
	DisplayMissing []string `json:"display_missing"`
}

// Meta represents diagnostic information about an analysis
type Meta struct {
	ProfessionResume string `json:"profession_resume"`
	ProfessionJD     string `json:"profession_jd"`
	DomainMatch      string `json:"domain_match"`
	ModelUsed        bool   `json:"model_used"`
	SemanticUsed     bool   `json:"semantic_used"`
	DictionarySize   int    `json:"dictionary_size"`
	ResumeWords      int    `json:"resume_words"`
	// HeuristicATS is the job-independent heuristic score before reconciliation.
	HeuristicATS int `json:"heuristic_ats"`
}

// AnalysisSummary represents one row of stored analysis history
type AnalysisSummary struct {
	ID          uuid.UUID `json:"id"`
	JobTitle    string    `json:"job_title,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	ATS         int       `json:"ats"`
	JobFit      int       `json:"job_fit"`
	Overall     int       `json:"overall"`
	CreatedAt   time.Time `json:"created_at"`
}
