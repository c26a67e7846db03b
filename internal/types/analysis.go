// Package types provides type definitions for structured data used throughout the ATS scoring system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Bucket labels, in display order.
const (
	LabelStructure  = "Structure"
	LabelSummary    = "Summary"
	LabelSkills     = "Skills"
	LabelExperience = "Experience"
	LabelEducation  = "Education"
	LabelKeywords   = "Keywords"
)

// BucketLabels lists the six ATS buckets in their fixed order.
var BucketLabels = []string{
	LabelStructure, LabelSummary, LabelSkills, LabelExperience, LabelEducation, LabelKeywords,
}

// BucketMax maps each bucket label to its maximum score. The maxes sum to 100.
var BucketMax = map[string]int{
	LabelStructure:  20,
	LabelSummary:    20,
	LabelSkills:     20,
	LabelExperience: 20,
	LabelEducation:  10,
	LabelKeywords:   10,
}

// SectionFlags represents whole-document section presence probes for a résumé
type SectionFlags struct {
	HasSummary    bool `json:"has_summary"`
	HasEducation  bool `json:"has_education"`
	HasSkills     bool `json:"has_skills"`
	HasExperience bool `json:"has_experience"`
	HasTools      bool `json:"has_tools"`
	HasProjects   bool `json:"has_projects"`
	HasContact    bool `json:"has_contact"`
	UsesBullets   bool `json:"uses_bullets"`
}

// BucketScore represents one scored ATS category
type BucketScore struct {
	Label   string   `json:"label"`
	Score   int      `json:"score"`
	Max     int      `json:"max"`
	Reasons []string `json:"reasons"`
}

// KeywordMatch represents the outcome of matching a JD dictionary against a résumé.
// Every PresentInJD token lands in exactly one of Matched, Partial or Missing.
type KeywordMatch struct {
	Matched     []string `json:"matched"`
	Partial     []string `json:"partial"`
	Missing     []string `json:"missing"`
	Pct         int      `json:"pct"`
	PresentInJD []string `json:"present_in_jd"`
}

// Excerpts holds the best-effort section slices of a résumé
type Excerpts struct {
	Summary    string `json:"summary"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
	Projects   string `json:"projects"`
}
