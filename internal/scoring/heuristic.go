package scoring

import (
	"github.com/jonathan/ats-scorer/internal/sections"
	"github.com/jonathan/ats-scorer/internal/types"
)

// HeuristicResult is the deterministic six-bucket score of a résumé.
type HeuristicResult struct {
	Buckets  []types.BucketScore `json:"buckets"`
	Score    int                 `json:"score"`
	Feedback []string            `json:"feedback"`
}

// Bucket returns the bucket with label, or the zero value.
func (h HeuristicResult) Bucket(label string) types.BucketScore {
	for _, b := range h.Buckets {
		if b.Label == label {
			return b
		}
	}
	return types.BucketScore{}
}

// ComputeHeuristic scores a résumé without a job description. It is pure:
// identical inputs give identical buckets and reasons.
func ComputeHeuristic(text string, flags types.SectionFlags) HeuristicResult {
	summary := sections.Extract(text, sections.KindSummary)
	skillsExcerpt := sections.Extract(text, sections.KindSkills)
	experience := sections.Extract(text, sections.KindExperience)

	buckets := []types.BucketScore{
		StructureBucket(flags),
		SummaryBucket(summary, skillsExcerpt),
		SkillsBucket(skillsExcerpt),
		ExperienceBucket(experience, text),
		EducationFlagBucket(flags),
		KeywordFloorBucket(text),
	}
	return HeuristicResult{
		Buckets:  buckets,
		Score:    Total(buckets),
		Feedback: FeedbackLines(buckets),
	}
}
