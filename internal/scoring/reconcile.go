package scoring

import (
	"github.com/jonathan/ats-scorer/internal/types"
)

// Inputs carries everything the reconciler may consult.
type Inputs struct {
	// External is the model's ATS claim; nil when the model was not used.
	External          *types.ModelATS
	Match             types.KeywordMatch
	Flags             types.SectionFlags
	SummaryExcerpt    string
	SkillsExcerpt     string
	ExperienceExcerpt string
	ResumeText        string
	JobDescription    string
}

// Reconciled is the final six-bucket ATS result.
type Reconciled struct {
	Buckets      []types.BucketScore `json:"buckets"`
	Feedback     []string            `json:"feedback"`
	Score        int                 `json:"score"`
	UsedExternal bool                `json:"used_external"`
}

// Reconciler merges external bucket claims with deterministic recomputation.
type Reconciler struct {
	Policy TrustPolicy
}

// NewReconciler creates a Reconciler. A nil policy selects DefaultTrustPolicy.
func NewReconciler(policy TrustPolicy) *Reconciler {
	if policy == nil {
		policy = DefaultTrustPolicy()
	}
	return &Reconciler{Policy: policy}
}

// Reconcile reconciles in using DefaultTrustPolicy.
func Reconcile(in Inputs) Reconciled {
	return NewReconciler(nil).Reconcile(in)
}

// Reconcile always returns the six buckets in fixed order with canonical
// maxes. Each feedback line is regenerated from its final bucket.
func (r *Reconciler) Reconcile(in Inputs) Reconciled {
	external := normalizeExternal(in.External)
	local := r.localBuckets(in)

	buckets := make([]types.BucketScore, 0, len(types.BucketLabels))
	for _, label := range types.BucketLabels {
		ext, hasExt := external[label]
		loc := local[label]

		switch r.Policy.level(label) {
		case ExternalIfNonZero:
			if hasExt && ext.Score > 0 {
				loc.Score = ext.Score
			}
			buckets = append(buckets, loc)
		case RelevanceBlend:
			start := EducationFlagBucket(in.Flags).Score
			if hasExt {
				start = ext.Score
			}
			buckets = append(buckets, EducationRelevance(in.Flags, start, in.ResumeText, in.JobDescription))
		default:
			buckets = append(buckets, loc)
		}
	}

	score := Total(buckets)
	usedExternal := in.External != nil
	if usedExternal && in.External.Score != nil && *in.External.Score >= 0 && *in.External.Score <= 100 {
		score = *in.External.Score
	}
	return Reconciled{
		Buckets:      buckets,
		Feedback:     FeedbackLines(buckets),
		Score:        score,
		UsedExternal: usedExternal,
	}
}

func (r *Reconciler) localBuckets(in Inputs) map[string]types.BucketScore {
	return map[string]types.BucketScore{
		types.LabelStructure:  StructureBucket(in.Flags),
		types.LabelSummary:    SummaryBucket(in.SummaryExcerpt, in.SkillsExcerpt),
		types.LabelSkills:     SkillsBucket(in.SkillsExcerpt),
		types.LabelExperience: ExperienceBucket(in.ExperienceExcerpt, in.ResumeText),
		types.LabelEducation:  EducationFlagBucket(in.Flags),
		types.LabelKeywords:   KeywordsBucket(in.Match),
	}
}

// normalizeExternal keeps the first entry for each known label, clamps the
// score into [0,100] and the max into [1,100], then rescales the score onto
// the canonical max.
func normalizeExternal(ext *types.ModelATS) map[string]types.BucketScore {
	out := make(map[string]types.BucketScore)
	if ext == nil {
		return out
	}
	for _, b := range ext.Breakdown {
		canonMax, known := types.BucketMax[b.Label]
		if !known {
			continue
		}
		if _, dup := out[b.Label]; dup {
			continue
		}
		extMax := clamp(b.Max, 1, 100)
		score := clamp(b.Score, 0, 100)
		scaled := clamp(round(float64(score)*float64(canonMax)/float64(extMax)), 0, canonMax)
		out[b.Label] = types.BucketScore{Label: b.Label, Score: scaled, Max: canonMax, Reasons: b.Reasons}
	}
	return out
}
