package scoring

import "github.com/jonathan/ats-scorer/internal/types"

// Trust says how far an externally supplied bucket score is believed.
type Trust string

const (
	// Recompute ignores the external bucket entirely.
	Recompute Trust = "recompute"
	// ExternalIfNonZero keeps a non-zero external score but always
	// recomputes the reasons.
	ExternalIfNonZero Trust = "external_if_nonzero"
	// RelevanceBlend starts from the external score and adjusts it for
	// JD relevance.
	RelevanceBlend Trust = "relevance_blend"
)

// TrustPolicy maps each bucket label to its Trust level. Labels missing
// from the map are recomputed.
type TrustPolicy map[string]Trust

// DefaultTrustPolicy never trusts the external source on buckets that depend
// on text it may not have seen verbatim.
func DefaultTrustPolicy() TrustPolicy {
	return TrustPolicy{
		types.LabelStructure:  Recompute,
		types.LabelSummary:    Recompute,
		types.LabelKeywords:   Recompute,
		types.LabelSkills:     ExternalIfNonZero,
		types.LabelExperience: ExternalIfNonZero,
		types.LabelEducation:  RelevanceBlend,
	}
}

func (p TrustPolicy) level(label string) Trust {
	if t, ok := p[label]; ok {
		return t
	}
	return Recompute
}
