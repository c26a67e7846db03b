package coaching

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/ats-scorer/internal/types"
)

// MaxClinicalAdvice caps recommendations after clinical hints are added.
const MaxClinicalAdvice = 5

var clinicalJD = regexp.MustCompile(`(?i)\b(ahpra|registered\s+nurse|radiology|interventional|biops(y|ies)|lumbar\s+punctures?|drainages?|injections?|pain\s+management)\b`)

type clinicalHint struct {
	want  *regexp.Regexp
	have  *regexp.Regexp
	label string
}

var clinicalHints = []clinicalHint{
	{
		want:  regexp.MustCompile(`(?i)\bacute\b`),
		have:  regexp.MustCompile(`(?i)\b(ICU|intensive\s*care|acute|ED|emergency|ward)\b`),
		label: "Proven acute nursing experience",
	},
	{
		want:  regexp.MustCompile(`(?i)\b(multidisciplinary|team)\b`),
		have:  regexp.MustCompile(`(?i)\b(interprofessional|multi.?disciplinary|team(?:work| collaboration))\b|\bautonom(?:y|ous)\b`),
		label: "Demonstrated ability to work effectively and autonomously within a multidisciplinary team",
	},
	{
		want:  regexp.MustCompile(`(?i)\b(communication|interpersonal)\b`),
		have:  regexp.MustCompile(`(?i)\b(communication|liaison|education|informed\s+consent|documentation)\b`),
		label: "Strong interpersonal and communication skills",
	},
	{
		want:  regexp.MustCompile(`(?i)\b(time\s+management|organis(?:ation|ational))\b`),
		have:  regexp.MustCompile(`(?i)\b(prioriti[sz]e|organis(?:e|ed)|time\s+management)\b`),
		label: "Well-developed time management and organisational skills",
	},
	{
		want:  regexp.MustCompile(`(?i)\bflexible\s+roster\b`),
		have:  regexp.MustCompile(`(?i)\b(flexible\s+(?:roster|hours)|shift\s+work|weekend|on[-\s]?call)\b`),
		label: "Ability to work a flexible roster",
	},
	{
		want:  regexp.MustCompile(`(?i)\bAHPRA\b`),
		have:  regexp.MustCompile(`(?i)\bAHPRA\b|\bRegistered\s+Nurse\b`),
		label: "Full AHPRA Registration as a Registered Nurse",
	},
}

// IsClinicalJD reports whether jd reads like a clinical nursing role.
func IsClinicalJD(jd string) bool {
	return clinicalJD.MatchString(jd)
}

// applyClinical drops gaps the résumé already evidences and recommends
// proof for clinical requirements it does not.
func applyClinical(lists *types.AnalysisLists, jd, cv string) {
	if !IsClinicalJD(jd) {
		return
	}

	kept := lists.Gaps[:0]
	for _, gap := range lists.Gaps {
		if !evidencedGap(gap, cv) {
			kept = append(kept, gap)
		}
	}
	lists.Gaps = kept

	for _, h := range clinicalHints {
		if h.want.MatchString(jd) && !h.have.MatchString(cv) {
			advice := fmt.Sprintf("Add 1-2 bullets proving %q (concrete example preferred).", h.label)
			lists.Recommendations = capped(UniqNorm(append(lists.Recommendations, advice)), MaxClinicalAdvice)
		}
	}
}

func evidencedGap(gap, cv string) bool {
	lc := strings.ToLower(gap)
	for _, h := range clinicalHints {
		if strings.Contains(lc, strings.ToLower(h.label)) && h.have.MatchString(cv) {
			return true
		}
	}
	return false
}
