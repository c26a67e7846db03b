package coaching

import (
	"regexp"
	"strings"
)

// Profession labels.
const (
	ProfessionNursing = "Nursing"
	ProfessionDataBI  = "Data/BI"
	ProfessionGeneral = "General"
)

// Domain match levels.
const (
	DomainHigh   = "High"
	DomainMedium = "Medium"
)

var (
	nursingSignals = regexp.MustCompile(`\b(registered nurse|ahpra|icu|ward|radiology|interventional|theatre|surgical|ed|emergency)\b`)
	dataSignals    = regexp.MustCompile(`\b(power bi|tableau|sql|dashboard|etl|data\s+model|dax|python)\b`)
)

// GuessProfession classifies text as Nursing, Data/BI or General. Nursing
// signals win when both are present.
func GuessProfession(text string) string {
	lc := strings.ToLower(text)
	switch {
	case nursingSignals.MatchString(lc):
		return ProfessionNursing
	case dataSignals.MatchString(lc):
		return ProfessionDataBI
	default:
		return ProfessionGeneral
	}
}

// DomainMatch is High when both professions agree, else Medium.
func DomainMatch(resumeProfession, jdProfession string) string {
	if resumeProfession == jdProfession {
		return DomainHigh
	}
	return DomainMedium
}

// bannedClaims are domain credentials a narrative may only mention when the
// résumé or JD does.
var bannedClaims = compileTerms(
	"ahpra",
	"registered nurse",
	"rn",
	"patient care",
	"medication administration",
	"aged care",
	"ndis",
	"police check",
	"working with children check",
)

func compileTerms(terms ...string) map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(terms))
	for _, t := range terms {
		out[t] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t) + `\b`)
	}
	return out
}

// FilterDomainClaims drops lines that mention a banned domain credential
// appearing in neither the résumé nor the JD. Terms match on word boundaries.
func FilterDomainClaims(lines []string, resume, jd string) []string {
	corpus := resume + " " + jd
	absent := make([]*regexp.Regexp, 0, len(bannedClaims))
	for _, re := range bannedClaims {
		if !re.MatchString(corpus) {
			absent = append(absent, re)
		}
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !mentionsAny(line, absent) {
			out = append(out, line)
		}
	}
	return out
}

func mentionsAny(line string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
