package scoring

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-scorer/internal/types"
)

// StudyFields are the disciplines a JD may name as preferred degrees.
var StudyFields = []string{"data science", "statistics", "mathematics", "computer science", "economics"}

var (
	tertiaryLanguage = regexp.MustCompile(`(?i)\b(tertiary|degree|bachelor|masters?|qualification)\b`)
	degreeLanguage   = regexp.MustCompile(`(?i)\b(bachelor|degree|diploma)\b`)
)

func fieldsIn(lc string) []string {
	var out []string
	for _, f := range StudyFields {
		if strings.Contains(lc, f) {
			out = append(out, f)
		}
	}
	return out
}

// EducationRelevance adjusts a starting education score for how well the
// résumé's education fits the JD:
//   - no education section: 0
//   - JD asks for a degree in named fields and the résumé names one: 10
//   - the résumé shows some degree but not a named field: at least 6
//   - the résumé shows no degree language: at most 4
//   - JD names no fields: at least 6
func EducationRelevance(flags types.SectionFlags, start int, resume, jd string) types.BucketScore {
	wantsDegree := tertiaryLanguage.MatchString(jd)
	if !flags.HasEducation {
		reasons := []string{"education missing"}
		if wantsDegree {
			reasons = append(reasons, "missing required degree")
		}
		return bucket(types.LabelEducation, 0, reasons...)
	}

	jdFields := fieldsIn(strings.ToLower(jd))
	cvLower := strings.ToLower(resume)
	if wantsDegree && len(jdFields) > 0 {
		switch {
		case len(fieldsIn(cvLower)) > 0:
			return bucket(types.LabelEducation, 10, "education present", "perfectly matches Job Description requirements")
		case degreeLanguage.MatchString(cvLower):
			return bucket(types.LabelEducation, max(start, 6), "education present", "partially relevant")
		default:
			return bucket(types.LabelEducation, min(start, 4), "education present", "missing required degree")
		}
	}
	return bucket(types.LabelEducation, max(start, 6), "education present", "partially relevant")
}
