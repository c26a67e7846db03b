// Package sections detects résumé sections and slices their text out using an
// ordered chain of extraction strategies.
package sections

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-scorer/internal/types"
)

var (
	summaryProbe    = regexp.MustCompile(`\bsummary\b|\bobjective\b|\bprofile\b|professional summary`)
	educationProbe  = regexp.MustCompile(`education|academic|qualification|degree|certificate|university|college`)
	skillsProbe     = regexp.MustCompile(`\bskills?\b|competenc|technical skills|core skills|tools|technologies`)
	experienceProbe = regexp.MustCompile(`(?i)(?:^|\n)\s*(?:experience|work experience|employment|work history|professional experience|clinical experience|demonstrated\s+capabilit(?:y|ies))`)
	toolsProbe      = regexp.MustCompile(`tools|technologies|software|technical proficiencies`)
	projectsProbe   = regexp.MustCompile(`project|case stud(?:y|ies)|implementation|engagements?`)
	contactProbe    = regexp.MustCompile(`phone|mobile|tel|email|@|linkedin\.com|address|\b\d{3,}\s+\w+ (?:st|rd|ave|road)\b`)
	bulletProbe     = regexp.MustCompile(`•|\*|-|\d\.`)
)

// DetectFlags probes the whole document once per section. The probes are
// coarser than Extract: a word anywhere in the text is enough.
func DetectFlags(text string) types.SectionFlags {
	lc := strings.ToLower(text)
	return types.SectionFlags{
		HasSummary:    summaryProbe.MatchString(lc),
		HasEducation:  educationProbe.MatchString(lc),
		HasSkills:     skillsProbe.MatchString(lc),
		HasExperience: experienceProbe.MatchString(text),
		HasTools:      toolsProbe.MatchString(lc),
		HasProjects:   projectsProbe.MatchString(lc),
		HasContact:    contactProbe.MatchString(lc),
		UsesBullets:   bulletProbe.MatchString(text),
	}
}
