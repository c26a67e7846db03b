package sections

import "regexp"

// Kind names an extractable résumé section.
type Kind string

const (
	KindSummary    Kind = "summary"
	KindSkills     Kind = "skills"
	KindExperience Kind = "experience"
	KindEducation  Kind = "education"
	KindProjects   Kind = "projects"
)

// Kinds lists every section kind.
var Kinds = []Kind{KindSummary, KindSkills, KindExperience, KindEducation, KindProjects}

const (
	summaryLabels    = `professional\s+summary|summary|profile|objective`
	experienceLabels = `experience|work\s+experience|employment|work\s+history|professional\s+experience|clinical\s+experience`
	skillsLabels     = `skills?|key\s+skills|technical\s+skills|competenc(?:y|ies)|core\s+skills|technical\s+proficiencies|tools\s*&?\s*technologies|tech\s+stack|capabilit(?:y|ies)|demonstrated\s+capabilities\s+and\s+skills`
	educationLabels  = `education|academic|qualifications?|certifications?|training|courses?|professional\s+development`
	projectsLabels   = `projects?|key\s+projects|selected\s+projects|case\s+stud(?:y|ies)|engagements?|assignments?|list\s+of\s+projects|worked\s+on\s+projects?`
	trailingLabels   = `awards?|publications?|interests?|hobbies|references?`
)

// heading matches labels standing alone on a line, with an optional colon.
func heading(labels string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|\n)\s*(?:` + labels + `)\s*:?\s*(?:\n|$)`)
}

var startHeadings = map[Kind]*regexp.Regexp{
	KindSummary:    heading(summaryLabels),
	KindExperience: heading(experienceLabels),
	KindSkills:     heading(skillsLabels),
	KindEducation:  heading(educationLabels),
	KindProjects:   regexp.MustCompile(`(?i)(?:^|\n)\s*(?:[-•]\s*)?(?:` + projectsLabels + `)\s*:?\s*(?:\n|$)`),
}

// stopHeadings end a section slice.
var stopHeadings = []*regexp.Regexp{
	heading(summaryLabels),
	heading(experienceLabels),
	heading(skillsLabels),
	heading(educationLabels),
	heading(projectsLabels),
	heading(trailingLabels),
}
