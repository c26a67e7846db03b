// Package scoring computes the six-bucket ATS heuristic and reconciles it with
// an optional externally supplied breakdown.
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/ats-scorer/internal/skills"
	"github.com/jonathan/ats-scorer/internal/textnorm"
	"github.com/jonathan/ats-scorer/internal/types"
)

const (
	structureRawMax = 25
	skillsSaturate  = 12
	broadSkills     = 8
	keywordFloorMax = 7
	keywordFloorHit = 7
	keywordFloorLow = 3
)

var (
	yearsPhrase   = regexp.MustCompile(`\b\d+\s*(\+|plus)?\s*(years?|yrs?)\b`)
	summaryMetric = regexp.MustCompile(`(?i)(\$[\d,]+|\d+(?:\.\d+)?%|\b\d{1,3}(?:,\d{3})+\b|\b\d+(?:\.\d+)?\s+(?:hours?|days?|weeks?|months?)\b)`)
	actionVerbs   = regexp.MustCompile(`\b(le(?:d|ad)|manag|coordinat|implement|develop|optimis|streamlin|reduce|increase|improve|save|administer|perform|monitor|train|mentor)\w*`)
	// currency, percentages, grouped numbers, durations and team sizes
	experienceMetric = regexp.MustCompile(`\$[\d,]+|\d+(?:\.\d+)?%|\b\d{1,3}(?:,\d{3})+\b|\b\d+(?:\.\d+)?\s+(?:hours?|days?|weeks?|months?|years?)\b|\bteams?\s+of\s+\d+\b`)
	coreTools        = regexp.MustCompile(`(?i)\b(sql|excel|tableau|power\s*bi|python|looker|snowflake|redshift|bigquery)\b`)
	standaloneR      = regexp.MustCompile(`(^|[^A-Za-z])R([^A-Za-z]|$)`)
	wordChars        = regexp.MustCompile(`^\w+$`)
)

func bucket(label string, score int, reasons ...string) types.BucketScore {
	maxScore := types.BucketMax[label]
	return types.BucketScore{
		Label:   label,
		Score:   clamp(score, 0, maxScore),
		Max:     maxScore,
		Reasons: reasons,
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func round(f float64) int {
	return int(math.Round(f))
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

// StructureRaw sums the section point values (Summary 6, Experience 8,
// Skills 6, Education 6, Tools 4, Projects 4, Contact 4), capped at 25.
func StructureRaw(flags types.SectionFlags) int {
	points := 0
	for _, p := range []struct {
		on  bool
		val int
	}{
		{flags.HasSummary, 6},
		{flags.HasExperience, 8},
		{flags.HasSkills, 6},
		{flags.HasEducation, 6},
		{flags.HasTools, 4},
		{flags.HasProjects, 4},
		{flags.HasContact, 4},
	} {
		if p.on {
			points += p.val
		}
	}
	return min(points, structureRawMax)
}

// StructureBucket rescales StructureRaw onto 0-20.
func StructureBucket(flags types.SectionFlags) types.BucketScore {
	score := round(float64(StructureRaw(flags)) / structureRawMax * 20)
	return bucket(types.LabelStructure, score,
		pick(flags.HasSummary, "has summary", "missing summary"),
		pick(flags.HasExperience, "has experience", "missing experience"),
		pick(flags.HasSkills, "has skills", "missing skills"),
		pick(flags.HasEducation, "has education", "missing education"),
		pick(flags.HasContact, "contact info present", "no contact info"),
		pick(flags.UsesBullets, "uses bullets", "no bullets"),
	)
}

// SummaryBucket awards 5 points each for a non-empty summary, a
// years-of-experience phrase, a quantified outcome and a mention of one of
// the résumé's own skills.
func SummaryBucket(summary, skillsExcerpt string) types.BucketScore {
	hasSummary := strings.TrimSpace(summary) != ""
	hasYears := yearsPhrase.MatchString(strings.ToLower(summary))
	hasMetric := summaryMetric.MatchString(summary)
	hasSkill := hasSummary && mentionsSkill(summary, skills.ExtractAtomic(skillsExcerpt))

	score := 0
	for _, ok := range []bool{hasSummary, hasYears, hasMetric, hasSkill} {
		if ok {
			score += 5
		}
	}
	return bucket(types.LabelSummary, score,
		pick(hasSummary, "has summary", "no summary"),
		pick(hasYears, "years mentioned", "years not mentioned"),
		pick(hasMetric, "has quantified outcome", "no quantified outcome"),
		pick(hasSkill, "mentions a resume skill", "no skill mentioned"),
	)
}

// mentionsSkill matches short or symbol-bearing tokens between
// non-alphanumerics, multi-word tokens as substrings and plain words on word
// boundaries.
func mentionsSkill(text string, tokens []string) bool {
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		esc := regexp.QuoteMeta(tok)
		var re *regexp.Regexp
		switch {
		case len(tok) <= 3 || !wordChars.MatchString(strings.ReplaceAll(tok, " ", "")):
			re = regexp.MustCompile(`(?i)(^|[^A-Za-z0-9])` + esc + `([^A-Za-z0-9]|$)`)
		case strings.Contains(tok, " "):
			re = regexp.MustCompile(`(?i)` + esc)
		default:
			re = regexp.MustCompile(`(?i)\b` + esc + `\b`)
		}
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// UniqueSkillCount counts atomic skill tokens that are distinct after normalization.
func UniqueSkillCount(skillsExcerpt string) int {
	seen := make(map[string]bool)
	for _, s := range skills.ExtractAtomic(skillsExcerpt) {
		if n := textnorm.Normalize(s); n != "" {
			seen[n] = true
		}
	}
	return len(seen)
}

// SkillsFormula maps min(count, 12)/12 linearly onto 0-20.
func SkillsFormula(count int) int {
	return min(20, round(float64(min(count, skillsSaturate))/skillsSaturate*20))
}

// SkillsReasons describes a unique skill count.
func SkillsReasons(count int) []string {
	first := "no skill tokens found"
	if count > 0 {
		first = fmt.Sprintf("extracted %d skill tokens", count)
	}
	return []string{first, pick(count >= broadSkills, "broad skill coverage", "limited skill variety")}
}

// SkillsBucket scores the skills excerpt.
func SkillsBucket(skillsExcerpt string) types.BucketScore {
	count := UniqueSkillCount(skillsExcerpt)
	return bucket(types.LabelSkills, SkillsFormula(count), SkillsReasons(count)...)
}

// ExperienceSignals counts action-verb stems and quantified metrics in text.
func ExperienceSignals(text string) (actions, metrics int) {
	lc := strings.ToLower(text)
	return len(actionVerbs.FindAllString(lc, -1)), len(experienceMetric.FindAllString(lc, -1))
}

// ExperienceFormula is min(20, 2*actions + 2*metrics).
func ExperienceFormula(actions, metrics int) int {
	return min(20, actions*2+metrics*2)
}

// ExperienceReasons describes experience signal counts.
func ExperienceReasons(actions, metrics int) []string {
	a := "few action verbs"
	if actions > 0 {
		a = fmt.Sprintf("%d action verbs", actions)
	}
	m := "no quantified metrics"
	if metrics > 0 {
		m = fmt.Sprintf("%d quantified metrics", metrics)
	}
	return []string{a, m}
}

// ExperienceBucket scores the experience excerpt, or fallbackText when the
// excerpt is empty.
func ExperienceBucket(excerpt, fallbackText string) types.BucketScore {
	text := excerpt
	if strings.TrimSpace(text) == "" {
		text = fallbackText
	}
	actions, metrics := ExperienceSignals(text)
	return bucket(types.LabelExperience, ExperienceFormula(actions, metrics), ExperienceReasons(actions, metrics)...)
}

// EducationFlagBucket is the pure heuristic education score: 10 when an
// education section is present, else 0.
func EducationFlagBucket(flags types.SectionFlags) types.BucketScore {
	if flags.HasEducation {
		return bucket(types.LabelEducation, 10, "education present")
	}
	return bucket(types.LabelEducation, 0, "education missing")
}

// KeywordFloorBucket is the JD-independent keyword floor: 7 of 7 when the
// résumé names a core data tool or a standalone R, else 3, rescaled onto 0-10.
func KeywordFloorBucket(text string) types.BucketScore {
	hit := coreTools.MatchString(text) || standaloneR.MatchString(text)
	raw := keywordFloorLow
	if hit {
		raw = keywordFloorHit
	}
	return bucket(types.LabelKeywords, round(float64(raw)/keywordFloorMax*10),
		pick(hit, "core tools mentioned", "no core tools found"))
}

// KeywordsBucket scores a dictionary match as round(pct/10), reporting up to
// five display-filtered missing terms.
func KeywordsBucket(match types.KeywordMatch) types.BucketScore {
	score := min(10, round(float64(match.Pct)/10))
	reasons := []string{fmt.Sprintf("matches %d%% of JD keywords", match.Pct)}
	missing := DisplayKeywords(match.Missing)
	switch {
	case len(match.PresentInJD) == 0:
		reasons = append(reasons, "no keywords extracted from job description")
	case len(missing) > 0:
		reasons = append(reasons, "missing: "+strings.Join(missing[:min(5, len(missing))], ", "))
	default:
		reasons = append(reasons, "no critical gaps")
	}
	return bucket(types.LabelKeywords, score, reasons...)
}

// FeedbackLine renders "<Label>: <score>/<max> — <reasons>".
func FeedbackLine(b types.BucketScore) string {
	line := fmt.Sprintf("%s: %d/%d", b.Label, b.Score, b.Max)
	if len(b.Reasons) > 0 {
		line += " — " + strings.Join(b.Reasons, "; ")
	}
	return line
}

// FeedbackLines renders one line per bucket, in order.
func FeedbackLines(buckets []types.BucketScore) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = FeedbackLine(b)
	}
	return out
}

// Total sums bucket scores, clamped to [0,100].
func Total(buckets []types.BucketScore) int {
	sum := 0
	for _, b := range buckets {
		sum += b.Score
	}
	return clamp(sum, 0, 100)
}
