package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformSeek is the SEEK job board
	PlatformSeek Platform = "seek"
	// PlatformLinkedIn is LinkedIn Jobs
	PlatformLinkedIn Platform = "linkedin"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

type platformProfile struct {
	hosts    []string
	content  []string
	noise    []string
	platform Platform
}

var platformProfiles = []platformProfile{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"workday.com", "myworkdayjobs.com"},
		content:  []string{"[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformSeek,
		hosts:    []string{"seek.com.au", "seek.co.nz"},
		content:  []string{"[data-automation='jobAdDetails']", "[data-automation='jobDescription']"},
		noise:    []string{"[data-automation='job-detail-apply']", "[data-automation='jobDetailsFooter']"},
	},
	{
		platform: PlatformLinkedIn,
		hosts:    []string{"linkedin.com"},
		content:  []string{".show-more-less-html__markup", ".description__text", ".jobs-description__content"},
		noise:    []string{".sign-up-modal", ".top-card-layout__cta-container"},
	},
}

// commonNoise is removed from every job page.
var commonNoise = []string{
	// Application forms
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	"[data-testid='application-form']",

	// EEO and legal
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".self-identification",

	// Social and share buttons
	".social-share",
	".share-buttons",

	// Cookie and GDPR
	".cookie-consent",
	".gdpr-notice",
}

func profileFor(platform Platform) (platformProfile, bool) {
	for _, p := range platformProfiles {
		if p.platform == platform {
			return p, true
		}
	}
	return platformProfile{}, false
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, p := range platformProfiles {
		for _, h := range p.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a platform, followed
// by the generic job posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	p, ok := profileFor(platform)
	if !ok {
		return JobPostingSelectors()
	}
	return append(append([]string{}, p.content...), JobPostingSelectors()...)
}

// PlatformNoiseSelectors returns noise exclusion selectors for a platform.
func PlatformNoiseSelectors(platform Platform) []string {
	out := append([]string{}, commonNoise...)
	if p, ok := profileFor(platform); ok {
		out = append(out, p.noise...)
	}
	return out
}
