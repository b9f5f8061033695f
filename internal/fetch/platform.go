package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

// Known platforms.
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type platformRule struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

var platformRules = []platformRule{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
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
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"._descriptionText_", "[class*='descriptionText']", "main"},
		noise:    []string{"[class*='applicationForm']"},
	},
}

// commonNoise is stripped from every job page: application forms, EEO
// boilerplate and share widgets carry no signal about the role.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	if rule := findRule(urlStr); rule != nil {
		return rule.platform
	}
	return PlatformUnknown
}

// ContentSelectors returns content selectors for the platform hosting urlStr.
func ContentSelectors(urlStr string) []string {
	if rule := findRule(urlStr); rule != nil {
		return rule.content
	}
	return JobPostingSelectors()
}

// NoiseSelectors returns noise selectors for the platform hosting urlStr.
func NoiseSelectors(urlStr string) []string {
	noise := append([]string(nil), commonNoise...)
	if rule := findRule(urlStr); rule != nil {
		noise = append(noise, rule.noise...)
	}
	return noise
}

func findRule(urlStr string) *platformRule {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil
	}
	host := strings.ToLower(parsed.Hostname())
	for i := range platformRules {
		for _, h := range platformRules[i].hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return &platformRules[i]
			}
		}
	}
	return nil
}
