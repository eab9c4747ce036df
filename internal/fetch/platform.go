package fetch

import (
	"net/url"
	"slices"
	"strings"
)

// Platform names a job board whose pages get dedicated selectors.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

// board describes where a job board serves postings and which parts of
// its pages hold the description or only add noise.
type board struct {
	platform Platform
	domains  []string
	// slugInPath boards put the company in the first path segment; others
	// use the first host label of slugDomain.
	slugInPath bool
	slugDomain string
	content    []string
	noise      []string
}

var boards = []board{
	{
		platform:   PlatformGreenhouse,
		domains:    []string{"greenhouse.io"},
		slugInPath: true,
		content:    []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:      []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section"},
	},
	{
		platform:   PlatformLever,
		domains:    []string{"lever.co"},
		slugInPath: true,
		content:    []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:      []string{".apply-section", ".posting-apply"},
	},
	{
		platform:   PlatformWorkday,
		domains:    []string{"myworkdayjobs.com", "workday.com"},
		slugDomain: "myworkdayjobs.com",
		content:    []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:      []string{"[data-automation-id='applyButton']"},
	},
}

// Application forms, EEO notices and share widgets appear on every board.
var commonNoise = []string{
	"form", "#application-form", ".application-form", ".apply-button-container",
	".eeo-statement", ".eeo-section", ".legal-disclosure", ".self-identification",
	".social-share", ".cookie-consent",
}

func onDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func lookupBoard(host string) (board, bool) {
	host = strings.ToLower(host)
	for _, b := range boards {
		if slices.ContainsFunc(b.domains, func(d string) bool { return onDomain(host, d) }) {
			return b, true
		}
	}
	return board{}, false
}

func boardFor(p Platform) (board, bool) {
	i := slices.IndexFunc(boards, func(b board) bool { return b.platform == p })
	if i < 0 {
		return board{}, false
	}
	return boards[i], true
}

// DetectPlatform identifies the job board serving urlStr.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	if b, ok := lookupBoard(parsed.Hostname()); ok {
		return b.platform
	}
	return PlatformUnknown
}

// CompanySlug returns the company identifier a job board embeds in its URLs,
// or "" when there is none.
func CompanySlug(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	b, ok := lookupBoard(parsed.Hostname())
	if !ok {
		return ""
	}

	if b.slugInPath {
		segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		if len(segments) < 2 || segments[0] == "jobs" {
			return ""
		}
		return segments[0]
	}

	host := strings.ToLower(parsed.Hostname())
	if b.slugDomain == "" || !strings.HasSuffix(host, "."+b.slugDomain) {
		return ""
	}
	label, _, _ := strings.Cut(host, ".")
	return label
}

// PlatformContentSelectors lists where p keeps the posting body, best match
// first. Unknown platforms get the generic JobPostingSelectors.
func PlatformContentSelectors(p Platform) []string {
	if b, ok := boardFor(p); ok {
		return slices.Clone(b.content)
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors lists elements to drop before extracting text.
func PlatformNoiseSelectors(p Platform) []string {
	noise := slices.Clone(commonNoise)
	if b, ok := boardFor(p); ok {
		noise = append(noise, b.noise...)
	}
	return noise
}
