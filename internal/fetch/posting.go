package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-tracker/internal/types"
)

// maxDescriptionRunes bounds the description copied into a draft.
const maxDescriptionRunes = 20000

// Posting is what could be read from a job posting page. Empty fields were
// not found.
type Posting struct {
	URL         string   `json:"url"`
	Platform    Platform `json:"platform"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
}

// ParsePosting extracts the posting fields from a page fetched from pageURL.
func ParsePosting(html, pageURL string) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	platform := DetectPlatform(pageURL)
	p := &Posting{URL: pageURL, Platform: platform}

	p.Title = firstNonEmpty(
		meta(doc, "og:title"),
		text(doc, "h1"),
		text(doc, "title"),
	)
	p.Company = firstNonEmpty(
		meta(doc, "og:site_name"),
		slugToName(CompanySlug(pageURL)),
	)
	p.Location = firstNonEmpty(
		text(doc, ".location"),
		text(doc, ".job__location"),
		text(doc, ".posting-categories .location"),
		text(doc, "[data-automation-id='locations']"),
	)
	p.Title = trimCompanySuffix(p.Title, p.Company)

	p.Description = ExtractMainText(doc, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	if r := []rune(p.Description); len(r) > maxDescriptionRunes {
		p.Description = string(r[:maxDescriptionRunes])
	}
	return p, nil
}

// Application turns the posting into an unsaved application dated now.
func (p *Posting) Application(now time.Time) types.JobApplication {
	app := types.JobApplication{
		CompanyName:     p.Company,
		JobTitle:        p.Title,
		ApplicationDate: types.Millis(now),
		Status:          types.StatusApplied,
		JobLink:         types.StringPtr(p.URL),
	}
	if p.Location != "" {
		app.CompanyLocation = types.StringPtr(p.Location)
		lower := strings.ToLower(p.Location)
		switch {
		case strings.Contains(lower, "hybrid"):
			app.RemoteStatus = types.ParseRemoteStatus(string(types.RemoteStatusHybrid))
		case strings.Contains(lower, "remote"):
			app.RemoteStatus = types.ParseRemoteStatus(string(types.RemoteStatusRemote))
		}
	}
	if p.Description != "" {
		app.JobDescription = types.StringPtr(p.Description)
	}
	return app
}

// Drafter builds draft applications from job links.
type Drafter struct {
	options  *Options
	renderer Renderer
	now      func() time.Time
}

// DrafterOption configures a Drafter.
type DrafterOption func(*Drafter)

// WithOptions overrides the HTTP fetch options.
func WithOptions(opts *Options) DrafterOption {
	return func(d *Drafter) { d.options = opts }
}

// WithRenderer enables the browser fallback for script-rendered pages.
func WithRenderer(r Renderer) DrafterOption {
	return func(d *Drafter) { d.renderer = r }
}

// WithClock overrides the time source used for the application date.
func WithClock(now func() time.Time) DrafterOption {
	return func(d *Drafter) { d.now = now }
}

// NewDrafter creates a Drafter. Without WithRenderer only plain HTTP is used.
func NewDrafter(opts ...DrafterOption) *Drafter {
	d := &Drafter{options: DefaultOptions(), now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch downloads and parses the posting at urlStr. When the description
// is too short and a renderer is configured, the page is rendered in a
// browser and parsed again.
func (d *Drafter) Fetch(ctx context.Context, urlStr string) (*Posting, error) {
	result, err := URL(ctx, urlStr, d.options)
	if err != nil {
		return nil, err
	}
	posting, err := ParsePosting(result.HTML, urlStr)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "unreadable page", Cause: err}
	}

	if d.renderer != nil && ShouldUseBrowser(posting.Description) {
		html, err := d.renderer.Render(ctx, urlStr)
		if err != nil {
			log.Printf("[fetch] browser fallback failed for %s: %v", urlStr, err)
			return posting, nil
		}
		if rendered, err := ParsePosting(html, urlStr); err == nil && len(rendered.Description) > len(posting.Description) {
			posting = rendered
		}
	}
	return posting, nil
}

// Draft fetches the posting and returns it as an unsaved application.
func (d *Drafter) Draft(ctx context.Context, urlStr string) (*types.JobApplication, error) {
	posting, err := d.Fetch(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	app := posting.Application(d.now())
	return &app, nil
}

func meta(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf("meta[property='%s']", property)).First().Attr("content")
	return strings.TrimSpace(content)
}

func text(doc *goquery.Document, selector string) string {
	return strings.Join(strings.Fields(doc.Find(selector).First().Text()), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// slugToName turns "acme-robotics" into "Acme Robotics".
func slugToName(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// trimCompanySuffix drops the " at Acme" or " - Acme" tail many boards add
// to page titles.
func trimCompanySuffix(title, company string) string {
	if company == "" {
		return title
	}
	for _, sep := range []string{" at ", " - ", " | ", " @ "} {
		tail := sep + company
		if len(title) > len(tail) && strings.EqualFold(title[len(title)-len(tail):], tail) {
			return strings.TrimSpace(title[:len(title)-len(tail)])
		}
	}
	return title
}
