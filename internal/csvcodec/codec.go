// Package csvcodec encodes applications to the export CSV format and decodes
// user-supplied CSV back into applications.
//
// Decoding is line oriented and tolerant: rows that cannot be used are
// dropped, unknown enum text falls back to defaults, and unparseable dates
// fall back to the current time. Quoted fields spanning several lines are not
// supported by the decoder.
package csvcodec

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// Columns is the fixed column order of the export format.
var Columns = []string{
	"Company",
	"Job Title",
	"Status",
	"Application Date",
	"Location",
	"Job Type",
	"Remote Status",
	"Salary Min",
	"Salary Max",
	"Notes",
	"Job Link",
}

// Header is the first row of every export.
var Header = strings.Join(Columns, ",")

const (
	colCompany = iota
	colJobTitle
	colStatus
	colDate
	colLocation
	colJobType
	colRemoteStatus
	colSalaryMin
	colSalaryMax
	colNotes
	colJobLink
)

// dateLayout is the layout used for the Application Date column on export.
const dateLayout = "2006-01-02"

// dateLayouts are tried in order on import; the first match wins.
// ISO, then US month-first, then European day-first, then the verbose form.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"2/1/2006",
	"Jan 02, 2006",
	"Jan 2, 2006",
}

// Codec converts between applications and CSV text.
type Codec struct {
	// Location is used to format and parse calendar dates.
	Location *time.Location
	// Now supplies the fallback date for rows with unparseable dates.
	Now func() time.Time
}

// New returns a codec using the local time zone and wall clock.
func New() *Codec {
	return &Codec{Location: time.Local, Now: time.Now}
}

func (c *Codec) location() *time.Location {
	if c == nil || c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c *Codec) now() time.Time {
	if c == nil || c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// EscapeField quotes a field containing a comma, double quote or newline,
// doubling any internal double quotes.
func EscapeField(value string) string {
	if !strings.ContainsAny(value, ",\"\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// Encode renders the header and one row per application.
func (c *Codec) Encode(apps []types.JobApplication) string {
	var sb strings.Builder
	_ = c.EncodeTo(&sb, apps)
	return sb.String()
}

// EncodeTo writes the header and one row per application to w.
func (c *Codec) EncodeTo(w io.Writer, apps []types.JobApplication) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range apps {
		if _, err := io.WriteString(w, c.EncodeRow(&apps[i])+"\n"); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i+1, err)
		}
	}
	return nil
}

// EncodeRow renders a single application without the trailing newline.
func (c *Codec) EncodeRow(app *types.JobApplication) string {
	fields := make([]string, len(Columns))
	fields[colCompany] = app.CompanyName
	fields[colJobTitle] = app.JobTitle
	fields[colStatus] = app.Status.DisplayName()
	fields[colDate] = app.ApplicationTime(c.location()).Format(dateLayout)
	fields[colLocation] = types.Deref(app.CompanyLocation)
	if app.JobType != nil {
		fields[colJobType] = app.JobType.DisplayName()
	}
	if app.RemoteStatus != nil {
		fields[colRemoteStatus] = app.RemoteStatus.DisplayName()
	}
	if app.SalaryRange != nil {
		if app.SalaryRange.Min != nil {
			fields[colSalaryMin] = strconv.Itoa(*app.SalaryRange.Min)
		}
		if app.SalaryRange.Max != nil {
			fields[colSalaryMax] = strconv.Itoa(*app.SalaryRange.Max)
		}
	}
	fields[colNotes] = types.Deref(app.Notes)
	fields[colJobLink] = types.Deref(app.JobLink)

	for i, f := range fields {
		fields[i] = EscapeField(f)
	}
	return strings.Join(fields, ",")
}

// SplitLine splits one CSV line on commas outside double quotes.
// Quote characters only toggle the quoted state and are never copied to the
// output, so a doubled quote inside a quoted field disappears instead of
// collapsing to one quote.
func SplitLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, current.String())
}

// DecodeLine parses one data row. ok is false when the row has fewer than two
// fields or a blank company or job title.
func (c *Codec) DecodeLine(line string) (app types.JobApplication, ok bool) {
	values := SplitLine(strings.TrimRight(line, "\r"))
	if len(values) < 2 {
		return types.JobApplication{}, false
	}

	field := func(i int) string {
		if i >= len(values) {
			return ""
		}
		return strings.TrimSpace(values[i])
	}

	company := field(colCompany)
	title := field(colJobTitle)
	if company == "" || title == "" {
		return types.JobApplication{}, false
	}

	return types.JobApplication{
		CompanyName:     company,
		JobTitle:        title,
		Status:          ParseStatus(field(colStatus)),
		ApplicationDate: c.ParseDate(field(colDate)),
		CompanyLocation: types.StringPtr(field(colLocation)),
		JobType:         ParseJobType(field(colJobType)),
		RemoteStatus:    ParseRemoteStatus(field(colRemoteStatus)),
		SalaryRange:     ParseSalaryRange(field(colSalaryMin), field(colSalaryMax)),
		Notes:           types.StringPtr(field(colNotes)),
		JobLink:         types.StringPtr(field(colJobLink)),
	}, true
}

// Decode parses a whole document. The first line is treated as the header
// and skipped; blank lines and invalid rows are dropped.
func (c *Codec) Decode(text string) []types.JobApplication {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return []types.JobApplication{}
	}

	apps := make([]types.JobApplication, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if app, ok := c.DecodeLine(line); ok {
			apps = append(apps, app)
		}
	}
	return apps
}

// ParseStatus infers a status from free text by keyword. Unmatched text is
// APPLIED.
func ParseStatus(value string) types.ApplicationStatus {
	s := strings.ToLower(value)
	switch {
	case strings.Contains(s, "interview"):
		return types.StatusInterview
	case strings.Contains(s, "offer"):
		return types.StatusOffer
	case strings.Contains(s, "rejected") && strings.Contains(s, "me"):
		return types.StatusRejectedByMe
	case strings.Contains(s, "rejected"):
		return types.StatusRejectedByCompany
	case strings.Contains(s, "ghost"):
		return types.StatusGhosted
	case strings.Contains(s, "email"):
		return types.StatusEmail
	case strings.Contains(s, "phone"):
		return types.StatusPhone
	default:
		return types.StatusApplied
	}
}

// ParseJobType infers a job type by keyword, or nil.
func ParseJobType(value string) *types.JobType {
	s := strings.ToLower(value)
	var t types.JobType
	switch {
	case s == "":
		return nil
	case strings.Contains(s, "full"):
		t = types.JobTypeFullTime
	case strings.Contains(s, "part"):
		t = types.JobTypePartTime
	case strings.Contains(s, "contract"):
		t = types.JobTypeContract
	case strings.Contains(s, "freelance"):
		t = types.JobTypeFreelance
	default:
		return nil
	}
	return &t
}

// ParseRemoteStatus infers a remote status by keyword, or nil.
func ParseRemoteStatus(value string) *types.RemoteStatus {
	s := strings.ToLower(value)
	var r types.RemoteStatus
	switch {
	case s == "":
		return nil
	case strings.Contains(s, "remote") && !strings.Contains(s, "hybrid"):
		r = types.RemoteStatusRemote
	case strings.Contains(s, "hybrid"):
		r = types.RemoteStatusHybrid
	case strings.Contains(s, "on-site"), strings.Contains(s, "onsite"), strings.Contains(s, "office"):
		r = types.RemoteStatusOnSite
	default:
		return nil
	}
	return &r
}

// ParseDate returns the epoch milliseconds of the first layout that parses
// value in the codec location, or the current time when none does. A layout
// may match a leading part of value that ends before a space or 'T', so
// "2024-01-10 09:30" and "2024-01-10T09:30:00Z" read as 2024-01-10.
func (c *Codec) ParseDate(value string) int64 {
	value = strings.TrimSpace(value)
	if value != "" {
		candidates := datePrefixes(value)
		for _, layout := range dateLayouts {
			for _, candidate := range candidates {
				if t, err := time.ParseInLocation(layout, candidate, c.location()); err == nil {
					return types.Millis(t)
				}
			}
		}
	}
	return types.Millis(c.now())
}

// datePrefixes returns value followed by its leading parts that end before
// a space or 'T', longest first.
func datePrefixes(value string) []string {
	out := []string{value}
	for i := len(value) - 1; i > 0; i-- {
		if value[i] == ' ' || value[i] == 'T' {
			if p := strings.TrimSpace(value[:i]); p != "" && p != out[len(out)-1] {
				out = append(out, p)
			}
		}
	}
	return out
}

// ParseSalaryRange strips non-digits from both bounds. A missing bound takes
// the value of the other; both missing yields nil.
func ParseSalaryRange(minText, maxText string) *types.SalaryRange {
	lo, hasLo := parseAmount(minText)
	hi, hasHi := parseAmount(maxText)

	switch {
	case !hasLo && !hasHi:
		return nil
	case !hasHi:
		hi = lo
	case !hasLo:
		lo = hi
	}
	return &types.SalaryRange{Min: &lo, Max: &hi}
}

func parseAmount(value string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
