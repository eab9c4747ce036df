// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/backup"
	"github.com/jonathan/job-tracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// dateLayout is how application dates are shown
	dateLayout = "Jan 2, 2006"
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
	loc *time.Location
}

// NewPrinter creates a new Printer that writes to the given writer and shows
// dates in loc. A nil loc means time.Local.
func NewPrinter(out io.Writer, loc *time.Location) *Printer {
	if loc == nil {
		loc = time.Local
	}
	return &Printer{out: out, loc: loc}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// PrintDashboard outputs the dashboard counters and status distribution.
func (p *Printer) PrintDashboard(stats types.DashboardStatistics) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total applications:   %d\n", stats.TotalApplications))
	sb.WriteString(fmt.Sprintf("Responses received:   %d\n", stats.ResponsesReceived))
	sb.WriteString(fmt.Sprintf("Interviews scheduled: %d\n", stats.InterviewsScheduled))
	sb.WriteString(fmt.Sprintf("Offers received:      %d\n", stats.OffersReceived))
	sb.WriteString(fmt.Sprintf("Rejections:           %d\n", stats.Rejections))

	if len(stats.StatusDistribution) > 0 {
		sb.WriteString("\nBy status:\n")
		for _, st := range types.AllStatuses() {
			if n := stats.StatusDistribution[st]; n > 0 {
				sb.WriteString(fmt.Sprintf("  %-22s %d\n", st.DisplayName(), n))
			}
		}
	}

	p.printBox("DASHBOARD", sb.String())
}

// PrintAnalytics outputs rates, timing, the monthly series and the top
// companies.
func (p *Printer) PrintAnalytics(a types.Analytics) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Applications:     %d\n", a.TotalApplications))
	sb.WriteString(fmt.Sprintf("Response rate:    %.1f%%\n", a.ResponseRate))
	sb.WriteString(fmt.Sprintf("Interview rate:   %.1f%%\n", a.InterviewRate))
	sb.WriteString(fmt.Sprintf("Success rate:     %.1f%%\n", a.SuccessRate))
	sb.WriteString(fmt.Sprintf("Avg. to response: %.1f days\n", a.AverageTimeToResponse))

	if len(a.ApplicationsOverTime) > 0 {
		sb.WriteString("\nApplications over time:\n")
		for _, m := range a.ApplicationsOverTime {
			sb.WriteString(fmt.Sprintf("  %s %d  %s %d\n", m.Month, m.Year, strings.Repeat("█", min(m.Count, 30)), m.Count))
		}
	}

	if len(a.StatusTransitionTimes) > 0 {
		sb.WriteString("\nTransition times:\n")
		keys := make([]string, 0, len(a.StatusTransitionTimes))
		for k := range a.StatusTransitionTimes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %-28s %.1f days\n", k, a.StatusTransitionTimes[k]))
		}
	}

	if len(a.CompanyResponseRates) > 0 {
		sb.WriteString("\nTop companies by response rate:\n")
		count := min(len(a.CompanyResponseRates), maxItemsToShow)
		for _, c := range a.CompanyResponseRates[:count] {
			sb.WriteString(fmt.Sprintf("  • %s: %.0f%% (%d/%d)\n", c.CompanyName, c.ResponseRate, c.Responses, c.TotalApplications))
		}
	}

	p.printBox("ANALYTICS", sb.String())
}

// PrintApplications outputs one line per application.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintApplications(apps []types.JobApplication) {
	if len(apps) == 0 {
		fmt.Fprintln(p.out, "No applications found.")
		return
	}
	for _, a := range apps {
		fmt.Fprintf(p.out, "%5d  %-12s  %-20s  %-24s  %s\n",
			a.ID,
			a.ApplicationTime(p.loc).Format(dateLayout),
			truncate(a.Status.DisplayName(), 20),
			truncate(a.CompanyName, 24),
			a.JobTitle,
		)
	}
	fmt.Fprintf(p.out, "\n%d application(s)\n", len(apps))
}

// PrintApplication outputs the details of a single application.
func (p *Printer) PrintApplication(a *types.JobApplication) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", a.CompanyName))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", a.JobTitle))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", a.Status.DisplayName()))
	sb.WriteString(fmt.Sprintf("Applied:  %s\n", a.ApplicationTime(p.loc).Format(dateLayout)))
	sb.WriteString(fmt.Sprintf("Salary:   %s\n", a.SalaryRange.DisplayString()))
	if a.JobType != nil {
		sb.WriteString(fmt.Sprintf("Type:     %s\n", a.JobType.DisplayName()))
	}
	if a.RemoteStatus != nil {
		sb.WriteString(fmt.Sprintf("Remote:   %s\n", a.RemoteStatus.DisplayName()))
	}
	if loc := types.Deref(a.CompanyLocation); loc != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", loc))
	}
	if notes := types.Deref(a.Notes); notes != "" {
		sb.WriteString(fmt.Sprintf("Notes:    %s\n", notes))
	}

	p.printBox(fmt.Sprintf("APPLICATION #%d", a.ID), sb.String())
}

// PrintBackup outputs the outcome of a backup attempt.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintBackup(b *types.CloudBackup) {
	if b == nil {
		return
	}
	when := types.FromMillis(b.BackupTimestamp).In(p.loc).Format("2006-01-02 15:04:05")
	fmt.Fprintf(p.out, "%s backup #%d %s at %s", b.BackupType.DisplayName(), b.ID, b.BackupStatus, when)
	if loc := types.Deref(b.BackupLocation); loc != "" {
		fmt.Fprintf(p.out, " -> %s", loc)
	}
	fmt.Fprintln(p.out)
}

// PrintRestoreResult outputs what a snapshot restore inserted.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRestoreResult(r backup.RestoreResult) {
	fmt.Fprintf(p.out, "Restored %d application(s), %d status change(s), %d communication(s)\n",
		r.Applications, r.StatusHistory, r.Communications)
	if r.Skipped > 0 {
		fmt.Fprintf(p.out, "Skipped %d record(s)\n", r.Skipped)
	}
}
