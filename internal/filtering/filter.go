// Package filtering applies list filters, free-text search and sorting to
// application snapshots. Every function is pure: inputs are never mutated.
package filtering

import (
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

// Filter returns the applications matching every active criterion of f.
// An empty filter returns apps unchanged.
func Filter(apps []types.JobApplication, f types.FilterState) []types.JobApplication {
	if f.IsEmpty() {
		return apps
	}

	hasDateRange := f.HasDateRange()
	hasCompany := f.HasCompany()
	var companyLower string
	if hasCompany {
		companyLower = strings.ToLower(*f.Company)
	}

	out := make([]types.JobApplication, 0, len(apps))
	for _, app := range apps {
		// Enum equality first, then the range, then the substring scan.
		if f.Status != nil && app.Status != *f.Status {
			continue
		}
		if f.JobType != nil && (app.JobType == nil || *app.JobType != *f.JobType) {
			continue
		}
		if f.RemoteStatus != nil && (app.RemoteStatus == nil || *app.RemoteStatus != *f.RemoteStatus) {
			continue
		}
		if hasDateRange && (app.ApplicationDate < *f.StartDate || app.ApplicationDate > *f.EndDate) {
			continue
		}
		if hasCompany && !strings.Contains(strings.ToLower(app.CompanyName), companyLower) {
			continue
		}
		out = append(out, app)
	}
	return out
}

// Search keeps applications whose company, title or notes contain query,
// ignoring case. A blank query returns apps unchanged.
func Search(apps []types.JobApplication, query string) []types.JobApplication {
	if strings.TrimSpace(query) == "" {
		return apps
	}
	q := strings.ToLower(query)

	out := make([]types.JobApplication, 0, len(apps))
	for _, app := range apps {
		if matchesQuery(app, q) {
			out = append(out, app)
		}
	}
	return out
}

func matchesQuery(app types.JobApplication, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(app.CompanyName), lowerQuery) {
		return true
	}
	if strings.Contains(strings.ToLower(app.JobTitle), lowerQuery) {
		return true
	}
	return app.Notes != nil && strings.Contains(strings.ToLower(*app.Notes), lowerQuery)
}

// Query bundles the list parameters accepted by Apply.
type Query struct {
	Filter types.FilterState
	Search string
	Sort   types.SortOption
}

// Apply runs Filter, then Search, then Sort (when set).
func Apply(apps []types.JobApplication, q Query) []types.JobApplication {
	out := Search(Filter(apps, q.Filter), q.Search)
	if q.Sort != "" {
		out = Sort(out, q.Sort)
	}
	return out
}
