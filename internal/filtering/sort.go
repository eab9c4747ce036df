package filtering

import (
	"sort"
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

// lessFunc reports whether a sorts before b.
type lessFunc func(a, b *types.JobApplication) bool

// comparators has one entry per sort option.
var comparators = map[types.SortOption]lessFunc{
	types.SortNewest: func(a, b *types.JobApplication) bool {
		return a.ApplicationDate > b.ApplicationDate
	},
	types.SortOldest: func(a, b *types.JobApplication) bool {
		return a.ApplicationDate < b.ApplicationDate
	},
	types.SortCompany: func(a, b *types.JobApplication) bool {
		return strings.ToLower(a.CompanyName) < strings.ToLower(b.CompanyName)
	},
	types.SortStatus: func(a, b *types.JobApplication) bool {
		return a.Status.Ordinal() < b.Status.Ordinal()
	},
}

// Sort returns a stably sorted copy of apps. Ties keep their input order.
// An unknown option returns an unsorted copy.
func Sort(apps []types.JobApplication, opt types.SortOption) []types.JobApplication {
	out := make([]types.JobApplication, len(apps))
	copy(out, apps)

	less, ok := comparators[opt]
	if !ok {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	return out
}

// Recent returns at most limit applications, most recently updated first.
func Recent(apps []types.JobApplication, limit int) []types.JobApplication {
	out := make([]types.JobApplication, len(apps))
	copy(out, apps)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedTimestamp > out[j].UpdatedTimestamp
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
