package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

type monthKey struct {
	year  int
	month time.Month
}

// MonthlyCounts buckets applications by calendar month of ApplicationDate in
// loc, ascending by (year, month). Counts sum to len(apps).
func MonthlyCounts(apps []types.JobApplication, loc *time.Location) []types.MonthlyCount {
	if loc == nil {
		loc = time.Local
	}

	counts := make(map[monthKey]int)
	for _, a := range apps {
		t := a.ApplicationTime(loc)
		counts[monthKey{year: t.Year(), month: t.Month()}]++
	}

	out := make([]types.MonthlyCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, types.MonthlyCount{
			Month:       fmt.Sprintf("%s %d", k.month.String()[:3], k.year),
			Year:        k.year,
			MonthNumber: int(k.month) - 1,
			Count:       n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].MonthNumber < out[j].MonthNumber
	})
	return out
}

// AverageTransitionTime averages, over every application, the gap between
// each `from` record and each strictly later `to` record. ok is false when
// no pair qualifies.
func AverageTransitionTime(history []types.StatusHistory, from, to types.ApplicationStatus) (avg time.Duration, ok bool) {
	byApp := groupHistory(history)

	var total, pairs int64
	for _, records := range byApp {
		for _, f := range records {
			if f.Status != from {
				continue
			}
			for _, t := range records {
				if t.Status == to && t.StatusDate > f.StatusDate {
					total += t.StatusDate - f.StatusDate
					pairs++
				}
			}
		}
	}
	if pairs == 0 {
		return 0, false
	}
	return time.Duration(total/pairs) * time.Millisecond, true
}

// TransitionTimes returns the average days for every status pair that has at
// least one qualifying transition, keyed "FROM_TO_TO".
func TransitionTimes(history []types.StatusHistory) map[string]float64 {
	out := make(map[string]float64)
	seen := make(map[types.ApplicationStatus]bool)
	for _, h := range history {
		seen[h.Status] = true
	}
	for _, from := range types.AllStatuses() {
		if !seen[from] {
			continue
		}
		for _, to := range types.AllStatuses() {
			if from == to || !seen[to] {
				continue
			}
			if avg, ok := AverageTransitionTime(history, from, to); ok {
				out[fmt.Sprintf("%s_TO_%s", from, to)] = avg.Hours() / 24
			}
		}
	}
	return out
}

// AverageTimeToResponse is the mean number of days between an application's
// earliest APPLIED record and its earliest later analytics-definition
// response. Applications without both records are ignored.
func AverageTimeToResponse(history []types.StatusHistory) float64 {
	var totalMillis int64
	var n int64
	for _, records := range groupHistory(history) {
		applied := int64(-1)
		for _, r := range records {
			if r.Status == types.StatusApplied && (applied < 0 || r.StatusDate < applied) {
				applied = r.StatusDate
			}
		}
		if applied < 0 {
			continue
		}
		first := int64(-1)
		for _, r := range records {
			if IsAnalyticsResponse(r.Status) && r.StatusDate > applied && (first < 0 || r.StatusDate < first) {
				first = r.StatusDate
			}
		}
		if first < 0 {
			continue
		}
		totalMillis += first - applied
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(totalMillis) / float64(n) / float64(24*time.Hour/time.Millisecond)
}

func groupHistory(history []types.StatusHistory) map[int64][]types.StatusHistory {
	byApp := make(map[int64][]types.StatusHistory)
	for _, h := range history {
		byApp[h.ApplicationID] = append(byApp[h.ApplicationID], h)
	}
	return byApp
}
