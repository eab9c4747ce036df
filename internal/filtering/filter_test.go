package filtering

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/types"
)

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) int64 {
	return types.Millis(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func app(id int64, company, title string, status types.ApplicationStatus, date int64) types.JobApplication {
	return types.JobApplication{
		ID:               id,
		CompanyName:      company,
		JobTitle:         title,
		Status:           status,
		ApplicationDate:  date,
		CreatedTimestamp: date,
		UpdatedTimestamp: date,
	}
}

func ids(apps []types.JobApplication) []int64 {
	out := make([]int64, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}

func fixture() []types.JobApplication {
	a1 := app(1, "Acme", "Engineer", types.StatusApplied, day(2024, 1, 10))
	a1.JobType = ptr(types.JobTypeFullTime)
	a1.RemoteStatus = ptr(types.RemoteStatusRemote)

	a2 := app(2, "Acme Labs", "Staff Engineer", types.StatusInterview, day(2024, 2, 1))
	a2.JobType = ptr(types.JobTypeContract)
	a2.Notes = ptr("Referred by Jamie")

	a3 := app(3, "Globex", "Analyst", types.StatusOffer, day(2024, 2, 15))
	a3.RemoteStatus = ptr(types.RemoteStatusHybrid)

	a4 := app(4, "Initech", "TPS Engineer", types.StatusInterview, day(2024, 3, 1))
	a4.JobType = ptr(types.JobTypeFullTime)

	return []types.JobApplication{a1, a2, a3, a4}
}

func TestFilter(t *testing.T) {
	apps := fixture()

	tests := []struct {
		name   string
		filter types.FilterState
		want   []int64
	}{
		{name: "empty filter matches all", filter: types.FilterState{}, want: []int64{1, 2, 3, 4}},
		{name: "status", filter: types.FilterState{Status: ptr(types.StatusInterview)}, want: []int64{2, 4}},
		{name: "job type skips nil job type", filter: types.FilterState{JobType: ptr(types.JobTypeFullTime)}, want: []int64{1, 4}},
		{name: "remote status", filter: types.FilterState{RemoteStatus: ptr(types.RemoteStatusHybrid)}, want: []int64{3}},
		{name: "company substring ignores case", filter: types.FilterState{Company: ptr("aCmE")}, want: []int64{1, 2}},
		{name: "blank company is absent", filter: types.FilterState{Company: ptr("  ")}, want: []int64{1, 2, 3, 4}},
		{
			name:   "date range inclusive on both ends",
			filter: types.FilterState{StartDate: ptr(day(2024, 2, 1)), EndDate: ptr(day(2024, 2, 15))},
			want:   []int64{2, 3},
		},
		{
			name:   "start date without end date is ignored",
			filter: types.FilterState{StartDate: ptr(day(2024, 2, 1))},
			want:   []int64{1, 2, 3, 4},
		},
		{
			name: "criteria are conjunctive",
			filter: types.FilterState{
				Status:  ptr(types.StatusInterview),
				JobType: ptr(types.JobTypeFullTime),
				Company: ptr("init"),
			},
			want: []int64{4},
		},
		{
			name:   "no match",
			filter: types.FilterState{Status: ptr(types.StatusGhosted)},
			want:   []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(apps, tt.filter)))
		})
	}
}

func TestFilter_MatchesPredicateExactly(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	companies := []string{"Acme", "acme corp", "Globex", "Initech", "Umbrella"}
	jobTypes := []types.JobType{types.JobTypeFullTime, types.JobTypePartTime, types.JobTypeContract}
	statuses := types.AllStatuses()

	apps := make([]types.JobApplication, 0, 200)
	for i := 0; i < 200; i++ {
		a := app(int64(i+1), companies[rng.Intn(len(companies))], "Role", statuses[rng.Intn(len(statuses))], day(2024, time.Month(rng.Intn(12)+1), rng.Intn(28)+1))
		if rng.Intn(3) > 0 {
			a.JobType = ptr(jobTypes[rng.Intn(len(jobTypes))])
		}
		apps = append(apps, a)
	}

	f := types.FilterState{
		Status:    ptr(types.StatusInterview),
		StartDate: ptr(day(2024, 3, 1)),
		EndDate:   ptr(day(2024, 9, 30)),
		Company:   ptr("ACME"),
	}

	var want []int64
	for _, a := range apps {
		if a.Status == types.StatusInterview &&
			a.ApplicationDate >= *f.StartDate && a.ApplicationDate <= *f.EndDate &&
			strings.Contains(strings.ToLower(a.CompanyName), "acme") {
			want = append(want, a.ID)
		}
	}

	got := ids(Filter(apps, f))
	if len(want) == 0 {
		assert.Empty(t, got)
		return
	}
	assert.Equal(t, want, got)
}

func TestSearch(t *testing.T) {
	apps := fixture()

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{name: "blank query returns input", query: "   ", want: []int64{1, 2, 3, 4}},
		{name: "company match", query: "globex", want: []int64{3}},
		{name: "title match", query: "ENGINEER", want: []int64{1, 2, 4}},
		{name: "notes match", query: "jamie", want: []int64{2}},
		{name: "nil notes never match", query: "referred", want: []int64{2}},
		{name: "no match", query: "zeppelin", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(apps, tt.query)))
		})
	}
}

func TestApply(t *testing.T) {
	apps := fixture()
	got := Apply(apps, Query{
		Filter: types.FilterState{Status: ptr(types.StatusInterview)},
		Search: "engineer",
		Sort:   types.SortNewest,
	})
	require.Len(t, got, 2)
	assert.Equal(t, []int64{4, 2}, ids(got))
}
