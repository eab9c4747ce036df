package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/types"
)

const greenhousePage = `
<html>
	<head>
		<title>Job Application for Backend Engineer at Acme Robotics</title>
		<meta property="og:title" content="Backend Engineer at Acme Robotics">
	</head>
	<body>
		<header>Acme careers</header>
		<h1>Backend Engineer</h1>
		<div class="job__location">Remote - US</div>
		<div class="job__description body">
			<p>Build the services that move our robots.</p>
			<p>You know Go and PostgreSQL.</p>
		</div>
		<div class="application--wrapper"><form>Upload resume</form></div>
	</body>
</html>`

func TestParsePosting_Greenhouse(t *testing.T) {
	p, err := ParsePosting(greenhousePage, "https://boards.greenhouse.io/acme-robotics/jobs/42")
	require.NoError(t, err)

	assert.Equal(t, PlatformGreenhouse, p.Platform)
	assert.Equal(t, "Backend Engineer", p.Title)
	assert.Equal(t, "Acme Robotics", p.Company)
	assert.Equal(t, "Remote - US", p.Location)
	assert.Equal(t, "Build the services that move our robots.\nYou know Go and PostgreSQL.", p.Description)
}

func TestParsePosting_FallsBackToTitleAndSiteName(t *testing.T) {
	html := `
	<html>
		<head>
			<title>Data Analyst | Globex</title>
			<meta property="og:site_name" content="Globex">
		</head>
		<body><main>Crunch numbers.</main></body>
	</html>`

	p, err := ParsePosting(html, "https://careers.globex.example/jobs/7")
	require.NoError(t, err)
	assert.Equal(t, PlatformUnknown, p.Platform)
	assert.Equal(t, "Data Analyst", p.Title)
	assert.Equal(t, "Globex", p.Company)
	assert.Empty(t, p.Location)
	assert.Equal(t, "Crunch numbers.", p.Description)
}

func TestPosting_Application(t *testing.T) {
	now := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		location   string
		wantRemote *types.RemoteStatus
	}{
		{"Remote - US", types.ParseRemoteStatus("REMOTE")},
		{"Berlin (Hybrid)", types.ParseRemoteStatus("HYBRID")},
		{"Austin, TX", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			p := &Posting{URL: "https://jobs.lever.co/globex/1", Title: "SRE", Company: "Globex", Location: tt.location}
			app := p.Application(now)

			assert.Equal(t, "Globex", app.CompanyName)
			assert.Equal(t, "SRE", app.JobTitle)
			assert.Equal(t, types.StatusApplied, app.Status)
			assert.Equal(t, types.Millis(now), app.ApplicationDate)
			assert.Equal(t, "https://jobs.lever.co/globex/1", types.Deref(app.JobLink))
			assert.Equal(t, tt.wantRemote, app.RemoteStatus)
			assert.Equal(t, tt.location, types.Deref(app.CompanyLocation))
			assert.Nil(t, app.JobDescription)
			assert.Zero(t, app.ID)
		})
	}
}

type fakeRenderer struct {
	html  string
	err   error
	calls int
}

func (r *fakeRenderer) Render(context.Context, string) (string, error) {
	r.calls++
	return r.html, r.err
}

func TestDrafter_Draft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(greenhousePage))
	}))
	defer server.Close()

	now := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	d := NewDrafter(WithClock(func() time.Time { return now }))

	app, err := d.Draft(context.Background(), server.URL+"/jobs/42")
	require.NoError(t, err)
	// No board in the URL, so nothing names the company.
	assert.Empty(t, app.CompanyName)
	assert.Equal(t, "Backend Engineer at Acme Robotics", app.JobTitle)
	assert.Equal(t, types.Millis(now), app.ApplicationDate)
	assert.Contains(t, types.Deref(app.JobDescription), "move our robots")
}

func TestDrafter_BrowserFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root"></div></body></html>`))
	}))
	defer server.Close()

	long := strings.Repeat("Ship reliable software. ", 40)
	renderer := &fakeRenderer{html: `<html><body><main>` + long + `</main></body></html>`}
	d := NewDrafter(WithRenderer(renderer))

	p, err := d.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.Contains(t, p.Description, "Ship reliable software.")

	renderer.err = errors.New("chrome not installed")
	p, err = d.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Empty(t, p.Description)
}

func TestDrafter_NoRendererForLongPages(t *testing.T) {
	long := strings.Repeat("Lots of detail. ", 60)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>` + long + `</main></body></html>`))
	}))
	defer server.Close()

	renderer := &fakeRenderer{}
	_, err := NewDrafter(WithRenderer(renderer)).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Zero(t, renderer.calls)
}

func TestDrafter_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	_, err := NewDrafter().Draft(context.Background(), server.URL)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "410")
}

func TestTrimCompanySuffix(t *testing.T) {
	assert.Equal(t, "Engineer", trimCompanySuffix("Engineer at Acme", "Acme"))
	assert.Equal(t, "Engineer", trimCompanySuffix("Engineer - ACME", "Acme"))
	assert.Equal(t, "Engineer at Acme", trimCompanySuffix("Engineer at Acme", ""))
	assert.Equal(t, "Acme", trimCompanySuffix("Acme", "Acme"))
}

func TestSlugToName(t *testing.T) {
	assert.Equal(t, "Acme Robotics", slugToName("acme-robotics"))
	assert.Equal(t, "Globex", slugToName("globex"))
	assert.Empty(t, slugToName(""))
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   short   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}
