package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/types"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an application",
	Long: `Adds an application. With --fetch the job link is downloaded first and the
title, company, location and description are taken from the posting; explicit
flags win over anything read from the page.`,
	RunE: runAdd,
}

var (
	addCompany  string
	addTitle    string
	addStatus   string
	addDate     string
	addLink     string
	addNotes    string
	addFetch    bool
	addBrowser  bool
	addLocation string
)

func init() {
	addCmd.Flags().StringVar(&addCompany, "company", "", "Company name")
	addCmd.Flags().StringVar(&addTitle, "title", "", "Job title")
	addCmd.Flags().StringVar(&addStatus, "status", string(types.StatusApplied), "Application status")
	addCmd.Flags().StringVar(&addDate, "date", "", "Application date as YYYY-MM-DD (defaults to today)")
	addCmd.Flags().StringVar(&addLink, "link", "", "Job posting URL")
	addCmd.Flags().StringVar(&addLocation, "location", "", "Company or job location")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")
	addCmd.Flags().BoolVar(&addFetch, "fetch", false, "Fill in details from the job posting at --link")
	addCmd.Flags().BoolVar(&addBrowser, "browser", false, "Render script-heavy postings in headless Chrome when fetching")
	rootCmd.AddCommand(addCmd)
}

// addInput carries the add flags so draft merging can be tested apart from
// the command.
type addInput struct {
	Company, Title, Status, Date, Link, Location, Notes string
}

// buildApplication merges the flags over draft, which may be nil. Dates are
// read in loc.
func buildApplication(in addInput, draft *types.JobApplication, loc *time.Location, now time.Time) (*types.JobApplication, error) {
	app := &types.JobApplication{ApplicationDate: types.Millis(now)}
	if draft != nil {
		*app = *draft
	}

	if in.Company != "" {
		app.CompanyName = in.Company
	}
	if in.Title != "" {
		app.JobTitle = in.Title
	}
	if in.Link != "" {
		app.JobLink = types.StringPtr(in.Link)
	}
	if in.Location != "" {
		app.CompanyLocation = types.StringPtr(in.Location)
	}
	if in.Notes != "" {
		app.Notes = types.StringPtr(in.Notes)
	}

	status := types.ApplicationStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if in.Status == "" {
		status = types.StatusApplied
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("unknown status %q", in.Status)
	}
	app.Status = status

	if in.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", in.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", in.Date)
		}
		app.ApplicationDate = types.Millis(day)
	}
	return app, nil
}

func runAdd(cmd *cobra.Command, _ []string) error {
	if addFetch && addLink == "" {
		return fmt.Errorf("--fetch needs --link")
	}

	ctx := context.Background()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var draft *types.JobApplication
	if addFetch {
		opts := []fetch.DrafterOption{}
		if addBrowser {
			opts = append(opts, fetch.WithRenderer(fetch.ChromeRenderer{Verbose: a.cfg.Verbose}))
		}
		draft, err = fetch.NewDrafter(opts...).Draft(ctx, addLink)
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
	}

	app, err := buildApplication(addInput{
		Company:  addCompany,
		Title:    addTitle,
		Status:   addStatus,
		Date:     addDate,
		Link:     addLink,
		Location: addLocation,
		Notes:    addNotes,
	}, draft, a.tracker.Location(), time.Now())
	if err != nil {
		return err
	}

	id, err := a.tracker.SaveApplication(ctx, app)
	if err != nil {
		return err
	}
	app.ID = id
	a.printer.PrintApplication(app)
	return nil
}
