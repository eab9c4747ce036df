package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/filtering"
	"github.com/jonathan/job-tracker/internal/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	Long:  "Lists applications, optionally filtered by status, company or free-text query, in the chosen order.",
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one application",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard and analytics figures",
	Long:  "Prints the dashboard counters for all applications and the analytics for the chosen range (month, quarter, year or all).",
	RunE:  runStats,
}

var (
	listStatus  string
	listCompany string
	listQuery   string
	listSort    string
	statsRange  string
)

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Only applications with this status (e.g. INTERVIEW)")
	listCmd.Flags().StringVar(&listCompany, "company", "", "Only companies whose name contains this text")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Free-text search over company, title and notes")
	listCmd.Flags().StringVar(&listSort, "sort", string(types.SortNewest), "Sort order: NEWEST, OLDEST, COMPANY or STATUS")

	statsCmd.Flags().StringVar(&statsRange, "range", "all", "Analytics range: month, quarter, year or all")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
}

// buildListQuery turns the list flags into a filtering query.
func buildListQuery(status, company, query, sort string) (filtering.Query, error) {
	var q filtering.Query

	if status != "" {
		st := types.ApplicationStatus(strings.ToUpper(strings.TrimSpace(status)))
		if !st.IsValid() {
			return q, fmt.Errorf("unknown status %q", status)
		}
		q.Filter.Status = &st
	}
	if strings.TrimSpace(company) != "" {
		q.Filter.Company = &company
	}
	q.Search = query

	opt, err := types.ParseSortOption(sort)
	if err != nil {
		return q, err
	}
	q.Sort = opt
	return q, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	q, err := buildListQuery(listStatus, listCompany, listQuery, listSort)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	apps, err := a.tracker.ListApplications(ctx, q)
	if err != nil {
		return err
	}
	a.printer.PrintApplications(apps)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid application id %q", args[0])
	}

	ctx := context.Background()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	app, err := a.tracker.GetApplication(ctx, id)
	if err != nil {
		return err
	}
	a.printer.PrintApplication(app)
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	dateRange, err := types.ParseRangeOption(statsRange, time.Now())
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	dashboard, err := a.tracker.Dashboard(ctx)
	if err != nil {
		return err
	}
	analytics, err := a.tracker.Analytics(ctx, dateRange)
	if err != nil {
		return err
	}

	a.printer.PrintDashboard(dashboard)
	a.printer.PrintAnalytics(analytics)
	return nil
}
