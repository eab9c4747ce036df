package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/backup"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write a full JSON snapshot",
	Long:  "Writes every application together with its status history and communications to a JSON document that restore can read back.",
	RunE:  runSnapshot,
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a JSON snapshot",
	Long:  "Validates a snapshot against its schema and inserts its records as new rows. Existing data is kept unless --replace is given.",
	RunE:  runRestore,
}

var (
	snapshotOutputFile string
	restoreInputFile   string
	restoreReplace     bool
)

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOutputFile, "out", "o", "", "Path to output JSON file (required)")
	if err := snapshotCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	restoreCmd.Flags().StringVarP(&restoreInputFile, "in", "i", "", "Path to snapshot JSON file (required)")
	restoreCmd.Flags().BoolVar(&restoreReplace, "replace", false, "Delete all applications before restoring")
	if err := restoreCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(restoreCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := backup.TakeSnapshot(ctx, a.db, time.Now())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(snapshotOutputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(snapshotOutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := backup.WriteSnapshot(f, snap); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d application(s), %d status change(s), %d communication(s) to %s\n",
		len(snap.Applications), len(snap.StatusHistory), len(snap.Communications), snapshotOutputFile)
	return nil
}

func runRestore(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	f, err := os.Open(restoreInputFile)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	snap, err := backup.ReadSnapshot(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if restoreReplace {
		n, err := a.db.DeleteAllApplications(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear applications: %w", err)
		}
		if a.cfg.Verbose {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %d existing application(s)\n", n)
		}
	}

	result, err := backup.RestoreSnapshot(ctx, a.db, snap)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	a.printer.PrintRestoreResult(result)
	return nil
}
