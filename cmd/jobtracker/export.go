package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/backup"
	"github.com/jonathan/job-tracker/internal/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all applications as CSV",
	Long:  "Writes every application to a CSV file. Without --out the file is created in the export directory under a timestamped name.",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import applications from a CSV file",
	Long:  "Reads a CSV export and adds every valid row as a new application. Invalid rows are skipped.",
	RunE:  runImport,
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Run a backup now",
	Long:  "Records a backup attempt of the given type and performs it. Only CSV backups are available; they go to the export directory, or to BACKUP_FTP_URL when set.",
	RunE:  runBackup,
}

var (
	exportOutputFile string
	importInputFile  string
	backupType       string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutputFile, "out", "o", "", "Path to output CSV file")

	importCmd.Flags().StringVarP(&importInputFile, "in", "i", "", "Path to input CSV file (required)")
	if err := importCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	backupCmd.Flags().StringVar(&backupType, "type", string(types.BackupTypeCSV), "Backup type (CSV, GOOGLE_DRIVE, GOOGLE_SHEETS, NOTION)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(backupCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	path := exportOutputFile
	if path == "" {
		path = filepath.Join(a.cfg.ExportDir, backup.FileName(time.Now()))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	record, exportErr := a.backups.ExportTo(ctx, f, path)
	if err := f.Close(); err != nil && exportErr == nil {
		exportErr = fmt.Errorf("failed to close output file: %w", err)
	}
	if exportErr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("export failed: %w", exportErr)
	}

	a.printer.PrintBackup(record)
	return nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	f, err := os.Open(importInputFile)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.backups.ImportFrom(ctx, f)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d application(s) from %s\n", n, importInputFile)
	return nil
}

func runBackup(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	t := types.BackupType(strings.ToUpper(strings.TrimSpace(backupType)))
	if !t.IsValid() {
		return fmt.Errorf("unknown backup type %q", backupType)
	}

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	record, err := a.backups.CreateBackup(ctx, t)
	a.printer.PrintBackup(record)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	return nil
}
