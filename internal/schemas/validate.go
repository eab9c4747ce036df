// Package schemas provides JSON Schema validation for documents the tracker
// reads from outside, such as backup snapshots.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemadocs "github.com/jonathan/job-tracker/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	snapshotOnce   sync.Once
	snapshotSchema *gojsonschema.Schema
	snapshotErr    error
)

func backupSnapshotSchema() (*gojsonschema.Schema, error) {
	snapshotOnce.Do(func() {
		snapshotSchema, snapshotErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemadocs.BackupSnapshot))
		if snapshotErr != nil {
			snapshotErr = &SchemaLoadError{Path: "backup_snapshot.schema.json", Message: "invalid embedded schema", Cause: snapshotErr}
		}
	})
	return snapshotSchema, snapshotErr
}

// ValidateBackupSnapshot validates a snapshot document against the embedded
// backup snapshot schema.
func ValidateBackupSnapshot(data []byte) error {
	schema, err := backupSnapshotSchema()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to read snapshot document: %w", err)
	}
	return toValidationError(result)
}

// ValidateBackupSnapshotFile validates the snapshot stored at path.
func ValidateBackupSnapshotFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve snapshot path: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("snapshot file not found: %s", absPath)
		}
		return fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return ValidateBackupSnapshot(data)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
