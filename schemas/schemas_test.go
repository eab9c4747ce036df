package schemas_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/schemas"
	schemadocs "github.com/jonathan/job-tracker/schemas"
)

func TestSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles := []string{
		"backup_snapshot.schema.json",
	}

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare $schema and type")
		})
	}
}

func TestBackupSnapshot_EmbeddedMatchesFile(t *testing.T) {
	data, err := os.ReadFile("backup_snapshot.schema.json")
	require.NoError(t, err)
	assert.Equal(t, string(data), schemadocs.BackupSnapshot)
}

func TestBackupSnapshot_AcceptsMinimalDocument(t *testing.T) {
	doc := `{
		"version": 1,
		"timestamp": 1704067200000,
		"applications": [
			{
				"id": 1,
				"company_name": "Acme",
				"job_title": "Engineer",
				"application_date": 1704844800000,
				"status": "APPLIED",
				"salary_range": {"min": 90000, "max": 120000}
			}
		],
		"statusHistory": [
			{"application_id": 1, "status": "APPLIED", "status_date": 1704844800000}
		],
		"communications": []
	}`

	assert.NoError(t, schemas.ValidateJSONString(schemadocs.BackupSnapshot, doc))
}

func TestBackupSnapshot_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"wrong version", `{"version": 2, "timestamp": 0, "applications": [], "statusHistory": [], "communications": []}`},
		{"missing applications", `{"version": 1, "timestamp": 0, "statusHistory": [], "communications": []}`},
		{"blank company", `{"version": 1, "timestamp": 0, "applications": [{"id": 1, "company_name": "  ", "job_title": "x", "application_date": 0, "status": "APPLIED"}], "statusHistory": [], "communications": []}`},
		{"rating out of range", `{"version": 1, "timestamp": 0, "applications": [{"id": 1, "company_name": "a", "job_title": "x", "application_date": 0, "status": "APPLIED", "rating": 9}], "statusHistory": [], "communications": []}`},
		{"orphan history", `{"version": 1, "timestamp": 0, "applications": [], "statusHistory": [{"application_id": 0, "status": "APPLIED", "status_date": 0}], "communications": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateJSONString(schemadocs.BackupSnapshot, tt.doc)
			require.Error(t, err)
			_, ok := err.(*schemas.ValidationError)
			assert.True(t, ok, "error should be ValidationError, got %T", err)
		})
	}
}
