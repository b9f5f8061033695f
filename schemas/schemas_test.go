package schemas_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/jonathan/resume-relevance/internal/schemas"
	rootschemas "github.com/jonathan/resume-relevance/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaFiles = []string{
	"relevance_dataset.schema.json",
	"feature_row.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare $schema and type")
		})
	}
}

func TestEmbeddedSchemas_MatchFiles(t *testing.T) {
	embedded := map[string]string{
		"relevance_dataset.schema.json": rootschemas.RelevanceDataset,
		"feature_row.schema.json":       rootschemas.FeatureRow,
	}
	for file, content := range embedded {
		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, string(data), content, file)
	}
}

func TestRelevanceDataset(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantError bool
	}{
		{"labelled and unlabelled rows", `[
			{"job_description": "Data Scientist", "resume": "Nurse", "relevance_score": 3},
			{"id": "x1", "job_description": "", "resume": "", "relevance_score": null},
			{"job_description": "Go engineer", "resume": "Go developer"}
		]`, false},
		{"empty dataset", `[]`, false},
		{"not an array", `{"job_description": "a", "resume": "b"}`, true},
		{"missing resume", `[{"job_description": "a"}]`, true},
		{"score above range", `[{"job_description": "a", "resume": "b", "relevance_score": 120}]`, true},
		{"unknown field", `[{"job_description": "a", "resume": "b", "salary": 1}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateJSONString(rootschemas.RelevanceDataset, tt.doc)
			if tt.wantError {
				_, ok := err.(*schemas.ValidationError)
				assert.True(t, ok, "expected ValidationError, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFeatureRow(t *testing.T) {
	assert.NoError(t, schemas.ValidateJSONString(rootschemas.FeatureRow,
		`{"id": "1", "label": 55, "features": [0.1, 0.2, 4, 2]}`))
	assert.NoError(t, schemas.ValidateJSONString(rootschemas.FeatureRow,
		`{"id": "2", "features": [0, 0]}`))
	assert.Error(t, schemas.ValidateJSONString(rootschemas.FeatureRow,
		`{"id": "3", "features": ["a"]}`))
}
