package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-relevance/internal/schemas"
	"github.com/jonathan/resume-relevance/internal/types"
)

func TestLoad_CSV(t *testing.T) {
	samples, err := Load(filepath.Join("testdata", "pairs.csv"))
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.True(t, strings.HasPrefix(samples[0].JobDescription, "Data Scientist."))
	assert.True(t, strings.HasPrefix(samples[0].Resume, "Experienced Nurse"))
	require.NotNil(t, samples[0].Score)
	assert.Equal(t, 5.0, *samples[0].Score)
	require.NotNil(t, samples[1].Score)
	assert.Equal(t, 88.5, *samples[1].Score)
	assert.False(t, samples[2].HasLabel())

	for _, s := range samples {
		assert.NotEqual(t, uuid.Nil, s.ID)
	}
}

func TestLoad_JSON(t *testing.T) {
	samples, err := Load(filepath.Join("testdata", "pairs.json"))
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, "6f1c2f3e-8f0a-4b7e-9d0c-2a6d3c8b9e01", samples[0].ID.String())
	require.NotNil(t, samples[0].Score)
	assert.Equal(t, 5.0, *samples[0].Score)
	assert.NotEqual(t, uuid.Nil, samples[1].ID)
	assert.Nil(t, samples[1].Score)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		message string
	}{
		{"unsupported extension", "testdata/pairs.xlsx", "unsupported extension"},
		{"missing csv", "testdata/missing.csv", "failed to open file"},
		{"missing json", "testdata/missing.json", "failed to read file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Contains(t, loadErr.Message, tt.message)
			assert.Equal(t, tt.path, loadErr.Path)
		})
	}
}

func TestReadCSV_HeaderAliases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		score *float64
	}{
		{"score alias", "JD,CV,Score\nGo engineer,Go developer,40\n", ptr(40)},
		{"label alias", "job,resume_text,label\nGo engineer,Go developer,0\n", ptr(0)},
		{"no score column", "job_description,resume\nGo engineer,Go developer\n", nil},
		{"byte order mark", "\ufeffjob_description,resume\nGo engineer,Go developer\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples, err := ReadCSV(strings.NewReader(tt.input), "inline")
			require.NoError(t, err)
			require.Len(t, samples, 1)
			assert.Equal(t, "Go engineer", samples[0].JobDescription)
			assert.Equal(t, "Go developer", samples[0].Resume)
			assert.Equal(t, tt.score, samples[0].Score)
		})
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		message string
	}{
		{"empty input", "", 0, "empty file"},
		{"missing resume column", "job_description,score\na,1\n", 1, "header must contain"},
		{"non-numeric score", "job_description,resume,score\na,b,high\n", 2, "invalid relevance score"},
		{"score out of range", "job_description,resume,score\na,b,1\nc,d,101\n", 3, "out of range"},
		{"NaN score", "job_description,resume,relevance_score\njd,cv,NaN\n", 2, "out of range"},
		{"infinite score", "job_description,resume,relevance_score\njd,cv,-Inf\n", 2, "out of range"},
		{"bare quote", "job_description,resume\na\"b,c\n", 2, "malformed row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), "inline")
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.line, loadErr.Line)
			assert.Contains(t, loadErr.Message, tt.message)
		})
	}
}

func TestReadJSON_SchemaViolation(t *testing.T) {
	_, err := ReadJSON([]byte(`[{"job_description": "a", "relevance_score": 500}]`), "inline.json")

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "schema validation failed", loadErr.Message)

	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.GreaterOrEqual(t, len(validationErr.Errors), 2)
}

func TestReadJSON_Malformed(t *testing.T) {
	_, err := ReadJSON([]byte(`[{"job_description": `), "inline.json")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	original := []types.Sample{
		{ID: uuid.New(), JobDescription: "Go engineer", Resume: "Go developer", Score: ptr(70)},
		{ID: uuid.New(), JobDescription: "", Resume: ""},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, original))

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	for i := range original {
		assert.Equal(t, original[i].ID, loaded[i].ID)
		assert.Equal(t, original[i].JobDescription, loaded[i].JobDescription)
		assert.Equal(t, original[i].Score, loaded[i].Score)
	}
}

func ptr(f float64) *float64 {
	return &f
}
