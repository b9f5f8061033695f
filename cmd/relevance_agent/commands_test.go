package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-relevance/internal/batch"
	"github.com/jonathan/resume-relevance/internal/embedding"
	"github.com/jonathan/resume-relevance/internal/features"
	"github.com/jonathan/resume-relevance/internal/keywords"
	"github.com/jonathan/resume-relevance/internal/types"
)

const (
	scientistJD = "Data Scientist. Skills: Python, R, SQL, Machine Learning. Experience: 4+ years."
	nurseResume = "Experienced Nurse Practitioner, 8 years. No programming background."
)

func TestNormalizeCommand(t *testing.T) {
	out, _, err := execute(t, "", "normalize", "--text", "  Hello,   WORLD! ")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestNormalizeCommand_Stdin(t *testing.T) {
	out, _, err := execute(t, "C++ & Go\n", "normalize", "--text-file", "-")
	require.NoError(t, err)
	assert.Equal(t, "c go\n", out)
}

func TestNormalizeCommand_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no input", []string{"normalize"}, "either --text or --text-file must be provided"},
		{"both inputs", []string{"normalize", "--text", "a", "--text-file", "x.txt"}, "mutually exclusive"},
		{"missing file", []string{"normalize", "--text-file", filepath.Join(t.TempDir(), "nope.txt")}, "failed to read text file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestKeywordsCommand(t *testing.T) {
	isolateEnv(t)

	out, _, err := execute(t, "", "keywords", "--text", "kafka python python sql", "--limit", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "python", lines[0])
}

func TestKeywordsCommand_JSON(t *testing.T) {
	isolateEnv(t)

	out, _, err := execute(t, "", "keywords", "--text-file", "-", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	out, _, err = execute(t, "python sql python sql", "keywords", "--text-file", "-", "--json")
	require.NoError(t, err)
	var table keywords.ScoreTable
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	require.NotEmpty(t, table)
	assert.Equal(t, "python sql", table[0].Term)
	assert.True(t, table[0].Bigram)
}

func TestExperienceCommand(t *testing.T) {
	out, _, err := execute(t, "", "experience", "--resume", nurseResume)
	require.NoError(t, err)
	assert.Equal(t, "8\n", out)

	out, _, err = execute(t, "", "experience", "--resume", "No dates at all")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestExperienceCommand_Verbose(t *testing.T) {
	out, _, err := execute(t, "", "experience", "--verbose", "--resume", "Analyst, 2015 - 2020")
	require.NoError(t, err)
	assert.Contains(t, out, "year_range")
}

func TestFeaturesCommand(t *testing.T) {
	isolateEnv(t)

	out, _, err := execute(t, "", "features", "--provider", "hash", "--job", scientistJD, "--resume", nurseResume)
	require.NoError(t, err)

	var vec []float64
	require.NoError(t, json.Unmarshal([]byte(out), &vec))
	require.Len(t, vec, features.Length(embedding.DefaultHashDimension))
	v := features.Vector(vec)
	assert.Equal(t, 8.0, v.ExperienceYears())
	assert.Equal(t, 0.0, v.KeywordOverlap())
}

func TestFeaturesCommand_ConfigFileAndExplain(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.toml", `
[embedding]
provider = "hash"
dimension = 32

[keywords]
job_limit = 5
`)
	outPath := filepath.Join(dir, "features.json")

	_, stderr, err := execute(t, "", "features", "--config", cfgPath, "--explain", "--out", outPath,
		"--job", "Backend engineer: Go, Postgres, Kafka. 3+ years.",
		"--resume", "Ran Postgres and Kafka clusters for 5 years (2019 - 2024).")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote 66 features")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var fs types.FeatureSet
	require.NoError(t, json.Unmarshal(data, &fs))
	assert.Equal(t, 32, fs.Dimension)
	assert.Len(t, fs.Vector, features.Length(32))
	assert.LessOrEqual(t, len(fs.JobKeywords), 5)
	assert.Equal(t, 5.0, fs.ExperienceYears)
	assert.Equal(t, len(fs.SharedKeywords), fs.KeywordOverlap)
}

func TestFeaturesCommand_InvalidConfig(t *testing.T) {
	isolateEnv(t)

	_, _, err := execute(t, "", "features", "--provider", "bogus", "--job", "a", "--resume", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")

	// Remote providers need a key.
	_, _, err = execute(t, "", "features", "--provider", "openai", "--job", "a", "--resume", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires an API key")
}

func TestBuildDatasetCommand(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "pairs.csv", "id,job_description,resume,relevance_score\n"+
		"1b4e28ba-2fa1-11d2-883f-0016d3cca427,\""+scientistJD+"\",\""+nurseResume+"\",12\n"+
		",Python SQL analyst,\"Python and SQL for 6 years\",\n")
	out := filepath.Join(dir, "features.jsonl")

	_, stderr, err := execute(t, "", "build-dataset", "--provider", "hash", "--in", in, "--out", out, "--workers", "2", "--validate")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote 2 feature rows")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := batch.ReadJSONLines(f)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", rows[0].ID)
	require.NotNil(t, rows[0].Label)
	assert.Equal(t, 12.0, *rows[0].Label)
	assert.Nil(t, rows[1].Label)
	for _, row := range rows {
		assert.Len(t, row.Features, features.Length(embedding.DefaultHashDimension))
	}
}

func TestBuildDatasetCommand_MissingFlags(t *testing.T) {
	_, _, err := execute(t, "", "build-dataset", "--out", "x.jsonl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "valid.json", `[{"job_description": "jd", "resume": "cv", "relevance_score": 40}]`)
	invalid := writeFile(t, dir, "invalid.json", `[{"job_description": "jd"}]`)

	out, _, err := execute(t, "", "validate", "--schema", "relevance_dataset", "--json", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")

	_, stderr, err := execute(t, "", "validate", "--schema", "relevance_dataset", "--json", invalid)
	require.Error(t, err)
	assert.Contains(t, stderr, "Validation failed")
	assert.Contains(t, stderr, "resume")
}

func TestValidateCommand_SchemaFile(t *testing.T) {
	schemaPath := filepath.Join("..", "..", "schemas", "feature_row.schema.json")
	jsonPath := writeFile(t, t.TempDir(), "row.json", `{"id": "a", "features": [0.1, 0.2, 3, 1]}`)

	out, _, err := execute(t, "", "validate", "--schema", schemaPath, "--json", jsonPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")
}

func TestImportSamplesCommand_RequiresDatabase(t *testing.T) {
	isolateEnv(t)
	in := writeFile(t, t.TempDir(), "pairs.json", `[{"job_description": "jd", "resume": "cv"}]`)

	_, _, err := execute(t, "", "import-samples", "--in", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestExportFeaturesCommand_RequiresDatabase(t *testing.T) {
	isolateEnv(t)

	_, _, err := execute(t, "", "export-features")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestIngestJobCommand_MissingURL(t *testing.T) {
	_, _, err := execute(t, "", "ingest-job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestWriteIngestOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	err := writeIngestOutput(dir, "Senior Go engineer", ingestMetadata{URL: "https://example.com/job", Platform: "lever"})
	require.NoError(t, err)

	text, err := os.ReadFile(filepath.Join(dir, "job_posting.cleaned.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer", string(text))

	var meta ingestMetadata
	data, err := os.ReadFile(filepath.Join(dir, "job_posting.meta.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "lever", meta.Platform)
}

func TestBinary_Help(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "--help").CombinedOutput()
	require.NoError(t, err)
	for _, sub := range []string{"normalize", "keywords", "experience", "features", "build-dataset", "import-samples", "export-features", "ingest-job", "serve", "validate"} {
		assert.Contains(t, string(output), sub)
	}
}
