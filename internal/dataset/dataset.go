// Package dataset loads labelled (job description, resume) pairs from CSV
// or JSON files.
package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-relevance/internal/schemas"
	"github.com/jonathan/resume-relevance/internal/types"
	rootschemas "github.com/jonathan/resume-relevance/schemas"
)

const (
	minScore = 0
	maxScore = 100
)

// Column aliases accepted in CSV headers, matched case-insensitively.
var (
	idColumns     = []string{"id", "sample_id"}
	jobColumns    = []string{"job_description", "job", "jd"}
	resumeColumns = []string{"resume", "resume_text", "cv"}
	scoreColumns  = []string{"relevance_score", "score", "label"}
)

type jsonRow struct {
	ID             string   `json:"id"`
	JobDescription string   `json:"job_description"`
	Resume         string   `json:"resume"`
	Score          *float64 `json:"relevance_score"`
}

// Load reads a dataset, choosing the format from the file extension.
func Load(path string) ([]types.Sample, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, &LoadError{Path: path, Message: "failed to open file", Cause: err}
		}
		defer func() { _ = f.Close() }()
		return ReadCSV(f, path)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
		}
		return ReadJSON(data, path)
	default:
		return nil, &LoadError{Path: path, Message: "unsupported extension (want .csv or .json)"}
	}
}

// ReadJSON decodes a JSON array of samples after validating it against the
// relevance dataset schema. name is used in error messages only.
func ReadJSON(data []byte, name string) ([]types.Sample, error) {
	if err := schemas.ValidateBytes("relevance_dataset", rootschemas.RelevanceDataset, data); err != nil {
		return nil, &LoadError{Path: name, Message: "schema validation failed", Cause: err}
	}

	var rows []jsonRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &LoadError{Path: name, Message: "failed to decode JSON", Cause: err}
	}

	samples := make([]types.Sample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, types.Sample{
			ID:             sampleID(row.ID),
			JobDescription: row.JobDescription,
			Resume:         row.Resume,
			Score:          row.Score,
		})
	}
	return samples, nil
}

// ReadCSV decodes samples from CSV with a header row. Columns may appear in
// any order; the score column is optional and empty cells mean unlabelled.
func ReadCSV(r io.Reader, name string) ([]types.Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &LoadError{Path: name, Message: "empty file"}
	}
	if err != nil {
		return nil, &LoadError{Path: name, Line: 1, Message: "failed to read header", Cause: err}
	}

	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	idCol := findColumn(header, idColumns)
	jobCol := findColumn(header, jobColumns)
	resumeCol := findColumn(header, resumeColumns)
	scoreCol := findColumn(header, scoreColumns)
	if jobCol < 0 || resumeCol < 0 {
		return nil, &LoadError{Path: name, Line: 1, Message: "header must contain job_description and resume columns"}
	}

	samples := make([]types.Sample, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.Line
			}
			return nil, &LoadError{Path: name, Line: line, Message: "malformed row", Cause: err}
		}
		line, _ := reader.FieldPos(0)

		sample := types.Sample{
			ID:             sampleID(cell(record, idCol)),
			JobDescription: cell(record, jobCol),
			Resume:         cell(record, resumeCol),
		}
		if raw := strings.TrimSpace(cell(record, scoreCol)); raw != "" {
			score, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &LoadError{Path: name, Line: line, Message: "invalid relevance score " + strconv.Quote(raw), Cause: err}
			}
			if math.IsNaN(score) || score < minScore || score > maxScore {
				return nil, &LoadError{Path: name, Line: line, Message: "relevance score out of range [0, 100]: " + raw}
			}
			sample.Score = &score
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// WriteJSON writes samples as a JSON array accepted by ReadJSON.
func WriteJSON(w io.Writer, samples []types.Sample) error {
	rows := make([]jsonRow, len(samples))
	for i, s := range samples {
		rows[i] = jsonRow{ID: s.ID.String(), JobDescription: s.JobDescription, Resume: s.Resume, Score: s.Score}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func findColumn(header []string, aliases []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, alias := range aliases {
			if h == alias {
				return i
			}
		}
	}
	return -1
}

func cell(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return record[col]
}

// sampleID keeps a caller-supplied UUID and mints a new one otherwise.
func sampleID(raw string) uuid.UUID {
	if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
		return id
	}
	return uuid.New()
}
