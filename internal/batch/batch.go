// Package batch builds feature matrices over many document pairs in parallel.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-relevance/internal/features"
	"github.com/jonathan/resume-relevance/internal/types"
)

// Assembler is the subset of features.Assembler that Build needs.
type Assembler interface {
	Assemble(ctx context.Context, jobDescription, resume string) (features.Vector, error)
}

// ProgressEvent reports one finished sample.
type ProgressEvent struct {
	SampleID string `json:"sample_id"`
	Done     int    `json:"done"`
	Total    int    `json:"total"`
}

// Options controls a Build run.
type Options struct {
	// Workers bounds concurrent assemblies. Zero uses GOMAXPROCS.
	Workers int
	// OnProgress, when set, is called after each sample completes. Calls are serialized.
	OnProgress func(ProgressEvent)
	Verbose    bool
}

// Build assembles a feature row for every sample. Output order matches input
// order. The first failure cancels the remaining work and is returned.
func Build(ctx context.Context, a Assembler, samples []types.Sample, opts Options) ([]types.FeatureRow, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := make([]types.FeatureRow, len(samples))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	done := 0

	for i := range samples {
		sample := samples[i]
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			vec, err := a.Assemble(gCtx, sample.JobDescription, sample.Resume)
			if err != nil {
				return fmt.Errorf("sample %d (%s): %w", i, sample.ID, err)
			}
			rows[i] = types.FeatureRow{
				ID:       sample.ID.String(),
				Label:    sample.Score,
				Features: vec,
			}

			mu.Lock()
			done++
			event := ProgressEvent{SampleID: sample.ID.String(), Done: done, Total: len(samples)}
			if opts.OnProgress != nil {
				opts.OnProgress(event)
			}
			mu.Unlock()

			if opts.Verbose {
				log.Printf("[batch] assembled %d/%d (%s)", event.Done, event.Total, event.SampleID)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteJSONLines writes one JSON-encoded FeatureRow per line.
func WriteJSONLines(w io.Writer, rows []types.FeatureRow) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i := range rows {
		if err := enc.Encode(&rows[i]); err != nil {
			return fmt.Errorf("failed to encode row %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// ReadJSONLines reads rows written by WriteJSONLines.
func ReadJSONLines(r io.Reader) ([]types.FeatureRow, error) {
	dec := json.NewDecoder(r)
	rows := make([]types.FeatureRow, 0)
	for {
		var row types.FeatureRow
		err := dec.Decode(&row)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}
}
