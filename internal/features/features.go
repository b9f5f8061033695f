// Package features assembles the fixed-length numeric feature vector that
// a relevance regressor consumes for a (job description, resume) pair.
package features

import (
	"context"
	"time"

	"github.com/jonathan/resume-relevance/internal/embedding"
	"github.com/jonathan/resume-relevance/internal/experience"
	"github.com/jonathan/resume-relevance/internal/keywords"
	"github.com/jonathan/resume-relevance/internal/parsing"
	"github.com/jonathan/resume-relevance/internal/types"
)

const (
	targetJob    = "job_description"
	targetResume = "resume"
)

// Observer receives timing and outcome events from an Assembler.
type Observer interface {
	ObserveEmbedding(target string, elapsed time.Duration, err error)
	ObserveAssembly(elapsed time.Duration, err error)
}

// Assembler combines embeddings, experience and keyword overlap into a Vector.
// It is safe for concurrent use when its embedders are.
type Assembler struct {
	jobEmbedder    embedding.Embedder
	resumeEmbedder embedding.Embedder
	keywords       *keywords.Extractor
	experience     *experience.Extractor
	dimension      int
	jobKeywords    int
	resumeKeywords int
	observer       Observer
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithDimension fixes the expected embedding dimension. Zero means the
// first embedding's length is taken and the second must match it.
func WithDimension(d int) Option {
	return func(a *Assembler) {
		a.dimension = d
	}
}

// WithKeywordLimits overrides how many keywords are taken from each side
// before counting overlap.
func WithKeywordLimits(job, resume int) Option {
	return func(a *Assembler) {
		a.jobKeywords = job
		a.resumeKeywords = resume
	}
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(a *Assembler) {
		a.observer = o
	}
}

// NewAssembler creates an Assembler. The same embedder may be passed for both sides.
func NewAssembler(jobEmbedder, resumeEmbedder embedding.Embedder, kw *keywords.Extractor, exp *experience.Extractor, opts ...Option) *Assembler {
	a := &Assembler{
		jobEmbedder:    jobEmbedder,
		resumeEmbedder: resumeEmbedder,
		keywords:       kw,
		experience:     exp,
		jobKeywords:    keywords.DefaultJobKeywords,
		resumeKeywords: keywords.DefaultResumeKeywords,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dimension returns the configured embedding dimension, 0 if inferred.
func (a *Assembler) Dimension() int {
	return a.dimension
}

// Assemble builds the feature vector for a document pair.
func (a *Assembler) Assemble(ctx context.Context, jobDescription, resume string) (Vector, error) {
	fs, err := a.Explain(ctx, jobDescription, resume)
	if err != nil {
		return nil, err
	}
	return fs.Vector, nil
}

// Explain builds the feature vector and returns it with the keyword lists,
// shared terms and experience readings it was derived from.
func (a *Assembler) Explain(ctx context.Context, jobDescription, resume string) (_ *types.FeatureSet, err error) {
	start := time.Now()
	if a.observer != nil {
		defer func() { a.observer.ObserveAssembly(time.Since(start), err) }()
	}

	jobVec, err := a.embed(ctx, a.jobEmbedder, targetJob, jobDescription)
	if err != nil {
		return nil, err
	}
	dim := a.dimension
	if dim == 0 {
		dim = len(jobVec)
	}
	if dim == 0 || len(jobVec) != dim {
		return nil, &DimensionError{Target: targetJob, Expected: dim, Got: len(jobVec)}
	}

	resumeVec, err := a.embed(ctx, a.resumeEmbedder, targetResume, resume)
	if err != nil {
		return nil, err
	}
	if len(resumeVec) != dim {
		return nil, &DimensionError{Target: targetResume, Expected: dim, Got: len(resumeVec)}
	}

	candidates := a.experience.Candidates(resume)
	years := experience.Max(candidates)

	jobKw := a.keywords.Extract(jobDescription, a.jobKeywords)
	resumeKw := a.keywords.Extract(resume, a.resumeKeywords)
	shared := keywords.Overlap(jobKw, resumeKw)

	vec := make(Vector, 0, Length(dim))
	vec = append(vec, jobVec...)
	vec = append(vec, resumeVec...)
	vec = append(vec, years, float64(len(shared)))

	matches := make([]types.ExperienceMatch, len(candidates))
	for i, c := range candidates {
		matches[i] = types.ExperienceMatch{Heuristic: c.Kind.String(), Years: c.Value, Match: c.Match}
	}

	return &types.FeatureSet{
		Vector:          vec,
		Dimension:       dim,
		ExperienceYears: years,
		Experience:      matches,
		JobKeywords:     jobKw,
		ResumeKeywords:  resumeKw,
		SharedKeywords:  shared,
		KeywordOverlap:  len(shared),
	}, nil
}

func (a *Assembler) embed(ctx context.Context, e embedding.Embedder, target, text string) ([]float64, error) {
	start := time.Now()
	vec, err := e.Embed(ctx, parsing.NormalizeText(text))
	if a.observer != nil {
		a.observer.ObserveEmbedding(target, time.Since(start), err)
	}
	if err != nil {
		return nil, &EmbeddingError{Target: target, Message: "provider call failed", Cause: err}
	}
	return vec, nil
}
