package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-relevance/internal/experience"
	"github.com/jonathan/resume-relevance/internal/keywords"
	"github.com/jonathan/resume-relevance/internal/parsing"
	"github.com/jonathan/resume-relevance/internal/types"
)

// maxBodyBytes caps request bodies; two texts at MaxTextLength plus JSON overhead.
const maxBodyBytes = 4*types.MaxTextLength + 4096

// validatable is implemented by the request types in package types.
type validatable interface {
	Validate() error
}

// decodeRequest reads a JSON body into req and validates it. It writes the
// error response itself and reports whether the handler should continue.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, req validatable) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// NormalizeResponse represents the response for /normalize
type NormalizeResponse struct {
	Normalized string `json:"normalized"`
}

// KeywordsResponse represents the response for /keywords
type KeywordsResponse struct {
	Keywords []string            `json:"keywords"`
	Scores   keywords.ScoreTable `json:"scores"`
}

// ExperienceResponse represents the response for /experience
type ExperienceResponse struct {
	Years      float64                `json:"years"`
	Candidates []experience.Candidate `json:"candidates"`
}

// handleNormalize returns the normalized form of a text
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req types.TextRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, NormalizeResponse{Normalized: parsing.NormalizeText(req.Text)})
}

// handleKeywords ranks the keywords of a text
func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	var req types.KeywordsRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = s.keywordLimit
	}

	table := s.keywords.Scores(req.Text)
	if len(table) > limit {
		table = table[:limit]
	}
	if table == nil {
		table = keywords.ScoreTable{}
	}

	s.jsonResponse(w, http.StatusOK, KeywordsResponse{
		Keywords: table.Terms(),
		Scores:   table,
	})
}

// handleExperience estimates years of experience in a resume
func (s *Server) handleExperience(w http.ResponseWriter, r *http.Request) {
	var req types.TextRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	candidates := s.experience.Candidates(req.Text)
	if candidates == nil {
		candidates = []experience.Candidate{}
	}
	s.jsonResponse(w, http.StatusOK, ExperienceResponse{
		Years:      experience.Max(candidates),
		Candidates: candidates,
	})
}

// handleFeatures assembles the feature vector for a document pair
func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	var req types.FeaturesRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	fs, err := s.assembler.Explain(r.Context(), req.JobDescription, req.Resume)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, fs)
}
