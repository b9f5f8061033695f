package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/resume-relevance/internal/db"
	"github.com/jonathan/resume-relevance/internal/types"
)

// sampleSourceAPI tags samples created through the HTTP API.
const sampleSourceAPI = "api"

// requireStore writes 503 and returns false when no store is configured.
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.errorFrom(w, &ErrStoreUnavailable{})
		return false
	}
	return true
}

// sampleID parses the {id} path value, writing 400 on failure.
func (s *Server) sampleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid sample ID")
		return uuid.Nil, false
	}
	return id, true
}

// handleCreateSample stores a new document pair
func (s *Server) handleCreateSample(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var req types.CreateSampleRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	sample, err := s.store.CreateSample(r.Context(), &types.Sample{
		JobDescription: req.JobDescription,
		Resume:         req.Resume,
		Score:          req.Score,
	}, sampleSourceAPI)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, sample)
}

// handleListSamples lists stored samples with limit/offset pagination
func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	query := r.URL.Query()
	opts := db.ListSamplesOptions{Limit: db.DefaultPageSize}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		opts.Limit = min(limit, db.MaxPageSize)
	}
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid offset")
			return
		}
		opts.Offset = offset
	}
	if v := query.Get("labelled"); v != "" {
		labelled, err := strconv.ParseBool(v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid labelled flag")
			return
		}
		opts.LabelledOnly = labelled
	}

	samples, total, err := s.store.ListSamples(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if samples == nil {
		samples = []types.Sample{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"samples": samples,
		"total":   total,
		"limit":   opts.Limit,
		"offset":  opts.Offset,
	})
}

// handleGetSample retrieves a single sample
func (s *Server) handleGetSample(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.sampleID(w, r)
	if !ok {
		return
	}

	sample, err := s.store.GetSample(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if sample == nil {
		s.errorFrom(w, &ErrNotFound{Resource: "sample", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, sample)
}

// handleDeleteSample deletes a sample and its stored features
func (s *Server) handleDeleteSample(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.sampleID(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteSample(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorFrom(w, &ErrNotFound{Resource: "sample", ID: id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleComputeSampleFeatures assembles and persists the feature vector of a stored sample
func (s *Server) handleComputeSampleFeatures(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.sampleID(w, r)
	if !ok {
		return
	}

	sample, err := s.store.GetSample(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if sample == nil {
		s.errorFrom(w, &ErrNotFound{Resource: "sample", ID: id.String()})
		return
	}

	fs, err := s.assembler.Explain(r.Context(), sample.JobDescription, sample.Resume)
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	stored, err := s.store.SaveFeatures(r.Context(), id, s.provider, s.model, fs)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, stored)
}

// handleGetSampleFeatures returns the stored feature vector of a sample
func (s *Server) handleGetSampleFeatures(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.sampleID(w, r)
	if !ok {
		return
	}

	stored, err := s.store.GetFeatures(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if stored == nil {
		s.errorFrom(w, &ErrNotFound{Resource: "features for sample", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, stored)
}
