/*
 * Copyright 2026 the PlantSync Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/plantsync/plantsync/pkg/plantbook"
	"github.com/plantsync/plantsync/pkg/uploader"
)

const (
	searchResultEntityID = "openplantbook.search_result"

	defaultCleanCacheHours = 24
)

type searchRequest struct {
	Alias string `json:"alias"`
}

type searchResponse struct {
	Count   int               `json:"count"`
	Results map[string]string `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Alias == "" {
		s.writeError(w, http.StatusBadRequest, "alias is required")
		return
	}

	resp, err := s.searcher.Search(r.Context(), req.Alias)
	if err != nil {
		s.writeAPIError(w, err)
		return
	}

	results := make(map[string]string, len(resp.Results))
	attributes := make(map[string]interface{}, len(resp.Results))

	for _, result := range resp.Results {
		results[result.PID] = result.DisplayPID
		attributes[result.PID] = result.DisplayPID
	}

	err = s.states.SetState(r.Context(), searchResultEntityID,
		strconv.Itoa(resp.Count), attributes)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish search result state")
	}

	s.writeJSON(w, http.StatusOK, searchResponse{Count: resp.Count, Results: results})
}

type getRequest struct {
	Species string `json:"species"`
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	var req getRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Species == "" {
		s.writeError(w, http.StatusBadRequest, "species is required")
		return
	}

	details, err := s.cache.Get(r.Context(), req.Species)
	if err != nil {
		s.writeAPIError(w, err)
		return
	}

	if s.images != nil {
		s.images.Download(r.Context(), details)
	}

	s.writeJSON(w, http.StatusOK, details)
}

type cleanCacheRequest struct {
	// Hours distinguishes absent (default 24) from an explicit 0, which
	// evicts everything.
	Hours *int `json:"hours"`
}

type cleanCacheResponse struct {
	Removed int `json:"removed"`
}

func (s *Server) handleCleanCache(w http.ResponseWriter, r *http.Request) {
	var req cleanCacheRequest
	if !s.decode(w, r, &req) {
		return
	}

	hours := defaultCleanCacheHours
	if req.Hours != nil {
		hours = *req.Hours
	}

	removed := s.cache.CleanCache(r.Context(), hours)

	s.writeJSON(w, http.StatusOK, cleanCacheResponse{Removed: removed})
}

type uploadResponse struct {
	// Result is null when the cycle found nothing to upload.
	Result *bool `json:"result"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	result, err := s.uploader.Run(r.Context())
	if err != nil {
		s.writeAPIError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, uploadResponse{Result: result})
}

// decode reads a JSON request body. An empty body decodes into the zero
// request so commands with all-default arguments need no payload.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(into)
	if err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	return true
}

// writeAPIError maps command failures onto status codes: credential
// problems are the caller's to fix, rate limiting is the remote pushing
// back, an overlapping upload is a conflict, and everything else is the
// remote or a collaborator misbehaving.
func (s *Server) writeAPIError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, plantbook.ErrInvalidAuth), errors.Is(err, plantbook.ErrMissingCredentials):
		s.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, plantbook.ErrRateLimited):
		s.writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, uploader.ErrUploadInProgress):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().Err(err).Msg("Command failed")
		s.writeError(w, http.StatusBadGateway, err.Error())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
