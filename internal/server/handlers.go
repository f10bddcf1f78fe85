package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/piivault/piivault/internal/anonymizer"
	"github.com/piivault/piivault/internal/core"
	"github.com/piivault/piivault/internal/websocket"
)

// anonymizeRequest is the POST /v1/anonymize body
type anonymizeRequest struct {
	Text                string   `json:"text"`
	Language            string   `json:"language,omitempty"`
	Entities            []string `json:"entities,omitempty"`
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty"`
	CacheEnabled        *bool    `json:"cache_enabled,omitempty"`
	Seed                int64    `json:"seed,omitempty"`
}

// anonymizeResponse is the POST /v1/anonymize reply
type anonymizeResponse struct {
	AnonymizedText string            `json:"anonymized_text"`
	EntitiesMap    *core.EntitiesMap `json:"entities_map"`
	Metrics        core.Metrics      `json:"metrics"`
}

// deanonymizeRequest is the POST /v1/deanonymize body
type deanonymizeRequest struct {
	Text        string            `json:"text"`
	EntitiesMap *core.EntitiesMap `json:"entities_map"`
}

// deanonymizeResponse is the POST /v1/deanonymize reply
type deanonymizeResponse struct {
	Text            string   `json:"text"`
	AppliedEntities []string `json:"applied_entities"`
	SkippedEntities []string `json:"skipped_entities"`
}

// analyzeRequest is the POST /v1/analyze body
type analyzeRequest struct {
	Text                string   `json:"text"`
	Language            string   `json:"language,omitempty"`
	Entities            []string `json:"entities,omitempty"`
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// handleAnonymize runs the full anonymization pipeline on the request text
func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	var req anonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Text == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	opts := requestOptions(req.Language, req.Entities, req.ConfidenceThreshold)
	if req.CacheEnabled != nil {
		opts = append(opts, anonymizer.WithCacheEnabled(*req.CacheEnabled))
	}
	if req.Seed != 0 {
		opts = append(opts, anonymizer.WithSeed(req.Seed))
	}

	result, err := s.anonymizer.AnonymizeText(r.Context(), req.Text, opts...)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}

	s.broadcastDetection(r, result)
	s.writeJSON(w, http.StatusOK, anonymizeResponse{
		AnonymizedText: result.AnonymizedData,
		EntitiesMap:    result.EntitiesMap,
		Metrics:        result.Metrics,
	})
}

// handleDeanonymize restores original values using a previously returned map
func (s *Server) handleDeanonymize(w http.ResponseWriter, r *http.Request) {
	var req deanonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Text == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	result := s.anonymizer.DeanonymizeText(req.Text, req.EntitiesMap)
	s.writeJSON(w, http.StatusOK, deanonymizeResponse{
		Text:            result.Text,
		AppliedEntities: result.AppliedEntities,
		SkippedEntities: result.SkippedEntities,
	})
}

// handleAnalyze detects entities without anonymizing
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Text == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	opts := requestOptions(req.Language, req.Entities, req.ConfidenceThreshold)
	matches, err := s.anonymizer.AnalyzeOnly(r.Context(), req.Text, opts...)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

// handleEntities lists the detectable entity types for a language
func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	language := core.Language(r.URL.Query().Get("language"))
	if language == "" {
		language = core.Language(s.config.Processing.Language)
	}
	if !language.Valid() {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unsupported language"})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"language": language,
		"entities": s.anonymizer.SupportedEntities(language),
	})
}

// handleStats reports in-process performance aggregates
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.anonymizer.Monitor().Summary())
}

// handleAudit returns recent audit rows (metrics only, never text).
// Available only when the audit store is enabled.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	store := s.anonymizer.AuditStore()
	if store == nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "audit store is not enabled", Kind: "configuration"})
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := store.RecentRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to query audit entries", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to query audit entries"})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleClearCache drops all cached results
func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.anonymizer.ClearCache(r.Context()); err != nil {
		s.logger.Error("Failed to clear cache", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to clear cache"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func requestOptions(language string, entities []string, threshold *float64) []anonymizer.Option {
	var opts []anonymizer.Option
	if language != "" {
		opts = append(opts, anonymizer.WithLanguage(core.Language(language)))
	}
	if len(entities) > 0 {
		opts = append(opts, anonymizer.WithEntities(entities))
	}
	if threshold != nil {
		opts = append(opts, anonymizer.WithConfidenceThreshold(*threshold))
	}
	return opts
}

// broadcastDetection pushes a counts-only summary to WebSocket clients
func (s *Server) broadcastDetection(r *http.Request, result *core.ProcessingResult) {
	if !s.config.WebSocket.Enabled {
		return
	}

	entityTypes := make(map[string]int)
	for _, e := range result.EntitiesMap.InOrder() {
		entityTypes[e.EntityType]++
	}

	requestID := getRequestID(r.Context())
	s.wsHub.BroadcastEvent(websocket.Event{
		Type:      websocket.EventTypeDetection,
		Timestamp: time.Now(),
		RequestID: requestID,
		Data: websocket.DetectionEvent{
			RequestID:      requestID,
			Language:       s.config.Processing.Language,
			EntityCount:    result.Metrics.EntityCount,
			EntityTypes:    entityTypes,
			CharsProcessed: result.Metrics.CharsProcessed,
			CacheHit:       result.Metrics.CacheHit,
			ProcessingMS:   float64(result.Metrics.Duration.Nanoseconds()) / 1e6,
		},
	})
}

// writePipelineError maps the error taxonomy onto HTTP status codes
func (s *Server) writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	kind := "processing"
	switch {
	case errors.Is(err, core.ErrConfiguration):
		status = http.StatusBadRequest
		kind = "configuration"
	case errors.Is(err, core.ErrAnalysis):
		status = http.StatusUnprocessableEntity
		kind = "analysis"
	}

	s.logger.WithRequestID(getRequestID(r.Context())).Error("Request failed",
		zap.String("kind", kind),
		zap.Error(err))
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
