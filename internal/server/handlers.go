package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/creator-agent/internal/db"
	"github.com/jonathan/creator-agent/internal/llm"
	"github.com/jonathan/creator-agent/internal/orchestration"
)

var requestValidator = validator.New()

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message      string               `json:"message" validate:"required_without=Files"`
	SystemPrompt string               `json:"system_prompt,omitempty"`
	Tier         string               `json:"tier,omitempty" validate:"omitempty,oneof=flow craft"`
	Context      map[string]any       `json:"context,omitempty"`
	History      []llm.HistoryMessage `json:"history,omitempty"`
	Files        []llm.AttachedFile   `json:"files,omitempty"`
}

// ChatResponse wraps the chain result with the stored run ID.
type ChatResponse struct {
	RunID string `json:"run_id,omitempty"`
	*orchestration.TierChainResponse
}

// handleChat runs a tier chain for the request and records the audit trail.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := requestValidator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	tier := orchestration.Tier(req.Tier)
	if req.Tier == "" {
		tier = s.defaultTier
	}

	genReq := &orchestration.GenerationRequest{
		Prompt:       req.Message,
		SystemPrompt: req.SystemPrompt,
		Context:      req.Context,
		History:      req.History,
		Files:        req.Files,
	}

	resp := s.chain.Execute(r.Context(), genReq, tier)

	chatResp := ChatResponse{TierChainResponse: resp}
	if runID := db.RecordChainRun(r.Context(), s.database, req.Message, tier, resp); runID != uuid.Nil {
		chatResp.RunID = runID.String()
	}

	// Chain failures are response-level, not transport-level
	s.jsonResponse(w, http.StatusOK, chatResp)
}

// GenerateRequest is the body of POST /generate, a single model call with
// cross-provider fallback and no chaining.
type GenerateRequest struct {
	Prompt       string  `json:"prompt" validate:"required"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	Provider     string  `json:"provider,omitempty" validate:"omitempty,oneof=gemini claude"`
	ModelTier    string  `json:"model_tier,omitempty" validate:"omitempty,oneof=lite standard advanced"`
	Temperature  float32 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens    int32   `json:"max_tokens,omitempty" validate:"omitempty,gte=0"`
}

// handleGenerate runs one model call through the fallback service.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := requestValidator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	resp := s.model.Generate(r.Context(), orchestration.ModelRequest{
		GenerationRequest: orchestration.GenerationRequest{
			Prompt:       req.Prompt,
			SystemPrompt: req.SystemPrompt,
			Temperature:  req.Temperature,
			MaxTokens:    req.MaxTokens,
		},
		Model:     llm.Provider(req.Provider),
		ModelTier: llm.ModelTier(req.ModelTier),
	})

	s.jsonResponse(w, http.StatusOK, resp)
}

// handlePreflight probes all providers concurrently.
func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "no provider registry configured")
		return
	}

	statuses := orchestration.Preflight(r.Context(), s.registry)

	healthy := true
	for _, status := range statuses {
		if !status.Healthy {
			healthy = false
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"healthy":   healthy,
		"providers": statuses,
	})
}

// handleListRuns returns recent chain runs, filterable by tier and status.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		err := &ErrStorageUnavailable{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	filters := db.RunFilters{
		Tier:   r.URL.Query().Get("tier"),
		Status: r.URL.Query().Get("status"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filters.Limit = limit
	}

	runs, err := s.database.ListChainRuns(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// handleGetRun returns one chain run by ID.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runIDFromPath(w, r)
	if !ok {
		return
	}

	run, err := s.database.GetChainRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		notFound := &ErrRunNotFound{RunID: runID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, run)
}

// handleListRunSteps returns the stored audit trail for a run.
func (s *Server) handleListRunSteps(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runIDFromPath(w, r)
	if !ok {
		return
	}

	run, err := s.database.GetChainRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		notFound := &ErrRunNotFound{RunID: runID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	steps, err := s.database.ListChainSteps(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"run_id": runID, "steps": steps, "count": len(steps)})
}

// handleDeleteRun deletes a run and its steps.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runIDFromPath(w, r)
	if !ok {
		return
	}

	if err := s.database.DeleteChainRun(r.Context(), runID); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// runIDFromPath parses the {id} path value and checks storage availability.
func (s *Server) runIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if s.database == nil {
		err := &ErrStorageUnavailable{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return uuid.Nil, false
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run ID")
		return uuid.Nil, false
	}
	return runID, true
}
