package server

import (
	"net/http"
)

type startBakeRequest struct {
	RecipeID int64 `json:"recipeId"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type completeStepRequest struct {
	CurrentBakeStepLogID int64   `json:"currentBakeStepLogId"`
	UserNotes            *string `json:"userNotesForCompletedStep"`
}

func (s *Server) handleStartBake(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}
	var req startBakeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	result, err := s.bakes.Start(r.Context(), identity.UserID, req.RecipeID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleCompleteStep(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}
	bakeLogID, err := pathID(r, "bakeLogId")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	var req completeStepRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	result, err := s.bakes.CompleteCurrentStep(r.Context(), identity.UserID, bakeLogID,
		req.CurrentBakeStepLogID, req.UserNotes)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}
	bakeLogID, err := pathID(r, "bakeLogId")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	updated, err := s.bakes.SetStatus(r.Context(), identity.UserID, bakeLogID, req.Status)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleActiveBakes(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}
	active, err := s.bakes.Active(r.Context(), identity.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"bakes": active})
}

func (s *Server) handleBakeHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}
	history, err := s.bakes.History(r.Context(), identity.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"bakes": history})
}

func (s *Server) handleBakeDetail(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}
	bakeLogID, err := pathID(r, "bakeLogId")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	detail, err := s.bakes.HistoryDetail(r.Context(), identity.UserID, bakeLogID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}
