package server

import (
	"net/http"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.identity(w, r); !ok {
		return
	}
	term := r.URL.Query().Get("term")

	explanation, err := s.llm.Explain(r.Context(), term)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"term": term, "explanation": explanation})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.identity(w, r); !ok {
		return
	}
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	suggestion, err := s.llm.GenerateIdeas(r.Context(), req.Prompt)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"suggestion": suggestion})
}
