package server

import (
	"net/http"

	"crumb/internal/recipes"
)

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}
	list, err := s.recipes.List(r.Context(), identity.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"recipes": list})
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}
	recipeID, err := pathID(r, "recipeId")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	detail, err := s.recipes.Get(r.Context(), recipeID, identity.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}
	var req recipes.NewRecipe
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}
	created, err := s.recipes.Create(r.Context(), identity.UserID, req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}
	recipeID, err := pathID(r, "recipeId")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if err := s.recipes.Delete(r.Context(), recipeID, identity.UserID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "recipe deleted"})
}

func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.identity(w, r); !ok {
		return
	}
	list, err := s.recipes.ListIngredients(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ingredients": list})
}

func (s *Server) handleListSteps(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.identity(w, r); !ok {
		return
	}
	list, err := s.recipes.ListSteps(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"steps": list})
}
