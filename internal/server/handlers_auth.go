package server

import (
	"errors"
	"net/http"
	"time"

	"crumb/internal/auth"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      auth.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			s.writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			s.writeError(w, http.StatusBadRequest, "username, email, and password are required")
		default:
			s.writeServiceError(w, err)
		}
		return
	}

	s.issueToken(w, user, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		s.writeServiceError(w, err)
		return
	}

	s.issueToken(w, user, http.StatusOK)
}

func (s *Server) issueToken(w http.ResponseWriter, user *auth.User, status int) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, status, authResponse{Token: token, ExpiresAt: expiresAt, User: *user})
}

func (s *Server) identity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return identity, true
}
