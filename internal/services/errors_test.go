package services

import (
	"errors"
	"net/http"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	inner := errors.New("row missing")
	err := Wrap(ErrNotFound, "get bake", "bake log 12", inner)

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("marker lost: %v", err)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("inner error lost: %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Wrap(ErrInvalidInput, "start bake", "recipeId is required", nil), http.StatusBadRequest},
		{Wrap(ErrInvalidState, "complete step", "bake is paused", nil), http.StatusBadRequest},
		{Wrap(ErrNotFound, "get bake", "", nil), http.StatusNotFound},
		{Wrap(ErrConflict, "complete step", "already completed", nil), http.StatusConflict},
		{Wrap(ErrUnavailable, "explain term", "upstream timeout", nil), http.StatusBadGateway},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestMessageStripsMarkerAndHidesInternals(t *testing.T) {
	err := Wrap(ErrInvalidInput, "start bake", "recipeId is required", nil)
	if got := Message(err); got != "start bake: recipeId is required" {
		t.Fatalf("unexpected message: %q", got)
	}

	if got := Message(errors.New("sql: database is closed")); got != "internal server error" {
		t.Fatalf("internal detail leaked: %q", got)
	}
}
