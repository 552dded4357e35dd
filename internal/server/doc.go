// Package server exposes the HTTP API: authentication, recipe CRUD, the
// guided-bake endpoints, and the baking assistant. All /api routes require a
// bearer token; handlers translate the services error taxonomy into HTTP
// status codes.
package server
