// Package services defines the error taxonomy shared by the domain layers
// and its mapping onto HTTP status codes.
package services
