// Package auth handles user accounts, password hashing, and bearer tokens.
//
// Passwords are stored as bcrypt hashes. Tokens are HS256 JWTs carrying the
// user id and username; Middleware verifies them and places an Identity on the
// request context for handlers to read.
package auth
