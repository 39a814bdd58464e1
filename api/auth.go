package api

import (
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthenticated is returned when a request carries no valid credential.
var ErrUnauthenticated = errors.New("missing or invalid credentials")

// Authenticator resolves a request to a user ID. Session issuing is the
// identity provider's job; this service only verifies bearer tokens.
type Authenticator interface {
	Authenticate(r *http.Request) (string, error)
}

// TokenAuthenticator resolves static bearer tokens to user IDs.
type TokenAuthenticator struct {
	tokens map[string]string
}

func NewTokenAuthenticator(tokens map[string]string) *TokenAuthenticator {
	return &TokenAuthenticator{tokens: tokens}
}

func (a *TokenAuthenticator) Authenticate(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", ErrUnauthenticated
	}

	userID, ok := a.tokens[token]
	if !ok {
		return "", ErrUnauthenticated
	}
	return userID, nil
}
