package api

import "strings"

// Authenticator resolves a bearer token to a user identity. Token issuance
// and validation (JWT or otherwise) live in the external auth layer; the API
// only needs the resolved identity.
type Authenticator interface {
	Authenticate(token string) (user string, ok bool)
}

// StaticTokenAuthenticator resolves tokens from a fixed table, configured as
// comma-separated "token:user" pairs. Intended for development and tests.
type StaticTokenAuthenticator struct {
	users map[string]string
}

func NewStaticTokenAuthenticator(pairs string) *StaticTokenAuthenticator {
	users := make(map[string]string)
	for _, pair := range strings.Split(pairs, ",") {
		token, user, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found || token == "" || user == "" {
			continue
		}
		users[token] = user
	}
	return &StaticTokenAuthenticator{users: users}
}

func (a *StaticTokenAuthenticator) Authenticate(token string) (string, bool) {
	user, ok := a.users[token]
	return user, ok
}
