package http

import (
	"net/http"

	"collabBack/internal/identity"
	"collabBack/internal/marketplace/ledger"
)

// authenticate returns the actor placed in the context by the outer middleware,
// or resolves the Authorization header itself.
func (s *Server) authenticate(r *http.Request) (identity.Actor, error) {
	if actor, ok := identity.FromContext(r.Context()); ok {
		return actor, nil
	}
	return s.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
}

// actorWithRole authenticates the request and checks the actor's role. It writes
// the error response itself and reports whether the handler may continue.
func (s *Server) actorWithRole(w http.ResponseWriter, r *http.Request, roles ...string) (identity.Actor, bool) {
	actor, err := s.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return identity.Actor{}, false
	}
	if len(roles) > 0 && !actor.Is(roles...) {
		writeError(w, http.StatusForbidden, ledger.ErrForbidden.Error())
		return identity.Actor{}, false
	}
	return actor, true
}
