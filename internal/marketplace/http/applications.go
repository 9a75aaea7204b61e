package http

import (
	"net/http"

	"collabBack/internal/identity"
	"collabBack/internal/marketplace/repo"
)

func (s *Server) handleApplications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, ok := s.actorWithRole(w, r, identity.RoleInfluencer, identity.RoleAdmin)
	if !ok {
		return
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	var (
		apps []repo.Application
		err  error
	)
	if actor.Is(identity.RoleAdmin) {
		limit, offset, perr := s.parsePaging(r)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		apps, err = s.svc.ListApplications(ctx, limit, offset)
	} else {
		apps, err = s.svc.ListApplicationsByInfluencer(ctx, actor.ID)
	}
	if err != nil {
		s.fail(w, "list applications", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"applications": makeApplicationList(apps)})
}

func (s *Server) handleApplicationSubroutes(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitPath(r, "/api/v1/applications/")
	if !ok || action == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	switch action {
	case "review":
		s.handleMarkUnderReview(w, r, id)
	case "decision":
		s.handleDecision(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) handleMarkUnderReview(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.actorWithRole(w, r, identity.RoleAdmin); !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	a, err := s.svc.MarkUnderReview(ctx, id)
	if err != nil {
		s.fail(w, "review application", err)
		return
	}
	writeJSON(w, http.StatusOK, makeApplicationResponse(a))
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request, id string) {
	actor, ok := s.actorWithRole(w, r, identity.RoleAdmin)
	if !ok {
		return
	}
	var req struct {
		Decision string `json:"decision" validate:"required"`
		Reason   string `json:"reason"`
	}
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "decide application", err)
		return
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	a, err := s.svc.Decide(ctx, id, req.Decision, actor.ID, req.Reason)
	if err != nil {
		s.fail(w, "decide application", err)
		return
	}
	writeJSON(w, http.StatusOK, makeApplicationResponse(a))
}
