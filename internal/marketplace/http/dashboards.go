package http

import (
	"net/http"

	"collabBack/internal/identity"
)

func (s *Server) handleBrandStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, ok := s.actorWithRole(w, r, identity.RoleBrand)
	if !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	st, err := s.svc.BrandStats(ctx, actor.ID)
	if err != nil {
		s.fail(w, "load brand stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleBrandWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, ok := s.actorWithRole(w, r, identity.RoleBrand)
	if !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	wallet, err := s.svc.BrandWallet(ctx, actor.ID)
	if err != nil {
		s.fail(w, "load brand wallet", err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (s *Server) handleBrandCampaigns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, ok := s.actorWithRole(w, r, identity.RoleBrand)
	if !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	campaigns, err := s.svc.ListBrandCampaigns(ctx, actor.ID)
	if err != nil {
		s.fail(w, "list brand campaigns", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"campaigns": makeCampaignList(campaigns)})
}

func (s *Server) handleInfluencerAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, ok := s.actorWithRole(w, r, identity.RoleInfluencer)
	if !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	a, err := s.svc.InfluencerAnalytics(ctx, actor.ID)
	if err != nil {
		s.fail(w, "load analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleInfluencerBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, ok := s.actorWithRole(w, r, identity.RoleInfluencer)
	if !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	b, err := s.svc.Balance(ctx, actor.ID)
	if err != nil {
		s.fail(w, "load balance", err)
		return
	}
	writeJSON(w, http.StatusOK, makeBalanceResponse(b))
}
