package http

import (
	"context"
	"net/http"
	"time"

	"collabBack/internal/identity"
	"collabBack/internal/marketplace/ledger"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/money"
)

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListCampaigns(w, r)
	case http.MethodPost:
		s.handleCreateCampaign(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.actorWithRole(w, r); !ok {
		return
	}
	limit, offset, err := s.parsePaging(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	campaigns, err := s.svc.ListActiveCampaigns(ctx, limit, offset)
	if err != nil {
		s.fail(w, "list campaigns", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"campaigns": makeCampaignList(campaigns)})
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorWithRole(w, r, identity.RoleBrand, identity.RoleAdmin)
	if !ok {
		return
	}

	var req struct {
		BrandID           string       `json:"brand_id"`
		Title             string       `json:"title" validate:"required"`
		Description       string       `json:"description"`
		Requirements      string       `json:"requirements"`
		CollaborationType string       `json:"collaboration_type"`
		ReferenceVideoURL string       `json:"reference_video_url" validate:"omitempty,url"`
		PaymentAmount     money.Amount `json:"payment_amount" validate:"gt=0"`
		Deadline          time.Time    `json:"deadline" validate:"required"`
	}
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "create campaign", err)
		return
	}

	brandID := actor.ID
	if actor.Is(identity.RoleAdmin) {
		if req.BrandID == "" {
			writeError(w, http.StatusBadRequest, "brand_id is required")
			return
		}
		brandID = req.BrandID
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	c, err := s.svc.CreateCampaign(ctx, brandID, ledger.CampaignInput{
		Title:             req.Title,
		Description:       req.Description,
		Requirements:      req.Requirements,
		CollaborationType: req.CollaborationType,
		ReferenceVideoURL: req.ReferenceVideoURL,
		PaymentAmount:     req.PaymentAmount,
		Deadline:          req.Deadline,
	})
	if err != nil {
		s.fail(w, "create campaign", err)
		return
	}
	writeJSON(w, http.StatusCreated, makeCampaignResponse(c))
}

func (s *Server) handleCampaignSubroutes(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitPath(r, "/api/v1/campaigns/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			s.handleGetCampaign(w, r, id)
		case http.MethodDelete:
			s.handleDeleteCampaign(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case "status":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleCampaignStatus(w, r, id)
	case "apply":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleApply(w, r, id)
	case "applications":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleCampaignApplications(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.actorWithRole(w, r); !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	c, err := s.svc.GetCampaign(ctx, id)
	if err != nil {
		s.fail(w, "get campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, makeCampaignResponse(c))
}

func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request, id string) {
	actor, ok := s.actorWithRole(w, r, identity.RoleBrand, identity.RoleAdmin)
	if !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	if _, err := s.ownedCampaign(ctx, actor, id); err != nil {
		s.fail(w, "delete campaign", err)
		return
	}
	if err := s.svc.DeleteCampaign(ctx, id); err != nil {
		s.fail(w, "delete campaign", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCampaignStatus(w http.ResponseWriter, r *http.Request, id string) {
	actor, ok := s.actorWithRole(w, r, identity.RoleBrand, identity.RoleAdmin)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "update campaign", err)
		return
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	if _, err := s.ownedCampaign(ctx, actor, id); err != nil {
		s.fail(w, "update campaign", err)
		return
	}
	c, err := s.svc.UpdateCampaignStatus(ctx, id, req.Status)
	if err != nil {
		s.fail(w, "update campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, makeCampaignResponse(c))
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request, campaignID string) {
	actor, ok := s.actorWithRole(w, r, identity.RoleInfluencer)
	if !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	a, err := s.svc.SubmitApplication(ctx, campaignID, actor.ID)
	if err != nil {
		s.fail(w, "submit application", err)
		return
	}
	writeJSON(w, http.StatusCreated, makeApplicationResponse(a))
}

func (s *Server) handleCampaignApplications(w http.ResponseWriter, r *http.Request, campaignID string) {
	actor, ok := s.actorWithRole(w, r, identity.RoleBrand, identity.RoleAdmin)
	if !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	if _, err := s.ownedCampaign(ctx, actor, campaignID); err != nil {
		s.fail(w, "list applications", err)
		return
	}
	apps, err := s.svc.ListApplicationsByCampaign(ctx, campaignID)
	if err != nil {
		s.fail(w, "list applications", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"applications": makeApplicationList(apps)})
}

// ownedCampaign loads the campaign and checks that a brand actor owns it. Admins
// pass unconditionally.
func (s *Server) ownedCampaign(ctx context.Context, actor identity.Actor, id string) (repo.Campaign, error) {
	c, err := s.svc.GetCampaign(ctx, id)
	if err != nil {
		return repo.Campaign{}, err
	}
	if actor.Is(identity.RoleAdmin) || c.BrandID == actor.ID {
		return c, nil
	}
	return repo.Campaign{}, ledger.ErrForbidden
}
