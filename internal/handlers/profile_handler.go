package handlers

import (
	"net/http"

	"collabBack/internal/identity"
	"collabBack/internal/models"
	"collabBack/internal/services"
)

type ProfileHandler struct {
	Service *services.ProfileService
}

func (h *ProfileHandler) GetInfluencerProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r, identity.RoleInfluencer, identity.RoleAdmin)
	if !ok {
		return
	}
	userID := actor.ID
	if actor.Is(identity.RoleAdmin) && getParam(r, "user_id") != "" {
		userID = getParam(r, "user_id")
	}

	profile, err := h.Service.GetInfluencerProfile(r.Context(), userID)
	if err != nil {
		failWith(w, "load influencer profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) SaveInfluencerProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r, identity.RoleInfluencer)
	if !ok {
		return
	}
	var req models.InfluencerProfile
	if err := decodeAndValidate(r, &req); err != nil {
		failWith(w, "save influencer profile", err)
		return
	}

	profile, err := h.Service.SaveInfluencerProfile(r.Context(), actor.ID, req)
	if err != nil {
		failWith(w, "save influencer profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) GetBrandProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r, identity.RoleBrand, identity.RoleAdmin)
	if !ok {
		return
	}
	userID := actor.ID
	if actor.Is(identity.RoleAdmin) && getParam(r, "user_id") != "" {
		userID = getParam(r, "user_id")
	}

	profile, err := h.Service.GetBrandProfile(r.Context(), userID)
	if err != nil {
		failWith(w, "load brand profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) SaveBrandProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r, identity.RoleBrand)
	if !ok {
		return
	}
	var req models.BrandProfile
	if err := decodeAndValidate(r, &req); err != nil {
		failWith(w, "save brand profile", err)
		return
	}

	profile, err := h.Service.SaveBrandProfile(r.Context(), actor.ID, req)
	if err != nil {
		failWith(w, "save brand profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
