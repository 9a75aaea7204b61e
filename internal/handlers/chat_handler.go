package handlers

import (
	"net/http"

	"collabBack/internal/identity"
	"collabBack/internal/services"
)

type ChatHandler struct {
	Service *services.MessageService
}

// OpenConversation starts or reopens the conversation of a campaign. The caller
// fills its own side; the counterpart comes from the body.
func (h *ChatHandler) OpenConversation(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r, identity.RoleInfluencer, identity.RoleBrand)
	if !ok {
		return
	}
	var req struct {
		CampaignID   string `json:"campaign_id" validate:"required"`
		InfluencerID string `json:"influencer_id"`
		BrandID      string `json:"brand_id"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		failWith(w, "open conversation", err)
		return
	}
	if actor.Is(identity.RoleInfluencer) {
		req.InfluencerID = actor.ID
	} else {
		req.BrandID = actor.ID
	}

	conversation, err := h.Service.OpenConversation(r.Context(), req.CampaignID, req.InfluencerID, req.BrandID)
	if err != nil {
		failWith(w, "open conversation", err)
		return
	}
	writeJSON(w, http.StatusOK, conversation)
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	conversations, err := h.Service.ListConversations(r.Context(), actor.ID)
	if err != nil {
		failWith(w, "list conversations", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}
