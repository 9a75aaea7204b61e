package handlers

import (
	"net/http"

	"collabBack/internal/models"
	"collabBack/internal/services"
)

// FCMHandler registers device tokens used for push notifications.
type FCMHandler struct {
	Service *services.DeviceService
}

func (h *FCMHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var req models.DeviceToken
	if err := decodeAndValidate(r, &req); err != nil {
		failWith(w, "register device", err)
		return
	}

	device, err := h.Service.RegisterDevice(r.Context(), actor.ID, req.Token)
	if err != nil {
		failWith(w, "register device", err)
		return
	}
	writeJSON(w, http.StatusCreated, device)
}
