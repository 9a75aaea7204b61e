package handlers

import (
	"net/http"
	"strconv"

	"collabBack/internal/services"
)

type MessageHandler struct {
	Service *services.MessageService
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" validate:"required"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		failWith(w, "send message", err)
		return
	}

	message, err := h.Service.SendMessage(r.Context(), getParam(r, "id"), actor.ID, req.Content)
	if err != nil {
		failWith(w, "send message", err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	pageSize, err := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}

	messages, err := h.Service.GetMessages(r.Context(), getParam(r, "id"), actor.ID, page, pageSize)
	if err != nil {
		failWith(w, "list messages", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages, "page": page, "page_size": pageSize})
}
