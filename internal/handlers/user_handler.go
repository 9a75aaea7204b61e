package handlers

import (
	"net/http"

	"collabBack/internal/models"
	"collabBack/internal/services"
)

type UserHandler struct {
	Service *services.UserService
}

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := decodeAndValidate(r, &req); err != nil {
		failWith(w, "sign up", err)
		return
	}

	resp, err := h.Service.SignUp(r.Context(), req)
	if err != nil {
		failWith(w, "sign up", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := decodeAndValidate(r, &req); err != nil {
		failWith(w, "sign in", err)
		return
	}

	resp, err := h.Service.SignIn(r.Context(), req)
	if err != nil {
		failWith(w, "sign in", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	user, err := h.Service.GetUserByID(r.Context(), actor.ID)
	if err != nil {
		failWith(w, "load user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
