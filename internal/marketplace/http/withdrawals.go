package http

import (
	"net/http"

	"collabBack/internal/identity"
	"collabBack/internal/money"
)

func (s *Server) handleWithdrawals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListWithdrawals(w, r)
	case http.MethodPost:
		s.handleRequestWithdrawal(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListWithdrawals(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorWithRole(w, r, identity.RoleInfluencer)
	if !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	summary, err := s.svc.WithdrawalSummary(ctx, actor.ID)
	if err != nil {
		s.fail(w, "list withdrawals", err)
		return
	}
	list, err := s.svc.ListWithdrawalsByInfluencer(ctx, actor.ID)
	if err != nil {
		s.fail(w, "list withdrawals", err)
		return
	}
	resp := make([]withdrawalResponse, 0, len(list))
	for _, wd := range list {
		resp = append(resp, makeWithdrawalResponse(wd))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":     summary,
		"withdrawals": resp,
	})
}

func (s *Server) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorWithRole(w, r, identity.RoleInfluencer)
	if !ok {
		return
	}
	var req struct {
		Amount        money.Amount `json:"amount" validate:"gt=0"`
		PaymentMethod string       `json:"payment_method" validate:"required,oneof=upi bank"`
		Destination   string       `json:"destination" validate:"required"`
	}
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "request withdrawal", err)
		return
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	s.respondOnce(ctx, w, actor.ID, "withdrawal", r.Header.Get(idempotencyHeader), "request withdrawal", func() (int, interface{}, error) {
		wd, err := s.svc.RequestWithdrawal(ctx, actor.ID, req.Amount, req.PaymentMethod, req.Destination)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, makeWithdrawalResponse(wd), nil
	})
}

func (s *Server) handleWithdrawalSubroutes(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitPath(r, "/api/v1/withdrawals/")
	if !ok || action != "process" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := s.actorWithRole(w, r, identity.RoleAdmin); !ok {
		return
	}

	var req struct {
		Decision      string `json:"decision" validate:"required"`
		TransactionID string `json:"transaction_id"`
	}
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "process withdrawal", err)
		return
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	wd, err := s.svc.ProcessWithdrawal(ctx, id, req.Decision, req.TransactionID)
	if err != nil {
		s.fail(w, "process withdrawal", err)
		return
	}
	writeJSON(w, http.StatusOK, makeWithdrawalResponse(wd))
}
