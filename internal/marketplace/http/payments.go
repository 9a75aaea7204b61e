package http

import (
	"context"
	"encoding/json"
	"net/http"

	"collabBack/internal/identity"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/money"
)

const idempotencyHeader = "Idempotency-Key"

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListPayments(w, r)
	case http.MethodPost:
		s.handleRecordPayment(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorWithRole(w, r, identity.RoleInfluencer, identity.RoleBrand)
	if !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	var (
		payments []repo.Payment
		err      error
	)
	if actor.Is(identity.RoleBrand) {
		payments, err = s.svc.ListPaymentsByBrand(ctx, actor.ID)
	} else {
		payments, err = s.svc.ListPaymentsByInfluencer(ctx, actor.ID)
	}
	if err != nil {
		s.fail(w, "list payments", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"payments": makePaymentList(payments)})
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actorWithRole(w, r, identity.RoleBrand, identity.RoleAdmin)
	if !ok {
		return
	}
	var req struct {
		CampaignID   string       `json:"campaign_id" validate:"required"`
		InfluencerID string       `json:"influencer_id" validate:"required"`
		Amount       money.Amount `json:"amount" validate:"gt=0"`
	}
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "record payment", err)
		return
	}

	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	if _, err := s.ownedCampaign(ctx, actor, req.CampaignID); err != nil {
		s.fail(w, "record payment", err)
		return
	}

	s.respondOnce(ctx, w, actor.ID, "payment", r.Header.Get(idempotencyHeader), "record payment", func() (int, interface{}, error) {
		p, err := s.svc.RecordPayment(ctx, req.CampaignID, req.InfluencerID, req.Amount)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, makePaymentResponse(p), nil
	})
}

func (s *Server) handlePaymentSubroutes(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitPath(r, "/api/v1/payments/")
	if !ok || action != "complete" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	actor, ok := s.actorWithRole(w, r, identity.RoleBrand, identity.RoleAdmin)
	if !ok {
		return
	}
	ctx, cancel := s.contextWithTimeout(r)
	defer cancel()

	p, err := s.svc.GetPayment(ctx, id)
	if err != nil {
		s.fail(w, "complete payment", err)
		return
	}
	if _, err := s.ownedCampaign(ctx, actor, p.CampaignID); err != nil {
		s.fail(w, "complete payment", err)
		return
	}
	p, err = s.svc.MarkPaymentCompleted(ctx, id)
	if err != nil {
		s.fail(w, "complete payment", err)
		return
	}
	writeJSON(w, http.StatusOK, makePaymentResponse(p))
}

// respondOnce runs fn under the idempotency key and writes its response. A key
// whose request already succeeded gets the stored response again; a failed
// request releases the key so the client may retry.
func (s *Server) respondOnce(ctx context.Context, w http.ResponseWriter, actorID, operation, key, op string, fn func() (int, interface{}, error)) {
	replay, err := s.idem.Claim(ctx, actorID, operation, key)
	if err != nil {
		s.fail(w, op, err)
		return
	}
	if replay != nil {
		w.Header().Set("Idempotent-Replayed", "true")
		writeRawJSON(w, replay.Status, replay.Body)
		return
	}

	status, payload, err := fn()
	var body []byte
	if err == nil {
		body, err = json.Marshal(payload)
	}
	if err != nil {
		if rerr := s.idem.Release(ctx, actorID, operation, key); rerr != nil {
			s.logger.Errorf("marketplace: release idempotency key: %v", rerr)
		}
		s.fail(w, op, err)
		return
	}
	if err := s.idem.Complete(ctx, actorID, operation, key, status, body); err != nil {
		s.logger.Errorf("marketplace: store idempotent response: %v", err)
	}
	writeRawJSON(w, status, body)
}
