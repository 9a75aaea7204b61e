package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"collabBack/internal/marketplace/lifecycle"
	"collabBack/internal/marketplace/notify"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/money"
)

// RecordPayment creates a pending payment owed to the influencer for a campaign.
func (s *Service) RecordPayment(ctx context.Context, campaignID, influencerID string, amount money.Amount) (repo.Payment, error) {
	if !amount.Positive() {
		return repo.Payment{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if strings.TrimSpace(influencerID) == "" {
		return repo.Payment{}, fmt.Errorf("%w: influencer is required", ErrValidation)
	}
	c, err := s.campaigns.Get(ctx, campaignID)
	if err != nil {
		return repo.Payment{}, err
	}

	p := repo.Payment{
		ID:           s.newID(),
		CampaignID:   c.ID,
		InfluencerID: influencerID,
		Amount:       amount,
		Status:       lifecycle.PaymentPending,
		CreatedAt:    s.now(),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return repo.Payment{}, err
	}
	s.emit(ctx, notify.Event{
		Type:       notify.PaymentRecorded,
		SubjectID:  p.ID,
		Status:     p.Status,
		Title:      "Payment recorded",
		Body:       p.Amount.String(),
		Data:       map[string]string{"campaign_id": c.ID},
		Recipients: []string{influencerID},
	})
	return p, nil
}

// GetPayment returns a payment by id.
func (s *Service) GetPayment(ctx context.Context, id string) (repo.Payment, error) {
	return s.payments.Get(ctx, id)
}

// MarkPaymentCompleted settles a pending payment. Completing twice is a no-op.
func (s *Service) MarkPaymentCompleted(ctx context.Context, id string) (repo.Payment, error) {
	p, err := s.payments.Get(ctx, id)
	if err != nil {
		return repo.Payment{}, err
	}
	if p.Status == lifecycle.PaymentCompleted {
		return p, nil
	}
	if !lifecycle.Payment.CanTransition(p.Status, lifecycle.PaymentCompleted) {
		return repo.Payment{}, fmt.Errorf("%w: payment %s -> %s", ErrInvalidTransition, p.Status, lifecycle.PaymentCompleted)
	}
	if err := s.payments.Complete(ctx, id, s.now()); err != nil {
		if !errors.Is(err, repo.ErrConflict) {
			return repo.Payment{}, err
		}
		current, getErr := s.payments.Get(ctx, id)
		if getErr != nil {
			return repo.Payment{}, getErr
		}
		if current.Status == lifecycle.PaymentCompleted {
			return current, nil
		}
		return repo.Payment{}, fmt.Errorf("%w: payment %s changed concurrently", ErrInvalidTransition, id)
	}

	updated, err := s.payments.Get(ctx, id)
	if err != nil {
		return repo.Payment{}, err
	}
	s.emit(ctx, notify.Event{
		Type:       notify.PaymentCompleted,
		SubjectID:  updated.ID,
		Status:     updated.Status,
		Title:      "Payment completed",
		Body:       updated.Amount.String(),
		Data:       map[string]string{"campaign_id": updated.CampaignID},
		Recipients: []string{updated.InfluencerID},
	})
	return updated, nil
}

// ListPaymentsByInfluencer returns the influencer's payments.
func (s *Service) ListPaymentsByInfluencer(ctx context.Context, influencerID string) ([]repo.Payment, error) {
	return s.payments.ListByInfluencer(ctx, influencerID)
}

// ListPaymentsByBrand returns payments on any campaign of the brand.
func (s *Service) ListPaymentsByBrand(ctx context.Context, brandID string) ([]repo.Payment, error) {
	return s.payments.ListByBrand(ctx, brandID)
}
