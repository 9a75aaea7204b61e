package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"collabBack/internal/marketplace/lifecycle"
	"collabBack/internal/marketplace/notify"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/money"
)

// Payout methods accepted for withdrawals.
const (
	MethodUPI  = "upi"
	MethodBank = "bank"
)

// RequestWithdrawal asks for a payout. The store rejects amounts above the
// available balance with ErrInsufficientBalance.
func (s *Service) RequestWithdrawal(ctx context.Context, influencerID string, amount money.Amount, method, destination string) (repo.Withdrawal, error) {
	if strings.TrimSpace(influencerID) == "" {
		return repo.Withdrawal{}, fmt.Errorf("%w: influencer is required", ErrValidation)
	}
	if !amount.Positive() {
		return repo.Withdrawal{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if amount < s.minWithdrawal {
		return repo.Withdrawal{}, fmt.Errorf("%w: minimum withdrawal is %s", ErrValidation, s.minWithdrawal)
	}
	if method != MethodUPI && method != MethodBank {
		return repo.Withdrawal{}, fmt.Errorf("%w: payment method must be %s or %s", ErrValidation, MethodUPI, MethodBank)
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return repo.Withdrawal{}, fmt.Errorf("%w: destination is required", ErrValidation)
	}

	w := repo.Withdrawal{
		ID:            s.newID(),
		InfluencerID:  influencerID,
		Amount:        amount,
		Status:        lifecycle.WithdrawalPending,
		PaymentMethod: method,
		Destination:   destination,
		RequestedAt:   s.now(),
	}
	if err := s.withdrawals.Create(ctx, w); err != nil {
		return repo.Withdrawal{}, err
	}
	s.emit(ctx, notify.Event{
		Type:       notify.WithdrawalRequested,
		SubjectID:  w.ID,
		Status:     w.Status,
		Title:      "Withdrawal requested",
		Body:       w.Amount.String(),
		Recipients: []string{influencerID},
	})
	return w, nil
}

// GetWithdrawal returns a withdrawal by id.
func (s *Service) GetWithdrawal(ctx context.Context, id string) (repo.Withdrawal, error) {
	return s.withdrawals.Get(ctx, id)
}

// ListWithdrawalsByInfluencer returns the influencer's requests, newest first.
func (s *Service) ListWithdrawalsByInfluencer(ctx context.Context, influencerID string) ([]repo.Withdrawal, error) {
	return s.withdrawals.ListByInfluencer(ctx, influencerID)
}

// ProcessWithdrawal applies an admin decision. processedAt is stamped when the
// request reaches a terminal status.
func (s *Service) ProcessWithdrawal(ctx context.Context, id, decision, transactionID string) (repo.Withdrawal, error) {
	if !lifecycle.Withdrawal.Known(decision) || decision == lifecycle.WithdrawalPending {
		return repo.Withdrawal{}, fmt.Errorf("%w: unknown withdrawal decision %q", ErrValidation, decision)
	}
	w, err := s.withdrawals.Get(ctx, id)
	if err != nil {
		return repo.Withdrawal{}, err
	}
	if w.Status == decision {
		return w, nil
	}
	if !lifecycle.Withdrawal.CanTransition(w.Status, decision) {
		return repo.Withdrawal{}, fmt.Errorf("%w: withdrawal %s -> %s", ErrInvalidTransition, w.Status, decision)
	}

	p := repo.Processing{From: w.Status, To: decision}
	if lifecycle.Withdrawal.Terminal(decision) {
		p.ProcessedAt = sql.NullTime{Time: s.now(), Valid: true}
	}
	if v := strings.TrimSpace(transactionID); v != "" {
		p.TransactionID = sql.NullString{String: v, Valid: true}
	}
	if err := s.withdrawals.Process(ctx, id, p); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return repo.Withdrawal{}, fmt.Errorf("%w: withdrawal %s changed concurrently", ErrInvalidTransition, id)
		}
		return repo.Withdrawal{}, err
	}

	updated, err := s.withdrawals.Get(ctx, id)
	if err != nil {
		return repo.Withdrawal{}, err
	}
	s.emit(ctx, notify.Event{
		Type:       notify.WithdrawalProcessed,
		SubjectID:  updated.ID,
		Status:     updated.Status,
		Title:      "Withdrawal " + updated.Status,
		Body:       updated.Amount.String(),
		Recipients: []string{updated.InfluencerID},
	})
	return updated, nil
}

// Balance returns the influencer's ledger view.
func (s *Service) Balance(ctx context.Context, influencerID string) (repo.Balance, error) {
	return s.withdrawals.Balance(ctx, influencerID)
}
