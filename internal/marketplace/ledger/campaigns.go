package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"collabBack/internal/marketplace/lifecycle"
	"collabBack/internal/marketplace/notify"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/money"
)

// CampaignInput holds the brand-provided campaign fields.
type CampaignInput struct {
	Title             string
	Description       string
	Requirements      string
	CollaborationType string
	ReferenceVideoURL string
	PaymentAmount     money.Amount
	Deadline          time.Time
}

// CreateCampaign publishes a new active campaign for the brand.
func (s *Service) CreateCampaign(ctx context.Context, brandID string, in CampaignInput) (repo.Campaign, error) {
	if strings.TrimSpace(brandID) == "" {
		return repo.Campaign{}, fmt.Errorf("%w: brand is required", ErrValidation)
	}
	if strings.TrimSpace(in.Title) == "" {
		return repo.Campaign{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !in.PaymentAmount.Positive() {
		return repo.Campaign{}, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	if in.Deadline.IsZero() {
		return repo.Campaign{}, fmt.Errorf("%w: deadline is required", ErrValidation)
	}

	brandName := ""
	if s.directory != nil {
		name, err := s.directory.BrandName(ctx, brandID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return repo.Campaign{}, err
		}
		brandName = name
	}

	now := s.now()
	c := repo.Campaign{
		ID:                s.newID(),
		BrandID:           brandID,
		BrandName:         brandName,
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		Requirements:      in.Requirements,
		CollaborationType: in.CollaborationType,
		PaymentAmount:     in.PaymentAmount,
		Deadline:          normalizeTime(in.Deadline),
		Status:            lifecycle.CampaignActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if v := strings.TrimSpace(in.ReferenceVideoURL); v != "" {
		c.ReferenceVideoURL = sql.NullString{String: v, Valid: true}
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return repo.Campaign{}, err
	}
	return c, nil
}

// GetCampaign returns a campaign by id.
func (s *Service) GetCampaign(ctx context.Context, id string) (repo.Campaign, error) {
	return s.campaigns.Get(ctx, id)
}

// ListActiveCampaigns pages through active campaigns.
func (s *Service) ListActiveCampaigns(ctx context.Context, limit, offset int) ([]repo.Campaign, error) {
	return s.campaigns.ListActive(ctx, limit, offset)
}

// ListBrandCampaigns returns every campaign of the brand.
func (s *Service) ListBrandCampaigns(ctx context.Context, brandID string) ([]repo.Campaign, error) {
	return s.campaigns.ListByBrand(ctx, brandID)
}

// UpdateCampaignStatus moves a campaign through its transition table.
func (s *Service) UpdateCampaignStatus(ctx context.Context, id, status string) (repo.Campaign, error) {
	if !lifecycle.Campaign.Known(status) {
		return repo.Campaign{}, fmt.Errorf("%w: unknown campaign status %q", ErrValidation, status)
	}
	c, err := s.campaigns.Get(ctx, id)
	if err != nil {
		return repo.Campaign{}, err
	}
	if c.Status == status {
		return c, nil
	}
	if !lifecycle.Campaign.CanTransition(c.Status, status) {
		return repo.Campaign{}, fmt.Errorf("%w: campaign %s -> %s", ErrInvalidTransition, c.Status, status)
	}
	if err := s.campaigns.UpdateStatus(ctx, id, c.Status, status, s.now()); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return repo.Campaign{}, fmt.Errorf("%w: campaign %s changed concurrently", ErrInvalidTransition, id)
		}
		return repo.Campaign{}, err
	}
	updated, err := s.campaigns.Get(ctx, id)
	if err != nil {
		return repo.Campaign{}, err
	}
	s.emit(ctx, notify.Event{
		Type:       notify.CampaignStatus,
		SubjectID:  updated.ID,
		Status:     updated.Status,
		Title:      "Campaign " + updated.Status,
		Body:       updated.Title,
		Recipients: []string{updated.BrandID},
	})
	return updated, nil
}

// DeleteCampaign removes a campaign that nothing references yet.
func (s *Service) DeleteCampaign(ctx context.Context, id string) error {
	return s.campaigns.Delete(ctx, id)
}

// SweepExpiredCampaigns completes active campaigns whose deadline has passed and
// returns how many were moved. Campaigns changed concurrently are skipped.
func (s *Service) SweepExpiredCampaigns(ctx context.Context) (int, error) {
	now := s.now()
	expired, err := s.campaigns.ListExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, c := range expired {
		if !lifecycle.Campaign.CanTransition(c.Status, lifecycle.CampaignCompleted) {
			continue
		}
		err := s.campaigns.UpdateStatus(ctx, c.ID, c.Status, lifecycle.CampaignCompleted, now)
		switch {
		case err == nil:
			moved++
		case errors.Is(err, repo.ErrConflict), errors.Is(err, repo.ErrNotFound):
		default:
			return moved, fmt.Errorf("complete campaign %s: %w", c.ID, err)
		}
	}
	return moved, nil
}
