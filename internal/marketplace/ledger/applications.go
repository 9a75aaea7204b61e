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
)

// SubmitApplication registers the influencer's interest in an active campaign.
func (s *Service) SubmitApplication(ctx context.Context, campaignID, influencerID string) (repo.Application, error) {
	if strings.TrimSpace(influencerID) == "" {
		return repo.Application{}, fmt.Errorf("%w: influencer is required", ErrValidation)
	}
	c, err := s.campaigns.Get(ctx, campaignID)
	if err != nil {
		return repo.Application{}, err
	}
	if c.Status != lifecycle.CampaignActive {
		return repo.Application{}, fmt.Errorf("%w: campaign is %s", ErrInvalidTransition, c.Status)
	}

	var name, email string
	if s.directory != nil {
		name, email, err = s.directory.InfluencerContact(ctx, influencerID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return repo.Application{}, err
		}
	}

	a := repo.Application{
		ID:              s.newID(),
		CampaignID:      campaignID,
		InfluencerID:    influencerID,
		InfluencerName:  name,
		InfluencerEmail: email,
		Status:          lifecycle.ApplicationApplied,
		AppliedAt:       s.now(),
	}
	if err := s.applications.Create(ctx, a); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return repo.Application{}, ErrDuplicateApplication
		case errors.Is(err, repo.ErrConflict):
			return repo.Application{}, fmt.Errorf("%w: campaign is no longer active", ErrInvalidTransition)
		}
		return repo.Application{}, err
	}

	s.emit(ctx, notify.Event{
		Type:       notify.ApplicationCreated,
		SubjectID:  a.ID,
		Status:     a.Status,
		Title:      "New application",
		Body:       c.Title,
		Data:       map[string]string{"campaign_id": c.ID},
		Recipients: []string{c.BrandID},
	})
	return a, nil
}

// GetApplication returns an application by id.
func (s *Service) GetApplication(ctx context.Context, id string) (repo.Application, error) {
	return s.applications.Get(ctx, id)
}

// MarkUnderReview moves a fresh application to Under Review.
func (s *Service) MarkUnderReview(ctx context.Context, id string) (repo.Application, error) {
	return s.transitionApplication(ctx, id, lifecycle.ApplicationUnderReview, "", "")
}

// Decide records an admin decision. Only Approved and Rejected are accepted; the
// reason is kept for rejections.
func (s *Service) Decide(ctx context.Context, id, decision, reviewerID, reason string) (repo.Application, error) {
	if decision != lifecycle.ApplicationApproved && decision != lifecycle.ApplicationRejected {
		return repo.Application{}, fmt.Errorf("%w: decision must be %s or %s", ErrValidation,
			lifecycle.ApplicationApproved, lifecycle.ApplicationRejected)
	}
	if decision != lifecycle.ApplicationRejected {
		reason = ""
	}
	return s.transitionApplication(ctx, id, decision, reviewerID, reason)
}

func (s *Service) transitionApplication(ctx context.Context, id, to, reviewerID, reason string) (repo.Application, error) {
	a, err := s.applications.Get(ctx, id)
	if err != nil {
		return repo.Application{}, err
	}
	if a.Status == to {
		return a, nil
	}
	if !lifecycle.Application.CanTransition(a.Status, to) || to == lifecycle.ApplicationSubmitted {
		return repo.Application{}, fmt.Errorf("%w: application %s -> %s", ErrInvalidTransition, a.Status, to)
	}

	d := repo.Decision{From: a.Status, To: to, At: s.now()}
	if strings.TrimSpace(reason) != "" {
		d.RejectionReason = sql.NullString{String: strings.TrimSpace(reason), Valid: true}
	}
	if err := s.applications.Decide(ctx, id, d); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return repo.Application{}, fmt.Errorf("%w: application %s changed concurrently", ErrInvalidTransition, id)
		}
		return repo.Application{}, err
	}

	updated, err := s.applications.Get(ctx, id)
	if err != nil {
		return repo.Application{}, err
	}
	data := map[string]string{"campaign_id": updated.CampaignID}
	if reviewerID != "" {
		data["reviewer_id"] = reviewerID
	}
	s.emit(ctx, notify.Event{
		Type:       notify.ApplicationStatus,
		SubjectID:  updated.ID,
		Status:     updated.Status,
		Title:      "Application " + strings.ToLower(updated.Status),
		Body:       updated.RejectionReason.String,
		Data:       data,
		Recipients: []string{updated.InfluencerID},
	})
	return updated, nil
}

// ListApplicationsByInfluencer returns the influencer's applications in insertion order.
func (s *Service) ListApplicationsByInfluencer(ctx context.Context, influencerID string) ([]repo.Application, error) {
	return s.applications.ListByInfluencer(ctx, influencerID)
}

// ListApplicationsByCampaign returns the campaign's applications in insertion order.
func (s *Service) ListApplicationsByCampaign(ctx context.Context, campaignID string) ([]repo.Application, error) {
	if _, err := s.campaigns.Get(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.applications.ListByCampaign(ctx, campaignID)
}

// ListApplications pages through every application.
func (s *Service) ListApplications(ctx context.Context, limit, offset int) ([]repo.Application, error) {
	return s.applications.List(ctx, limit, offset)
}
