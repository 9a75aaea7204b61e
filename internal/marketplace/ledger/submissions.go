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

// SubmitContent delivers content for an approved application. The submission and
// the application's move to Submitted become visible together or not at all.
func (s *Service) SubmitContent(ctx context.Context, applicationID, influencerID string, contentLinks []string, videoURL string) (repo.Submission, error) {
	if len(contentLinks) == 0 {
		return repo.Submission{}, fmt.Errorf("%w: at least one content link is required", ErrValidation)
	}
	links := make([]string, 0, len(contentLinks))
	for _, l := range contentLinks {
		l = strings.TrimSpace(l)
		if l == "" {
			return repo.Submission{}, fmt.Errorf("%w: content links must not be blank", ErrValidation)
		}
		links = append(links, l)
	}

	a, err := s.applications.Get(ctx, applicationID)
	if errors.Is(err, repo.ErrNotFound) {
		return repo.Submission{}, fmt.Errorf("%w: application %s not found", ErrInvalidApplication, applicationID)
	}
	if err != nil {
		return repo.Submission{}, err
	}
	if a.InfluencerID != influencerID {
		return repo.Submission{}, fmt.Errorf("%w: application belongs to another influencer", ErrInvalidApplication)
	}
	if a.Status != lifecycle.ApplicationApproved {
		return repo.Submission{}, fmt.Errorf("%w: application is %s", ErrInvalidApplication, a.Status)
	}

	now := s.now()
	sub := repo.Submission{
		ID:            s.newID(),
		ApplicationID: a.ID,
		CampaignID:    a.CampaignID,
		InfluencerID:  influencerID,
		ContentLinks:  links,
		ReviewStatus:  lifecycle.ReviewPending,
		SubmittedAt:   now,
		UpdatedAt:     now,
	}
	if v := strings.TrimSpace(videoURL); v != "" {
		sub.VideoURL = sql.NullString{String: v, Valid: true}
	}
	if err := s.submissions.CreateForApplication(ctx, sub); err != nil {
		if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrConflict) || errors.Is(err, repo.ErrDuplicate) {
			return repo.Submission{}, fmt.Errorf("%w: application can no longer take a submission", ErrInvalidApplication)
		}
		return repo.Submission{}, err
	}

	if c, err := s.campaigns.Get(ctx, a.CampaignID); err == nil {
		s.emit(ctx, notify.Event{
			Type:       notify.SubmissionCreated,
			SubjectID:  sub.ID,
			Status:     sub.ReviewStatus,
			Title:      "New content submitted",
			Body:       c.Title,
			Data:       map[string]string{"campaign_id": c.ID, "application_id": a.ID},
			Recipients: []string{c.BrandID},
		})
	}
	return sub, nil
}

// GetSubmission returns a submission by id.
func (s *Service) GetSubmission(ctx context.Context, id string) (repo.Submission, error) {
	return s.submissions.Get(ctx, id)
}

// ReviewSubmission records the admin verdict on pending content.
func (s *Service) ReviewSubmission(ctx context.Context, id, decision, notes string) (repo.Submission, error) {
	if decision != lifecycle.ReviewApproved && decision != lifecycle.ReviewRejected {
		return repo.Submission{}, fmt.Errorf("%w: decision must be %s or %s", ErrValidation,
			lifecycle.ReviewApproved, lifecycle.ReviewRejected)
	}
	sub, err := s.submissions.Get(ctx, id)
	if err != nil {
		return repo.Submission{}, err
	}
	if sub.ReviewStatus == decision {
		return sub, nil
	}
	if !lifecycle.Submission.CanTransition(sub.ReviewStatus, decision) {
		return repo.Submission{}, fmt.Errorf("%w: submission %s -> %s", ErrInvalidTransition, sub.ReviewStatus, decision)
	}

	rv := repo.Review{From: sub.ReviewStatus, To: decision, At: s.now()}
	if n := strings.TrimSpace(notes); n != "" {
		rv.Notes = sql.NullString{String: n, Valid: true}
	}
	if err := s.submissions.Review(ctx, id, rv); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return repo.Submission{}, fmt.Errorf("%w: submission %s changed concurrently", ErrInvalidTransition, id)
		}
		return repo.Submission{}, err
	}

	updated, err := s.submissions.Get(ctx, id)
	if err != nil {
		return repo.Submission{}, err
	}
	s.emit(ctx, notify.Event{
		Type:       notify.SubmissionReviewed,
		SubjectID:  updated.ID,
		Status:     updated.ReviewStatus,
		Title:      "Submission " + updated.ReviewStatus,
		Body:       updated.AdminNotes.String,
		Data:       map[string]string{"campaign_id": updated.CampaignID},
		Recipients: []string{updated.InfluencerID},
	})
	return updated, nil
}

// ListSubmissionsByInfluencer returns the influencer's submissions.
func (s *Service) ListSubmissionsByInfluencer(ctx context.Context, influencerID string) ([]repo.Submission, error) {
	return s.submissions.ListByInfluencer(ctx, influencerID)
}

// ListSubmissions pages through submissions, optionally filtered by review status.
func (s *Service) ListSubmissions(ctx context.Context, reviewStatus string, limit, offset int) ([]repo.Submission, error) {
	if reviewStatus != "" && !lifecycle.Submission.Known(reviewStatus) {
		return nil, fmt.Errorf("%w: unknown review status %q", ErrValidation, reviewStatus)
	}
	return s.submissions.List(ctx, reviewStatus, limit, offset)
}
