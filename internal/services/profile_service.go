package services

import (
	"context"
	"errors"
	"time"

	"collabBack/internal/marketplace/ledger"
	"collabBack/internal/models"
)

type ProfileStore interface {
	SaveInfluencerProfile(ctx context.Context, p models.InfluencerProfile) error
	GetInfluencerProfile(ctx context.Context, userID string) (models.InfluencerProfile, error)
	SaveBrandProfile(ctx context.Context, p models.BrandProfile) error
	GetBrandProfile(ctx context.Context, userID string) (models.BrandProfile, error)
	InfluencerContact(ctx context.Context, userID string) (string, string, error)
	BrandName(ctx context.Context, userID string) (string, error)
}

type ProfileService struct {
	ProfileRepo ProfileStore
}

func (s *ProfileService) SaveInfluencerProfile(ctx context.Context, userID string, p models.InfluencerProfile) (models.InfluencerProfile, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	p.UserID = userID
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.ProfileRepo.SaveInfluencerProfile(ctx, p); err != nil {
		return models.InfluencerProfile{}, err
	}
	return s.ProfileRepo.GetInfluencerProfile(ctx, userID)
}

func (s *ProfileService) GetInfluencerProfile(ctx context.Context, userID string) (models.InfluencerProfile, error) {
	return s.ProfileRepo.GetInfluencerProfile(ctx, userID)
}

func (s *ProfileService) SaveBrandProfile(ctx context.Context, userID string, p models.BrandProfile) (models.BrandProfile, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	p.UserID = userID
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.ProfileRepo.SaveBrandProfile(ctx, p); err != nil {
		return models.BrandProfile{}, err
	}
	return s.ProfileRepo.GetBrandProfile(ctx, userID)
}

func (s *ProfileService) GetBrandProfile(ctx context.Context, userID string) (models.BrandProfile, error) {
	return s.ProfileRepo.GetBrandProfile(ctx, userID)
}

// InfluencerContact supplies the name and email copied onto new applications.
func (s *ProfileService) InfluencerContact(ctx context.Context, influencerID string) (string, string, error) {
	name, email, err := s.ProfileRepo.InfluencerContact(ctx, influencerID)
	if errors.Is(err, models.ErrUserNotFound) {
		return "", "", ledger.ErrNotFound
	}
	return name, email, err
}

// BrandName supplies the company name copied onto new campaigns.
func (s *ProfileService) BrandName(ctx context.Context, brandID string) (string, error) {
	name, err := s.ProfileRepo.BrandName(ctx, brandID)
	if errors.Is(err, models.ErrNoRecord) {
		return "", ledger.ErrNotFound
	}
	return name, err
}
