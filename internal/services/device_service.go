package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"collabBack/internal/models"
)

type DeviceStore interface {
	RegisterDevice(ctx context.Context, d models.DeviceToken) error
}

type DeviceService struct {
	DeviceRepo DeviceStore
}

func (s *DeviceService) RegisterDevice(ctx context.Context, userID, token string) (models.DeviceToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.DeviceToken{}, fmt.Errorf("%w: token is required", models.ErrValidation)
	}
	d := models.DeviceToken{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.DeviceRepo.RegisterDevice(ctx, d); err != nil {
		return models.DeviceToken{}, err
	}
	return d, nil
}
