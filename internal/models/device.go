package models

import "time"

type DeviceToken struct {
	Token     string    `json:"token" validate:"required"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
