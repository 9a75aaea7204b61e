package models

import "time"

type InfluencerProfile struct {
	UserID          string    `json:"user_id"`
	Name            string    `json:"name" validate:"required"`
	Phone           string    `json:"phone"`
	InstagramLink   string    `json:"instagram_link" validate:"omitempty,url"`
	Location        string    `json:"location"`
	Gender          string    `json:"gender"`
	Age             int       `json:"age" validate:"gte=0,lte=150"`
	ContentCategory string    `json:"content_category"`
	FollowersCount  int       `json:"followers_count" validate:"gte=0"`
	Language        string    `json:"language"`
	BankDetails     string    `json:"bank_details"`
	UPIID           string    `json:"upi_id"`
	ProfileVerified bool      `json:"profile_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

const (
	BrandVerificationPending  = "pending"
	BrandVerificationVerified = "verified"
	BrandVerificationRejected = "rejected"
)

type BrandProfile struct {
	UserID             string    `json:"user_id"`
	CompanyName        string    `json:"company_name" validate:"required"`
	CompanyLogo        string    `json:"company_logo" validate:"omitempty,url"`
	Industry           string    `json:"industry"`
	Website            string    `json:"website" validate:"omitempty,url"`
	Phone              string    `json:"phone"`
	Location           string    `json:"location"`
	Description        string    `json:"description"`
	VerificationStatus string    `json:"verification_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
