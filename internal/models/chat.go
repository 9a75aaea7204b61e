package models

import "time"

// Conversation connects the brand and the influencer of one campaign.
type Conversation struct {
	ID            string     `json:"id"`
	CampaignID    string     `json:"campaign_id"`
	InfluencerID  string     `json:"influencer_id"`
	BrandID       string     `json:"brand_id"`
	LastMessage   *string    `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// HasParticipant reports whether userID is the influencer or the brand.
func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.InfluencerID == userID || c.BrandID == userID)
}

// Counterpart returns the other participant.
func (c Conversation) Counterpart(userID string) string {
	if c.InfluencerID == userID {
		return c.BrandID
	}
	return c.InfluencerID
}
