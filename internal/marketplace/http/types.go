package http

import (
	"time"

	"collabBack/internal/marketplace/repo"
	"collabBack/internal/money"
)

type campaignResponse struct {
	ID                string       `json:"id"`
	BrandID           string       `json:"brand_id"`
	BrandName         string       `json:"brand_name"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Requirements      string       `json:"requirements"`
	CollaborationType string       `json:"collaboration_type"`
	ReferenceVideoURL *string      `json:"reference_video_url,omitempty"`
	PaymentAmount     money.Amount `json:"payment_amount"`
	Deadline          time.Time    `json:"deadline"`
	Status            string       `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

func makeCampaignResponse(c repo.Campaign) campaignResponse {
	return campaignResponse{
		ID:                c.ID,
		BrandID:           c.BrandID,
		BrandName:         c.BrandName,
		Title:             c.Title,
		Description:       c.Description,
		Requirements:      c.Requirements,
		CollaborationType: c.CollaborationType,
		ReferenceVideoURL: nullToPtr(c.ReferenceVideoURL),
		PaymentAmount:     c.PaymentAmount,
		Deadline:          c.Deadline,
		Status:            c.Status,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func makeCampaignList(list []repo.Campaign) []campaignResponse {
	resp := make([]campaignResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, makeCampaignResponse(c))
	}
	return resp
}

type applicationResponse struct {
	ID              string     `json:"id"`
	CampaignID      string     `json:"campaign_id"`
	InfluencerID    string     `json:"influencer_id"`
	InfluencerName  string     `json:"influencer_name"`
	InfluencerEmail string     `json:"influencer_email"`
	Status          string     `json:"status"`
	AppliedAt       time.Time  `json:"applied_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
}

func makeApplicationResponse(a repo.Application) applicationResponse {
	return applicationResponse{
		ID:              a.ID,
		CampaignID:      a.CampaignID,
		InfluencerID:    a.InfluencerID,
		InfluencerName:  a.InfluencerName,
		InfluencerEmail: a.InfluencerEmail,
		Status:          a.Status,
		AppliedAt:       a.AppliedAt,
		ReviewedAt:      nullTimeToPtr(a.ReviewedAt),
		ApprovedAt:      nullTimeToPtr(a.ApprovedAt),
		SubmittedAt:     nullTimeToPtr(a.SubmittedAt),
		RejectionReason: nullToPtr(a.RejectionReason),
	}
}

func makeApplicationList(list []repo.Application) []applicationResponse {
	resp := make([]applicationResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, makeApplicationResponse(a))
	}
	return resp
}

type submissionResponse struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	CampaignID    string    `json:"campaign_id"`
	InfluencerID  string    `json:"influencer_id"`
	ContentLinks  []string  `json:"content_links"`
	VideoURL      *string   `json:"video_url,omitempty"`
	ReviewStatus  string    `json:"review_status"`
	AdminNotes    *string   `json:"admin_notes,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func makeSubmissionResponse(s repo.Submission) submissionResponse {
	links := s.ContentLinks
	if links == nil {
		links = []string{}
	}
	return submissionResponse{
		ID:            s.ID,
		ApplicationID: s.ApplicationID,
		CampaignID:    s.CampaignID,
		InfluencerID:  s.InfluencerID,
		ContentLinks:  links,
		VideoURL:      nullToPtr(s.VideoURL),
		ReviewStatus:  s.ReviewStatus,
		AdminNotes:    nullToPtr(s.AdminNotes),
		SubmittedAt:   s.SubmittedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func makeSubmissionList(list []repo.Submission) []submissionResponse {
	resp := make([]submissionResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, makeSubmissionResponse(s))
	}
	return resp
}

type paymentResponse struct {
	ID           string       `json:"id"`
	CampaignID   string       `json:"campaign_id"`
	InfluencerID string       `json:"influencer_id"`
	Amount       money.Amount `json:"amount"`
	Status       string       `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

func makePaymentResponse(p repo.Payment) paymentResponse {
	return paymentResponse{
		ID:           p.ID,
		CampaignID:   p.CampaignID,
		InfluencerID: p.InfluencerID,
		Amount:       p.Amount,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		CompletedAt:  nullTimeToPtr(p.CompletedAt),
	}
}

func makePaymentList(list []repo.Payment) []paymentResponse {
	resp := make([]paymentResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, makePaymentResponse(p))
	}
	return resp
}

type withdrawalResponse struct {
	ID            string       `json:"id"`
	InfluencerID  string       `json:"influencer_id"`
	Amount        money.Amount `json:"amount"`
	Status        string       `json:"status"`
	PaymentMethod string       `json:"payment_method"`
	Destination   string       `json:"destination"`
	RequestedAt   time.Time    `json:"requested_at"`
	ProcessedAt   *time.Time   `json:"processed_at,omitempty"`
	TransactionID *string      `json:"transaction_id,omitempty"`
}

func makeWithdrawalResponse(w repo.Withdrawal) withdrawalResponse {
	return withdrawalResponse{
		ID:            w.ID,
		InfluencerID:  w.InfluencerID,
		Amount:        w.Amount,
		Status:        w.Status,
		PaymentMethod: w.PaymentMethod,
		Destination:   w.Destination,
		RequestedAt:   w.RequestedAt,
		ProcessedAt:   nullTimeToPtr(w.ProcessedAt),
		TransactionID: nullToPtr(w.TransactionID),
	}
}

type balanceResponse struct {
	Earned    money.Amount `json:"earned"`
	Reserved  money.Amount `json:"reserved"`
	Withdrawn money.Amount `json:"withdrawn"`
	Available money.Amount `json:"available"`
}

func makeBalanceResponse(b repo.Balance) balanceResponse {
	return balanceResponse{
		Earned:    b.Earned,
		Reserved:  b.Reserved,
		Withdrawn: b.Withdrawn,
		Available: b.Available(),
	}
}
