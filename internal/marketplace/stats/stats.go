// Package stats derives brand and influencer figures from the current records.
// Nothing is cached; callers pass in whatever they just read from the store.
package stats

import (
	"collabBack/internal/marketplace/lifecycle"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/money"
)

// BrandStats summarises a brand's campaigns.
type BrandStats struct {
	TotalCampaigns       int          `json:"total_campaigns"`
	ActiveCampaigns      int          `json:"active_campaigns"`
	TotalApplications    int          `json:"total_applications"`
	ApprovedApplications int          `json:"approved_applications"`
	TotalSpent           money.Amount `json:"total_spent"`
}

// InfluencerAnalytics summarises an influencer's activity.
type InfluencerAnalytics struct {
	CampaignsParticipated int          `json:"campaigns_participated"`
	Applications          int          `json:"applications"`
	CompletedCampaigns    int          `json:"completed_campaigns"`
	TotalEarnings         money.Amount `json:"total_earnings"`
	PendingEarnings       money.Amount `json:"pending_earnings"`
	ApprovalRate          int          `json:"approval_rate"`
}

// WithdrawalSummary aggregates an influencer's withdrawal requests.
type WithdrawalSummary struct {
	PendingWithdrawals   money.Amount `json:"pending_withdrawals"`
	CompletedWithdrawals money.Amount `json:"completed_withdrawals"`
	AvailableBalance     money.Amount `json:"available_balance"`
}

// BrandWallet is the money view of a brand.
type BrandWallet struct {
	TotalCampaigns int          `json:"total_campaigns"`
	Committed      money.Amount `json:"committed"`
	Paid           money.Amount `json:"paid"`
	Outstanding    money.Amount `json:"outstanding"`
}

// Brand computes stats over the brand's campaigns and the applications to them.
// TotalSpent covers every campaign, cancelled ones included.
func Brand(campaigns []repo.Campaign, applications []repo.Application) BrandStats {
	s := BrandStats{TotalCampaigns: len(campaigns), TotalApplications: len(applications)}
	for _, c := range campaigns {
		if c.Status == lifecycle.CampaignActive {
			s.ActiveCampaigns++
		}
		s.TotalSpent += c.PaymentAmount
	}
	for _, a := range applications {
		if a.Status == lifecycle.ApplicationApproved {
			s.ApprovedApplications++
		}
	}
	return s
}

// Influencer computes analytics over the influencer's applications and payments.
func Influencer(applications []repo.Application, payments []repo.Payment) InfluencerAnalytics {
	a := InfluencerAnalytics{
		CampaignsParticipated: len(applications),
		Applications:          len(applications),
	}
	approved := 0
	for _, app := range applications {
		switch app.Status {
		case lifecycle.ApplicationSubmitted:
			a.CompletedCampaigns++
		case lifecycle.ApplicationApproved:
			approved++
		}
	}
	for _, p := range payments {
		switch p.Status {
		case lifecycle.PaymentCompleted:
			a.TotalEarnings += p.Amount
		case lifecycle.PaymentPending:
			a.PendingEarnings += p.Amount
		}
	}
	a.ApprovalRate = ApprovalRate(approved, len(applications))
	return a
}

// ApprovalRate returns round(100*approved/total) with halves rounded up, or 0
// when total is zero.
func ApprovalRate(approved, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*approved + total) / (2 * total)
}

// Withdrawals sums pending and completed requests and reports the available balance.
func Withdrawals(withdrawals []repo.Withdrawal, balance repo.Balance) WithdrawalSummary {
	var s WithdrawalSummary
	for _, w := range withdrawals {
		switch w.Status {
		case lifecycle.WithdrawalPending:
			s.PendingWithdrawals += w.Amount
		case lifecycle.WithdrawalCompleted:
			s.CompletedWithdrawals += w.Amount
		}
	}
	s.AvailableBalance = balance.Available()
	return s
}

// Wallet computes the brand wallet. Committed excludes cancelled campaigns.
func Wallet(campaigns []repo.Campaign, payments []repo.Payment) BrandWallet {
	w := BrandWallet{TotalCampaigns: len(campaigns)}
	for _, c := range campaigns {
		if c.Status != lifecycle.CampaignCancelled {
			w.Committed += c.PaymentAmount
		}
	}
	for _, p := range payments {
		switch p.Status {
		case lifecycle.PaymentCompleted:
			w.Paid += p.Amount
		case lifecycle.PaymentPending:
			w.Outstanding += p.Amount
		}
	}
	return w
}
