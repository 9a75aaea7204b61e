package ledger

import (
	"context"

	"collabBack/internal/marketplace/stats"
)

// BrandStats recomputes the brand dashboard figures.
func (s *Service) BrandStats(ctx context.Context, brandID string) (stats.BrandStats, error) {
	campaigns, err := s.campaigns.ListByBrand(ctx, brandID)
	if err != nil {
		return stats.BrandStats{}, err
	}
	applications, err := s.applications.ListByBrand(ctx, brandID)
	if err != nil {
		return stats.BrandStats{}, err
	}
	return stats.Brand(campaigns, applications), nil
}

// InfluencerAnalytics recomputes the influencer dashboard figures.
func (s *Service) InfluencerAnalytics(ctx context.Context, influencerID string) (stats.InfluencerAnalytics, error) {
	applications, err := s.applications.ListByInfluencer(ctx, influencerID)
	if err != nil {
		return stats.InfluencerAnalytics{}, err
	}
	payments, err := s.payments.ListByInfluencer(ctx, influencerID)
	if err != nil {
		return stats.InfluencerAnalytics{}, err
	}
	return stats.Influencer(applications, payments), nil
}

// WithdrawalSummary recomputes the influencer's payout totals.
func (s *Service) WithdrawalSummary(ctx context.Context, influencerID string) (stats.WithdrawalSummary, error) {
	withdrawals, err := s.withdrawals.ListByInfluencer(ctx, influencerID)
	if err != nil {
		return stats.WithdrawalSummary{}, err
	}
	balance, err := s.withdrawals.Balance(ctx, influencerID)
	if err != nil {
		return stats.WithdrawalSummary{}, err
	}
	return stats.Withdrawals(withdrawals, balance), nil
}

// BrandWallet recomputes the brand's money view.
func (s *Service) BrandWallet(ctx context.Context, brandID string) (stats.BrandWallet, error) {
	campaigns, err := s.campaigns.ListByBrand(ctx, brandID)
	if err != nil {
		return stats.BrandWallet{}, err
	}
	payments, err := s.payments.ListByBrand(ctx, brandID)
	if err != nil {
		return stats.BrandWallet{}, err
	}
	return stats.Wallet(campaigns, payments), nil
}
