package stats

import (
	"testing"

	"collabBack/internal/marketplace/lifecycle"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/money"
)

func TestApprovalRate(t *testing.T) {
	cases := []struct {
		approved, total, want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{1, 200, 1},
		{3, 3, 100},
	}
	for _, tc := range cases {
		if got := ApprovalRate(tc.approved, tc.total); got != tc.want {
			t.Errorf("ApprovalRate(%d, %d) = %d, want %d", tc.approved, tc.total, got, tc.want)
		}
	}
}

func TestInfluencerWithoutApplications(t *testing.T) {
	a := Influencer(nil, nil)
	if a.ApprovalRate != 0 || a.Applications != 0 || a.TotalEarnings != 0 {
		t.Fatalf("unexpected analytics: %+v", a)
	}
}

func TestInfluencerEarnings(t *testing.T) {
	apps := []repo.Application{
		{Status: lifecycle.ApplicationSubmitted},
		{Status: lifecycle.ApplicationApproved},
		{Status: lifecycle.ApplicationRejected},
		{Status: lifecycle.ApplicationApplied},
	}
	payments := []repo.Payment{
		{Amount: money.FromMajor(5000), Status: lifecycle.PaymentCompleted},
		{Amount: money.FromMajor(1200), Status: lifecycle.PaymentPending},
	}
	a := Influencer(apps, payments)
	if a.CampaignsParticipated != 4 || a.Applications != 4 {
		t.Fatalf("unexpected counts: %+v", a)
	}
	if a.CompletedCampaigns != 1 {
		t.Fatalf("expected one completed campaign, got %d", a.CompletedCampaigns)
	}
	if a.TotalEarnings != money.FromMajor(5000) || a.PendingEarnings != money.FromMajor(1200) {
		t.Fatalf("unexpected earnings: %s / %s", a.TotalEarnings, a.PendingEarnings)
	}
	if a.ApprovalRate != 25 {
		t.Fatalf("expected approval rate 25, got %d", a.ApprovalRate)
	}
}

func TestBrandTotalsIncludeCancelledCampaigns(t *testing.T) {
	campaigns := []repo.Campaign{
		{PaymentAmount: money.FromMajor(1000), Status: lifecycle.CampaignActive},
		{PaymentAmount: money.FromMajor(500), Status: lifecycle.CampaignCancelled},
		{PaymentAmount: money.FromMajor(250), Status: lifecycle.CampaignCompleted},
	}
	apps := []repo.Application{
		{Status: lifecycle.ApplicationApproved},
		{Status: lifecycle.ApplicationSubmitted},
	}
	s := Brand(campaigns, apps)
	if s.TotalCampaigns != 3 || s.ActiveCampaigns != 1 {
		t.Fatalf("unexpected campaign counts: %+v", s)
	}
	if s.TotalApplications != 2 || s.ApprovedApplications != 1 {
		t.Fatalf("unexpected application counts: %+v", s)
	}
	if s.TotalSpent != money.FromMajor(1750) {
		t.Fatalf("expected total spent 1750.00, got %s", s.TotalSpent)
	}

	w := Wallet(campaigns, []repo.Payment{
		{Amount: money.FromMajor(300), Status: lifecycle.PaymentCompleted},
		{Amount: money.FromMajor(100), Status: lifecycle.PaymentPending},
	})
	if w.Committed != money.FromMajor(1250) || w.Paid != money.FromMajor(300) || w.Outstanding != money.FromMajor(100) {
		t.Fatalf("unexpected wallet: %+v", w)
	}
}

func TestWithdrawalsSummary(t *testing.T) {
	list := []repo.Withdrawal{
		{Amount: money.FromMajor(100), Status: lifecycle.WithdrawalPending},
		{Amount: money.FromMajor(250), Status: lifecycle.WithdrawalPending},
		{Amount: money.FromMajor(40), Status: lifecycle.WithdrawalCompleted},
		{Amount: money.FromMajor(70), Status: lifecycle.WithdrawalRejected},
	}
	balance := repo.Balance{Earned: money.FromMajor(1000), Reserved: money.FromMajor(350), Withdrawn: money.FromMajor(40)}
	s := Withdrawals(list, balance)
	if s.PendingWithdrawals != money.FromMajor(350) {
		t.Fatalf("expected pending 350.00, got %s", s.PendingWithdrawals)
	}
	if s.CompletedWithdrawals != money.FromMajor(40) {
		t.Fatalf("expected completed 40.00, got %s", s.CompletedWithdrawals)
	}
	if s.AvailableBalance != money.FromMajor(610) {
		t.Fatalf("expected available 610.00, got %s", s.AvailableBalance)
	}
}
