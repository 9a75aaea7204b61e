package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"collabBack/internal/marketplace/ledger"
	"collabBack/internal/marketplace/ledger/ledgertest"
	"collabBack/internal/marketplace/lifecycle"
	"collabBack/internal/marketplace/notify"
	"collabBack/internal/money"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(_ context.Context, e notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type stubDirectory struct{}

func (stubDirectory) InfluencerContact(_ context.Context, id string) (string, string, error) {
	return "Influencer " + id, id + "@example.com", nil
}

func (stubDirectory) BrandName(_ context.Context, id string) (string, error) {
	return "Brand " + id, nil
}

type fixture struct {
	svc      *ledger.Service
	db       *ledgertest.DB
	notifier *recordingNotifier
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:       ledgertest.New(),
		notifier: &recordingNotifier{},
		now:      time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC),
	}
	f.svc = ledger.NewService(f.db.Stores(), stubDirectory{}, f.notifier, ledger.Options{MinWithdrawal: money.FromMajor(1)})
	f.svc.SetClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) campaign(t *testing.T, brandID string, amount int64) string {
	t.Helper()
	c, err := f.svc.CreateCampaign(context.Background(), brandID, ledger.CampaignInput{
		Title:         "Summer launch",
		Description:   "Reels for the summer collection",
		Requirements:  "2 reels",
		PaymentAmount: money.FromMajor(amount),
		Deadline:      f.now.Add(72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	return c.ID
}

func (f *fixture) approvedApplication(t *testing.T, campaignID, influencerID string) string {
	t.Helper()
	ctx := context.Background()
	a, err := f.svc.SubmitApplication(ctx, campaignID, influencerID)
	if err != nil {
		t.Fatalf("submit application: %v", err)
	}
	if _, err := f.svc.Decide(ctx, a.ID, lifecycle.ApplicationApproved, "admin-1", ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	return a.ID
}

func TestCreateCampaignValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := []ledger.CampaignInput{
		{Title: "", PaymentAmount: money.FromMajor(10), Deadline: f.now},
		{Title: "x", PaymentAmount: 0, Deadline: f.now},
		{Title: "x", PaymentAmount: money.FromMajor(-5), Deadline: f.now},
		{Title: "x", PaymentAmount: money.FromMajor(10)},
	}
	for i, in := range cases {
		if _, err := f.svc.CreateCampaign(ctx, "brand-1", in); !errors.Is(err, ledger.ErrValidation) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}

	c, err := f.svc.CreateCampaign(ctx, "brand-1", ledger.CampaignInput{Title: "ok", PaymentAmount: money.FromMajor(10), Deadline: f.now})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Status != lifecycle.CampaignActive || c.BrandName != "Brand brand-1" {
		t.Fatalf("unexpected campaign: %+v", c)
	}
}

func TestDecideAfterApprovalFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaignID := f.campaign(t, "brand-1", 5000)
	appID := f.approvedApplication(t, campaignID, "inf-1")

	if _, err := f.svc.Decide(ctx, appID, lifecycle.ApplicationRejected, "admin-1", "late"); !errors.Is(err, ledger.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from Approved, got %v", err)
	}

	if _, err := f.svc.SubmitContent(ctx, appID, "inf-1", []string{"https://instagram.com/p/1"}, ""); err != nil {
		t.Fatalf("submit content: %v", err)
	}
	if _, err := f.svc.Decide(ctx, appID, lifecycle.ApplicationRejected, "admin-1", ""); !errors.Is(err, ledger.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from Submitted, got %v", err)
	}
}

func TestDecideSameStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaignID := f.campaign(t, "brand-1", 100)
	appID := f.approvedApplication(t, campaignID, "inf-1")
	before, err := f.svc.GetApplication(ctx, appID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	f.now = f.now.Add(time.Hour)
	after, err := f.svc.Decide(ctx, appID, lifecycle.ApplicationApproved, "admin-1", "")
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if !after.ApprovedAt.Time.Equal(before.ApprovedAt.Time) || !after.ReviewedAt.Time.Equal(before.ReviewedAt.Time) {
		t.Fatalf("expected unchanged record, got %+v", after)
	}
}

func TestDecideRejectsUnknownDecision(t *testing.T) {
	f := newFixture(t)
	campaignID := f.campaign(t, "brand-1", 100)
	a, err := f.svc.SubmitApplication(context.Background(), campaignID, "inf-1")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := f.svc.Decide(context.Background(), a.ID, lifecycle.ApplicationSubmitted, "admin-1", ""); !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.svc.Decide(context.Background(), "missing", lifecycle.ApplicationApproved, "admin-1", ""); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRejectionRecordsReasonAndAllowsReapply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaignID := f.campaign(t, "brand-1", 100)
	a, err := f.svc.SubmitApplication(ctx, campaignID, "inf-1")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := f.svc.SubmitApplication(ctx, campaignID, "inf-1"); !errors.Is(err, ledger.ErrDuplicateApplication) {
		t.Fatalf("expected duplicate application, got %v", err)
	}
	if _, err := f.svc.MarkUnderReview(ctx, a.ID); err != nil {
		t.Fatalf("under review: %v", err)
	}
	rejected, err := f.svc.Decide(ctx, a.ID, lifecycle.ApplicationRejected, "admin-1", "audience mismatch")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.RejectionReason.String != "audience mismatch" || rejected.ApprovedAt.Valid || !rejected.ReviewedAt.Valid {
		t.Fatalf("unexpected rejected record: %+v", rejected)
	}
	if _, err := f.svc.SubmitApplication(ctx, campaignID, "inf-1"); err != nil {
		t.Fatalf("re-apply after rejection: %v", err)
	}
}

func TestApplyToClosedCampaign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaignID := f.campaign(t, "brand-1", 100)
	if _, err := f.svc.UpdateCampaignStatus(ctx, campaignID, lifecycle.CampaignCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.svc.SubmitApplication(ctx, campaignID, "inf-1"); !errors.Is(err, ledger.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if _, err := f.svc.SubmitApplication(ctx, "missing", "inf-1"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.svc.UpdateCampaignStatus(ctx, campaignID, lifecycle.CampaignActive); !errors.Is(err, ledger.ErrInvalidTransition) {
		t.Fatalf("expected cancelled to be terminal, got %v", err)
	}
}

func TestSubmitContentUpdatesApplicationTogether(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaignID := f.campaign(t, "brand-1", 100)
	appID := f.approvedApplication(t, campaignID, "inf-1")

	sub, err := f.svc.SubmitContent(ctx, appID, "inf-1", []string{" https://instagram.com/p/1 ", "https://youtu.be/x"}, "https://cdn/video.mp4")
	if err != nil {
		t.Fatalf("submit content: %v", err)
	}
	if sub.ReviewStatus != lifecycle.ReviewPending || len(sub.ContentLinks) != 2 || sub.ContentLinks[0] != "https://instagram.com/p/1" {
		t.Fatalf("unexpected submission: %+v", sub)
	}

	apps, err := f.svc.ListApplicationsByCampaign(ctx, campaignID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(apps) != 1 || apps[0].Status != lifecycle.ApplicationSubmitted || !apps[0].SubmittedAt.Valid {
		t.Fatalf("expected submitted application with timestamp, got %+v", apps)
	}
	if !apps[0].SubmittedAt.Time.Equal(sub.SubmittedAt) {
		t.Fatalf("submittedAt mismatch: %v vs %v", apps[0].SubmittedAt.Time, sub.SubmittedAt)
	}

	if _, err := f.svc.SubmitContent(ctx, appID, "inf-1", []string{"https://x"}, ""); !errors.Is(err, ledger.ErrInvalidApplication) {
		t.Fatalf("expected second submission to fail, got %v", err)
	}
}

func TestSubmitContentRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaignID := f.campaign(t, "brand-1", 100)
	pending, err := f.svc.SubmitApplication(ctx, campaignID, "inf-2")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	appID := f.approvedApplication(t, campaignID, "inf-1")

	cases := []struct {
		name  string
		appID string
		inf   string
		links []string
		want  error
	}{
		{"no links", appID, "inf-1", nil, ledger.ErrValidation},
		{"blank link", appID, "inf-1", []string{"https://a", "  "}, ledger.ErrValidation},
		{"unknown application", "missing", "inf-1", []string{"https://a"}, ledger.ErrInvalidApplication},
		{"foreign application", appID, "inf-2", []string{"https://a"}, ledger.ErrInvalidApplication},
		{"not approved", pending.ID, "inf-2", []string{"https://a"}, ledger.ErrInvalidApplication},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.SubmitContent(ctx, tc.appID, tc.inf, tc.links, ""); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	a, err := f.svc.GetApplication(ctx, appID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.Status != lifecycle.ApplicationApproved {
		t.Fatalf("failed submissions must not move the application, got %s", a.Status)
	}
}

func TestReviewSubmissionIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaignID := f.campaign(t, "brand-1", 100)
	appID := f.approvedApplication(t, campaignID, "inf-1")
	sub, err := f.svc.SubmitContent(ctx, appID, "inf-1", []string{"https://a"}, "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	f.now = f.now.Add(time.Minute)
	reviewed, err := f.svc.ReviewSubmission(ctx, sub.ID, lifecycle.ReviewApproved, "great")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if reviewed.AdminNotes.String != "great" || !reviewed.UpdatedAt.Equal(f.now.Truncate(time.Microsecond)) {
		t.Fatalf("unexpected review: %+v", reviewed)
	}
	if _, err := f.svc.ReviewSubmission(ctx, sub.ID, lifecycle.ReviewRejected, ""); !errors.Is(err, ledger.ErrInvalidTransition) {
		t.Fatalf("expected terminal review, got %v", err)
	}
	if _, err := f.svc.ReviewSubmission(ctx, sub.ID, lifecycle.ReviewPending, ""); !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("expected validation error for pending, got %v", err)
	}
}

func TestAnalyticsWithoutApplications(t *testing.T) {
	f := newFixture(t)
	a, err := f.svc.InfluencerAnalytics(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if a.ApprovalRate != 0 || a.Applications != 0 {
		t.Fatalf("unexpected analytics: %+v", a)
	}
}

func TestPendingWithdrawalsSum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaignID := f.campaign(t, "brand-1", 1000)
	p, err := f.svc.RecordPayment(ctx, campaignID, "inf-1", money.FromMajor(1000))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := f.svc.MarkPaymentCompleted(ctx, p.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	for _, amount := range []int64{100, 250} {
		if _, err := f.svc.RequestWithdrawal(ctx, "inf-1", money.FromMajor(amount), ledger.MethodUPI, "inf@upi"); err != nil {
			t.Fatalf("withdraw %d: %v", amount, err)
		}
	}
	summary, err := f.svc.WithdrawalSummary(ctx, "inf-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.PendingWithdrawals != money.FromMajor(350) {
		t.Fatalf("expected 350.00 pending, got %s", summary.PendingWithdrawals)
	}
	if summary.AvailableBalance != money.FromMajor(650) {
		t.Fatalf("expected 650.00 available, got %s", summary.AvailableBalance)
	}
}

func TestWithdrawalCannotExceedBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaignID := f.campaign(t, "brand-1", 500)

	if _, err := f.svc.RequestWithdrawal(ctx, "inf-1", money.FromMajor(10), ledger.MethodBank, "ACC-1"); !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance with no earnings, got %v", err)
	}

	p, err := f.svc.RecordPayment(ctx, campaignID, "inf-1", money.FromMajor(500))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := f.svc.RequestWithdrawal(ctx, "inf-1", money.FromMajor(10), ledger.MethodBank, "ACC-1"); !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("pending payments must not count, got %v", err)
	}
	if _, err := f.svc.MarkPaymentCompleted(ctx, p.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	w, err := f.svc.RequestWithdrawal(ctx, "inf-1", money.FromMajor(400), ledger.MethodBank, "ACC-1")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := f.svc.RequestWithdrawal(ctx, "inf-1", money.FromMajor(101), ledger.MethodBank, "ACC-1"); !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	if _, err := f.svc.ProcessWithdrawal(ctx, w.ID, lifecycle.WithdrawalRejected, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := f.svc.RequestWithdrawal(ctx, "inf-1", money.FromMajor(500), ledger.MethodBank, "ACC-1"); err != nil {
		t.Fatalf("rejected withdrawals release funds: %v", err)
	}
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaignID := f.campaign(t, "brand-1", 1000)
	p, err := f.svc.RecordPayment(ctx, campaignID, "inf-1", money.FromMajor(1000))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := f.svc.MarkPaymentCompleted(ctx, p.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.RequestWithdrawal(ctx, "inf-1", money.FromMajor(100), ledger.MethodUPI, "inf@upi"); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if ok != 10 {
		t.Fatalf("expected exactly 10 successful withdrawals, got %d", ok)
	}
	b, err := f.svc.Balance(ctx, "inf-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if b.Available() != 0 {
		t.Fatalf("expected zero available, got %s", b.Available())
	}
}

func TestWithdrawalValidationAndProcessing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := []struct {
		amount money.Amount
		method string
		dest   string
	}{
		{0, ledger.MethodUPI, "x@upi"},
		{money.Amount(50), ledger.MethodUPI, "x@upi"},
		{money.FromMajor(10), "paypal", "x"},
		{money.FromMajor(10), ledger.MethodBank, "  "},
	}
	for i, tc := range cases {
		if _, err := f.svc.RequestWithdrawal(ctx, "inf-1", tc.amount, tc.method, tc.dest); !errors.Is(err, ledger.ErrValidation) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}

	campaignID := f.campaign(t, "brand-1", 100)
	p, _ := f.svc.RecordPayment(ctx, campaignID, "inf-1", money.FromMajor(100))
	if _, err := f.svc.MarkPaymentCompleted(ctx, p.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	w, err := f.svc.RequestWithdrawal(ctx, "inf-1", money.FromMajor(60), ledger.MethodUPI, "inf@upi")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	approved, err := f.svc.ProcessWithdrawal(ctx, w.ID, lifecycle.WithdrawalApproved, "")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.ProcessedAt.Valid {
		t.Fatalf("approved is not terminal, processedAt must stay empty")
	}
	done, err := f.svc.ProcessWithdrawal(ctx, w.ID, lifecycle.WithdrawalCompleted, "TXN-42")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done.ProcessedAt.Valid || done.TransactionID.String != "TXN-42" {
		t.Fatalf("unexpected completed withdrawal: %+v", done)
	}
	if _, err := f.svc.ProcessWithdrawal(ctx, w.ID, lifecycle.WithdrawalRejected, ""); !errors.Is(err, ledger.ErrInvalidTransition) {
		t.Fatalf("expected completed to be terminal, got %v", err)
	}
	b, _ := f.svc.Balance(ctx, "inf-1")
	if b.Withdrawn != money.FromMajor(60) || b.Available() != money.FromMajor(40) {
		t.Fatalf("unexpected balance: %+v", b)
	}
}

func TestFullScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaignID := f.campaign(t, "brand-1", 5000)
	appID := f.approvedApplication(t, campaignID, "inf-1")

	sub, err := f.svc.SubmitContent(ctx, appID, "inf-1", []string{"https://instagram.com/p/1"}, "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.ReviewSubmission(ctx, sub.ID, lifecycle.ReviewApproved, ""); err != nil {
		t.Fatalf("review: %v", err)
	}
	p, err := f.svc.RecordPayment(ctx, campaignID, "inf-1", money.FromMajor(5000))
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if _, err := f.svc.MarkPaymentCompleted(ctx, p.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	again, err := f.svc.MarkPaymentCompleted(ctx, p.ID)
	if err != nil || again.Status != lifecycle.PaymentCompleted {
		t.Fatalf("second completion should be a no-op, got %+v %v", again, err)
	}

	a, err := f.svc.InfluencerAnalytics(ctx, "inf-1")
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if a.TotalEarnings != money.FromMajor(5000) || a.PendingEarnings != 0 {
		t.Fatalf("unexpected earnings: %+v", a)
	}
	if a.CompletedCampaigns != 1 || a.ApprovalRate != 0 {
		t.Fatalf("unexpected analytics: %+v", a)
	}

	stats, err := f.svc.BrandStats(ctx, "brand-1")
	if err != nil {
		t.Fatalf("brand stats: %v", err)
	}
	if stats.TotalCampaigns != 1 || stats.TotalApplications != 1 || stats.TotalSpent != money.FromMajor(5000) {
		t.Fatalf("unexpected brand stats: %+v", stats)
	}
	wallet, err := f.svc.BrandWallet(ctx, "brand-1")
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if wallet.Paid != money.FromMajor(5000) || wallet.Outstanding != 0 {
		t.Fatalf("unexpected wallet: %+v", wallet)
	}

	want := []string{
		notify.ApplicationCreated,
		notify.ApplicationStatus,
		notify.SubmissionCreated,
		notify.SubmissionReviewed,
		notify.PaymentRecorded,
		notify.PaymentCompleted,
	}
	got := f.notifier.types()
	if len(got) != len(want) {
		t.Fatalf("unexpected events: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: want %s, got %s", i, want[i], got[i])
		}
	}
}

func TestRoundTripPreservesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deadline := time.Date(2024, 6, 30, 23, 59, 59, 999999999, time.FixedZone("IST", 5*3600+1800))
	amount, err := money.Parse("2499.99")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	created, err := f.svc.CreateCampaign(ctx, "brand-1", ledger.CampaignInput{
		Title:             "Round trip",
		Description:       "desc",
		Requirements:      "req",
		CollaborationType: "paid",
		ReferenceVideoURL: "https://cdn/ref.mp4",
		PaymentAmount:     amount,
		Deadline:          deadline,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := f.svc.GetCampaign(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != created {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, created)
	}
	if got.PaymentAmount.String() != "2499.99" {
		t.Fatalf("amount changed: %s", got.PaymentAmount)
	}
	if !got.Deadline.Equal(deadline.Truncate(time.Microsecond)) || got.Deadline.Location() != time.UTC {
		t.Fatalf("deadline not normalised: %v", got.Deadline)
	}
	if !got.CreatedAt.Equal(f.now.Truncate(time.Microsecond)) {
		t.Fatalf("createdAt not truncated: %v", got.CreatedAt)
	}
}

func TestDeleteCampaignWithDependents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	withApp := f.campaign(t, "brand-1", 100)
	if _, err := f.svc.SubmitApplication(ctx, withApp, "inf-1"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := f.svc.DeleteCampaign(ctx, withApp); !errors.Is(err, ledger.ErrHasDependents) {
		t.Fatalf("expected has dependents, got %v", err)
	}

	withPayment := f.campaign(t, "brand-1", 100)
	if _, err := f.svc.RecordPayment(ctx, withPayment, "inf-1", money.FromMajor(100)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := f.svc.DeleteCampaign(ctx, withPayment); !errors.Is(err, ledger.ErrHasDependents) {
		t.Fatalf("expected has dependents, got %v", err)
	}

	empty := f.campaign(t, "brand-1", 100)
	if err := f.svc.DeleteCampaign(ctx, empty); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.GetCampaign(ctx, empty); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected deleted campaign to be gone, got %v", err)
	}
}

func TestSweepExpiredCampaigns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	expired, err := f.svc.CreateCampaign(ctx, "brand-1", ledger.CampaignInput{
		Title: "old", PaymentAmount: money.FromMajor(1), Deadline: f.now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	fresh := f.campaign(t, "brand-1", 1)

	moved, err := f.svc.SweepExpiredCampaigns(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if moved != 1 {
		t.Fatalf("expected one campaign completed, got %d", moved)
	}
	c, _ := f.svc.GetCampaign(ctx, expired.ID)
	if c.Status != lifecycle.CampaignCompleted {
		t.Fatalf("expected completed, got %s", c.Status)
	}
	c, _ = f.svc.GetCampaign(ctx, fresh)
	if c.Status != lifecycle.CampaignActive {
		t.Fatalf("expected fresh campaign to stay active, got %s", c.Status)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.RecordPayment(ctx, "missing", "inf-1", money.FromMajor(10)); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	campaignID := f.campaign(t, "brand-1", 10)
	if _, err := f.svc.RecordPayment(ctx, campaignID, "inf-1", 0); !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.svc.MarkPaymentCompleted(ctx, "missing"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
