// Package ledger implements the campaign, application, submission, payment and
// withdrawal operations of the marketplace on top of the transactional stores.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"collabBack/internal/marketplace/notify"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/money"
)

// CampaignStore persists campaigns.
type CampaignStore interface {
	Create(ctx context.Context, c repo.Campaign) error
	Get(ctx context.Context, id string) (repo.Campaign, error)
	ListActive(ctx context.Context, limit, offset int) ([]repo.Campaign, error)
	ListByBrand(ctx context.Context, brandID string) ([]repo.Campaign, error)
	ListExpired(ctx context.Context, now time.Time) ([]repo.Campaign, error)
	UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// ApplicationStore persists applications.
type ApplicationStore interface {
	Create(ctx context.Context, a repo.Application) error
	Get(ctx context.Context, id string) (repo.Application, error)
	ListByInfluencer(ctx context.Context, influencerID string) ([]repo.Application, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]repo.Application, error)
	ListByBrand(ctx context.Context, brandID string) ([]repo.Application, error)
	List(ctx context.Context, limit, offset int) ([]repo.Application, error)
	Decide(ctx context.Context, id string, d repo.Decision) error
}

// SubmissionStore persists submissions. CreateForApplication must move the
// application to Submitted in the same transaction.
type SubmissionStore interface {
	CreateForApplication(ctx context.Context, s repo.Submission) error
	Get(ctx context.Context, id string) (repo.Submission, error)
	ListByInfluencer(ctx context.Context, influencerID string) ([]repo.Submission, error)
	List(ctx context.Context, reviewStatus string, limit, offset int) ([]repo.Submission, error)
	Review(ctx context.Context, id string, rv repo.Review) error
}

// PaymentStore persists payment records.
type PaymentStore interface {
	Create(ctx context.Context, p repo.Payment) error
	Get(ctx context.Context, id string) (repo.Payment, error)
	ListByInfluencer(ctx context.Context, influencerID string) ([]repo.Payment, error)
	ListByBrand(ctx context.Context, brandID string) ([]repo.Payment, error)
	Complete(ctx context.Context, id string, at time.Time) error
}

// WithdrawalStore persists withdrawal requests. Create must reject requests that
// exceed the available balance under a per-influencer lock.
type WithdrawalStore interface {
	Create(ctx context.Context, w repo.Withdrawal) error
	Get(ctx context.Context, id string) (repo.Withdrawal, error)
	ListByInfluencer(ctx context.Context, influencerID string) ([]repo.Withdrawal, error)
	Process(ctx context.Context, id string, p repo.Processing) error
	Balance(ctx context.Context, influencerID string) (repo.Balance, error)
}

// Directory supplies display names from the account layer.
type Directory interface {
	InfluencerContact(ctx context.Context, influencerID string) (name, email string, err error)
	BrandName(ctx context.Context, brandID string) (string, error)
}

// Notifier receives events after the state change committed.
type Notifier interface {
	Notify(ctx context.Context, e notify.Event)
}

// Stores groups the persistence dependencies of the service.
type Stores struct {
	Campaigns    CampaignStore
	Applications ApplicationStore
	Submissions  SubmissionStore
	Payments     PaymentStore
	Withdrawals  WithdrawalStore
}

// Options tunes validation rules.
type Options struct {
	MinWithdrawal money.Amount
}

// Service implements the marketplace operations.
type Service struct {
	campaigns    CampaignStore
	applications ApplicationStore
	submissions  SubmissionStore
	payments     PaymentStore
	withdrawals  WithdrawalStore

	directory     Directory
	notifier      Notifier
	minWithdrawal money.Amount

	now   func() time.Time
	newID func() string
}

// NewService constructs a Service. directory and notifier may be nil.
func NewService(stores Stores, directory Directory, notifier Notifier, opts Options) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{
		campaigns:     stores.Campaigns,
		applications:  stores.Applications,
		submissions:   stores.Submissions,
		payments:      stores.Payments,
		withdrawals:   stores.Withdrawals,
		directory:     directory,
		notifier:      notifier,
		minWithdrawal: opts.MinWithdrawal,
		now:           func() time.Time { return normalizeTime(time.Now()) },
		newID:         uuid.NewString,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = func() time.Time { return normalizeTime(now()) }
}

// normalizeTime keeps what the store can hold: UTC at microsecond precision.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func (s *Service) emit(ctx context.Context, e notify.Event) {
	if len(e.Recipients) == 0 {
		return
	}
	e.At = s.now()
	s.notifier.Notify(context.WithoutCancel(ctx), e)
}
