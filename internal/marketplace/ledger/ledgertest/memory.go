// Package ledgertest provides in-memory stores with the same contracts as the SQL
// repositories, for tests of the service and HTTP layers.
package ledgertest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slices"

	"collabBack/internal/marketplace/ledger"
	"collabBack/internal/marketplace/lifecycle"
	"collabBack/internal/marketplace/repo"
)

// DB holds every record behind one mutex so multi-record operations are atomic.
type DB struct {
	mu  sync.Mutex
	seq int64

	campaigns    map[string]*campaignRow
	applications map[string]*applicationRow
	submissions  map[string]*submissionRow
	payments     map[string]*paymentRow
	withdrawals  map[string]*withdrawalRow

	Campaigns    *Campaigns
	Applications *Applications
	Submissions  *Submissions
	Payments     *Payments
	Withdrawals  *Withdrawals
}

type campaignRow struct {
	seq int64
	rec repo.Campaign
}

type applicationRow struct {
	seq int64
	rec repo.Application
}

type submissionRow struct {
	seq int64
	rec repo.Submission
}

type paymentRow struct {
	seq int64
	rec repo.Payment
}

type withdrawalRow struct {
	seq int64
	rec repo.Withdrawal
}

// New returns an empty in-memory database.
func New() *DB {
	db := &DB{
		campaigns:    make(map[string]*campaignRow),
		applications: make(map[string]*applicationRow),
		submissions:  make(map[string]*submissionRow),
		payments:     make(map[string]*paymentRow),
		withdrawals:  make(map[string]*withdrawalRow),
	}
	db.Campaigns = &Campaigns{db: db}
	db.Applications = &Applications{db: db}
	db.Submissions = &Submissions{db: db}
	db.Payments = &Payments{db: db}
	db.Withdrawals = &Withdrawals{db: db}
	return db
}

// Stores returns the service wiring for this database.
func (d *DB) Stores() ledger.Stores {
	return ledger.Stores{
		Campaigns:    d.Campaigns,
		Applications: d.Applications,
		Submissions:  d.Submissions,
		Payments:     d.Payments,
		Withdrawals:  d.Withdrawals,
	}
}

func (d *DB) next() int64 {
	d.seq++
	return d.seq
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Campaigns implements ledger.CampaignStore.
type Campaigns struct{ db *DB }

func (s *Campaigns) Create(_ context.Context, c repo.Campaign) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.campaigns[c.ID]; ok {
		return repo.ErrDuplicate
	}
	s.db.campaigns[c.ID] = &campaignRow{seq: s.db.next(), rec: c}
	return nil
}

func (s *Campaigns) Get(_ context.Context, id string) (repo.Campaign, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.campaigns[id]
	if !ok {
		return repo.Campaign{}, repo.ErrNotFound
	}
	return row.rec, nil
}

func (s *Campaigns) ListActive(_ context.Context, limit, offset int) ([]repo.Campaign, error) {
	list := s.filter(func(c repo.Campaign) bool { return c.Status == lifecycle.CampaignActive })
	slices.Reverse(list)
	return page(list, limit, offset), nil
}

func (s *Campaigns) ListByBrand(_ context.Context, brandID string) ([]repo.Campaign, error) {
	return s.filter(func(c repo.Campaign) bool { return c.BrandID == brandID }), nil
}

func (s *Campaigns) ListExpired(_ context.Context, now time.Time) ([]repo.Campaign, error) {
	return s.filter(func(c repo.Campaign) bool {
		return c.Status == lifecycle.CampaignActive && c.Deadline.Before(now)
	}), nil
}

func (s *Campaigns) UpdateStatus(_ context.Context, id, from, to string, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.campaigns[id]
	if !ok {
		return repo.ErrNotFound
	}
	if row.rec.Status != from {
		return repo.ErrConflict
	}
	row.rec.Status = to
	row.rec.UpdatedAt = at
	return nil
}

func (s *Campaigns) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.campaigns[id]; !ok {
		return repo.ErrNotFound
	}
	for _, a := range s.db.applications {
		if a.rec.CampaignID == id {
			return repo.ErrHasDependents
		}
	}
	for _, p := range s.db.payments {
		if p.rec.CampaignID == id {
			return repo.ErrHasDependents
		}
	}
	delete(s.db.campaigns, id)
	return nil
}

func (s *Campaigns) filter(keep func(repo.Campaign) bool) []repo.Campaign {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	rows := make([]*campaignRow, 0, len(s.db.campaigns))
	for _, row := range s.db.campaigns {
		if keep(row.rec) {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b *campaignRow) int { return compareSeq(a.seq, b.seq) })
	out := make([]repo.Campaign, len(rows))
	for i, row := range rows {
		out[i] = row.rec
	}
	return out
}

// Applications implements ledger.ApplicationStore.
type Applications struct{ db *DB }

func (s *Applications) Create(_ context.Context, a repo.Application) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.campaigns[a.CampaignID]
	if !ok {
		return repo.ErrNotFound
	}
	if c.rec.Status != lifecycle.CampaignActive {
		return repo.ErrConflict
	}
	for _, row := range s.db.applications {
		if row.rec.CampaignID == a.CampaignID && row.rec.InfluencerID == a.InfluencerID &&
			row.rec.Status != lifecycle.ApplicationRejected {
			return repo.ErrDuplicate
		}
	}
	if _, ok := s.db.applications[a.ID]; ok {
		return repo.ErrDuplicate
	}
	s.db.applications[a.ID] = &applicationRow{seq: s.db.next(), rec: a}
	return nil
}

func (s *Applications) Get(_ context.Context, id string) (repo.Application, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.applications[id]
	if !ok {
		return repo.Application{}, repo.ErrNotFound
	}
	return row.rec, nil
}

func (s *Applications) ListByInfluencer(_ context.Context, influencerID string) ([]repo.Application, error) {
	return s.filter(func(a repo.Application) bool { return a.InfluencerID == influencerID }), nil
}

func (s *Applications) ListByCampaign(_ context.Context, campaignID string) ([]repo.Application, error) {
	return s.filter(func(a repo.Application) bool { return a.CampaignID == campaignID }), nil
}

func (s *Applications) ListByBrand(_ context.Context, brandID string) ([]repo.Application, error) {
	owned := s.db.brandCampaigns(brandID)
	return s.filter(func(a repo.Application) bool { return owned[a.CampaignID] }), nil
}

func (s *Applications) List(_ context.Context, limit, offset int) ([]repo.Application, error) {
	list := s.filter(func(repo.Application) bool { return true })
	slices.Reverse(list)
	return page(list, limit, offset), nil
}

func (s *Applications) Decide(_ context.Context, id string, d repo.Decision) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.applications[id]
	if !ok {
		return repo.ErrNotFound
	}
	if row.rec.Status != d.From {
		return repo.ErrConflict
	}
	row.rec.Status = d.To
	row.rec.ReviewedAt.Time, row.rec.ReviewedAt.Valid = d.At, true
	if d.To == lifecycle.ApplicationApproved {
		row.rec.ApprovedAt.Time, row.rec.ApprovedAt.Valid = d.At, true
	}
	if d.RejectionReason.Valid {
		row.rec.RejectionReason = d.RejectionReason
	}
	return nil
}

func (s *Applications) filter(keep func(repo.Application) bool) []repo.Application {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	rows := make([]*applicationRow, 0, len(s.db.applications))
	for _, row := range s.db.applications {
		if keep(row.rec) {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b *applicationRow) int { return compareSeq(a.seq, b.seq) })
	out := make([]repo.Application, len(rows))
	for i, row := range rows {
		out[i] = row.rec
	}
	return out
}

// Submissions implements ledger.SubmissionStore.
type Submissions struct{ db *DB }

func (s *Submissions) CreateForApplication(_ context.Context, sub repo.Submission) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	app, ok := s.db.applications[sub.ApplicationID]
	if !ok {
		return repo.ErrNotFound
	}
	if app.rec.Status != lifecycle.ApplicationApproved || app.rec.InfluencerID != sub.InfluencerID ||
		app.rec.CampaignID != sub.CampaignID {
		return repo.ErrConflict
	}
	for _, row := range s.db.submissions {
		if row.rec.ApplicationID == sub.ApplicationID {
			return repo.ErrDuplicate
		}
	}
	sub.ContentLinks = slices.Clone(sub.ContentLinks)
	s.db.submissions[sub.ID] = &submissionRow{seq: s.db.next(), rec: sub}
	app.rec.Status = lifecycle.ApplicationSubmitted
	app.rec.SubmittedAt.Time, app.rec.SubmittedAt.Valid = sub.SubmittedAt, true
	return nil
}

func (s *Submissions) Get(_ context.Context, id string) (repo.Submission, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.submissions[id]
	if !ok {
		return repo.Submission{}, repo.ErrNotFound
	}
	out := row.rec
	out.ContentLinks = slices.Clone(out.ContentLinks)
	return out, nil
}

func (s *Submissions) ListByInfluencer(_ context.Context, influencerID string) ([]repo.Submission, error) {
	return s.filter(func(sub repo.Submission) bool { return sub.InfluencerID == influencerID }), nil
}

func (s *Submissions) List(_ context.Context, reviewStatus string, limit, offset int) ([]repo.Submission, error) {
	list := s.filter(func(sub repo.Submission) bool { return reviewStatus == "" || sub.ReviewStatus == reviewStatus })
	slices.Reverse(list)
	return page(list, limit, offset), nil
}

func (s *Submissions) Review(_ context.Context, id string, rv repo.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.submissions[id]
	if !ok {
		return repo.ErrNotFound
	}
	if row.rec.ReviewStatus != rv.From {
		return repo.ErrConflict
	}
	row.rec.ReviewStatus = rv.To
	row.rec.UpdatedAt = rv.At
	if rv.Notes.Valid {
		row.rec.AdminNotes = rv.Notes
	}
	return nil
}

func (s *Submissions) filter(keep func(repo.Submission) bool) []repo.Submission {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	rows := make([]*submissionRow, 0, len(s.db.submissions))
	for _, row := range s.db.submissions {
		if keep(row.rec) {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b *submissionRow) int { return compareSeq(a.seq, b.seq) })
	out := make([]repo.Submission, len(rows))
	for i, row := range rows {
		out[i] = row.rec
		out[i].ContentLinks = slices.Clone(row.rec.ContentLinks)
	}
	return out
}

// Payments implements ledger.PaymentStore.
type Payments struct{ db *DB }

func (s *Payments) Create(_ context.Context, p repo.Payment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.campaigns[p.CampaignID]; !ok {
		return repo.ErrNotFound
	}
	if _, ok := s.db.payments[p.ID]; ok {
		return repo.ErrDuplicate
	}
	s.db.payments[p.ID] = &paymentRow{seq: s.db.next(), rec: p}
	return nil
}

func (s *Payments) Get(_ context.Context, id string) (repo.Payment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.payments[id]
	if !ok {
		return repo.Payment{}, repo.ErrNotFound
	}
	return row.rec, nil
}

func (s *Payments) ListByInfluencer(_ context.Context, influencerID string) ([]repo.Payment, error) {
	return s.filter(func(p repo.Payment) bool { return p.InfluencerID == influencerID }), nil
}

func (s *Payments) ListByBrand(_ context.Context, brandID string) ([]repo.Payment, error) {
	owned := s.db.brandCampaigns(brandID)
	return s.filter(func(p repo.Payment) bool { return owned[p.CampaignID] }), nil
}

func (s *Payments) Complete(_ context.Context, id string, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.payments[id]
	if !ok {
		return repo.ErrNotFound
	}
	if row.rec.Status != lifecycle.PaymentPending {
		return repo.ErrConflict
	}
	row.rec.Status = lifecycle.PaymentCompleted
	row.rec.CompletedAt.Time, row.rec.CompletedAt.Valid = at, true
	return nil
}

func (s *Payments) filter(keep func(repo.Payment) bool) []repo.Payment {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	rows := make([]*paymentRow, 0, len(s.db.payments))
	for _, row := range s.db.payments {
		if keep(row.rec) {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b *paymentRow) int { return compareSeq(a.seq, b.seq) })
	out := make([]repo.Payment, len(rows))
	for i, row := range rows {
		out[i] = row.rec
	}
	return out
}

// Withdrawals implements ledger.WithdrawalStore.
type Withdrawals struct{ db *DB }

func (s *Withdrawals) Create(_ context.Context, w repo.Withdrawal) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if w.Amount > s.db.balance(w.InfluencerID).Available() {
		return repo.ErrInsufficientBalance
	}
	if _, ok := s.db.withdrawals[w.ID]; ok {
		return repo.ErrDuplicate
	}
	s.db.withdrawals[w.ID] = &withdrawalRow{seq: s.db.next(), rec: w}
	return nil
}

func (s *Withdrawals) Get(_ context.Context, id string) (repo.Withdrawal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.withdrawals[id]
	if !ok {
		return repo.Withdrawal{}, repo.ErrNotFound
	}
	return row.rec, nil
}

func (s *Withdrawals) ListByInfluencer(_ context.Context, influencerID string) ([]repo.Withdrawal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	rows := make([]*withdrawalRow, 0)
	for _, row := range s.db.withdrawals {
		if row.rec.InfluencerID == influencerID {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b *withdrawalRow) int { return compareSeq(b.seq, a.seq) })
	out := make([]repo.Withdrawal, len(rows))
	for i, row := range rows {
		out[i] = row.rec
	}
	return out, nil
}

func (s *Withdrawals) Process(_ context.Context, id string, p repo.Processing) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.withdrawals[id]
	if !ok {
		return repo.ErrNotFound
	}
	if row.rec.Status != p.From {
		return repo.ErrConflict
	}
	row.rec.Status = p.To
	if p.ProcessedAt.Valid {
		row.rec.ProcessedAt = p.ProcessedAt
	}
	if p.TransactionID.Valid {
		row.rec.TransactionID = p.TransactionID
	}
	return nil
}

func (s *Withdrawals) Balance(_ context.Context, influencerID string) (repo.Balance, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.balance(influencerID), nil
}

// balance must be called with mu held.
func (d *DB) balance(influencerID string) repo.Balance {
	var b repo.Balance
	for _, row := range d.payments {
		if row.rec.InfluencerID == influencerID && row.rec.Status == lifecycle.PaymentCompleted {
			b.Earned += row.rec.Amount
		}
	}
	for _, row := range d.withdrawals {
		if row.rec.InfluencerID != influencerID {
			continue
		}
		switch row.rec.Status {
		case lifecycle.WithdrawalPending, lifecycle.WithdrawalApproved:
			b.Reserved += row.rec.Amount
		case lifecycle.WithdrawalCompleted:
			b.Withdrawn += row.rec.Amount
		}
	}
	return b
}

func (d *DB) brandCampaigns(brandID string) map[string]bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	owned := make(map[string]bool)
	for id, row := range d.campaigns {
		if row.rec.BrandID == brandID {
			owned[id] = true
		}
	}
	return owned
}

func compareSeq(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
