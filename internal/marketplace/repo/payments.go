package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"collabBack/internal/marketplace/lifecycle"
	"collabBack/internal/money"
)

// Payment is money owed or paid to an influencer for a campaign.
type Payment struct {
	ID           string
	CampaignID   string
	InfluencerID string
	Amount       money.Amount
	Status       string
	CreatedAt    time.Time
	CompletedAt  sql.NullTime
}

const paymentColumns = `p.id, p.campaign_id, p.influencer_id, p.amount, p.status, p.created_at, p.completed_at`

// PaymentsRepo provides persistence for payment records.
type PaymentsRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewPaymentsRepo constructs a PaymentsRepo.
func NewPaymentsRepo(db *sql.DB, dialect Dialect) *PaymentsRepo {
	return &PaymentsRepo{db: db, dialect: dialect}
}

// Create inserts a payment record.
func (r *PaymentsRepo) Create(ctx context.Context, p Payment) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO payments (id, campaign_id, influencer_id, amount, status, created_at, completed_at)
        VALUES (?,?,?,?,?,?,?)`),
		p.ID, p.CampaignID, p.InfluencerID, p.Amount, p.Status, p.CreatedAt, nullOrTime(p.CompletedAt))
	switch {
	case isForeignKeyError(err):
		return ErrNotFound
	case isDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}

// Get returns a payment by identifier.
func (r *PaymentsRepo) Get(ctx context.Context, id string) (Payment, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+paymentColumns+` FROM payments p WHERE p.id = ?`), id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Payment{}, ErrNotFound
	}
	return p, err
}

// ListByInfluencer returns the influencer's payments in insertion order.
func (r *PaymentsRepo) ListByInfluencer(ctx context.Context, influencerID string) ([]Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.influencer_id = ?
        ORDER BY p.created_at, p.id`, influencerID)
}

// ListByBrand returns payments for any campaign owned by the brand.
func (r *PaymentsRepo) ListByBrand(ctx context.Context, brandID string) ([]Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM payments p
        JOIN campaigns c ON c.id = p.campaign_id
        WHERE c.brand_id = ? ORDER BY p.created_at, p.id`, brandID)
}

// Complete moves a pending payment to Completed.
func (r *PaymentsRepo) Complete(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`UPDATE payments SET status = ?, completed_at = ?
        WHERE id = ? AND status = ?`), lifecycle.PaymentCompleted, at, id, lifecycle.PaymentPending)
	if err != nil {
		return err
	}
	return casOutcome(ctx, r.db, r.dialect, "payments", id, res)
}

func (r *PaymentsRepo) list(ctx context.Context, query string, args ...interface{}) ([]Payment, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}

func scanPayment(s scanner) (Payment, error) {
	var p Payment
	err := s.Scan(&p.ID, &p.CampaignID, &p.InfluencerID, &p.Amount, &p.Status, &p.CreatedAt, &p.CompletedAt)
	return p, err
}
