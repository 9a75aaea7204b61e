package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"collabBack/internal/marketplace/lifecycle"
	"collabBack/internal/money"
)

// Withdrawal is an influencer's request to move earned funds out.
type Withdrawal struct {
	ID            string
	InfluencerID  string
	Amount        money.Amount
	Status        string
	PaymentMethod string
	Destination   string
	RequestedAt   time.Time
	ProcessedAt   sql.NullTime
	TransactionID sql.NullString
}

// Processing carries the fields written when an admin processes a withdrawal.
type Processing struct {
	From          string
	To            string
	ProcessedAt   sql.NullTime
	TransactionID sql.NullString
}

// Balance is the influencer ledger derived from payments and withdrawals.
type Balance struct {
	Earned    money.Amount
	Reserved  money.Amount
	Withdrawn money.Amount
}

// Available returns the amount that can still be requested.
func (b Balance) Available() money.Amount {
	return b.Earned - b.Reserved - b.Withdrawn
}

const withdrawalColumns = `id, influencer_id, amount, status, payment_method, destination, requested_at,
        processed_at, transaction_id`

// WithdrawalsRepo provides persistence for withdrawal requests.
type WithdrawalsRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewWithdrawalsRepo constructs a WithdrawalsRepo.
func NewWithdrawalsRepo(db *sql.DB, dialect Dialect) *WithdrawalsRepo {
	return &WithdrawalsRepo{db: db, dialect: dialect}
}

// Create inserts the request if it fits into the available balance. The influencer
// wallet row is locked for the duration of the check so concurrent requests queue up.
func (r *WithdrawalsRepo) Create(ctx context.Context, w Withdrawal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, r.dialect.ensureWalletSQL(), w.InfluencerID); err != nil {
		return err
	}
	var locked string
	if err = tx.QueryRowContext(ctx, r.dialect.Rebind(`SELECT influencer_id FROM influencer_wallets
        WHERE influencer_id = ? FOR UPDATE`), w.InfluencerID).Scan(&locked); err != nil {
		return err
	}

	var balance Balance
	balance, err = loadBalance(ctx, tx, r.dialect, w.InfluencerID)
	if err != nil {
		return err
	}
	if w.Amount > balance.Available() {
		err = ErrInsufficientBalance
		return err
	}

	if _, err = tx.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO withdrawals (`+withdrawalColumns+`)
        VALUES (?,?,?,?,?,?,?,?,?)`),
		w.ID, w.InfluencerID, w.Amount, w.Status, w.PaymentMethod, w.Destination, w.RequestedAt,
		nullOrTime(w.ProcessedAt), nullOrString(w.TransactionID)); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns a withdrawal by identifier.
func (r *WithdrawalsRepo) Get(ctx context.Context, id string) (Withdrawal, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = ?`), id)
	w, err := scanWithdrawal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Withdrawal{}, ErrNotFound
	}
	return w, err
}

// ListByInfluencer returns the influencer's requests, most recent first.
func (r *WithdrawalsRepo) ListByInfluencer(ctx context.Context, influencerID string) ([]Withdrawal, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`SELECT `+withdrawalColumns+` FROM withdrawals
        WHERE influencer_id = ? ORDER BY requested_at DESC, id DESC`), influencerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Process records an admin decision if the request is still in p.From.
func (r *WithdrawalsRepo) Process(ctx context.Context, id string, p Processing) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`UPDATE withdrawals
        SET status = ?, processed_at = COALESCE(?, processed_at), transaction_id = COALESCE(?, transaction_id)
        WHERE id = ? AND status = ?`),
		p.To, nullOrTime(p.ProcessedAt), nullOrString(p.TransactionID), id, p.From)
	if err != nil {
		return err
	}
	return casOutcome(ctx, r.db, r.dialect, "withdrawals", id, res)
}

// Balance derives the influencer ledger without taking locks.
func (r *WithdrawalsRepo) Balance(ctx context.Context, influencerID string) (Balance, error) {
	return loadBalance(ctx, r.db, r.dialect, influencerID)
}

func loadBalance(ctx context.Context, q queryer, d Dialect, influencerID string) (Balance, error) {
	var b Balance
	if err := q.QueryRowContext(ctx, d.Rebind(`SELECT COALESCE(SUM(amount), 0) FROM payments
        WHERE influencer_id = ? AND status = ?`), influencerID, lifecycle.PaymentCompleted).Scan(&b.Earned); err != nil {
		return Balance{}, err
	}

	rows, err := q.QueryContext(ctx, d.Rebind(`SELECT status, COALESCE(SUM(amount), 0) FROM withdrawals
        WHERE influencer_id = ? GROUP BY status`), influencerID)
	if err != nil {
		return Balance{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			sum    money.Amount
		)
		if err := rows.Scan(&status, &sum); err != nil {
			return Balance{}, err
		}
		switch status {
		case lifecycle.WithdrawalPending, lifecycle.WithdrawalApproved:
			b.Reserved += sum
		case lifecycle.WithdrawalCompleted:
			b.Withdrawn += sum
		}
	}
	if err := rows.Err(); err != nil {
		return Balance{}, err
	}
	return b, nil
}

func scanWithdrawal(s scanner) (Withdrawal, error) {
	var w Withdrawal
	err := s.Scan(&w.ID, &w.InfluencerID, &w.Amount, &w.Status, &w.PaymentMethod, &w.Destination, &w.RequestedAt,
		&w.ProcessedAt, &w.TransactionID)
	return w, err
}
