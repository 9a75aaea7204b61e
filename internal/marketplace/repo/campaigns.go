package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"collabBack/internal/marketplace/lifecycle"
	"collabBack/internal/money"
)

// Campaign is a brand-sponsored collaboration opportunity.
type Campaign struct {
	ID                string
	BrandID           string
	BrandName         string
	Title             string
	Description       string
	Requirements      string
	CollaborationType string
	ReferenceVideoURL sql.NullString
	PaymentAmount     money.Amount
	Deadline          time.Time
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const campaignColumns = `id, brand_id, brand_name, title, description, requirements, collaboration_type,
        reference_video_url, payment_amount, deadline, status, created_at, updated_at`

// CampaignsRepo provides persistence for campaigns.
type CampaignsRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewCampaignsRepo constructs a CampaignsRepo.
func NewCampaignsRepo(db *sql.DB, dialect Dialect) *CampaignsRepo {
	return &CampaignsRepo{db: db, dialect: dialect}
}

// Create inserts a new campaign.
func (r *CampaignsRepo) Create(ctx context.Context, c Campaign) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO campaigns (`+campaignColumns+`)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`),
		c.ID, c.BrandID, c.BrandName, c.Title, c.Description, c.Requirements, c.CollaborationType,
		nullOrString(c.ReferenceVideoURL), c.PaymentAmount, c.Deadline, c.Status, c.CreatedAt, c.UpdatedAt)
	if isDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// Get returns a campaign by identifier.
func (r *CampaignsRepo) Get(ctx context.Context, id string) (Campaign, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`), id)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Campaign{}, ErrNotFound
	}
	return c, err
}

// ListActive returns active campaigns, newest first.
func (r *CampaignsRepo) ListActive(ctx context.Context, limit, offset int) ([]Campaign, error) {
	return r.list(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE status = ?
        ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, lifecycle.CampaignActive, limit, offset)
}

// ListByBrand returns all campaigns owned by the brand in creation order.
func (r *CampaignsRepo) ListByBrand(ctx context.Context, brandID string) ([]Campaign, error) {
	return r.list(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE brand_id = ?
        ORDER BY created_at, id`, brandID)
}

// ListExpired returns active campaigns whose deadline is before now.
func (r *CampaignsRepo) ListExpired(ctx context.Context, now time.Time) ([]Campaign, error) {
	return r.list(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE status = ? AND deadline < ?
        ORDER BY deadline`, lifecycle.CampaignActive, now)
}

// UpdateStatus moves a campaign from one status to another if it is still in from.
func (r *CampaignsRepo) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`UPDATE campaigns SET status = ?, updated_at = ?
        WHERE id = ? AND status = ?`), to, at, id, from)
	if err != nil {
		return err
	}
	return casOutcome(ctx, r.db, r.dialect, "campaigns", id, res)
}

// Delete removes a campaign that has no applications and no payments.
func (r *CampaignsRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked string
	if err = tx.QueryRowContext(ctx, r.dialect.Rebind(`SELECT id FROM campaigns WHERE id = ? FOR UPDATE`), id).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}

	var dependents int
	if err = tx.QueryRowContext(ctx, r.dialect.Rebind(`SELECT
        (SELECT COUNT(*) FROM applications WHERE campaign_id = ?) +
        (SELECT COUNT(*) FROM payments WHERE campaign_id = ?)`), id, id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		err = ErrHasDependents
		return err
	}

	if _, err = tx.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM campaigns WHERE id = ?`), id); err != nil {
		if isForeignKeyError(err) {
			err = ErrHasDependents
		}
		return err
	}
	return tx.Commit()
}

func (r *CampaignsRepo) list(ctx context.Context, query string, args ...interface{}) ([]Campaign, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return campaigns, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(s scanner) (Campaign, error) {
	var c Campaign
	err := s.Scan(&c.ID, &c.BrandID, &c.BrandName, &c.Title, &c.Description, &c.Requirements, &c.CollaborationType,
		&c.ReferenceVideoURL, &c.PaymentAmount, &c.Deadline, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
