package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"collabBack/internal/marketplace/lifecycle"
)

// Application is an influencer's request to take part in a campaign.
type Application struct {
	ID              string
	CampaignID      string
	InfluencerID    string
	InfluencerName  string
	InfluencerEmail string
	Status          string
	AppliedAt       time.Time
	ReviewedAt      sql.NullTime
	ApprovedAt      sql.NullTime
	SubmittedAt     sql.NullTime
	RejectionReason sql.NullString
}

// Decision carries the fields written by an admin decision.
type Decision struct {
	From            string
	To              string
	At              time.Time
	RejectionReason sql.NullString
}

const applicationColumns = `a.id, a.campaign_id, a.influencer_id, a.influencer_name, a.influencer_email, a.status,
        a.applied_at, a.reviewed_at, a.approved_at, a.submitted_at, a.rejection_reason`

// ApplicationsRepo provides persistence for applications.
type ApplicationsRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewApplicationsRepo constructs an ApplicationsRepo.
func NewApplicationsRepo(db *sql.DB, dialect Dialect) *ApplicationsRepo {
	return &ApplicationsRepo{db: db, dialect: dialect}
}

// Create inserts an application while holding the campaign row lock. It fails with
// ErrNotFound for an unknown campaign, ErrConflict when the campaign is no longer
// active and ErrDuplicate when the influencer already has an open application.
func (r *ApplicationsRepo) Create(ctx context.Context, a Application) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var campaignStatus string
	if err = tx.QueryRowContext(ctx, r.dialect.Rebind(`SELECT status FROM campaigns WHERE id = ? FOR UPDATE`), a.CampaignID).Scan(&campaignStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}
	if campaignStatus != lifecycle.CampaignActive {
		err = ErrConflict
		return err
	}

	var open int
	if err = tx.QueryRowContext(ctx, r.dialect.Rebind(`SELECT COUNT(*) FROM applications
        WHERE campaign_id = ? AND influencer_id = ? AND status <> ?`),
		a.CampaignID, a.InfluencerID, lifecycle.ApplicationRejected).Scan(&open); err != nil {
		return err
	}
	if open > 0 {
		err = ErrDuplicate
		return err
	}

	if _, err = tx.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO applications (id, campaign_id, influencer_id,
        influencer_name, influencer_email, status, applied_at) VALUES (?,?,?,?,?,?,?)`),
		a.ID, a.CampaignID, a.InfluencerID, a.InfluencerName, a.InfluencerEmail, a.Status, a.AppliedAt); err != nil {
		if isDuplicateKeyError(err) {
			err = ErrDuplicate
		}
		return err
	}
	return tx.Commit()
}

// Get returns an application by identifier.
func (r *ApplicationsRepo) Get(ctx context.Context, id string) (Application, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+applicationColumns+` FROM applications a WHERE a.id = ?`), id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	return a, err
}

// ListByInfluencer returns the influencer's applications in insertion order.
func (r *ApplicationsRepo) ListByInfluencer(ctx context.Context, influencerID string) ([]Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.influencer_id = ?
        ORDER BY a.applied_at, a.id`, influencerID)
}

// ListByCampaign returns the campaign's applications in insertion order.
func (r *ApplicationsRepo) ListByCampaign(ctx context.Context, campaignID string) ([]Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.campaign_id = ?
        ORDER BY a.applied_at, a.id`, campaignID)
}

// ListByBrand returns applications to any campaign owned by the brand.
func (r *ApplicationsRepo) ListByBrand(ctx context.Context, brandID string) ([]Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications a
        JOIN campaigns c ON c.id = a.campaign_id
        WHERE c.brand_id = ? ORDER BY a.applied_at, a.id`, brandID)
}

// List returns all applications with pagination, newest first.
func (r *ApplicationsRepo) List(ctx context.Context, limit, offset int) ([]Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications a
        ORDER BY a.applied_at DESC, a.id DESC LIMIT ? OFFSET ?`, limit, offset)
}

// Decide records an admin decision if the application is still in d.From.
func (r *ApplicationsRepo) Decide(ctx context.Context, id string, d Decision) error {
	var approvedAt sql.NullTime
	if d.To == lifecycle.ApplicationApproved {
		approvedAt = sql.NullTime{Time: d.At, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`UPDATE applications
        SET status = ?, reviewed_at = ?, approved_at = COALESCE(?, approved_at),
            rejection_reason = COALESCE(?, rejection_reason)
        WHERE id = ? AND status = ?`),
		d.To, d.At, nullOrTime(approvedAt), nullOrString(d.RejectionReason), id, d.From)
	if err != nil {
		return err
	}
	return casOutcome(ctx, r.db, r.dialect, "applications", id, res)
}

func (r *ApplicationsRepo) list(ctx context.Context, query string, args ...interface{}) ([]Application, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

func scanApplication(s scanner) (Application, error) {
	var a Application
	err := s.Scan(&a.ID, &a.CampaignID, &a.InfluencerID, &a.InfluencerName, &a.InfluencerEmail, &a.Status,
		&a.AppliedAt, &a.ReviewedAt, &a.ApprovedAt, &a.SubmittedAt, &a.RejectionReason)
	return a, err
}
