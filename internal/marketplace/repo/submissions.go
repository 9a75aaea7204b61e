package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"collabBack/internal/marketplace/lifecycle"
)

// Submission is content delivered against an approved application.
type Submission struct {
	ID            string
	ApplicationID string
	CampaignID    string
	InfluencerID  string
	ContentLinks  []string
	VideoURL      sql.NullString
	ReviewStatus  string
	AdminNotes    sql.NullString
	SubmittedAt   time.Time
	UpdatedAt     time.Time
}

// Review carries the fields written when an admin reviews a submission.
type Review struct {
	From  string
	To    string
	Notes sql.NullString
	At    time.Time
}

const submissionColumns = `id, application_id, campaign_id, influencer_id, video_url, review_status,
        admin_notes, submitted_at, updated_at`

// SubmissionsRepo provides persistence for submissions and their content links.
type SubmissionsRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewSubmissionsRepo constructs a SubmissionsRepo.
func NewSubmissionsRepo(db *sql.DB, dialect Dialect) *SubmissionsRepo {
	return &SubmissionsRepo{db: db, dialect: dialect}
}

// CreateForApplication inserts the submission and moves its application from
// Approved to Submitted in one transaction. The application row is locked first;
// ErrNotFound is returned for an unknown application and ErrConflict when it is
// not Approved or belongs to another influencer.
func (r *SubmissionsRepo) CreateForApplication(ctx context.Context, s Submission) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var (
		status       string
		influencerID string
		campaignID   string
	)
	if err = tx.QueryRowContext(ctx, r.dialect.Rebind(`SELECT status, influencer_id, campaign_id FROM applications
        WHERE id = ? FOR UPDATE`), s.ApplicationID).Scan(&status, &influencerID, &campaignID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}
	if status != lifecycle.ApplicationApproved || influencerID != s.InfluencerID || campaignID != s.CampaignID {
		err = ErrConflict
		return err
	}

	if _, err = tx.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO submissions (`+submissionColumns+`)
        VALUES (?,?,?,?,?,?,?,?,?)`),
		s.ID, s.ApplicationID, s.CampaignID, s.InfluencerID, nullOrString(s.VideoURL), s.ReviewStatus,
		nullOrString(s.AdminNotes), s.SubmittedAt, s.UpdatedAt); err != nil {
		if isDuplicateKeyError(err) {
			err = ErrDuplicate
		}
		return err
	}
	if err = insertSubmissionLinks(ctx, tx, r.dialect, s.ID, s.ContentLinks); err != nil {
		return err
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx, r.dialect.Rebind(`UPDATE applications SET status = ?, submitted_at = ?
        WHERE id = ? AND status = ?`),
		lifecycle.ApplicationSubmitted, s.SubmittedAt, s.ApplicationID, lifecycle.ApplicationApproved)
	if err != nil {
		return err
	}
	if err = casOutcome(ctx, tx, r.dialect, "applications", s.ApplicationID, res); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns a submission with its links.
func (r *SubmissionsRepo) Get(ctx context.Context, id string) (Submission, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`), id)
	s, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, ErrNotFound
	}
	if err != nil {
		return Submission{}, err
	}
	links, err := r.fetchLinks(ctx, []string{id})
	if err != nil {
		return Submission{}, err
	}
	s.ContentLinks = links[id]
	return s, nil
}

// ListByInfluencer returns the influencer's submissions in insertion order.
func (r *SubmissionsRepo) ListByInfluencer(ctx context.Context, influencerID string) ([]Submission, error) {
	return r.list(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE influencer_id = ?
        ORDER BY submitted_at, id`, influencerID)
}

// List returns submissions, optionally filtered by review status, newest first.
func (r *SubmissionsRepo) List(ctx context.Context, reviewStatus string, limit, offset int) ([]Submission, error) {
	if reviewStatus == "" {
		return r.list(ctx, `SELECT `+submissionColumns+` FROM submissions
            ORDER BY submitted_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	}
	return r.list(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE review_status = ?
        ORDER BY submitted_at DESC, id DESC LIMIT ? OFFSET ?`, reviewStatus, limit, offset)
}

// Review records an admin review if the submission is still in rv.From.
func (r *SubmissionsRepo) Review(ctx context.Context, id string, rv Review) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`UPDATE submissions
        SET review_status = ?, admin_notes = COALESCE(?, admin_notes), updated_at = ?
        WHERE id = ? AND review_status = ?`),
		rv.To, nullOrString(rv.Notes), rv.At, id, rv.From)
	if err != nil {
		return err
	}
	return casOutcome(ctx, r.db, r.dialect, "submissions", id, res)
}

func (r *SubmissionsRepo) list(ctx context.Context, query string, args ...interface{}) ([]Submission, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		subs []Submission
		ids  []string
	)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return subs, nil
	}

	links, err := r.fetchLinks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		subs[i].ContentLinks = links[subs[i].ID]
	}
	return subs, nil
}

func (r *SubmissionsRepo) fetchLinks(ctx context.Context, ids []string) (map[string][]string, error) {
	query := `SELECT submission_id, url FROM submission_links WHERE submission_id IN (` + placeholders(len(ids)) + `) ORDER BY submission_id, seq`
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make(map[string][]string, len(ids))
	for rows.Next() {
		var submissionID, url string
		if err := rows.Scan(&submissionID, &url); err != nil {
			return nil, err
		}
		links[submissionID] = append(links[submissionID], url)
	}
	return links, rows.Err()
}

func insertSubmissionLinks(ctx context.Context, tx execer, d Dialect, submissionID string, links []string) error {
	for seq, url := range links {
		if _, err := tx.ExecContext(ctx, d.Rebind(`INSERT INTO submission_links (submission_id, seq, url) VALUES (?,?,?)`),
			submissionID, seq, url); err != nil {
			return err
		}
	}
	return nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}

func scanSubmission(s scanner) (Submission, error) {
	var sub Submission
	err := s.Scan(&sub.ID, &sub.ApplicationID, &sub.CampaignID, &sub.InfluencerID, &sub.VideoURL, &sub.ReviewStatus,
		&sub.AdminNotes, &sub.SubmittedAt, &sub.UpdatedAt)
	return sub, err
}
