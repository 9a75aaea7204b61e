package repositories

import (
	"context"
	"database/sql"
	"errors"

	"collabBack/internal/marketplace/repo"
	"collabBack/internal/models"
)

// ProfileRepository stores influencer and brand profiles keyed by user id.
// Verification fields are never written by Save*; they keep their defaults
// until an administrator changes them.
type ProfileRepository struct {
	DB      *sql.DB
	Dialect repo.Dialect
}

func (r *ProfileRepository) SaveInfluencerProfile(ctx context.Context, p models.InfluencerProfile) error {
	update := `
        UPDATE influencer_profiles
        SET name = ?, phone = ?, instagram_link = ?, location = ?, gender = ?, age = ?,
            content_category = ?, followers_count = ?, language = ?, bank_details = ?, upi_id = ?, updated_at = ?
        WHERE user_id = ?
    `
	insert := `
        INSERT INTO influencer_profiles (user_id, name, phone, instagram_link, location, gender, age,
            content_category, followers_count, language, bank_details, upi_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	updateArgs := []interface{}{p.Name, p.Phone, p.InstagramLink, p.Location, p.Gender, p.Age,
		p.ContentCategory, p.FollowersCount, p.Language, p.BankDetails, p.UPIID, p.UpdatedAt, p.UserID}
	insertArgs := []interface{}{p.UserID, p.Name, p.Phone, p.InstagramLink, p.Location, p.Gender, p.Age,
		p.ContentCategory, p.FollowersCount, p.Language, p.BankDetails, p.UPIID, p.CreatedAt, p.UpdatedAt}
	return r.save(ctx, update, updateArgs, insert, insertArgs)
}

func (r *ProfileRepository) GetInfluencerProfile(ctx context.Context, userID string) (models.InfluencerProfile, error) {
	query := `
        SELECT user_id, name, phone, instagram_link, location, gender, age, content_category,
               followers_count, language, bank_details, upi_id, profile_verified, created_at, updated_at
        FROM influencer_profiles
        WHERE user_id = ?
    `
	var (
		p    models.InfluencerProfile
		bank sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), userID).Scan(
		&p.UserID, &p.Name, &p.Phone, &p.InstagramLink, &p.Location, &p.Gender, &p.Age, &p.ContentCategory,
		&p.FollowersCount, &p.Language, &bank, &p.UPIID, &p.ProfileVerified, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.InfluencerProfile{}, models.ErrNoRecord
	}
	if err != nil {
		return models.InfluencerProfile{}, err
	}
	p.BankDetails = bank.String
	return p, nil
}

func (r *ProfileRepository) SaveBrandProfile(ctx context.Context, p models.BrandProfile) error {
	update := `
        UPDATE brand_profiles
        SET company_name = ?, company_logo = ?, industry = ?, website = ?, phone = ?, location = ?,
            description = ?, updated_at = ?
        WHERE user_id = ?
    `
	insert := `
        INSERT INTO brand_profiles (user_id, company_name, company_logo, industry, website, phone, location,
            description, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	updateArgs := []interface{}{p.CompanyName, p.CompanyLogo, p.Industry, p.Website, p.Phone, p.Location,
		p.Description, p.UpdatedAt, p.UserID}
	insertArgs := []interface{}{p.UserID, p.CompanyName, p.CompanyLogo, p.Industry, p.Website, p.Phone,
		p.Location, p.Description, p.CreatedAt, p.UpdatedAt}
	return r.save(ctx, update, updateArgs, insert, insertArgs)
}

func (r *ProfileRepository) GetBrandProfile(ctx context.Context, userID string) (models.BrandProfile, error) {
	query := `
        SELECT user_id, company_name, company_logo, industry, website, phone, location, description,
               verification_status, created_at, updated_at
        FROM brand_profiles
        WHERE user_id = ?
    `
	var (
		p           models.BrandProfile
		description sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), userID).Scan(
		&p.UserID, &p.CompanyName, &p.CompanyLogo, &p.Industry, &p.Website, &p.Phone, &p.Location,
		&description, &p.VerificationStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BrandProfile{}, models.ErrNoRecord
	}
	if err != nil {
		return models.BrandProfile{}, err
	}
	p.Description = description.String
	return p, nil
}

// InfluencerContact returns the profile name (empty without a profile) and the
// account email of an influencer.
func (r *ProfileRepository) InfluencerContact(ctx context.Context, userID string) (string, string, error) {
	query := `
        SELECT COALESCE(p.name, ''), u.email
        FROM users u
        LEFT JOIN influencer_profiles p ON p.user_id = u.id
        WHERE u.id = ?
    `
	var name, email string
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), userID).Scan(&name, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", models.ErrUserNotFound
	}
	return name, email, err
}

// BrandName returns the company name of a brand profile.
func (r *ProfileRepository) BrandName(ctx context.Context, userID string) (string, error) {
	var name string
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(`SELECT company_name FROM brand_profiles WHERE user_id = ?`), userID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNoRecord
	}
	return name, err
}

// save updates the row and inserts it when none exists. A concurrent insert
// that wins the race is followed by a second update.
func (r *ProfileRepository) save(ctx context.Context, update string, updateArgs []interface{}, insert string, insertArgs []interface{}) error {
	res, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(update), updateArgs...)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected > 0 {
		return nil
	}

	_, err = r.DB.ExecContext(ctx, r.Dialect.Rebind(insert), insertArgs...)
	switch {
	case err == nil:
		return nil
	case isForeignKeyConstraintError(err):
		return models.ErrUserNotFound
	case isDuplicateKeyError(err):
		_, err = r.DB.ExecContext(ctx, r.Dialect.Rebind(update), updateArgs...)
		return err
	}
	return err
}
