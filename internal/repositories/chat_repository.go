package repositories

import (
	"context"
	"database/sql"
	"errors"

	"collabBack/internal/marketplace/repo"
	"collabBack/internal/models"
)

type ConversationRepository struct {
	DB      *sql.DB
	Dialect repo.Dialect
}

const conversationColumns = `id, campaign_id, influencer_id, brand_id, last_message, last_message_at, created_at`

// OpenConversation inserts the conversation, or returns the existing one for
// the same campaign, influencer and brand.
func (r *ConversationRepository) OpenConversation(ctx context.Context, c models.Conversation) (models.Conversation, error) {
	query := `
        INSERT INTO conversations (id, campaign_id, influencer_id, brand_id, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query), c.ID, c.CampaignID, c.InfluencerID, c.BrandID, c.CreatedAt)
	if err == nil {
		return c, nil
	}
	if !isDuplicateKeyError(err) {
		return models.Conversation{}, err
	}
	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(`SELECT `+conversationColumns+` FROM conversations
        WHERE campaign_id = ? AND influencer_id = ? AND brand_id = ?`), c.CampaignID, c.InfluencerID, c.BrandID)
	return scanConversation(row)
}

func (r *ConversationRepository) GetConversation(ctx context.Context, id string) (models.Conversation, error) {
	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(`SELECT `+conversationColumns+` FROM conversations WHERE id = ?`), id)
	return scanConversation(row)
}

// ListConversations returns the user's conversations, most recently active first.
func (r *ConversationRepository) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations
        WHERE influencer_id = ? OR brand_id = ?
        ORDER BY COALESCE(last_message_at, created_at) DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(query), userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return conversations, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConversation(row rowScanner) (models.Conversation, error) {
	var (
		c      models.Conversation
		last   sql.NullString
		lastAt sql.NullTime
	)
	err := row.Scan(&c.ID, &c.CampaignID, &c.InfluencerID, &c.BrandID, &last, &lastAt, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Conversation{}, err
	}
	if last.Valid {
		c.LastMessage = &last.String
	}
	if lastAt.Valid {
		t := lastAt.Time.UTC()
		c.LastMessageAt = &t
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func pageOffset(page, pageSize int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * pageSize
}

