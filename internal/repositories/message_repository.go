package repositories

import (
	"context"
	"database/sql"

	"collabBack/internal/marketplace/repo"
	"collabBack/internal/models"
)

type MessageRepository struct {
	DB      *sql.DB
	Dialect repo.Dialect
}

// CreateMessage stores the message and updates the conversation preview in one transaction.
func (r *MessageRepository) CreateMessage(ctx context.Context, message models.Message) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	insert := `
        INSERT INTO messages (id, conversation_id, sender_id, content, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	if _, err = tx.ExecContext(ctx, r.Dialect.Rebind(insert),
		message.ID, message.ConversationID, message.SenderID, message.Content, message.CreatedAt); err != nil {
		if isForeignKeyConstraintError(err) {
			err = models.ErrNoRecord
		}
		return err
	}

	update := `UPDATE conversations SET last_message = ?, last_message_at = ? WHERE id = ?`
	if _, err = tx.ExecContext(ctx, r.Dialect.Rebind(update), message.Content, message.CreatedAt, message.ConversationID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetMessagesForConversation pages through a conversation in chronological order.
func (r *MessageRepository) GetMessagesForConversation(ctx context.Context, conversationID string, page, pageSize int) ([]models.Message, error) {
	query := `
        SELECT id, conversation_id, sender_id, content, created_at
        FROM messages
        WHERE conversation_id = ?
        ORDER BY created_at ASC, id ASC
        LIMIT ? OFFSET ?
    `
	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(query), conversationID, pageSize, pageOffset(page, pageSize))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(&message.ID, &message.ConversationID, &message.SenderID, &message.Content, &message.CreatedAt); err != nil {
			return nil, err
		}
		message.CreatedAt = message.CreatedAt.UTC()
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
