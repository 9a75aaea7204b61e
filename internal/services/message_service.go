package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"collabBack/internal/marketplace/notify"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/models"
)

const previewLength = 120

type ConversationStore interface {
	OpenConversation(ctx context.Context, c models.Conversation) (models.Conversation, error)
	GetConversation(ctx context.Context, id string) (models.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
}

type MessageStore interface {
	CreateMessage(ctx context.Context, message models.Message) error
	GetMessagesForConversation(ctx context.Context, conversationID string, page, pageSize int) ([]models.Message, error)
}

type CampaignLookup interface {
	GetCampaign(ctx context.Context, id string) (repo.Campaign, error)
}

type Notifier interface {
	Notify(ctx context.Context, e notify.Event)
}

type MessageService struct {
	ConversationRepo ConversationStore
	MessageRepo      MessageStore
	Campaigns        CampaignLookup
	Notifier         Notifier
}

// OpenConversation returns the conversation of the campaign between the
// influencer and the brand, creating it on first use.
func (s *MessageService) OpenConversation(ctx context.Context, campaignID, influencerID, brandID string) (models.Conversation, error) {
	if campaignID == "" || influencerID == "" || brandID == "" {
		return models.Conversation{}, fmt.Errorf("%w: campaign, influencer and brand are required", models.ErrValidation)
	}
	if s.Campaigns != nil {
		campaign, err := s.Campaigns.GetCampaign(ctx, campaignID)
		if err != nil {
			return models.Conversation{}, err
		}
		if campaign.BrandID != brandID {
			return models.Conversation{}, fmt.Errorf("%w: campaign belongs to another brand", models.ErrValidation)
		}
	}
	return s.ConversationRepo.OpenConversation(ctx, models.Conversation{
		ID:           uuid.NewString(),
		CampaignID:   campaignID,
		InfluencerID: influencerID,
		BrandID:      brandID,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	})
}

func (s *MessageService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.ConversationRepo.ListConversations(ctx, userID)
}

// SendMessage stores a message from a participant and notifies the other one.
func (s *MessageService) SendMessage(ctx context.Context, conversationID, senderID, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, fmt.Errorf("%w: content is required", models.ErrValidation)
	}
	conversation, err := s.participantConversation(ctx, conversationID, senderID)
	if err != nil {
		return models.Message{}, err
	}

	message := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.MessageRepo.CreateMessage(ctx, message); err != nil {
		return models.Message{}, err
	}

	if s.Notifier != nil {
		s.Notifier.Notify(context.WithoutCancel(ctx), notify.Event{
			Type:       notify.MessageCreated,
			SubjectID:  message.ID,
			Title:      "New message",
			Body:       preview(content),
			Data:       map[string]string{"conversation_id": conversation.ID, "campaign_id": conversation.CampaignID},
			Recipients: []string{conversation.Counterpart(senderID)},
			At:         message.CreatedAt,
		})
	}
	return message, nil
}

func (s *MessageService) GetMessages(ctx context.Context, conversationID, userID string, page, pageSize int) ([]models.Message, error) {
	if _, err := s.participantConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.MessageRepo.GetMessagesForConversation(ctx, conversationID, page, pageSize)
}

func (s *MessageService) participantConversation(ctx context.Context, conversationID, userID string) (models.Conversation, error) {
	conversation, err := s.ConversationRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return models.Conversation{}, err
	}
	if !conversation.HasParticipant(userID) {
		return models.Conversation{}, models.ErrNotParticipant
	}
	return conversation, nil
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewLength]) + "..."
}
