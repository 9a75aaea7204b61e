package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"collabBack/internal/marketplace/notify"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/models"
)

type memoryConversations struct {
	byID map[string]models.Conversation
}

func (m *memoryConversations) OpenConversation(_ context.Context, c models.Conversation) (models.Conversation, error) {
	for _, existing := range m.byID {
		if existing.CampaignID == c.CampaignID && existing.InfluencerID == c.InfluencerID && existing.BrandID == c.BrandID {
			return existing, nil
		}
	}
	m.byID[c.ID] = c
	return c, nil
}

func (m *memoryConversations) GetConversation(_ context.Context, id string) (models.Conversation, error) {
	c, ok := m.byID[id]
	if !ok {
		return models.Conversation{}, models.ErrNoRecord
	}
	return c, nil
}

func (m *memoryConversations) ListConversations(_ context.Context, userID string) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range m.byID {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

type memoryMessages struct {
	messages []models.Message
}

func (m *memoryMessages) CreateMessage(_ context.Context, message models.Message) error {
	m.messages = append(m.messages, message)
	return nil
}

func (m *memoryMessages) GetMessagesForConversation(_ context.Context, conversationID string, _, _ int) ([]models.Message, error) {
	var out []models.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	events []notify.Event
}

func (r *recordingNotifier) Notify(_ context.Context, e notify.Event) {
	r.events = append(r.events, e)
}

type stubCampaigns map[string]string

func (s stubCampaigns) GetCampaign(_ context.Context, id string) (repo.Campaign, error) {
	brandID, ok := s[id]
	if !ok {
		return repo.Campaign{}, repo.ErrNotFound
	}
	return repo.Campaign{ID: id, BrandID: brandID}, nil
}

func newMessageService() (*MessageService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return &MessageService{
		ConversationRepo: &memoryConversations{byID: map[string]models.Conversation{}},
		MessageRepo:      &memoryMessages{},
		Campaigns:        stubCampaigns{"c1": "brand-1"},
		Notifier:         notifier,
	}, notifier
}

func TestOpenConversationIsIdempotent(t *testing.T) {
	svc, _ := newMessageService()
	ctx := context.Background()

	first, err := svc.OpenConversation(ctx, "c1", "inf-1", "brand-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	second, err := svc.OpenConversation(ctx, "c1", "inf-1", "brand-1")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same conversation, got %s and %s", first.ID, second.ID)
	}
	if _, err := svc.OpenConversation(ctx, "c1", "inf-1", "brand-2"); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error for foreign brand, got %v", err)
	}
	if _, err := svc.OpenConversation(ctx, "missing", "inf-1", "brand-1"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSendMessageNotifiesCounterpart(t *testing.T) {
	svc, notifier := newMessageService()
	ctx := context.Background()
	conv, err := svc.OpenConversation(ctx, "c1", "inf-1", "brand-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	msg, err := svc.SendMessage(ctx, conv.ID, "brand-1", "  "+strings.Repeat("x", 200)+"  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(msg.Content) != 200 {
		t.Fatalf("expected trimmed content, got %d chars", len(msg.Content))
	}
	if len(notifier.events) != 1 {
		t.Fatalf("expected one event, got %d", len(notifier.events))
	}
	e := notifier.events[0]
	if e.Type != notify.MessageCreated || len(e.Recipients) != 1 || e.Recipients[0] != "inf-1" {
		t.Fatalf("unexpected event %+v", e)
	}
	if !strings.HasSuffix(e.Body, "...") || len(e.Body) != previewLength+3 {
		t.Fatalf("expected truncated preview, got %d chars", len(e.Body))
	}

	if _, err := svc.SendMessage(ctx, conv.ID, "stranger", "hi"); !errors.Is(err, models.ErrNotParticipant) {
		t.Fatalf("expected not participant, got %v", err)
	}
	if _, err := svc.SendMessage(ctx, conv.ID, "inf-1", "   "); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	messages, err := svc.GetMessages(ctx, conv.ID, "inf-1", 1, 20)
	if err != nil || len(messages) != 1 {
		t.Fatalf("unexpected messages %v %v", messages, err)
	}
	if _, err := svc.GetMessages(ctx, conv.ID, "stranger", 1, 20); !errors.Is(err, models.ErrNotParticipant) {
		t.Fatalf("expected not participant, got %v", err)
	}
}
