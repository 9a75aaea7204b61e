package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bmizerany/pat"

	"collabBack/internal/identity"
	"collabBack/internal/models"
	"collabBack/internal/services"
)

type memoryUsers struct {
	byEmail map[string]models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, u models.User) (models.User, error) {
	if _, ok := m.byEmail[u.Email]; ok {
		return models.User{}, models.ErrDuplicateEmail
	}
	m.byEmail[u.Email] = u
	return u, nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, id string) (models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, models.ErrUserNotFound
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return u, nil
}

type memoryConversations struct {
	byID map[string]models.Conversation
}

func (m *memoryConversations) OpenConversation(_ context.Context, c models.Conversation) (models.Conversation, error) {
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
	items []models.Message
}

func (m *memoryMessages) CreateMessage(_ context.Context, msg models.Message) error {
	m.items = append(m.items, msg)
	return nil
}

func (m *memoryMessages) GetMessagesForConversation(_ context.Context, conversationID string, page, pageSize int) ([]models.Message, error) {
	var out []models.Message
	for _, msg := range m.items {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func newUserHandler(t *testing.T) (*UserHandler, *identity.Manager) {
	t.Helper()
	tokens, err := identity.NewManager("handler-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	svc := &services.UserService{UserRepo: &memoryUsers{byEmail: map[string]models.User{}}, Tokens: tokens}
	return &UserHandler{Service: svc}, tokens
}

func postJSON(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSignUpAndSignIn(t *testing.T) {
	h, tokens := newUserHandler(t)

	rec := postJSON(h.SignUp, `{"email":"Maya@Example.com","password":"supersecret","role":"influencer"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign up status = %d, body %s", rec.Code, rec.Body.String())
	}
	var auth models.AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&auth); err != nil {
		t.Fatalf("decode: %v", err)
	}
	actor, err := tokens.Resolve(context.Background(), auth.Token)
	if err != nil {
		t.Fatalf("resolve issued token: %v", err)
	}
	if actor.Role != identity.RoleInfluencer || actor.Email != "maya@example.com" {
		t.Fatalf("actor = %+v", actor)
	}

	if rec := postJSON(h.SignUp, `{"email":"maya@example.com","password":"supersecret","role":"influencer"}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate sign up status = %d", rec.Code)
	}
	if rec := postJSON(h.SignIn, `{"email":"maya@example.com","password":"wrong-password"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", rec.Code)
	}
	if rec := postJSON(h.SignIn, `{"email":"maya@example.com","password":"supersecret"}`); rec.Code != http.StatusOK {
		t.Fatalf("sign in status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestSignUpValidation(t *testing.T) {
	h, _ := newUserHandler(t)

	cases := map[string]string{
		"bad json":       `{"email":`,
		"bad email":      `{"email":"nope","password":"supersecret","role":"brand"}`,
		"short password": `{"email":"a@b.co","password":"short","role":"brand"}`,
		"admin role":     `{"email":"a@b.co","password":"supersecret","role":"admin"}`,
		"oversized body": `{"email":"a@b.co","password":"` + strings.Repeat("x", maxBodyBytes) + `","role":"brand"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if rec := postJSON(h.SignUp, body); rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestMessagesRequireParticipant(t *testing.T) {
	conversations := &memoryConversations{byID: map[string]models.Conversation{
		"c1": {ID: "c1", CampaignID: "camp-1", InfluencerID: "inf-1", BrandID: "brand-1"},
	}}
	svc := &services.MessageService{ConversationRepo: conversations, MessageRepo: &memoryMessages{}}
	h := &MessageHandler{Service: svc}

	mux := pat.New()
	mux.Post("/api/v1/conversations/:id/messages", http.HandlerFunc(h.SendMessage))
	mux.Get("/api/v1/conversations/:id/messages", http.HandlerFunc(h.GetMessages))

	do := func(method string, actor *identity.Actor, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/v1/conversations/c1/messages", strings.NewReader(body))
		if actor != nil {
			req = req.WithContext(identity.WithActor(req.Context(), *actor))
		}
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(http.MethodGet, nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", rec.Code)
	}

	brand := identity.Actor{ID: "brand-1", Role: identity.RoleBrand}
	if rec := do(http.MethodPost, &brand, `{"content":"  hello there  "}`); rec.Code != http.StatusCreated {
		t.Fatalf("send status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := do(http.MethodPost, &brand, `{"content":""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty content status = %d", rec.Code)
	}

	stranger := identity.Actor{ID: "inf-2", Role: identity.RoleInfluencer}
	if rec := do(http.MethodGet, &stranger, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("stranger status = %d", rec.Code)
	}

	influencer := identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer}
	rec := do(http.MethodGet, &influencer, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var page struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Messages) != 1 || page.Messages[0].Content != "hello there" {
		t.Fatalf("messages = %+v", page.Messages)
	}
}

func TestProfileRoleChecks(t *testing.T) {
	h := &ProfileHandler{Service: &services.ProfileService{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/brand/profile", strings.NewReader(`{}`))
	req = req.WithContext(identity.WithActor(req.Context(), identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer}))
	rec := httptest.NewRecorder()
	h.SaveBrandProfile(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}
