package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"collabBack/internal/identity"
	"collabBack/internal/marketplace/ledger"
	"collabBack/internal/models"
)

type memoryUsers struct {
	byEmail map[string]models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, user models.User) (models.User, error) {
	if _, ok := m.byEmail[user.Email]; ok {
		return models.User{}, models.ErrDuplicateEmail
	}
	m.byEmail[user.Email] = user
	return user, nil
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

func newUserService(t *testing.T) (*UserService, *identity.Manager) {
	t.Helper()
	manager, err := identity.NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return &UserService{UserRepo: &memoryUsers{byEmail: map[string]models.User{}}, Tokens: manager}, manager
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, manager := newUserService(t)
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, models.SignUpRequest{Email: " Creator@Example.com ", Password: "secret-pass", Role: "influencer"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if resp.Email != "creator@example.com" || resp.Role != identity.RoleInfluencer || resp.UserID == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	actor, err := manager.Resolve(ctx, "Bearer "+resp.Token)
	if err != nil {
		t.Fatalf("resolve issued token: %v", err)
	}
	if actor.ID != resp.UserID || actor.Role != identity.RoleInfluencer {
		t.Fatalf("unexpected actor %+v", actor)
	}

	if _, err := svc.SignUp(ctx, models.SignUpRequest{Email: "creator@example.com", Password: "other-pass", Role: "brand"}); !errors.Is(err, models.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	login, err := svc.SignIn(ctx, models.SignInRequest{Email: "CREATOR@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if login.UserID != resp.UserID {
		t.Fatalf("sign in returned another user")
	}
	if _, err := svc.SignIn(ctx, models.SignInRequest{Email: "creator@example.com", Password: "wrong"}); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.SignIn(ctx, models.SignInRequest{Email: "nobody@example.com", Password: "secret-pass"}); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestSignUpRejectsAdminRole(t *testing.T) {
	svc, _ := newUserService(t)
	_, err := svc.SignUp(context.Background(), models.SignUpRequest{Email: "a@example.com", Password: "secret-pass", Role: "admin"})
	if !errors.Is(err, models.ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
}

type stubProfiles struct {
	ProfileStore
	contactErr error
	brandErr   error
}

func (s stubProfiles) InfluencerContact(context.Context, string) (string, string, error) {
	return "Ana", "ana@example.com", s.contactErr
}

func (s stubProfiles) BrandName(context.Context, string) (string, error) {
	return "Acme", s.brandErr
}

func TestProfileServiceDirectoryErrors(t *testing.T) {
	ctx := context.Background()
	svc := &ProfileService{ProfileRepo: stubProfiles{contactErr: models.ErrUserNotFound, brandErr: models.ErrNoRecord}}
	if _, _, err := svc.InfluencerContact(ctx, "u1"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ledger not found, got %v", err)
	}
	if _, err := svc.BrandName(ctx, "b1"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ledger not found, got %v", err)
	}

	svc = &ProfileService{ProfileRepo: stubProfiles{}}
	name, email, err := svc.InfluencerContact(ctx, "u1")
	if err != nil || name != "Ana" || email != "ana@example.com" {
		t.Fatalf("unexpected contact %q %q %v", name, email, err)
	}
}
