package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"collabBack/internal/identity"
	"collabBack/internal/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type TokenIssuer interface {
	Issue(actor identity.Actor) (string, error)
}

type UserService struct {
	UserRepo UserStore
	Tokens   TokenIssuer
}

// SignUp creates an influencer or brand account and signs it in. Admin accounts
// are provisioned directly in the database.
func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.AuthResponse, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != identity.RoleInfluencer && role != identity.RoleBrand {
		return models.AuthResponse{}, models.ErrInvalidRole
	}
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return models.AuthResponse{}, models.ErrValidation
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.AuthResponse{}, err
	}

	user, err := s.UserRepo.CreateUser(ctx, models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  string(hashedPassword),
		Role:      role,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		return models.AuthResponse{}, err
	}
	return s.authResponse(user)
}

// SignIn checks the password and issues a token.
func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.AuthResponse, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, models.ErrUserNotFound) {
		return models.AuthResponse{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.AuthResponse{}, models.ErrInvalidCredentials
	}
	return s.authResponse(user)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return s.UserRepo.GetUserByID(ctx, id)
}

func (s *UserService) authResponse(user models.User) (models.AuthResponse, error) {
	token, err := s.Tokens.Issue(identity.Actor{ID: user.ID, Role: user.Role, Email: user.Email})
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{Token: token, UserID: user.ID, Role: user.Role, Email: user.Email}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
