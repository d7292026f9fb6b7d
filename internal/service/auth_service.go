package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"lexidrill/internal/models"
	"lexidrill/internal/repository"
	"lexidrill/internal/security"
	"lexidrill/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles authentication business logic
type AuthService struct {
	userStore UserStore
	tokens    *security.TokenIssuer
	email     *EmailService
}

// NewAuthService creates a new auth service. The email service may be
// nil when welcome emails are not wanted.
func NewAuthService(userStore UserStore, tokens *security.TokenIssuer, email *EmailService) *AuthService {
	return &AuthService{
		userStore: userStore,
		tokens:    tokens,
		email:     email,
	}
}

// Register creates a new user account and returns the user with a
// signed access token
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, "", err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userStore.CreateUser(email, passwordHash, name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateItem) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	// Welcome email is best effort
	if s.email != nil {
		if err := s.email.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return user, token, nil
}

// Login verifies credentials and returns the user with a signed access
// token. The same error covers unknown email and wrong password.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userStore.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(userID int64) (*models.User, error) {
	return s.userStore.GetUserByID(userID)
}
