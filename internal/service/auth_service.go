package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/laasyan18/Tunr/internal/models"
)

// ErrInvalidCredentials is returned on a failed login. The handler maps it
// to 401 without leaking which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

type accountStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService handles signup, login and token issuance.
type AuthService struct {
	users       accountStore
	jwtSecret   []byte
	tokenExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users accountStore, jwtSecret string, tokenExpiry time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: []byte(jwtSecret), tokenExpiry: tokenExpiry}
}

// Signup creates an account and returns a signed token.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if username == "" {
		return nil, models.NewValidationError("username", "username is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, models.NewValidationError("email", "a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, models.NewValidationError("password", "password must be at least 8 characters")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, models.NewValidationError("username", "username is already taken")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, models.NewValidationError("email", "email is already registered")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login verifies the email/password pair and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*models.AuthResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenExpiry).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, Username: user.Username}, nil
}
