package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stagepass/internal/model"
	"stagepass/internal/repository"
	"stagepass/pkg/apierror"
)

const (
	refreshCookieName = "refresh_token"
	bcryptCost        = 12
)

// AuthService covers signup and the session lifecycle: credential
// verification, token issuance and the refresh-token cookie directives the
// handler layer serializes.
type AuthService struct {
	users         repository.UserRepository
	tokens        *TokenService
	audit         *AuditService
	refreshTTL    time.Duration
	secureCookies bool
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, audit *AuditService, refreshTTL time.Duration, secureCookies bool) *AuthService {
	return &AuthService{
		users:         users,
		tokens:        tokens,
		audit:         audit,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.PublicUser, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username == "" || email == "" || req.Password == "" {
		return model.PublicUser{}, apierror.New("VALIDATION_ERROR", "all fields are required", "", http.StatusBadRequest)
	}

	// Fast-path duplicate check for a friendly error; the unique index on
	// users.email is what actually guarantees uniqueness under concurrency.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return model.PublicUser{}, model.ErrEmailTaken
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return model.PublicUser{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.PublicUser{}, err
	}

	s.audit.Record(ctx, "user.signup", user.ID, user.Email)
	return user.Public(), nil
}

// Login returns the authenticated user with both tokens plus the cookie
// directive carrying the refresh token. The same error is returned for an
// unknown email and a wrong password so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, *http.Cookie, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return model.LoginResponse{}, nil, apierror.New("VALIDATION_ERROR", "all fields are required", "", http.StatusBadRequest)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.LoginResponse{}, nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.LoginResponse{}, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return model.LoginResponse{}, nil, model.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return model.LoginResponse{}, nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return model.LoginResponse{}, nil, fmt.Errorf("issue refresh token: %w", err)
	}

	s.audit.Record(ctx, "user.login", user.ID, "")

	resp := model.LoginResponse{
		User:         user.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	return resp, s.refreshCookie(refreshToken), nil
}

// LogoutCookie clears the refresh-token cookie. Logout is idempotent: there
// is no server-side session state to tear down.
func (s *AuthService) LogoutCookie() *http.Cookie {
	cookie := s.refreshCookie("")
	cookie.MaxAge = -1
	return cookie
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *AuthService) ValidateAccessToken(tokenString string) (*model.AuthClaims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

func (s *AuthService) refreshCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}
