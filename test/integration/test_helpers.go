//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stagepass/internal/config"
	"stagepass/internal/handler"
	"stagepass/internal/imagestore"
	"stagepass/internal/middleware"
	"stagepass/internal/model"
	"stagepass/internal/router"
	"stagepass/internal/service"
)

// memStore is a process-local stand-in for the PostgreSQL repositories. It
// enforces the same case-insensitive email/username uniqueness the database
// indexes do, so the full HTTP flow can run without external services.
type memStore struct {
	mu       sync.Mutex
	users    map[string]model.User
	profiles map[string]model.ArtistProfile
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]model.User{},
		profiles: map[string]model.ArtistProfile{},
	}
}

func (s *memStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.ErrEmailTaken
		}
		if strings.EqualFold(existing.Username, u.Username) {
			return model.ErrUsernameTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *memStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memStore) UpdateProfile(_ context.Context, id string, username string, email string, imageURL *string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	u.Username = username
	u.Email = email
	if imageURL != nil {
		u.ProfileImageURL = imageURL
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return u, nil
}

func (s *memStore) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *memStore) UpdateEmail(_ context.Context, id string, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for otherID, other := range s.users {
		if otherID != id && strings.EqualFold(other.Email, email) {
			return model.ErrEmailTaken
		}
	}

	u, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.Email = email
	s.users[id] = u
	return nil
}

func (s *memStore) UpdateRole(_ context.Context, id string, role model.Role) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	u.Role = role
	s.users[id] = u
	return u, nil
}

func (s *memStore) LinkArtistProfile(_ context.Context, id string, profileID string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	u.ArtistProfileID = &profileID
	s.users[id] = u
	return u, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type memArtists struct {
	store *memStore
}

func (a *memArtists) Create(_ context.Context, p model.ArtistProfile) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	a.store.profiles[p.ID] = p
	return nil
}

func (a *memArtists) FindByID(_ context.Context, id string) (model.ArtistProfile, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	p, ok := a.store.profiles[id]
	if !ok {
		return model.ArtistProfile{}, model.ErrProfileNotFound
	}
	return p, nil
}

type staticImages struct{}

func (staticImages) Upload(_ context.Context, _ imagestore.Upload) (string, error) {
	return "https://img.test/profiles/fixed.png", nil
}

type alwaysHealthy struct{}

func (alwaysHealthy) Health(context.Context) error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()

	store := newMemStore()

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		Environment:      "development",
		JWTAccessSecret:  "test-access-secret",
		JWTRefreshSecret: "test-refresh-secret",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    168 * time.Hour,
		CORSOrigins:      []string{"*"},
		MaxUploadSize:    5 << 20,
	}

	audit := service.NewAuditService(nil)
	tokens := service.NewTokenService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	auth := service.NewAuthService(store, tokens, audit, cfg.JWTRefreshTTL, cfg.Production())
	account := service.NewAccountService(store, tokens, staticImages{}, audit)
	artist := service.NewArtistService(store, &memArtists{store: store}, audit)

	mux := router.New(cfg, middleware.NewAuthMiddleware(auth), router.Handlers{
		Auth:    handler.NewAuthHandler(auth),
		Account: handler.NewAccountHandler(account, cfg.MaxUploadSize),
		Artist:  handler.NewArtistHandler(artist),
	}, alwaysHealthy{})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *model.APIError `json:"error"`
}

func doJSON(t *testing.T, method string, url string, payload any, accessToken string) (*http.Response, envelope) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func signupAndLogin(t *testing.T, serverURL string) (accessToken string, refreshCookie *http.Cookie) {
	t.Helper()

	resp, _ := doJSON(t, http.MethodPost, serverURL+"/api/v1/auth/signup", map[string]string{
		"username": "amy",
		"email":    "amy@x.com",
		"password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	loginResp, env := doJSON(t, http.MethodPost, serverURL+"/api/v1/auth/login", map[string]string{
		"email":    "amy@x.com",
		"password": "pw123456",
	}, "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var parsed model.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &parsed))
	require.NotEmpty(t, parsed.AccessToken)

	for _, c := range loginResp.Cookies() {
		if c.Name == "refresh_token" {
			refreshCookie = c
		}
	}
	require.NotNil(t, refreshCookie)
	return parsed.AccessToken, refreshCookie
}
