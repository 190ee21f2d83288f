//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/model"
)

func TestFullAccountLifecycle(t *testing.T) {
	server, _ := newTestServer(t)

	accessToken, refreshCookie := signupAndLogin(t, server.URL)
	assert.True(t, refreshCookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, refreshCookie.SameSite)

	// Who am I.
	resp, env := doJSON(t, http.MethodGet, server.URL+"/api/v1/auth/me", nil, accessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me model.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, model.RoleUser, me.User.Role)

	// Become an artist.
	resp, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/artists/become", nil, accessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var becameArtist model.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &becameArtist))
	assert.Equal(t, model.RoleArtist, becameArtist.User.Role)

	// Becoming an artist twice is an invalid transition.
	resp, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/artists/become", nil, accessToken)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	// Create the artist profile.
	shows := 12
	resp, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/artists/shows", model.CreateShowRequest{
		ArtistName:     "The Midnight Owls",
		Location:       "Berlin",
		Bio:            "Indie folk trio",
		StartDate:      "2019-06-01",
		ShowsPerformed: &shows,
		Genres:         []string{"folk", "indie"},
	}, accessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var withProfile model.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &withProfile))
	require.NotNil(t, withProfile.User.ArtistProfileID)

	// The profile reads back.
	resp, env = doJSON(t, http.MethodGet, server.URL+"/api/v1/artists/me", nil, accessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile model.ArtistProfileResponse
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "The Midnight Owls", profile.Profile.ArtistName)

	// Revert to a plain user. The profile link survives.
	resp, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/artists/revert", nil, accessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reverted model.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &reverted))
	assert.Equal(t, model.RoleUser, reverted.User.Role)
	require.NotNil(t, reverted.User.ArtistProfileID)
	assert.Equal(t, *withProfile.User.ArtistProfileID, *reverted.User.ArtistProfileID)

	// Shows now require the artist role again.
	resp, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/artists/shows", model.CreateShowRequest{
		ArtistName:     "The Midnight Owls",
		Location:       "Berlin",
		Bio:            "Indie folk trio",
		StartDate:      "2019-06-01",
		ShowsPerformed: &shows,
		Genres:         []string{"folk"},
	}, accessToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	// Logout clears the refresh cookie.
	logoutResp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/logout", nil, accessToken)
	require.Equal(t, http.StatusOK, logoutResp.StatusCode)
	var cleared *http.Cookie
	for _, c := range logoutResp.Cookies() {
		if c.Name == "refresh_token" {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestSignupConflictsAndAuthGuards(t *testing.T) {
	server, _ := newTestServer(t)

	accessToken, _ := signupAndLogin(t, server.URL)

	// Same email, different username.
	resp, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/signup", map[string]string{
		"username": "someone-else",
		"email":    "AMY@X.COM",
		"password": "pw123456",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_EXISTS", env.Error.Code)

	// Protected routes reject missing tokens.
	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/artists/become", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Password change with the wrong current password leaves the account alone.
	resp, env = doJSON(t, http.MethodPut, server.URL+"/api/v1/users/me/password", model.UpdatePasswordRequest{
		Password:        "wrong",
		NewPassword:     "next-pass-1",
		ConfirmPassword: "next-pass-1",
	}, accessToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The original password still logs in.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", map[string]string{
		"email":    "amy@x.com",
		"password": "pw123456",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPasswordAndEmailRotation(t *testing.T) {
	server, _ := newTestServer(t)

	accessToken, _ := signupAndLogin(t, server.URL)

	resp, _ := doJSON(t, http.MethodPut, server.URL+"/api/v1/users/me/password", model.UpdatePasswordRequest{
		Password:        "pw123456",
		NewPassword:     "next-pass-1",
		ConfirmPassword: "next-pass-1",
	}, accessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Old password is dead, new one works.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", map[string]string{
		"email":    "amy@x.com",
		"password": "pw123456",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", map[string]string{
		"email":    "amy@x.com",
		"password": "next-pass-1",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Rotate the email and log in with it.
	resp, env := doJSON(t, http.MethodPut, server.URL+"/api/v1/users/me/email", model.ChangeEmailRequest{
		Email:    "amy@x.com",
		NewEmail: "amy@new.com",
		Password: "next-pass-1",
	}, accessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rotated model.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &rotated))
	assert.Equal(t, "amy@new.com", rotated.User.Email)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", map[string]string{
		"email":    "amy@new.com",
		"password": "next-pass-1",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChangeEmailToTakenAddress(t *testing.T) {
	server, _ := newTestServer(t)

	accessToken, _ := signupAndLogin(t, server.URL)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/signup", map[string]string{
		"username": "ben",
		"email":    "ben@x.com",
		"password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Rotating onto an address another account holds hits the uniqueness
	// guard in the store, not just the signup fast path.
	resp, env := doJSON(t, http.MethodPut, server.URL+"/api/v1/users/me/email", model.ChangeEmailRequest{
		Email:    "amy@x.com",
		NewEmail: "BEN@X.COM",
		Password: "pw123456",
	}, accessToken)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_EXISTS", env.Error.Code)

	// The caller's email is unchanged.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", map[string]string{
		"email":    "amy@x.com",
		"password": "pw123456",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteAccountOrphansArtistProfile(t *testing.T) {
	server, store := newTestServer(t)

	accessToken, _ := signupAndLogin(t, server.URL)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/artists/become", nil, accessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	shows := 3
	resp, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/artists/shows", model.CreateShowRequest{
		ArtistName:     "Solo Act",
		Location:       "Lisbon",
		Bio:            "One performer, one guitar",
		StartDate:      "2021-01-15",
		ShowsPerformed: &shows,
		Genres:         []string{"acoustic"},
	}, accessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var withProfile model.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &withProfile))
	require.NotNil(t, withProfile.User.ArtistProfileID)
	profileID := *withProfile.User.ArtistProfileID

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/v1/users/me", map[string]string{
		"password": "pw123456",
	}, accessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The user is gone but the profile row survives.
	store.mu.Lock()
	_, userExists := store.users[withProfile.User.ID]
	_, profileExists := store.profiles[profileID]
	store.mu.Unlock()
	assert.False(t, userExists)
	assert.True(t, profileExists)

	// The token no longer resolves to an account.
	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/v1/auth/me", nil, accessToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
