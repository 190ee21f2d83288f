package model

import "time"

type Role string

const (
	RoleUser   Role = "user"
	RoleArtist Role = "artist"
)

// User is the persisted identity record. PasswordHash never leaves the
// repository/service layer; every outbound payload goes through Public().
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Role            Role      `json:"role"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	ArtistProfileID *string   `json:"artist_profile_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PublicUser is the sanitized projection returned by the API.
type PublicUser struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            Role      `json:"role"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	ArtistProfileID *string   `json:"artist_profile_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Role:            u.Role,
		ProfileImageURL: u.ProfileImageURL,
		ArtistProfileID: u.ArtistProfileID,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// ArtistProfile is created once per become-artist event. The owner is
// immutable; deleting the owning user intentionally orphans the profile.
type ArtistProfile struct {
	ID             string    `json:"id"`
	ArtistName     string    `json:"artist_name"`
	Location       string    `json:"location"`
	Bio            string    `json:"bio"`
	StartDate      time.Time `json:"start_date"`
	ShowsPerformed int       `json:"shows_performed"`
	Genres         []string  `json:"genres"`
	OwnerUserID    string    `json:"owner_user_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type AuthClaims struct {
	UserID  string `json:"sub"`
	Type    string `json:"typ"`
	TokenID string `json:"jti"`
}

type AuditEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	UserID    string    `json:"user_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
