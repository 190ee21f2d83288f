package model

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type SignupResponse struct {
	User PublicUser `json:"user"`
}

type LoginResponse struct {
	User         PublicUser `json:"user"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
}

type UpdateProfileResponse struct {
	User        PublicUser `json:"user"`
	AccessToken string     `json:"access_token"`
}

type UserResponse struct {
	User PublicUser `json:"user"`
}

type ArtistProfileResponse struct {
	Profile ArtistProfile `json:"profile"`
}
