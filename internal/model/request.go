package model

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdatePasswordRequest struct {
	Password        string `json:"password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ChangeEmailRequest struct {
	Email    string `json:"email"`
	NewEmail string `json:"new_email"`
	Password string `json:"password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type CreateShowRequest struct {
	ArtistName     string   `json:"artist_name"`
	Location       string   `json:"location"`
	Bio            string   `json:"bio"`
	StartDate      string   `json:"start_date"`
	ShowsPerformed *int     `json:"shows_performed"`
	Genres         []string `json:"genres"`
}
