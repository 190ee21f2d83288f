package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"stagepass/internal/imagestore"
	"stagepass/internal/model"
	"stagepass/internal/repository"
	"stagepass/pkg/apierror"
)

// AccountService sequences the account mutations: profile update with
// optional image upload, password change, email change and deletion.
type AccountService struct {
	users  repository.UserRepository
	tokens *TokenService
	images imagestore.Store
	audit  *AuditService
}

func NewAccountService(users repository.UserRepository, tokens *TokenService, images imagestore.Store, audit *AuditService) *AccountService {
	return &AccountService{users: users, tokens: tokens, images: images, audit: audit}
}

// UpdateProfile replaces username/email and, when an image was uploaded,
// the profile image URL. The image is stored before the user row is written
// so a persistence failure can never leave a saved record pointing at an
// image that was never uploaded; the reverse failure only orphans an object.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, username string, email string, image *imagestore.Upload) (model.UpdateProfileResponse, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return model.UpdateProfileResponse{}, apierror.New("VALIDATION_ERROR", "username and email are required", "", http.StatusBadRequest)
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return model.UpdateProfileResponse{}, err
	}

	var imageURL *string
	if image != nil {
		url, err := s.images.Upload(ctx, *image)
		if errors.Is(err, imagestore.ErrNotImage) {
			return model.UpdateProfileResponse{}, apierror.New("VALIDATION_ERROR", "uploaded file is not a supported image", "image", http.StatusBadRequest)
		}
		if err != nil {
			return model.UpdateProfileResponse{}, fmt.Errorf("%w: %v", model.ErrImageUpload, err)
		}
		imageURL = &url
	}

	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing.ID != userID {
		return model.UpdateProfileResponse{}, model.ErrEmailTaken
	} else if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return model.UpdateProfileResponse{}, err
	}

	updated, err := s.users.UpdateProfile(ctx, userID, username, email, imageURL)
	if err != nil {
		return model.UpdateProfileResponse{}, err
	}

	// A fresh access token ships with the result; the refresh token is
	// deliberately left alone.
	accessToken, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return model.UpdateProfileResponse{}, fmt.Errorf("issue access token: %w", err)
	}

	s.audit.Record(ctx, "user.update_profile", userID, "")
	return model.UpdateProfileResponse{User: updated.Public(), AccessToken: accessToken}, nil
}

func (s *AccountService) UpdatePassword(ctx context.Context, userID string, req model.UpdatePasswordRequest) (model.PublicUser, error) {
	if req.Password == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return model.PublicUser{}, apierror.New("VALIDATION_ERROR", "all fields are required", "", http.StatusBadRequest)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return model.PublicUser{}, model.ErrInvalidPassword
	}

	if req.NewPassword != req.ConfirmPassword {
		return model.PublicUser{}, apierror.New("VALIDATION_ERROR", "passwords do not match", "confirm_password", http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return model.PublicUser{}, err
	}

	s.audit.Record(ctx, "user.update_password", userID, "")

	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return updated.Public(), nil
}

func (s *AccountService) ChangeEmail(ctx context.Context, userID string, req model.ChangeEmailRequest) (model.PublicUser, error) {
	currentEmail := strings.TrimSpace(req.Email)
	newEmail := strings.TrimSpace(req.NewEmail)
	if currentEmail == "" || newEmail == "" || req.Password == "" {
		return model.PublicUser{}, apierror.New("VALIDATION_ERROR", "all fields are required", "", http.StatusBadRequest)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}

	if !strings.EqualFold(user.Email, currentEmail) {
		return model.PublicUser{}, apierror.New("VALIDATION_ERROR", "current email does not match", "email", http.StatusBadRequest)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return model.PublicUser{}, model.ErrInvalidPassword
	}

	// The unique index still guards this path: a clash with another account
	// surfaces as ErrEmailTaken instead of a raw constraint error.
	if err := s.users.UpdateEmail(ctx, userID, newEmail); err != nil {
		return model.PublicUser{}, err
	}

	s.audit.Record(ctx, "user.change_email", userID, newEmail)

	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return updated.Public(), nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, userID string, password string) error {
	if password == "" {
		return apierror.New("VALIDATION_ERROR", "password is required", "password", http.StatusBadRequest)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return model.ErrInvalidPassword
	}

	// Deleting the user leaves any artist profile behind on purpose.
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.audit.Record(ctx, "user.delete", userID, user.Email)
	return nil
}
