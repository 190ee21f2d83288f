package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stagepass/internal/imagestore"
	"stagepass/internal/model"
	"stagepass/internal/repository"
	"stagepass/pkg/apierror"
)

func newTestAccountService(users repository.UserRepository, images imagestore.Store) *AccountService {
	tokens := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)
	return NewAccountService(users, tokens, images, NewAuditService(nil))
}

func TestAccountService_UpdateProfile(t *testing.T) {
	stored := model.User{ID: "user-1", Username: "amy", Email: "amy@x.com", Role: model.RoleUser}

	t.Run("success without image", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		images := new(imagestore.MockStore)
		svc := newTestAccountService(users, images)

		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)
		users.On("FindByEmail", mock.Anything, "amy2@x.com").Return(model.User{}, model.ErrUserNotFound)
		updated := stored
		updated.Username = "amy2"
		updated.Email = "amy2@x.com"
		users.On("UpdateProfile", mock.Anything, "user-1", "amy2", "amy2@x.com", (*string)(nil)).Return(updated, nil)

		result, err := svc.UpdateProfile(context.Background(), "user-1", "amy2", "amy2@x.com", nil)

		require.NoError(t, err)
		assert.Equal(t, "amy2", result.User.Username)
		assert.NotEmpty(t, result.AccessToken)
		images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})

	t.Run("email owned by another account is rejected", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)
		users.On("FindByEmail", mock.Anything, "taken@x.com").Return(model.User{ID: "user-2"}, nil)

		_, err := svc.UpdateProfile(context.Background(), "user-1", "amy", "taken@x.com", nil)

		assert.ErrorIs(t, err, model.ErrEmailTaken)
		users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("keeping your own email is allowed", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)
		users.On("FindByEmail", mock.Anything, "amy@x.com").Return(stored, nil)
		users.On("UpdateProfile", mock.Anything, "user-1", "renamed", "amy@x.com", (*string)(nil)).Return(stored, nil)

		_, err := svc.UpdateProfile(context.Background(), "user-1", "renamed", "amy@x.com", nil)

		require.NoError(t, err)
	})

	t.Run("image is uploaded and its URL persisted", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		images := new(imagestore.MockStore)
		svc := newTestAccountService(users, images)

		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)
		users.On("FindByEmail", mock.Anything, "amy@x.com").Return(stored, nil)
		images.On("Upload", mock.Anything, mock.AnythingOfType("imagestore.Upload")).
			Return("https://img.example.com/profiles/abc.png", nil)
		users.On("UpdateProfile", mock.Anything, "user-1", "amy", "amy@x.com",
			mock.MatchedBy(func(url *string) bool {
				return url != nil && *url == "https://img.example.com/profiles/abc.png"
			})).Return(stored, nil)

		_, err := svc.UpdateProfile(context.Background(), "user-1", "amy", "amy@x.com", &imagestore.Upload{
			Filename: "avatar.png",
			Body:     strings.NewReader("not really a png, the store is mocked"),
			Size:     36,
		})

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("non-image upload is a validation error", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		images := new(imagestore.MockStore)
		svc := newTestAccountService(users, images)

		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)
		images.On("Upload", mock.Anything, mock.Anything).Return("", imagestore.ErrNotImage)

		_, err := svc.UpdateProfile(context.Background(), "user-1", "amy", "amy@x.com", &imagestore.Upload{
			Filename: "notes.txt",
			Body:     strings.NewReader("plain text"),
			Size:     10,
		})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
		users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure aborts before any persistence", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		images := new(imagestore.MockStore)
		svc := newTestAccountService(users, images)

		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)
		images.On("Upload", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

		_, err := svc.UpdateProfile(context.Background(), "user-1", "amy", "amy@x.com", &imagestore.Upload{
			Filename: "avatar.png",
			Body:     strings.NewReader("x"),
			Size:     1,
		})

		assert.ErrorIs(t, err, model.ErrImageUpload)
		users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blank fields rejected", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		_, err := svc.UpdateProfile(context.Background(), "user-1", "  ", "amy@x.com", nil)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	})
}

func TestAccountService_UpdatePassword(t *testing.T) {
	t.Run("success stores a new hash", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		stored := model.User{ID: "user-1", Username: "amy", PasswordHash: mustHash(t, "old-pass")}
		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)

		var newHash string
		users.On("UpdatePassword", mock.Anything, "user-1", mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				newHash = args.String(2)
			}).
			Return(nil)

		_, err := svc.UpdatePassword(context.Background(), "user-1", model.UpdatePasswordRequest{
			Password:        "old-pass",
			NewPassword:     "new-pass-1",
			ConfirmPassword: "new-pass-1",
		})

		require.NoError(t, err)
		assert.Error(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("old-pass")))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-pass-1")))
	})

	t.Run("wrong current password", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		stored := model.User{ID: "user-1", PasswordHash: mustHash(t, "old-pass")}
		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)

		_, err := svc.UpdatePassword(context.Background(), "user-1", model.UpdatePasswordRequest{
			Password:        "guess",
			NewPassword:     "new-pass-1",
			ConfirmPassword: "new-pass-1",
		})

		assert.ErrorIs(t, err, model.ErrInvalidPassword)
		users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmation mismatch checked after the current password", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		stored := model.User{ID: "user-1", PasswordHash: mustHash(t, "old-pass")}
		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)

		_, err := svc.UpdatePassword(context.Background(), "user-1", model.UpdatePasswordRequest{
			Password:        "old-pass",
			NewPassword:     "new-pass-1",
			ConfirmPassword: "something-else",
		})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	})
}

func TestAccountService_ChangeEmail(t *testing.T) {
	stored := model.User{ID: "user-1", Email: "amy@x.com", PasswordHash: ""}

	t.Run("success", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		withHash := stored
		withHash.PasswordHash = mustHash(t, "pw123456")
		users.On("FindByID", mock.Anything, "user-1").Return(withHash, nil).Once()
		users.On("UpdateEmail", mock.Anything, "user-1", "new@x.com").Return(nil)

		refreshed := withHash
		refreshed.Email = "new@x.com"
		users.On("FindByID", mock.Anything, "user-1").Return(refreshed, nil)

		result, err := svc.ChangeEmail(context.Background(), "user-1", model.ChangeEmailRequest{
			Email:    "amy@x.com",
			NewEmail: "new@x.com",
			Password: "pw123456",
		})

		require.NoError(t, err)
		assert.Equal(t, "new@x.com", result.Email)
	})

	t.Run("current email compared case-insensitively", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		withHash := stored
		withHash.PasswordHash = mustHash(t, "pw123456")
		users.On("FindByID", mock.Anything, "user-1").Return(withHash, nil)
		users.On("UpdateEmail", mock.Anything, "user-1", "new@x.com").Return(nil)

		_, err := svc.ChangeEmail(context.Background(), "user-1", model.ChangeEmailRequest{
			Email:    "AMY@X.COM",
			NewEmail: "new@x.com",
			Password: "pw123456",
		})

		require.NoError(t, err)
	})

	t.Run("mismatched current email", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)

		_, err := svc.ChangeEmail(context.Background(), "user-1", model.ChangeEmailRequest{
			Email:    "other@x.com",
			NewEmail: "new@x.com",
			Password: "pw123456",
		})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
		users.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		withHash := stored
		withHash.PasswordHash = mustHash(t, "pw123456")
		users.On("FindByID", mock.Anything, "user-1").Return(withHash, nil)

		_, err := svc.ChangeEmail(context.Background(), "user-1", model.ChangeEmailRequest{
			Email:    "amy@x.com",
			NewEmail: "new@x.com",
			Password: "wrong",
		})

		assert.ErrorIs(t, err, model.ErrInvalidPassword)
		users.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAccountService_DeleteAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		stored := model.User{ID: "user-1", Email: "amy@x.com", PasswordHash: mustHash(t, "pw123456")}
		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)
		users.On("Delete", mock.Anything, "user-1").Return(nil)

		err := svc.DeleteAccount(context.Background(), "user-1", "pw123456")

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("wrong password keeps the account", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc := newTestAccountService(users, new(imagestore.MockStore))

		stored := model.User{ID: "user-1", PasswordHash: mustHash(t, "pw123456")}
		users.On("FindByID", mock.Anything, "user-1").Return(stored, nil)

		err := svc.DeleteAccount(context.Background(), "user-1", "wrong")

		assert.ErrorIs(t, err, model.ErrInvalidPassword)
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
