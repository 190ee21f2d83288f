package repository

import (
	"context"

	"stagepass/internal/model"
)

// UserRepository is the credential store. Implementations return
// model.ErrUserNotFound for missing rows and model.ErrEmailTaken /
// model.ErrUsernameTaken for unique constraint violations.
type UserRepository interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	UpdateProfile(ctx context.Context, id string, username string, email string, imageURL *string) (model.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateEmail(ctx context.Context, id string, email string) error
	UpdateRole(ctx context.Context, id string, role model.Role) (model.User, error)
	LinkArtistProfile(ctx context.Context, id string, profileID string) (model.User, error)
	Delete(ctx context.Context, id string) error
}

type ArtistRepository interface {
	Create(ctx context.Context, p model.ArtistProfile) error
	FindByID(ctx context.Context, id string) (model.ArtistProfile, error)
}

type AuditRepository interface {
	Record(ctx context.Context, entry model.AuditEntry) error
}
