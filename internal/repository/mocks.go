package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stagepass/internal/model"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, username string, email string, imageURL *string) (model.User, error) {
	args := m.Called(ctx, id, username, email, imageURL)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateEmail(ctx context.Context, id string, email string) error {
	args := m.Called(ctx, id, email)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role model.Role) (model.User, error) {
	args := m.Called(ctx, id, role)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) LinkArtistProfile(ctx context.Context, id string, profileID string) (model.User, error) {
	args := m.Called(ctx, id, profileID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockArtistRepository struct {
	mock.Mock
}

func (m *MockArtistRepository) Create(ctx context.Context, p model.ArtistProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockArtistRepository) FindByID(ctx context.Context, id string) (model.ArtistProfile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.ArtistProfile), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, entry model.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
