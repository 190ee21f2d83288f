package imagestore

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Upload(ctx context.Context, up Upload) (string, error) {
	args := m.Called(ctx, up)
	return args.String(0), args.Error(1)
}
