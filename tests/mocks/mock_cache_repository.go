package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/utsavjain246/shortify/internal/domain"
)

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) GetLink(ctx context.Context, shortCode string) (*domain.CachedLink, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CachedLink), args.Error(1)
}

func (m *MockCacheRepository) SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error {
	args := m.Called(ctx, link, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteLink(ctx context.Context, shortCode string) error {
	args := m.Called(ctx, shortCode)
	return args.Error(0)
}
