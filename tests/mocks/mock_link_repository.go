package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/utsavjain246/shortify/internal/domain"
)

type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Create(ctx context.Context, link *domain.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockLinkRepository) GetByShortCode(ctx context.Context, shortCode string) (*domain.Link, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkRepository) Deactivate(ctx context.Context, shortCode string, ownerID int64) error {
	args := m.Called(ctx, shortCode, ownerID)
	return args.Error(0)
}

func (m *MockLinkRepository) ListByOwner(ctx context.Context, ownerID int64, page, pageSize int) (*domain.LinkPage, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkPage), args.Error(1)
}
