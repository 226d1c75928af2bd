package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/utsavjain246/shortify/internal/domain"
)

type MockResolverService struct {
	mock.Mock
}

func (m *MockResolverService) CreateLink(ctx context.Context, req *domain.CreateLinkRequest, ownerID *int64) (*domain.Link, error) {
	args := m.Called(ctx, req, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockResolverService) Resolve(ctx context.Context, shortCode string, visit domain.ClickRequest) (*domain.Link, bool, error) {
	args := m.Called(ctx, shortCode, visit)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Link), args.Bool(1), args.Error(2)
}

func (m *MockResolverService) Deactivate(ctx context.Context, shortCode string, ownerID *int64) error {
	args := m.Called(ctx, shortCode, ownerID)
	return args.Error(0)
}

func (m *MockResolverService) ListLinks(ctx context.Context, ownerID *int64, page, pageSize int) (*domain.LinkPage, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkPage), args.Error(1)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetLinkSummary(ctx context.Context, shortCode string) (*domain.LinkSummary, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkSummary), args.Error(1)
}

func (m *MockAnalyticsService) GetUserSummary(ctx context.Context, ownerID *int64) (*domain.UserSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserSummary), args.Error(1)
}

func (m *MockAnalyticsService) GetClickHistory(ctx context.Context, shortCode string, page, pageSize int) (*domain.ClickHistory, error) {
	args := m.Called(ctx, shortCode, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClickHistory), args.Error(1)
}
