package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utsavjain246/shortify/internal/domain"
	"github.com/utsavjain246/shortify/tests/mocks"
)

func TestGetLinkSummary_PassesLinkAndClock(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	analyticsRepo := new(mocks.MockAnalyticsRepository)
	pinned := time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC)
	svc := NewAnalyticsService(linkRepo, analyticsRepo).
		WithClock(func() time.Time { return pinned })
	ctx := context.Background()

	link := &domain.Link{ID: 9, ShortCode: "abc1234", TargetURL: "https://example.com", IsActive: true}
	summary := &domain.LinkSummary{
		ShortCode:   "abc1234",
		TargetURL:   "https://example.com",
		TotalClicks: 10,
		UniqueIPs:   4,
		Clicks7Days: 6,
		TopReferrers: []domain.ReferrerCount{
			{Referrer: "https://news.example", Count: 5},
			{Referrer: "direct", Count: 3},
		},
	}

	linkRepo.On("GetByShortCode", ctx, "abc1234").Return(link, nil).Once()
	analyticsRepo.On("LinkSummary", ctx, link, DefaultTopReferrers, pinned).Return(summary, nil).Once()

	got, err := svc.GetLinkSummary(ctx, "abc1234")

	require.NoError(t, err)
	assert.Equal(t, summary, got)
	linkRepo.AssertExpectations(t)
	analyticsRepo.AssertExpectations(t)
}

func TestGetLinkSummary_InactiveLinkStillReported(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	analyticsRepo := new(mocks.MockAnalyticsRepository)
	svc := NewAnalyticsService(linkRepo, analyticsRepo)
	ctx := context.Background()

	// Deactivation hides the redirect, not the history.
	inactive := &domain.Link{ID: 3, ShortCode: "gone123", IsActive: false}
	linkRepo.On("GetByShortCode", ctx, "gone123").Return(inactive, nil).Once()
	analyticsRepo.On("LinkSummary", ctx, inactive, DefaultTopReferrers, mock.AnythingOfType("time.Time")).
		Return(&domain.LinkSummary{ShortCode: "gone123"}, nil).Once()

	got, err := svc.GetLinkSummary(ctx, "gone123")

	require.NoError(t, err)
	assert.Equal(t, "gone123", got.ShortCode)
}

func TestGetLinkSummary_UnknownCode(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	analyticsRepo := new(mocks.MockAnalyticsRepository)
	svc := NewAnalyticsService(linkRepo, analyticsRepo)
	ctx := context.Background()

	linkRepo.On("GetByShortCode", ctx, "missing").Return(nil, domain.ErrNotFound).Once()

	_, err := svc.GetLinkSummary(ctx, "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	analyticsRepo.AssertNotCalled(t, "LinkSummary")
}

func TestGetUserSummary(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	analyticsRepo := new(mocks.MockAnalyticsRepository)
	pinned := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	svc := NewAnalyticsService(linkRepo, analyticsRepo).
		WithClock(func() time.Time { return pinned })
	ctx := context.Background()

	summary := &domain.UserSummary{TotalLinks: 3, ActiveLinks: 2, TotalClicks: 40}
	analyticsRepo.On("UserSummary", ctx, int64(7), pinned).Return(summary, nil).Once()

	got, err := svc.GetUserSummary(ctx, owner(7))

	require.NoError(t, err)
	assert.Equal(t, summary, got)
}

func TestGetUserSummary_Anonymous_Forbidden(t *testing.T) {
	analyticsRepo := new(mocks.MockAnalyticsRepository)
	svc := NewAnalyticsService(new(mocks.MockLinkRepository), analyticsRepo)

	_, err := svc.GetUserSummary(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	analyticsRepo.AssertNotCalled(t, "UserSummary")
}

func TestGetClickHistory(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	analyticsRepo := new(mocks.MockAnalyticsRepository)
	svc := NewAnalyticsService(linkRepo, analyticsRepo)
	ctx := context.Background()

	link := &domain.Link{ID: 12, ShortCode: "abc1234"}
	history := &domain.ClickHistory{Total: 1, Page: 2, PageSize: 20}

	linkRepo.On("GetByShortCode", ctx, "abc1234").Return(link, nil).Once()
	analyticsRepo.On("ClickHistory", ctx, int64(12), 2, 20).Return(history, nil).Once()

	got, err := svc.GetClickHistory(ctx, "abc1234", 2, 20)

	require.NoError(t, err)
	assert.Equal(t, history, got)
	analyticsRepo.AssertExpectations(t)
}
