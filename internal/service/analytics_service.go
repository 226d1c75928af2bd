package service

import (
	"context"
	"time"

	"github.com/utsavjain246/shortify/internal/domain"
)

// DefaultTopReferrers is the truncation point for the referrer leaderboard.
const DefaultTopReferrers = 5

type AnalyticsRepository interface {
	LinkSummary(ctx context.Context, link *domain.Link, topN int, now time.Time) (*domain.LinkSummary, error)
	UserSummary(ctx context.Context, ownerID int64, now time.Time) (*domain.UserSummary, error)
	ClickHistory(ctx context.Context, linkID int64, page, pageSize int) (*domain.ClickHistory, error)
}

// LinkGetter is the slice of the link store analytics needs: lookups that
// still surface inactive links, since deactivation keeps history visible.
type LinkGetter interface {
	GetByShortCode(ctx context.Context, shortCode string) (*domain.Link, error)
}

// AnalyticsService computes summaries on read. Nothing here is stored;
// every answer reflects the click events committed at query time, minus
// whatever is still in flight in the ingest buffer.
type AnalyticsService struct {
	links     LinkGetter
	analytics AnalyticsRepository
	topN      int
	now       func() time.Time
}

func NewAnalyticsService(links LinkGetter, analytics AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{
		links:     links,
		analytics: analytics,
		topN:      DefaultTopReferrers,
		now:       time.Now,
	}
}

// WithClock pins the aggregator's notion of now. Test hook.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

func (s *AnalyticsService) GetLinkSummary(ctx context.Context, shortCode string) (*domain.LinkSummary, error) {
	link, err := s.links.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	return s.analytics.LinkSummary(ctx, link, s.topN, s.now())
}

func (s *AnalyticsService) GetUserSummary(ctx context.Context, ownerID *int64) (*domain.UserSummary, error) {
	if ownerID == nil {
		return nil, domain.ErrForbidden
	}
	return s.analytics.UserSummary(ctx, *ownerID, s.now())
}

func (s *AnalyticsService) GetClickHistory(ctx context.Context, shortCode string, page, pageSize int) (*domain.ClickHistory, error) {
	link, err := s.links.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	return s.analytics.ClickHistory(ctx, link.ID, page, pageSize)
}
