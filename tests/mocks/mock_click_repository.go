package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/utsavjain246/shortify/internal/domain"
)

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) LinkSummary(ctx context.Context, link *domain.Link, topN int, now time.Time) (*domain.LinkSummary, error) {
	args := m.Called(ctx, link, topN, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkSummary), args.Error(1)
}

func (m *MockAnalyticsRepository) UserSummary(ctx context.Context, ownerID int64, now time.Time) (*domain.UserSummary, error) {
	args := m.Called(ctx, ownerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserSummary), args.Error(1)
}

func (m *MockAnalyticsRepository) ClickHistory(ctx context.Context, linkID int64, page, pageSize int) (*domain.ClickHistory, error) {
	args := m.Called(ctx, linkID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClickHistory), args.Error(1)
}

// CapturingClickWriter is a thread-safe in-memory ClickWriter for ingest
// tests. Err, when set, is returned for every insert.
type CapturingClickWriter struct {
	mu     sync.Mutex
	events []domain.ClickEvent
	Err    error
	Block  chan struct{}
}

func (w *CapturingClickWriter) Insert(ctx context.Context, click *domain.ClickEvent) error {
	if w.Block != nil {
		select {
		case <-w.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if w.Err != nil {
		return w.Err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, *click)
	return nil
}

func (w *CapturingClickWriter) Events() []domain.ClickEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.ClickEvent, len(w.events))
	copy(out, w.events)
	return out
}

// RecorderSpy captures hand-offs from the resolver without any queueing.
type RecorderSpy struct {
	mu     sync.Mutex
	events []domain.ClickEvent
}

func (r *RecorderSpy) Record(event domain.ClickEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return true
}

func (r *RecorderSpy) Events() []domain.ClickEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ClickEvent, len(r.events))
	copy(out, r.events)
	return out
}
