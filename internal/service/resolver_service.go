package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/utsavjain246/shortify/internal/domain"
	"github.com/utsavjain246/shortify/internal/logger"
	"github.com/utsavjain246/shortify/pkg/detector"
	"github.com/utsavjain246/shortify/pkg/generator"
	"github.com/utsavjain246/shortify/pkg/validator"
)

type LinkRepository interface {
	Create(ctx context.Context, link *domain.Link) error
	GetByShortCode(ctx context.Context, shortCode string) (*domain.Link, error)
	Deactivate(ctx context.Context, shortCode string, ownerID int64) error
	ListByOwner(ctx context.Context, ownerID int64, page, pageSize int) (*domain.LinkPage, error)
}

type CacheRepository interface {
	GetLink(ctx context.Context, shortCode string) (*domain.CachedLink, error)
	SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error
	DeleteLink(ctx context.Context, shortCode string) error
}

// ClickRecorder is the fire-and-forget hand-off into the ingest pipeline.
// Record must never block.
type ClickRecorder interface {
	Record(event domain.ClickEvent) bool
}

// ResolverService orchestrates generator, store, cache, and click ingest
// for the two hot-path entry points: creation and resolution.
type ResolverService struct {
	linkRepo   LinkRepository
	cacheRepo  CacheRepository
	clicks     ClickRecorder
	gen        *generator.Generator
	cacheTTL   time.Duration
	maxRetries int
}

func NewResolverService(
	linkRepo LinkRepository,
	cacheRepo CacheRepository,
	clicks ClickRecorder,
	gen *generator.Generator,
	cacheTTL time.Duration,
	maxRetries int,
) *ResolverService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &ResolverService{
		linkRepo:   linkRepo,
		cacheRepo:  cacheRepo,
		clicks:     clicks,
		gen:        gen,
		cacheTTL:   cacheTTL,
		maxRetries: maxRetries,
	}
}

// CreateLink validates the request, allocates a code, and persists the
// record. The store's uniqueness constraint closes the race between
// concurrent creations; the retry loop here is bounded and only runs on
// the system-generated path. A user-supplied alias collision is terminal.
func (s *ResolverService) CreateLink(ctx context.Context, req *domain.CreateLinkRequest, ownerID *int64) (*domain.Link, error) {
	if errs := validator.Validate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, errs[0].Message)
	}
	if req.CustomAlias != "" && validator.IsReservedKeyword(req.CustomAlias) {
		return nil, fmt.Errorf("%w: alias %q is reserved", domain.ErrInvalidInput, req.CustomAlias)
	}

	var expiresAt *time.Time
	if req.ExpiryHours > 0 {
		expires := time.Now().UTC().Add(time.Duration(req.ExpiryHours) * time.Hour)
		expiresAt = &expires
	}

	link := &domain.Link{
		TargetURL:   req.TargetURL,
		OwnerID:     ownerID,
		CustomAlias: req.CustomAlias != "",
		ExpiresAt:   expiresAt,
		IsActive:    true,
	}

	if req.CustomAlias != "" {
		link.ShortCode = req.CustomAlias
		if err := s.linkRepo.Create(ctx, link); err != nil {
			if errors.Is(err, domain.ErrDuplicateCode) {
				return nil, domain.ErrAliasTaken
			}
			return nil, err
		}
	} else if err := s.createGenerated(ctx, link); err != nil {
		return nil, err
	}

	// Write-through populate so the first resolution of a brand-new link
	// is a hit. A cache failure is a performance problem, not an error.
	if ttl, ok := s.ttlFor(link); ok {
		if err := s.cacheRepo.SetLink(ctx, link, ttl); err != nil {
			logger.FromContext(ctx).Warn("cache populate after create failed",
				"short_code", link.ShortCode, "error", err)
		}
	}

	return link, nil
}

func (s *ResolverService) createGenerated(ctx context.Context, link *domain.Link) error {
	var lastErr error

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		code, err := s.gen.Generate()
		if err != nil {
			return fmt.Errorf("generate short code: %w", err)
		}

		link.ShortCode = code
		err = s.linkRepo.Create(ctx, link)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicateCode) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w after %d attempts: %w", domain.ErrGenerationExhausted, s.maxRetries, lastErr)
}

// Resolve answers a redirect. Cache first; a cache failure degrades to a
// miss rather than failing the request. Inactive and expired links resolve
// as not found, and unknown codes are never cached. On success the click
// event is handed off without blocking; the redirect never waits on ingest.
// The second return value reports whether the cache answered.
func (s *ResolverService) Resolve(ctx context.Context, shortCode string, visit domain.ClickRequest) (*domain.Link, bool, error) {
	if !validator.IsValidCode(shortCode) {
		return nil, false, domain.ErrNotFound
	}

	link, fromCache := s.lookup(ctx, shortCode)
	if link == nil {
		var err error
		link, err = s.linkRepo.GetByShortCode(ctx, shortCode)
		if err != nil {
			return nil, false, err
		}

		if ttl, ok := s.ttlFor(link); ok {
			if err := s.cacheRepo.SetLink(ctx, link, ttl); err != nil {
				logger.FromContext(ctx).Warn("cache populate on miss failed",
					"short_code", shortCode, "error", err)
			}
		}
	}

	if !link.IsActive || link.Expired(time.Now().UTC()) {
		return nil, fromCache, domain.ErrNotFound
	}

	s.clicks.Record(domain.ClickEvent{
		LinkID:     link.ID,
		ClickedAt:  time.Now().UTC(),
		IPAddress:  visit.IPAddress,
		UserAgent:  visit.UserAgent,
		Referrer:   visit.Referrer,
		DeviceType: detector.DetectDeviceType(visit.UserAgent),
	})

	return link, fromCache, nil
}

func (s *ResolverService) lookup(ctx context.Context, shortCode string) (*domain.Link, bool) {
	cached, err := s.cacheRepo.GetLink(ctx, shortCode)
	if err != nil {
		logger.FromContext(ctx).Warn("cache read failed, falling back to store",
			"short_code", shortCode, "error", err)
		return nil, false
	}
	if cached == nil {
		return nil, false
	}
	return &cached.Link, true
}

// Deactivate flips the link off and eagerly evicts the cache entry. The
// eviction is best-effort; the entry TTL is the hard staleness bound for
// a resolver that still sees the stale active record.
func (s *ResolverService) Deactivate(ctx context.Context, shortCode string, ownerID *int64) error {
	if ownerID == nil {
		return domain.ErrForbidden
	}

	if err := s.linkRepo.Deactivate(ctx, shortCode, *ownerID); err != nil {
		return err
	}

	if err := s.cacheRepo.DeleteLink(ctx, shortCode); err != nil {
		logger.FromContext(ctx).Warn("cache eviction after deactivate failed",
			"short_code", shortCode, "error", err)
	}

	return nil
}

func (s *ResolverService) ListLinks(ctx context.Context, ownerID *int64, page, pageSize int) (*domain.LinkPage, error) {
	if ownerID == nil {
		return nil, domain.ErrForbidden
	}
	return s.linkRepo.ListByOwner(ctx, *ownerID, page, pageSize)
}

// ttlFor clamps the configured TTL to the link's own expiry so the cache
// never outlives the record it fronts. Returns false when the link is
// already past its expiry and should not be cached at all.
func (s *ResolverService) ttlFor(link *domain.Link) (time.Duration, bool) {
	ttl := s.cacheTTL
	if link.ExpiresAt != nil {
		until := time.Until(*link.ExpiresAt)
		if until <= 0 {
			return 0, false
		}
		if until < ttl {
			ttl = until
		}
	}
	return ttl, true
}
