package domain

import "time"

type Link struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"short_code"`
	TargetURL   string     `json:"target_url"`
	OwnerID     *int64     `json:"owner_id,omitempty"`
	CustomAlias bool       `json:"custom_alias"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	IsActive    bool       `json:"is_active"`
}

// Expired reports whether the link's expiry timestamp has passed.
// Links without an expiry never expire.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

type CreateLinkRequest struct {
	TargetURL   string `json:"url" validate:"required,url"`
	CustomAlias string `json:"custom_alias,omitempty" validate:"omitempty,min=1,max=10,alias"`
	ExpiryHours int    `json:"expiry_hours,omitempty" validate:"omitempty,gte=1"`
}

// CachedLink is the shape stored in the resolution cache: the link record
// plus the instant it was written. The cache never interprets activity or
// expiry; that stays with the resolver.
type CachedLink struct {
	Link     Link      `json:"link"`
	CachedAt time.Time `json:"cached_at"`
}

// LinkStats is a listing row: the link joined with its lifetime click count.
type LinkStats struct {
	Link        Link  `json:"link"`
	TotalClicks int64 `json:"total_clicks"`
}

type LinkPage struct {
	Links      []LinkStats `json:"links"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}
