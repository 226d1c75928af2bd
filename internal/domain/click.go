package domain

import "time"

// ClickEvent is one recorded redirect. Rows are append-only and outlive
// link deactivation. An empty Referrer means a direct visit.
type ClickEvent struct {
	ID         int64     `json:"id"`
	LinkID     int64     `json:"link_id"`
	ClickedAt  time.Time `json:"clicked_at"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	Referrer   string    `json:"referrer,omitempty"`
	DeviceType string    `json:"device_type"`
}

// ClickRequest is the request-side context of a redirect, captured by the
// gateway-facing handler and handed to the resolver.
type ClickRequest struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    int64  `json:"count"`
}

type ClicksByDate struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DeviceStats struct {
	Mobile  int64 `json:"mobile"`
	Desktop int64 `json:"desktop"`
	Tablet  int64 `json:"tablet"`
	Bot     int64 `json:"bot"`
	Unknown int64 `json:"unknown"`
}

// LinkSummary is derived on read from click events; it is never stored.
// Day buckets use calendar-day boundaries in UTC.
type LinkSummary struct {
	ShortCode     string          `json:"short_code"`
	TargetURL     string          `json:"target_url"`
	TotalClicks   int64           `json:"total_clicks"`
	UniqueIPs     int64           `json:"unique_ips"`
	ClicksToday   int64           `json:"clicks_today"`
	Clicks7Days   int64           `json:"clicks_7_days"`
	Clicks30Days  int64           `json:"clicks_30_days"`
	LastClickedAt *time.Time      `json:"last_clicked_at"`
	CreatedAt     time.Time       `json:"created_at"`
	TopReferrers  []ReferrerCount `json:"top_referrers"`
	ClicksByDate  []ClicksByDate  `json:"clicks_by_date"`
	DeviceStats   DeviceStats     `json:"device_stats"`
}

type TopLink struct {
	ShortCode string `json:"short_code"`
	TargetURL string `json:"target_url"`
	Clicks    int64  `json:"clicks"`
}

// UserSummary rolls up click activity across every link an owner has created.
type UserSummary struct {
	TotalLinks    int64    `json:"total_links"`
	ActiveLinks   int64    `json:"active_links"`
	TotalClicks   int64    `json:"total_clicks"`
	Clicks7Days   int64    `json:"clicks_7_days"`
	TopPerforming *TopLink `json:"top_performing_link"`
}

type ClickHistory struct {
	Clicks     []ClickEvent `json:"clicks"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}
