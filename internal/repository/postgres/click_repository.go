package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/utsavjain246/shortify/internal/domain"
)

// DirectReferrer is the bucket empty/missing referrers aggregate under.
const DirectReferrer = "direct"

// ClickRepository owns the append-only click event log. Rows are never
// updated; summaries are computed at query time.
type ClickRepository struct {
	db *pgxpool.Pool
}

func NewClickRepository(db *pgxpool.Pool) *ClickRepository {
	return &ClickRepository{db: db}
}

func (r *ClickRepository) Insert(ctx context.Context, click *domain.ClickEvent) error {
	query := `
		INSERT INTO clicks (link_id, clicked_at, ip_address, user_agent, referrer, device_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		click.LinkID,
		click.ClickedAt,
		click.IPAddress,
		click.UserAgent,
		click.Referrer,
		click.DeviceType,
	).Scan(&click.ID)

	return translateErr("insert click", err)
}

// dayBounds computes the calendar-day boundaries in UTC relative to now.
func dayBounds(now time.Time) (dayStart, start7, start30 time.Time) {
	utc := now.UTC()
	dayStart = time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return dayStart, dayStart.AddDate(0, 0, -6), dayStart.AddDate(0, 0, -29)
}

// LinkSummary aggregates every committed click for the link. Day buckets
// are calendar days in UTC relative to now; the caller supplies now so
// tests can pin it.
func (r *ClickRepository) LinkSummary(ctx context.Context, link *domain.Link, topN int, now time.Time) (*domain.LinkSummary, error) {
	dayStart, start7, start30 := dayBounds(now)

	summary := &domain.LinkSummary{
		ShortCode: link.ShortCode,
		TargetURL: link.TargetURL,
		CreatedAt: link.CreatedAt,
	}

	query := `
		SELECT
			COUNT(*),
			COUNT(DISTINCT ip_address) FILTER (WHERE ip_address <> ''),
			COUNT(*) FILTER (WHERE clicked_at >= $2),
			COUNT(*) FILTER (WHERE clicked_at >= $3),
			COUNT(*) FILTER (WHERE clicked_at >= $4),
			MAX(clicked_at)
		FROM clicks
		WHERE link_id = $1
	`

	err := r.db.QueryRow(ctx, query, link.ID, dayStart, start7, start30).Scan(
		&summary.TotalClicks,
		&summary.UniqueIPs,
		&summary.ClicksToday,
		&summary.Clicks7Days,
		&summary.Clicks30Days,
		&summary.LastClickedAt,
	)
	if err != nil {
		return nil, translateErr("summarize clicks", err)
	}

	topReferrers, err := r.topReferrers(ctx, link.ID, topN)
	if err != nil {
		return nil, err
	}
	summary.TopReferrers = topReferrers

	clicksByDate, err := r.clicksByDate(ctx, link.ID, start30)
	if err != nil {
		return nil, err
	}
	summary.ClicksByDate = clicksByDate

	deviceStats, err := r.deviceStats(ctx, link.ID)
	if err != nil {
		return nil, err
	}
	summary.DeviceStats = *deviceStats

	return summary, nil
}

// topReferrers groups empty referrers under the direct bucket and breaks
// count ties by referrer string ascending so results are deterministic.
func (r *ClickRepository) topReferrers(ctx context.Context, linkID int64, limit int) ([]domain.ReferrerCount, error) {
	query := `
		SELECT COALESCE(NULLIF(referrer, ''), $3) AS referrer, COUNT(*) AS count
		FROM clicks
		WHERE link_id = $1
		GROUP BY 1
		ORDER BY count DESC, referrer ASC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, linkID, limit, DirectReferrer)
	if err != nil {
		return nil, translateErr("top referrers", err)
	}
	defer rows.Close()

	var results []domain.ReferrerCount
	for rows.Next() {
		var rc domain.ReferrerCount
		if err := rows.Scan(&rc.Referrer, &rc.Count); err != nil {
			return nil, translateErr("top referrers", err)
		}
		results = append(results, rc)
	}

	return results, translateErr("top referrers", rows.Err())
}

func (r *ClickRepository) clicksByDate(ctx context.Context, linkID int64, since time.Time) ([]domain.ClicksByDate, error) {
	query := `
		SELECT (clicked_at AT TIME ZONE 'UTC')::date AS date, COUNT(*) AS count
		FROM clicks
		WHERE link_id = $1 AND clicked_at >= $2
		GROUP BY 1
		ORDER BY date DESC
	`

	rows, err := r.db.Query(ctx, query, linkID, since)
	if err != nil {
		return nil, translateErr("clicks by date", err)
	}
	defer rows.Close()

	var results []domain.ClicksByDate
	for rows.Next() {
		var cbd domain.ClicksByDate
		var date time.Time
		if err := rows.Scan(&date, &cbd.Count); err != nil {
			return nil, translateErr("clicks by date", err)
		}
		cbd.Date = date.Format("2006-01-02")
		results = append(results, cbd)
	}

	return results, translateErr("clicks by date", rows.Err())
}

func (r *ClickRepository) deviceStats(ctx context.Context, linkID int64) (*domain.DeviceStats, error) {
	query := `
		SELECT COALESCE(NULLIF(device_type, ''), 'unknown') AS device_type, COUNT(*) AS count
		FROM clicks
		WHERE link_id = $1
		GROUP BY 1
	`

	rows, err := r.db.Query(ctx, query, linkID)
	if err != nil {
		return nil, translateErr("device stats", err)
	}
	defer rows.Close()

	stats := &domain.DeviceStats{}
	for rows.Next() {
		var deviceType string
		var count int64
		if err := rows.Scan(&deviceType, &count); err != nil {
			return nil, translateErr("device stats", err)
		}

		switch deviceType {
		case "mobile":
			stats.Mobile = count
		case "desktop":
			stats.Desktop = count
		case "tablet":
			stats.Tablet = count
		case "bot":
			stats.Bot = count
		default:
			stats.Unknown = count
		}
	}

	return stats, translateErr("device stats", rows.Err())
}

// UserSummary joins clicks across every link the owner has created.
// An owner with no links gets an all-zero summary, not an error.
func (r *ClickRepository) UserSummary(ctx context.Context, ownerID int64, now time.Time) (*domain.UserSummary, error) {
	utc := now.UTC()
	dayStart := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	start7 := dayStart.AddDate(0, 0, -6)

	summary := &domain.UserSummary{}

	query := `
		SELECT
			COUNT(DISTINCT l.id),
			COUNT(DISTINCT l.id) FILTER (WHERE l.is_active),
			COUNT(c.id),
			COUNT(c.id) FILTER (WHERE c.clicked_at >= $2)
		FROM links l
		LEFT JOIN clicks c ON c.link_id = l.id
		WHERE l.owner_id = $1
	`

	err := r.db.QueryRow(ctx, query, ownerID, start7).Scan(
		&summary.TotalLinks,
		&summary.ActiveLinks,
		&summary.TotalClicks,
		&summary.Clicks7Days,
	)
	if err != nil {
		return nil, translateErr("user summary", err)
	}

	if summary.TotalLinks == 0 {
		return summary, nil
	}

	topQuery := `
		SELECT l.short_code, l.target_url, COUNT(c.id) AS clicks
		FROM links l
		LEFT JOIN clicks c ON c.link_id = l.id
		WHERE l.owner_id = $1
		GROUP BY l.id
		ORDER BY clicks DESC, l.short_code ASC
		LIMIT 1
	`

	var top domain.TopLink
	err = r.db.QueryRow(ctx, topQuery, ownerID).Scan(&top.ShortCode, &top.TargetURL, &top.Clicks)
	if err != nil {
		return nil, translateErr("user summary", err)
	}
	summary.TopPerforming = &top

	return summary, nil
}

func (r *ClickRepository) ClickHistory(ctx context.Context, linkID int64, page, pageSize int) (*domain.ClickHistory, error) {
	offset := (page - 1) * pageSize

	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clicks WHERE link_id = $1`, linkID).Scan(&total)
	if err != nil {
		return nil, translateErr("count clicks", err)
	}

	query := `
		SELECT id, link_id, clicked_at, ip_address, user_agent, referrer, device_type
		FROM clicks
		WHERE link_id = $1
		ORDER BY clicked_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, linkID, pageSize, offset)
	if err != nil {
		return nil, translateErr("click history", err)
	}
	defer rows.Close()

	var clicks []domain.ClickEvent
	for rows.Next() {
		var click domain.ClickEvent
		err := rows.Scan(
			&click.ID,
			&click.LinkID,
			&click.ClickedAt,
			&click.IPAddress,
			&click.UserAgent,
			&click.Referrer,
			&click.DeviceType,
		)
		if err != nil {
			return nil, translateErr("click history", err)
		}
		clicks = append(clicks, click)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr("click history", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &domain.ClickHistory{
		Clicks:     clicks,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
