package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/utsavjain246/shortify/internal/domain"
)

// LinkRepository owns the canonical short-code → link mapping. The unique
// constraint on short_code is the sole correctness mechanism against
// concurrent creations of the same code.
type LinkRepository struct {
	db *pgxpool.Pool
}

func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	query := `
		INSERT INTO links (short_code, target_url, owner_id, custom_alias, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		link.ShortCode,
		link.TargetURL,
		link.OwnerID,
		link.CustomAlias,
		link.ExpiresAt,
		link.IsActive,
	).Scan(&link.ID, &link.CreatedAt)

	return translateErr("create link", err)
}

// GetByShortCode returns the record whether or not it is active or expired;
// the resolver decides what inactive means for redirects, while analytics
// and listings still surface such links.
func (r *LinkRepository) GetByShortCode(ctx context.Context, shortCode string) (*domain.Link, error) {
	var link domain.Link

	query := `
		SELECT id, short_code, target_url, owner_id, custom_alias, created_at, expires_at, is_active
		FROM links
		WHERE short_code = $1
	`

	err := r.db.QueryRow(ctx, query, shortCode).Scan(
		&link.ID,
		&link.ShortCode,
		&link.TargetURL,
		&link.OwnerID,
		&link.CustomAlias,
		&link.CreatedAt,
		&link.ExpiresAt,
		&link.IsActive,
	)
	if err != nil {
		return nil, translateErr("get link", err)
	}

	return &link, nil
}

// Deactivate flips the active flag. A status flip rather than a delete:
// the code is never reused and click history stays intact.
func (r *LinkRepository) Deactivate(ctx context.Context, shortCode string, ownerID int64) error {
	query := `
		UPDATE links
		SET is_active = false
		WHERE short_code = $1 AND owner_id = $2
	`

	tag, err := r.db.Exec(ctx, query, shortCode, ownerID)
	if err != nil {
		return translateErr("deactivate link", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing updated: distinguish an unknown code from someone else's.
	var exists bool
	err = r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM links WHERE short_code = $1)`, shortCode).Scan(&exists)
	if err != nil {
		return translateErr("deactivate link", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrForbidden
}

// ListByOwner pages through an owner's links, most recent first, each with
// its lifetime click count.
func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID int64, page, pageSize int) (*domain.LinkPage, error) {
	offset := (page - 1) * pageSize

	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM links WHERE owner_id = $1`, ownerID).Scan(&total)
	if err != nil {
		return nil, translateErr("count links", err)
	}

	query := `
		SELECT l.id, l.short_code, l.target_url, l.owner_id, l.custom_alias,
		       l.created_at, l.expires_at, l.is_active,
		       COUNT(c.id) AS total_clicks
		FROM links l
		LEFT JOIN clicks c ON c.link_id = l.id
		WHERE l.owner_id = $1
		GROUP BY l.id
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, ownerID, pageSize, offset)
	if err != nil {
		return nil, translateErr("list links", err)
	}
	defer rows.Close()

	var links []domain.LinkStats
	for rows.Next() {
		var ls domain.LinkStats
		err := rows.Scan(
			&ls.Link.ID,
			&ls.Link.ShortCode,
			&ls.Link.TargetURL,
			&ls.Link.OwnerID,
			&ls.Link.CustomAlias,
			&ls.Link.CreatedAt,
			&ls.Link.ExpiresAt,
			&ls.Link.IsActive,
			&ls.TotalClicks,
		)
		if err != nil {
			return nil, translateErr("scan link", err)
		}
		links = append(links, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr("list links", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &domain.LinkPage{
		Links:      links,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
