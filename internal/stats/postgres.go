package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// PostgresRepository implements Repository using PostgreSQL. Counter
// writes are upserts so concurrent tracking calls never conflict.
type PostgresRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{db: db, logger: logger}
}

func (r *PostgresRepository) PortfolioStats(ctx context.Context) (*PortfolioStats, error) {
	var s PortfolioStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM portfolio_collections WHERE visible = TRUE),
			(SELECT COUNT(*) FROM portfolio_photos p
			 JOIN portfolio_collections c ON c.id = p.collection_id
			 WHERE c.visible = TRUE)
	`).Scan(&s.CollectionCount, &s.PhotoCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count portfolio: %w", err)
	}

	var (
		latest   LatestPhoto
		caption  sql.NullString
		location sql.NullString
	)
	err = r.db.QueryRowContext(ctx, `
		SELECT p.src, p.caption, p.location, p.created_at
		FROM portfolio_photos p
		JOIN portfolio_collections c ON c.id = p.collection_id
		WHERE c.visible = TRUE
		ORDER BY p.created_at DESC
		LIMIT 1
	`).Scan(&latest.Src, &caption, &location, &latest.CreatedAt)
	if err == nil {
		latest.Caption = caption.String
		latest.Location = location.String
		s.LatestPhoto = &latest
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to find latest photo: %w", err)
	}

	return &s, nil
}

func (r *PostgresRepository) Document(ctx context.Context, source string) (*Document, error) {
	var (
		doc Document
		raw []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT source, data, updated_at
		FROM public_stats
		WHERE source = $1
	`, source).Scan(&doc.Source, &raw, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats document %s: %w", source, err)
	}

	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return nil, fmt.Errorf("failed to decode stats document %s: %w", source, err)
	}
	return &doc, nil
}

func (r *PostgresRepository) History(ctx context.Context, source string, limit int) ([]HistoryPoint, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, value
		FROM stats_history
		WHERE source = $1
		ORDER BY date DESC
		LIMIT $2
	`, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history for %s: %w", source, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Warn("failed to close rows", "error", err)
		}
	}()

	var points []HistoryPoint
	for rows.Next() {
		var (
			p    HistoryPoint
			date time.Time
		)
		if err := rows.Scan(&date, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan history point: %w", err)
		}
		p.Date = date.Format("2006-01-02")
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	// Query returns newest first; sparklines want oldest first.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

func (r *PostgresRepository) IncrPageView(ctx context.Context, page string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO page_views (page, count, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (page)
		DO UPDATE SET count = page_views.count + 1, updated_at = NOW()
	`, page)
	if err != nil {
		return fmt.Errorf("failed to increment page view: %w", err)
	}
	return nil
}

func (r *PostgresRepository) IncrPhotoView(ctx context.Context, photoSrc, collection string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO photo_views (photo_src, collection, count, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (photo_src)
		DO UPDATE SET count = photo_views.count + 1, updated_at = NOW()
	`, photoSrc, collection)
	if err != nil {
		return fmt.Errorf("failed to increment photo view: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RecordVisit(ctx context.Context, device, referrer, country, city string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO site_visits (date, device, referrer, country, city, count)
		VALUES (CURRENT_DATE, $1, $2, $3, $4, 1)
		ON CONFLICT (date, device, referrer, country, city)
		DO UPDATE SET count = site_visits.count + 1
	`, device, referrer, country, city)
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}
