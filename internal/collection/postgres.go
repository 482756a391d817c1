package collection

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// PostgresRepository implements Repository using PostgreSQL.
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

const collectionColumns = `id, title, slug, description, cover, visible, display_year, sort_order, created_at`

// ListVisible returns visible collections with their photos, ordered by sort_order.
func (r *PostgresRepository) ListVisible(ctx context.Context) ([]Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM portfolio_collections
		WHERE visible = TRUE
		ORDER BY sort_order, created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Warn("failed to close rows", "error", err)
		}
	}()

	var collections []Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collections = append(collections, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collections: %w", err)
	}

	for i := range collections {
		photos, err := r.photosFor(ctx, collections[i].ID)
		if err != nil {
			return nil, err
		}
		collections[i].Photos = photos
	}
	return collections, nil
}

// GetByID retrieves one collection with its photos, including hidden ones.
// Returns (nil, nil) when the collection does not exist.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM portfolio_collections
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, NormalizeID(id))
	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %s: %w", id, err)
	}

	photos, err := r.photosFor(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Photos = photos
	return c, nil
}

// FeaturedSetting returns the featured-collection settings row, or (nil, nil)
// when none is configured.
func (r *PostgresRepository) FeaturedSetting(ctx context.Context) (*Featured, error) {
	query := `
		SELECT collection_id, featured_until
		FROM portfolio_settings
		WHERE key = 'featured'
	`
	var (
		collectionID string
		until        sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query).Scan(&collectionID, &until)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get featured setting: %w", err)
	}

	f := &Featured{CollectionID: collectionID}
	if until.Valid {
		t := until.Time
		f.FeaturedUntil = &t
	}
	return f, nil
}

// photosFor loads the ordered photo list for one collection.
func (r *PostgresRepository) photosFor(ctx context.Context, collectionID string) ([]Photo, error) {
	query := `
		SELECT src, thumbnail_src, caption, location, notes, show_exif,
		       exif_camera, exif_lens, exif_aperture, exif_shutter, exif_iso,
		       exif_focal_length, exif_date, sort_order, created_at
		FROM portfolio_photos
		WHERE collection_id = $1
		ORDER BY sort_order, created_at
	`
	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos for %s: %w", collectionID, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Warn("failed to close rows", "error", err)
		}
	}()

	var photos []Photo
	for rows.Next() {
		var (
			p           Photo
			thumb       sql.NullString
			caption     sql.NullString
			location    sql.NullString
			notes       sql.NullString
			camera      sql.NullString
			lens        sql.NullString
			aperture    sql.NullString
			shutter     sql.NullString
			iso         sql.NullInt64
			focalLength sql.NullString
			date        sql.NullString
			createdAt   sql.NullTime
		)
		err := rows.Scan(&p.Src, &thumb, &caption, &location, &notes, &p.ShowEXIF,
			&camera, &lens, &aperture, &shutter, &iso, &focalLength, &date,
			&p.SortOrder, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}

		p.ThumbnailSrc = thumb.String
		p.Caption = caption.String
		p.Location = location.String
		p.Notes = notes.String
		if createdAt.Valid {
			p.CreatedAt = createdAt.Time
		}
		if camera.Valid || lens.Valid || aperture.Valid || shutter.Valid || iso.Valid || focalLength.Valid || date.Valid {
			p.EXIF = &EXIF{
				Camera:      camera.String,
				Lens:        lens.String,
				Aperture:    aperture.String,
				Shutter:     shutter.String,
				ISO:         int(iso.Int64),
				FocalLength: focalLength.String,
				Date:        date.String,
			}
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photos: %w", err)
	}
	return photos, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCollection(row rowScanner) (*Collection, error) {
	var (
		c           Collection
		slug        sql.NullString
		description sql.NullString
		cover       sql.NullString
		displayYear sql.NullInt64
		createdAt   sql.NullTime
	)
	err := row.Scan(&c.ID, &c.Title, &slug, &description, &cover, &c.Visible,
		&displayYear, &c.SortOrder, &createdAt)
	if err != nil {
		return nil, err
	}
	c.Slug = slug.String
	c.Description = description.String
	c.Cover = cover.String
	c.DisplayYear = int(displayYear.Int64)
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	} else {
		c.CreatedAt = time.Time{}
	}
	return &c, nil
}
