package repository

import (
	"context"
	"errors"
	"fmt"

	"culture-explorer/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `
	id,
	type,
	title,
	description,
	country,
	city,
	zipcode,
	COALESCE(address, ''),
	COALESCE(community, ''),
	COALESCE(link, ''),
	COALESCE(photo_url, ''),
	status,
	lat,
	lon,
	consent_store,
	consent_share`

// Repository implements entry persistence on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListByStatus returns entries whose status is in the given set, newest
// first. An empty set returns all entries.
func (r *Repository) ListByStatus(ctx context.Context, statuses []string) ([]models.Entry, error) {
	sql := `SELECT` + entryColumns + ` FROM entries ORDER BY id DESC`
	args := []any{}
	if len(statuses) > 0 {
		sql = `SELECT` + entryColumns + ` FROM entries WHERE status = ANY($1) ORDER BY id DESC`
		args = append(args, statuses)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return entries, nil
}

// GetByID returns the entry with the given id, or nil when it does not exist.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Entry, error) {
	row := r.db.QueryRow(ctx, `SELECT`+entryColumns+` FROM entries WHERE id = $1`, id)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to get entry: %w", err)
	}

	return &entry, nil
}

// Insert stores a new entry and returns its assigned id.
func (r *Repository) Insert(ctx context.Context, e models.Entry) (int64, error) {
	sql := `
		INSERT INTO entries (
			type, title, description, country, city, zipcode,
			address, community, link, photo_url, status, lat, lon,
			consent_store, consent_share
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, sql,
		e.Type, e.Title, e.Description, e.Country, e.City, e.Zipcode,
		nullable(e.Address), nullable(e.Community), nullable(e.Link), nullable(e.PhotoURL),
		e.Status, e.Lat, e.Lon, e.ConsentStore, e.ConsentShare,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert entry: %w", err)
	}

	return id, nil
}

// UpdateStatus transitions an entry to the given moderation status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE entries SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("repository: failed to update status: %w", err)
	}
	return nil
}

// Delete removes an entry permanently.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete entry: %w", err)
	}
	return nil
}

// UpdateCoordinates writes a batch of resolved coordinates in one round trip.
func (r *Repository) UpdateCoordinates(ctx context.Context, updates []models.CoordinateUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(`UPDATE entries SET lat = $2, lon = $3 WHERE id = $1`, u.ID, u.Lat, u.Lon)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range updates {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("repository: failed to update coordinates: %w", err)
		}
	}

	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (models.Entry, error) {
	var e models.Entry
	err := row.Scan(
		&e.ID,
		&e.Type,
		&e.Title,
		&e.Description,
		&e.Country,
		&e.City,
		&e.Zipcode,
		&e.Address,
		&e.Community,
		&e.Link,
		&e.PhotoURL,
		&e.Status,
		&e.Lat,
		&e.Lon,
		&e.ConsentStore,
		&e.ConsentShare,
	)
	return e, err
}

// nullable maps empty strings to NULL for optional columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
