// Package db provides SQLite storage for trip documents.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mvidal/tripline/internal/trip"
)

// ErrTripNotFound is returned when no trip exists under the given name.
var ErrTripNotFound = errors.New("trip not found")

// TripInfo summarizes a stored trip without loading its full document.
type TripInfo struct {
	Name      string
	StartDate string
	EndDate   string
	Locations int
	UpdatedAt time.Time
}

// SQLite stores trip documents as JSON blobs keyed by name.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite store and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Save writes the trip document under the given name, replacing any
// previous version.
func (s *SQLite) Save(ctx context.Context, name string, doc trip.Document) error {
	if name == "" {
		return errors.New("trip name is required")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling trip: %w", err)
	}

	locations := 0
	for _, l := range doc.Locations {
		locations += 1 + len(l.SubLocations)
	}

	query := `
		INSERT INTO trips (name, start_date, end_date, locations, document, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			start_date = excluded.start_date,
			end_date   = excluded.end_date,
			locations  = excluded.locations,
			document   = excluded.document,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		name,
		doc.StartDate,
		doc.EndDate,
		locations,
		data,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving trip: %w", err)
	}

	return nil
}

// Load retrieves the trip document stored under the given name.
// Returns ErrTripNotFound if no such trip exists.
func (s *SQLite) Load(ctx context.Context, name string) (trip.Document, error) {
	query := `SELECT document FROM trips WHERE name = ?`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, name).Scan(&data)
	if err == sql.ErrNoRows {
		return trip.Document{}, ErrTripNotFound
	}
	if err != nil {
		return trip.Document{}, fmt.Errorf("querying trip: %w", err)
	}

	doc, err := trip.Decode(data)
	if err != nil {
		return trip.Document{}, fmt.Errorf("decoding trip: %w", err)
	}

	return doc, nil
}

// List returns summaries of all stored trips, most recently updated first.
func (s *SQLite) List(ctx context.Context) ([]TripInfo, error) {
	query := `
		SELECT name, start_date, end_date, locations, updated_at
		FROM trips
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trips []TripInfo
	for rows.Next() {
		var (
			info      TripInfo
			updatedAt string
		)
		if err := rows.Scan(&info.Name, &info.StartDate, &info.EndDate, &info.Locations, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}

		info.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing updated at: %w", err)
		}

		trips = append(trips, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trips: %w", err)
	}

	return trips, nil
}

// Delete removes the trip stored under the given name.
// Returns ErrTripNotFound if no such trip exists.
func (s *SQLite) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM trips WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrTripNotFound
	}

	return nil
}

// Rename changes the name a trip is stored under.
func (s *SQLite) Rename(ctx context.Context, oldName, newName string) error {
	if newName == "" {
		return errors.New("trip name is required")
	}

	result, err := s.db.ExecContext(ctx, `UPDATE trips SET name = ? WHERE name = ?`, newName, oldName)
	if err != nil {
		return fmt.Errorf("renaming trip: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrTripNotFound
	}

	return nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
