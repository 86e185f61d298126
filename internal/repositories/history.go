// package repositories provides the persistence layer for commit history.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mixcart/internal/models"
	"github.com/desertthunder/mixcart/internal/shared"
)

// CommitRepository stores the outcome of playlist commits.
//
// History records only what happened in the external account (playlist id,
// name, track count, partial flag). Neither the cart contents nor any
// credential is ever written here.
type CommitRepository struct {
	db *sql.DB
}

// NewCommitRepository creates a CommitRepository with the given database connection.
func NewCommitRepository(db *sql.DB) *CommitRepository {
	return &CommitRepository{db: db}
}

// Create inserts a new commit record with a generated ID and timestamp.
func (r *CommitRepository) Create(record *models.CommitRecord) error {
	if record.ID == "" {
		record.ID = shared.GenerateID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO commits (id, playlist_id, playlist_name, playlist_url, user_id, track_count, partial, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		record.ID,
		record.PlaylistID,
		record.PlaylistName,
		record.PlaylistURL,
		record.UserID,
		record.TrackCount,
		record.Partial,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert commit record: %w", err)
	}

	return nil
}

// Get retrieves a commit record by ID.
func (r *CommitRepository) Get(id string) (*models.CommitRecord, error) {
	query := `
		SELECT id, playlist_id, playlist_name, playlist_url, user_id, track_count, partial, created_at
		FROM commits
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// List retrieves commit records newest first, up to limit (0 for all).
func (r *CommitRepository) List(limit int) ([]*models.CommitRecord, error) {
	query := `
		SELECT id, playlist_id, playlist_name, playlist_url, user_id, track_count, partial, created_at
		FROM commits
		ORDER BY created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commit records: %w", err)
	}
	defer rows.Close()

	var records []*models.CommitRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Delete removes a commit record by ID.
func (r *CommitRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM commits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete commit record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("commit record %s not found", id)
	}

	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func (r *CommitRepository) scanOne(row *sql.Row) (*models.CommitRecord, error) {
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("commit record not found")
	}
	return record, err
}

func scanRecord(row scannable) (*models.CommitRecord, error) {
	var record models.CommitRecord
	err := row.Scan(
		&record.ID,
		&record.PlaylistID,
		&record.PlaylistName,
		&record.PlaylistURL,
		&record.UserID,
		&record.TrackCount,
		&record.Partial,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
