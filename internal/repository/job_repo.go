package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// GetInProgressPastEnd returns IDs of in-progress bookings whose
// scheduled window (start plus duration) has already elapsed.
func (r *JobRepository) GetInProgressPastEnd(now time.Time) ([]int, error) {
	query := `
		SELECT id FROM bookings
		WHERE status = 'in_progress'
		  AND scheduled_date + (duration_minutes || ' minutes')::interval < $1`
	return r.queryIDs(query, now)
}

// GetStalePending returns IDs of pending bookings whose scheduled time
// passed before the cutoff without ever being confirmed.
func (r *JobRepository) GetStalePending(before time.Time) ([]int, error) {
	query := `SELECT id FROM bookings WHERE status = 'pending' AND scheduled_date < $1`
	return r.queryIDs(query, before)
}

func (r *JobRepository) queryIDs(query string, args ...any) ([]int, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying booking ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateBookingStatuses moves the given bookings to newStatus and
// stamps updated_at. Callers are responsible for only passing IDs
// whose current status legally transitions to newStatus.
func (r *JobRepository) UpdateBookingStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating booking statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d bookings to '%s'", rowsAffected, newStatus)
	}
	return nil
}
