package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eldercare/internal/db"
	"eldercare/internal/entities"

	"github.com/lib/pq"
)

const bookingColumns = `id, family_user_id, provider_id, service_id, elder_id,
	scheduled_date, duration_minutes, status, total_cost, special_instructions,
	created_at, updated_at`

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

func scanBooking(row interface{ Scan(...any) error }) (*db.Booking, error) {
	var b db.Booking
	var cost sql.NullFloat64
	var status string
	err := row.Scan(
		&b.ID, &b.FamilyUserID, &b.ProviderID, &b.ServiceID, &b.ElderID,
		&b.ScheduledDate, &b.DurationMinutes, &status, &cost,
		&b.SpecialInstructions, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = db.BookingStatus(status)
	b.TotalCost = floatPtr(cost)
	return &b, nil
}

// GetBooking returns the booking or nil when it does not exist.
func (r *BookingRepository) GetBooking(q DBTX, id int) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(q.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying booking %d: %w", id, err)
	}
	return b, nil
}

// GetBookingForUpdate locks the booking row for the remainder of the
// transaction so a concurrent status change cannot slip between the
// read and the write.
func (r *BookingRepository) GetBookingForUpdate(tx *sql.Tx, id int) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	b, err := scanBooking(tx.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error locking booking %d: %w", id, err)
	}
	return b, nil
}

// HasConflict reports whether an active (confirmed or in-progress)
// booking already occupies the provider at exactly scheduledAt. The
// check is exact-timestamp, not interval overlap; the partial unique
// index in the schema enforces the same predicate under concurrency.
func (r *BookingRepository) HasConflict(q DBTX, providerID int, scheduledAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE provider_id = $1
			  AND scheduled_date = $2
			  AND status = ANY($3)
		)`
	var exists bool
	err := q.QueryRow(query, providerID, scheduledAt, pq.Array(db.ActiveStatuses)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking booking conflict: %w", err)
	}
	return exists, nil
}

func (r *BookingRepository) InsertBooking(q DBTX, b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(family_user_id, provider_id, service_id, elder_id, scheduled_date,
		 duration_minutes, status, total_cost, special_instructions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	return q.QueryRow(query,
		b.FamilyUserID,
		b.ProviderID,
		b.ServiceID,
		b.ElderID,
		b.ScheduledDate,
		b.DurationMinutes,
		string(b.Status),
		nullFloat(b.TotalCost),
		b.SpecialInstructions,
		b.CreatedAt,
		b.UpdatedAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// IsUniqueViolation reports whether err is the partial unique index on
// (provider_id, scheduled_date) rejecting a second active booking.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *BookingRepository) UpdateBooking(q DBTX, b *db.Booking) error {
	query := `
		UPDATE bookings
		SET scheduled_date = $2, duration_minutes = $3, status = $4,
		    total_cost = $5, special_instructions = $6, updated_at = $7
		WHERE id = $1
		RETURNING updated_at`
	return q.QueryRow(query,
		b.ID,
		b.ScheduledDate,
		b.DurationMinutes,
		string(b.Status),
		nullFloat(b.TotalCost),
		b.SpecialInstructions,
		time.Now(),
	).Scan(&b.UpdatedAt)
}

// ListActiveForProvider returns the provider's confirmed/in-progress
// bookings scheduled within [start, end], ascending.
func (r *BookingRepository) ListActiveForProvider(providerID int, start, end time.Time) ([]db.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE provider_id = $1
		  AND scheduled_date >= $2
		  AND scheduled_date <= $3
		  AND status = ANY($4)
		ORDER BY scheduled_date ASC`
	rows, err := r.DB.Query(query, providerID, start, end, pq.Array(db.ActiveStatuses))
	if err != nil {
		return nil, fmt.Errorf("error querying active bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning active booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// ListBookings applies the filter and returns one page plus the total
// match count, newest scheduled first.
func (r *BookingRepository) ListBookings(f entities.BookingFilter, start, end *time.Time) ([]db.Booking, int64, error) {
	where := "WHERE 1=1"
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.FamilyUserID != 0 {
		where += " AND family_user_id = " + arg(f.FamilyUserID)
	}
	if f.ProviderID != 0 {
		where += " AND provider_id = " + arg(f.ProviderID)
	}
	if f.Status != "" {
		where += " AND status = " + arg(f.Status)
	}
	if start != nil {
		where += " AND scheduled_date >= " + arg(*start)
	}
	if end != nil {
		where += " AND scheduled_date <= " + arg(*end)
	}

	var total int64
	if err := r.DB.QueryRow("SELECT COUNT(*) FROM bookings "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting bookings: %w", err)
	}

	query := "SELECT " + bookingColumns + " FROM bookings " + where +
		" ORDER BY scheduled_date DESC LIMIT " + arg(f.PerPage) + " OFFSET " + arg((f.Page-1)*f.PerPage)
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, total, rows.Err()
}

// UpcomingBookings returns up to limit future pending/confirmed
// bookings for a family user or a provider, soonest first.
func (r *BookingRepository) UpcomingBookings(userID int, userType string, now time.Time, limit int) ([]db.Booking, error) {
	column := "family_user_id"
	if userType == "provider" {
		column = "provider_id"
	}
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ` + column + ` = $1
		  AND scheduled_date > $2
		  AND status = ANY($3)
		ORDER BY scheduled_date ASC
		LIMIT $4`
	upcoming := []string{string(db.StatusConfirmed), string(db.StatusPending)}
	rows, err := r.DB.Query(query, userID, now, pq.Array(upcoming), limit)
	if err != nil {
		return nil, fmt.Errorf("error querying upcoming bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning upcoming booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
