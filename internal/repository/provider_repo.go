package repository

import (
	"database/sql"
	"fmt"
	"time"

	"eldercare/internal/db"
	"eldercare/internal/entities"

	"github.com/lib/pq"
)

type ProviderRepository struct {
	DB *sql.DB
}

func NewProviderRepository(database *sql.DB) *ProviderRepository {
	return &ProviderRepository{DB: database}
}

// ListProviders returns one page of providers of active users matching
// the filter, plus the total match count.
func (r *ProviderRepository) ListProviders(f entities.ProviderFilter) ([]db.ProviderProfile, int64, error) {
	where := `WHERE u.is_active = TRUE`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.ProviderType != "" {
		where += " AND p.provider_type = " + arg(f.ProviderType)
	}
	if f.City != "" {
		where += " AND p.city ILIKE " + arg("%"+f.City+"%")
	}
	if f.State != "" {
		where += " AND p.state ILIKE " + arg("%"+f.State+"%")
	}
	if f.MinRating != nil {
		where += " AND p.rating >= " + arg(*f.MinRating)
	}
	if f.VerifiedOnly {
		where += " AND p.is_verified = TRUE"
	}
	if f.ServiceType != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM services s
			WHERE s.provider_id = p.id AND s.is_active = TRUE AND s.service_type = ` + arg(f.ServiceType) + `)`
	}

	base := ` FROM provider_profiles p JOIN users u ON p.user_id = u.id ` + where

	var total int64
	if err := r.DB.QueryRow("SELECT COUNT(*)"+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting providers: %w", err)
	}

	query := selectProviders(base+" ORDER BY p.id") +
		" LIMIT " + arg(f.PerPage) + " OFFSET " + arg((f.Page-1)*f.PerPage)
	providers, err := r.queryProviders(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return providers, total, nil
}

// SearchProviders returns every provider of an active user matching
// the hard criteria. Scoring and ordering happen in the service layer.
func (r *ProviderRepository) SearchProviders(c entities.SearchCriteria) ([]db.ProviderProfile, error) {
	where := `WHERE u.is_active = TRUE`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if c.Location.City != "" {
		where += " AND p.city ILIKE " + arg("%"+c.Location.City+"%")
	}
	if c.Location.State != "" {
		where += " AND p.state ILIKE " + arg("%"+c.Location.State+"%")
	}
	if c.Location.ZipCode != "" {
		where += " AND p.zip_code = " + arg(c.Location.ZipCode)
	}
	if len(c.Services) > 0 {
		where += ` AND EXISTS (
			SELECT 1 FROM services s
			WHERE s.provider_id = p.id AND s.is_active = TRUE AND s.service_type = ANY(` + arg(pq.Array(c.Services)) + `))`
	}
	if c.BudgetRange.MinHourly != nil {
		where += " AND p.hourly_rate >= " + arg(*c.BudgetRange.MinHourly)
	}
	if c.BudgetRange.MaxHourly != nil {
		where += " AND p.hourly_rate <= " + arg(*c.BudgetRange.MaxHourly)
	}
	if c.Preferences.VerifiedOnly {
		where += " AND p.is_verified = TRUE"
	}
	if c.Preferences.MinRating != nil {
		where += " AND p.rating >= " + arg(*c.Preferences.MinRating)
	}

	query := selectProviders(` FROM provider_profiles p JOIN users u ON p.user_id = u.id ` + where + " ORDER BY p.id")
	return r.queryProviders(query, args...)
}

func selectProviders(tail string) string {
	return `SELECT p.id, p.user_id, p.provider_type, p.business_name, p.license_number,
		p.certifications, p.specialties, p.description, p.address, p.city, p.state, p.zip_code,
		p.hourly_rate, p.daily_rate, p.is_verified, p.verification_date, p.rating, p.total_reviews,
		COALESCE(p.availability_schedule, ''), p.created_at` + tail
}

func (r *ProviderRepository) queryProviders(query string, args ...any) ([]db.ProviderProfile, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying providers: %w", err)
	}
	defer rows.Close()

	var providers []db.ProviderProfile
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning provider: %w", err)
		}
		providers = append(providers, *p)
	}
	return providers, rows.Err()
}

// ActiveServices returns the provider's active services, oldest first.
func (r *ProviderRepository) ActiveServices(providerID int) ([]db.Service, error) {
	query := `SELECT ` + serviceColumns + `
		FROM services WHERE provider_id = $1 AND is_active = TRUE ORDER BY id`
	rows, err := r.DB.Query(query, providerID)
	if err != nil {
		return nil, fmt.Errorf("error querying services for provider %d: %w", providerID, err)
	}
	defer rows.Close()

	var services []db.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning service: %w", err)
		}
		services = append(services, *s)
	}
	return services, rows.Err()
}

// ListReviews returns one page of a provider's reviews, newest first,
// with the reviewer's display name.
func (r *ProviderRepository) ListReviews(providerID, page, perPage int) ([]entities.ReviewResponse, int64, error) {
	var total int64
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM reviews WHERE provider_id = $1`, providerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting reviews: %w", err)
	}

	query := `
		SELECT rv.id, rv.booking_id, rv.provider_id, rv.family_user_id, rv.rating,
		       rv.comment, rv.created_at, u.first_name, u.last_name
		FROM reviews rv
		JOIN users u ON rv.family_user_id = u.id
		WHERE rv.provider_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(query, providerID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying reviews: %w", err)
	}
	defer rows.Close()

	var reviews []entities.ReviewResponse
	for rows.Next() {
		var rv entities.ReviewResponse
		var createdAt time.Time
		var firstName, lastName string
		if err := rows.Scan(&rv.ID, &rv.BookingID, &rv.ProviderID, &rv.FamilyUserID,
			&rv.Rating, &rv.Comment, &createdAt, &firstName, &lastName); err != nil {
			return nil, 0, fmt.Errorf("error scanning review: %w", err)
		}
		rv.CreatedAt = createdAt.Format("2006-01-02T15:04:05")
		rv.ReviewerName = firstName + " " + initial(lastName)
		reviews = append(reviews, rv)
	}
	return reviews, total, rows.Err()
}

// initial abbreviates a surname for review display.
func initial(lastName string) string {
	if lastName == "" {
		return ""
	}
	return lastName[:1] + "."
}

// VerifyProvider marks a provider verified, stamping the verification
// time. Returns false when the provider does not exist.
func (r *ProviderRepository) VerifyProvider(id int) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE provider_profiles
		SET is_verified = TRUE, verification_date = $2
		WHERE id = $1`, id, time.Now())
	if err != nil {
		return false, fmt.Errorf("error verifying provider %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
