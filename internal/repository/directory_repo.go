package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"eldercare/internal/db"
)

// DirectoryRepository resolves the records a booking references:
// users, elders, providers, and services. All getters return nil when
// the record does not exist.
type DirectoryRepository struct {
	DB *sql.DB
}

func NewDirectoryRepository(database *sql.DB) *DirectoryRepository {
	return &DirectoryRepository{DB: database}
}

func (r *DirectoryRepository) GetUser(q DBTX, id int) (*db.User, error) {
	var u db.User
	err := q.QueryRow(`
		SELECT id, username, email, first_name, last_name, phone, role, is_active, created_at, updated_at
		FROM users WHERE id = $1`, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Phone, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user %d: %w", id, err)
	}
	return &u, nil
}

func (r *DirectoryRepository) GetElder(q DBTX, id int) (*db.Elder, error) {
	var e db.Elder
	err := q.QueryRow(`
		SELECT id, family_profile_id, first_name, last_name, date_of_birth, gender,
		       medical_conditions, medications, mobility_level, care_preferences, created_at
		FROM elders WHERE id = $1`, id).Scan(
		&e.ID, &e.FamilyProfileID, &e.FirstName, &e.LastName, &e.DateOfBirth,
		&e.Gender, &e.MedicalConditions, &e.Medications, &e.MobilityLevel,
		&e.CarePreferences, &e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying elder %d: %w", id, err)
	}
	return &e, nil
}

const providerColumns = `id, user_id, provider_type, business_name, license_number,
	certifications, specialties, description, address, city, state, zip_code,
	hourly_rate, daily_rate, is_verified, verification_date, rating, total_reviews,
	COALESCE(availability_schedule, ''), created_at`

func scanProvider(row interface{ Scan(...any) error }) (*db.ProviderProfile, error) {
	var p db.ProviderProfile
	var providerType string
	var hourly, daily sql.NullFloat64
	err := row.Scan(
		&p.ID, &p.UserID, &providerType, &p.BusinessName, &p.LicenseNumber,
		&p.Certifications, &p.Specialties, &p.Description, &p.Address,
		&p.City, &p.State, &p.ZipCode, &hourly, &daily, &p.IsVerified,
		&p.VerificationDate, &p.Rating, &p.TotalReviews,
		&p.AvailabilitySchedule, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ProviderType = db.ProviderType(providerType)
	p.HourlyRate = floatPtr(hourly)
	p.DailyRate = floatPtr(daily)
	return &p, nil
}

func (r *DirectoryRepository) GetProvider(q DBTX, id int) (*db.ProviderProfile, error) {
	query := `SELECT ` + providerColumns + ` FROM provider_profiles WHERE id = $1`
	p, err := scanProvider(q.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying provider %d: %w", id, err)
	}
	return p, nil
}

const serviceColumns = `id, provider_id, service_type, name, description, price,
	duration_minutes, is_active, created_at`

func scanService(row interface{ Scan(...any) error }) (*db.Service, error) {
	var s db.Service
	var serviceType string
	var price sql.NullFloat64
	err := row.Scan(
		&s.ID, &s.ProviderID, &serviceType, &s.Name, &s.Description,
		&price, &s.DurationMinutes, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.ServiceType = db.ServiceType(serviceType)
	s.Price = floatPtr(price)
	return &s, nil
}

func (r *DirectoryRepository) GetService(q DBTX, id int) (*db.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	s, err := scanService(q.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying service %d: %w", id, err)
	}
	return s, nil
}
