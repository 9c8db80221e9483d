package service

import (
	"testing"
	"time"

	"eldercare/internal/entities"
	apperr "eldercare/internal/errors"
	"eldercare/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewBookingService(
		repository.NewBookingRepository(database),
		repository.NewDirectoryRepository(database),
		nil,
	), mock
}

var bookingTestColumns = []string{"id", "family_user_id", "provider_id", "service_id", "elder_id",
	"scheduled_date", "duration_minutes", "status", "total_cost", "special_instructions",
	"created_at", "updated_at"}

func bookingRow(id int, status string, scheduled time.Time, duration int, cost any) *sqlmock.Rows {
	return sqlmock.NewRows(bookingTestColumns).
		AddRow(id, 1, 5, 3, 2, scheduled, duration, status, cost, "", time.Now(), time.Now())
}

func userRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "first_name", "last_name",
		"phone", "role", "is_active", "created_at", "updated_at"}).
		AddRow(1, "jdoe", "jdoe@example.com", "Jane", "Doe", "+15550001111", "family", true, time.Now(), time.Now())
}

func providerRow(id int) *sqlmock.Rows {
	return sqlmock.NewRows(searchProviderColumns()).
		AddRow(id, 9, "individual", "Caring Hands", "", "", "", "", "", "", "", "",
			40.0, nil, true, nil, 4.5, 12, "", time.Now())
}

var serviceTestColumns = []string{"id", "provider_id", "service_type", "name", "description",
	"price", "duration_minutes", "is_active", "created_at"}

func serviceRow(id, providerID int, price any, active bool) *sqlmock.Rows {
	return sqlmock.NewRows(serviceTestColumns).
		AddRow(id, providerID, "home_care", "Home Care Visit", "", price, 60, active, time.Now())
}

func elderRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "family_profile_id", "first_name", "last_name",
		"date_of_birth", "gender", "medical_conditions", "medications", "mobility_level",
		"care_preferences", "created_at"}).
		AddRow(2, 1, "Rose", "Doe", nil, "female", "", "", "independent", "", time.Now())
}

func validCreateRequest() *entities.BookingRequest {
	return &entities.BookingRequest{
		FamilyUserID:    1,
		ProviderID:      5,
		ServiceID:       3,
		ElderID:         2,
		ScheduledDate:   "2026-03-02T09:00:00",
		DurationMinutes: 90,
	}
}

func TestComputeTotalCost(t *testing.T) {
	cost := computeTotalCost(floatp(40), 90)
	require.NotNil(t, cost)
	assert.Equal(t, 60.0, *cost)

	cost = computeTotalCost(floatp(40), 60)
	require.NotNil(t, cost)
	assert.Equal(t, 40.0, *cost)

	cost = computeTotalCost(floatp(40), 30)
	require.NotNil(t, cost)
	assert.Equal(t, 20.0, *cost)

	assert.Nil(t, computeTotalCost(nil, 90))

	// Recomputing with the same inputs always lands on the same cost.
	a := computeTotalCost(floatp(33.5), 45)
	b := computeTotalCost(floatp(33.5), 45)
	assert.Equal(t, *a, *b)
}

func TestCreateBooking(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM users").WithArgs(1).WillReturnRows(userRow())
	mock.ExpectQuery("FROM provider_profiles").WithArgs(5).WillReturnRows(providerRow(5))
	mock.ExpectQuery("FROM services").WithArgs(3).WillReturnRows(serviceRow(3, 5, 40.0, true))
	mock.ExpectQuery("FROM elders").WithArgs(2).WillReturnRows(elderRow())
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(42, time.Now(), time.Now()))
	mock.ExpectCommit()

	detail, err := svc.CreateBooking(validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, 42, detail.ID)
	assert.Equal(t, "pending", detail.Status)
	require.NotNil(t, detail.TotalCost)
	assert.Equal(t, 60.0, *detail.TotalCost)
	require.NotNil(t, detail.Service)
	assert.Equal(t, "Home Care Visit", detail.Service.Name)
	require.NotNil(t, detail.Provider)
	assert.Equal(t, "Caring Hands", detail.Provider.BusinessName)
	require.NotNil(t, detail.Elder)
	assert.Equal(t, "Rose", detail.Elder.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnpricedService(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM users").WithArgs(1).WillReturnRows(userRow())
	mock.ExpectQuery("FROM provider_profiles").WithArgs(5).WillReturnRows(providerRow(5))
	mock.ExpectQuery("FROM services").WithArgs(3).WillReturnRows(serviceRow(3, 5, nil, true))
	mock.ExpectQuery("FROM elders").WithArgs(2).WillReturnRows(elderRow())
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(43, time.Now(), time.Now()))
	mock.ExpectCommit()

	detail, err := svc.CreateBooking(validCreateRequest())
	require.NoError(t, err)
	assert.Nil(t, detail.TotalCost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingConflict(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM users").WithArgs(1).WillReturnRows(userRow())
	mock.ExpectQuery("FROM provider_profiles").WithArgs(5).WillReturnRows(providerRow(5))
	mock.ExpectQuery("FROM services").WithArgs(3).WillReturnRows(serviceRow(3, 5, 40.0, true))
	mock.ExpectQuery("FROM elders").WithArgs(2).WillReturnRows(elderRow())
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(validCreateRequest())
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingValidatesRequiredFields(t *testing.T) {
	svc, _ := newBookingService(t)

	for name, mutate := range map[string]func(*entities.BookingRequest){
		"family_user_id":   func(r *entities.BookingRequest) { r.FamilyUserID = 0 },
		"provider_id":      func(r *entities.BookingRequest) { r.ProviderID = 0 },
		"service_id":       func(r *entities.BookingRequest) { r.ServiceID = 0 },
		"elder_id":         func(r *entities.BookingRequest) { r.ElderID = 0 },
		"scheduled_date":   func(r *entities.BookingRequest) { r.ScheduledDate = "" },
		"duration_minutes": func(r *entities.BookingRequest) { r.DurationMinutes = 0 },
	} {
		req := validCreateRequest()
		mutate(req)
		_, err := svc.CreateBooking(req)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput), name)
	}
}

func TestCreateBookingRejectsBadTimestamp(t *testing.T) {
	svc, _ := newBookingService(t)

	req := validCreateRequest()
	req.ScheduledDate = "next tuesday"
	_, err := svc.CreateBooking(req)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}

func TestCreateBookingUnknownProvider(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM users").WithArgs(1).WillReturnRows(userRow())
	mock.ExpectQuery("FROM provider_profiles").WithArgs(5).
		WillReturnRows(sqlmock.NewRows(searchProviderColumns()))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(validCreateRequest())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingInactiveService(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM users").WithArgs(1).WillReturnRows(userRow())
	mock.ExpectQuery("FROM provider_profiles").WithArgs(5).WillReturnRows(providerRow(5))
	mock.ExpectQuery("FROM services").WithArgs(3).WillReturnRows(serviceRow(3, 5, 40.0, false))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(validCreateRequest())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingServiceBelongsToOtherProvider(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM users").WithArgs(1).WillReturnRows(userRow())
	mock.ExpectQuery("FROM provider_profiles").WithArgs(5).WillReturnRows(providerRow(5))
	mock.ExpectQuery("FROM services").WithArgs(3).WillReturnRows(serviceRow(3, 8, 40.0, true))
	mock.ExpectQuery("FROM elders").WithArgs(2).WillReturnRows(elderRow())
	mock.ExpectRollback()

	_, err := svc.CreateBooking(validCreateRequest())
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidReference))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatus(t *testing.T) {
	svc, mock := newBookingService(t)
	scheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(42).
		WillReturnRows(bookingRow(42, "pending", scheduled, 60, 40.0))
	mock.ExpectQuery("UPDATE bookings").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	resp, err := svc.UpdateBookingStatus(42, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatusInvalidTransition(t *testing.T) {
	svc, mock := newBookingService(t)
	scheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// A terminal booking rejects every edge; nothing is written.
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(42).
		WillReturnRows(bookingRow(42, "completed", scheduled, 60, 40.0))
	mock.ExpectRollback()

	_, err := svc.UpdateBookingStatus(42, "confirmed")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatusSkipsLifecycleStages(t *testing.T) {
	svc, mock := newBookingService(t)
	scheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(42).
		WillReturnRows(bookingRow(42, "pending", scheduled, 60, 40.0))
	mock.ExpectRollback()

	_, err := svc.UpdateBookingStatus(42, "completed")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatusUnknownStatus(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.UpdateBookingStatus(42, "archived")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}

func TestCancelBooking(t *testing.T) {
	svc, mock := newBookingService(t)
	scheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(42).
		WillReturnRows(bookingRow(42, "confirmed", scheduled, 60, 40.0))
	mock.ExpectQuery("UPDATE bookings").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	require.NoError(t, svc.CancelBooking(42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelCompletedBookingRefused(t *testing.T) {
	svc, mock := newBookingService(t)
	scheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(42).
		WillReturnRows(bookingRow(42, "completed", scheduled, 60, 40.0))
	mock.ExpectRollback()

	err := svc.CancelBooking(42)
	assert.True(t, apperr.IsKind(err, apperr.KindAlreadyTerminal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelCancelledBookingIsIdempotent(t *testing.T) {
	svc, mock := newBookingService(t)
	scheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(42).
		WillReturnRows(bookingRow(42, "cancelled", scheduled, 60, 40.0))
	mock.ExpectQuery("UPDATE bookings").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	assert.NoError(t, svc.CancelBooking(42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelUnknownBooking(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(42).
		WillReturnRows(sqlmock.NewRows(bookingTestColumns))
	mock.ExpectRollback()

	err := svc.CancelBooking(42)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingRecomputesCostOnDurationChange(t *testing.T) {
	svc, mock := newBookingService(t)
	scheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(42).
		WillReturnRows(bookingRow(42, "pending", scheduled, 60, 40.0))
	mock.ExpectQuery("FROM services").WithArgs(3).WillReturnRows(serviceRow(3, 5, 40.0, true))
	mock.ExpectQuery("UPDATE bookings").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	duration := 90
	resp, err := svc.UpdateBooking(42, &entities.BookingUpdateRequest{DurationMinutes: &duration})
	require.NoError(t, err)
	assert.Equal(t, 90, resp.DurationMinutes)
	require.NotNil(t, resp.TotalCost)
	assert.Equal(t, 60.0, *resp.TotalCost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingRejectedAfterConfirmedStage(t *testing.T) {
	svc, mock := newBookingService(t)
	scheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(42).
		WillReturnRows(bookingRow(42, "in_progress", scheduled, 60, 40.0))
	mock.ExpectRollback()

	duration := 90
	_, err := svc.UpdateBooking(42, &entities.BookingUpdateRequest{DurationMinutes: &duration})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpcomingBookingsValidatesUserType(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.UpcomingBookings(0, "family")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))

	_, err = svc.UpcomingBookings(1, "")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))

	_, err = svc.UpcomingBookings(1, "admin")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}

func TestListBookingsValidatesFilter(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.ListBookings(entities.BookingFilter{Status: "archived"})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))

	_, err = svc.ListBookings(entities.BookingFilter{StartDate: "not-a-date"})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}
