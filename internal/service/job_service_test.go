package service

import (
	"testing"
	"time"

	"eldercare/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJobService(t *testing.T) (*JobService, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewJobService(repository.NewJobRepository(database)), mock
}

func TestCompleteElapsedBookings(t *testing.T) {
	svc, mock := newJobService(t)

	mock.ExpectQuery("status = 'in_progress'").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4).AddRow(9))
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, svc.CompleteElapsedBookings())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteElapsedBookingsNothingToDo(t *testing.T) {
	svc, mock := newJobService(t)

	mock.ExpectQuery("status = 'in_progress'").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	require.NoError(t, svc.CompleteElapsedBookings())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelStalePendingBookings(t *testing.T) {
	svc, mock := newJobService(t)
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectQuery("status = 'pending'").WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.CancelStalePendingBookings(cutoff))
	assert.NoError(t, mock.ExpectationsWereMet())
}
