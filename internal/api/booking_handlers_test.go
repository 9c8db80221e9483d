package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eldercare/internal/entities"
	apperr "eldercare/internal/errors"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBookingService returns canned results so handler tests exercise
// only routing, decoding, and status mapping.
type stubBookingService struct {
	createErr error
	getErr    error
	statusErr error
	cancelErr error
	detail    *entities.BookingDetail
	response  *entities.BookingResponse
}

func (s *stubBookingService) CreateBooking(req *entities.BookingRequest) (*entities.BookingDetail, error) {
	return s.detail, s.createErr
}

func (s *stubBookingService) GetBooking(id int) (*entities.BookingDetail, error) {
	return s.detail, s.getErr
}

func (s *stubBookingService) ListBookings(f entities.BookingFilter) (*entities.BookingsList, error) {
	return &entities.BookingsList{Page: f.Page, PerPage: f.PerPage, Bookings: []entities.BookingDetail{}}, nil
}

func (s *stubBookingService) UpdateBooking(id int, req *entities.BookingUpdateRequest) (*entities.BookingResponse, error) {
	return s.response, nil
}

func (s *stubBookingService) UpdateBookingStatus(id int, status string) (*entities.BookingResponse, error) {
	return s.response, s.statusErr
}

func (s *stubBookingService) CancelBooking(id int) error {
	return s.cancelErr
}

func (s *stubBookingService) UpcomingBookings(userID int, userType string) ([]entities.BookingDetail, error) {
	return []entities.BookingDetail{}, nil
}

func bookingRouter(svc BookingService) *mux.Router {
	h := NewBookingHandler(svc)
	r := mux.NewRouter()
	r.HandleFunc("/api/bookings", h.CreateBooking).Methods("POST")
	r.HandleFunc("/api/bookings", h.ListBookings).Methods("GET")
	r.HandleFunc("/api/bookings/upcoming", h.UpcomingBookings).Methods("GET")
	r.HandleFunc("/api/bookings/{id}", h.GetBooking).Methods("GET")
	r.HandleFunc("/api/bookings/{id}", h.CancelBooking).Methods("DELETE")
	r.HandleFunc("/api/bookings/{id}/status", h.UpdateBookingStatus).Methods("PUT")
	return r
}

func sampleDetail() *entities.BookingDetail {
	return &entities.BookingDetail{
		BookingResponse: entities.BookingResponse{
			ID:            42,
			FamilyUserID:  1,
			ProviderID:    5,
			ServiceID:     3,
			ElderID:       2,
			ScheduledDate: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			Status:        "pending",
		},
	}
}

func TestCreateBookingHandler(t *testing.T) {
	stub := &stubBookingService{detail: sampleDetail()}
	router := bookingRouter(stub)

	body, _ := json.Marshal(entities.BookingRequest{
		FamilyUserID: 1, ProviderID: 5, ServiceID: 3, ElderID: 2,
		ScheduledDate: "2026-03-02T09:00:00", DurationMinutes: 60,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got entities.BookingDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 42, got.ID)
	assert.Equal(t, "pending", got.Status)
}

func TestCreateBookingHandlerRejectsMalformedBody(t *testing.T) {
	router := bookingRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookingHandlerConflict(t *testing.T) {
	stub := &stubBookingService{createErr: apperr.Conflict("provider is not available at the requested time")}
	router := bookingRouter(stub)

	body, _ := json.Marshal(entities.BookingRequest{FamilyUserID: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "provider is not available at the requested time", resp.Error)
}

func TestGetBookingHandlerNotFound(t *testing.T) {
	stub := &stubBookingService{getErr: apperr.NotFound("booking", 99)}
	router := bookingRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBookingHandlerRejectsNonNumericID(t *testing.T) {
	router := bookingRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateBookingStatusHandler(t *testing.T) {
	resp := &entities.BookingResponse{ID: 42, Status: "confirmed"}
	stub := &stubBookingService{response: resp}
	router := bookingRouter(stub)

	body, _ := json.Marshal(StatusUpdateRequest{Status: "confirmed"})
	req := httptest.NewRequest(http.MethodPut, "/api/bookings/42/status", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateBookingStatusHandlerRequiresStatus(t *testing.T) {
	router := bookingRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodPut, "/api/bookings/42/status", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateBookingStatusHandlerInvalidTransition(t *testing.T) {
	stub := &stubBookingService{statusErr: apperr.InvalidTransition("completed", "confirmed")}
	router := bookingRouter(stub)

	body, _ := json.Marshal(StatusUpdateRequest{Status: "confirmed"})
	req := httptest.NewRequest(http.MethodPut, "/api/bookings/42/status", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid status transition from completed to confirmed", resp.Error)
}

func TestCancelBookingHandler(t *testing.T) {
	router := bookingRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/bookings/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Booking cancelled successfully", resp.Message)
}

func TestCancelBookingHandlerAlreadyTerminal(t *testing.T) {
	stub := &stubBookingService{cancelErr: apperr.AlreadyTerminal("completed")}
	router := bookingRouter(stub)

	req := httptest.NewRequest(http.MethodDelete, "/api/bookings/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternalErrorsStayGeneric(t *testing.T) {
	stub := &stubBookingService{getErr: fmt.Errorf("driver: bad connection")}
	router := bookingRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
}
