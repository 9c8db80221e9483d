package api

import (
	"encoding/json"
	"log"
	"net/http"

	"eldercare/internal/entities"
	apperr "eldercare/internal/errors"
)

// Service contracts the handlers depend on. The concrete
// implementations live in internal/service.

type BookingService interface {
	CreateBooking(req *entities.BookingRequest) (*entities.BookingDetail, error)
	GetBooking(id int) (*entities.BookingDetail, error)
	ListBookings(f entities.BookingFilter) (*entities.BookingsList, error)
	UpdateBooking(id int, req *entities.BookingUpdateRequest) (*entities.BookingResponse, error)
	UpdateBookingStatus(id int, status string) (*entities.BookingResponse, error)
	CancelBooking(id int) error
	UpcomingBookings(userID int, userType string) ([]entities.BookingDetail, error)
}

type ProviderService interface {
	ListProviders(f entities.ProviderFilter) (*entities.ProvidersList, error)
	GetProvider(id int) (*entities.ProviderDetail, error)
	ListReviews(providerID, page, perPage int) (*entities.ReviewsList, error)
	VerifyProvider(id int) error
}

type MatchingService interface {
	SearchProviders(c entities.SearchCriteria) (*entities.SearchResult, error)
}

type AvailabilityService interface {
	ProviderAvailability(providerID int, startDate, endDate string) (*entities.AvailabilityResponse, error)
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors to their HTTP status; anything outside
// the taxonomy is an internal failure and its detail stays out of the
// response.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		writeJSON(w, status, ErrorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
