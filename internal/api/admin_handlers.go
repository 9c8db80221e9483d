package api

import (
	"net/http"
	"strconv"

	"eldercare/internal/entities"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Bookings  BookingService
	Providers ProviderService
}

func NewAdminHandler(bookings BookingService, providers ProviderService) *AdminHandler {
	return &AdminHandler{Bookings: bookings, Providers: providers}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entities.BookingFilter{
		FamilyUserID: intParam(q.Get("family_user_id")),
		ProviderID:   intParam(q.Get("provider_id")),
		Status:       q.Get("status"),
		StartDate:    q.Get("start_date"),
		EndDate:      q.Get("end_date"),
		Page:         intParam(q.Get("page")),
		PerPage:      intParam(q.Get("per_page")),
	}
	list, err := h.Bookings.ListBookings(filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) VerifyProvider(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid provider id"})
		return
	}
	if err := h.Providers.VerifyProvider(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Provider verified successfully"})
}
