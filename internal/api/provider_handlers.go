package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"eldercare/internal/entities"

	"github.com/gorilla/mux"
)

type ProviderHandler struct {
	Service      ProviderService
	Matcher      MatchingService
	Availability AvailabilityService
}

func NewProviderHandler(svc ProviderService, matcher MatchingService, availability AvailabilityService) *ProviderHandler {
	return &ProviderHandler{Service: svc, Matcher: matcher, Availability: availability}
}

func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entities.ProviderFilter{
		ProviderType: q.Get("type"),
		ServiceType:  q.Get("service_type"),
		City:         q.Get("city"),
		State:        q.Get("state"),
		VerifiedOnly: q.Get("verified_only") == "true",
		Page:         intParam(q.Get("page")),
		PerPage:      intParam(q.Get("per_page")),
	}
	if raw := q.Get("min_rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid min_rating"})
			return
		}
		filter.MinRating = &rating
	}
	list, err := h.Service.ListProviders(filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid provider id"})
		return
	}
	provider, err := h.Service.GetProvider(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, provider)
}

func (h *ProviderHandler) SearchProviders(w http.ResponseWriter, r *http.Request) {
	var criteria entities.SearchCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	result, err := h.Matcher.SearchProviders(criteria)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ProviderHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid provider id"})
		return
	}
	q := r.URL.Query()
	availability, err := h.Availability.ProviderAvailability(id, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}

func (h *ProviderHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid provider id"})
		return
	}
	q := r.URL.Query()
	reviews, err := h.Service.ListReviews(id, intParam(q.Get("page")), intParam(q.Get("per_page")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
