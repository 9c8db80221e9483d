package entities

import "time"

// BookingRequest is a validated booking-create request. ScheduledDate
// arrives as a naive ISO-8601 string and is parsed by the engine.
type BookingRequest struct {
	FamilyUserID        int    `json:"family_user_id"`
	ProviderID          int    `json:"provider_id"`
	ServiceID           int    `json:"service_id"`
	ElderID             int    `json:"elder_id"`
	ScheduledDate       string `json:"scheduled_date"`
	DurationMinutes     int    `json:"duration_minutes"`
	SpecialInstructions string `json:"special_instructions"`
}

// BookingUpdateRequest carries the fields the details update may
// touch. Nil means "leave unchanged".
type BookingUpdateRequest struct {
	ScheduledDate       *string `json:"scheduled_date"`
	DurationMinutes     *int    `json:"duration_minutes"`
	SpecialInstructions *string `json:"special_instructions"`
}

type BookingResponse struct {
	ID                  int       `json:"id"`
	FamilyUserID        int       `json:"family_user_id"`
	ProviderID          int       `json:"provider_id"`
	ServiceID           int       `json:"service_id"`
	ElderID             int       `json:"elder_id"`
	ScheduledDate       time.Time `json:"scheduled_date"`
	DurationMinutes     int       `json:"duration_minutes"`
	Status              string    `json:"status"`
	TotalCost           *float64  `json:"total_cost"`
	SpecialInstructions string    `json:"special_instructions"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// BookingDetail is a booking enriched with snapshots of the records it
// references, as returned by create and get.
type BookingDetail struct {
	BookingResponse
	Service    *ServiceResponse  `json:"service,omitempty"`
	Provider   *ProviderSummary  `json:"provider,omitempty"`
	Elder      *ElderSummary     `json:"elder,omitempty"`
	FamilyUser *FamilyUserDetail `json:"family_user,omitempty"`
}

type ServiceResponse struct {
	ID              int      `json:"id"`
	ProviderID      int      `json:"provider_id"`
	ServiceType     string   `json:"service_type"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           *float64 `json:"price"`
	DurationMinutes int      `json:"duration_minutes"`
	IsActive        bool     `json:"is_active"`
}

type ProviderSummary struct {
	ID           int     `json:"id"`
	BusinessName string  `json:"business_name"`
	ProviderType string  `json:"provider_type"`
	Rating       float64 `json:"rating"`
	IsVerified   bool    `json:"is_verified"`
}

type ElderSummary struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type FamilyUserDetail struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}
