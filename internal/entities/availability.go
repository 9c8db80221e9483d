package entities

// AvailabilitySlot is one bookable window on a concrete date. Dates
// and times are naive (no zone), matching how bookings are stored.
type AvailabilitySlot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// AvailabilityResponse is the payload for a provider availability
// query. ExistingBookings lists the provider's confirmed/in-progress
// bookings in the range; slots are derived from the weekly schedule
// alone and are not reduced by those bookings.
type AvailabilityResponse struct {
	ProviderID           int                `json:"provider_id"`
	AvailabilitySchedule WeeklySchedule     `json:"availability_schedule"`
	ExistingBookings     []BookingResponse  `json:"existing_bookings"`
	AvailableSlots       []AvailabilitySlot `json:"available_slots"`
}
