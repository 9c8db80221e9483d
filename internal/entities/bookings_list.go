package entities

type BookingsList struct {
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PerPage  int             `json:"per_page"`
	Pages    int             `json:"pages"`
	Bookings []BookingDetail `json:"bookings"`
}

// BookingFilter narrows a bookings listing. Zero values mean "no
// filter"; date bounds arrive as naive ISO strings.
type BookingFilter struct {
	FamilyUserID int
	ProviderID   int
	Status       string
	StartDate    string
	EndDate      string
	Page         int
	PerPage      int
}
