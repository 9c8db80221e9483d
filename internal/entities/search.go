package entities

// SearchCriteria is the structured provider search request. It is
// consumed once by the match scorer and never persisted.
type SearchCriteria struct {
	Location    LocationFilter `json:"location"`
	Services    []string       `json:"services"`
	BudgetRange BudgetRange    `json:"budget_range"`
	Preferences Preferences    `json:"preferences"`
}

type LocationFilter struct {
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type BudgetRange struct {
	MinHourly *float64 `json:"min_hourly"`
	MaxHourly *float64 `json:"max_hourly"`
}

type Preferences struct {
	VerifiedOnly bool     `json:"verified_only"`
	MinRating    *float64 `json:"min_rating"`
}

// ProviderResult is a provider row prepared for listing or search,
// with its active services attached. MatchScore is only populated by
// the search endpoint.
type ProviderResult struct {
	ID                   int               `json:"id"`
	UserID               int               `json:"user_id"`
	ProviderType         string            `json:"provider_type"`
	BusinessName         string            `json:"business_name"`
	Description          string            `json:"description"`
	City                 string            `json:"city"`
	State                string            `json:"state"`
	ZipCode              string            `json:"zip_code"`
	HourlyRate           *float64          `json:"hourly_rate"`
	DailyRate            *float64          `json:"daily_rate"`
	IsVerified           bool              `json:"is_verified"`
	Rating               float64           `json:"rating"`
	TotalReviews         int               `json:"total_reviews"`
	Services             []ServiceResponse `json:"services"`
	MatchScore           float64           `json:"match_score,omitempty"`
	AvailabilitySchedule string            `json:"-"`
}

type ProvidersList struct {
	Total     int64            `json:"total"`
	Page      int              `json:"page"`
	PerPage   int              `json:"per_page"`
	Pages     int              `json:"pages"`
	Providers []ProviderResult `json:"providers"`
}

type SearchResult struct {
	Providers  []ProviderResult `json:"providers"`
	TotalFound int              `json:"total_found"`
}

// ProviderFilter narrows the plain provider listing.
type ProviderFilter struct {
	ProviderType string
	ServiceType  string
	City         string
	State        string
	MinRating    *float64
	VerifiedOnly bool
	Page         int
	PerPage      int
}

type ReviewResponse struct {
	ID           int    `json:"id"`
	BookingID    int    `json:"booking_id"`
	ProviderID   int    `json:"provider_id"`
	FamilyUserID int    `json:"family_user_id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"created_at"`
	ReviewerName string `json:"reviewer_name"`
}
