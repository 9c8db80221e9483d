package entities

// ProviderDetail is a full provider record with its active services
// and most recent reviews.
type ProviderDetail struct {
	ProviderResult
	Address       string           `json:"address"`
	LicenseNumber string           `json:"license_number"`
	Specialties   string           `json:"specialties"`
	RecentReviews []ReviewResponse `json:"recent_reviews"`
}

type ReviewsList struct {
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
	Pages   int              `json:"pages"`
	Reviews []ReviewResponse `json:"reviews"`
}
