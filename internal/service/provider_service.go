package service

import (
	"eldercare/internal/db"
	"eldercare/internal/entities"
	apperr "eldercare/internal/errors"
	"eldercare/internal/repository"
)

const recentReviewsLimit = 10

type ProviderService struct {
	Providers *repository.ProviderRepository
	Dir       *repository.DirectoryRepository
}

func NewProviderService(providers *repository.ProviderRepository, dir *repository.DirectoryRepository) *ProviderService {
	return &ProviderService{Providers: providers, Dir: dir}
}

// ListProviders returns one filtered page of providers, each with its
// active services attached.
func (s *ProviderService) ListProviders(f entities.ProviderFilter) (*entities.ProvidersList, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultPerPage
	}
	if f.ProviderType != "" && !db.ProviderType(f.ProviderType).IsValid() {
		return nil, apperr.InvalidInput("type", "invalid provider type")
	}
	if f.ServiceType != "" && !db.ServiceType(f.ServiceType).IsValid() {
		return nil, apperr.InvalidInput("service_type", "invalid service type")
	}

	providers, total, err := s.Providers.ListProviders(f)
	if err != nil {
		return nil, err
	}

	list := &entities.ProvidersList{
		Total:     total,
		Page:      f.Page,
		PerPage:   f.PerPage,
		Pages:     int((total + int64(f.PerPage) - 1) / int64(f.PerPage)),
		Providers: []entities.ProviderResult{},
	}
	for i := range providers {
		services, err := s.Providers.ActiveServices(providers[i].ID)
		if err != nil {
			return nil, err
		}
		list.Providers = append(list.Providers, toProviderResult(&providers[i], services))
	}
	return list, nil
}

// GetProvider returns the full provider record with active services
// and its most recent reviews.
func (s *ProviderService) GetProvider(id int) (*entities.ProviderDetail, error) {
	provider, err := s.Dir.GetProvider(s.Dir.DB, id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, apperr.NotFound("provider", id)
	}

	services, err := s.Providers.ActiveServices(id)
	if err != nil {
		return nil, err
	}
	reviews, _, err := s.Providers.ListReviews(id, 1, recentReviewsLimit)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []entities.ReviewResponse{}
	}

	return &entities.ProviderDetail{
		ProviderResult: toProviderResult(provider, services),
		Address:        provider.Address,
		LicenseNumber:  provider.LicenseNumber,
		Specialties:    provider.Specialties,
		RecentReviews:  reviews,
	}, nil
}

// ListReviews returns one page of the provider's reviews, newest
// first.
func (s *ProviderService) ListReviews(providerID, page, perPage int) (*entities.ReviewsList, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	reviews, total, err := s.Providers.ListReviews(providerID, page, perPage)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []entities.ReviewResponse{}
	}
	return &entities.ReviewsList{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   int((total + int64(perPage) - 1) / int64(perPage)),
		Reviews: reviews,
	}, nil
}

// VerifyProvider marks a provider verified (admin operation).
func (s *ProviderService) VerifyProvider(id int) error {
	ok, err := s.Providers.VerifyProvider(id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("provider", id)
	}
	return nil
}
