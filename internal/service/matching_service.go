package service

import (
	"sort"

	"eldercare/internal/db"
	"eldercare/internal/entities"
	"eldercare/internal/repository"
)

// Match score weights. The total is capped at 100.
const (
	verifiedScore    = 20.0
	ratingWeight     = 25.0
	serviceWeight    = 30.0
	budgetScore      = 15.0
	manyReviewsScore = 10.0
	someReviewsScore = 5.0
	manyReviewsAbove = 10
	someReviewsAbove = 5
	maxMatchScore    = 100.0
)

type MatchingService struct {
	Providers *repository.ProviderRepository
}

func NewMatchingService(providers *repository.ProviderRepository) *MatchingService {
	return &MatchingService{Providers: providers}
}

// MatchScore rates how well a provider fits the search criteria, in
// [0, 100]. activeTypes are the service types the provider actively
// offers. An empty wanted-services list skips the service term rather
// than dividing by zero.
func MatchScore(p *db.ProviderProfile, activeTypes []string, c entities.SearchCriteria) float64 {
	score := 0.0

	if p.IsVerified {
		score += verifiedScore
	}

	score += (p.Rating / 5.0) * ratingWeight

	if len(c.Services) > 0 {
		offered := make(map[string]bool, len(activeTypes))
		for _, t := range activeTypes {
			offered[t] = true
		}
		matched := make(map[string]bool)
		for _, wanted := range c.Services {
			if offered[wanted] {
				matched[wanted] = true
			}
		}
		score += float64(len(matched)) / float64(len(c.Services)) * serviceWeight
	}

	if c.BudgetRange.MaxHourly != nil && p.HourlyRate != nil && *p.HourlyRate <= *c.BudgetRange.MaxHourly {
		score += budgetScore
	}

	if p.TotalReviews > manyReviewsAbove {
		score += manyReviewsScore
	} else if p.TotalReviews > someReviewsAbove {
		score += someReviewsScore
	}

	if score > maxMatchScore {
		score = maxMatchScore
	}
	return score
}

// SearchProviders runs the structured search, scores every match, and
// returns them ordered by descending score. The sort is stable, so
// equal scores keep the repository's ordering.
func (s *MatchingService) SearchProviders(c entities.SearchCriteria) (*entities.SearchResult, error) {
	// Unknown service names never match anything in the database, so
	// they are dropped from the query but still count against the
	// score's wanted-set denominator.
	queryCriteria := c
	queryCriteria.Services = nil
	for _, raw := range c.Services {
		if db.ServiceType(raw).IsValid() {
			queryCriteria.Services = append(queryCriteria.Services, raw)
		}
	}

	providers, err := s.Providers.SearchProviders(queryCriteria)
	if err != nil {
		return nil, err
	}

	results := []entities.ProviderResult{}
	for i := range providers {
		p := &providers[i]
		services, err := s.Providers.ActiveServices(p.ID)
		if err != nil {
			return nil, err
		}
		result := toProviderResult(p, services)
		result.MatchScore = MatchScore(p, activeServiceTypes(services), c)
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	return &entities.SearchResult{Providers: results, TotalFound: len(results)}, nil
}

func activeServiceTypes(services []db.Service) []string {
	types := make([]string, 0, len(services))
	for _, svc := range services {
		types = append(types, string(svc.ServiceType))
	}
	return types
}

func toProviderResult(p *db.ProviderProfile, services []db.Service) entities.ProviderResult {
	result := entities.ProviderResult{
		ID:                   p.ID,
		UserID:               p.UserID,
		ProviderType:         string(p.ProviderType),
		BusinessName:         p.BusinessName,
		Description:          p.Description,
		City:                 p.City,
		State:                p.State,
		ZipCode:              p.ZipCode,
		HourlyRate:           p.HourlyRate,
		DailyRate:            p.DailyRate,
		IsVerified:           p.IsVerified,
		Rating:               p.Rating,
		TotalReviews:         p.TotalReviews,
		Services:             []entities.ServiceResponse{},
		AvailabilitySchedule: p.AvailabilitySchedule,
	}
	for i := range services {
		result.Services = append(result.Services, *toServiceResponse(&services[i]))
	}
	return result
}
