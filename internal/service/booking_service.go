package service

import (
	"fmt"
	"log"
	"time"

	"eldercare/internal/db"
	"eldercare/internal/entities"
	apperr "eldercare/internal/errors"
	"eldercare/internal/repository"
	"eldercare/internal/utils"
)

const (
	defaultPerPage  = 10
	upcomingLimit   = 10
	userTypeFamily  = "family"
	userTypeProvide = "provider"
)

type BookingService struct {
	Repo   *repository.BookingRepository
	Dir    *repository.DirectoryRepository
	Sender *SenderService
}

func NewBookingService(repo *repository.BookingRepository, dir *repository.DirectoryRepository, sender *SenderService) *BookingService {
	return &BookingService{Repo: repo, Dir: dir, Sender: sender}
}

// computeTotalCost prices a booking at the service's hourly rate.
// Services without a price yield no cost.
func computeTotalCost(price *float64, durationMinutes int) *float64 {
	if price == nil {
		return nil
	}
	cost := *price * (float64(durationMinutes) / 60)
	return &cost
}

// CreateBooking validates every referenced record, runs the conflict
// check, and inserts the booking as pending, all within one
// transaction. The returned detail carries snapshots of the service,
// provider, and elder the booking references.
func (s *BookingService) CreateBooking(req *entities.BookingRequest) (*entities.BookingDetail, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}
	scheduledAt, err := utils.ParseTimestamp(req.ScheduledDate)
	if err != nil {
		return nil, apperr.InvalidInput("scheduled_date", err.Error())
	}

	tx, err := s.Repo.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	user, err := s.Dir.GetUser(tx, req.FamilyUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("family user", req.FamilyUserID)
	}

	provider, err := s.Dir.GetProvider(tx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, apperr.NotFound("provider", req.ProviderID)
	}

	svc, err := s.Dir.GetService(tx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil || !svc.IsActive {
		return nil, &apperr.Error{
			Kind:    apperr.KindNotFound,
			Field:   "service",
			Message: fmt.Sprintf("service %d not found or inactive", req.ServiceID),
		}
	}

	elder, err := s.Dir.GetElder(tx, req.ElderID)
	if err != nil {
		return nil, err
	}
	if elder == nil {
		return nil, apperr.NotFound("elder", req.ElderID)
	}

	if svc.ProviderID != req.ProviderID {
		return nil, apperr.InvalidReference("service does not belong to the specified provider")
	}

	conflict, err := s.Repo.HasConflict(tx, req.ProviderID, scheduledAt)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperr.Conflict("provider is not available at the requested time")
	}

	now := time.Now()
	booking := &db.Booking{
		FamilyUserID:        req.FamilyUserID,
		ProviderID:          req.ProviderID,
		ServiceID:           req.ServiceID,
		ElderID:             req.ElderID,
		ScheduledDate:       scheduledAt,
		DurationMinutes:     req.DurationMinutes,
		Status:              db.StatusPending,
		TotalCost:           computeTotalCost(svc.Price, req.DurationMinutes),
		SpecialInstructions: req.SpecialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.Repo.InsertBooking(tx, booking); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("provider is not available at the requested time")
		}
		log.Printf("Error inserting booking: %v", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing booking: %w", err)
	}

	detail := &entities.BookingDetail{
		BookingResponse: toBookingResponse(booking),
		Service:         toServiceResponse(svc),
		Provider:        toProviderSummary(provider),
		Elder:           toElderSummary(elder),
	}
	s.notify(user, detail)
	return detail, nil
}

func validateBookingRequest(req *entities.BookingRequest) error {
	required := []struct {
		name string
		ok   bool
	}{
		{"family_user_id", req.FamilyUserID != 0},
		{"provider_id", req.ProviderID != 0},
		{"service_id", req.ServiceID != 0},
		{"elder_id", req.ElderID != 0},
		{"scheduled_date", req.ScheduledDate != ""},
		{"duration_minutes", req.DurationMinutes > 0},
	}
	for _, f := range required {
		if !f.ok {
			return apperr.InvalidInput(f.name, "missing required field: "+f.name)
		}
	}
	return nil
}

// GetBooking returns the booking with full snapshots of everything it
// references, including the family user.
func (s *BookingService) GetBooking(id int) (*entities.BookingDetail, error) {
	booking, err := s.Repo.GetBooking(s.Repo.DB, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("booking", id)
	}
	return s.enrich(booking, true)
}

// UpdateBooking applies a details update: scheduled time, duration, or
// instructions. Allowed only while the booking is pending or
// confirmed; a duration change recomputes the total cost.
func (s *BookingService) UpdateBooking(id int, req *entities.BookingUpdateRequest) (*entities.BookingResponse, error) {
	tx, err := s.Repo.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	booking, err := s.Repo.GetBookingForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("booking", id)
	}
	if booking.Status != db.StatusPending && booking.Status != db.StatusConfirmed {
		return nil, apperr.InvalidInput("status",
			fmt.Sprintf("booking details can only be updated while pending or confirmed, not %s", booking.Status))
	}

	if req.ScheduledDate != nil {
		scheduledAt, err := utils.ParseTimestamp(*req.ScheduledDate)
		if err != nil {
			return nil, apperr.InvalidInput("scheduled_date", err.Error())
		}
		booking.ScheduledDate = scheduledAt
	}
	if req.SpecialInstructions != nil {
		booking.SpecialInstructions = *req.SpecialInstructions
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, apperr.InvalidInput("duration_minutes", "duration_minutes must be positive")
		}
		booking.DurationMinutes = *req.DurationMinutes
		svc, err := s.Dir.GetService(tx, booking.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc != nil {
			booking.TotalCost = computeTotalCost(svc.Price, booking.DurationMinutes)
		}
	}

	if err := s.Repo.UpdateBooking(tx, booking); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("provider is not available at the requested time")
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing booking update: %w", err)
	}

	resp := toBookingResponse(booking)
	return &resp, nil
}

// UpdateBookingStatus moves the booking along the lifecycle. An edge
// missing from the transition table fails with InvalidTransition and
// leaves the stored state untouched.
func (s *BookingService) UpdateBookingStatus(id int, rawStatus string) (*entities.BookingResponse, error) {
	newStatus, err := db.ParseBookingStatus(rawStatus)
	if err != nil {
		return nil, apperr.InvalidInput("status", "invalid status value")
	}

	tx, err := s.Repo.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	booking, err := s.Repo.GetBookingForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("booking", id)
	}
	if !booking.Status.CanTransitionTo(newStatus) {
		return nil, apperr.InvalidTransition(booking.Status.String(), newStatus.String())
	}

	booking.Status = newStatus
	if err := s.Repo.UpdateBooking(tx, booking); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("provider is not available at the requested time")
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing status update: %w", err)
	}

	s.notifyByID(booking)
	resp := toBookingResponse(booking)
	return &resp, nil
}

// CancelBooking is the direct cancellation operation. It refuses only
// completed bookings; cancelling a cancelled booking is a no-op.
// Bookings are never deleted.
func (s *BookingService) CancelBooking(id int) error {
	tx, err := s.Repo.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	booking, err := s.Repo.GetBookingForUpdate(tx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return apperr.NotFound("booking", id)
	}
	if booking.Status == db.StatusCompleted {
		return apperr.AlreadyTerminal(booking.Status.String())
	}

	booking.Status = db.StatusCancelled
	if err := s.Repo.UpdateBooking(tx, booking); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing cancellation: %w", err)
	}

	s.notifyByID(booking)
	return nil
}

// ListBookings returns one filtered page of bookings, each with
// service, provider, and elder snapshots, newest scheduled first.
func (s *BookingService) ListBookings(f entities.BookingFilter) (*entities.BookingsList, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultPerPage
	}
	if f.Status != "" {
		if _, err := db.ParseBookingStatus(f.Status); err != nil {
			return nil, apperr.InvalidInput("status", "invalid status value")
		}
	}
	var start, end *time.Time
	if f.StartDate != "" {
		t, err := utils.ParseTimestamp(f.StartDate)
		if err != nil {
			return nil, apperr.InvalidInput("start_date", err.Error())
		}
		start = &t
	}
	if f.EndDate != "" {
		t, err := utils.ParseTimestamp(f.EndDate)
		if err != nil {
			return nil, apperr.InvalidInput("end_date", err.Error())
		}
		end = &t
	}

	bookings, total, err := s.Repo.ListBookings(f, start, end)
	if err != nil {
		return nil, err
	}

	list := &entities.BookingsList{
		Total:    total,
		Page:     f.Page,
		PerPage:  f.PerPage,
		Pages:    int((total + int64(f.PerPage) - 1) / int64(f.PerPage)),
		Bookings: []entities.BookingDetail{},
	}
	for i := range bookings {
		detail, err := s.enrich(&bookings[i], false)
		if err != nil {
			return nil, err
		}
		list.Bookings = append(list.Bookings, *detail)
	}
	return list, nil
}

// UpcomingBookings returns the next pending/confirmed bookings for a
// family user or a provider, soonest first.
func (s *BookingService) UpcomingBookings(userID int, userType string) ([]entities.BookingDetail, error) {
	if userID == 0 || userType == "" {
		return nil, apperr.InvalidInput("user_id", "user_id and user_type are required")
	}
	if userType != userTypeFamily && userType != userTypeProvide {
		return nil, apperr.InvalidInput("user_type", `invalid user_type, must be "family" or "provider"`)
	}

	bookings, err := s.Repo.UpcomingBookings(userID, userType, time.Now(), upcomingLimit)
	if err != nil {
		return nil, err
	}

	result := []entities.BookingDetail{}
	for i := range bookings {
		detail, err := s.enrich(&bookings[i], userType == userTypeProvide)
		if err != nil {
			return nil, err
		}
		result = append(result, *detail)
	}
	return result, nil
}

// enrich attaches snapshots of the records the booking references.
// Referenced rows can be missing only if records were removed out of
// band; the snapshot is simply omitted then.
func (s *BookingService) enrich(b *db.Booking, withFamily bool) (*entities.BookingDetail, error) {
	detail := &entities.BookingDetail{BookingResponse: toBookingResponse(b)}

	svc, err := s.Dir.GetService(s.Dir.DB, b.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc != nil {
		detail.Service = toServiceResponse(svc)
	}

	provider, err := s.Dir.GetProvider(s.Dir.DB, b.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		detail.Provider = toProviderSummary(provider)
	}

	elder, err := s.Dir.GetElder(s.Dir.DB, b.ElderID)
	if err != nil {
		return nil, err
	}
	if elder != nil {
		detail.Elder = toElderSummary(elder)
	}

	if withFamily {
		user, err := s.Dir.GetUser(s.Dir.DB, b.FamilyUserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			detail.FamilyUser = &entities.FamilyUserDetail{
				ID:        user.ID,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Email:     user.Email,
				Phone:     user.Phone,
			}
		}
	}
	return detail, nil
}

// notifyByID loads what the sender needs and fires the status
// notification. Failures are logged, never surfaced.
func (s *BookingService) notifyByID(b *db.Booking) {
	if s.Sender == nil {
		return
	}
	detail, err := s.enrich(b, false)
	if err != nil {
		log.Printf("Could not build notification for booking %d: %v", b.ID, err)
		return
	}
	user, err := s.Dir.GetUser(s.Dir.DB, b.FamilyUserID)
	if err != nil || user == nil {
		log.Printf("Could not load family user for booking %d notification", b.ID)
		return
	}
	s.notify(user, detail)
}

func (s *BookingService) notify(user *db.User, detail *entities.BookingDetail) {
	if s.Sender == nil {
		return
	}
	data := entities.BookingEmailData{
		UserName:           user.FirstName + " " + user.LastName,
		BookingID:          detail.ID,
		Status:             detail.Status,
		ScheduledFormatted: detail.ScheduledDate.Format("02 Jan 2006 15:04"),
		DurationMinutes:    detail.DurationMinutes,
		CurrentYear:        time.Now().Year(),
	}
	if detail.Service != nil {
		data.ServiceName = detail.Service.Name
	}
	if detail.Provider != nil {
		data.ProviderName = detail.Provider.BusinessName
	}
	if detail.Elder != nil {
		data.ElderName = detail.Elder.FirstName + " " + detail.Elder.LastName
	}
	s.Sender.SendBookingEmail(user.Email, data)
	s.Sender.SendBookingSMS(user.Phone, data)
}

func toBookingResponse(b *db.Booking) entities.BookingResponse {
	return entities.BookingResponse{
		ID:                  b.ID,
		FamilyUserID:        b.FamilyUserID,
		ProviderID:          b.ProviderID,
		ServiceID:           b.ServiceID,
		ElderID:             b.ElderID,
		ScheduledDate:       b.ScheduledDate,
		DurationMinutes:     b.DurationMinutes,
		Status:              b.Status.String(),
		TotalCost:           b.TotalCost,
		SpecialInstructions: b.SpecialInstructions,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

func toServiceResponse(s *db.Service) *entities.ServiceResponse {
	return &entities.ServiceResponse{
		ID:              s.ID,
		ProviderID:      s.ProviderID,
		ServiceType:     string(s.ServiceType),
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
	}
}

func toProviderSummary(p *db.ProviderProfile) *entities.ProviderSummary {
	return &entities.ProviderSummary{
		ID:           p.ID,
		BusinessName: p.BusinessName,
		ProviderType: string(p.ProviderType),
		Rating:       p.Rating,
		IsVerified:   p.IsVerified,
	}
}

func toElderSummary(e *db.Elder) *entities.ElderSummary {
	return &entities.ElderSummary{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
	}
}
