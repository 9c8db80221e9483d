package service

import (
	"iter"
	"strings"
	"time"

	"eldercare/internal/entities"
	apperr "eldercare/internal/errors"
	"eldercare/internal/repository"
	"eldercare/internal/utils"
)

// Fixed midday boundaries splitting each scheduled day into a morning
// and an afternoon slot.
const (
	morningEnd     = "12:00"
	afternoonStart = "13:00"
)

type AvailabilityService struct {
	Dir      *repository.DirectoryRepository
	Bookings *repository.BookingRepository
}

func NewAvailabilityService(dir *repository.DirectoryRepository, bookings *repository.BookingRepository) *AvailabilityService {
	return &AvailabilityService{Dir: dir, Bookings: bookings}
}

// Slots yields the provider's bookable windows for each calendar day
// in the inclusive range: a morning slot from the day's start to
// 12:00 and an afternoon slot from 13:00 to the day's end, ascending
// by date. Days without a schedule entry yield nothing. The sequence
// is lazy and restartable: ranging over it again replays it from the
// start.
func Slots(schedule entities.WeeklySchedule, startDate, endDate time.Time) iter.Seq[entities.AvailabilitySlot] {
	return func(yield func(entities.AvailabilitySlot) bool) {
		for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
			window, ok := schedule[strings.ToLower(d.Weekday().String())]
			if !ok {
				continue
			}
			date := d.Format("2006-01-02")
			start := window.Start
			if start == "" {
				start = "09:00"
			}
			end := window.End
			if end == "" {
				end = "17:00"
			}
			if !yield(entities.AvailabilitySlot{Date: date, StartTime: start, EndTime: morningEnd, Available: true}) {
				return
			}
			if !yield(entities.AvailabilitySlot{Date: date, StartTime: afternoonStart, EndTime: end, Available: true}) {
				return
			}
		}
	}
}

// ProviderAvailability derives the provider's open slots for the date
// range from its weekly schedule, falling back to the default schedule
// when none is configured. The provider's confirmed/in-progress
// bookings in the range are returned alongside the slots; they are not
// subtracted from them.
func (s *AvailabilityService) ProviderAvailability(providerID int, startDate, endDate string) (*entities.AvailabilityResponse, error) {
	if startDate == "" || endDate == "" {
		return nil, apperr.InvalidInput("start_date", "start_date and end_date are required")
	}
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, apperr.InvalidInput("start_date", err.Error())
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, apperr.InvalidInput("end_date", err.Error())
	}

	provider, err := s.Dir.GetProvider(s.Dir.DB, providerID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, apperr.NotFound("provider", providerID)
	}

	schedule := entities.ParseWeeklySchedule(provider.AvailabilitySchedule)

	// Bookings anywhere on the end date count, so the range bound is
	// the end of that day.
	active, err := s.Bookings.ListActiveForProvider(providerID, start, end.Add(24*time.Hour-time.Second))
	if err != nil {
		return nil, err
	}

	resp := &entities.AvailabilityResponse{
		ProviderID:           providerID,
		AvailabilitySchedule: schedule,
		ExistingBookings:     []entities.BookingResponse{},
		AvailableSlots:       []entities.AvailabilitySlot{},
	}
	for i := range active {
		resp.ExistingBookings = append(resp.ExistingBookings, toBookingResponse(&active[i]))
	}
	for slot := range Slots(schedule, start, end) {
		resp.AvailableSlots = append(resp.AvailableSlots, slot)
	}
	return resp, nil
}
