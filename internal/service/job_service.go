package service

import (
	"fmt"
	"log"
	"time"

	"eldercare/internal/db"
	"eldercare/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteElapsedBookings moves in-progress bookings whose scheduled
// window has ended to completed, riding the in_progress -> completed
// lifecycle edge.
func (s *JobService) CompleteElapsedBookings() error {
	ids, err := s.Repo.GetInProgressPastEnd(time.Now())
	if err != nil {
		return fmt.Errorf("cron job: failed to get in-progress bookings past end: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	log.Printf("Cron Job: Found %d bookings to mark as completed. IDs: %v", len(ids), ids)
	if err := s.Repo.UpdateBookingStatuses(ids, string(db.StatusCompleted)); err != nil {
		return fmt.Errorf("cron job: failed to complete bookings: %w", err)
	}
	return nil
}

// CancelStalePendingBookings cancels pending bookings whose scheduled
// time passed before the cutoff without ever being confirmed. Bookings
// are never deleted; the sweep uses the pending -> cancelled edge.
func (s *JobService) CancelStalePendingBookings(before time.Time) error {
	ids, err := s.Repo.GetStalePending(before)
	if err != nil {
		return fmt.Errorf("cron job: failed to get stale pending bookings: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	log.Printf("Cron Job: Found %d stale pending bookings to cancel. IDs: %v", len(ids), ids)
	if err := s.Repo.UpdateBookingStatuses(ids, string(db.StatusCancelled)); err != nil {
		return fmt.Errorf("cron job: failed to cancel stale pending bookings: %w", err)
	}
	return nil
}
