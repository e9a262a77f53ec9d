package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentalcare-connect-server/internal/models"
)

// AvailabilityService manages one doctor's collection of bookable slots.
// Slot dates and times are interpreted in the clinic's local timezone.
type AvailabilityService struct {
	repo Repository
	now  func() time.Time
}

// NewAvailabilityService creates an AvailabilityService over repo.
func NewAvailabilityService(repo Repository) *AvailabilityService {
	return &AvailabilityService{repo: repo, now: time.Now}
}

// Add appends a new unbooked slot for the doctor at (date, time). It rejects
// duplicates at the same moment and slots in the past.
func (s *AvailabilityService) Add(ctx context.Context, doctorID, date, tm string) (*models.TimeSlot, error) {
	if _, err := s.repo.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	slotTime, err := time.ParseInLocation(models.SlotDateTimeLayout, date+" "+tm, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s", ErrInvalidSlotTime, date, tm)
	}
	if slotTime.Before(s.now()) {
		return nil, ErrPastSlot
	}

	if _, err := s.repo.FindSlot(ctx, doctorID, date, tm); err == nil {
		return nil, ErrDuplicateSlot
	} else if !errors.Is(err, ErrSlotNotFound) {
		return nil, err
	}

	slot := &models.TimeSlot{DoctorID: doctorID, Date: date, Time: tm}
	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// BulkAdd applies Add for every time on the given date, skipping times that
// already exist or are in the past. Partial success is normal; the returned
// count is how many slots were actually created.
func (s *AvailabilityService) BulkAdd(ctx context.Context, doctorID, date string, times []string) (int, error) {
	added := 0
	for _, tm := range times {
		_, err := s.Add(ctx, doctorID, date, tm)
		switch {
		case err == nil:
			added++
		case errors.Is(err, ErrDuplicateSlot), errors.Is(err, ErrPastSlot):
			continue
		default:
			return added, err
		}
	}
	return added, nil
}

// Remove deletes an unbooked slot. A booked slot must first be released by
// cancelling its appointment.
func (s *AvailabilityService) Remove(ctx context.Context, doctorID, slotID string) error {
	slot, err := s.repo.GetSlot(ctx, doctorID, slotID)
	if err != nil {
		return err
	}
	if slot.IsBooked {
		return ErrSlotInUse
	}
	return s.repo.DeleteSlot(ctx, doctorID, slotID)
}

// List returns the doctor's slots without filtering; callers narrow down to
// booked or future slots as needed.
func (s *AvailabilityService) List(ctx context.Context, doctorID string) ([]models.TimeSlot, error) {
	if _, err := s.repo.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.ListSlots(ctx, doctorID)
}
