package scheduling

import (
	"context"
	"errors"

	"dentalcare-connect-server/internal/models"
)

// BookingService is the only component that mutates slot-booking state and
// creates or transitions appointments.
type BookingService struct {
	repo   Repository
	locker Locker
}

// NewBookingService creates a BookingService over repo, guarded by locker.
func NewBookingService(repo Repository, locker Locker) *BookingService {
	return &BookingService{repo: repo, locker: locker}
}

// BookRequest carries everything needed to book a slot. PatientName and
// DoctorName are stored on the appointment as snapshots.
type BookRequest struct {
	PatientID   string
	PatientName string
	DoctorID    string
	DoctorName  string
	Date        string
	Time        string
	Comments    string
}

// Book reserves the doctor's slot at (date, time) and records the matching
// appointment. The slot mutation and the appointment insert commit together
// or not at all, and the whole sequence runs under the doctor's lock so two
// concurrent calls cannot both pass the isBooked check.
func (s *BookingService) Book(ctx context.Context, req BookRequest) (*models.Appointment, error) {
	if _, err := s.repo.GetDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	var appt *models.Appointment
	err := s.locker.WithDoctorLock(ctx, req.DoctorID, func(lockCtx context.Context) error {
		return s.repo.Transact(lockCtx, func(r Repository) error {
			slot, err := r.FindSlot(lockCtx, req.DoctorID, req.Date, req.Time)
			if err != nil {
				return err
			}
			if slot.IsBooked {
				return ErrSlotAlreadyBooked
			}

			patientID := req.PatientID
			slot.IsBooked = true
			slot.PatientID = &patientID
			if err := r.SaveSlot(lockCtx, slot); err != nil {
				return err
			}

			appt = &models.Appointment{
				PatientID:   req.PatientID,
				PatientName: req.PatientName,
				DoctorID:    req.DoctorID,
				DoctorName:  req.DoctorName,
				Date:        req.Date,
				Time:        req.Time,
				Status:      models.StatusBooked,
				Comments:    req.Comments,
			}
			return r.CreateAppointment(lockCtx, appt)
		})
	})
	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, ErrDoctorBusy
		}
		return nil, err
	}
	return appt, nil
}

// UpdateStatus transitions an appointment out of the booked state.
// Cancelling releases the paired slot if it still exists; the release is
// best-effort, so a slot the doctor deleted in the meantime does not block
// the cancellation. Completing leaves the slot consumed as history. All
// other transitions are rejected.
func (s *BookingService) UpdateStatus(ctx context.Context, appointmentID string, status models.AppointmentStatus) (*models.Appointment, error) {
	if status != models.StatusCancelled && status != models.StatusCompleted {
		return nil, ErrIllegalTransition
	}

	// This read only resolves the doctor whose lock to take; the
	// authoritative status check happens again inside the transaction, so
	// two concurrent transitions cannot both pass it.
	appt, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	err = s.locker.WithDoctorLock(ctx, appt.DoctorID, func(lockCtx context.Context) error {
		return s.repo.Transact(lockCtx, func(r Repository) error {
			appt, err = r.GetAppointment(lockCtx, appointmentID)
			if err != nil {
				return err
			}
			if appt.Status != models.StatusBooked {
				return ErrIllegalTransition
			}

			appt.Status = status
			if err := r.SaveAppointment(lockCtx, appt); err != nil {
				return err
			}
			if status == models.StatusCompleted {
				return nil
			}

			slot, err := r.FindSlot(lockCtx, appt.DoctorID, appt.Date, appt.Time)
			if errors.Is(err, ErrSlotNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if slot.PatientID == nil || *slot.PatientID != appt.PatientID {
				return nil
			}
			slot.IsBooked = false
			slot.PatientID = nil
			return r.SaveSlot(lockCtx, slot)
		})
	})
	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, ErrDoctorBusy
		}
		return nil, err
	}

	return appt, nil
}

// Get fetches one appointment by ID.
func (s *BookingService) Get(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return s.repo.GetAppointment(ctx, appointmentID)
}

// ForPatient lists a patient's appointments, past and present.
func (s *BookingService) ForPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.repo.AppointmentsForPatient(ctx, patientID)
}

// ForDoctor lists a doctor's appointments.
func (s *BookingService) ForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return s.repo.AppointmentsForDoctor(ctx, doctorID)
}
