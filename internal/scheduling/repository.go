package scheduling

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dentalcare-connect-server/internal/models"
)

// Repository is the storage boundary for doctors, their slot collections and
// the appointment ledger. The booking service is written against this
// interface so the database can be swapped for the in-memory implementation
// in tests.
type Repository interface {
	GetDoctor(ctx context.Context, doctorID string) (*models.User, error)

	ListSlots(ctx context.Context, doctorID string) ([]models.TimeSlot, error)
	GetSlot(ctx context.Context, doctorID, slotID string) (*models.TimeSlot, error)
	FindSlot(ctx context.Context, doctorID, date, tm string) (*models.TimeSlot, error)
	CreateSlot(ctx context.Context, slot *models.TimeSlot) error
	SaveSlot(ctx context.Context, slot *models.TimeSlot) error
	DeleteSlot(ctx context.Context, doctorID, slotID string) error

	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	SaveAppointment(ctx context.Context, appt *models.Appointment) error
	AppointmentsForPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	AppointmentsForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)

	// Transact runs fn against a repository view whose writes commit or roll
	// back as a unit. Booking relies on this so a slot is never marked booked
	// without its appointment record, or vice versa.
	Transact(ctx context.Context, fn func(Repository) error) error
}

// gormRepository is the production Repository backed by the application
// database.
type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository wraps db in a Repository.
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetDoctor(ctx context.Context, doctorID string) (*models.User, error) {
	var doctor models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", doctorID, models.RoleDoctor).
		First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *gormRepository) ListSlots(ctx context.Context, doctorID string) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("date asc, time asc").
		Find(&slots).Error
	return slots, err
}

func (r *gormRepository) GetSlot(ctx context.Context, doctorID, slotID string) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	err := r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", slotID, doctorID).
		First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *gormRepository) FindSlot(ctx context.Context, doctorID, date, tm string) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND time = ?", doctorID, date, tm).
		First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *gormRepository) CreateSlot(ctx context.Context, slot *models.TimeSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *gormRepository) SaveSlot(ctx context.Context, slot *models.TimeSlot) error {
	// Save writes every column so clearing PatientID persists as NULL.
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *gormRepository) DeleteSlot(ctx context.Context, doctorID, slotID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", slotID, doctorID).
		Delete(&models.TimeSlot{}).Error
}

func (r *gormRepository) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).First(&appt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (r *gormRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *gormRepository) SaveAppointment(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Save(appt).Error
}

func (r *gormRepository) AppointmentsForPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date asc, time asc").
		Find(&appts).Error
	return appts, err
}

func (r *gormRepository) AppointmentsForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("date asc, time asc").
		Find(&appts).Error
	return appts, err
}

func (r *gormRepository) Transact(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}
