package scheduling

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"dentalcare-connect-server/internal/models"
)

// MemoryRepository is an in-memory Repository used for deterministic tests
// and local development without a database. Transact clones the state, runs
// the function against the clone and swaps it in only on success, giving the
// same all-or-nothing behavior as a database transaction.
type MemoryRepository struct {
	mu    sync.Mutex
	state memoryState
}

type memoryState struct {
	users        []models.User
	slots        []models.TimeSlot
	appointments []models.Appointment
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// SeedUser inserts a user record directly, assigning an ID if missing.
func (m *MemoryRepository) SeedUser(u models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.state.users = append(m.state.users, u)
	return u
}

func (s memoryState) clone() memoryState {
	c := memoryState{
		users:        make([]models.User, len(s.users)),
		slots:        make([]models.TimeSlot, len(s.slots)),
		appointments: make([]models.Appointment, len(s.appointments)),
	}
	copy(c.users, s.users)
	copy(c.appointments, s.appointments)
	for i, slot := range s.slots {
		if slot.PatientID != nil {
			pid := *slot.PatientID
			slot.PatientID = &pid
		}
		c.slots[i] = slot
	}
	return c
}

func (m *MemoryRepository) GetDoctor(ctx context.Context, doctorID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.state.users {
		if u.ID == doctorID && u.Role == models.RoleDoctor {
			doctor := u
			return &doctor, nil
		}
	}
	return nil, ErrDoctorNotFound
}

func (m *MemoryRepository) ListSlots(ctx context.Context, doctorID string) ([]models.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var slots []models.TimeSlot
	for _, s := range m.state.slots {
		if s.DoctorID == doctorID {
			slots = append(slots, s)
		}
	}
	return slots, nil
}

func (m *MemoryRepository) GetSlot(ctx context.Context, doctorID, slotID string) (*models.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.state.slots {
		if s.ID == slotID && s.DoctorID == doctorID {
			slot := s
			return &slot, nil
		}
	}
	return nil, ErrSlotNotFound
}

func (m *MemoryRepository) FindSlot(ctx context.Context, doctorID, date, tm string) (*models.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.state.slots {
		if s.DoctorID == doctorID && s.Date == date && s.Time == tm {
			slot := s
			return &slot, nil
		}
	}
	return nil, ErrSlotNotFound
}

func (m *MemoryRepository) CreateSlot(ctx context.Context, slot *models.TimeSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = slot.CreatedAt
	m.state.slots = append(m.state.slots, *slot)
	return nil
}

func (m *MemoryRepository) SaveSlot(ctx context.Context, slot *models.TimeSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.state.slots {
		if s.ID == slot.ID {
			slot.UpdatedAt = time.Now()
			m.state.slots[i] = *slot
			return nil
		}
	}
	return ErrSlotNotFound
}

func (m *MemoryRepository) DeleteSlot(ctx context.Context, doctorID, slotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.state.slots {
		if s.ID == slotID && s.DoctorID == doctorID {
			m.state.slots = append(m.state.slots[:i], m.state.slots[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemoryRepository) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.state.appointments {
		if a.ID == id {
			appt := a
			return &appt, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (m *MemoryRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	m.state.appointments = append(m.state.appointments, *appt)
	return nil
}

func (m *MemoryRepository) SaveAppointment(ctx context.Context, appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.state.appointments {
		if a.ID == appt.ID {
			appt.UpdatedAt = time.Now()
			m.state.appointments[i] = *appt
			return nil
		}
	}
	return ErrAppointmentNotFound
}

func (m *MemoryRepository) AppointmentsForPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var appts []models.Appointment
	for _, a := range m.state.appointments {
		if a.PatientID == patientID {
			appts = append(appts, a)
		}
	}
	return appts, nil
}

func (m *MemoryRepository) AppointmentsForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var appts []models.Appointment
	for _, a := range m.state.appointments {
		if a.DoctorID == doctorID {
			appts = append(appts, a)
		}
	}
	return appts, nil
}

func (m *MemoryRepository) Transact(ctx context.Context, fn func(Repository) error) error {
	// The lock is held for the whole transaction, not just the clone and
	// the swap. Publishing the child's state wholesale would otherwise
	// erase writes committed by an overlapping transaction.
	m.mu.Lock()
	defer m.mu.Unlock()

	child := &MemoryRepository{state: m.state.clone()}
	if err := fn(child); err != nil {
		return err
	}
	m.state = child.state
	return nil
}
