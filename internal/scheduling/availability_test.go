package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentalcare-connect-server/internal/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

func newTestAvailability(t *testing.T) (*AvailabilityService, *MemoryRepository, models.User) {
	t.Helper()
	repo := NewMemoryRepository()
	doctor := repo.SeedUser(models.User{
		BaseModel: models.BaseModel{ID: "doc1"},
		Email:     "prabhakaran@clinic.local",
		Name:      "Dr. Prabhakaran",
		Role:      models.RoleDoctor,
		Specialty: "General Dentistry",
	})
	svc := NewAvailabilityService(repo)
	svc.now = func() time.Time { return testNow }
	return svc, repo, doctor
}

func TestAddSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an unbooked slot", func(t *testing.T) {
		svc, _, doctor := newTestAvailability(t)

		slot, err := svc.Add(ctx, doctor.ID, "2025-06-10", "09:00")
		require.NoError(t, err)
		assert.NotEmpty(t, slot.ID)
		assert.Equal(t, doctor.ID, slot.DoctorID)
		assert.False(t, slot.IsBooked)
		assert.Nil(t, slot.PatientID)
	})

	t.Run("rejects a duplicate date and time", func(t *testing.T) {
		svc, _, doctor := newTestAvailability(t)

		_, err := svc.Add(ctx, doctor.ID, "2025-06-10", "09:00")
		require.NoError(t, err)

		_, err = svc.Add(ctx, doctor.ID, "2025-06-10", "09:00")
		assert.ErrorIs(t, err, ErrDuplicateSlot)

		slots, err := svc.List(ctx, doctor.ID)
		require.NoError(t, err)
		assert.Len(t, slots, 1)
	})

	t.Run("rejects a past slot regardless of doctor state", func(t *testing.T) {
		svc, _, doctor := newTestAvailability(t)

		_, err := svc.Add(ctx, doctor.ID, "2025-05-01", "09:00")
		assert.ErrorIs(t, err, ErrPastSlot)

		// Same day but an earlier hour is also past.
		_, err = svc.Add(ctx, doctor.ID, "2025-06-01", "09:00")
		assert.ErrorIs(t, err, ErrPastSlot)
	})

	t.Run("rejects malformed date or time", func(t *testing.T) {
		svc, _, doctor := newTestAvailability(t)

		_, err := svc.Add(ctx, doctor.ID, "10-06-2025", "09:00")
		assert.ErrorIs(t, err, ErrInvalidSlotTime)

		_, err = svc.Add(ctx, doctor.ID, "2025-06-10", "9am")
		assert.ErrorIs(t, err, ErrInvalidSlotTime)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		svc, _, _ := newTestAvailability(t)

		_, err := svc.Add(ctx, "nobody", "2025-06-10", "09:00")
		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})

	t.Run("different doctors may hold the same date and time", func(t *testing.T) {
		svc, repo, doctor := newTestAvailability(t)
		other := repo.SeedUser(models.User{
			Email: "bob@clinic.local", Name: "Dr. Bob Johnson", Role: models.RoleDoctor,
		})

		_, err := svc.Add(ctx, doctor.ID, "2025-06-10", "09:00")
		require.NoError(t, err)
		_, err = svc.Add(ctx, other.ID, "2025-06-10", "09:00")
		assert.NoError(t, err)
	})
}

func TestBulkAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("skips existing slots and reports the rest", func(t *testing.T) {
		svc, _, doctor := newTestAvailability(t)

		_, err := svc.Add(ctx, doctor.ID, "2025-06-10", "09:00")
		require.NoError(t, err)

		added, err := svc.BulkAdd(ctx, doctor.ID, "2025-06-10", []string{"09:00", "10:00"})
		require.NoError(t, err)
		assert.Equal(t, 1, added)

		slots, err := svc.List(ctx, doctor.ID)
		require.NoError(t, err)
		assert.Len(t, slots, 2)
	})

	t.Run("skips past times on a same-day batch", func(t *testing.T) {
		svc, _, doctor := newTestAvailability(t)

		added, err := svc.BulkAdd(ctx, doctor.ID, "2025-06-01", []string{"09:00", "11:00", "14:00", "15:00"})
		require.NoError(t, err)
		assert.Equal(t, 2, added)
	})

	t.Run("nothing to add", func(t *testing.T) {
		svc, _, doctor := newTestAvailability(t)

		_, err := svc.Add(ctx, doctor.ID, "2025-06-10", "09:00")
		require.NoError(t, err)

		added, err := svc.BulkAdd(ctx, doctor.ID, "2025-06-10", []string{"09:00"})
		require.NoError(t, err)
		assert.Zero(t, added)
	})
}

func TestRemoveSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an unbooked slot", func(t *testing.T) {
		svc, _, doctor := newTestAvailability(t)

		slot, err := svc.Add(ctx, doctor.ID, "2025-06-10", "09:00")
		require.NoError(t, err)

		require.NoError(t, svc.Remove(ctx, doctor.ID, slot.ID))

		slots, err := svc.List(ctx, doctor.ID)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("refuses to remove a booked slot", func(t *testing.T) {
		svc, repo, doctor := newTestAvailability(t)

		slot, err := svc.Add(ctx, doctor.ID, "2025-06-10", "09:00")
		require.NoError(t, err)

		patientID := "pat1"
		slot.IsBooked = true
		slot.PatientID = &patientID
		require.NoError(t, repo.SaveSlot(ctx, slot))

		err = svc.Remove(ctx, doctor.ID, slot.ID)
		assert.ErrorIs(t, err, ErrSlotInUse)

		// The slot is untouched and still listed.
		slots, err := svc.List(ctx, doctor.ID)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.True(t, slots[0].IsBooked)
		require.NotNil(t, slots[0].PatientID)
		assert.Equal(t, patientID, *slots[0].PatientID)
	})

	t.Run("unknown slot", func(t *testing.T) {
		svc, _, doctor := newTestAvailability(t)

		err := svc.Remove(ctx, doctor.ID, "missing")
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}
