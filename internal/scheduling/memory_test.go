package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentalcare-connect-server/internal/models"
)

func TestMemoryTransact(t *testing.T) {
	ctx := context.Background()

	t.Run("rolls back on error", func(t *testing.T) {
		repo := NewMemoryRepository()

		wantErr := errors.New("boom")
		err := repo.Transact(ctx, func(r Repository) error {
			require.NoError(t, r.CreateSlot(ctx, &models.TimeSlot{
				DoctorID: "doc1", Date: "2025-06-10", Time: "09:00",
			}))
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)

		slots, err := repo.ListSlots(ctx, "doc1")
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("commits on success", func(t *testing.T) {
		repo := NewMemoryRepository()

		err := repo.Transact(ctx, func(r Repository) error {
			return r.CreateSlot(ctx, &models.TimeSlot{
				DoctorID: "doc1", Date: "2025-06-10", Time: "09:00",
			})
		})
		require.NoError(t, err)

		slots, err := repo.ListSlots(ctx, "doc1")
		require.NoError(t, err)
		assert.Len(t, slots, 1)
	})

	t.Run("overlapping transactions keep each other's writes", func(t *testing.T) {
		repo := NewMemoryRepository()

		// One transaction per doctor, released together. Neither commit may
		// erase the other's slot.
		start := make(chan struct{})
		var wg sync.WaitGroup
		for _, doctorID := range []string{"doc1", "doc2"} {
			wg.Add(1)
			go func(doctorID string) {
				defer wg.Done()
				<-start
				err := repo.Transact(ctx, func(r Repository) error {
					return r.CreateSlot(ctx, &models.TimeSlot{
						DoctorID: doctorID, Date: "2025-06-10", Time: "09:00",
					})
				})
				assert.NoError(t, err)
			}(doctorID)
		}
		close(start)
		wg.Wait()

		for _, doctorID := range []string{"doc1", "doc2"} {
			slots, err := repo.ListSlots(ctx, doctorID)
			require.NoError(t, err)
			assert.Len(t, slots, 1, "slots for %s", doctorID)
		}
	})
}
