package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelKey(t *testing.T) {
	t.Run("order of participants does not matter", func(t *testing.T) {
		assert.Equal(t, ChannelKey("alice", "bob"), ChannelKey("bob", "alice"))
	})

	t.Run("joins the sorted IDs with an underscore", func(t *testing.T) {
		assert.Equal(t, "alice_bob", ChannelKey("bob", "alice"))
		assert.Equal(t, "ai-bot_pat1", ChannelKey("pat1", "ai-bot"))
	})

	t.Run("distinct pairs get distinct channels", func(t *testing.T) {
		assert.NotEqual(t, ChannelKey("alice", "bob"), ChannelKey("alice", "carol"))
	})
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps and stores the message", func(t *testing.T) {
		svc := NewService(NewMemoryStore())
		fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixed }

		msg, err := svc.Send(ctx, "pat1", "doc1", "hello", "appt1")
		require.NoError(t, err)
		assert.Equal(t, "doc1_pat1", msg.ChatID)
		assert.Equal(t, "pat1", msg.SenderID)
		assert.Equal(t, "doc1", msg.ReceiverID)
		assert.Equal(t, "hello", msg.Text)
		assert.Equal(t, fixed.UnixMilli(), msg.Timestamp)
		assert.Equal(t, "appt1", msg.AppointmentID)
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns messages in append order from both sides", func(t *testing.T) {
		svc := NewService(NewMemoryStore())

		_, err := svc.Send(ctx, "pat1", "doc1", "hi doctor", "")
		require.NoError(t, err)
		_, err = svc.Send(ctx, "doc1", "pat1", "hello", "")
		require.NoError(t, err)
		_, err = svc.Send(ctx, "pat1", "doc1", "my tooth hurts", "")
		require.NoError(t, err)

		history, err := svc.History(ctx, "doc1", "pat1")
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, "hi doctor", history[0].Text)
		assert.Equal(t, "hello", history[1].Text)
		assert.Equal(t, "my tooth hurts", history[2].Text)
	})

	t.Run("reads the same channel regardless of argument order", func(t *testing.T) {
		svc := NewService(NewMemoryStore())

		_, err := svc.Send(ctx, "pat1", "doc1", "hi", "")
		require.NoError(t, err)

		a, err := svc.History(ctx, "pat1", "doc1")
		require.NoError(t, err)
		b, err := svc.History(ctx, "doc1", "pat1")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("channels are isolated per pair", func(t *testing.T) {
		svc := NewService(NewMemoryStore())

		_, err := svc.Send(ctx, "pat1", "doc1", "for the doctor", "")
		require.NoError(t, err)
		_, err = svc.Send(ctx, "pat1", "ai-bot", "for the assistant", "")
		require.NoError(t, err)

		history, err := svc.History(ctx, "pat1", "doc1")
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "for the doctor", history[0].Text)
	})

	t.Run("empty channel yields an empty history", func(t *testing.T) {
		svc := NewService(NewMemoryStore())

		history, err := svc.History(ctx, "pat1", "doc1")
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestNewSince(t *testing.T) {
	ctx := context.Background()

	t.Run("returns only messages after the cursor, oldest first", func(t *testing.T) {
		svc := NewService(NewMemoryStore())

		first, err := svc.Send(ctx, "doc1", "pat1", "first", "")
		require.NoError(t, err)
		_, err = svc.Send(ctx, "doc1", "pat1", "second", "")
		require.NoError(t, err)
		_, err = svc.Send(ctx, "pat1", "doc1", "third", "")
		require.NoError(t, err)

		fresh, err := svc.NewSince(ctx, "pat1", first.Seq)
		require.NoError(t, err)
		require.Len(t, fresh, 2)
		assert.Equal(t, "second", fresh[0].Text)
		assert.Equal(t, "third", fresh[1].Text)
	})

	t.Run("spans all of the user's channels", func(t *testing.T) {
		svc := NewService(NewMemoryStore())

		_, err := svc.Send(ctx, "doc1", "pat1", "from the doctor", "")
		require.NoError(t, err)
		_, err = svc.Send(ctx, "ai-bot", "pat1", "from the assistant", "")
		require.NoError(t, err)
		_, err = svc.Send(ctx, "doc1", "pat2", "for someone else", "")
		require.NoError(t, err)

		fresh, err := svc.NewSince(ctx, "pat1", 0)
		require.NoError(t, err)
		require.Len(t, fresh, 2)
		assert.Equal(t, "from the doctor", fresh[0].Text)
		assert.Equal(t, "from the assistant", fresh[1].Text)
	})

	t.Run("a caught-up client gets nothing", func(t *testing.T) {
		svc := NewService(NewMemoryStore())

		msg, err := svc.Send(ctx, "doc1", "pat1", "hello", "")
		require.NoError(t, err)

		fresh, err := svc.NewSince(ctx, "pat1", msg.Seq)
		require.NoError(t, err)
		assert.Empty(t, fresh)
	})
}
