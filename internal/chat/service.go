package chat

import (
	"context"
	"time"

	"dentalcare-connect-server/internal/models"
)

// Service appends to and reads from two-party conversation channels. Given
// valid participant IDs an append does not fail for domain reasons; the
// store is assumed reliable.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a chat Service over store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Send appends a timestamped message to the pair's channel and returns it.
// appointmentID optionally links the message to a booked appointment.
func (s *Service) Send(ctx context.Context, senderID, receiverID, text, appointmentID string) (*models.Message, error) {
	msg := &models.Message{
		ChatID:        ChannelKey(senderID, receiverID),
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Text:          text,
		Timestamp:     s.now().UnixMilli(),
		AppointmentID: appointmentID,
	}
	if err := s.store.Append(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// History returns the conversation between the two users, oldest first, in
// the order the messages were appended.
func (s *Service) History(ctx context.Context, userA, userB string) ([]models.Message, error) {
	return s.store.History(ctx, ChannelKey(userA, userB))
}

// NewSince returns the user's messages appended after sinceSeq, oldest
// first, across all of the user's channels. Clients poll with the highest
// seq they have seen; zero means everything.
func (s *Service) NewSince(ctx context.Context, userID string, sinceSeq uint64) ([]models.Message, error) {
	return s.store.NewSince(ctx, userID, sinceSeq)
}
