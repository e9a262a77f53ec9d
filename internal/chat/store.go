package chat

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dentalcare-connect-server/internal/models"
)

// Store is the append-only message log, addressed by channel key.
type Store interface {
	Append(ctx context.Context, msg *models.Message) error
	History(ctx context.Context, chatID string) ([]models.Message, error)
	// NewSince returns the user's messages, across all their channels,
	// appended after the given seq.
	NewSince(ctx context.Context, userID string, sinceSeq uint64) ([]models.Message, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates the database-backed Store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Append(ctx context.Context, msg *models.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *gormStore) History(ctx context.Context, chatID string) ([]models.Message, error) {
	var messages []models.Message
	// Seq is the insert order; timestamps are not trusted for ordering.
	err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("seq asc").
		Find(&messages).Error
	return messages, err
}

func (s *gormStore) NewSince(ctx context.Context, userID string, sinceSeq uint64) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("(receiver_id = ? OR sender_id = ?) AND seq > ?", userID, userID, sinceSeq).
		Order("seq asc").
		Find(&messages).Error
	return messages, err
}

// MemoryStore is the in-memory Store used in tests. Slice order is the
// append order.
type MemoryStore struct {
	mu       sync.Mutex
	channels map[string][]models.Message
	seq      uint64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{channels: make(map[string][]models.Message)}
}

func (s *MemoryStore) Append(ctx context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	s.seq++
	msg.Seq = s.seq
	s.channels[msg.ChatID] = append(s.channels[msg.ChatID], *msg)
	return nil
}

func (s *MemoryStore) History(ctx context.Context, chatID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.channels[chatID]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) NewSince(ctx context.Context, userID string, sinceSeq uint64) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, msgs := range s.channels {
		for _, m := range msgs {
			if m.Seq > sinceSeq && (m.SenderID == userID || m.ReceiverID == userID) {
				out = append(out, m)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}
