package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"yashubustudio/slotguide/slots"
)

// MemoryStore keeps flags in process with expiry.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore returns a store whose entries expire after ttl of inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{cache: cache.New(ttl, ttl/2)}
}

func (m *MemoryStore) Pending(ctx context.Context, conversationID string) (slots.State, error) {
	if conversationID == "" {
		return slots.StateNone, ErrEmptyConversation
	}
	if err := ctx.Err(); err != nil {
		return slots.StateNone, err
	}
	v, ok := m.cache.Get(conversationID)
	if !ok {
		return slots.StateNone, nil
	}
	state, _ := v.(slots.State)
	return state, nil
}

// SetPending stores state. StateNone removes the entry.
func (m *MemoryStore) SetPending(ctx context.Context, conversationID string, state slots.State) error {
	if conversationID == "" {
		return ErrEmptyConversation
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if state == slots.StateNone {
		m.cache.Delete(conversationID)
		return nil
	}
	m.cache.SetDefault(conversationID, state)
	return nil
}

func (m *MemoryStore) Forget(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return ErrEmptyConversation
	}
	m.cache.Delete(conversationID)
	return nil
}

// Len reports the number of live conversations.
func (m *MemoryStore) Len() int { return m.cache.ItemCount() }

func (m *MemoryStore) Close() error {
	m.cache.Flush()
	return nil
}
