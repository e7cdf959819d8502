package store

import (
	"context"
	"errors"
	"time"

	"yashubustudio/slotguide/slots"
)

// DefaultTTL bounds how long an idle conversation keeps its pending flag.
const DefaultTTL = 24 * time.Hour

// ErrEmptyConversation is returned for a blank conversation id.
var ErrEmptyConversation = errors.New("conversation id is empty")

// Store persists the pending-request flag per conversation for callers that
// do not carry dialogue state themselves. Unknown conversations read as
// slots.StateNone.
type Store interface {
	Pending(ctx context.Context, conversationID string) (slots.State, error)
	SetPending(ctx context.Context, conversationID string, state slots.State) error
	Forget(ctx context.Context, conversationID string) error
	Close() error
}
