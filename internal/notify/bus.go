package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Bus is an ephemeral per-owner FIFO of user feedback. Entries self-expire
// after the configured delay unless dismissed earlier. Nothing here is
// persisted; a restart drops all pending notifications.
type Bus struct {
	mu     sync.Mutex
	ttl    time.Duration
	queues map[uuid.UUID][]Notification
}

func NewBus(ttl time.Duration) *Bus {
	return &Bus{
		ttl:    ttl,
		queues: make(map[uuid.UUID][]Notification),
	}
}

func (b *Bus) Push(ownerID uuid.UUID, severity Severity, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now().UTC(),
	}

	b.mu.Lock()
	b.queues[ownerID] = append(b.queues[ownerID], n)
	b.mu.Unlock()

	time.AfterFunc(b.ttl, func() {
		b.Dismiss(ownerID, n.ID)
	})

	return n
}

func (b *Bus) Success(ownerID uuid.UUID, message string) Notification {
	return b.Push(ownerID, SeveritySuccess, message)
}

func (b *Bus) Warn(ownerID uuid.UUID, message string) Notification {
	return b.Push(ownerID, SeverityWarning, message)
}

func (b *Bus) Error(ownerID uuid.UUID, message string) Notification {
	return b.Push(ownerID, SeverityError, message)
}

// List returns the owner's pending notifications oldest first.
func (b *Bus) List(ownerID uuid.UUID) []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := b.queues[ownerID]
	out := make([]Notification, len(q))
	copy(out, q)
	return out
}

// Dismiss drops one notification by id. Dismissing an id that already
// expired is a no-op, so the expiry timer and an explicit dismiss never
// conflict.
func (b *Bus) Dismiss(ownerID uuid.UUID, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := b.queues[ownerID]
	for i, n := range q {
		if n.ID == id {
			b.queues[ownerID] = append(q[:i:i], q[i+1:]...)
			if len(b.queues[ownerID]) == 0 {
				delete(b.queues, ownerID)
			}
			return true
		}
	}
	return false
}
