package feed

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"storefront/internal/models"
)

// chanSource feeds events from a channel and blocks until the context ends.
type chanSource struct {
	events chan Event
}

func (s *chanSource) ReadEvent(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case ev := <-s.events:
		return ev, nil
	}
}

func TestSubscriber_AppliesEventsUntilCancelled(t *testing.T) {
	t.Parallel()

	src := &chanSource{events: make(chan Event, 4)}
	dir := NewDirectory()
	sub := &Subscriber{Src: src, Dir: dir}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sub.Run(ctx)
		close(done)
	}()

	owner := uuid.New()
	src.events <- Event{Type: EventInsert, Address: models.Address{ID: 1, OwnerID: owner}}
	src.events <- Event{Type: EventInsert, Address: models.Address{ID: 2, OwnerID: owner}}
	src.events <- Event{Type: EventDelete, Address: models.Address{ID: 1, OwnerID: owner}}

	assert.Eventually(t, func() bool {
		got := dir.List(owner)
		return len(got) == 1 && got[0].ID == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("subscriber did not stop on cancel")
	}
}
