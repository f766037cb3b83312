package feed

import (
	"context"
	"errors"
	"time"

	"storefront/pkg/logging"
)

// Subscriber pumps change-feed events into the directory until the context
// is cancelled. Malformed events are logged and skipped; the reconciliation
// in Directory.Apply tolerates duplicates and out-of-order arrivals, so a
// skipped event only delays convergence until the next seed.
type Subscriber struct {
	Src Source
	Dir *Directory
}

func (s *Subscriber) Run(ctx context.Context) {
	l := logging.FromContext(ctx).With("component", "address_feed")

	for {
		ev, err := s.Src.ReadEvent(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				l.Info("feed stopped")
				return
			}
			l.Error("feed read failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		s.Dir.Apply(ev)
	}
}
