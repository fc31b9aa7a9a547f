package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/models"
)

// Store persists a single notification.
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// Fanout delivers the notifications of an event on a best-effort basis.
type Fanout struct {
	store   Store
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewFanout creates a Fanout. A non-positive timeout leaves deliveries bounded
// only by the caller's context.
func NewFanout(store Store, log *slog.Logger, timeout time.Duration) *Fanout {
	return &Fanout{
		store:   store,
		log:     log.With("component", "fanout"),
		timeout: timeout,
		now:     time.Now,
	}
}

// WithClock replaces the time source used to stamp notifications.
func (f *Fanout) WithClock(now func() time.Time) *Fanout {
	f.now = now
	return f
}

// Publish stores every notification planned for ev and returns how many were
// persisted. Store failures are logged and counted, never returned: the
// action that produced the event has already been committed.
func (f *Fanout) Publish(ctx context.Context, ev Event) int {
	planned := Plan(ev, f.now())
	if len(planned) == 0 {
		return 0
	}

	// the request may be finishing; deliveries get their own deadline
	ctx = context.WithoutCancel(ctx)
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	delivered := 0
	for i := range planned {
		n := &planned[i]
		if err := f.store.CreateNotification(ctx, n); err != nil {
			metrics.NotificationsFailed.WithLabelValues(string(n.Type)).Inc()
			f.log.Error("notification dropped",
				"type", n.Type,
				"recipient", n.RecipientUsername,
				"sender", n.SenderUsername,
				"post_id", n.PostID,
				"error", err,
			)
			continue
		}
		metrics.NotificationsEmitted.WithLabelValues(string(n.Type)).Inc()
		delivered++
	}
	return delivered
}
