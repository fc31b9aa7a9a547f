package services

import (
	"context"
	"log/slog"

	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
	apperrors "github.com/anonto42/pulse/backend/pkg/errors"
)

// NotificationService serves a user's inbox and stores fanout output.
type NotificationService struct {
	repo  repositories.NotificationRepository
	cache UnreadCache
	log   *slog.Logger
}

func NewNotificationService(repo repositories.NotificationRepository, cache UnreadCache, log *slog.Logger) *NotificationService {
	return &NotificationService{
		repo:  repo,
		cache: cache,
		log:   log.With("service", "notification"),
	}
}

// CreateNotification persists one notification and drops the recipient's
// cached unread count. It is the store behind the fanout engine.
func (s *NotificationService) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return err
	}
	s.invalidate(ctx, n.RecipientUsername)
	return nil
}

// List returns the newest notifications of username and marks the unread ones
// among them as read. The returned records keep the state they had before the
// call, so a client can still tell which ones are new.
func (s *NotificationService) List(ctx context.Context, username string) ([]models.Notification, error) {
	notifications, err := s.repo.GetRecentByRecipient(ctx, username, inboxLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var unread []string
	for _, n := range notifications {
		if !n.IsRead {
			unread = append(unread, n.ID)
		}
	}
	if len(unread) > 0 {
		if err := s.repo.MarkAsRead(ctx, unread); err != nil {
			s.log.Error("mark notifications read", "recipient", username, "error", err)
		} else {
			s.invalidate(ctx, username)
		}
	}
	return notifications, nil
}

// UnreadCount returns how many notifications of username are unread. Nothing
// is marked read.
func (s *NotificationService) UnreadCount(ctx context.Context, username string) (int64, error) {
	var token string
	if s.cache != nil {
		n, ok, err := s.cache.GetUnread(ctx, username)
		switch {
		case err != nil:
			metrics.UnreadCacheLookups.WithLabelValues("error").Inc()
			s.log.Warn("read unread count from cache", "recipient", username, "error", err)
		case ok:
			metrics.UnreadCacheLookups.WithLabelValues("hit").Inc()
			return n, nil
		default:
			metrics.UnreadCacheLookups.WithLabelValues("miss").Inc()
			// reserve before reading the store so a concurrent invalidation voids the fill
			if token, err = s.cache.ReserveUnread(ctx, username); err != nil {
				s.log.Warn("reserve unread count fill", "recipient", username, "error", err)
			}
		}
	}

	count, err := s.repo.GetUnreadCount(ctx, username)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	if token != "" {
		stored, err := s.cache.SetUnread(ctx, username, token, count)
		if err != nil {
			s.log.Warn("cache unread count", "recipient", username, "error", err)
		} else if !stored {
			s.log.Debug("unread count changed during fill, not cached", "recipient", username)
		}
	}
	return count, nil
}

func (s *NotificationService) invalidate(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUnread(ctx, username); err != nil {
		s.log.Warn("invalidate unread count", "recipient", username, "error", err)
	}
}
