package repositories

import (
	"context"

	"github.com/anonto42/pulse/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetRecentByRecipient(ctx context.Context, username string, limit int) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, username string) (int64, error)
	MarkAsRead(ctx context.Context, ids []string) error
	DeleteByPostID(ctx context.Context, postID string) ([]string, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// GetRecentByRecipient returns the newest notifications of a user, newest first.
func (r *postgresNotificationRepository) GetRecentByRecipient(ctx context.Context, username string, limit int) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := r.db.WithContext(ctx).
		Where("recipient_username = ?", username).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, username string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_username = ? AND is_read = ?", username, false).
		Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id IN ? AND is_read = ?", ids, false).
		Update("is_read", true).Error
}

// DeleteByPostID removes the notifications that point at a post and returns
// the distinct recipients that had unread ones among them.
func (r *postgresNotificationRepository) DeleteByPostID(ctx context.Context, postID string) ([]string, error) {
	var recipients []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Notification{}).
			Where("post_id = ? AND is_read = ?", postID, false).
			Distinct().
			Pluck("recipient_username", &recipients).Error
		if err != nil {
			return err
		}
		return tx.Where("post_id = ?", postID).Delete(&models.Notification{}).Error
	})
	if err != nil {
		return nil, err
	}
	return recipients, nil
}
