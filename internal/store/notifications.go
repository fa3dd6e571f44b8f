package store

import (
	"context"

	"example.com/socialfeed/internal/models"
	"gorm.io/gorm/clause"
)

// CreateNotification records n for its recipient. A sender notifying
// themselves is rejected with ErrSelfAction.
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.SenderID == n.RecipientID {
		return ErrSelfAction
	}
	if n.ID == "" {
		n.ID = newID()
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error; err != nil {
		logg.Error("store", "Failed to create notification", err)
		return err
	}
	logg.Debug("store", "Notification created (user IDs anonymized)")
	return nil
}

// ListNotifications returns the recipient's newest notifications first.
func (s *Store) ListNotifications(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	var out []models.Notification
	err := s.db.WithContext(ctx).Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkNotificationRead flags one of the recipient's notifications as read.
// Someone else's notification is reported as not found.
func (s *Store) MarkNotificationRead(ctx context.Context, recipientID, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("notification", id)
	}
	return nil
}
