package store

import (
	"context"

	"pos-service/internal/models"
)

// CreateNotification inserts a notification addressed to a notifiable target
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (target_kind, target_id, title, body, read)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		n.Kind, n.Notifiable.ID, n.Title, n.Body,
	).Scan(&n.ID, &n.CreatedAt)
	return mapDBError(err)
}

// GetNotificationsFor retrieves notifications for a target, newest first
func (s *Store) GetNotificationsFor(ctx context.Context, target models.Notifiable) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.SelectContext(ctx, &notifications,
		"SELECT * FROM notifications WHERE target_kind = $1 AND target_id = $2 ORDER BY created_at DESC",
		target.Kind, target.ID)
	return notifications, mapDBError(err)
}

// MarkNotificationRead flags a notification as read
func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = true WHERE id = $1", id)
	if err != nil {
		return mapDBError(err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return &models.NotFoundError{Entity: "notification", ID: id}
	}
	return nil
}

// DeleteNotification deletes a notification
func (s *Store) DeleteNotification(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = $1", id)
	if err != nil {
		return mapDBError(err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return &models.NotFoundError{Entity: "notification", ID: id}
	}
	return nil
}
