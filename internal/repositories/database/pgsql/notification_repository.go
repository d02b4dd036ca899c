package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nathanmaher41/WorkScheduler/internal/apperrors"
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	portsrepo "github.com/nathanmaher41/WorkScheduler/internal/core/ports/repositories"
	"github.com/nathanmaher41/WorkScheduler/internal/utils/pagination"
)

type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

var FULL_NOTIFICATION_SELECT_QUERY = `
SELECT
	n.notification_id, n.user_id, n.calendar_id, n.type, n.message,
	n.is_read, n.is_active, n.related_object_id, n.created_at
FROM inbox_notifications n
`

func (r *PgxNotificationRepository) getNotifications(ctx context.Context, filterQuery string, args ...any) ([]domain.InboxNotification, error) {
	query := FULL_NOTIFICATION_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query notifications", err)
	}
	defer rows.Close()
	notifications, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.InboxNotification])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.InboxNotification{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect notification rows", err)
	}
	return notifications, nil
}

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, notification domain.InboxNotification) error {
	query := `
		INSERT INTO inbox_notifications (
			notification_id, user_id, calendar_id, type, message,
			is_read, is_active, related_object_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		notification.NotificationID,
		notification.UserID,
		notification.CalendarID,
		notification.Type,
		notification.Message,
		notification.IsRead,
		notification.IsActive,
		notification.RelatedObjectID,
		notification.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return apperrors.NewValidationFailedError("referenced user or calendar does not exist")
		}
		return apperrors.NewAppError(500, "failed to save notification "+notification.NotificationID, err)
	}
	return nil
}

func (r *PgxNotificationRepository) FindNotificationByID(ctx context.Context, notificationID string) (*domain.InboxNotification, error) {
	notifications, err := r.getNotifications(ctx, `WHERE n.notification_id = $1`, notificationID)
	if err != nil {
		return nil, err
	}
	if len(notifications) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &notifications[0], nil
}

// ListNotificationsByUser pages newest-first keyset-style over (created_at, notification_id).
func (r *PgxNotificationRepository) ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int, nextToken *string) ([]domain.InboxNotification, *string, error) {
	args := []any{userID, limit + 1}
	filter := `WHERE n.user_id = $1 AND n.is_active`
	if unreadOnly {
		filter += ` AND NOT n.is_read`
	}
	if nextToken != nil {
		beforeTime, beforeID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationFailedError("invalid pagination token")
		}
		filter += ` AND (n.created_at, n.notification_id) < ($3, $4)`
		args = append(args, beforeTime, beforeID)
	}
	filter += ` ORDER BY n.created_at DESC, n.notification_id DESC LIMIT $2`

	notifications, err := r.getNotifications(ctx, filter, args...)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(notifications) > limit {
		notifications = notifications[:limit]
		last := notifications[len(notifications)-1]
		encoded := pagination.EncodeCursor(last.CreatedAt, last.NotificationID)
		token = &encoded
	}
	if notifications == nil {
		notifications = []domain.InboxNotification{}
	}
	return notifications, token, nil
}

func (r *PgxNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT count(*) FROM inbox_notifications WHERE user_id = $1 AND is_active AND NOT is_read`
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count unread notifications", err)
	}
	return count, nil
}

func (r *PgxNotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	query := `
		UPDATE inbox_notifications
		SET is_read = TRUE
		WHERE notification_id = $1 AND user_id = $2 AND is_active;
	`
	tag, err := r.Pool.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark notification "+notificationID+" read", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	query := `
		UPDATE inbox_notifications
		SET is_read = TRUE
		WHERE user_id = $1 AND is_active AND NOT is_read;
	`
	if _, err := r.Pool.Exec(ctx, query, userID); err != nil {
		return apperrors.NewAppError(500, "failed to mark notifications read", err)
	}
	return nil
}

func (r *PgxNotificationRepository) DeactivateNotification(ctx context.Context, userID, notificationID string) error {
	query := `
		UPDATE inbox_notifications
		SET is_active = FALSE
		WHERE notification_id = $1 AND user_id = $2 AND is_active;
	`
	tag, err := r.Pool.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to dismiss notification "+notificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
