package services

import (
	"context"
	"log/slog"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
	"github.com/nathanmaher41/WorkScheduler/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	CalendarAuthorizer portssvc.CalendarAuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Authorize runs the calendar permission gate when an authorizer is wired.
func (s *BaseService) Authorize(ctx context.Context, actorID, calendarID string, required domain.PermissionCode) (*domain.CalendarMembership, error) {
	if s.CalendarAuthorizer != nil {
		return s.CalendarAuthorizer.AuthorizeCalendarAction(ctx, actorID, calendarID, required)
	}
	s.LogDebug(ctx, "No calendar authorizer provided, access granted by default",
		slog.String("actor_id", actorID),
		slog.String("calendar_id", calendarID),
		slog.String("required_permission", string(required)))
	return nil, nil
}
