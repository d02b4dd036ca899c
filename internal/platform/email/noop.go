package email

import (
	"context"
	"log/slog"

	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
)

// NoopSender logs instead of sending. Used when no email provider is configured.
type NoopSender struct {
	logger *slog.Logger
}

var _ portssvc.EmailSender = (*NoopSender)(nil)

func NewNoopSender(logger *slog.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

func (s *NoopSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if s.logger != nil {
		s.logger.Info("Email delivery skipped, no provider configured",
			slog.String("to", to),
			slog.String("subject", subject),
		)
	}
	return nil
}
