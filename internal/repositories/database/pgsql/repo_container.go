package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/nathanmaher41/WorkScheduler/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	calendarRepo := newPgxCalendarRepository(dbPool)
	scheduleRepo := newPgxScheduleRepository(dbPool)
	swapRepo := newPgxSwapRepository(dbPool)
	takeRepo := newPgxTakeRepository(dbPool)
	timeOffRepo := newPgxTimeOffRepository(dbPool)
	notificationRepo := newPgxNotificationRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:         userRepo,
		CalendarRepo:     calendarRepo,
		ScheduleRepo:     scheduleRepo,
		SwapRepo:         swapRepo,
		TakeRepo:         takeRepo,
		TimeOffRepo:      timeOffRepo,
		NotificationRepo: notificationRepo,
	}
}
