package services

import (
	portsrepo "github.com/nathanmaher41/WorkScheduler/internal/core/ports/repositories"
	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, emailSender portssvc.EmailSender) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Notification first: every workflow service dispatches through it.
	container.Notification = NewNotificationService(repos.NotificationRepo, repos.UserRepo, emailSender)

	// Calendar next: it is the authorizer the other services gate through.
	calendarService := NewCalendarService(repos.CalendarRepo, repos.UserRepo, container.Notification)
	container.Calendar = calendarService

	container.User = NewUserService(repos.UserRepo)
	container.Schedule = NewScheduleService(repos.ScheduleRepo, repos.CalendarRepo, calendarService)
	container.Swap = NewSwapService(repos.SwapRepo, repos.ScheduleRepo, repos.CalendarRepo, calendarService, container.Notification)
	container.Take = NewTakeService(repos.TakeRepo, repos.ScheduleRepo, repos.CalendarRepo, calendarService, container.Notification)
	container.TimeOff = NewTimeOffService(repos.TimeOffRepo, calendarService, container.Notification)

	return container
}
