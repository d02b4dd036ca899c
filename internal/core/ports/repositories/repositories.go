package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	CalendarRepo     CalendarRepositoryFacade
	ScheduleRepo     ScheduleRepositoryFacade
	SwapRepo         SwapRepositoryFacade
	TakeRepo         TakeRepositoryFacade
	TimeOffRepo      TimeOffRepositoryFacade
	NotificationRepo NotificationRepositoryFacade
}
