package services

// ServiceContainer holds instances of all the application services. It is the
// main entry point for accessing service functionality and is what the
// handlers are wired against.
type ServiceContainer struct {
	Shift      ShiftSvcFacade
	Obligation ObligationSvcFacade
	Balance    BalanceSvcFacade
	User       UserSvcFacade
	Category   CategorySvcFacade
	Employment EmploymentSvcFacade
	Events     EventSubscriber
}
