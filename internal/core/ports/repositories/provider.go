package repositories

// RepositoryProvider bundles every repository the service layer needs.
type RepositoryProvider struct {
	ShiftRepo      ShiftRepositoryFacade
	ObligationRepo ObligationRepositoryFacade
	BalanceRepo    BalanceRepository
	EmploymentRepo EmploymentRepository
	CategoryRepo   CategoryRepository
	UserRepo       UserRepository
}
