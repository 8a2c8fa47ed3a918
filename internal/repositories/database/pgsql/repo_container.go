package pgsql

import (
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	shiftRepo := newPgxShiftRepository(dbPool)
	obligationRepo := newPgxObligationRepository(dbPool)
	balanceRepo := newPgxBalanceRepository(dbPool)
	employmentRepo := newPgxEmploymentRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ShiftRepo:      shiftRepo,
		ObligationRepo: obligationRepo,
		BalanceRepo:    balanceRepo,
		EmploymentRepo: employmentRepo,
		CategoryRepo:   categoryRepo,
		UserRepo:       userRepo,
	}
}
