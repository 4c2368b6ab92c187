package user

import (
	"database/sql"

	"go.uber.org/zap"

	"cafe/internal/auth"
	"cafe/internal/user/repository"
	"cafe/internal/user/service"
)

type Module struct {
	Gate     *auth.Gate
	Accounts *service.AccountService
	Profiles *service.ProfileService
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLUserRepository(db)
	gate := auth.NewGate(repo, logger)

	return &Module{
		Gate:     gate,
		Accounts: service.NewAccountService(repo, logger),
		Profiles: service.NewProfileService(repo, gate, logger),
	}
}
