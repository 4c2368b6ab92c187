package menu

import (
	"database/sql"

	"go.uber.org/zap"

	"cafe/internal/menu/repository"
	"cafe/internal/menu/service"
)

type Module struct {
	Catalog    *service.CatalogService
	Controller *Controller
}

func NewModule(db *sql.DB, gate service.ManagerGate, logger *zap.Logger) *Module {
	repo := repository.NewMySQLMenuRepository(db)
	catalog := service.NewCatalogService(repo, gate, logger)

	return &Module{
		Catalog:    catalog,
		Controller: NewController(catalog, logger),
	}
}
