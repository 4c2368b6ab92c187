package order

import (
	"database/sql"

	"go.uber.org/zap"

	"cafe/internal/config"
	"cafe/internal/infrastructure/mysql"
	menurepo "cafe/internal/menu/repository"
	orderrepo "cafe/internal/order/repository"
	"cafe/internal/order/service"
	"cafe/internal/order/usecase"
)

type Module struct {
	Orders *service.OrderService
	Placer *usecase.PlaceOrderUseCase
}

func NewModule(db *sql.DB, cfg *config.Config, gate service.ManagerGate, logger *zap.Logger) *Module {
	txm := mysql.NewTxManager(db, cfg.Order.TxTimeout)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	lineRepo := orderrepo.NewMySQLItemStatusRepository(db)
	menuRepo := menurepo.NewMySQLMenuRepository(db)

	orders := service.NewOrderService(txm, orderRepo, lineRepo, menuRepo, gate, logger)

	return &Module{
		Orders: orders,
		Placer: usecase.NewPlaceOrderUseCase(orders, logger, cfg.Order.MaxRetryAttempts),
	}
}
