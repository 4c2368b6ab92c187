package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cafe/internal/domain"
	"cafe/internal/dto"
	apperrors "cafe/internal/errors"
	"cafe/internal/session"
)

// RecentOrdersLimit is how many orders ListRecentOrders returns.
const RecentOrdersLimit = 5

const (
	maxStatusLength  = 20
	maxCommentLength = 130
)

type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error)
	UpdateTotal(ctx context.Context, tx *sql.Tx, id uint, total decimal.Decimal) error
	MarkPaid(ctx context.Context, id uint) error
	ListRecentByLogin(ctx context.Context, login string, limit int) ([]domain.Order, error)
}

type ItemStatusRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, line domain.ItemStatusLine) error
	ListByOrder(ctx context.Context, orderID uint) ([]domain.ItemStatusLine, error)
	LinePrices(ctx context.Context, tx *sql.Tx, orderID uint) ([]decimal.Decimal, error)
	UpdateLineStatus(ctx context.Context, tx *sql.Tx, orderID uint, itemName, status, comments string, at time.Time) error
	UpdateAllStatuses(ctx context.Context, tx *sql.Tx, orderID uint, status, comments string, at time.Time) (int64, error)
}

type MenuLookup interface {
	FindForShare(ctx context.Context, tx *sql.Tx, name string) (*domain.MenuItem, error)
}

type ManagerGate interface {
	RequireManager(ctx context.Context, sess *session.Session) bool
}

type OrderService struct {
	txm    TransactionManager
	orders OrderRepository
	lines  ItemStatusRepository
	menu   MenuLookup
	gate   ManagerGate
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderService(
	txm TransactionManager,
	orders OrderRepository,
	lines ItemStatusRepository,
	menu MenuLookup,
	gate ManagerGate,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		txm:    txm,
		orders: orders,
		lines:  lines,
		menu:   menu,
		gate:   gate,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// CreateOrder inserts an empty unpaid order owned by the session user and
// returns its id.
func (s *OrderService) CreateOrder(ctx context.Context, sess *session.Session) (uint, error) {
	if err := requireLogin(sess); err != nil {
		return 0, err
	}

	var orderID uint
	err := s.txm.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		orderID, err = s.insertOrder(ctx, tx, sess.Login())
		return err
	})
	if err != nil {
		s.logger.Error("failed to create order", zap.String("traceId", sess.ID()), zap.Error(err))
		return 0, err
	}

	s.logger.Info("order created", zap.String("traceId", sess.ID()), zap.Uint("orderId", orderID))
	return orderID, nil
}

// AttachItem adds one Not Started line for itemName to an existing order.
// Unknown menu items are rejected before anything is written.
func (s *OrderService) AttachItem(ctx context.Context, sess *session.Session, orderID uint, itemName, comment string) error {
	if err := requireLogin(sess); err != nil {
		return err
	}

	itemName = strings.TrimSpace(itemName)
	comment = strings.TrimSpace(comment)
	if err := validateLine(itemName, comment); err != nil {
		return err
	}

	err := s.txm.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		order, err := s.orders.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := s.checkAccess(ctx, sess, order); err != nil {
			return err
		}
		_, err = s.attach(ctx, tx, order, itemName, comment)
		return err
	})
	if err != nil {
		s.logger.Warn("item not attached", zap.String("traceId", sess.ID()), zap.Uint("orderId", orderID), zap.String("item", itemName), zap.Error(err))
		return err
	}

	s.logger.Info("item attached", zap.String("traceId", sess.ID()), zap.Uint("orderId", orderID), zap.String("item", itemName))
	return nil
}

// RecomputeTotal sets the order total to the sum of the current menu prices
// of its lines. An order without lines totals zero.
func (s *OrderService) RecomputeTotal(ctx context.Context, sess *session.Session, orderID uint) (decimal.Decimal, error) {
	if err := requireLogin(sess); err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	err := s.txm.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		order, err := s.orders.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := s.checkAccess(ctx, sess, order); err != nil {
			return err
		}
		total, err = s.recompute(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Info("order total recomputed", zap.String("traceId", sess.ID()), zap.Uint("orderId", orderID), zap.String("total", total.StringFixed(2)))
	return total, nil
}

// PlaceOrder creates the order, attaches every requested line and writes the
// total in a single transaction. Nothing is kept when any step fails.
func (s *OrderService) PlaceOrder(ctx context.Context, sess *session.Session, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error) {
	if err := requireLogin(sess); err != nil {
		return nil, err
	}

	items, err := normalizeItems(req.Items)
	if err != nil {
		return nil, err
	}

	var result dto.PlaceOrderResult
	err = s.txm.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		orderID, err := s.insertOrder(ctx, tx, sess.Login())
		if err != nil {
			return err
		}

		order, err := s.orders.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		lines := make([]domain.ItemStatusLine, 0, len(items))
		for _, item := range items {
			line, err := s.attach(ctx, tx, order, item.ItemName, item.Comment)
			if err != nil {
				return err
			}
			lines = append(lines, *line)
		}

		total, err := s.recompute(ctx, tx, orderID)
		if err != nil {
			return err
		}

		order.Total = total
		result = dto.PlaceOrderResult{Order: *order, Lines: lines}
		return nil
	})
	if err != nil {
		s.logger.Warn("order rolled back", zap.String("traceId", sess.ID()), zap.Int("itemCount", len(items)), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("traceId", sess.ID()),
		zap.Uint("orderId", result.Order.ID),
		zap.Int("itemCount", len(result.Lines)),
		zap.String("total", result.Order.Total.StringFixed(2)))
	return &result, nil
}

func (s *OrderService) GetOrder(ctx context.Context, sess *session.Session, orderID uint) (*dto.OrderDetails, error) {
	if err := requireLogin(sess); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, sess, order); err != nil {
		return nil, err
	}

	lines, err := s.lines.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &dto.OrderDetails{Order: *order, Lines: lines}, nil
}

// UpdateStatus applies a status and comment to one line of the order, or to
// all of its lines when req.ItemName is blank. It returns the number of
// lines changed. The order row stays locked while the lines are written.
func (s *OrderService) UpdateStatus(ctx context.Context, sess *session.Session, req dto.UpdateStatusRequest) (int64, error) {
	if err := requireLogin(sess); err != nil {
		return 0, err
	}

	itemName := strings.TrimSpace(req.ItemName)
	status := normalizeStatus(req.Status)
	comments := strings.TrimSpace(req.Comments)
	if err := validateStatus(status, comments); err != nil {
		return 0, err
	}

	var updated int64
	err := s.txm.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		order, err := s.orders.FindByIDForUpdate(ctx, tx, req.OrderID)
		if err != nil {
			return err
		}
		if err := s.checkAccess(ctx, sess, order); err != nil {
			return err
		}

		at := s.now()
		if itemName != "" {
			if err := s.lines.UpdateLineStatus(ctx, tx, order.ID, itemName, status, comments, at); err != nil {
				return err
			}
			updated = 1
			return nil
		}

		updated, err = s.lines.UpdateAllStatuses(ctx, tx, order.ID, status, comments, at)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("order status updated",
		zap.String("traceId", sess.ID()),
		zap.Uint("orderId", req.OrderID),
		zap.String("item", itemName),
		zap.String("status", status),
		zap.Int64("lines", updated))
	return updated, nil
}

// MarkPaid flags the order as paid. Managers only; paying twice is a no-op.
func (s *OrderService) MarkPaid(ctx context.Context, sess *session.Session, orderID uint) error {
	if !s.gate.RequireManager(ctx, sess) {
		return apperrors.NewAuthError("unauthorized: you are not a manager")
	}

	if err := s.orders.MarkPaid(ctx, orderID); err != nil {
		return err
	}

	s.logger.Info("order marked paid", zap.String("traceId", sess.ID()), zap.Uint("orderId", orderID))
	return nil
}

// ListRecentOrders returns the session user's latest orders, newest first.
func (s *OrderService) ListRecentOrders(ctx context.Context, sess *session.Session) ([]domain.Order, error) {
	if err := requireLogin(sess); err != nil {
		return nil, err
	}
	return s.orders.ListRecentByLogin(ctx, sess.Login(), RecentOrdersLimit)
}

func (s *OrderService) insertOrder(ctx context.Context, tx *sql.Tx, login string) (uint, error) {
	return s.orders.Insert(ctx, tx, domain.Order{
		Login:      login,
		Paid:       false,
		ReceivedAt: s.now(),
		Total:      decimal.Zero,
	})
}

func (s *OrderService) attach(ctx context.Context, tx *sql.Tx, order *domain.Order, itemName, comment string) (*domain.ItemStatusLine, error) {
	if _, err := s.menu.FindForShare(ctx, tx, itemName); err != nil {
		return nil, err
	}

	line := domain.ItemStatusLine{
		OrderID:     order.ID,
		ItemName:    itemName,
		LastUpdated: order.ReceivedAt,
		Status:      domain.ItemStatusNotStarted,
		Comments:    comment,
	}
	if err := s.lines.Insert(ctx, tx, line); err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *OrderService) recompute(ctx context.Context, tx *sql.Tx, orderID uint) (decimal.Decimal, error) {
	prices, err := s.lines.LinePrices(ctx, tx, orderID)
	if err != nil {
		return decimal.Zero, err
	}

	total := domain.SumPrices(prices)
	if err := s.orders.UpdateTotal(ctx, tx, orderID, total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *OrderService) checkAccess(ctx context.Context, sess *session.Session, order *domain.Order) error {
	if order.OwnedBy(sess.Login()) || s.gate.RequireManager(ctx, sess) {
		return nil
	}
	return apperrors.NewAuthError(fmt.Sprintf("unauthorized: order %d belongs to another user", order.ID))
}

func requireLogin(sess *session.Session) error {
	if !sess.IsAuthenticated() {
		return apperrors.NewAuthError("not logged in")
	}
	return nil
}

func normalizeItems(items []dto.LineItemRequest) ([]dto.LineItemRequest, error) {
	normalized := make([]dto.LineItemRequest, 0, len(items))
	seen := make(map[string]bool, len(items))
	var details []apperrors.ValidationDetail

	for i, item := range items {
		name := strings.TrimSpace(item.ItemName)
		comment := strings.TrimSpace(item.Comment)
		field := fmt.Sprintf("items[%d]", i)

		if err := validateLine(name, comment); err != nil {
			if ve, ok := apperrors.IsValidationError(err); ok {
				for _, d := range ve.Details {
					details = append(details, apperrors.ValidationDetail{Field: field + "." + d.Field, Message: d.Message})
				}
			}
			continue
		}
		// item names are compared exactly, as the schema does
		if seen[name] {
			details = append(details, apperrors.ValidationDetail{Field: field + ".itemName", Message: name + " is already part of the order"})
			continue
		}
		seen[name] = true
		normalized = append(normalized, dto.LineItemRequest{ItemName: name, Comment: comment})
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid order", details...)
	}
	return normalized, nil
}

func validateLine(itemName, comment string) error {
	var details []apperrors.ValidationDetail
	if itemName == "" {
		details = append(details, apperrors.ValidationDetail{Field: "itemName", Message: "item name is required"})
	}
	if utf8.RuneCountInString(comment) > maxCommentLength {
		details = append(details, apperrors.ValidationDetail{Field: "comment", Message: fmt.Sprintf("comment must be at most %d characters", maxCommentLength)})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid line item", details...)
	}
	return nil
}

func validateStatus(status, comments string) error {
	var details []apperrors.ValidationDetail
	if status == "" {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: "status is required"})
	}
	if utf8.RuneCountInString(status) > maxStatusLength {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: fmt.Sprintf("status must be at most %d characters", maxStatusLength)})
	}
	if utf8.RuneCountInString(comments) > maxCommentLength {
		details = append(details, apperrors.ValidationDetail{Field: "comments", Message: fmt.Sprintf("comments must be at most %d characters", maxCommentLength)})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid status update", details...)
	}
	return nil
}

var knownStatuses = []string{
	domain.ItemStatusNotStarted,
	domain.ItemStatusInProgress,
	domain.ItemStatusComplete,
	domain.ItemStatusCancelled,
}

// normalizeStatus maps known statuses to their canonical spelling and keeps
// anything else as typed.
func normalizeStatus(status string) string {
	status = strings.TrimSpace(status)
	for _, known := range knownStatuses {
		if strings.EqualFold(status, known) {
			return known
		}
	}
	return status
}
