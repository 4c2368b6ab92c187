package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"cafe/internal/domain"
	apperrors "cafe/internal/errors"
	"cafe/internal/infrastructure/mysql"
)

const orderColumns = `orderid, login, paid, timeStampRecieved, total`

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
	query := `INSERT INTO Orders (login, paid, timeStampRecieved, total) VALUES (?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, order.Login, order.Paid, order.ReceivedAt, order.Total)
	if err != nil {
		return 0, mysql.Classify(err, "inserting order")
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, mysql.Classify(fmt.Errorf("getting last insert id: %w", err), "inserting order")
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE orderid = ?`
	return scanOrder(r.db.QueryRowContext(ctx, query, id), id)
}

// FindByIDForUpdate locks the order row until tx ends, serializing workflow
// steps that touch the same order.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE orderid = ? FOR UPDATE`
	return scanOrder(tx.QueryRowContext(ctx, query, id), id)
}

func (r *MySQLOrderRepository) UpdateTotal(ctx context.Context, tx *sql.Tx, id uint, total decimal.Decimal) error {
	query := `UPDATE Orders SET total = ? WHERE orderid = ?`

	result, err := tx.ExecContext(ctx, query, total, id)
	if err != nil {
		return mysql.Classify(err, "updating order total")
	}

	rowsAffected, err := mysql.RowsAffected(result, "updating order total")
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order %d not found", id))
	}

	return nil
}

func (r *MySQLOrderRepository) MarkPaid(ctx context.Context, id uint) error {
	query := `UPDATE Orders SET paid = 1 WHERE orderid = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return mysql.Classify(err, "marking order paid")
	}

	rowsAffected, err := mysql.RowsAffected(result, "marking order paid")
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order %d not found", id))
	}

	return nil
}

func (r *MySQLOrderRepository) ListRecentByLogin(ctx context.Context, login string, limit int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE login = ? ORDER BY orderid DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, login, limit)
	if err != nil {
		return nil, mysql.Classify(err, "querying recent orders")
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Login, &o.Paid, &o.ReceivedAt, &o.Total); err != nil {
			return nil, mysql.Classify(fmt.Errorf("scanning order row: %w", err), "querying recent orders")
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(fmt.Errorf("iterating order rows: %w", err), "querying recent orders")
	}

	return orders, nil
}

func scanOrder(row *sql.Row, id uint) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.Login, &o.Paid, &o.ReceivedAt, &o.Total)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %d not found", id))
	}
	if err != nil {
		return nil, mysql.Classify(err, "querying order by id")
	}

	return &o, nil
}
