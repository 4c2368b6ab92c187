package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"cafe/internal/domain"
	apperrors "cafe/internal/errors"
	"cafe/internal/infrastructure/mysql"
)

type MySQLItemStatusRepository struct {
	db *sql.DB
}

func NewMySQLItemStatusRepository(db *sql.DB) *MySQLItemStatusRepository {
	return &MySQLItemStatusRepository{db: db}
}

func (r *MySQLItemStatusRepository) Insert(ctx context.Context, tx *sql.Tx, line domain.ItemStatusLine) error {
	query := `INSERT INTO ItemStatus (orderid, itemName, lastUpdated, status, comments) VALUES (?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query, line.OrderID, line.ItemName, line.LastUpdated, line.Status, line.Comments)
	if err != nil {
		return mysql.Classify(err, fmt.Sprintf("attaching %s to order %d", line.ItemName, line.OrderID))
	}
	return nil
}

func (r *MySQLItemStatusRepository) ListByOrder(ctx context.Context, orderID uint) ([]domain.ItemStatusLine, error) {
	query := `
		SELECT orderid, itemName, lastUpdated, status, COALESCE(comments, '')
		FROM ItemStatus
		WHERE orderid = ?
		ORDER BY itemName
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, mysql.Classify(err, "querying order lines")
	}
	defer rows.Close()

	lines := []domain.ItemStatusLine{}
	for rows.Next() {
		var l domain.ItemStatusLine
		if err := rows.Scan(&l.OrderID, &l.ItemName, &l.LastUpdated, &l.Status, &l.Comments); err != nil {
			return nil, mysql.Classify(fmt.Errorf("scanning order line: %w", err), "querying order lines")
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(fmt.Errorf("iterating order lines: %w", err), "querying order lines")
	}

	return lines, nil
}

// LinePrices returns the current menu price of every line of the order.
func (r *MySQLItemStatusRepository) LinePrices(ctx context.Context, tx *sql.Tx, orderID uint) ([]decimal.Decimal, error) {
	query := `
		SELECT m.price
		FROM ItemStatus s
		JOIN Menu m ON m.itemName = s.itemName
		WHERE s.orderid = ?
	`

	rows, err := tx.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, mysql.Classify(err, "querying line prices")
	}
	defer rows.Close()

	prices := []decimal.Decimal{}
	for rows.Next() {
		var p decimal.Decimal
		if err := rows.Scan(&p); err != nil {
			return nil, mysql.Classify(fmt.Errorf("scanning line price: %w", err), "querying line prices")
		}
		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(fmt.Errorf("iterating line prices: %w", err), "querying line prices")
	}

	return prices, nil
}

func (r *MySQLItemStatusRepository) UpdateLineStatus(ctx context.Context, tx *sql.Tx, orderID uint, itemName, status, comments string, at time.Time) error {
	query := `UPDATE ItemStatus SET status = ?, comments = ?, lastUpdated = ? WHERE orderid = ? AND itemName = ?`

	result, err := tx.ExecContext(ctx, query, status, comments, at, orderID, itemName)
	if err != nil {
		return mysql.Classify(err, "updating line status")
	}

	rowsAffected, err := mysql.RowsAffected(result, "updating line status")
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("item %s is not part of order %d", itemName, orderID))
	}

	return nil
}

// UpdateAllStatuses overwrites status and comments of every line of the order
// and returns how many lines were touched.
func (r *MySQLItemStatusRepository) UpdateAllStatuses(ctx context.Context, tx *sql.Tx, orderID uint, status, comments string, at time.Time) (int64, error) {
	query := `UPDATE ItemStatus SET status = ?, comments = ?, lastUpdated = ? WHERE orderid = ?`

	result, err := tx.ExecContext(ctx, query, status, comments, at, orderID)
	if err != nil {
		return 0, mysql.Classify(err, "updating order statuses")
	}

	return mysql.RowsAffected(result, "updating order statuses")
}
