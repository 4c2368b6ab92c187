package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cafe/internal/domain"
	apperrors "cafe/internal/errors"
	"cafe/internal/infrastructure/mysql"
)

const menuColumns = `itemName, type, price, COALESCE(description, ''), COALESCE(imageURL, '')`

type MySQLMenuRepository struct {
	db *sql.DB
}

func NewMySQLMenuRepository(db *sql.DB) *MySQLMenuRepository {
	return &MySQLMenuRepository{db: db}
}

func (r *MySQLMenuRepository) ListAll(ctx context.Context) ([]domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM Menu ORDER BY itemName`
	return r.queryItems(ctx, query)
}

func (r *MySQLMenuRepository) FindByName(ctx context.Context, name string) ([]domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM Menu WHERE itemName = ?`
	return r.queryItems(ctx, query, name)
}

func (r *MySQLMenuRepository) FindByType(ctx context.Context, itemType string) ([]domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM Menu WHERE type = ? ORDER BY itemName`
	return r.queryItems(ctx, query, itemType)
}

// FindForShare reads one item under a shared lock so it cannot be deleted or
// repriced before tx commits.
func (r *MySQLMenuRepository) FindForShare(ctx context.Context, tx *sql.Tx, name string) (*domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM Menu WHERE itemName = ? LOCK IN SHARE MODE`

	var item domain.MenuItem
	err := tx.QueryRowContext(ctx, query, name).Scan(
		&item.Name, &item.Type, &item.Price, &item.Description, &item.ImageURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("menu item %s not found", name))
	}
	if err != nil {
		return nil, mysql.Classify(err, "querying menu item for share")
	}

	return &item, nil
}

func (r *MySQLMenuRepository) Insert(ctx context.Context, item domain.MenuItem) error {
	query := `INSERT INTO Menu (itemName, type, price, description, imageURL) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, item.Name, item.Type, item.Price, item.Description, item.ImageURL)
	if err != nil {
		return mysql.Classify(err, "inserting menu item")
	}
	return nil
}

func (r *MySQLMenuRepository) Update(ctx context.Context, item domain.MenuItem) error {
	query := `UPDATE Menu SET price = ?, description = ?, imageURL = ? WHERE itemName = ?`

	result, err := r.db.ExecContext(ctx, query, item.Price, item.Description, item.ImageURL, item.Name)
	if err != nil {
		return mysql.Classify(err, "updating menu item")
	}

	rowsAffected, err := mysql.RowsAffected(result, "updating menu item")
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("menu item %s not found", item.Name))
	}

	return nil
}

func (r *MySQLMenuRepository) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM Menu WHERE itemName = ?`

	result, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return mysql.Classify(err, "deleting menu item")
	}

	rowsAffected, err := mysql.RowsAffected(result, "deleting menu item")
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("menu item %s not found", name))
	}

	return nil
}

func (r *MySQLMenuRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mysql.Classify(err, "querying menu")
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.Name, &item.Type, &item.Price, &item.Description, &item.ImageURL); err != nil {
			return nil, mysql.Classify(fmt.Errorf("scanning menu row: %w", err), "querying menu")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(fmt.Errorf("iterating menu rows: %w", err), "querying menu")
	}

	return items, nil
}
