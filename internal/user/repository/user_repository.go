package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cafe/internal/domain"
	apperrors "cafe/internal/errors"
	"cafe/internal/infrastructure/mysql"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

func (r *MySQLUserRepository) Insert(ctx context.Context, user domain.User) error {
	query := `INSERT INTO Users (login, phoneNum, password, favItems, type) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.Login, user.Phone, user.PasswordHash, user.FavItems, string(user.Role))
	if err != nil {
		return mysql.Classify(err, "inserting user")
	}
	return nil
}

func (r *MySQLUserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
		SELECT login, COALESCE(phoneNum, ''), password, COALESCE(favItems, ''), type
		FROM Users
		WHERE login = ?
	`

	var (
		user domain.User
		role string
	)
	err := r.db.QueryRowContext(ctx, query, login).Scan(
		&user.Login, &user.Phone, &user.PasswordHash, &user.FavItems, &role,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", login))
	}
	if err != nil {
		return nil, mysql.Classify(err, "querying user by login")
	}

	user.Login = strings.TrimSpace(user.Login)
	user.Role = parseStoredRole(role)
	return &user, nil
}

func (r *MySQLUserRepository) FindRole(ctx context.Context, login string) (domain.Role, error) {
	query := `SELECT type FROM Users WHERE login = ?`

	var role string
	err := r.db.QueryRowContext(ctx, query, login).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", login))
	}
	if err != nil {
		return "", mysql.Classify(err, "querying user role")
	}

	return parseStoredRole(role), nil
}

func (r *MySQLUserRepository) Update(ctx context.Context, user domain.User) error {
	query := `UPDATE Users SET phoneNum = ?, password = ?, favItems = ?, type = ? WHERE login = ?`

	result, err := r.db.ExecContext(ctx, query, user.Phone, user.PasswordHash, user.FavItems, string(user.Role), user.Login)
	if err != nil {
		return mysql.Classify(err, "updating user")
	}

	rowsAffected, err := mysql.RowsAffected(result, "updating user")
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", user.Login))
	}

	return nil
}

// parseStoredRole keeps unknown role values verbatim so they never compare
// equal to a known role.
func parseStoredRole(raw string) domain.Role {
	if role, ok := domain.ParseRole(raw); ok {
		return role
	}
	return domain.Role(strings.TrimSpace(raw))
}
