package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	drv "github.com/go-sql-driver/mysql"

	apperrors "cafe/internal/errors"
)

const (
	errDuplicateEntry      = 1062
	errRowIsReferenced     = 1451
	errNoReferencedRow     = 1452
	errLockWaitTimeout     = 1205
	errDeadlock            = 1213
	errCheckViolated       = 3819
	errDataTooLong         = 1406
	errOutOfRangeForColumn = 1264
)

// Classify turns a driver failure into a StoreError. Errors that already
// belong to the application taxonomy pass through untouched.
func Classify(err error, action string) error {
	if err == nil {
		return nil
	}
	if isAppError(err) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTransientStoreError(action+": timed out", err)
	}

	var mysqlErr *drv.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errDeadlock, errLockWaitTimeout:
			return apperrors.NewTransientStoreError(action+": lock conflict", err)
		case errDuplicateEntry:
			return apperrors.NewStoreError(action+": duplicate entry", err)
		case errRowIsReferenced:
			return apperrors.NewStoreError(action+": row is still referenced", err)
		case errNoReferencedRow:
			return apperrors.NewStoreError(action+": referenced row does not exist", err)
		case errCheckViolated, errDataTooLong, errOutOfRangeForColumn:
			return apperrors.NewStoreError(action+": value rejected by store", err)
		}
	}

	return apperrors.NewStoreError(action, err)
}

// IsDeadlock reports whether err was caused by a deadlock or a lock wait
// timeout, both of which are safe to retry as a whole transaction.
func IsDeadlock(err error) bool {
	var mysqlErr *drv.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == errDeadlock || mysqlErr.Number == errLockWaitTimeout
	}
	return false
}

// IsDuplicate reports a unique or primary key violation.
func IsDuplicate(err error) bool {
	var mysqlErr *drv.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry
}

func isAppError(err error) bool {
	if _, ok := apperrors.IsStoreError(err); ok {
		return true
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return true
	}
	if _, ok := apperrors.IsValidationError(err); ok {
		return true
	}
	if _, ok := apperrors.IsAuthError(err); ok {
		return true
	}
	return false
}

// RowsAffected reads the affected row count of an executed statement.
func RowsAffected(result sql.Result, action string) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, Classify(fmt.Errorf("getting rows affected: %w", err), action)
	}
	return n, nil
}
