package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"cafe/internal/config"
	"cafe/internal/infrastructure/mysql"
)

// TestDatabaseConfig points at a MySQL database called 'cafe_test' on
// localhost:3306. TEST_DB_HOST overrides the host.
func TestDatabaseConfig() config.DatabaseConfig {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		host = "localhost"
	}
	return config.DatabaseConfig{
		Host:            host,
		Port:            3306,
		User:            "root",
		Name:            "cafe_test",
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		QueryTimeout:    5 * time.Second,
	}
}

// SetupTestDB opens the test database and applies the schema migrations.
// The test is skipped when no database is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := TestDatabaseConfig()
	db, err := mysql.NewConnection(cfg)
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	if err := mysql.Migrate(cfg, zap.NewNop()); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	truncate(t, db)
	return db
}

// CleanupTestDB empties every table and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}
	truncate(t, db)
	db.Close()
}

func truncate(t *testing.T, db *sql.DB) {
	tables := []string{"ItemStatus", "Orders", "Menu", "Users"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

func InsertUser(t *testing.T, db *sql.DB, login, passwordHash, role string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO Users (login, phoneNum, password, favItems, type) VALUES (?, '', ?, '', ?)`,
		login, passwordHash, role,
	)
	if err != nil {
		t.Fatalf("failed to insert user %s: %v", login, err)
	}
}

func InsertMenuItem(t *testing.T, db *sql.DB, name, itemType, price string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO Menu (itemName, type, price, description, imageURL) VALUES (?, ?, ?, '', '')`,
		name, itemType, price,
	)
	if err != nil {
		t.Fatalf("failed to insert menu item %s: %v", name, err)
	}
}
