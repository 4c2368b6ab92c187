package mysql

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"

	drv "github.com/go-sql-driver/mysql"

	"cafe/internal/config"
)

func DSN(cfg config.DatabaseConfig) string {
	c := drv.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Name
	c.ParseTime = true
	// report matched rather than changed rows so an update that rewrites the
	// same values is not mistaken for a missing row
	c.ClientFoundRows = true
	return c.FormatDSN()
}

func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
