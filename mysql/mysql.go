// Package mysql provides MySQL-based storage implementations for couponcrawl services.
package mysql

import (
	"context"
	"database/sql"
	"net"
	"strconv"
	"time"

	"github.com/fwojciec/couponcrawl"
	gomysql "github.com/go-sql-driver/mysql"
)

// Connection pool limits.
const (
	maxOpenConns    = 10
	connMaxLifetime = 5 * time.Minute
)

// Config holds MySQL connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// DSN formats the settings as a go-sql-driver DSN.
func (c Config) DSN() string {
	cfg := gomysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Timeout = 10 * time.Second
	return cfg.FormatDSN()
}

// DB represents a MySQL connection pool.
type DB struct {
	db  *sql.DB
	dsn string
}

// NewDB creates a new DB for the given DSN.
func NewDB(dsn string) *DB {
	return &DB{dsn: dsn}
}

// NewDBFromConn wraps an existing connection pool. The schema is assumed to exist.
func NewDBFromConn(conn *sql.DB) *DB {
	return &DB{db: conn}
}

// Open connects and creates the schema if needed.
// Connection failures are reported as EUNAVAILABLE.
func (db *DB) Open() error {
	conn, err := sql.Open("mysql", db.dsn)
	if err != nil {
		return couponcrawl.WrapError(couponcrawl.EUNAVAILABLE, err, "failed to open database")
	}
	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetConnMaxLifetime(connMaxLifetime)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return couponcrawl.WrapError(couponcrawl.EUNAVAILABLE, err, "failed to connect to database")
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return couponcrawl.WrapError(couponcrawl.EUNAVAILABLE, err, "failed to create schema")
	}
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// Ping verifies the connection is still alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *DB) createSchema() error {
	_, err := db.db.Exec(`
		CREATE TABLE IF NOT EXISTS courses (
			id CHAR(36) NOT NULL PRIMARY KEY,
			url VARCHAR(768) NOT NULL,
			name VARCHAR(512) NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			image VARCHAR(1024) NULL,
			content_hash VARCHAR(16) NOT NULL DEFAULT '',
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			UNIQUE KEY uq_courses_url (url),
			KEY idx_courses_name (name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
	`)
	return err
}
