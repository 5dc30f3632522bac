package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBConfig конфигурация подключения к базе данных
type DBConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultDBConfig возвращает конфигурацию пула соединений по умолчанию
func DefaultDBConfig(path string) DBConfig {
	return DBConfig{
		Path:            path,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DB хранилище записей прайс-листов: поставщики, закоммиченные записи
// и отчеты импорта. Единственная точка записи - атомарный коммит батча.
type DB struct {
	conn *sql.DB
}

// NewDB открывает базу данных и применяет миграции
func NewDB(config DBConfig) (*DB, error) {
	conn, err := sql.Open("sqlite3", config.Path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(config.MaxOpenConns)
	conn.SetMaxIdleConns(config.MaxIdleConns)
	conn.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.runMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Printf("[Database] Opened %s", config.Path)
	return db, nil
}

// Close закрывает соединение с базой данных
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetConnection возвращает низкоуровневое соединение (для тестов и миграций)
func (db *DB) GetConnection() *sql.DB {
	return db.conn
}
