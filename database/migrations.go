package database

import "fmt"

// migrations упорядоченный список миграций схемы.
// Применяются последовательно; выполненные версии фиксируются
// в schema_migrations.
var migrations = []string{
	// 1: поставщики
	`CREATE TABLE IF NOT EXISTS suppliers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		default_currency TEXT NOT NULL DEFAULT 'USD',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// 2: закоммиченные записи прайс-листов
	`CREATE TABLE IF NOT EXISTS pricing_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		supplier_id INTEGER NOT NULL REFERENCES suppliers(id),
		name TEXT NOT NULL,
		price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
		currency TEXT NOT NULL,
		unit TEXT NOT NULL,
		category TEXT NOT NULL,
		sku TEXT,
		batch_uuid TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// 3: индекс для межбатчевой проверки дубликатов по поставщику
	`CREATE INDEX IF NOT EXISTS idx_pricing_supplier
		ON pricing_records(supplier_id, name, unit)`,

	// 4: отчеты импорта (итоговый отчет хранится как JSON)
	`CREATE TABLE IF NOT EXISTS import_batches (
		uuid TEXT PRIMARY KEY,
		supplier_id INTEGER NOT NULL REFERENCES suppliers(id),
		filename TEXT NOT NULL,
		status TEXT NOT NULL,
		report_json TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP
	)`,
}

// runMigrations применяет недостающие миграции
func (db *DB) runMigrations() error {
	_, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	if err := db.conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		if _, err := db.conn.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.conn.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}
