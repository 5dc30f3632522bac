package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrSupplierNotFound поставщик не найден в справочнике
var ErrSupplierNotFound = errors.New("supplier not found")

// ErrBatchNotFound отчет батча не найден
var ErrBatchNotFound = errors.New("batch not found")

// Supplier поставщик прайс-листов
type Supplier struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	DefaultCurrency string    `json:"default_currency"`
	CreatedAt       time.Time `json:"created_at"`
}

// PricingRecord закоммиченная запись прайс-листа
type PricingRecord struct {
	ID         int64     `json:"id"`
	SupplierID int       `json:"supplier_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Currency   string    `json:"currency"`
	Unit       string    `json:"unit"`
	Category   string    `json:"category"`
	SKU        string    `json:"sku,omitempty"`
	BatchUUID  string    `json:"batch_uuid"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateSupplier создает поставщика
func (db *DB) CreateSupplier(name, defaultCurrency string) (*Supplier, error) {
	res, err := db.conn.Exec(
		`INSERT INTO suppliers (name, default_currency) VALUES (?, ?)`,
		name, defaultCurrency,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier id: %w", err)
	}
	return db.GetSupplier(int(id))
}

// GetSupplier получает поставщика по идентификатору
func (db *DB) GetSupplier(id int) (*Supplier, error) {
	var s Supplier
	err := db.conn.QueryRow(
		`SELECT id, name, default_currency, created_at FROM suppliers WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.DefaultCurrency, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSupplierNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return &s, nil
}

// GetAllSuppliers получает всех поставщиков
func (db *DB) GetAllSuppliers() ([]*Supplier, error) {
	rows, err := db.conn.Query(`SELECT id, name, default_currency, created_at FROM suppliers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.DefaultCurrency, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, &s)
	}
	return suppliers, rows.Err()
}

// GetPricingRecords получает закоммиченные записи поставщика.
// Только для чтения: используется межбатчевой проверкой дубликатов
// и API выдачи прайса.
func (db *DB) GetPricingRecords(supplierID int) ([]*PricingRecord, error) {
	rows, err := db.conn.Query(
		`SELECT id, supplier_id, name, price_cents, currency, unit, category,
		        COALESCE(sku, ''), batch_uuid, created_at, updated_at
		 FROM pricing_records WHERE supplier_id = ? ORDER BY id`, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pricing records: %w", err)
	}
	defer rows.Close()

	var records []*PricingRecord
	for rows.Next() {
		var r PricingRecord
		err := rows.Scan(&r.ID, &r.SupplierID, &r.Name, &r.PriceCents, &r.Currency,
			&r.Unit, &r.Category, &r.SKU, &r.BatchUUID, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pricing record: %w", err)
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

// CommitBatch атомарно записывает принятый набор батча: вставки новых
// записей и обновления существующих выполняются в одной транзакции.
// При любой ошибке транзакция откатывается целиком - частичная запись
// не видна читателям.
func (db *DB) CommitBatch(batchUUID string, inserts []*PricingRecord, updates []*PricingRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range inserts {
		_, err := tx.Exec(
			`INSERT INTO pricing_records (supplier_id, name, price_cents, currency, unit, category, sku, batch_uuid)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.SupplierID, rec.Name, rec.PriceCents, rec.Currency, rec.Unit, rec.Category, rec.SKU, batchUUID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert pricing record %q: %w", rec.Name, err)
		}
	}

	for _, rec := range updates {
		_, err := tx.Exec(
			`UPDATE pricing_records
			 SET name = ?, price_cents = ?, currency = ?, unit = ?, category = ?, sku = ?,
			     batch_uuid = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			rec.Name, rec.PriceCents, rec.Currency, rec.Unit, rec.Category, rec.SKU, batchUUID, rec.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update pricing record %d: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// SaveBatchReport сохраняет итоговый отчет батча
func (db *DB) SaveBatchReport(batchUUID string, supplierID int, filename, status string, report interface{}) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = db.conn.Exec(
		`INSERT INTO import_batches (uuid, supplier_id, filename, status, report_json, finished_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(uuid) DO UPDATE SET status = excluded.status,
		     report_json = excluded.report_json, finished_at = excluded.finished_at`,
		batchUUID, supplierID, filename, status, string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save batch report: %w", err)
	}
	return nil
}

// GetBatchReport получает сохраненный отчет батча как JSON
func (db *DB) GetBatchReport(batchUUID string) (json.RawMessage, error) {
	var reportJSON string
	err := db.conn.QueryRow(
		`SELECT report_json FROM import_batches WHERE uuid = ?`, batchUUID,
	).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch report: %w", err)
	}
	return json.RawMessage(reportJSON), nil
}
