// Package sqlite provides a SQLite-backed implementation of storage.Cache.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/ksdfg/bill-splitter/internal/models"
	"github.com/ksdfg/bill-splitter/internal/storage"
)

// Ensure Cache implements storage.Cache
var _ storage.Cache = (*Cache)(nil)

// Cache implements storage.Cache using SQLite.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// New creates a Cache at dbPath whose entries live for ttl.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string, ttl time.Duration) (*Cache, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps the pragma below in effect for every query
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Put stores a bill and its items, replacing any entry with the same key.
func (c *Cache) Put(ctx context.Context, key string, bill *models.OCRBill) error {
	now := c.now()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Items go with their receipt via ON DELETE CASCADE
	if _, err := tx.ExecContext(ctx, "DELETE FROM receipts WHERE cache_key = ?", key); err != nil {
		return fmt.Errorf("failed to replace receipt: %w", err)
	}

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (id, cache_key, tax_rate, service_charge, amount_paid, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, key, bill.TaxRate, bill.ServiceCharge, bill.AmountPaid, now.Unix(), now.Add(c.ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i, item := range bill.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO receipt_items (receipt_id, position, name, price, quantity) VALUES (?, ?, ?, ?, ?)",
			id, i, item.Name, item.Price, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a live bill by key, including its items in receipt order.
func (c *Cache) Get(ctx context.Context, key string) (*models.OCRBill, error) {
	var id string
	bill := &models.OCRBill{}
	err := c.db.QueryRowContext(ctx,
		`SELECT id, tax_rate, service_charge, amount_paid FROM receipts
		 WHERE cache_key = ? AND expires_at > ?`,
		key, c.now().Unix(),
	).Scan(&id, &bill.TaxRate, &bill.ServiceCharge, &bill.AmountPaid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT name, price, quantity FROM receipt_items WHERE receipt_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OCRBillItem
		if err := rows.Scan(&item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan receipt item: %w", err)
		}
		bill.Items = append(bill.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipt items: %w", err)
	}

	return bill, nil
}

// PurgeExpired deletes entries past their expiry and returns how many went.
func (c *Cache) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM receipts WHERE expires_at <= ?", c.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge receipts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged receipts: %w", err)
	}
	return n, nil
}
