package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kondetiramya/AccountingTestProject/internal/core"
	"github.com/kondetiramya/AccountingTestProject/internal/sheets"

	_ "modernc.org/sqlite"
)

// timeLayout is used for every timestamp column; values are stored in UTC.
const timeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ sheets.InvoiceLister = (*SQLiteRepository)(nil)
	_ sheets.InvoiceWriter = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveInvoices stores invoices and their items in a single transaction.
func (r *SQLiteRepository) SaveInvoices(ctx context.Context, invoices []*core.Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	items := 0
	for _, inv := range invoices {
		if inv == nil {
			continue
		}
		if err := insertInvoice(ctx, tx, inv); err != nil {
			return err
		}
		items += len(inv.Items)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Invoices saved to SQLite",
		"invoices", len(invoices),
		"items", items)

	return nil
}

// SaveInvoice stores a single invoice with its items.
func (r *SQLiteRepository) SaveInvoice(ctx context.Context, inv *core.Invoice) error {
	return r.SaveInvoices(ctx, []*core.Invoice{inv})
}

func insertInvoice(ctx context.Context, tx *sql.Tx, inv *core.Invoice) error {
	var accepted sql.NullString
	if inv.AcceptanceDate != nil {
		accepted = sql.NullString{String: inv.AcceptanceDate.UTC().Format(timeLayout), Valid: true}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO invoices (invoice_id, number, description, seller, buyer, creation_date, acceptance_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Number, inv.Description, inv.Seller, inv.Buyer,
		inv.CreationDate.UTC().Format(timeLayout), accepted)
	if err != nil {
		return fmt.Errorf("insert invoice %d: %w", inv.ID, err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("invoice %d row id: %w", inv.ID, err)
	}

	for pos, it := range inv.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_items (invoice_row_id, position, name, count, price) VALUES (?, ?, ?, ?, ?)`,
			rowID, pos, it.Name, int64(it.Count), it.Price.String())
		if err != nil {
			return fmt.Errorf("insert item %d of invoice %d: %w", pos, inv.ID, err)
		}
	}
	return nil
}

// ListInvoices implements sheets.InvoiceLister. Invoices are returned in
// insertion order with items in their original order.
func (r *SQLiteRepository) ListInvoices(ctx context.Context) ([]*core.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT row_id, invoice_id, number, description, seller, buyer, creation_date, acceptance_date
		 FROM invoices ORDER BY row_id`)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*core.Invoice
	byRow := make(map[int64]*core.Invoice)
	for rows.Next() {
		var (
			rowID    int64
			inv      core.Invoice
			created  string
			accepted sql.NullString
		)
		if err := rows.Scan(&rowID, &inv.ID, &inv.Number, &inv.Description, &inv.Seller, &inv.Buyer, &created, &accepted); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		if inv.CreationDate, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse creation date of invoice %d: %w", inv.ID, err)
		}
		if accepted.Valid {
			t, err := time.Parse(timeLayout, accepted.String)
			if err != nil {
				return nil, fmt.Errorf("parse acceptance date of invoice %d: %w", inv.ID, err)
			}
			inv.AcceptanceDate = &t
		}
		invoices = append(invoices, &inv)
		byRow[rowID] = &inv
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}

	if err := r.loadItems(ctx, byRow); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Invoices loaded from SQLite", "invoices", len(invoices))
	return invoices, nil
}

func (r *SQLiteRepository) loadItems(ctx context.Context, byRow map[int64]*core.Invoice) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT invoice_row_id, name, count, price FROM invoice_items ORDER BY invoice_row_id, position`)
	if err != nil {
		return fmt.Errorf("query invoice items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rowID int64
			name  string
			count int64
			price string
		)
		if err := rows.Scan(&rowID, &name, &count, &price); err != nil {
			return fmt.Errorf("scan invoice item: %w", err)
		}
		inv, ok := byRow[rowID]
		if !ok {
			continue
		}
		p, err := core.ParseMoney(price)
		if err != nil {
			return fmt.Errorf("parse price of item %q: %w", name, err)
		}
		inv.Items = append(inv.Items, core.InvoiceItem{Name: name, Count: uint32(count), Price: p})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate invoice items: %w", err)
	}
	return nil
}

// CountInvoices returns the number of stored invoice rows.
func (r *SQLiteRepository) CountInvoices(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}
