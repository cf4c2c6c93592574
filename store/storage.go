package store

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"nfeditor/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBStorer keeps the upload and edit history. Unknown ids are reported as
// sql.ErrNoRows.
type DBStorer interface {
	SaveInvoice(context.Context, types.InvoiceRecord) error
	GetInvoiceByID(context.Context, uuid.UUID) (*types.InvoiceRecord, error)
	SaveEdit(context.Context, types.EditRecord) error
	ListEdits(context.Context, uuid.UUID) ([]types.EditRecord, error)
	Close() error
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
	}, nil
}

func (p *PostgresStore) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*types.InvoiceRecord, error) {
	query := `SELECT id, invoice_number, issuer_tax_id, issuer_name, recipient_tax_id, recipient_name,
		total_products, total_invoice, item_count, source, source_path, created_at, updated_at, version
		FROM invoices WHERE id = $1`

	rec := &types.InvoiceRecord{}
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.Number,
		&rec.IssuerTaxID,
		&rec.IssuerName,
		&rec.RecipientTaxID,
		&rec.RecipientName,
		&rec.TotalProducts,
		&rec.TotalInvoice,
		&rec.ItemCount,
		&rec.Source,
		&rec.SourcePath,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *PostgresStore) SaveInvoice(ctx context.Context, rec types.InvoiceRecord) error {
	query := `INSERT INTO invoices (id, invoice_number, issuer_tax_id, issuer_name, recipient_tax_id, recipient_name,
			total_products, total_invoice, item_count, source, source_path, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			invoice_number = EXCLUDED.invoice_number,
			issuer_tax_id = EXCLUDED.issuer_tax_id,
			issuer_name = EXCLUDED.issuer_name,
			recipient_tax_id = EXCLUDED.recipient_tax_id,
			recipient_name = EXCLUDED.recipient_name,
			total_products = EXCLUDED.total_products,
			total_invoice = EXCLUDED.total_invoice,
			item_count = EXCLUDED.item_count,
			source = EXCLUDED.source,
			source_path = EXCLUDED.source_path,
			updated_at = EXCLUDED.updated_at,
			version = EXCLUDED.version
			`
	_, err := p.pool.Exec(
		ctx,
		query,
		rec.ID,
		rec.Number,
		rec.IssuerTaxID,
		rec.IssuerName,
		rec.RecipientTaxID,
		rec.RecipientName,
		rec.TotalProducts,
		rec.TotalInvoice,
		rec.ItemCount,
		rec.Source,
		rec.SourcePath,
		rec.CreatedAt,
		rec.UpdatedAt,
		rec.Version,
	)

	return err
}

func (p *PostgresStore) SaveEdit(ctx context.Context, e types.EditRecord) error {
	query := `
    INSERT INTO invoice_edits (id, invoice_id, field, old_value, new_value, created_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := p.pool.Exec(ctx, query,
		e.ID, e.InvoiceID, e.Field, e.OldValue, e.NewValue, e.CreatedAt,
	)
	return err
}

func (p *PostgresStore) ListEdits(ctx context.Context, invoiceID uuid.UUID) ([]types.EditRecord, error) {
	if _, err := p.GetInvoiceByID(ctx, invoiceID); err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, invoice_id, field, old_value, new_value, created_at
		FROM invoice_edits
		WHERE invoice_id = $1
		ORDER BY created_at, id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edits := []types.EditRecord{}
	for rows.Next() {
		var e types.EditRecord
		if err := rows.Scan(&e.ID, &e.InvoiceID, &e.Field, &e.OldValue, &e.NewValue, &e.CreatedAt); err != nil {
			return nil, err
		}
		edits = append(edits, e)
	}
	return edits, rows.Err()
}

func (p *PostgresStore) createInvoiceTables(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY,
		invoice_number TEXT NOT NULL,
		issuer_tax_id TEXT NOT NULL DEFAULT '',
		issuer_name TEXT NOT NULL DEFAULT '',
		recipient_tax_id TEXT NOT NULL DEFAULT '',
		recipient_name TEXT NOT NULL DEFAULT '',
		total_products TEXT NOT NULL DEFAULT '',
		total_invoice TEXT NOT NULL DEFAULT '',
		item_count INTEGER NOT NULL DEFAULT 0,
		source TEXT CHECK (source IN ('upload','inbox','cli')),
		source_path TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE,
		updated_at TIMESTAMP WITH TIME ZONE,
		version INTEGER DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_number ON invoices(invoice_number);

	CREATE TABLE IF NOT EXISTS invoice_edits (
		id UUID PRIMARY KEY,
		invoice_id UUID NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
		field TEXT NOT NULL,
		old_value TEXT NOT NULL,
		new_value TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invoice_edits_invoice_id ON invoice_edits(invoice_id);
    `
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresStore) Init(ctx context.Context) error {
	return p.createInvoiceTables(ctx)
}

// Close releases the connection pool.
func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
