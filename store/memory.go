package store

import (
	"context"
	"database/sql"
	"sync"

	"nfeditor/types"

	"github.com/google/uuid"
)

// MemoryStore is a DBStorer kept in process memory. It is used when no
// Postgres host is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]types.InvoiceRecord
	edits    map[uuid.UUID][]types.EditRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		invoices: make(map[uuid.UUID]types.InvoiceRecord),
		edits:    make(map[uuid.UUID][]types.EditRecord),
	}
}

func (m *MemoryStore) SaveInvoice(_ context.Context, rec types.InvoiceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.invoices[rec.ID]; ok {
		rec.CreatedAt = prev.CreatedAt
	}
	m.invoices[rec.ID] = rec
	return nil
}

func (m *MemoryStore) GetInvoiceByID(_ context.Context, id uuid.UUID) (*types.InvoiceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.invoices[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &rec, nil
}

func (m *MemoryStore) SaveEdit(_ context.Context, e types.EditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.invoices[e.InvoiceID]; !ok {
		return sql.ErrNoRows
	}
	m.edits[e.InvoiceID] = append(m.edits[e.InvoiceID], e)
	return nil
}

func (m *MemoryStore) ListEdits(_ context.Context, invoiceID uuid.UUID) ([]types.EditRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.invoices[invoiceID]; !ok {
		return nil, sql.ErrNoRows
	}
	out := make([]types.EditRecord, len(m.edits[invoiceID]))
	copy(out, m.edits[invoiceID])
	return out, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
