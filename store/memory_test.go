package store

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"nfeditor/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreInvoices(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id := uuid.New()
	_, err := s.GetInvoiceByID(ctx, id)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := types.InvoiceRecord{ID: id, Number: "123", IssuerName: "ACME", CreatedAt: created, UpdatedAt: created, Version: 1}
	require.NoError(t, s.SaveInvoice(ctx, rec))

	rec.IssuerName = "NEWCO"
	rec.Version = 2
	rec.CreatedAt = created.Add(time.Hour)
	rec.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, s.SaveInvoice(ctx, rec))

	got, err := s.GetInvoiceByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "NEWCO", got.IssuerName)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, created, got.CreatedAt)
}

func TestMemoryStoreEdits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id := uuid.New()

	err := s.SaveEdit(ctx, types.EditRecord{ID: uuid.New(), InvoiceID: id})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = s.ListEdits(ctx, id)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, s.SaveInvoice(ctx, types.InvoiceRecord{ID: id, Number: "1"}))
	edits, err := s.ListEdits(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, edits)

	for _, v := range []string{"A", "B"} {
		require.NoError(t, s.SaveEdit(ctx, types.EditRecord{ID: uuid.New(), InvoiceID: id, Field: "issuer_name", NewValue: v}))
	}
	edits, err = s.ListEdits(ctx, id)
	require.NoError(t, err)
	require.Len(t, edits, 2)
	assert.Equal(t, "A", edits[0].NewValue)
	assert.Equal(t, "B", edits[1].NewValue)
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id := uuid.New()
	require.NoError(t, s.SaveInvoice(ctx, types.InvoiceRecord{ID: id}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.SaveEdit(ctx, types.EditRecord{ID: uuid.New(), InvoiceID: id})
			_, _ = s.ListEdits(ctx, id)
		}()
	}
	wg.Wait()

	edits, err := s.ListEdits(ctx, id)
	require.NoError(t, err)
	assert.Len(t, edits, 50)
}

func TestOpenWithoutHostUsesMemory(t *testing.T) {
	s, err := Open(context.Background(), types.PostgresConfig{})
	require.NoError(t, err)
	_, ok := s.(*MemoryStore)
	assert.True(t, ok)
}
