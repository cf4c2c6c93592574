package types

import (
	"time"

	"github.com/google/uuid"

	"nfeditor/nfe"
)

// documentNamespace seeds the name-based invoice ids.
var documentNamespace = uuid.MustParse("6f1b0c52-8e57-4d1f-9a43-2f8d54c1e0a7")

type InvoiceSource string

const (
	SourceUpload InvoiceSource = "upload"
	SourceInbox  InvoiceSource = "inbox"
	SourceCLI    InvoiceSource = "cli"
)

// InvoiceRecord is the stored history row for one invoice.
type InvoiceRecord struct {
	ID             uuid.UUID     `json:"id"`
	Number         string        `json:"invoice_number"`
	IssuerTaxID    string        `json:"issuer_tax_id"`
	IssuerName     string        `json:"issuer_name"`
	RecipientTaxID string        `json:"recipient_tax_id"`
	RecipientName  string        `json:"recipient_name"`
	TotalProducts  string        `json:"total_products_value"`
	TotalInvoice   string        `json:"total_invoice_value"`
	ItemCount      int           `json:"item_count"`
	Source         InvoiceSource `json:"source"`
	SourcePath     string        `json:"source_path"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Version        int           `json:"version"`
}

// EditRecord is one applied field overwrite.
type EditRecord struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentID derives the invoice id from the issuer tax id and the invoice
// number, so it survives issuer-name edits.
func DocumentID(snap nfe.Snapshot) uuid.UUID {
	return uuid.NewSHA1(documentNamespace, []byte(snap.IssuerTaxID+"/"+snap.InvoiceNumber))
}

// NewInvoiceRecord fills a version 1 record from a snapshot.
func NewInvoiceRecord(snap nfe.Snapshot, source InvoiceSource, sourcePath string, at time.Time) InvoiceRecord {
	return InvoiceRecord{
		ID:             DocumentID(snap),
		Number:         snap.InvoiceNumber,
		IssuerTaxID:    snap.IssuerTaxID,
		IssuerName:     snap.IssuerName,
		RecipientTaxID: snap.RecipientTaxID,
		RecipientName:  snap.RecipientName,
		TotalProducts:  snap.TotalProductsValue,
		TotalInvoice:   snap.TotalInvoiceValue,
		ItemCount:      len(snap.LineItems),
		Source:         source,
		SourcePath:     sourcePath,
		CreatedAt:      at,
		UpdatedAt:      at,
		Version:        1,
	}
}
