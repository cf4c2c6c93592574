package nfe

// Snapshot holds the fields of an NF-e shown for review. Optional header
// fields are "" when the document lacks them; LineItems is never nil.
type Snapshot struct {
	InvoiceNumber      string     `json:"invoice_number" yaml:"invoice_number"`
	IssuerTaxID        string     `json:"issuer_tax_id" yaml:"issuer_tax_id"`
	IssuerName         string     `json:"issuer_name" yaml:"issuer_name"`
	RecipientTaxID     string     `json:"recipient_tax_id" yaml:"recipient_tax_id"`
	RecipientName      string     `json:"recipient_name" yaml:"recipient_name"`
	TotalProductsValue string     `json:"total_products_value" yaml:"total_products_value"`
	TotalInvoiceValue  string     `json:"total_invoice_value" yaml:"total_invoice_value"`
	LineItems          []LineItem `json:"line_items" yaml:"line_items"`
}

// LineItem is one det entry. Values are copied verbatim from the document.
type LineItem struct {
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
	Unit        string `json:"unit" yaml:"unit"`
	Quantity    string `json:"quantity" yaml:"quantity"`
	UnitPrice   string `json:"unit_price" yaml:"unit_price"`
	TotalValue  string `json:"total_value" yaml:"total_value"`
}

// Edits lists the field overwrites applied by Mutate. Nil members are left
// untouched.
type Edits struct {
	IssuerName *string `json:"issuer_name,omitempty"`
}
