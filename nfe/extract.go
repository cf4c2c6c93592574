package nfe

import (
	"fmt"
	"strings"
)

var (
	pathInvoiceNumber  = path("nNF")
	pathIssuerTaxID    = path("emit", "CNPJ")
	pathIssuerName     = path("emit", "xNome")
	pathRecipientTaxID = path("dest", "CNPJ")
	pathRecipientName  = path("dest", "xNome")
	pathTotalProducts  = path("vProd")
	pathTotalInvoice   = path("vNF")

	nameLineItem = nfeName("det")
)

// lineItemFields are the det sub-elements, in LineItem field order.
var lineItemFields = []string{"cProd", "xProd", "uCom", "qCom", "vUnCom", "vProd"}

// Extract reads the review fields out of an NF-e document. It fails with a
// *ParseError when the document is malformed, has no nNF, or any det lacks
// one of its six sub-elements.
func Extract(documentText string) (Snapshot, error) {
	doc, err := parse("extract", documentText)
	if err != nil {
		return Snapshot{}, err
	}
	root := doc.Root()

	number := findFirst(root, pathInvoiceNumber)
	if number == nil {
		return Snapshot{}, newParseError("extract", ErrMissingInvoiceNumber)
	}

	snap := Snapshot{
		InvoiceNumber:      number.Text(),
		IssuerTaxID:        textOf(findFirst(root, pathIssuerTaxID)),
		IssuerName:         textOf(findFirst(root, pathIssuerName)),
		RecipientTaxID:     textOf(findFirst(root, pathRecipientTaxID)),
		RecipientName:      textOf(findFirst(root, pathRecipientName)),
		TotalProductsValue: textOf(findFirst(root, pathTotalProducts)),
		TotalInvoiceValue:  textOf(findFirst(root, pathTotalInvoice)),
		LineItems:          []LineItem{},
	}

	for i, det := range findAll(root, nameLineItem) {
		values := make([]string, len(lineItemFields))
		var missing []string
		for j, field := range lineItemFields {
			el := findFirst(det, path(field))
			if el == nil {
				missing = append(missing, field)
				continue
			}
			values[j] = el.Text()
		}
		if len(missing) > 0 {
			return Snapshot{}, newParseError("extract",
				fmt.Errorf("%w: det %d missing %s", ErrMissingLineItemField, i+1, strings.Join(missing, ", ")))
		}
		snap.LineItems = append(snap.LineItems, LineItem{
			Code:        values[0],
			Description: values[1],
			Unit:        values[2],
			Quantity:    values[3],
			UnitPrice:   values[4],
			TotalValue:  values[5],
		})
	}

	return snap, nil
}
