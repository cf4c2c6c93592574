package nfe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestMutateIssuerNameRoundTrip(t *testing.T) {
	out, err := Mutate(sampleInvoice, Edits{IssuerName: ptr("NEWCO")})
	require.NoError(t, err)

	snap, err := Extract(out)
	require.NoError(t, err)
	assert.Equal(t, "NEWCO", snap.IssuerName)
	assert.Equal(t, "123", snap.InvoiceNumber)
	// dest/xNome is a different path and stays put.
	assert.Equal(t, "Cliente Exemplo LTDA", snap.RecipientName)
	assert.Len(t, snap.LineItems, 2)
}

func TestMutateIdempotent(t *testing.T) {
	edits := Edits{IssuerName: ptr("A")}
	once, err := Mutate(sampleInvoice, edits)
	require.NoError(t, err)
	twice, err := Mutate(once, edits)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	snap, err := Extract(twice)
	require.NoError(t, err)
	assert.Equal(t, "A", snap.IssuerName)
}

func TestMutateWithoutIssuerIsNoop(t *testing.T) {
	out, err := Mutate(headerOnlyInvoice, Edits{IssuerName: ptr("X")})
	require.NoError(t, err)
	assert.Equal(t, xmlDeclaration+"\n"+headerOnlyInvoice, out)
}

func TestMutateNilEditLeavesIssuer(t *testing.T) {
	out, err := Mutate(sampleInvoice, Edits{})
	require.NoError(t, err)
	snap, err := Extract(out)
	require.NoError(t, err)
	assert.Equal(t, "ACME", snap.IssuerName)
}

func TestMutatePreservesUnknownContent(t *testing.T) {
	out, err := Mutate(sampleInvoice, Edits{IssuerName: ptr("NEWCO")})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, xmlDeclaration))
	assert.Equal(t, 1, strings.Count(out, "<?xml"))
	assert.Contains(t, out, `<ext:note>kept</ext:note>`)
	assert.Contains(t, out, `Id="NFe35240111111111000100550010000001231000001234"`)
	assert.Contains(t, out, `<det nItem="2">`)
	assert.NotContains(t, out, "<xNome>ACME</xNome>")
}

func TestMutateEscapesText(t *testing.T) {
	out, err := Mutate(sampleInvoice, Edits{IssuerName: ptr("A & B <Comercio>")})
	require.NoError(t, err)
	snap, err := Extract(out)
	require.NoError(t, err)
	assert.Equal(t, "A & B <Comercio>", snap.IssuerName)
}

func TestMutateRewritesDeclarationToUTF8(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<NFe xmlns=\"http://www.portalfiscal.inf.br/nfe\"><nNF>9</nNF><emit><xNome>Jo\xe3o</xNome></emit></NFe>"
	out, err := Mutate(doc, Edits{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, xmlDeclaration))
	assert.NotContains(t, out, "ISO-8859-1")
	assert.Contains(t, out, "João")
}

func TestMutateMalformed(t *testing.T) {
	_, err := Mutate("<not-xml", Edits{IssuerName: ptr("A")})
	require.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, "mutate", perr.Op)

	for _, doc := range junkDocuments {
		out, err := Mutate(doc, Edits{IssuerName: ptr("NEWCO")})
		require.Error(t, err, "%q", doc)
		assert.ErrorIs(t, err, ErrMalformedDocument, "%q", doc)
		assert.Empty(t, out)
	}
}
