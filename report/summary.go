// Package report renders a printable summary of an NF-e snapshot.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"

	"nfeditor/nfe"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const (
	pageTop       = 800.0
	pageLeft      = 40.0
	lineHeight    = 14.0
	itemsPerPage  = 45
	descriptionW  = 34
	bodyFontSize  = 9
	titleFontSize = 14
)

func init() {
	// Rendering only needs the built-in defaults.
	api.DisableConfigDir()
}

type description struct {
	Paper  string          `json:"paper"`
	Origin string          `json:"origin"`
	Pages  map[string]page `json:"pages"`
}

type page struct {
	Content content `json:"content"`
}

type content struct {
	Text []textBox `json:"text"`
}

type textBox struct {
	Value string    `json:"value"`
	Pos   []float64 `json:"pos"`
	Font  font      `json:"font"`
}

type font struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Summary renders snap as an A4 PDF.
func Summary(snap nfe.Snapshot) ([]byte, error) {
	desc, err := Description(snap)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(desc), &buf, api.LoadConfiguration()); err != nil {
		return nil, fmt.Errorf("failed to render summary: %w", err)
	}
	return buf.Bytes(), nil
}

// Description builds the pdfcpu content description for snap: header
// fields on the first page, line items paginated, totals after the last
// item.
func Description(snap nfe.Snapshot) ([]byte, error) {
	pages := map[string]page{}
	w := &pageWriter{pages: pages, number: 1, y: pageTop}

	w.line("NF-e "+snap.InvoiceNumber, "Helvetica-Bold", titleFontSize)
	w.skip()
	w.line("Emitente: "+orDash(snap.IssuerName)+"  CNPJ "+orDash(snap.IssuerTaxID), "Helvetica", bodyFontSize+1)
	w.line("Destinatario: "+orDash(snap.RecipientName)+"  CNPJ "+orDash(snap.RecipientTaxID), "Helvetica", bodyFontSize+1)
	w.skip()
	w.line(itemHeader(), "Courier-Bold", bodyFontSize)

	for i, item := range snap.LineItems {
		if i > 0 && i%itemsPerPage == 0 {
			w.newPage()
			w.line(itemHeader(), "Courier-Bold", bodyFontSize)
		}
		w.line(itemRow(item), "Courier", bodyFontSize)
	}
	if len(snap.LineItems) == 0 {
		w.line("(sem itens)", "Courier", bodyFontSize)
	}

	w.skip()
	w.line("Valor dos produtos: "+orDash(snap.TotalProductsValue), "Helvetica", bodyFontSize+1)
	w.line("Valor da nota: "+orDash(snap.TotalInvoiceValue), "Helvetica-Bold", bodyFontSize+1)

	return json.Marshal(description{
		Paper:  "A4P",
		Origin: "LowerLeft",
		Pages:  pages,
	})
}

type pageWriter struct {
	pages  map[string]page
	number int
	y      float64
}

func (w *pageWriter) line(value, fontName string, size int) {
	key := strconv.Itoa(w.number)
	p := w.pages[key]
	p.Content.Text = append(p.Content.Text, textBox{
		Value: value,
		Pos:   []float64{pageLeft, w.y},
		Font:  font{Name: fontName, Size: size},
	})
	w.pages[key] = p
	w.y -= lineHeight
}

func (w *pageWriter) skip() {
	w.y -= lineHeight / 2
}

func (w *pageWriter) newPage() {
	w.number++
	w.y = pageTop
}

func itemHeader() string {
	return fmt.Sprintf("%-10s %-*s %-4s %10s %12s %12s", "Codigo", descriptionW, "Descricao", "Un", "Qtd", "Unitario", "Total")
}

func itemRow(item nfe.LineItem) string {
	return fmt.Sprintf("%-10s %-*s %-4s %10s %12s %12s",
		truncate(item.Code, 10), descriptionW, truncate(item.Description, descriptionW),
		truncate(item.Unit, 4), item.Quantity, item.UnitPrice, item.TotalValue)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "~"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
