package nfe

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

func parse(op, documentText string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromString(documentText); err != nil {
		return nil, newParseError(op, fmt.Errorf("%w: %v", ErrMalformedDocument, err))
	}
	if err := checkProlog(doc); err != nil {
		return nil, newParseError(op, err)
	}
	return doc, nil
}

// checkProlog requires exactly one element at document level. Only
// whitespace, comments, processing instructions and directives may
// surround it.
func checkProlog(doc *etree.Document) error {
	elements := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			elements++
			if elements > 1 {
				return fmt.Errorf("%w: junk after document element <%s>", ErrMalformedDocument, t.Tag)
			}
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return fmt.Errorf("%w: text outside the document element", ErrMalformedDocument)
			}
		}
	}
	if elements == 0 {
		return fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	return nil
}

// serialize writes doc as UTF-8 behind a fixed XML declaration. Any
// declaration read from the input is dropped first.
func serialize(doc *etree.Document) (string, error) {
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			doc.RemoveChild(pi)
			break
		}
	}
	body, err := doc.WriteToString()
	if err != nil {
		return "", err
	}
	return xmlDeclaration + "\n" + strings.TrimLeft(body, " \t\r\n"), nil
}
