package nfe

import "fmt"

// Mutate applies edits to documentText and returns the re-serialized
// document. Edits whose target element is absent are skipped silently.
// Only element text changes; the rest of the tree is written back as read,
// modulo serializer normalization.
func Mutate(documentText string, edits Edits) (string, error) {
	doc, err := parse("mutate", documentText)
	if err != nil {
		return "", err
	}

	if edits.IssuerName != nil {
		if el := findFirst(doc.Root(), pathIssuerName); el != nil {
			el.SetText(*edits.IssuerName)
		}
	}

	out, err := serialize(doc)
	if err != nil {
		return "", newParseError("mutate", fmt.Errorf("serialize: %w", err))
	}
	return out, nil
}
