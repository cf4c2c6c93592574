package nfe

import (
	"github.com/beevik/etree"
)

// Namespace is the NF-e namespace URI. Lookups ignore elements outside it.
const Namespace = "http://www.portalfiscal.inf.br/nfe"

// QName is a namespace-qualified element name.
type QName struct {
	Space string
	Local string
}

func nfeName(local string) QName {
	return QName{Space: Namespace, Local: local}
}

// path builds a lookup path of NF-e names, e.g. path("emit", "xNome").
func path(locals ...string) []QName {
	p := make([]QName, len(locals))
	for i, l := range locals {
		p[i] = nfeName(l)
	}
	return p
}

func (q QName) matches(e *etree.Element) bool {
	return e.Tag == q.Local && e.NamespaceURI() == q.Space
}

// findFirst searches the descendants of root for p[0] and follows direct
// children for the remaining steps. The first match in document order wins.
func findFirst(root *etree.Element, p []QName) *etree.Element {
	if root == nil || len(p) == 0 {
		return nil
	}
	var found *etree.Element
	walk(root, func(e *etree.Element) bool {
		if !p[0].matches(e) {
			return true
		}
		if el := followChildren(e, p[1:]); el != nil {
			found = el
			return false
		}
		return true
	})
	return found
}

// findAll returns every descendant of root named q, in document order.
func findAll(root *etree.Element, q QName) []*etree.Element {
	var out []*etree.Element
	walk(root, func(e *etree.Element) bool {
		if q.matches(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

func followChildren(e *etree.Element, rest []QName) *etree.Element {
	if len(rest) == 0 {
		return e
	}
	for _, child := range e.ChildElements() {
		if !rest[0].matches(child) {
			continue
		}
		if el := followChildren(child, rest[1:]); el != nil {
			return el
		}
	}
	return nil
}

// walk visits the descendants of root (not root itself) in pre-order until
// visit returns false.
func walk(root *etree.Element, visit func(*etree.Element) bool) bool {
	for _, child := range root.ChildElements() {
		if !visit(child) {
			return false
		}
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

// textOf returns the leading text of e, or "" when e is nil.
func textOf(e *etree.Element) string {
	if e == nil {
		return ""
	}
	return e.Text()
}
