// =============================================================================
// grape - POM Document
// =============================================================================
//
// This module wraps the parsed Maven project object model. It owns the parse
// and serialize half of the template transformation:
//
//   template pom.xml --> Load --> strip whitespace --> (mutate) --> Bytes/WriteFile
//
// WHITESPACE HANDLING:
//   Templates are hand-edited, so their indentation is arbitrary. After parsing,
//   whitespace-only text between elements is dropped and the text following any
//   element's closing tag is cleared. Serialization then re-indents from scratch,
//   which makes the output byte-stable across repeated runs on the same template.
//   Elements holding text alongside child elements (mixed content) are written
//   as parsed; indenting them would change their text.
//
// =============================================================================

package pom

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/grape-build/grape/pkg/utils"
)

// DefaultIndent is the number of spaces per nesting level in the output.
const DefaultIndent = 2

// Document is a parsed POM owned by one transformation run.
type Document struct {
	doc *etree.Document

	// Indent is the number of spaces per level used by Bytes and WriteFile.
	Indent int
}

// Load reads and normalizes the POM at path. The file is only read.
func Load(path string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return newDocument(doc)
}

// Parse parses and normalizes a POM held in memory.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return newDocument(doc)
}

func newDocument(doc *etree.Document) (*Document, error) {
	if doc.Root() == nil {
		return nil, fmt.Errorf("template has no root element")
	}
	stripInsignificant(&doc.Element)
	return &Document{doc: doc, Indent: DefaultIndent}, nil
}

// Root returns the project element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Bytes serializes the document with stable indentation.
func (d *Document) Bytes() ([]byte, error) {
	restore := hideMixedContent(d.doc.Root())
	d.doc.Indent(d.Indent)
	restore()

	data, err := d.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return data, nil
}

// WriteFile serializes the document and replaces path atomically. Nothing is
// written if serialization fails.
func (d *Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// WHITESPACE NORMALIZATION
// =============================================================================

// stripInsignificant removes whitespace-only text from elements that have
// element children and clears all text following an element, comment or
// processing instruction, up to the next such token. Leaf text such as
// <version> 1.0 </version> is kept.
func stripInsignificant(e *etree.Element) {
	withChildren := len(e.ChildElements()) > 0

	var drop []int
	inTail := false
	for i, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if inTail || (withChildren && isBlank(t.Data)) {
				drop = append(drop, i)
			}
			continue
		case *etree.Element:
			stripInsignificant(t)
		}
		inTail = true
	}

	for i := len(drop) - 1; i >= 0; i-- {
		e.RemoveChildAt(drop[i])
	}
}

// hideMixedContent detaches the children of every mixed-content element below
// root so Indent leaves them alone. The returned func puts them back.
func hideMixedContent(root *etree.Element) func() {
	var hidden []*etree.Element
	var saved [][]etree.Token

	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if isMixed(e) {
			hidden = append(hidden, e)
			saved = append(saved, e.Child)
			e.Child = nil
			return
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	if root != nil {
		walk(root)
	}

	return func() {
		for i, e := range hidden {
			e.Child = saved[i]
		}
	}
}

// isMixed reports whether e holds non-blank text next to child elements.
func isMixed(e *etree.Element) bool {
	var hasElement, hasText bool
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.Element:
			hasElement = true
		case *etree.CharData:
			if !isBlank(t.Data) {
				hasText = true
			}
		}
	}
	return hasElement && hasText
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
