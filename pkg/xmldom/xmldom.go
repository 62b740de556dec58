package xmldom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// Malformed indicates markup that is not well-formed XML.
	Malformed ErrorKind = iota
	// TooLarge indicates input exceeding the configured size limit,
	// detected before any parsing is attempted.
	TooLarge
)

func (k ErrorKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case TooLarge:
		return "too-large"
	}
	return "unknown"
}

// ParseError is the only error type returned by this package.
type ParseError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Kind == TooLarge {
		return fmt.Sprintf("%s: file exceeds maximum allowed size", e.Path)
	}
	if e.Path == "" {
		return fmt.Sprintf("malformed XML: %v", e.Err)
	}
	return fmt.Sprintf("%s: malformed XML: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Position locates an element in the source document.
type Position struct {
	Line   int
	Column int
}

// Element is a node in the parsed document tree.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []*Element
	Pos      Position

	parent *Element
	text   strings.Builder
}

// Document holds the root element of a parsed XML file.
type Document struct {
	Root *Element
}

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string { return e.Attrs[name] }

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attrs[name]
	return ok
}

// Text returns the element's directly contained character data,
// with surrounding whitespace trimmed.
func (e *Element) Text() string { return strings.TrimSpace(e.text.String()) }

// Parent returns the parent element, or nil for the root.
func (e *Element) Parent() *Element { return e.parent }

// Path returns the slash-separated tag path from the root to this element.
func (e *Element) Path() string {
	if e.parent == nil {
		return e.Name
	}
	return e.parent.Path() + "/" + e.Name
}

// ChildrenNamed returns the direct children with the given tag, in order.
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant (depth-first, document order) with the
// given tag, or nil.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant with the given tag, in document order.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
		out = append(out, c.FindAll(name)...)
	}
	return out
}

// ParseFile reads and parses path. Files larger than maxSize fail with a
// TooLarge error before any bytes are read; maxSize <= 0 disables the limit.
func ParseFile(path string, maxSize int64) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat connector file: %w", err)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, &ParseError{Kind: TooLarge, Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read connector file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Parse builds a document tree from raw XML bytes. Malformed markup,
// including a missing or duplicated root element, yields a ParseError of
// kind Malformed.
func Parse(data []byte) (*Document, error) {
	lines := lineOffsets(data)

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	var root *Element
	var current *Element

	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Kind: Malformed, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Name:   t.Name.Local,
				Attrs:  make(map[string]string, len(t.Attr)),
				Pos:    positionAt(lines, start),
				parent: current,
			}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if current == nil {
				if root != nil {
					return nil, &ParseError{
						Kind: Malformed,
						Err:  fmt.Errorf("multiple root elements: %q and %q", root.Name, el.Name),
					}
				}
				root = el
			} else {
				current.Children = append(current.Children, el)
			}
			current = el
		case xml.EndElement:
			current = current.parent
		case xml.CharData:
			if current != nil {
				current.text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, &ParseError{Kind: Malformed, Err: fmt.Errorf("document has no root element")}
	}
	if current != nil {
		return nil, &ParseError{Kind: Malformed, Err: fmt.Errorf("unclosed element %q", current.Name)}
	}
	return &Document{Root: root}, nil
}

// lineOffsets returns the byte offset of the start of each line.
func lineOffsets(data []byte) []int64 {
	offsets := []int64{0}
	for i, b := range data {
		if b == '\n' {
			offsets = append(offsets, int64(i)+1)
		}
	}
	return offsets
}

func positionAt(lines []int64, offset int64) Position {
	line := sort.Search(len(lines), func(i int) bool { return lines[i] > offset })
	return Position{
		Line:   line,
		Column: int(offset-lines[line-1]) + 1,
	}
}
