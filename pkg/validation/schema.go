package validation

import (
	"fmt"
	"regexp"

	"github.com/platinummonkey/connpack/pkg/connector"
	"github.com/platinummonkey/connpack/pkg/xmldom"
)

// identifierPattern constrains names referenced across connector files:
// letters, digits, '-' and '_', starting with a letter. No whitespace.
var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

var boolPattern = regexp.MustCompile(`^(true|false)$`)

// attrSpec describes one attribute of an element grammar.
type attrSpec struct {
	name     string
	required bool
	pattern  *regexp.Regexp
}

// elementSpec is a declarative grammar node: the attributes an element may
// carry and the child elements it may contain. When open is true, child
// elements not listed are permitted and left unchecked.
type elementSpec struct {
	name        string
	attrs       []attrSpec
	children    map[string]*elementSpec
	open        bool
	uniqueChild map[string]string // child tag -> attribute that must be unique
}

// grammarFor returns the structural grammar for a file role. The switch is
// exhaustive over the role enum so a new role without a grammar is a
// visible gap, not a silent no-op. Script files are schema-exempt.
func grammarFor(t connector.FileType) (*elementSpec, bool) {
	switch t {
	case connector.FileTypeManifest:
		return manifestGrammar, true
	case connector.FileTypeConnectionDialog:
		return connectionDialogGrammar, true
	case connector.FileTypeDialect:
		return dialectGrammar, true
	case connector.FileTypeConnectionResolver:
		return connectionResolverGrammar, true
	case connector.FileTypeResource:
		return resourceGrammar, true
	case connector.FileTypeConnectionFields:
		return connectionFieldsGrammar, true
	case connector.FileTypeScript:
		return nil, false
	}
	return nil, false
}

var fileRefSpec = &elementSpec{
	attrs: []attrSpec{{name: "file", required: true}},
}

var manifestGrammar = &elementSpec{
	name: "connector-plugin",
	attrs: []attrSpec{
		{name: "class", required: true, pattern: identifierPattern},
		{name: "superclass", pattern: identifierPattern},
		{name: "plugin-version"},
		{name: "name"},
		{name: "version"},
		{name: "min-version-tableau"},
	},
	children: map[string]*elementSpec{
		"vendor-information":  {open: true},
		"connection-dialog":   fileRefSpec,
		"connection-fields":   fileRefSpec,
		"connection-metadata": {open: true},
		"connection-resolver": fileRefSpec,
		"dialect":             fileRefSpec,
		"script":              fileRefSpec,
		"translation-resources": {
			children: map[string]*elementSpec{
				"resource": fileRefSpec,
			},
		},
	},
}

var connectionDialogGrammar = &elementSpec{
	name:  "connection-dialog",
	attrs: []attrSpec{{name: "class", pattern: identifierPattern}},
	open:  true,
}

var dialectGrammar = &elementSpec{
	name: "dialect",
	attrs: []attrSpec{
		{name: "name", required: true, pattern: identifierPattern},
		{name: "base", required: true, pattern: identifierPattern},
		{name: "class", pattern: identifierPattern},
		{name: "version"},
	},
	open: true,
}

var connectionResolverGrammar = &elementSpec{
	name:  "tdr",
	attrs: []attrSpec{{name: "class", pattern: identifierPattern}},
	open:  true,
}

var resourceGrammar = &elementSpec{
	name: "resources",
	open: true,
}

var connectionFieldsGrammar = &elementSpec{
	name: "connection-fields",
	children: map[string]*elementSpec{
		"field": {
			attrs: []attrSpec{
				{name: "name", required: true, pattern: identifierPattern},
				{name: "label"},
				{name: "category"},
				{name: "value-type"},
				{name: "optional", pattern: boolPattern},
				{name: "secure", pattern: boolPattern},
				{name: "default-value"},
				{name: "editable", pattern: boolPattern},
			},
			open: true,
		},
	},
	uniqueChild: map[string]string{"field": "name"},
}

// validateStructure checks a parsed document against the grammar for its
// role. It is purely structural and knows nothing about other files.
func validateStructure(t connector.FileType, doc *xmldom.Document) []Violation {
	grammar, ok := grammarFor(t)
	if !ok {
		return nil
	}

	var out []Violation
	root := doc.Root
	if root.Name != grammar.name {
		out = append(out, structural(root, fmt.Sprintf(
			"root element must be <%s>, found <%s>", grammar.name, root.Name)))
		return out
	}
	out = append(out, checkElement(root, grammar)...)
	return out
}

func checkElement(el *xmldom.Element, spec *elementSpec) []Violation {
	var out []Violation

	for _, attr := range spec.attrs {
		value, present := el.Attrs[attr.name]
		if !present {
			if attr.required {
				out = append(out, structural(el, fmt.Sprintf(
					"element <%s> is missing required attribute %q", el.Path(), attr.name)))
			}
			continue
		}
		if attr.pattern != nil && !attr.pattern.MatchString(value) {
			out = append(out, structural(el, fmt.Sprintf(
				"attribute %q of <%s> has invalid value %q", attr.name, el.Path(), value)))
		}
	}

	seen := make(map[string]map[string]bool)
	for _, child := range el.Children {
		childSpec, known := spec.children[child.Name]
		if !known {
			if !spec.open {
				out = append(out, structural(child, fmt.Sprintf(
					"unexpected element <%s>", child.Path())))
			}
			continue
		}
		if uniqueAttr, ok := spec.uniqueChild[child.Name]; ok {
			value := child.Attr(uniqueAttr)
			if value != "" {
				if seen[child.Name] == nil {
					seen[child.Name] = make(map[string]bool)
				}
				if seen[child.Name][value] {
					out = append(out, structural(child, fmt.Sprintf(
						"duplicate <%s> with %s=%q", child.Name, uniqueAttr, value)))
				}
				seen[child.Name][value] = true
			}
		}
		out = append(out, checkElement(child, childSpec)...)
	}

	return out
}

func structural(el *xmldom.Element, message string) Violation {
	return Violation{
		Line:     el.Pos.Line,
		Column:   el.Pos.Column,
		Severity: SeverityError,
		Message:  message,
	}
}
