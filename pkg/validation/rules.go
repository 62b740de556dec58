package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/platinummonkey/connpack/pkg/connector"
	"github.com/platinummonkey/connpack/pkg/xmldom"
)

// Vendor-defined connection fields are namespaced with this prefix and must
// carry a disambiguating suffix after it.
const vendorFieldPrefix = "v-"

var vendorFieldPattern = regexp.MustCompile(`^v-[A-Za-z0-9][A-Za-z0-9_-]*$`)

const (
	categoryAdvanced    = "advanced"
	fieldInstanceURL    = "instanceurl"
	fieldAuthentication = "authentication"
	authValueOAuth      = "oauth"
)

// semanticRule is one named check applied to a parsed document. Rules see
// the shared package Properties: connection-fields and connection-dialog
// rules write it, resolver rules read it.
type semanticRule struct {
	name  string
	check func(doc *xmldom.Document, props *connector.Properties) []Violation
}

// semanticRulesFor returns the ordered rule set for a file role. The switch
// is exhaustive over the role enum: a role with no semantic rules says so
// explicitly rather than falling through silently.
func semanticRulesFor(t connector.FileType) []semanticRule {
	switch t {
	case connector.FileTypeConnectionFields:
		return []semanticRule{
			{name: "collect-connection-fields", check: collectConnectionFields},
			{name: "vendor-prefix", check: checkVendorPrefix},
			{name: "advanced-field-default", check: checkAdvancedFieldDefault},
			{name: "duplicate-field", check: checkDuplicateFields},
			{name: "instanceurl-conditional", check: checkInstanceURLConditional},
		}
	case connector.FileTypeConnectionDialog:
		return []semanticRule{
			{name: "mark-uses-tcd", check: markUsesTCD},
		}
	case connector.FileTypeConnectionResolver:
		return []semanticRule{
			{name: "inferred-resolver", check: checkInferredResolver},
			{name: "normalizer-completeness", check: checkNormalizerCompleteness},
		}
	case connector.FileTypeManifest,
		connector.FileTypeDialect,
		connector.FileTypeResource,
		connector.FileTypeScript:
		return nil
	}
	return nil
}

// collectConnectionFields records the declared field names, in document
// order, for rules in later files. It never fails on its own.
func collectConnectionFields(doc *xmldom.Document, props *connector.Properties) []Violation {
	fields := doc.Root.ChildrenNamed("field")
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if name := f.Attr("name"); name != "" {
			names = append(names, name)
		}
	}
	props.ConnectionFields = names
	return nil
}

// markUsesTCD records that this package ships a connection dialog
// descriptor, which forbids inferred resolvers later on.
func markUsesTCD(doc *xmldom.Document, props *connector.Properties) []Violation {
	props.UsesTCD = true
	return nil
}

func checkVendorPrefix(doc *xmldom.Document, props *connector.Properties) []Violation {
	var out []Violation
	for _, f := range doc.Root.ChildrenNamed("field") {
		name := f.Attr("name")
		if strings.HasPrefix(name, vendorFieldPrefix) && !vendorFieldPattern.MatchString(name) {
			out = append(out, semantic(f, fmt.Sprintf(
				"field name %q uses the vendor prefix %q but is not a valid vendor field name",
				name, vendorFieldPrefix)))
		}
	}
	return out
}

func checkAdvancedFieldDefault(doc *xmldom.Document, props *connector.Properties) []Violation {
	var out []Violation
	for _, f := range doc.Root.ChildrenNamed("field") {
		if f.Attr("category") != categoryAdvanced {
			continue
		}
		if f.Attr("optional") == "true" {
			continue
		}
		if strings.TrimSpace(f.Attr("default-value")) == "" {
			out = append(out, semantic(f, fmt.Sprintf(
				"required field %q in the %q category must declare a default-value",
				f.Attr("name"), categoryAdvanced)))
		}
	}
	return out
}

// checkDuplicateFields rejects repeated field names. The structural grammar
// rejects them too; both layers check independently.
func checkDuplicateFields(doc *xmldom.Document, props *connector.Properties) []Violation {
	var out []Violation
	seen := make(map[string]bool)
	for _, f := range doc.Root.ChildrenNamed("field") {
		name := f.Attr("name")
		if name == "" {
			continue
		}
		if seen[name] {
			out = append(out, semantic(f, fmt.Sprintf(
				"a field named %q already exists; fields must have unique names", name)))
		}
		seen[name] = true
	}
	return out
}

// checkInstanceURLConditional allows an instanceurl field only alongside an
// authentication field whose fixed or default value is oauth.
func checkInstanceURLConditional(doc *xmldom.Document, props *connector.Properties) []Violation {
	var instanceURL *xmldom.Element
	var auth *xmldom.Element
	for _, f := range doc.Root.ChildrenNamed("field") {
		switch f.Attr("name") {
		case fieldInstanceURL:
			instanceURL = f
		case fieldAuthentication:
			auth = f
		}
	}
	if instanceURL == nil {
		return nil
	}
	if auth != nil && (auth.Attr("value") == authValueOAuth || auth.Attr("default-value") == authValueOAuth) {
		return nil
	}
	return []Violation{semantic(instanceURL, fmt.Sprintf(
		"field %q requires a field named %q with the value %q",
		fieldInstanceURL, fieldAuthentication, authValueOAuth))}
}

// checkInferredResolver forbids a normalizer-less resolver once the package
// is known to use a connection dialog descriptor.
func checkInferredResolver(doc *xmldom.Document, props *connector.Properties) []Violation {
	if !props.UsesTCD {
		return nil
	}
	if doc.Root.Find("connection-normalizer") != nil {
		return nil
	}
	return []Violation{semantic(doc.Root,
		"connectors that use a connection dialog descriptor must declare an explicit connection-normalizer")}
}

// checkNormalizerCompleteness requires every declared connection field to be
// mapped by the normalizer, when one is present.
func checkNormalizerCompleteness(doc *xmldom.Document, props *connector.Properties) []Violation {
	normalizer := doc.Root.Find("connection-normalizer")
	if normalizer == nil {
		return nil
	}

	mapped := make(map[string]bool)
	for _, attr := range normalizer.FindAll("attr") {
		mapped[attr.Text()] = true
	}

	var out []Violation
	for _, name := range props.ConnectionFields {
		if !mapped[name] {
			out = append(out, semantic(normalizer, fmt.Sprintf(
				"connection field %q is not mapped in the connection-normalizer", name)))
		}
	}
	return out
}

func semantic(el *xmldom.Element, message string) Violation {
	return Violation{
		Line:     el.Pos.Line,
		Column:   el.Pos.Column,
		Severity: SeverityError,
		Message:  message,
	}
}
