package validation

import (
	"github.com/platinummonkey/connpack/pkg/connector"
	"github.com/platinummonkey/connpack/pkg/xmldom"
)

// DefaultSQLDialect is the reserved identifier of the built-in fallback
// dialect. Basing a connector dialect on it is discouraged.
const DefaultSQLDialect = "DefaultSQLDialect"

// WarnFileSpecificRules runs the advisory checks for a file. Warnings go to
// the validator's logger and never affect the pass/fail result. Each rule
// emits at most one log line per invocation.
func (v *Validator) WarnFileSpecificRules(file connector.File, path string) {
	doc, err := xmldom.ParseFile(path, v.config.MaxFileSize)
	if err != nil {
		// Unreadable files are reported by validation, not here.
		return
	}

	switch file.Type {
	case connector.FileTypeDialect:
		v.warnDefaultDialectBase(file, doc)
	case connector.FileTypeConnectionResolver:
		v.warnAuthenticationAttribute(file, doc)
	}
}

func (v *Validator) warnDefaultDialectBase(file connector.File, doc *xmldom.Document) {
	if doc.Root.Name != "dialect" {
		return
	}
	if doc.Root.Attr("base") == DefaultSQLDialect {
		v.logger.Warnf("%s: %s is not a recommended base dialect", file.Name, DefaultSQLDialect)
	}
}

func (v *Validator) warnAuthenticationAttribute(file connector.File, doc *xmldom.Document) {
	required := doc.Root.Find("required-attributes")
	if required == nil {
		// Not declaring the list at all is fine.
		return
	}
	for _, attr := range required.FindAll("attr") {
		if attr.Text() == fieldAuthentication {
			return
		}
	}
	v.logger.Warnf("%s: 'authentication' attribute is missing from the required-attributes list", file.Name)
}
