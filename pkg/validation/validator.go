package validation

import (
	"errors"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/connpack/pkg/connector"
	"github.com/platinummonkey/connpack/pkg/xmldom"
)

// Validator runs structural and semantic validation over the files of a
// connector package.
type Validator struct {
	config *Config
	logger *logrus.Logger
}

// New creates a validator. A nil config uses defaults; a nil logger falls
// back to the standard logger.
func New(config *Config, logger *logrus.Logger) *Validator {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Validator{config: config, logger: logger}
}

// ValidateAll validates every file of a connector package rooted at
// baseDir. Every file is processed even after a failure, so the buffer ends
// up holding the full violation list; the result is the AND of the per-file
// outcomes. Files whose validation populates the shared properties
// (connection-dialog, connection-fields) are processed before the
// connection-resolver, which reads them; otherwise caller order is kept.
func (v *Validator) ValidateAll(files []connector.File, baseDir string, buf *ViolationBuffer, props *connector.Properties) bool {
	ordered := orderForValidation(files)

	ok := true
	for _, f := range ordered {
		path := filepath.Join(baseDir, f.Name)
		if !v.ValidateSingle(f, path, buf, props) {
			ok = false
		}
		v.WarnFileSpecificRules(f, path)
	}

	for _, violation := range buf.Violations() {
		v.logger.Error(violation.String())
	}
	return ok
}

// ValidateSingle validates one file against caller-supplied properties.
// Violations are appended to buf; the return value reports whether this
// file added none. Script files are schema-exempt and always pass.
func (v *Validator) ValidateSingle(file connector.File, path string, buf *ViolationBuffer, props *connector.Properties) bool {
	if file.Type == connector.FileTypeScript {
		return true
	}

	before := buf.Len()

	doc, err := xmldom.ParseFile(path, v.config.MaxFileSize)
	if err != nil {
		// A file that cannot be parsed is one violation and is skipped for
		// structural and semantic checks.
		buf.Add(parseViolation(file, err))
		return false
	}

	for _, violation := range validateStructure(file.Type, doc) {
		violation.File = file.Name
		buf.Add(violation)
	}

	for _, rule := range semanticRulesFor(file.Type) {
		if !v.config.ruleEnabled(rule.name) {
			continue
		}
		for _, violation := range rule.check(doc, props) {
			violation.File = file.Name
			buf.Add(violation)
		}
	}

	return buf.Len() == before
}

func parseViolation(file connector.File, err error) Violation {
	message := err.Error()
	var perr *xmldom.ParseError
	if errors.As(err, &perr) && perr.Kind == xmldom.TooLarge {
		message = "file exceeds the maximum allowed size"
	}
	return Violation{
		File:     file.Name,
		Severity: SeverityError,
		Message:  message,
	}
}

// orderForValidation moves property-producing files ahead of the
// connection-resolver that consumes them, keeping caller order otherwise.
func orderForValidation(files []connector.File) []connector.File {
	producers := make([]connector.File, 0, len(files))
	rest := make([]connector.File, 0, len(files))
	for _, f := range files {
		switch f.Type {
		case connector.FileTypeConnectionDialog, connector.FileTypeConnectionFields:
			producers = append(producers, f)
		default:
			rest = append(rest, f)
		}
	}
	return append(producers, rest...)
}
