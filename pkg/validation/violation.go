package validation

import "fmt"

// Severity indicates how serious a violation is
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation records a single validation failure. All outcomes are data;
// nothing is thrown up the stack as control flow.
type Violation struct {
	File     string
	Line     int
	Column   int
	Severity Severity
	Message  string
}

func (v Violation) String() string {
	if v.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", v.File, v.Line, v.Column, v.Severity, v.Message)
	}
	return fmt.Sprintf("%s: %s: %s", v.File, v.Severity, v.Message)
}

// ViolationBuffer accumulates violations across files. It is caller-owned
// and append-only: records are never removed once added.
type ViolationBuffer struct {
	violations []Violation
}

// Add appends violations to the buffer.
func (b *ViolationBuffer) Add(vs ...Violation) {
	b.violations = append(b.violations, vs...)
}

// Len returns the number of recorded violations.
func (b *ViolationBuffer) Len() int { return len(b.violations) }

// Violations returns the recorded violations in the order they were added.
func (b *ViolationBuffer) Violations() []Violation { return b.violations }
