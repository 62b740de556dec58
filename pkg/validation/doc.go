// Package validation is the core validation engine for connector
// definition packages.
//
// # Overview
//
// Validation has two fatal layers and one advisory layer:
//
// Structural: each file role maps to a declarative grammar (allowed
// elements, required attributes, value patterns, cardinality). Purely
// per-file.
//
// Semantic: named, role-keyed rules for constraints a grammar cannot
// express - conditional requiredness across sibling elements, and
// completeness against facts collected from other files of the same
// package (connector.Properties).
//
// Advisory: warning rules that log deprecation-style advisories through
// the configured logger and never affect the pass/fail result.
//
// All failures are accumulated as Violation records in a caller-owned
// buffer; nothing is raised as control flow, so one run reports every
// problem at once.
//
// # Usage Example
//
//	v := validation.New(nil, logger)
//	buf := &validation.ViolationBuffer{}
//	props := &connector.Properties{}
//
//	ok := v.ValidateAll(files, baseDir, buf, props)
//	for _, violation := range buf.Violations() {
//		fmt.Println(violation)
//	}
//
// # Related Packages
//
//   - pkg/xmldom: document parsing
//   - pkg/connector: file descriptors and shared package properties
//   - pkg/packager: package discovery from the manifest
package validation
