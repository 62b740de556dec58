// Package packager discovers the files of a connector package from its
// manifest, producing the descriptor list consumed by pkg/validation.
package packager
