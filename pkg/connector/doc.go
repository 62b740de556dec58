// Package connector defines the file descriptors and package-level
// properties shared by every layer of connector validation.
package connector
