// Package xmldom parses connector definition files into a small navigable
// document tree.
//
// The tree keeps what validation needs and nothing else: tag names, an
// attribute map, ordered children, direct text content, and the source
// position of every element for diagnostics. Namespaces are ignored;
// connector files do not use them.
//
// Failures are reported as *ParseError with a Kind of Malformed or
// TooLarge. TooLarge is decided from the file size alone, before any bytes
// are parsed, so a pathological file cannot consume validation time.
package xmldom
