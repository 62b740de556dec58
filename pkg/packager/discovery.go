package packager

import (
	"fmt"
	"path/filepath"

	"github.com/platinummonkey/connpack/pkg/connector"
	"github.com/platinummonkey/connpack/pkg/validation"
	"github.com/platinummonkey/connpack/pkg/xmldom"
)

// ManifestFileName is the fixed name of the package manifest.
const ManifestFileName = "manifest.xml"

// manifestRefTypes maps manifest child elements carrying a file reference
// to the role of the referenced file.
var manifestRefTypes = map[string]connector.FileType{
	"connection-dialog":   connector.FileTypeConnectionDialog,
	"connection-fields":   connector.FileTypeConnectionFields,
	"connection-resolver": connector.FileTypeConnectionResolver,
	"dialect":             connector.FileTypeDialect,
	"script":              connector.FileTypeScript,
}

// Discover reads the package manifest in dir and returns the descriptors of
// every file the package declares, manifest included. Files whose
// validation populates the shared package properties come before the
// connection-resolver that reads them. Discover does not validate; it only
// needs a well-formed manifest.
func Discover(dir string) ([]connector.File, error) {
	doc, err := xmldom.ParseFile(filepath.Join(dir, ManifestFileName), validation.DefaultMaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("discover connector package: %w", err)
	}
	if doc.Root.Name != "connector-plugin" {
		return nil, fmt.Errorf("discover connector package: %s has no <connector-plugin> root", ManifestFileName)
	}

	producers := []connector.File{}
	rest := []connector.File{{Name: ManifestFileName, Type: connector.FileTypeManifest}}

	for _, child := range doc.Root.Children {
		if child.Name == "translation-resources" {
			for _, res := range child.ChildrenNamed("resource") {
				if file := res.Attr("file"); file != "" {
					rest = append(rest, connector.File{Name: file, Type: connector.FileTypeResource})
				}
			}
			continue
		}

		fileType, ok := manifestRefTypes[child.Name]
		if !ok {
			continue
		}
		file := child.Attr("file")
		if file == "" {
			continue
		}
		desc := connector.File{Name: file, Type: fileType}
		switch fileType {
		case connector.FileTypeConnectionDialog, connector.FileTypeConnectionFields:
			producers = append(producers, desc)
		default:
			rest = append(rest, desc)
		}
	}

	return append(producers, rest...), nil
}
