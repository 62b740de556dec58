package connector

import "fmt"

// FileType is the fixed role of a file inside a connector package. The role
// determines which schema and which rule set apply to the file.
type FileType string

const (
	FileTypeManifest           FileType = "manifest"
	FileTypeConnectionDialog   FileType = "connection-dialog"
	FileTypeScript             FileType = "script"
	FileTypeDialect            FileType = "dialect"
	FileTypeConnectionResolver FileType = "connection-resolver"
	FileTypeResource           FileType = "resource"
	FileTypeConnectionFields   FileType = "connection-fields"
)

// ParseFileType converts a role string from a manifest into a FileType.
func ParseFileType(s string) (FileType, error) {
	switch FileType(s) {
	case FileTypeManifest, FileTypeConnectionDialog, FileTypeScript,
		FileTypeDialect, FileTypeConnectionResolver, FileTypeResource,
		FileTypeConnectionFields:
		return FileType(s), nil
	}
	return "", fmt.Errorf("unknown connector file type: %q", s)
}

// File identifies one file of a connector package. Immutable once created.
type File struct {
	Name string
	Type FileType
}

func (f File) String() string {
	return fmt.Sprintf("%s (%s)", f.Name, f.Type)
}

// Properties carries package-wide facts discovered while validating files.
// It is the only state that outlives a single file's validation: the
// connection-dialog and connection-fields rules write it, resolver rules
// read it. The zero value is a valid starting state.
type Properties struct {
	// UsesTCD is set when the package ships a connection dialog descriptor.
	UsesTCD bool
	// ConnectionFields holds the field names declared by the
	// connection-fields file, in document order.
	ConnectionFields []string
}
