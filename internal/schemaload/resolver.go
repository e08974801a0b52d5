package schemaload

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// ResolveKind tells a Resolver why a schema document is needed.
type ResolveKind uint8

const (
	// ResolveRoot locates the schema a definition is derived from.
	ResolveRoot ResolveKind = iota
	// ResolveInclude locates the target of an xsd:include.
	ResolveInclude
	// ResolveImport locates the target of an xsd:import.
	ResolveImport
)

func (k ResolveKind) String() string {
	switch k {
	case ResolveRoot:
		return "root"
	case ResolveInclude:
		return "include"
	case ResolveImport:
		return "import"
	default:
		return fmt.Sprintf("ResolveKind(%d)", k)
	}
}

// ResolveRequest asks for the document at SchemaLocation, relative to the
// document identified by BaseSystemID. Namespace is the namespace attribute
// of an import directive.
type ResolveRequest struct {
	BaseSystemID   string
	SchemaLocation string
	Namespace      string
	Kind           ResolveKind
}

// String describes the request for logs and errors.
func (r ResolveRequest) String() string {
	var b strings.Builder
	b.WriteString(r.Kind.String())
	b.WriteString(" ")
	b.WriteString(r.SchemaLocation)
	if r.Kind == ResolveImport {
		ns := r.Namespace
		if ns == "" {
			ns = "no namespace"
		}
		fmt.Fprintf(&b, " for %s", ns)
	}
	if r.BaseSystemID != "" {
		fmt.Fprintf(&b, " from %s", r.BaseSystemID)
	}
	return b.String()
}

// Resolver opens schema documents. The returned system ID identifies the
// document; includes and imports inside it are resolved against it.
type Resolver interface {
	Resolve(req ResolveRequest) (doc io.ReadCloser, systemID string, err error)
}

// FSResolver opens schema documents from an fs.FS. Locations must be relative
// and may not leave the filesystem root.
type FSResolver struct {
	fsys fs.FS
}

// NewFSResolver returns a resolver reading from fsys.
func NewFSResolver(fsys fs.FS) *FSResolver {
	return &FSResolver{fsys: fsys}
}

// Resolve implements Resolver. Errors keep fs.ErrNotExist in their chain when
// the document is missing.
func (r *FSResolver) Resolve(req ResolveRequest) (io.ReadCloser, string, error) {
	if r == nil || r.fsys == nil {
		return nil, "", fmt.Errorf("%s: no filesystem configured", req)
	}
	if req.SchemaLocation == "" {
		return nil, "", fmt.Errorf("%s: %w", req, fs.ErrNotExist)
	}
	systemID, err := resolveSystemID(req.BaseSystemID, req.SchemaLocation)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", req, err)
	}
	f, err := r.fsys.Open(systemID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", req, err)
	}
	info, err := f.Stat()
	if err == nil && info.IsDir() {
		err = fmt.Errorf("%s is a directory", systemID)
	}
	if err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("%s: %w", req, err)
	}
	return f, systemID, nil
}

func resolveSystemID(baseSystemID, schemaLocation string) (string, error) {
	if schemaLocation == "" {
		return "", fmt.Errorf("schema location is empty")
	}
	if strings.Contains(schemaLocation, "\\") {
		return "", fmt.Errorf("schema location contains backslash: %q", schemaLocation)
	}
	if strings.HasPrefix(schemaLocation, "/") || strings.Contains(schemaLocation, "://") {
		return "", fmt.Errorf("schema location must be relative: %q", schemaLocation)
	}
	if strings.Contains(baseSystemID, "\\") {
		return "", fmt.Errorf("base system ID contains backslash: %q", baseSystemID)
	}
	if slices.Contains(strings.Split(schemaLocation, "/"), "") {
		return "", fmt.Errorf("invalid schema location segment: %q", schemaLocation)
	}

	joined := path.Clean(schemaLocation)
	if baseDir := baseDirSystemID(baseSystemID); baseDir != "" {
		joined = path.Clean(baseDir + "/" + schemaLocation)
	}
	if joined == "." {
		return "", fmt.Errorf("schema location is empty")
	}
	if strings.HasPrefix(joined, "../") || joined == ".." {
		return "", fmt.Errorf("schema location escapes root: %q", schemaLocation)
	}
	return joined, nil
}

func baseDirSystemID(systemID string) string {
	idx := strings.LastIndex(systemID, "/")
	if idx == -1 {
		return ""
	}
	return systemID[:idx]
}
