package wsdlgen

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	wsdlerrors "github.com/jacoelho/wsdlgen/errors"
)

// Resource is a located schema document inside a filesystem.
type Resource struct {
	fsys fs.FS
	name string
}

// OpenResource locates name in fsys. It fails with an ErrSchemaNotFound
// input error when the name is invalid, missing, or a directory.
func OpenResource(fsys fs.FS, name string) (Resource, error) {
	if fsys == nil {
		return Resource{}, wsdlerrors.New(wsdlerrors.ErrSchemaNotFound, "schema filesystem is nil")
	}
	if !fs.ValidPath(name) || name == "." {
		return Resource{}, wsdlerrors.Newf(wsdlerrors.ErrSchemaNotFound, "invalid schema name %q", name)
	}
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return Resource{}, wsdlerrors.Wrap(wsdlerrors.ErrSchemaNotFound, err, fmt.Sprintf("schema %s does not exist", name))
	}
	if info.IsDir() {
		return Resource{}, wsdlerrors.Newf(wsdlerrors.ErrSchemaNotFound, "schema %s is a directory", name)
	}
	return Resource{fsys: fsys, name: name}, nil
}

// OpenAfero locates name in an afero filesystem.
func OpenAfero(afs afero.Fs, name string) (Resource, error) {
	if afs == nil {
		return Resource{}, wsdlerrors.New(wsdlerrors.ErrSchemaNotFound, "schema filesystem is nil")
	}
	return OpenResource(afero.NewIOFS(afs), name)
}

// OpenFile locates a schema on the OS filesystem. Includes and imports are
// resolved relative to the directory holding path and may not leave it.
func OpenFile(path string) (Resource, error) {
	return OpenPath(afero.NewOsFs(), path)
}

// OpenPath locates the schema at path inside afs, rooting resolution of its
// includes and imports at the directory holding it.
func OpenPath(afs afero.Fs, path string) (Resource, error) {
	if afs == nil {
		return Resource{}, wsdlerrors.New(wsdlerrors.ErrSchemaNotFound, "schema filesystem is nil")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Resource{}, wsdlerrors.Wrap(wsdlerrors.ErrSchemaNotFound, err, fmt.Sprintf("schema %s does not exist", path))
	}
	return OpenAfero(afero.NewBasePathFs(afs, filepath.Dir(abs)), filepath.Base(abs))
}

// Name returns the resource name within its filesystem.
func (r Resource) Name() string {
	return r.name
}

// FS returns the filesystem holding the resource.
func (r Resource) FS() fs.FS {
	return r.fsys
}

// IsZero reports whether r was never located.
func (r Resource) IsZero() bool {
	return r.fsys == nil
}
