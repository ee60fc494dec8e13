package config

import (
	"path/filepath"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/spf13/afero"
)

// DefaultFileName is the pipeline configuration looked up in a project
const DefaultFileName = ".parcelrc"

// Find walks up from startDir and returns the first file named after one
// of names. Names are tried in order within each directory.
func Find(fs afero.Fs, startDir string, names ...string) (string, error) {
	if len(names) == 0 {
		names = []string{DefaultFileName}
	}

	dir := filepath.Clean(startDir)
	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			info, err := fs.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.Newf(errors.ErrNotFound, "no %s found in %s or any parent directory", names[0], startDir).
		WithDetail("path", startDir)
}

// FileNames returns the rc names looked up for a base name: the name
// itself and its TOML variant
func FileNames(name string) []string {
	if name == "" {
		name = DefaultFileName
	}
	if filepath.Ext(name) == ".toml" {
		return []string{name}
	}
	return []string{name, name + ".toml"}
}
