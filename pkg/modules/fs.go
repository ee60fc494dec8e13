package modules

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultModulesDir is the directory packages are installed into
const DefaultModulesDir = "node_modules"

const packageFile = "package.json"

// FSResolver resolves plugins installed on a filesystem
type FSResolver struct {
	fs         afero.Fs
	modulesDir string
	builtins   *Builtins
	scripts    *ScriptLoader
	logger     zerolog.Logger
}

// FSOption configures an FSResolver
type FSOption func(*FSResolver)

// WithModulesDir changes the directory name searched for packages
func WithModulesDir(name string) FSOption {
	return func(r *FSResolver) {
		if name != "" {
			r.modulesDir = name
		}
	}
}

// WithBuiltins sets the table consulted for packages without a Go entry point
func WithBuiltins(b *Builtins) FSOption {
	return func(r *FSResolver) { r.builtins = b }
}

// WithScripts enables or disables interpreting .go entry points
func WithScripts(enabled bool) FSOption {
	return func(r *FSResolver) {
		if enabled {
			r.scripts = NewScriptLoader(r.fs)
		} else {
			r.scripts = nil
		}
	}
}

// NewFSResolver creates a resolver over fs. Scripts are enabled and the
// Default builtin table is used unless options say otherwise.
func NewFSResolver(fs afero.Fs, opts ...FSOption) *FSResolver {
	r := &FSResolver{
		fs:         fs,
		modulesDir: DefaultModulesDir,
		builtins:   Default,
		logger:     logging.GetLogger("modules.fs"),
	}
	r.scripts = NewScriptLoader(fs)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements Resolver
func (r *FSResolver) Resolve(ctx context.Context, id, basePath string) (*Module, *Package, error) {
	pkg, err := r.FindPackage(ctx, id, basePath)
	if err != nil {
		return nil, nil, err
	}

	mod, err := r.load(id, pkg)
	if err != nil {
		return nil, nil, err
	}
	return mod, pkg, nil
}

// FindPackage locates the package directory of id and reads its metadata.
// Relative identifiers (./ or ../) and absolute paths name the package
// directory directly; anything else is looked up in the modules directory
// of basePath's directory and each of its parents.
func (r *FSResolver) FindPackage(ctx context.Context, id, basePath string) (*Package, error) {
	if id == "" {
		return nil, errors.New(errors.ErrInvalidInput, "plugin identifier cannot be empty")
	}

	startDir := r.startDir(basePath)

	if isPathLike(id) {
		dir := id
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(startDir, filepath.FromSlash(id))
		}
		pkg, err := r.readPackage(dir)
		if err != nil {
			return nil, err
		}
		if pkg == nil {
			return nil, notFound(id, basePath)
		}
		return pkg, nil
	}

	if strings.Contains(id, "..") || strings.HasPrefix(id, "/") {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid plugin identifier %q", id).
			WithDetail("plugin", id)
	}

	for dir := startDir; ; dir = filepath.Dir(dir) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate := filepath.Join(dir, r.modulesDir, filepath.FromSlash(id))
		pkg, err := r.readPackage(candidate)
		if err != nil {
			return nil, err
		}
		if pkg != nil {
			r.logger.Debug().
				Str("plugin", id).
				Str("dir", candidate).
				Msg("Found plugin package")
			return pkg, nil
		}

		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}

	return nil, notFound(id, basePath)
}

// startDir returns the directory resolution starts from: basePath itself
// when it is a directory, its parent otherwise
func (r *FSResolver) startDir(basePath string) string {
	if basePath == "" {
		return "."
	}
	if info, err := r.fs.Stat(basePath); err == nil && info.IsDir() {
		return basePath
	}
	return filepath.Dir(basePath)
}

// readPackage returns nil, nil when dir holds no package.json
func (r *FSResolver) readPackage(dir string) (*Package, error) {
	data, err := afero.ReadFile(r.fs, filepath.Join(dir, packageFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrPluginLoad, "cannot read %s", filepath.Join(dir, packageFile)).
			WithDetail("path", dir)
	}
	return ParsePackage(data, dir)
}

func (r *FSResolver) load(id string, pkg *Package) (*Module, error) {
	main := pkg.MainPath()

	if filepath.Ext(main) == ".go" {
		if r.scripts == nil {
			return nil, errors.Newf(errors.ErrPluginLoad,
				"plugin %q is a Go script but script plugins are disabled", id).
				WithDetail("plugin", id).
				WithDetail("path", main)
		}
		exports, err := r.scripts.Load(main)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPluginLoad, "cannot load plugin %q", id).
				WithDetail("plugin", id)
		}
		return &Module{ID: id, Path: main, Exports: exports}, nil
	}

	if r.builtins != nil {
		if builtin, ok := r.builtins.Lookup(pkg.Name); ok {
			return &Module{ID: id, Path: main, Exports: builtin.Exports}, nil
		}
	}

	return nil, errors.Newf(errors.ErrPluginLoad,
		"plugin %q (%s) has no Go implementation: its entry point %s is not a .go script and no builtin is registered",
		id, pkg.Name, main).
		WithDetail("plugin", id).
		WithDetail("path", main)
}

func isPathLike(id string) bool {
	return strings.HasPrefix(id, "./") || strings.HasPrefix(id, "../") || filepath.IsAbs(id)
}
