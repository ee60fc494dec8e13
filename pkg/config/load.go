package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/logging"
	"github.com/frux-technologies/parcel/pkg/modules"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// PackageFinder locates installed packages; modules.FSResolver is one
type PackageFinder interface {
	FindPackage(ctx context.Context, id, basePath string) (*modules.Package, error)
}

// Loader reads pipeline configurations and resolves what they extend
type Loader struct {
	fs       afero.Fs
	packages PackageFinder
	logger   zerolog.Logger
}

// NewLoader creates a loader. packages may be nil, in which case only
// path-like extends are supported.
func NewLoader(fs afero.Fs, packages PackageFinder) *Loader {
	return &Loader{
		fs:       fs,
		packages: packages,
		logger:   logging.GetLogger("config.loader"),
	}
}

// Load reads the configuration at path and merges everything it extends
// into one record
func (l *Loader) Load(ctx context.Context, path string) (*Record, error) {
	defer logging.LogOperationStart(l.logger, "load configuration")()
	return l.load(ctx, filepath.Clean(path), nil)
}

func (l *Loader) load(ctx context.Context, path string, chain []string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, seen := range chain {
		if seen == path {
			return nil, errors.Newf(errors.ErrConfigCycle, "configuration %s extends itself", path).
				WithDetail("path", path).
				WithDetail("chain", append(append([]string{}, chain...), path))
		}
	}
	chain = append(chain, path)

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		code := errors.ErrConfigLoad
		if os.IsNotExist(err) {
			code = errors.ErrNotFound
		}
		return nil, errors.Wrapf(err, code, "cannot read %s", path).
			WithDetail("path", path)
	}

	record, err := Parse(data, path)
	if err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("path", path).
		Strs("extends", record.Extends).
		Msg("Parsed configuration")

	if len(record.Extends) == 0 {
		return record, nil
	}

	// Bases merge left to right, then the file itself goes on top.
	var base *Record
	for _, ext := range record.Extends {
		extPath, err := l.resolveExtends(ctx, ext, path)
		if err != nil {
			return nil, err
		}
		extRecord, err := l.load(ctx, extPath, chain)
		if err != nil {
			return nil, err
		}
		if base, err = Merge(extRecord, base); err != nil {
			return nil, err
		}
	}

	own := *record
	own.Extends = nil
	return Merge(&own, base)
}

func (l *Loader) resolveExtends(ctx context.Context, ext, from string) (string, error) {
	if ext == "" {
		return "", errors.New(errors.ErrConfigInvalid, "extends entry cannot be empty").
			WithDetail("path", from)
	}

	if filepath.IsAbs(ext) {
		return filepath.Clean(ext), nil
	}
	if strings.HasPrefix(ext, "./") || strings.HasPrefix(ext, "../") {
		return filepath.Join(filepath.Dir(from), filepath.FromSlash(ext)), nil
	}

	if l.packages == nil {
		return "", errors.Newf(errors.ErrConfigLoad, "cannot resolve %q: package lookup is not available", ext).
			WithDetail("path", from).
			WithDetail("extends", ext)
	}

	pkg, err := l.packages.FindPackage(ctx, ext, from)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrConfigLoad, "cannot resolve extended configuration %q", ext).
			WithDetail("path", from).
			WithDetail("extends", ext)
	}

	if pkg.Main == "" {
		return filepath.Join(pkg.Dir, "index.json"), nil
	}
	return pkg.MainPath(), nil
}

// Load reads and merges the configuration at path using fs, resolving
// package extends from the node_modules directories above it
func Load(ctx context.Context, fs afero.Fs, path string) (*Record, error) {
	return NewLoader(fs, modules.NewFSResolver(fs)).Load(ctx, path)
}
