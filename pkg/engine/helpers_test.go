package engine_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frux-technologies/parcel/pkg/config"
	"github.com/frux-technologies/parcel/pkg/engine"
	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/modules"
	"github.com/frux-technologies/parcel/pkg/pipeline"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// countingResolver serves plugins from a table and counts resolutions
type countingResolver struct {
	mu       sync.Mutex
	plugins  map[string]modules.Package
	failures map[string]error
	delay    time.Duration
	calls    map[string]int
	total    atomic.Int32
}

func newCountingResolver() *countingResolver {
	return &countingResolver{
		plugins:  make(map[string]modules.Package),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// add registers a plugin compatible with any 2.x host
func (r *countingResolver) add(ids ...string) *countingResolver {
	for _, id := range ids {
		r.addPackage(modules.Package{
			Name:    id,
			Version: "2.1.0",
			Engines: map[string]string{"parcel": "^2.0.0"},
		})
	}
	return r
}

func (r *countingResolver) addPackage(pkg modules.Package) *countingResolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[pkg.Name] = pkg
	return r
}

func (r *countingResolver) fail(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[id] = err
}

func (r *countingResolver) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[id]
}

func (r *countingResolver) Resolve(ctx context.Context, id, basePath string) (*modules.Module, *modules.Package, error) {
	r.total.Add(1)
	r.mu.Lock()
	r.calls[id]++
	pkg, ok := r.plugins[id]
	failure := r.failures[id]
	delay := r.delay
	r.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}

	if failure != nil {
		return nil, nil, failure
	}
	if !ok {
		return nil, nil, errors.Newf(errors.ErrPluginNotFound, "plugin %q not found", id).
			WithDetail("plugin", id)
	}

	exports := modules.Exports{modules.ConfigExport: "capability:" + id}
	return &modules.Module{ID: id, Path: "/fake/" + id, Exports: exports}, &pkg, nil
}

func newEngine(t *testing.T, record *config.Record, r modules.Resolver, opts ...engine.Option) *engine.Engine {
	t.Helper()
	opts = append([]engine.Option{
		engine.WithResolver(r),
		engine.WithLogger(zerolog.Nop()),
	}, opts...)
	e, err := engine.New(record, opts...)
	require.NoError(t, err)
	return e
}

func fullRecord() *config.Record {
	r := &config.Record{
		Resolvers:  pipeline.Pipeline{"resolver-default"},
		Bundler:    "bundler-default",
		Namers:     pipeline.Pipeline{"namer-default"},
		Reporters:  pipeline.Pipeline{"reporter-cli"},
		ConfigPath: "/app/.parcelrc",
	}
	r.Transforms.Set("*.ts", pipeline.Pipeline{"transformer-typescript", pipeline.Spread})
	r.Transforms.Set("*.{js,ts}", pipeline.Pipeline{"transformer-babel", "transformer-js"})
	r.Runtimes.Set("browser", pipeline.Pipeline{"runtime-js", "runtime-hmr"})
	r.Packagers.Set("*.css", "packager-css")
	r.Packagers.Set("*.module.css", "packager-css-modules")
	r.Packagers.Set("*.js", "packager-js")
	r.Optimizers.Set("*.js", pipeline.Pipeline{"optimizer-terser"})
	return r
}

func allPlugins() *countingResolver {
	return newCountingResolver().add(
		"resolver-default",
		"bundler-default",
		"namer-default",
		"reporter-cli",
		"transformer-typescript",
		"transformer-babel",
		"transformer-js",
		"runtime-js",
		"runtime-hmr",
		"packager-css",
		"packager-css-modules",
		"packager-js",
		"optimizer-terser",
	)
}

func ids(plugins []*engine.Plugin) []string {
	out := make([]string, len(plugins))
	for i, p := range plugins {
		out[i] = p.ID
	}
	return out
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes of a logger
type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
