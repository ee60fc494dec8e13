package engine

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/frux-technologies/parcel/pkg/config"
	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/logging"
	"github.com/frux-technologies/parcel/pkg/modules"
	"github.com/frux-technologies/parcel/pkg/pipeline"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"
)

// DefaultHostVersion is the host version plugins are checked against when
// none is configured
const DefaultHostVersion = "2.0.0"

// Engine resolves the plugins of one pipeline configuration
type Engine struct {
	config      *config.Record
	resolver    modules.Resolver
	hostVersion *semver.Version
	logger      zerolog.Logger

	mu    sync.RWMutex
	cache map[string]*Plugin
	group singleflight.Group
}

type options struct {
	resolver    modules.Resolver
	hostVersion string
	logger      *zerolog.Logger
}

// Option configures an Engine
type Option func(*options)

// WithResolver sets the module resolver plugins are loaded through
func WithResolver(r modules.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithHostVersion sets the version checked against engines.parcel ranges
func WithHostVersion(v string) Option {
	return func(o *options) { o.hostVersion = v }
}

// WithLogger replaces the engine logger
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// New creates an engine for record. Patterns and plugin names are
// validated up front; plugins are only loaded when a phase asks for them.
// Without WithResolver, builtins are tried first and then packages
// installed on the local filesystem.
func New(record *config.Record, opts ...Option) (*Engine, error) {
	if record == nil {
		return nil, errors.New(errors.ErrInvalidInput, "configuration record cannot be nil")
	}

	o := options{hostVersion: DefaultHostVersion}
	for _, opt := range opts {
		opt(&o)
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	hostVersion, err := semver.NewVersion(o.hostVersion)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid host version %q", o.hostVersion).
			WithDetail("hostVersion", o.hostVersion)
	}

	if o.resolver == nil {
		o.resolver = modules.Chain{modules.Default, modules.NewFSResolver(afero.NewOsFs())}
	}

	logger := logging.GetLogger("engine")
	if o.logger != nil {
		logger = *o.logger
	}
	logger = logger.With().
		Str("instance_id", uuid.NewString()).
		Str("config", record.ConfigPath).
		Logger()

	return &Engine{
		config:      record.Clone(),
		resolver:    o.resolver,
		hostVersion: hostVersion,
		logger:      logger,
		cache:       make(map[string]*Plugin),
	}, nil
}

// Record returns a copy of the configuration the engine was built from
func (e *Engine) Record() *config.Record {
	return e.config.Clone()
}

// ConfigPath returns the path plugins are resolved relative to
func (e *Engine) ConfigPath() string {
	return e.config.ConfigPath
}

// HostVersion returns the version plugins are checked against
func (e *Engine) HostVersion() string {
	return e.hostVersion.Original()
}

// Names returns the plugin identifiers of phase, with spread markers
// composed. target is the file path, or the environment context for
// runtimes, and is ignored by fixed phases. Phases that must not be empty
// fail with ErrConfigInvalid.
func (e *Engine) Names(phase Phase, target string) (pipeline.Pipeline, error) {
	var (
		ids pipeline.Pipeline
		err error
	)

	switch phase {
	case PhaseResolvers:
		ids, err = flattenFixed(phase, e.config.Resolvers)
	case PhaseTransformers:
		ids, err = pipeline.MatchGlobMapPipelines(target, e.config.Transforms)
	case PhaseBundler:
		ids = single(e.config.Bundler)
	case PhaseNamers:
		ids, err = flattenFixed(phase, e.config.Namers)
	case PhaseRuntimes:
		runtimes, _ := e.config.Runtimes.Get(target)
		ids, err = flattenFixed(phase, runtimes)
	case PhasePackager:
		packager, _ := pipeline.MatchGlobMap(target, e.config.Packagers)
		ids = single(packager)
	case PhaseOptimizers:
		ids, err = pipeline.MatchGlobMapPipelines(target, e.config.Optimizers)
	case PhaseReporters:
		ids, err = flattenFixed(phase, e.config.Reporters)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown phase %q", phase).
			WithDetail("phase", string(phase))
	}
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 && !phase.AllowsEmpty() {
		return nil, e.missing(phase, target)
	}
	return ids, nil
}

// Plugins loads the plugins of phase, in pipeline order
func (e *Engine) Plugins(ctx context.Context, phase Phase, target string) ([]*Plugin, error) {
	ids, err := e.Names(phase, target)
	if err != nil {
		return nil, err
	}
	return e.LoadPlugins(ctx, ids)
}

// Resolvers loads the resolver pipeline; it must not be empty
func (e *Engine) Resolvers(ctx context.Context) ([]*Plugin, error) {
	return e.Plugins(ctx, PhaseResolvers, "")
}

// Transformers loads the transformers for filePath; at least one must match
func (e *Engine) Transformers(ctx context.Context, filePath string) ([]*Plugin, error) {
	return e.Plugins(ctx, PhaseTransformers, filePath)
}

// TransformerNames returns the transformer identifiers for filePath
func (e *Engine) TransformerNames(filePath string) (pipeline.Pipeline, error) {
	return e.Names(PhaseTransformers, filePath)
}

// Bundler loads the configured bundler
func (e *Engine) Bundler(ctx context.Context) (*Plugin, error) {
	return e.singlePlugin(ctx, PhaseBundler, "")
}

// Namers loads the namer pipeline; it must not be empty
func (e *Engine) Namers(ctx context.Context) ([]*Plugin, error) {
	return e.Plugins(ctx, PhaseNamers, "")
}

// Runtimes loads the runtimes declared for an environment context. An
// unknown context has no runtimes.
func (e *Engine) Runtimes(ctx context.Context, envContext string) ([]*Plugin, error) {
	return e.Plugins(ctx, PhaseRuntimes, envContext)
}

// Packager loads the packager for filePath; one must match
func (e *Engine) Packager(ctx context.Context, filePath string) (*Plugin, error) {
	return e.singlePlugin(ctx, PhasePackager, filePath)
}

// PackagerName returns the packager identifier for filePath
func (e *Engine) PackagerName(filePath string) (string, error) {
	ids, err := e.Names(PhasePackager, filePath)
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// Optimizers loads the optimizers for filePath, possibly none
func (e *Engine) Optimizers(ctx context.Context, filePath string) ([]*Plugin, error) {
	return e.Plugins(ctx, PhaseOptimizers, filePath)
}

// OptimizerNames returns the optimizer identifiers for filePath
func (e *Engine) OptimizerNames(filePath string) (pipeline.Pipeline, error) {
	return e.Names(PhaseOptimizers, filePath)
}

// Reporters loads the reporter pipeline, possibly none
func (e *Engine) Reporters(ctx context.Context) ([]*Plugin, error) {
	return e.Plugins(ctx, PhaseReporters, "")
}

func (e *Engine) singlePlugin(ctx context.Context, phase Phase, target string) (*Plugin, error) {
	ids, err := e.Names(phase, target)
	if err != nil {
		return nil, err
	}
	return e.LoadPlugin(ctx, ids[0])
}

func (e *Engine) missing(phase Phase, target string) error {
	var err *errors.ParcelError
	switch phase {
	case PhaseTransformers:
		err = errors.Newf(errors.ErrConfigInvalid, "No transformers found for \"%s\".", target)
	case PhasePackager:
		err = errors.Newf(errors.ErrConfigInvalid, "No packager found for \"%s\".", target)
	default:
		err = errors.Newf(errors.ErrConfigInvalid, "No %s specified in %s config", phase, e.rcName())
	}

	err = err.WithDetail("phase", string(phase))
	if target != "" {
		err = err.WithDetail("path", target)
	}
	return err
}

func (e *Engine) rcName() string {
	if e.config.ConfigPath == "" {
		return config.DefaultFileName
	}
	return filepath.Base(e.config.ConfigPath)
}

// flattenFixed composes a pipeline that is not looked up by pattern. Its
// queue has a single entry, so a spread marker expands to nothing.
func flattenFixed(phase Phase, p pipeline.Pipeline) (pipeline.Pipeline, error) {
	ids, err := pipeline.Flatten([]pipeline.Pipeline{p})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrComposition, "invalid %s pipeline", phase).
			WithDetail("phase", string(phase))
	}
	return ids, nil
}

func single(id string) pipeline.Pipeline {
	if id == "" || id == pipeline.Spread {
		return nil
	}
	return pipeline.Pipeline{id}
}
