package engine

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/modules"
	"golang.org/x/sync/errgroup"
)

// LoadPlugin returns the plugin for id, resolving it on first use.
// Concurrent calls for an id that is not cached yet share one resolution.
// The shared resolution is detached from the cancellation of any single
// caller; each caller stops waiting when its own ctx is done. Failures are
// returned to every waiting caller and are not cached.
func (e *Engine) LoadPlugin(ctx context.Context, id string) (*Plugin, error) {
	if id == "" {
		return nil, errors.New(errors.ErrInvalidInput, "plugin identifier cannot be empty")
	}

	if p, ok := e.cached(id); ok {
		e.logger.Debug().Str("plugin", id).Msg("Plugin cache hit")
		return p, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := e.group.DoChan(id, func() (interface{}, error) {
		// a load for id may have finished between the lookup and DoChan
		if p, ok := e.cached(id); ok {
			return p, nil
		}

		e.logger.Debug().Str("plugin", id).Msg("Plugin cache miss")
		p, err := e.load(loadCtx, id)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		e.cache[id] = p
		e.mu.Unlock()
		return p, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			e.logger.Debug().Str("plugin", id).Msg("Joined in-flight plugin load")
		}
		return res.Val.(*Plugin), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LoadPlugins loads ids concurrently and returns the plugins in the same
// order. The first failure cancels the remaining loads and is returned.
func (e *Engine) LoadPlugins(ctx context.Context, ids []string) ([]*Plugin, error) {
	plugins := make([]*Plugin, len(ids))
	if len(ids) == 0 {
		return plugins, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			p, err := e.LoadPlugin(gctx, id)
			if err != nil {
				return err
			}
			plugins[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plugins, nil
}

func (e *Engine) cached(id string) (*Plugin, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.cache[id]
	return p, ok
}

func (e *Engine) load(ctx context.Context, id string) (*Plugin, error) {
	mod, pkg, err := e.resolver.Resolve(ctx, id, e.config.ConfigPath)
	if err != nil {
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			return nil, errors.Wrapf(err, errors.ErrPluginLoad, "cannot load plugin %q", id).
				WithDetail("plugin", id)
		}
		return nil, err
	}

	if err := e.checkVersion(id, pkg); err != nil {
		return nil, err
	}

	var exports modules.Exports
	if mod != nil {
		exports = mod.Exports
	}
	cfg, err := capability(id, exports)
	if err != nil {
		return nil, err
	}

	p := &Plugin{
		ID:     id,
		Config: cfg,
	}
	if pkg != nil {
		p.Version = pkg.Version
	}
	if mod != nil {
		p.PackagePath = mod.Path
	}

	e.logger.Debug().
		Str("plugin", id).
		Str("version", p.Version).
		Str("path", p.PackagePath).
		Msg("Loaded plugin")
	return p, nil
}

// checkVersion verifies the host version satisfies the package's
// engines.parcel range. A package without a range only gets a warning.
func (e *Engine) checkVersion(id string, pkg *modules.Package) error {
	rng, ok := pkg.EngineRange(modules.EngineName)
	if !ok {
		e.logger.Warn().
			Str("plugin", id).
			Msgf("The plugin %q needs to specify a `package.json#engines.%s` field with the supported Parcel version range.",
				id, modules.EngineName)
		return nil
	}

	constraint, err := semver.NewConstraint(rng)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPluginIncompatible,
			"The plugin %q declares an invalid engines.%s range %q.", id, modules.EngineName, rng).
			WithDetail("plugin", id).
			WithDetail("range", rng).
			WithDetail("hostVersion", e.HostVersion())
	}

	if !constraint.Check(e.hostVersion) {
		return errors.Newf(errors.ErrPluginIncompatible,
			"The plugin %q is not compatible with the current version of Parcel. Requires %q but the current version is %q.",
			id, rng, e.HostVersion()).
			WithDetail("plugin", id).
			WithDetail("range", rng).
			WithDetail("hostVersion", e.HostVersion())
	}
	return nil
}
