package modules

import (
	"context"

	"github.com/frux-technologies/parcel/pkg/errors"
)

// Chain tries each resolver in turn. Only ErrPluginNotFound moves on to
// the next resolver; any other failure is returned as is.
type Chain []Resolver

// Resolve implements Resolver
func (c Chain) Resolve(ctx context.Context, id, basePath string) (*Module, *Package, error) {
	var lastErr error
	for _, r := range c {
		mod, pkg, err := r.Resolve(ctx, id, basePath)
		if err == nil {
			return mod, pkg, nil
		}
		if !errors.HasErrorCode(err, errors.ErrPluginNotFound) {
			return nil, nil, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = notFound(id, basePath)
	}
	return nil, nil, lastErr
}
