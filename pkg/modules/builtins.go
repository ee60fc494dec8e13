package modules

import (
	"context"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/registry"
)

// Builtin is a plugin compiled into the binary
type Builtin struct {
	Package Package
	Exports Exports
}

// Builtins resolves plugins from an in-process registry
type Builtins struct {
	reg registry.Registry[Builtin]
}

// NewBuiltins creates an empty builtin table
func NewBuiltins() *Builtins {
	return &Builtins{reg: registry.New[Builtin]()}
}

// Default is the process-wide builtin table that plugin packages register into from init()
var Default = NewBuiltins()

// Register adds a builtin plugin under its package name
func (b *Builtins) Register(pkg Package, exports Exports) error {
	if pkg.Name == "" {
		return errors.New(errors.ErrInvalidInput, "builtin plugin needs a package name")
	}
	return b.reg.Register(pkg.Name, Builtin{Package: pkg, Exports: exports})
}

// MustRegister registers a builtin and panics on a duplicate name
func (b *Builtins) MustRegister(pkg Package, exports Exports) {
	registry.MustRegister(b.reg, pkg.Name, Builtin{Package: pkg, Exports: exports})
}

// Lookup returns the builtin registered under name
func (b *Builtins) Lookup(name string) (Builtin, bool) {
	return b.reg.Lookup(name)
}

// Names lists registered builtins, sorted
func (b *Builtins) Names() []string {
	return b.reg.List()
}

// Resolve implements Resolver. basePath is ignored: builtins are global.
func (b *Builtins) Resolve(ctx context.Context, id, basePath string) (*Module, *Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	builtin, ok := b.reg.Lookup(id)
	if !ok {
		return nil, nil, notFound(id, basePath)
	}

	pkg := builtin.Package
	return &Module{ID: id, Path: "builtin:" + id, Exports: builtin.Exports}, &pkg, nil
}
