package engine

import (
	"strings"

	"github.com/frux-technologies/parcel/pkg/errors"
)

// Phase names a build phase served by plugins
type Phase string

const (
	PhaseResolvers    Phase = "resolvers"
	PhaseTransformers Phase = "transformers"
	PhaseBundler      Phase = "bundler"
	PhaseNamers       Phase = "namers"
	PhaseRuntimes     Phase = "runtimes"
	PhasePackager     Phase = "packager"
	PhaseOptimizers   Phase = "optimizers"
	PhaseReporters    Phase = "reporters"
)

// Phases lists every phase in build order
var Phases = []Phase{
	PhaseResolvers,
	PhaseTransformers,
	PhaseBundler,
	PhaseNamers,
	PhaseRuntimes,
	PhasePackager,
	PhaseOptimizers,
	PhaseReporters,
}

// ParsePhase converts a phase name, case-insensitively
func ParsePhase(s string) (Phase, error) {
	name := Phase(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range Phases {
		if p == name {
			return p, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown phase %q", s).
		WithDetail("phase", s)
}

// NeedsTarget reports whether the phase is looked up by a file path or an
// environment context
func (p Phase) NeedsTarget() bool {
	switch p {
	case PhaseTransformers, PhaseRuntimes, PhasePackager, PhaseOptimizers:
		return true
	}
	return false
}

// AllowsEmpty reports whether an empty pipeline is a valid result
func (p Phase) AllowsEmpty() bool {
	switch p {
	case PhaseRuntimes, PhaseOptimizers, PhaseReporters:
		return true
	}
	return false
}

// Single reports whether the phase resolves to exactly one plugin
func (p Phase) Single() bool {
	return p == PhaseBundler || p == PhasePackager
}

func (p Phase) String() string {
	return string(p)
}
