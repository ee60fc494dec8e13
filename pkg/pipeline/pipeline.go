package pipeline

import (
	"slices"

	"github.com/frux-technologies/parcel/pkg/errors"
)

// Spread is the pipeline entry replaced by the next matching pipeline
const Spread = "..."

// Pipeline is an ordered list of plugin identifiers
type Pipeline []string

// SpreadIndex returns the position of the first spread marker, or -1
func (p Pipeline) SpreadIndex() int {
	return slices.Index(p, Spread)
}

// HasSpread reports whether the pipeline still contains a spread marker
func (p Pipeline) HasSpread() bool {
	return p.SpreadIndex() >= 0
}

// Clone returns a copy that shares no storage with p
func (p Pipeline) Clone() Pipeline {
	if p == nil {
		return Pipeline{}
	}
	return slices.Clone(p)
}

// Flatten composes a queue of pipelines into one.
//
// The first pipeline is taken off the queue. If it carries a spread marker
// the marker is replaced, in place, by the flattened rest of the queue.
// Pipelines after the first one without a marker are ignored. Only one
// marker may survive substitution at each level; a second one is a
// composition error. An empty queue flattens to an empty pipeline.
func Flatten(queue []Pipeline) (Pipeline, error) {
	if len(queue) == 0 {
		return Pipeline{}, nil
	}

	head := queue[0]
	index := head.SpreadIndex()
	if index < 0 {
		return head.Clone(), nil
	}

	// Each level consumes one queue entry, so recursion depth never exceeds len(queue).
	rest, err := Flatten(queue[1:])
	if err != nil {
		return nil, err
	}

	flattened := make(Pipeline, 0, len(head)-1+len(rest))
	flattened = append(flattened, head[:index]...)
	flattened = append(flattened, rest...)
	flattened = append(flattened, head[index+1:]...)

	if flattened.HasSpread() {
		return nil, errors.New(errors.ErrComposition,
			"only one spread (...) can be included in a config pipeline").
			WithDetail("pipeline", []string(head))
	}

	return flattened, nil
}
