package pipeline

import (
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/frux-technologies/parcel/pkg/errors"
)

// IsGlobMatch reports whether pattern matches filePath as a whole or its
// base name alone. Malformed patterns never match.
func IsGlobMatch(filePath, pattern string) bool {
	normalized := filepath.ToSlash(filePath)
	if matches(pattern, normalized) {
		return true
	}
	return matches(pattern, path.Base(normalized))
}

func matches(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// ValidatePattern returns a configuration error for a malformed pattern
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return errors.New(errors.ErrConfigInvalid, "glob pattern cannot be empty")
	}
	if !doublestar.ValidatePattern(pattern) {
		return errors.Newf(errors.ErrConfigInvalid, "invalid glob pattern %q", pattern).
			WithDetail("pattern", pattern)
	}
	return nil
}

// ValidatePatterns checks every pattern of m
func ValidatePatterns[V any](m GlobMap[V]) error {
	for _, e := range m.entries {
		if err := ValidatePattern(e.Pattern); err != nil {
			return err
		}
	}
	return nil
}

// MatchGlobMap returns the value of the first pattern, in declaration
// order, that matches filePath
func MatchGlobMap[V any](filePath string, m GlobMap[V]) (V, bool) {
	for _, e := range m.entries {
		if IsGlobMatch(filePath, e.Pattern) {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}

// MatchGlobMapPipelines collects the pipelines of every pattern matching
// filePath, in declaration order, and flattens them through their spread
// markers. No match yields an empty pipeline.
func MatchGlobMapPipelines(filePath string, m GlobMap[Pipeline]) (Pipeline, error) {
	var queue []Pipeline
	for _, e := range m.entries {
		if IsGlobMatch(filePath, e.Pattern) {
			queue = append(queue, e.Value)
		}
	}

	flattened, err := Flatten(queue)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrComposition,
			"cannot compose pipeline for %q", filePath).
			WithDetail("path", filePath)
	}
	return flattened, nil
}
