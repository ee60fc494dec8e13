package pipeline_test

import (
	"testing"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGlobMatch(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		pattern string
		want    bool
	}{
		{"basename only", "src/components/button.js", "*.js", true},
		{"full path only", "src/a.js", "src/*.js", true},
		{"full path with globstar", "app/src/deep/a.ts", "**/src/**/*.ts", true},
		{"alternatives", "assets/logo.png", "*.{png,jpg}", true},
		{"exact basename", "project/package.json", "package.json", true},
		{"no match", "src/a.css", "*.js", false},
		{"star does not cross directories", "src/lib/a.js", "src/*.js", false},
		{"malformed pattern", "a.js", "[.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pipeline.IsGlobMatch(tt.path, tt.pattern))
		})
	}
}

func TestIsGlobMatch_BasenameAndFullPathAreIndependent(t *testing.T) {
	// *.js cannot match the full path "src/a.js" but matches its base name
	assert.True(t, pipeline.IsGlobMatch("src/a.js", "*.js"))
	// src/*.js cannot match the base name "a.js" but matches the full path
	assert.True(t, pipeline.IsGlobMatch("src/a.js", "src/*.js"))
}

func TestValidatePattern(t *testing.T) {
	require.NoError(t, pipeline.ValidatePattern("*.{js,jsx}"))
	require.NoError(t, pipeline.ValidatePattern("src/**/*.ts"))

	err := pipeline.ValidatePattern("[abc")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
	assert.Contains(t, err.Error(), "[abc")

	err = pipeline.ValidatePattern("")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestValidatePatterns(t *testing.T) {
	good := pipeline.NewGlobMap(
		pipeline.Entry[string]{Pattern: "*.js", Value: "a"},
	)
	assert.NoError(t, pipeline.ValidatePatterns(good))

	bad := pipeline.NewGlobMap(
		pipeline.Entry[string]{Pattern: "*.js", Value: "a"},
		pipeline.Entry[string]{Pattern: "{*.css", Value: "b"},
	)
	err := pipeline.ValidatePatterns(bad)
	require.Error(t, err)
	assert.Equal(t, "{*.css", errors.GetErrorDetails(err)["pattern"])
}

func TestMatchGlobMap(t *testing.T) {
	packagers := pipeline.NewGlobMap(
		pipeline.Entry[string]{Pattern: "*.css", Value: "pkgA"},
		pipeline.Entry[string]{Pattern: "*.module.css", Value: "pkgB"},
	)

	t.Run("first declared match wins over a more specific one", func(t *testing.T) {
		got, ok := pipeline.MatchGlobMap("x.module.css", packagers)
		require.True(t, ok)
		assert.Equal(t, "pkgA", got)
	})

	t.Run("no match", func(t *testing.T) {
		got, ok := pipeline.MatchGlobMap("x.js", packagers)
		assert.False(t, ok)
		assert.Empty(t, got)
	})

	t.Run("empty map", func(t *testing.T) {
		_, ok := pipeline.MatchGlobMap("x.js", pipeline.GlobMap[string]{})
		assert.False(t, ok)
	})
}

func TestMatchGlobMapPipelines(t *testing.T) {
	transforms := pipeline.NewGlobMap(
		pipeline.Entry[pipeline.Pipeline]{Pattern: "*.js", Value: pipeline.Pipeline{"env", "...", "minify"}},
		pipeline.Entry[pipeline.Pipeline]{Pattern: "*.{js,ts}", Value: pipeline.Pipeline{"babel", "js"}},
		pipeline.Entry[pipeline.Pipeline]{Pattern: "*.css", Value: pipeline.Pipeline{"postcss"}},
	)

	t.Run("second match spliced at the spread position", func(t *testing.T) {
		got, err := pipeline.MatchGlobMapPipelines("src/index.js", transforms)
		require.NoError(t, err)
		assert.Equal(t, pipeline.Pipeline{"env", "babel", "js", "minify"}, got)
	})

	t.Run("single match", func(t *testing.T) {
		got, err := pipeline.MatchGlobMapPipelines("src/index.ts", transforms)
		require.NoError(t, err)
		assert.Equal(t, pipeline.Pipeline{"babel", "js"}, got)
	})

	t.Run("no match is empty", func(t *testing.T) {
		got, err := pipeline.MatchGlobMapPipelines("README.md", transforms)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("a pipeline without spread hides later matches", func(t *testing.T) {
		m := pipeline.NewGlobMap(
			pipeline.Entry[pipeline.Pipeline]{Pattern: "*.js", Value: pipeline.Pipeline{"only"}},
			pipeline.Entry[pipeline.Pipeline]{Pattern: "*", Value: pipeline.Pipeline{"raw"}},
		)
		got, err := pipeline.MatchGlobMapPipelines("a.js", m)
		require.NoError(t, err)
		assert.Equal(t, pipeline.Pipeline{"only"}, got)
	})

	t.Run("two spreads in one pipeline fail", func(t *testing.T) {
		m := pipeline.NewGlobMap(
			pipeline.Entry[pipeline.Pipeline]{Pattern: "*.js", Value: pipeline.Pipeline{"a", "...", "b", "..."}},
			pipeline.Entry[pipeline.Pipeline]{Pattern: "*", Value: pipeline.Pipeline{"raw"}},
		)
		_, err := pipeline.MatchGlobMapPipelines("a.js", m)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrComposition))
		assert.Contains(t, err.Error(), `"a.js"`)
		assert.Contains(t, err.Error(), "only one spread")
	})

	t.Run("matched pipelines are not modified", func(t *testing.T) {
		_, err := pipeline.MatchGlobMapPipelines("src/index.js", transforms)
		require.NoError(t, err)
		first, _ := transforms.Get("*.js")
		assert.Equal(t, pipeline.Pipeline{"env", "...", "minify"}, first)
	})
}
