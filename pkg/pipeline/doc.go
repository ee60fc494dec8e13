// Package pipeline holds the pure data side of plugin resolution: ordered
// glob-to-value mappings, glob matching of file paths and the spread
// composition of pipelines.
//
// # Pattern Conventions
//
// A pattern matches a file when it matches either the full (slash separated)
// path or the final path segment alone:
//
//   - `*.js` - any file ending in .js, wherever it lives
//   - `src/**/*.ts` - TypeScript files below src/
//   - `*.{png,jpg}` - alternatives
//
// # Declaration Order
//
// GlobMap keeps patterns in the order they were declared. Single-value
// lookups return the first matching pattern, not the most specific one.
//
// # Spread
//
// A pipeline may contain the spread marker "..." once. When several patterns
// match a file their pipelines are queued in declaration order and the marker
// of one pipeline is replaced by the composition of the pipelines after it:
//
//	"*.js":  ["@company/transformer-env", "..."]
//	"*.{js,ts}": ["@parcel/transformer-babel", "@parcel/transformer-js"]
//
// resolves `index.js` to the three transformers in that order.
package pipeline
