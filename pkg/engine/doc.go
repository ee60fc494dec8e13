// Package engine turns a pipeline configuration into loaded plugins.
//
// An Engine owns one configuration record and a plugin cache. Each phase
// accessor looks up the identifiers for its phase, composes spread
// markers, and loads every plugin through the module resolver. Loading a
// plugin checks the host version against the range the package declares
// under engines.parcel and extracts the plugin's capability object from
// the module exports.
//
// Every plugin identifier is resolved at most once per engine. Concurrent
// requests for the same identifier share a single resolution; failed loads
// are not cached and are retried on the next request.
package engine
