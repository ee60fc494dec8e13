// Package registry provides a generic, thread-safe registry keyed by name.
// It backs the in-process builtin plugin modules, which register themselves
// from init() functions.
package registry
