// Package modules locates plugin packages and loads their modules.
//
// A Resolver turns a plugin identifier into a Module (its export table) and
// the Package metadata found next to it. Three resolvers are provided:
//
//   - Builtins: plugins compiled into the binary, registered by name
//   - FSResolver: packages installed under node_modules, found by walking up
//     from the configuration file; a package whose main entry is a .go file is
//     interpreted with yaegi, any other package needs a builtin implementation
//   - Chain: tries resolvers in order, moving on only when a plugin is not found
package modules
