// Package internal contains the core implementation packages for pilotgen.
//
// The packages are organized by functional domain:
//
//   - configtree: the immutable YAML-backed value tree templates render against
//   - engine: the template directive scanner, parser, and renderer
//   - discovery: template file discovery feeding the registry
//   - registry: parsed-template registry with change events
//   - generator: context preparation, batch rendering, and artifact writing
//   - templatepack: the embedded built-in template set
//   - scaffolding: project setup and the interactive init wizard
//   - watcher: debounced filesystem watching for watch mode and the server
//   - server: the live-reload preview server
//   - config, logging, errors, types, version: shared plumbing
package internal
