// Package config defines the format-agnostic run configuration model
// shared by the CLI and the orchestrator, along with its defaults,
// validation, and per-target copies.
//
// The Config struct is the single source of truth for the params,
// synthesis, and app packages. Concrete loaders, such as for HCL, are
// provided in separate packages behind the Loader interface.
package config
