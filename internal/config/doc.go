// Package config loads and validates the animelens configuration.
//
// Configuration lives in a TOML file (~/.config/animelens/config.toml
// or a project-local animelens.toml). Load resolves the file, decodes
// it over repository defaults, expands paths, and validates the result,
// so callers always receive a usable Config. CreateSample writes the
// embedded sample file for `animelens config init`.
package config
