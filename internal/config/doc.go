// Package config loads and validates crumbd configuration from TOML.
//
// A Config value is constructed once at process start (config file plus
// defaults) and passed explicitly into every constructor that needs it.
// Nothing in this package holds global state.
package config
