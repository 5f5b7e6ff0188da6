// Package file provides the TOML-backed configuration store. Settings
// live in a single config file under the p8lua directory and are
// addressed by dot-notation keys ("history.keep").
package file
