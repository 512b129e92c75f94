// Package catalog serves the read-only mocked data of the workspace: the
// project tree opened from the explorer, source control changes, simulator
// devices and the theme catalog.
//
// Data is embedded at build time. The tree, changes and devices are YAML;
// the theme catalog is TOML. Glob uses doublestar patterns over file paths.
package catalog
