package cli

import "github.com/ardnew/tplc/pkg"

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// configDir returns the configuration directory path.
func configDir() string { return pkg.ConfigDir() }

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string { return pkg.ConfigPath(elem...) }
