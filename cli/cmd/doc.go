// Package cmd implements the tplc subcommands. Each command is a kong
// command struct whose Run method reads template source from a file or
// standard input and writes its product to the streams installed with
// [WithStreams].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
