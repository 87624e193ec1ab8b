// Package cli contains the command line interface for tplc.
//
// # Usage
//
//	tplc [flags] <command> [args]
//	tplc page.tpl -o page.hpp        # compile is the default command
//	tplc check --summary page.tpl
//	tplc ast --format=yaml page.tpl
//
// # Configuration
//
// Flag defaults are read from config.yaml (see [resolve]) and config.json in
// the tplc configuration directory ($XDG_CONFIG_HOME/tplc on Linux). The
// init command writes config.yaml from the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp layout (kitchen, RFC3339, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Style text output for terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tplc .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/tplc/pprof)
package cli
