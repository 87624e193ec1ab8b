// Package profile provides optional runtime profiling for tplc.
//
// # Overview
//
// This package integrates [github.com/pkg/profile]. Profiling must be enabled
// at build time with the "pprof" build tag:
//
//	go build -tags pprof -o tplc .
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// # Modes
//
// allocs, block, clock, cpu, goroutine, heap, mem, mutex, thread and trace.
// Use [Modes] to retrieve the list programmatically.
//
// # Usage
//
//	var cfg profile.Config = func() (string, string, bool) { return "", "", false }
//	cfg = profile.WithMode("cpu")(cfg)
//	cfg = profile.WithPath("/tmp/profiles")(cfg)
//	defer cfg.Start().Stop()
//
// From the command line:
//
//	tplc --pprof-mode=cpu compile big.tpl -o big.cpp
//	go tool pprof -http=: ~/.cache/tplc/pprof/cpu.pprof
//
// The default output directory is the pprof directory under the tplc cache
// directory ($XDG_CACHE_HOME/tplc/pprof on Linux).
//
// When built with the tag this package also imports [net/http/pprof], which
// registers its handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
