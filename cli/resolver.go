package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tplc/log"
)

// resolve is a [kong.ConfigurationLoader] that reads a YAML configuration
// file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys name flags without their leading dashes. Nested mappings are joined
// with hyphens, so these two files are equivalent:
//
//	log-level: debug
//	compile-fold: true
//
//	log:
//	  level: debug
//	compile:
//	  fold: true
//
// A key prefixed with a command name applies only to that command's flag.
// Sequences become comma-separated lists. Command-line flags override
// configuration values.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c := make(config)
	c.flatten("", doc)

	log.Debug("configuration loaded", slog.Int("keys", len(c)))

	return c, nil
}

// config implements [kong.Resolver] for flattened YAML configuration.
type config map[string]any

// flatten stores the scalar leaves of m under hyphen-joined keys.
func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "-" + k
		}

		if sub, ok := v.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		if v = flagValue(v); v != nil {
			c[key] = v
		}
	}
}

// flagValue converts a decoded YAML value into a form kong's mappers accept.
// Kong requires numbers and lists as strings for parsing.
func flagValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil

	case bool, string:
		return v

	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, fmt.Sprint(flagValue(e)))
		}

		return strings.Join(parts, ",")

	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Command-scoped keys take precedence over global ones.
	if parent != nil && parent.Command != nil {
		if v, ok := c[parent.Command.Name+"-"+flag.Name]; ok {
			return v, nil
		}
	}

	// Configuration keys may use underscores in place of hyphens.
	for _, name := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
		if v, ok := c[name]; ok {
			return v, nil
		}
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
