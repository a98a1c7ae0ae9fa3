// Package cliconfig loads cmd/shapeconv's configuration, layering flags
// over environment variables over an optional YAML file over built-in
// defaults (SPEC_FULL.md 6's "CLI" section), using koanf the way
// _examples/JanakaSandaruwan-choreov3 wires its own config stack.
package cliconfig

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds cmd/shapeconv's runtime configuration.
type Config struct {
	LogLevel string
	// OutPath is the destination file for the translated output; empty
	// means stdout.
	OutPath string
}

const envPrefix = "SHAPECONV_"

// defaultConfigFile is read if present in the current directory; it is
// never required.
const defaultConfigFile = ".shapeconv.yaml"

// Load builds a Config from, in increasing priority: built-in defaults,
// an optional ./.shapeconv.yaml, SHAPECONV_*-prefixed environment
// variables, and finally the flag overrides passed by the caller.
func Load(flagOverrides map[string]interface{}) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"loglevel": "info",
		"outpath":  "",
	}, "."), nil); err != nil {
		return Config{}, err
	}

	if _, err := os.Stat(defaultConfigFile); err == nil {
		if err := k.Load(file.Provider(defaultConfigFile), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, err
	}

	if len(flagOverrides) > 0 {
		if err := k.Load(confmap.Provider(flagOverrides, "."), nil); err != nil {
			return Config{}, err
		}
	}

	return Config{
		LogLevel: k.String("loglevel"),
		OutPath:  k.String("outpath"),
	}, nil
}
