// Package config loads pystyle settings from defaults, an optional config
// file, PYSTYLE_* environment variables and command line overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultSelector       = "source.python"
	DefaultIndentUnitSize = 4
	EnvPrefix             = "PYSTYLE"
)

// Config holds the options shared by every checker.
type Config struct {
	// Selector names the spans of a document that are scanned.
	Selector string
	// IndentUnitSize is the number of spaces per nesting level. Values
	// below 1 mean the default; see IndentUnit.
	IndentUnitSize int
	// Linters lists the checkers to run. Empty means all of them.
	Linters []string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Selector:       DefaultSelector,
		IndentUnitSize: DefaultIndentUnitSize,
	}
}

// IndentUnit returns the effective indentation unit.
func (c Config) IndentUnit() int {
	if c.IndentUnitSize <= 0 {
		return DefaultIndentUnitSize
	}
	return c.IndentUnitSize
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment are consulted.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("selector", DefaultSelector)
	v.SetDefault("indent_unit_size", DefaultIndentUnitSize)
	v.SetDefault("linters", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	selector := strings.TrimSpace(v.GetString("selector"))
	if selector == "" {
		selector = DefaultSelector
	}

	// num_spaces is the historical name of the unit size setting.
	unit := v.GetString("indent_unit_size")
	if _, env := os.LookupEnv(EnvPrefix + "_INDENT_UNIT_SIZE"); !env && !v.InConfig("indent_unit_size") && v.InConfig("num_spaces") {
		unit = v.GetString("num_spaces")
	}

	return Config{
		Selector:       selector,
		IndentUnitSize: ParseIndentUnit(unit),
		Linters:        splitList(v.GetStringSlice("linters")),
	}, nil
}

// ParseIndentUnit converts a raw setting to a unit size, falling back to
// the default for anything that is not a positive integer.
func ParseIndentUnit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultIndentUnitSize
	}
	return n
}

// ParseList splits a comma separated list, dropping empty entries.
func ParseList(raw string) []string {
	return splitList([]string{raw})
}

func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
