// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads optional assembler-wide settings from an "asm24.toml"
// file in the working directory. Every setting here only tunes how output
// is presented or named -- never the assembly semantics of a source file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Output controls how the driver reports progress and errors.
type Output struct {
	Verbose bool `toml:"verbose"`
	Color   bool `toml:"color"`
}

// Extensions overrides the input and output filename suffixes, in case a
// caller's build pipeline feeds this assembler source files under a
// different suffix than the default ".as", or wants the four generated
// artifacts under different suffixes. None of this changes the content or
// format of those files -- only the names they're written under.
type Extensions struct {
	Source   string `toml:"source"`
	Expanded string `toml:"expanded"`
	Object   string `toml:"object"`
	Entries  string `toml:"entries"`
	Externs  string `toml:"externs"`
}

// Config is the full set of assembler settings.
type Config struct {
	Output     Output     `toml:"output"`
	Extensions Extensions `toml:"extensions"`
	// MaxLineLen bounds the number of content characters a source line may
	// have before errsink.MaxLineLength is reported. Defaults to 80.
	MaxLineLen int `toml:"max_line_len"`
}

// DefaultConfig returns the settings used when no asm24.toml is present.
func DefaultConfig() *Config {
	return &Config{
		Output: Output{
			Verbose: false,
			Color:   false,
		},
		Extensions: Extensions{
			Source:   ".as",
			Expanded: ".am",
			Object:   ".ob",
			Entries:  ".ent",
			Externs:  ".ext",
		},
		MaxLineLen: 80,
	}
}

// Load reads path if it exists, overlaying its values onto the defaults. A
// missing file is not an error: the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
