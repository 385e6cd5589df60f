// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package config loads settings for the conformance-checking tool: which
// reference log to replay, where the ROM image lives, and how much of
// the central logger's tail to print on a mismatch. The source keeps
// equivalent settings (display, audio, recording preferences) in a
// key=value prefs file read line-by-line; here they're grouped into a
// single TOML document instead, since nothing about the settings below is
// naturally line-oriented.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/GhostRain0/GameBeanAdvance/errors"
)

// Config is the top-level document loaded from a TOML file.
type Config struct {
	ROM   ROMConfig   `toml:"rom"`
	Trace TraceConfig `toml:"trace"`
	Log   LogConfig   `toml:"log"`
}

// ROMConfig names the cartridge image to load into the ROM region.
type ROMConfig struct {
	Path string `toml:"path"`
}

// TraceConfig controls reference-log conformance checking.
type TraceConfig struct {
	LogPath   string `toml:"log_path"`
	StopAfter int    `toml:"stop_after"` // 0 means run the whole log
}

// LogConfig holds the logger settings. gba-trace reads TailOnly to choose
// between printing the log's tail and the whole log on a mismatch; Capacity
// is loaded but not applied, and the central logger keeps its fixed
// capacity of 1000 entries.
type LogConfig struct {
	Capacity int  `toml:"capacity"`
	TailOnly bool `toml:"tail_only"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Log: LogConfig{
			Capacity: 1000,
			TailOnly: true,
		},
	}
}

// Load reads and parses a TOML configuration file at path, starting from
// Default so that a partial file only overrides the fields it sets.
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Errorf(errors.ConfigError, err)
	}
	return cfg, nil
}
