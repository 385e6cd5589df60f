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

// Command gba-trace loads a ROM and a reference instruction log and reports
// whether the THUMB interpreter reproduces every recorded state transition.
// It is the conformance-checking entry point referred to in the error
// handling design as "the driver"; it deliberately does not attempt to run
// a ROM on its own budget or clock - that outer loop is out of scope here.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GhostRain0/GameBeanAdvance/config"
	"github.com/GhostRain0/GameBeanAdvance/cpu"
	"github.com/GhostRain0/GameBeanAdvance/logger"
	"github.com/GhostRain0/GameBeanAdvance/memory"
	"github.com/GhostRain0/GameBeanAdvance/trace"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "gba-trace",
		Short: "Replay a reference CPU-state log against the THUMB interpreter",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML configuration file")

	root.AddCommand(runCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var stopAfter int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a ROM and reference log, then verify conformance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if stopAfter > 0 {
				cfg.Trace.StopAfter = stopAfter
			}

			romData, err := os.ReadFile(cfg.ROM.Path)
			if err != nil {
				return fmt.Errorf("reading ROM: %w", err)
			}
			logFile, err := os.Open(cfg.Trace.LogPath)
			if err != nil {
				return fmt.Errorf("opening reference log: %w", err)
			}
			defer logFile.Close()

			records, err := trace.ParseLog(logFile)
			if err != nil {
				return err
			}
			if cfg.Trace.StopAfter > 0 && len(records) > cfg.Trace.StopAfter {
				records = records[:cfg.Trace.StopAfter]
			}

			mem := memory.NewMap()
			mem.LoadROM(romData)
			fmt.Printf("loaded %s\n", mem.Title())

			c := cpu.New(mem)
			mismatches, err := trace.Verify(c, records)
			if err != nil {
				return err
			}

			if len(mismatches) == 0 {
				fmt.Printf("%d records verified, no mismatches\n", len(records))
				return nil
			}

			for _, m := range mismatches {
				fmt.Println(m.String())
			}
			if !cfg.Log.TailOnly {
				logger.Write(os.Stdout)
			} else {
				logger.Tail(os.Stdout, 20)
			}
			return fmt.Errorf("%d mismatches found", len(mismatches))
		},
	}
	cmd.Flags().IntVar(&stopAfter, "stop-after", 0, "stop after this many records (0 = run the whole log)")

	return cmd
}
