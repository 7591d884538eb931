// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// bravo-replay runs scripted governance scenarios against an in-memory
// deployment of the governor engine and its bravo compatibility layer.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/mccoysc/governor-bravo/engine"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	scenarioFlag = &cli.StringFlag{
		Name:     "scenario",
		Usage:    "Scenario file (TOML)",
		Required: true,
	}
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Base governance configuration (TOML)",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to a rotated file instead of stderr",
	}
)

func main() {
	app := &cli.App{
		Name:  "bravo-replay",
		Usage: "replay governance scenarios through the GovernorBravo compatibility layer",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run a scenario",
				Flags:  []cli.Flag{scenarioFlag, configFlag, verbosityFlag, logFileFlag},
				Action: runScenario,
			},
			{
				Name:   "config",
				Usage:  "Print the effective governance configuration",
				Flags:  []cli.Flag{configFlag},
				Action: dumpConfig,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(verbosity int, logFile string) {
	level := log.FromLegacyLevel(verbosity)
	if logFile != "" {
		output := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
		}
		log.SetDefault(log.NewLogger(log.LogfmtHandlerWithLevel(output, level)))
		return
	}
	var (
		output   io.Writer = os.Stderr
		useColor           = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	)
	if useColor {
		output = colorable.NewColorableStderr()
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(output, level, useColor)))
}

func runScenario(ctx *cli.Context) error {
	setupLogging(ctx.Int(verbosityFlag.Name), ctx.String(logFileFlag.Name))

	base, err := engine.LoadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	sc, err := LoadScenario(ctx.String(scenarioFlag.Name), base)
	if err != nil {
		return err
	}
	runner, err := NewRunner(sc.Config, os.Stdout)
	if err != nil {
		return err
	}
	if err := runner.Run(sc.Steps); err != nil {
		return err
	}
	log.Info("Scenario complete", "steps", len(sc.Steps), "calls", len(runner.Calls()))
	return nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := engine.LoadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	return toml.NewEncoder(os.Stdout).Encode(cfg)
}
