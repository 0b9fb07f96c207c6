package main

import (
	"io"
	"os"

	"golang.org/x/term"

	"partfail-sim/internal/config"
	"partfail-sim/internal/sim"
)

// newWriters sets up the event writer based on flags and env vars.
// It returns the writer and a cleanup function to close any resources.
func newWriters(cfg *config.FailureConfig, printOnly, tui bool, logFile string) (sim.EventWriter, func(), error) {
	var closers []io.Closer
	cleanup := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	writer, err := baseWriter(cfg, printOnly, tui)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := writer.(io.Closer); ok {
		closers = append(closers, c)
	}
	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".state")
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, fw)
	return sim.NewMultiWriter(writer, fw), cleanup, nil
}

// baseWriter chooses the underlying writer: the TUI, STDOUT or GreptimeDB.
func baseWriter(cfg *config.FailureConfig, printOnly, tui bool) (sim.EventWriter, error) {
	if tui {
		return sim.NewTUIWriter(cfg), nil
	}
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if printOnly || endpoint == "" {
		return sim.NewStdoutWriter(cfg, term.IsTerminal(int(os.Stdout.Fd()))), nil
	}
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	return sim.NewGreptimeDBWriter(endpoint, database)
}
