package main

import (
	"flag"
	"log/slog"
	"os"

	"partfail-sim/internal/dashboard"
	"partfail-sim/internal/logging"
)

func main() {
	out := flag.String("out", "build", "Directory for rendered dashboards")
	flag.Parse()

	log := logging.New(slog.LevelInfo)
	tables := dashboard.DefaultTables()
	if err := dashboard.Render(*out, tables); err != nil {
		log.Error("render dashboards", "err", err)
		os.Exit(1)
	}
	log.Info("dashboards rendered", "dir", *out, "events_table", tables.Events, "scheduler_table", tables.Scheduler)
}
