package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"partfail-sim/internal/admin"
	"partfail-sim/internal/config"
	"partfail-sim/internal/logging"
	"partfail-sim/internal/sim"
)

var (
	simPrintOnly  bool
	simConfigPath string
	simSchemaPath string
	simScenario   string
	simDB         string
	simTick       time.Duration
	simLogFile    string
	simTUI        bool
	simAdminAddr  string
)

// repairer is implemented by writers offering interactive repairs.
type repairer interface {
	SetRepairer(sim.RepairFunc)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time failure simulator",
	Long:  "simulate runs the failure engine against a vessel, emitting failure events and scheduler state until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.FromContext(cmd.Context())
		if simTUI {
			// The TUI owns the terminal.
			log = logging.NewWithWriter(io.Discard, logging.ParseLevel(logLevel))
		}

		cfg := config.Load(simConfigPath)
		if simSchemaPath != "" {
			if _, err := os.Stat(simConfigPath); err == nil {
				if err := config.ValidateWithCue(simConfigPath, simSchemaPath); err != nil {
					log.Warn("config does not match schema, invalid keys use defaults", "path", simConfigPath, "err", err)
				}
			}
		}

		sc, err := loadScenario(simScenario)
		if err != nil {
			return err
		}
		v := sc.BuildVessel()

		writer, cleanup, err := newWriters(cfg, simPrintOnly, simTUI, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		ctx, cancel := context.WithCancel(logging.NewContext(cmd.Context(), log))
		defer cancel()

		simulator, err := sim.NewSimulator(v, cfg, writer, tickInterval, sim.Options{Scenario: sc, Logger: log})
		if err != nil {
			return err
		}

		dsn := storeDSN(simDB)
		if dsn != "" {
			st, err := openStore(ctx, dsn)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())
			sess, err := st.LoadSession(ctx, v.ID)
			if err != nil {
				return err
			}
			if sess != nil {
				n, err := simulator.Restore(ctx, *sess)
				if err != nil {
					return err
				}
				log.Info("session restored", "vessel_id", v.ID, "records", n, "ut", simulator.UT())
			}
			defer func() {
				if err := st.SaveSession(context.Background(), simulator.Session()); err != nil {
					log.Error("session save failed", "vessel_id", v.ID, "err", err)
					return
				}
				log.Info("session saved", "vessel_id", v.ID)
			}()
		}

		if rw, ok := writer.(repairer); ok {
			rw.SetRepairer(func(partID string) error {
				_, err := simulator.Repair(ctx, partID, 0)
				return err
			})
		}

		if simAdminAddr != "" {
			srv := admin.NewServer(simulator, log)
			go func() {
				if err := srv.Start(ctx, simAdminAddr); err != nil {
					log.Error("admin server failed", "addr", simAdminAddr, "err", err)
					if aw, ok := writer.(sim.AdminStatusWriter); ok {
						aw.SetAdminStatus(false)
					}
				}
			}()
			if aw, ok := writer.(sim.AdminStatusWriter); ok {
				aw.SetAdminStatus(true)
			}
		}

		done := make(chan struct{})
		go func() {
			simulator.Run(ctx)
			close(done)
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		<-done
		if err := config.Save(simConfigPath, cfg); err != nil {
			log.Warn("config save failed", "path", simConfigPath, "err", err)
		}
		log.Info("failure simulation stopped", "ut", simulator.UT())
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print events to STDOUT instead of writing to DB")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", config.DefaultPath, "Path to failure tunables YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/failure.cue", "Path to CUE schema file, empty to skip")
	simulateCmd.Flags().StringVar(&simScenario, "scenario", "orbiter", "Built-in craft name or path to a scenario YAML")
	simulateCmd.Flags().StringVar(&simDB, "db", "", "Session store DSN (sqlite://path, postgres://...); defaults to PARTFAIL_DB")
	simulateCmd.Flags().DurationVar(&simTick, "tick", time.Second, "Engine tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export failure events (JSONL)")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Show the interactive terminal console")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin", ":8080", "Admin console listen address, empty to disable")
}
