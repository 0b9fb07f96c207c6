package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"partfail-sim/internal/scenario"
	"partfail-sim/internal/store"
	"partfail-sim/internal/store/postgres"
	"partfail-sim/internal/store/sqlite"
)

// storeDSN prefers the flag and falls back to PARTFAIL_DB.
func storeDSN(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("PARTFAIL_DB")
}

// openStore picks the backend from the DSN scheme. A bare path is a sqlite
// file. The schema is created before the store is returned.
func openStore(ctx context.Context, dsn string) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("no store configured: pass --db or set PARTFAIL_DB")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		st, err = postgres.New(ctx, dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		st, err = sqlite.New(ctx, dsn)
	case strings.Contains(dsn, "://"):
		return nil, fmt.Errorf("unsupported store scheme in %q", dsn)
	default:
		st, err = sqlite.New(ctx, "sqlite://"+dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close(ctx)
		return nil, err
	}
	return st, nil
}

// loadScenario resolves a built-in craft name or a manifest path.
func loadScenario(nameOrPath string) (*scenario.Scenario, error) {
	if sc, ok := scenario.BuiltIn()[nameOrPath]; ok {
		return &sc, nil
	}
	if _, err := os.Stat(nameOrPath); err != nil {
		return nil, fmt.Errorf("scenario %q is neither built in nor a readable file: %w", nameOrPath, err)
	}
	return scenario.Load(nameOrPath)
}
