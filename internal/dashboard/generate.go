// Package dashboard renders the Grafana dashboards shipped with the simulator.
package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"partfail-sim/internal/telemetry"
)

var templateFiles = []string{
	"grafana-failures.json.tmpl",
	"grafana-sessions.json.tmpl",
}

// Tables names the GreptimeDB tables a dashboard queries.
type Tables struct {
	Events    string
	Scheduler string
}

// DefaultTables follows the table name overrides of the writers.
func DefaultTables() Tables {
	return Tables{Events: telemetry.FailureEventTableName, Scheduler: telemetry.SchedulerStateTableName}
}

func rootDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(filepath.Dir(file)))
}

// Render parses dashboard templates and writes rendered dashboards to outDir.
// Datasource uids come from the environment through the env template func.
func Render(outDir string, tables Tables) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}

	base := rootDir()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, name := range templateFiles {
		t, err := template.New(name).Funcs(funcMap).ParseFiles(filepath.Join(base, name))
		if err != nil {
			return err
		}
		if err := renderFile(t, filepath.Join(outDir, strings.TrimSuffix(name, ".tmpl")), tables); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
	}
	return nil
}

func renderFile(t *template.Template, path string, data Tables) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Execute(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
