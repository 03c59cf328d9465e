package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file the run reads or writes.
// This is the single source of truth for file locations; relative names are
// resolved against BaseDir, which defaults to the working directory.
type Paths struct {
	BaseDir      string
	InputFile    string
	ShipmentsCSV string
	StatsCSV     string
	WorkbookXLSX string // empty when the workbook is disabled
	LogFile      string
	MetricsFile  string
	TraceFile    string
}

// GetPaths resolves the configured names into absolute paths
func GetPaths(cfg *Config) (*Paths, error) {
	base := cfg.Report.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	p := &Paths{BaseDir: base}
	p.InputFile = p.resolve(cfg.Input.Path)
	p.ShipmentsCSV = p.resolve(cfg.Report.ShipmentsPath)
	p.StatsCSV = p.resolve(cfg.Report.StatsPath)
	p.WorkbookXLSX = p.resolve(cfg.Report.WorkbookPath)
	p.MetricsFile = p.resolve(cfg.Telemetry.MetricsFile)
	p.TraceFile = p.resolve(cfg.Telemetry.TraceFile)
	if cfg.Logging.Output != "console" {
		p.LogFile = p.resolve(cfg.Logging.FilePath)
	}
	return p, nil
}

// resolve makes name absolute relative to BaseDir. Empty stays empty.
func (p *Paths) resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(p.BaseDir, name)
}

// OutputFiles lists every enabled output in write order
func (p *Paths) OutputFiles() []string {
	files := []string{p.ShipmentsCSV, p.StatsCSV}
	for _, f := range []string{p.WorkbookXLSX, p.MetricsFile, p.TraceFile, p.LogFile} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// EnsureDirectories creates the parent directory of every output file
func (p *Paths) EnsureDirectories() error {
	seen := make(map[string]bool)
	for _, f := range p.OutputFiles() {
		dir := filepath.Dir(f)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("input_file", p.InputFile),
		slog.String("shipments_csv", p.ShipmentsCSV),
		slog.String("stats_csv", p.StatsCSV),
		slog.String("workbook_xlsx", p.WorkbookXLSX),
		slog.String("metrics_file", p.MetricsFile),
		slog.String("trace_file", p.TraceFile),
		slog.String("log_file", p.LogFile))
}
