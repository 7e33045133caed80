package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/releaseplan/internal/config"
	"github.com/specialistvlad/releaseplan/internal/ctxlog"
	"github.com/specialistvlad/releaseplan/internal/hclconf"
	"github.com/specialistvlad/releaseplan/internal/metrics"
	"github.com/specialistvlad/releaseplan/internal/scan"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	metrics    *metrics.Metrics
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Results go to outW and
// logs to logW. A nil loader is replaced by LoaderFor(cfg.InputPath).
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if loader == nil {
		loader = LoaderFor(cfg.InputPath)
	}

	return &App{
		ctx:     ctxlog.WithLogger(context.Background(), logger),
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loader:  loader,
		metrics: metrics.New(),
	}
}

// LoaderFor picks the input format from the path: directories and .hcl files
// are read as HCL, anything else as the line-format report.
func LoaderFor(path string) config.Loader {
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return hclconf.NewLoader()
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return hclconf.NewLoader()
	}
	return scan.NewLoader()
}

// Metrics returns the application's collectors. This is primarily for testing.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}
