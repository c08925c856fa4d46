// # internal/app/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"terradep/internal/config"
	"terradep/internal/graph"
	"terradep/internal/history"
	"terradep/internal/registry"
	"terradep/internal/report"
	"terradep/internal/shared/observability"
	"terradep/internal/shared/util"
	"terradep/internal/watcher"
)

// Update is pushed to the UI layer after every completed run.
type Update struct {
	Report    *report.Report
	FileCount int
	Duration  time.Duration
}

type App struct {
	Config *config.Config

	updateMu sync.RWMutex
	onUpdate func(Update)

	limiter *util.Limiter
	store   *history.Store

	lastMu     sync.RWMutex
	lastReport *report.Report
}

func New(cfg *config.Config) (*App, error) {
	a := &App{
		Config:  cfg,
		limiter: util.PerMinute(cfg.Watch.MaxRunsPerMinute),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

// LastReport returns the most recent run's report, nil before the first run.
func (a *App) LastReport() *report.Report {
	a.lastMu.RLock()
	defer a.lastMu.RUnlock()
	return a.lastReport
}

// Run executes one full analysis pass: scan, parse, merge, score, build the
// graph, and run the three analysis phases concurrently. The registry is
// rebuilt from scratch every run; module trees are small enough that
// incremental invalidation is not worth its bookkeeping.
func (a *App) Run(ctx context.Context) (*report.Report, error) {
	ctx, span := observability.Tracer().Start(ctx, "analyze")
	defer span.End()
	start := time.Now()

	targets, err := a.scan()
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	slog.Info("configuration files discovered", "count", len(targets))

	reg := registry.New()
	if err := a.parseAll(ctx, targets, reg); err != nil {
		return nil, err
	}

	// Full barrier: every file has merged before scoring or graph build.
	reg.ScoreAll(a.Config.Analysis.Weights)

	g := graph.Build(reg)
	observability.GraphNodes.Set(float64(g.NodeCount()))
	observability.GraphEdges.Set(float64(g.EdgeCount()))

	var (
		cycles  [][]string
		paths   *graph.PathSet
		impacts map[string][]string
		wg      sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		defer timeTask("cycles")()
		cycles = g.Cycles()
	}()
	go func() {
		defer wg.Done()
		defer timeTask("paths")()
		paths = g.AllPaths(a.Config.Analysis.MaxPathsPerPair)
	}()
	go func() {
		defer wg.Done()
		defer timeTask("impact")()
		impacts = g.ImpactAll()
	}()
	wg.Wait()

	observability.CyclesDetected.Set(float64(len(cycles)))

	th := report.Thresholds{
		HighImpact:       a.Config.Analysis.HighImpactThreshold,
		ComplexityHigh:   10,
		ComplexityMedium: 5,
	}
	rep := report.Build(reg, g, cycles, paths, impacts, th)

	duration := time.Since(start)
	span.SetAttributes(
		attribute.Int("modules", rep.TotalModules),
		attribute.Int("dependencies", rep.TotalDependencies),
		attribute.Int("cycles", len(cycles)),
	)
	observability.RunsTotal.Inc()

	a.lastMu.Lock()
	a.lastReport = rep
	a.lastMu.Unlock()

	if a.store != nil {
		snap := history.FromReport(rep, len(targets), len(reg.DanglingNames()))
		if err := a.store.SaveSnapshot(a.Config.History.ProjectKey, snap); err != nil {
			slog.Warn("failed to save history snapshot", "error", err)
		}
	}

	a.emitUpdate(Update{Report: rep, FileCount: len(targets), Duration: duration})
	return rep, nil
}

// HandleChanges is the watcher callback. Change storms are throttled; a
// dropped run is safe because the next event triggers a full re-scan anyway.
func (a *App) HandleChanges(paths []string) {
	slog.Info("detected changes", "count", len(paths))

	if !a.limiter.Allow(1) {
		observability.RunsThrottledTotal.Inc()
		slog.Warn("analysis run throttled", "changes", len(paths))
		return
	}

	start := time.Now()
	rep, err := a.Run(context.Background())
	if err != nil {
		slog.Error("re-analysis failed", "error", err)
		return
	}

	if a.Config.Output.JSON != "" {
		if err := rep.WriteFile(a.Config.Output.JSON); err != nil {
			slog.Error("failed to write report", "error", err)
		}
	}

	a.PrintSummary(rep, time.Since(start))
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	return w.Watch(a.Config.ScanPaths)
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

func timeTask(task string) func() {
	start := time.Now()
	return func() {
		observability.AnalysisDuration.WithLabelValues(task).Observe(time.Since(start).Seconds())
	}
}
