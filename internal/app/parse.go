// # internal/app/parse.go
package app

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"terradep/internal/parser"
	"terradep/internal/registry"
	"terradep/internal/shared/observability"
)

// parseAll reads and parses every target on a worker pool, funneling the
// resulting documents through one merge goroutine. Parsing is independent per
// file; merging is serialized because two files can both need to create the
// same dangling descriptor.
func (a *App) parseAll(ctx context.Context, targets []target, reg *registry.Registry) error {
	ctx, span := observability.Tracer().Start(ctx, "parse")
	defer span.End()

	jobs := make(chan target)
	docs := make(chan *parser.Document)

	workers := runtime.NumCPU()
	if workers > len(targets) {
		workers = len(targets)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for t := range jobs {
				doc, ok := parseOne(t)
				if ok {
					docs <- doc
				}
			}
		}()
	}

	merged := make(chan struct{})
	go func() {
		defer close(merged)
		for doc := range docs {
			reg.Merge(doc)
		}
	}()

	feed := func() {
		defer close(jobs)
		for _, t := range targets {
			select {
			case jobs <- t:
			case <-ctx.Done():
				return
			}
		}
	}
	feed()

	wg.Wait()
	close(docs)
	<-merged

	return ctx.Err()
}

// parseOne reads and parses a single file. Malformed files are logged and
// skipped; one broken file must never abort the run.
func parseOne(t target) (*parser.Document, bool) {
	start := time.Now()

	src, err := os.ReadFile(t.path)
	if err != nil {
		slog.Warn("failed to read file", "path", t.path, "error", err)
		observability.ParseErrorsTotal.Inc()
		return nil, false
	}

	doc, err := parser.Parse(t.path, src, t.kind)
	if err != nil {
		slog.Warn("failed to parse file", "path", t.path, "error", err)
		observability.ParseErrorsTotal.Inc()
		return nil, false
	}

	observability.ParsingDuration.WithLabelValues(kindLabel(t.kind)).Observe(time.Since(start).Seconds())
	return doc, true
}

func kindLabel(kind parser.FileKind) string {
	if kind == parser.KindModuleFile {
		return "terragrunt"
	}
	return "terraform"
}
