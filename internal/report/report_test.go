package report

import (
	"bytes"
	"strings"
	"testing"

	"terradep/internal/graph"
	"terradep/internal/parser"
	"terradep/internal/registry"
)

func fixtureRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	files := map[string]string{
		"stack/vpc/terragrunt.hcl": ``,
		"stack/db/terragrunt.hcl": `
dependency "vpc" {
  config_path = "../../stack/vpc"
}
`,
		"stack/cache/terragrunt.hcl": `
dependency "vpc" {
  config_path = "../../stack/vpc"
}
`,
		"stack/api/terragrunt.hcl": `
dependency "vpc" {
  config_path = "../../stack/vpc"
}
`,
		"stack/app/terragrunt.hcl": `
dependency "vpc" {
  config_path = "../../stack/vpc"
}

inputs = {
  missing = module.ghost.id
}
`,
	}
	for path, src := range files {
		doc, err := parser.Parse(path, []byte(src), parser.KindModuleFile)
		if err != nil {
			t.Fatalf("parse fixture %s: %v", path, err)
		}
		reg.Merge(doc)
	}
	reg.ScoreAll(registry.DefaultWeights())
	return reg
}

func buildReport(t *testing.T) *Report {
	t.Helper()
	reg := fixtureRegistry(t)
	g := graph.Build(reg)
	cycles := g.Cycles()
	paths := g.AllPaths(0)
	return Build(reg, g, cycles, paths, g.ImpactAll(), DefaultThresholds())
}

func TestReportDeterminism(t *testing.T) {
	first, err := buildReport(t).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := buildReport(t).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two runs over the same tree must produce identical bytes")
	}
}

func TestHighImpactRecommendation(t *testing.T) {
	rep := buildReport(t)

	// vpc has four dependents, exceeding the threshold of three.
	if len(rep.ImpactAnalysis.HighImpactModules) != 1 {
		t.Fatalf("high impact = %+v", rep.ImpactAnalysis.HighImpactModules)
	}
	him := rep.ImpactAnalysis.HighImpactModules[0]
	if him.Module != "vpc" || him.ImpactCount != 4 {
		t.Errorf("unexpected high-impact entry: %+v", him)
	}

	if len(rep.ImpactAnalysis.Recommendations) != 1 {
		t.Fatalf("recommendations = %v", rep.ImpactAnalysis.Recommendations)
	}
	rec := rep.ImpactAnalysis.Recommendations[0]
	if !strings.Contains(rec, "'vpc'") || !strings.Contains(rec, "4 affected modules") {
		t.Errorf("recommendation text = %q", rec)
	}
}

func TestTotalsAndBuckets(t *testing.T) {
	rep := buildReport(t)

	if rep.TotalModules != 5 {
		t.Errorf("total modules = %d", rep.TotalModules)
	}
	if rep.TotalDependencies != 4 {
		t.Errorf("total dependencies = %d", rep.TotalDependencies)
	}

	// All fixture modules score well below the medium boundary.
	if len(rep.ComplexityAnalysis.Low) != 5 {
		t.Errorf("low bucket = %v", rep.ComplexityAnalysis.Low)
	}
	if len(rep.ComplexityAnalysis.High)+len(rep.ComplexityAnalysis.Medium) != 0 {
		t.Errorf("unexpected non-low buckets: %+v", rep.ComplexityAnalysis)
	}
}

func TestDanglingReferenceWarning(t *testing.T) {
	rep := buildReport(t)

	var found bool
	for _, w := range rep.Warnings {
		if strings.Contains(w, "'ghost'") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning for the undefined module, got %v", rep.Warnings)
	}

	if _, ok := rep.Modules["ghost"]; ok {
		t.Error("dangling descriptor must not appear as a module entry")
	}
}

func TestDependencyPathKeys(t *testing.T) {
	rep := buildReport(t)

	paths, ok := rep.DependencyPaths["vpc->app"]
	if !ok {
		t.Fatalf("missing vpc->app paths, have %v", keysOf(rep.DependencyPaths))
	}
	if len(paths) != 1 || len(paths[0]) != 2 {
		t.Errorf("paths vpc->app = %v", paths)
	}
}

func keysOf(m map[string][][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
