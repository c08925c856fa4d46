package graph

import (
	"reflect"
	"testing"

	"terradep/internal/parser"
	"terradep/internal/registry"
)

// buildRegistry assembles a registry from terragrunt-style fixtures, where
// each entry maps a module name to the modules it depends on.
func buildRegistry(t *testing.T, deps map[string][]string) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for name, targets := range deps {
		src := ""
		for _, target := range targets {
			src += "dependency \"" + target + "\" {\n  config_path = \"../../stack/" + target + "\"\n}\n"
		}
		doc, err := parser.Parse("stack/"+name+"/terragrunt.hcl", []byte(src), parser.KindModuleFile)
		if err != nil {
			t.Fatalf("parse fixture for %s: %v", name, err)
		}
		reg.Merge(doc)
	}
	return reg
}

// defineAll marks every referenced module as defined by merging an empty
// declaration for it.
func defineAll(t *testing.T, reg *registry.Registry, names ...string) {
	t.Helper()
	for _, name := range names {
		doc, err := parser.Parse("stack/"+name+"/terragrunt.hcl", []byte(""), parser.KindModuleFile)
		if err != nil {
			t.Fatalf("parse empty fixture for %s: %v", name, err)
		}
		reg.Merge(doc)
	}
}

func TestBuildEdges(t *testing.T) {
	reg := buildRegistry(t, map[string][]string{
		"app": {"vpc", "db"},
		"db":  {"vpc"},
	})
	defineAll(t, reg, "vpc")

	g := Build(reg)
	if g.NodeCount() != 3 {
		t.Errorf("nodes = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Errorf("edges = %d, want 3", g.EdgeCount())
	}

	// Edges point dep -> dependent.
	if got := g.Dependents("vpc"); !reflect.DeepEqual(got, []string{"app", "db"}) {
		t.Errorf("dependents of vpc = %v", got)
	}
	if got := g.Dependents("db"); !reflect.DeepEqual(got, []string{"app"}) {
		t.Errorf("dependents of db = %v", got)
	}
}

func TestDanglingTargetsProduceNoNodes(t *testing.T) {
	reg := buildRegistry(t, map[string][]string{
		"app": {"ghost"},
	})
	// ghost is referenced but never defined.

	g := Build(reg)
	if g.NodeCount() != 1 {
		t.Errorf("nodes = %d, want 1", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("edges = %d, want 0 for unresolved reference", g.EdgeCount())
	}
	if g.HasNode("ghost") {
		t.Error("dangling descriptor must not become a node")
	}
}

func TestMultiEdgeCollapses(t *testing.T) {
	reg := registry.New()
	doc, err := parser.Parse("stack/app/terragrunt.hcl", []byte(`
inputs = {
  a = module.vpc.vpc_id
  b = module.vpc.subnet_ids
}
`), parser.KindModuleFile)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	reg.Merge(doc)
	defineAll(t, reg, "vpc")

	g := Build(reg)
	if g.EdgeCount() != 1 {
		t.Errorf("edges = %d, want multi-edges collapsed to 1", g.EdgeCount())
	}
}

func TestCyclesThreeNode(t *testing.T) {
	reg := buildRegistry(t, map[string][]string{
		"a": {"c"},
		"b": {"a"},
		"c": {"b"},
	})

	cycles := Build(reg).Cycles()
	if len(cycles) != 1 {
		t.Fatalf("cycles = %v, want exactly one", cycles)
	}
	// Canonical rotation starts at the smallest name. Edge direction is
	// dep -> dependent: a depends on c, so the walk is a -> b -> c.
	if !reflect.DeepEqual(cycles[0], []string{"a", "b", "c"}) {
		t.Errorf("cycle = %v", cycles[0])
	}
}

func TestCyclesTwoIndependent(t *testing.T) {
	reg := buildRegistry(t, map[string][]string{
		"a": {"b"},
		"b": {"a"},
		"x": {"y"},
		"y": {"x"},
	})

	cycles := Build(reg).Cycles()
	if len(cycles) != 2 {
		t.Fatalf("cycles = %v, want two", cycles)
	}
	if !reflect.DeepEqual(cycles[0], []string{"a", "b"}) {
		t.Errorf("first cycle = %v", cycles[0])
	}
	if !reflect.DeepEqual(cycles[1], []string{"x", "y"}) {
		t.Errorf("second cycle = %v", cycles[1])
	}
}

func TestCyclesOverlapping(t *testing.T) {
	// a <-> b and a <-> c share the vertex a: two elementary cycles.
	reg := buildRegistry(t, map[string][]string{
		"a": {"b", "c"},
		"b": {"a"},
		"c": {"a"},
	})

	cycles := Build(reg).Cycles()
	if len(cycles) != 2 {
		t.Fatalf("cycles = %v, want two elementary cycles", cycles)
	}
}

func TestAcyclicGraphHasNoCycles(t *testing.T) {
	reg := buildRegistry(t, map[string][]string{
		"app": {"db", "vpc"},
		"db":  {"vpc"},
	})
	defineAll(t, reg, "vpc")

	if cycles := Build(reg).Cycles(); len(cycles) != 0 {
		t.Errorf("cycles = %v, want none", cycles)
	}
}

func TestImpactChain(t *testing.T) {
	// vpc <- db <- app: a change to vpc affects db and app.
	reg := buildRegistry(t, map[string][]string{
		"app": {"db"},
		"db":  {"vpc"},
	})
	defineAll(t, reg, "vpc")

	g := Build(reg)
	if got := g.Impact("vpc"); !reflect.DeepEqual(got, []string{"app", "db"}) {
		t.Errorf("impact of vpc = %v", got)
	}
	if got := g.Impact("app"); len(got) != 0 {
		t.Errorf("impact of leaf = %v, want empty", got)
	}
}

func TestImpactExcludesSelfOnCycle(t *testing.T) {
	reg := buildRegistry(t, map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})

	g := Build(reg)
	if got := g.Impact("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("impact of a = %v, must exclude a itself", got)
	}
}

func TestAllPaths(t *testing.T) {
	// Diamond: vpc -> {db, cache} -> app gives two paths vpc->app.
	reg := buildRegistry(t, map[string][]string{
		"app":   {"db", "cache"},
		"db":    {"vpc"},
		"cache": {"vpc"},
	})
	defineAll(t, reg, "vpc")

	set := Build(reg).AllPaths(0)
	paths := set.Paths[PairKey("vpc", "app")]
	if len(paths) != 2 {
		t.Fatalf("paths vpc->app = %v, want 2", paths)
	}
	for _, p := range paths {
		if p[0] != "vpc" || p[len(p)-1] != "app" {
			t.Errorf("malformed path %v", p)
		}
	}
	if len(set.Truncated) != 0 {
		t.Errorf("unexpected truncation: %v", set.Truncated)
	}
}

func TestAllPathsCap(t *testing.T) {
	reg := buildRegistry(t, map[string][]string{
		"app":   {"db", "cache"},
		"db":    {"vpc"},
		"cache": {"vpc"},
	})
	defineAll(t, reg, "vpc")

	set := Build(reg).AllPaths(1)
	if got := len(set.Paths[PairKey("vpc", "app")]); got != 1 {
		t.Errorf("capped paths = %d, want 1", got)
	}
	if len(set.Truncated) == 0 {
		t.Error("expected a truncation warning")
	}
}
