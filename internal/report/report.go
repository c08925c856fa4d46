// # internal/report/report.go
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"terradep/internal/graph"
	"terradep/internal/refs"
	"terradep/internal/registry"
)

// Thresholds controls the advisory classifications in the report.
type Thresholds struct {
	// HighImpact is exceeded when a module's impact set is strictly larger.
	HighImpact int
	// ComplexityHigh and ComplexityMedium split scores into three buckets:
	// high above ComplexityHigh, medium above ComplexityMedium, low below.
	ComplexityHigh   int
	ComplexityMedium int
}

func DefaultThresholds() Thresholds {
	return Thresholds{HighImpact: 3, ComplexityHigh: 10, ComplexityMedium: 5}
}

// ModuleEntry is one module's descriptor flattened for emission. Every slice
// is sorted so concurrent merge order never leaks into the report bytes.
type ModuleEntry struct {
	Source                 string            `json:"source"`
	Path                   string            `json:"path"`
	Dependencies           []string          `json:"dependencies"`
	TerragruntDependencies []string          `json:"terragrunt_dependencies"`
	Variables              map[string]string `json:"variables"`
	Outputs                []string          `json:"outputs"`
	DataSources            []string          `json:"data_sources"`
	ComplexityScore        int               `json:"complexity_score"`
	DependencyDetails      []refs.Reference  `json:"dependency_details"`
}

// ModuleImpact is one module's blast radius.
type ModuleImpact struct {
	AffectedModules []string `json:"affected_modules"`
	ImpactCount     int      `json:"impact_count"`
}

// HighImpactModule flags a module whose impact set exceeds the threshold.
type HighImpactModule struct {
	Module          string   `json:"module"`
	ImpactCount     int      `json:"impact_count"`
	AffectedModules []string `json:"affected_modules"`
}

type ImpactReport struct {
	HighImpactModules    []HighImpactModule      `json:"high_impact_modules"`
	ModuleImpactAnalysis map[string]ModuleImpact `json:"module_impact_analysis"`
	Recommendations      []string                `json:"recommendations"`
}

type ComplexityAnalysis struct {
	High   []string `json:"high_complexity"`
	Medium []string `json:"medium_complexity"`
	Low    []string `json:"low_complexity"`
}

// Report is the single structured result of one analysis run. It carries no
// timestamps or run identity on purpose: the same tree must always produce
// the same bytes.
type Report struct {
	Modules              map[string]ModuleEntry `json:"modules"`
	CircularDependencies [][]string             `json:"circular_dependencies"`
	DependencyPaths      map[string][][]string  `json:"dependency_paths"`
	ImpactAnalysis       ImpactReport           `json:"impact_analysis"`
	TotalModules         int                    `json:"total_modules"`
	TotalDependencies    int                    `json:"total_dependencies"`
	ComplexityAnalysis   ComplexityAnalysis     `json:"complexity_analysis"`
	Warnings             []string               `json:"warnings,omitempty"`
}

// Build assembles the report from the finished registry, graph, and analysis
// results. Cycles, paths, and impacts come in from their own analysis phases
// so the caller can run them concurrently before assembly. A nil impacts map
// falls back to computing reachability inline.
func Build(reg *registry.Registry, g *graph.Graph, cycles [][]string, paths *graph.PathSet, impacts map[string][]string, th Thresholds) *Report {
	rep := &Report{
		Modules:              make(map[string]ModuleEntry),
		CircularDependencies: cycles,
		DependencyPaths:      paths.Paths,
		ImpactAnalysis: ImpactReport{
			HighImpactModules:    []HighImpactModule{},
			ModuleImpactAnalysis: make(map[string]ModuleImpact),
			Recommendations:      []string{},
		},
		TotalModules:      g.NodeCount(),
		TotalDependencies: g.EdgeCount(),
		ComplexityAnalysis: ComplexityAnalysis{
			High:   []string{},
			Medium: []string{},
			Low:    []string{},
		},
	}
	if rep.CircularDependencies == nil {
		rep.CircularDependencies = [][]string{}
	}
	if rep.DependencyPaths == nil {
		rep.DependencyPaths = map[string][][]string{}
	}

	names := g.Nodes()
	for _, name := range names {
		desc, ok := reg.Get(name)
		if !ok {
			continue
		}
		rep.Modules[name] = moduleEntry(desc)

		switch score := desc.ComplexityScore; {
		case score > th.ComplexityHigh:
			rep.ComplexityAnalysis.High = append(rep.ComplexityAnalysis.High, name)
		case score > th.ComplexityMedium:
			rep.ComplexityAnalysis.Medium = append(rep.ComplexityAnalysis.Medium, name)
		default:
			rep.ComplexityAnalysis.Low = append(rep.ComplexityAnalysis.Low, name)
		}

		affected, ok := impacts[name]
		if !ok {
			affected = g.Impact(name)
		}
		rep.ImpactAnalysis.ModuleImpactAnalysis[name] = ModuleImpact{
			AffectedModules: affected,
			ImpactCount:     len(affected),
		}
		if len(affected) > th.HighImpact {
			rep.ImpactAnalysis.HighImpactModules = append(rep.ImpactAnalysis.HighImpactModules, HighImpactModule{
				Module:          name,
				ImpactCount:     len(affected),
				AffectedModules: affected,
			})
		}
	}

	for _, him := range rep.ImpactAnalysis.HighImpactModules {
		rep.ImpactAnalysis.Recommendations = append(rep.ImpactAnalysis.Recommendations,
			fmt.Sprintf("Module '%s' has high impact (%d affected modules). "+
				"Consider breaking it into smaller modules or using data sources to reduce coupling.",
				him.Module, him.ImpactCount))
	}

	for _, name := range reg.DanglingNames() {
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("module '%s' is referenced but never defined", name))
	}
	rep.Warnings = append(rep.Warnings, paths.Truncated...)

	return rep
}

func moduleEntry(desc *registry.ModuleDescriptor) ModuleEntry {
	entry := ModuleEntry{
		Source:                 desc.Source,
		Path:                   desc.Path,
		Dependencies:           sortedUnique(desc.DirectDependencies),
		TerragruntDependencies: sortedUnique(desc.ExternalDependencies),
		Variables:              desc.Variables,
		Outputs:                desc.Outputs(),
		DataSources:            desc.DataSources(),
		ComplexityScore:        desc.ComplexityScore,
		DependencyDetails:      sortedReferences(desc.References),
	}
	if entry.Variables == nil {
		entry.Variables = map[string]string{}
	}
	return entry
}

// Encode renders the report as indented JSON with a trailing newline.
func (r *Report) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes the encoded report to path.
func (r *Report) WriteFile(path string) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

func sortedUnique(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	n := 0
	for i, s := range out {
		if i == 0 || s != out[n-1] {
			out[n] = s
			n++
		}
	}
	if out == nil {
		return []string{}
	}
	return out[:n]
}

func sortedReferences(in []refs.Reference) []refs.Reference {
	out := append([]refs.Reference(nil), in...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.OriginFile != b.OriginFile {
			return a.OriginFile < b.OriginFile
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.TargetModule < b.TargetModule
	})
	if out == nil {
		return []refs.Reference{}
	}
	return out
}
