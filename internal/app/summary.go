// # internal/app/summary.go
package app

import (
	"fmt"
	"strings"
	"time"

	"terradep/internal/report"
)

// PrintSummary writes the human-readable digest of one run to stdout.
func (a *App) PrintSummary(rep *report.Report, duration time.Duration) {
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Analysis: %d modules, %d dependencies in %v\n",
		rep.TotalModules, rep.TotalDependencies, duration.Round(time.Millisecond))

	if len(rep.CircularDependencies) > 0 {
		fmt.Printf("⚠️  FOUND %d CIRCULAR DEPENDENCIES:\n", len(rep.CircularDependencies))
		for _, c := range rep.CircularDependencies {
			fmt.Printf("   %s\n", strings.Join(c, " -> "))
		}
	} else {
		fmt.Println("✅ No circular dependencies found.")
	}

	fmt.Println("📊 Complexity:")
	fmt.Printf("   High: %d, Medium: %d, Low: %d\n",
		len(rep.ComplexityAnalysis.High),
		len(rep.ComplexityAnalysis.Medium),
		len(rep.ComplexityAnalysis.Low))

	if len(rep.ImpactAnalysis.HighImpactModules) > 0 {
		fmt.Printf("🎯 HIGH-IMPACT MODULES:\n")
		for _, him := range rep.ImpactAnalysis.HighImpactModules {
			fmt.Printf("   %s affects %d modules\n", him.Module, him.ImpactCount)
		}
	}

	for _, rec := range rep.ImpactAnalysis.Recommendations {
		fmt.Printf("💡 %s\n", rec)
	}

	if len(rep.Warnings) > 0 {
		fmt.Printf("❓ %d warnings:\n", len(rep.Warnings))
		for _, w := range rep.Warnings {
			fmt.Printf("   %s\n", w)
		}
	}
	fmt.Println(strings.Repeat("-", 40))
}

// PrintImpact writes the blast radius of one module, for the --impact flag.
func (a *App) PrintImpact(rep *report.Report, module string) {
	impact, ok := rep.ImpactAnalysis.ModuleImpactAnalysis[module]
	if !ok {
		fmt.Printf("❓ module %q not found in the dependency graph\n", module)
		return
	}

	fmt.Printf("🎯 Impact analysis for '%s':\n", module)
	if impact.ImpactCount == 0 {
		fmt.Println("   No modules are affected by changes to this module.")
		return
	}
	fmt.Printf("   %d affected modules:\n", impact.ImpactCount)
	for _, name := range impact.AffectedModules {
		fmt.Printf("   - %s\n", name)
	}
}
