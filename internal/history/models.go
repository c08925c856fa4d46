package history

import (
	"time"

	"github.com/google/uuid"

	"terradep/internal/report"
)

const SchemaVersion = 1

// Snapshot is one analysis run's aggregate counts, kept so trends across
// runs survive process restarts.
type Snapshot struct {
	RunID         string
	ProjectKey    string
	SchemaVersion int
	Timestamp     time.Time

	ModuleCount     int
	DependencyCount int
	FileCount       int
	CycleCount      int
	DanglingCount   int
	HighImpactCount int
	WarningCount    int
}

// FromReport derives a snapshot from a finished report. fileCount and
// danglingCount come from the run, not the report shape.
func FromReport(rep *report.Report, fileCount, danglingCount int) Snapshot {
	return Snapshot{
		RunID:           uuid.NewString(),
		SchemaVersion:   SchemaVersion,
		Timestamp:       time.Now().UTC(),
		ModuleCount:     rep.TotalModules,
		DependencyCount: rep.TotalDependencies,
		FileCount:       fileCount,
		CycleCount:      len(rep.CircularDependencies),
		DanglingCount:   danglingCount,
		HighImpactCount: len(rep.ImpactAnalysis.HighImpactModules),
		WarningCount:    len(rep.Warnings),
	}
}
