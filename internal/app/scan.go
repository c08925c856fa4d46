// # internal/app/scan.go
package app

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"terradep/internal/parser"
)

// target is one discovered configuration file, classified by how it declares
// modules.
type target struct {
	path string
	kind parser.FileKind
}

// scan walks the configured roots collecting terragrunt.hcl and .tf files.
// Results are sorted so run output never depends on directory order.
func (a *App) scan() ([]target, error) {
	dirGlobs, err := compileGlobs(a.Config.Exclude.Dirs)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude dir pattern: %w", err)
	}
	fileGlobs, err := compileGlobs(a.Config.Exclude.Files)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude file pattern: %w", err)
	}

	var targets []target
	for _, root := range uniqueScanRoots(a.Config.ScanPaths) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			kind, ok := classify(base)
			if !ok {
				return nil
			}
			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			targets = append(targets, target{path: path, kind: kind})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].path < targets[j].path })
	return targets, nil
}

func classify(base string) (parser.FileKind, bool) {
	switch {
	case base == "terragrunt.hcl":
		return parser.KindModuleFile, true
	case strings.HasSuffix(base, ".tf"):
		return parser.KindBulkFile, true
	default:
		return 0, false
	}
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func uniqueScanRoots(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		normalized := filepath.Clean(p)
		if abs, err := filepath.Abs(normalized); err == nil {
			normalized = filepath.Clean(abs)
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		roots = append(roots, normalized)
	}
	sort.Strings(roots)
	return roots
}
