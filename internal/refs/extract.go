// # internal/refs/extract.go
package refs

import (
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"terradep/internal/parser"
)

// Kind labels the idiom a reference was detected through.
type Kind string

const (
	KindModuleOutput       Kind = "module_output"
	KindExternalDependency Kind = "external_dependency"
	KindDataSource         Kind = "data_source"
	KindRemoteState        Kind = "remote_state"
	KindResourceReference  Kind = "resource_reference"
)

// Reference is a single detected pointer from one module (or resource/data
// entity) to another construct.
type Reference struct {
	SourceModule string `json:"source_module"`
	TargetModule string `json:"target_module"`
	Kind         Kind   `json:"kind"`
	Path         string `json:"reference_path"`
	OriginFile   string `json:"origin_file"`
}

// Roots that never point at another module.
var ignoredRoots = map[string]bool{
	"var":        true,
	"local":      true,
	"locals":     true,
	"each":       true,
	"count":      true,
	"path":       true,
	"self":       true,
	"terraform":  true,
	"dependency": true, // the dependency block itself carries the edge
	"include":    true,
}

// Fallback patterns for references embedded in plain string scalars
// (heredocs, JSON templates) that HCL does not expose as traversals.
var (
	moduleRefPattern      = regexp.MustCompile(`module\.([a-zA-Z0-9_-]+)\.([a-zA-Z0-9_-]+)`)
	dataRefPattern        = regexp.MustCompile(`data\.([a-zA-Z0-9_-]+)\.([a-zA-Z0-9_-]+)\.([a-zA-Z0-9_-]+)`)
	remoteStateRefPattern = regexp.MustCompile(`data\.terraform_remote_state\.([a-zA-Z0-9_-]+)\.outputs\.([a-zA-Z0-9_-]+)`)
)

// FromAttributes yields the references found in a set of attributes, in
// source order. Pure function of its inputs; no I/O.
func FromAttributes(owner, origin string, attrs []parser.Attribute) []Reference {
	var out []Reference
	for _, attr := range attrs {
		out = append(out, fromExpression(owner, origin, attr)...)
	}
	return out
}

// FromBlock walks a block and its nested blocks.
func FromBlock(owner, origin string, blk parser.Block) []Reference {
	out := FromAttributes(owner, origin, blk.Attributes)
	for _, child := range blk.Blocks {
		out = append(out, FromBlock(owner, origin, child)...)
	}
	return out
}

// ExternalDependency derives the target of a terragrunt dependency block.
// Only config_path values using the double-parent prefix resolve; every
// other relative convention is left unresolved on purpose, matching the
// long-standing behavior downstream tooling depends on.
func ExternalDependency(owner, origin string, blk parser.Block) (Reference, bool) {
	for _, attr := range blk.Attributes {
		if attr.Name != "config_path" || !attr.Literal {
			continue
		}
		configPath, err := attr.Value.AsScalar()
		if err != nil {
			continue
		}
		if !strings.HasPrefix(configPath, "../../") {
			return Reference{}, false
		}
		parts := strings.Split(configPath, "/")
		target := parts[len(parts)-1]
		if target == "" || target == owner {
			return Reference{}, false
		}
		return Reference{
			SourceModule: owner,
			TargetModule: target,
			Kind:         KindExternalDependency,
			Path:         configPath,
			OriginFile:   origin,
		}, true
	}
	return Reference{}, false
}

func fromExpression(owner, origin string, attr parser.Attribute) []Reference {
	var out []Reference

	for _, tr := range attr.Expr.Variables() {
		if ref, ok := classifyTraversal(tr, owner, origin); ok {
			out = append(out, ref)
		}
	}

	// Literal strings can still carry references in embedded templates.
	if attr.Literal {
		out = append(out, fromRenderedString(owner, origin, attr.Value.Render())...)
	}

	return out
}

func classifyTraversal(tr hcl.Traversal, owner, origin string) (Reference, bool) {
	parts := traversalParts(tr)
	if len(parts) == 0 || ignoredRoots[parts[0]] {
		return Reference{}, false
	}

	switch parts[0] {
	case "module":
		if len(parts) < 3 {
			return Reference{}, false
		}
		target := parts[1]
		if target == owner {
			// Self-references carry no dependency information.
			return Reference{}, false
		}
		return Reference{
			SourceModule: owner,
			TargetModule: target,
			Kind:         KindModuleOutput,
			Path:         strings.Join(parts[:3], "."),
			OriginFile:   origin,
		}, true

	case "data":
		if len(parts) >= 5 && parts[1] == "terraform_remote_state" && parts[3] == "outputs" {
			return Reference{
				SourceModule: owner,
				TargetModule: "remote_state." + parts[2],
				Kind:         KindRemoteState,
				Path:         strings.Join(parts[:5], "."),
				OriginFile:   origin,
			}, true
		}
		if len(parts) >= 4 && parts[1] != "terraform_remote_state" {
			return Reference{
				SourceModule: owner,
				TargetModule: parts[1] + "." + parts[2],
				Kind:         KindDataSource,
				Path:         strings.Join(parts[:4], "."),
				OriginFile:   origin,
			}, true
		}
		return Reference{}, false

	default:
		// Bare <type>.<name>.<attr> traversal into another resource.
		if len(parts) < 3 {
			return Reference{}, false
		}
		return Reference{
			SourceModule: owner,
			TargetModule: parts[0] + "." + parts[1],
			Kind:         KindResourceReference,
			Path:         strings.Join(parts[:3], "."),
			OriginFile:   origin,
		}, true
	}
}

// fromRenderedString applies the regex fallback to a flattened string value.
// Remote-state matches are collected first so the broader data-source pattern
// never double-counts the same span.
func fromRenderedString(owner, origin, rendered string) []Reference {
	if !strings.Contains(rendered, "module.") && !strings.Contains(rendered, "data.") {
		return nil
	}

	var out []Reference

	for _, m := range moduleRefPattern.FindAllStringSubmatch(rendered, -1) {
		if m[1] == owner {
			continue
		}
		out = append(out, Reference{
			SourceModule: owner,
			TargetModule: m[1],
			Kind:         KindModuleOutput,
			Path:         m[0],
			OriginFile:   origin,
		})
	}

	for _, m := range remoteStateRefPattern.FindAllStringSubmatch(rendered, -1) {
		out = append(out, Reference{
			SourceModule: owner,
			TargetModule: "remote_state." + m[1],
			Kind:         KindRemoteState,
			Path:         m[0],
			OriginFile:   origin,
		})
	}

	for _, m := range dataRefPattern.FindAllStringSubmatch(rendered, -1) {
		if m[1] == "terraform_remote_state" {
			continue
		}
		out = append(out, Reference{
			SourceModule: owner,
			TargetModule: m[1] + "." + m[2],
			Kind:         KindDataSource,
			Path:         m[0],
			OriginFile:   origin,
		})
	}

	return out
}

func traversalParts(tr hcl.Traversal) []string {
	var parts []string
	for _, step := range tr {
		switch t := step.(type) {
		case hcl.TraverseRoot:
			parts = append(parts, t.Name)
		case hcl.TraverseAttr:
			parts = append(parts, t.Name)
		case hcl.TraverseIndex:
			if t.Key.Type().FriendlyName() == "string" {
				parts = append(parts, t.Key.AsString())
			}
		}
	}
	return parts
}
