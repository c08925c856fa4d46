// # internal/registry/populate.go
package registry

import (
	"path/filepath"

	"terradep/internal/parser"
	"terradep/internal/refs"
)

// Merge folds one parsed document into the registry. It is the single-writer
// entry point: the caller serializes all Merge calls, and the graph builder
// must not run until every file has merged.
func (r *Registry) Merge(doc *parser.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch doc.Kind {
	case parser.KindModuleFile:
		r.mergeModuleFile(doc)
	case parser.KindBulkFile:
		r.mergeBulkFile(doc)
	}
}

// mergeModuleFile handles a terragrunt.hcl: the containing directory
// instantiates exactly one module named after itself.
func (r *Registry) mergeModuleFile(doc *parser.Document) {
	name := filepath.Base(filepath.Dir(doc.Path))
	desc := r.ensure(name)
	desc.Defined = true
	desc.Path = filepath.Dir(doc.Path)

	for _, blk := range doc.Blocks {
		switch blk.Type {
		case "terraform":
			if src, ok := literalAttr(blk, "source"); ok {
				desc.Source = src
			}
		case "dependency":
			if ref, ok := refs.ExternalDependency(name, doc.Path, blk); ok {
				r.applyReferences(desc, []refs.Reference{ref})
			}
		}
	}

	// inputs is an attribute holding an object; its entries are the module's
	// declared variables and its expression carries the interpolated
	// references.
	for _, attr := range doc.Attributes {
		if attr.Name != "inputs" {
			continue
		}
		recordVariables(desc, attr)
		r.applyReferences(desc, refs.FromAttributes(name, doc.Path, []parser.Attribute{attr}))
	}
}

// mergeBulkFile handles a plain .tf file: inline module blocks declare
// modules, while resource/data/output bodies contribute reference records.
func (r *Registry) mergeBulkFile(doc *parser.Document) {
	for _, blk := range doc.Blocks {
		switch blk.Type {
		case "module":
			if len(blk.Labels) < 1 {
				continue
			}
			r.mergeModuleBlock(doc, blk)
		case "resource":
			if len(blk.Labels) < 2 {
				continue
			}
			owner := "resource." + blk.Labels[0] + "." + blk.Labels[1]
			r.attachBodyReferences(owner, doc.Path, blk)
		case "data":
			if len(blk.Labels) < 2 {
				continue
			}
			owner := "data." + blk.Labels[0] + "." + blk.Labels[1]
			r.attachBodyReferences(owner, doc.Path, blk)
		case "output":
			if len(blk.Labels) < 1 {
				continue
			}
			r.mergeOutputBlock(doc, blk)
		}
	}
}

func (r *Registry) mergeModuleBlock(doc *parser.Document, blk parser.Block) {
	name := blk.Labels[0]
	desc := r.ensure(name)
	desc.Defined = true
	desc.Path = filepath.Dir(doc.Path)

	for _, attr := range blk.Attributes {
		if attr.Name == "source" {
			if src, err := attr.Value.AsScalar(); err == nil && attr.Literal {
				desc.Source = src
				continue
			}
		}
		recordVariable(desc, attr)
	}

	r.applyReferences(desc, refs.FromBlock(name, doc.Path, blk))
}

// attachBodyReferences records module references found inside resource and
// data bodies on the referenced module. They produce no dependency edges but
// keep the coupling visible in the report.
func (r *Registry) attachBodyReferences(owner, origin string, blk parser.Block) {
	for _, ref := range refs.FromBlock(owner, origin, blk) {
		switch ref.Kind {
		case refs.KindModuleOutput:
			r.recordOutput(ref)
			r.attachForeignReference(ref)
		case refs.KindResourceReference:
			r.attachForeignReference(ref)
		}
	}
}

// mergeOutputBlock lazily registers referenced outputs on their modules.
func (r *Registry) mergeOutputBlock(doc *parser.Document, blk parser.Block) {
	owner := "output." + blk.Labels[0]
	for _, ref := range refs.FromBlock(owner, doc.Path, blk) {
		if ref.Kind == refs.KindModuleOutput {
			r.recordOutput(ref)
		}
	}
}

func recordVariables(desc *ModuleDescriptor, attr parser.Attribute) {
	if keys, entries, err := attr.Value.AsMapping(); err == nil {
		for _, key := range keys {
			desc.Variables[key] = entries[key].Render()
		}
		return
	}
	// Non-literal inputs objects degrade to their raw expression text.
	desc.Variables[attr.Name] = attr.Value.Render()
}

func recordVariable(desc *ModuleDescriptor, attr parser.Attribute) {
	desc.Variables[attr.Name] = attr.Value.Render()
}

func literalAttr(blk parser.Block, name string) (string, bool) {
	for _, attr := range blk.Attributes {
		if attr.Name != name || !attr.Literal {
			continue
		}
		if s, err := attr.Value.AsScalar(); err == nil {
			return s, true
		}
	}
	return "", false
}
