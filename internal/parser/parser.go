// # internal/parser/parser.go
package parser

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// FileKind classifies a configuration file by how it declares modules.
type FileKind int

const (
	// KindModuleFile is a terragrunt.hcl: the directory instantiates a
	// single module named after the directory.
	KindModuleFile FileKind = iota
	// KindBulkFile is a plain .tf file whose module blocks each declare
	// a module by label.
	KindBulkFile
)

// ParseError wraps the HCL diagnostics for one malformed file. Callers are
// expected to log it, skip the file, and continue with the rest of the tree.
type ParseError struct {
	Path  string
	Diags hcl.Diagnostics
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Diags.Error())
}

// Attribute is one assignment inside a block or at document top level.
// The expression is retained so the reference extractor can walk its
// variable traversals; Value is the best-effort literal evaluation.
type Attribute struct {
	Name    string
	Expr    hcl.Expression
	Value   Value
	Literal bool
	Range   hcl.Range
}

// Block is one labeled configuration block. Repeated blocks of the same type
// stay separate entries; nothing is merged.
type Block struct {
	Type       string
	Labels     []string
	Attributes []Attribute
	Blocks     []Block
	Range      hcl.Range
}

// Document is the structured form of one configuration file.
type Document struct {
	Path       string
	Kind       FileKind
	Attributes []Attribute
	Blocks     []Block
}

// Parse turns raw HCL text into a Document. The file is never read here;
// the caller supplies the bytes so parsing stays a pure function of input.
func Parse(path string, src []byte, kind FileKind) (*Document, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, &ParseError{Path: path, Diags: diags}
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, &ParseError{Path: path, Diags: hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "unsupported body syntax",
			Detail:   "expected native HCL syntax",
		}}}
	}

	doc := &Document{
		Path:       path,
		Kind:       kind,
		Attributes: convertAttributes(body.Attributes, src),
	}
	for _, blk := range body.Blocks {
		doc.Blocks = append(doc.Blocks, convertBlock(blk, src))
	}
	return doc, nil
}

func convertBlock(blk *hclsyntax.Block, src []byte) Block {
	out := Block{
		Type:       blk.Type,
		Labels:     append([]string(nil), blk.Labels...),
		Attributes: convertAttributes(blk.Body.Attributes, src),
		Range:      blk.Range(),
	}
	for _, child := range blk.Body.Blocks {
		out.Blocks = append(out.Blocks, convertBlock(child, src))
	}
	return out
}

// convertAttributes flattens the syntax attribute map into source order so
// two runs over the same file always yield the same sequence.
func convertAttributes(attrs hclsyntax.Attributes, src []byte) []Attribute {
	out := make([]Attribute, 0, len(attrs))
	for _, attr := range attrs {
		val, literal := evalLiteral(attr.Expr, src)
		out = append(out, Attribute{
			Name:    attr.Name,
			Expr:    attr.Expr,
			Value:   val,
			Literal: literal,
			Range:   attr.SrcRange,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Range.Start.Byte < out[j].Range.Start.Byte
	})
	return out
}

// evalLiteral evaluates an expression with no variable scope. Object and
// tuple constructors keep their structure even when entries interpolate
// variables; anything else that references a variable falls back to its raw
// source text as a scalar.
func evalLiteral(expr hcl.Expression, src []byte) (Value, bool) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		keys := make([]string, 0, len(e.Items))
		entries := make(map[string]Value, len(e.Items))
		literal := true
		for _, item := range e.Items {
			key := objectKey(item.KeyExpr, src)
			if key == "" {
				continue
			}
			val, lit := evalLiteral(item.ValueExpr, src)
			keys = append(keys, key)
			entries[key] = val
			literal = literal && lit
		}
		return Mapping(keys, entries), literal
	case *hclsyntax.TupleConsExpr:
		items := make([]Value, 0, len(e.Exprs))
		literal := true
		for _, itemExpr := range e.Exprs {
			val, lit := evalLiteral(itemExpr, src)
			items = append(items, val)
			literal = literal && lit
		}
		return Sequence(items), literal
	}

	if len(expr.Variables()) == 0 {
		if ctyVal, diags := expr.Value(nil); !diags.HasErrors() {
			return fromCty(ctyVal), true
		}
	}
	return Scalar(exprSource(expr, src)), false
}

// objectKey resolves an object constructor key, which may be a bare
// identifier or a quoted string.
func objectKey(expr hcl.Expression, src []byte) string {
	if val, diags := expr.Value(nil); !diags.HasErrors() && val.Type() == cty.String {
		return val.AsString()
	}
	return exprSource(expr, src)
}

func exprSource(expr hcl.Expression, src []byte) string {
	rng := expr.Range()
	if rng.Start.Byte < 0 || rng.End.Byte > len(src) || rng.Start.Byte > rng.End.Byte {
		return ""
	}
	return string(src[rng.Start.Byte:rng.End.Byte])
}
