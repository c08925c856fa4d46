// # internal/parser/value.go
package parser

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// ValueKind discriminates the variants of a parsed configuration value.
type ValueKind int

const (
	KindScalar ValueKind = iota
	KindSequence
	KindMapping
)

func (k ValueKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// ShapeError reports an accessor applied to the wrong value variant.
type ShapeError struct {
	Want ValueKind
	Got  ValueKind
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("value shape mismatch: want %s, got %s", e.Want, e.Got)
}

// Value is the tagged variant a configuration document is made of:
// a scalar, an ordered sequence, or a key-ordered mapping.
type Value struct {
	kind    ValueKind
	scalar  string
	seq     []Value
	mapping map[string]Value
	keys    []string
}

func Scalar(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

func Sequence(items []Value) Value {
	return Value{kind: KindSequence, seq: items}
}

func Mapping(keys []string, values map[string]Value) Value {
	return Value{kind: KindMapping, mapping: values, keys: keys}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) AsScalar() (string, error) {
	if v.kind != KindScalar {
		return "", &ShapeError{Want: KindScalar, Got: v.kind}
	}
	return v.scalar, nil
}

func (v Value) AsSequence() ([]Value, error) {
	if v.kind != KindSequence {
		return nil, &ShapeError{Want: KindSequence, Got: v.kind}
	}
	return v.seq, nil
}

// AsMapping returns the mapping entries and their key order.
func (v Value) AsMapping() ([]string, map[string]Value, error) {
	if v.kind != KindMapping {
		return nil, nil, &ShapeError{Want: KindMapping, Got: v.kind}
	}
	return v.keys, v.mapping, nil
}

// Render flattens the value to a single string, mainly for report payloads
// and for scanning string scalars for embedded references.
func (v Value) Render() string {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindSequence:
		out := "["
		for i, item := range v.seq {
			if i > 0 {
				out += ", "
			}
			out += item.Render()
		}
		return out + "]"
	case KindMapping:
		out := "{"
		for i, k := range v.keys {
			if i > 0 {
				out += ", "
			}
			out += k + " = " + v.mapping[k].Render()
		}
		return out + "}"
	}
	return ""
}

// fromCty converts a fully-known cty value into the tagged variant.
// Unknown or null values degrade to an empty scalar.
func fromCty(val cty.Value) Value {
	if val.IsNull() || !val.IsKnown() {
		return Scalar("")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return Scalar(val.AsString())
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if i, acc := bf.Int64(); acc == 0 {
			return Scalar(strconv.FormatInt(i, 10))
		}
		f, _ := bf.Float64()
		return Scalar(strconv.FormatFloat(f, 'g', -1, 64))
	case ty == cty.Bool:
		return Scalar(strconv.FormatBool(val.True()))
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		items := make([]Value, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			items = append(items, fromCty(ev))
		}
		return Sequence(items)
	case ty.IsObjectType() || ty.IsMapType():
		keys := make([]string, 0, val.LengthInt())
		entries := make(map[string]Value, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			key := kv.AsString()
			keys = append(keys, key)
			entries[key] = fromCty(ev)
		}
		sort.Strings(keys)
		return Mapping(keys, entries)
	}
	return Scalar("")
}
