package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestParseModuleFile(t *testing.T) {
	src := []byte(`
terraform {
  source = "git::https://example.com/modules/vpc.git"
}

dependency "network" {
  config_path = "../../network/core"
}

inputs = {
  cidr   = "10.0.0.0/16"
  region = "eu-west-1"
}
`)
	doc, err := Parse("env/vpc/terragrunt.hcl", src, KindModuleFile)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Kind != KindModuleFile {
		t.Errorf("expected module-file kind, got %v", doc.Kind)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}
	if doc.Blocks[0].Type != "terraform" {
		t.Errorf("expected first block terraform, got %q", doc.Blocks[0].Type)
	}
	if doc.Blocks[1].Type != "dependency" || doc.Blocks[1].Labels[0] != "network" {
		t.Errorf("unexpected second block: %+v", doc.Blocks[1])
	}

	if len(doc.Attributes) != 1 || doc.Attributes[0].Name != "inputs" {
		t.Fatalf("expected a single inputs attribute, got %+v", doc.Attributes)
	}
	keys, entries, err := doc.Attributes[0].Value.AsMapping()
	if err != nil {
		t.Fatalf("inputs should be a mapping: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 input keys, got %v", keys)
	}
	if got, _ := entries["cidr"].AsScalar(); got != "10.0.0.0/16" {
		t.Errorf("cidr = %q", got)
	}
}

func TestParseRepeatedBlocksStaySeparate(t *testing.T) {
	src := []byte(`
module "a" {
  source = "./a"
}

module "b" {
  source = "./b"
}
`)
	doc, err := Parse("main.tf", src, KindBulkFile)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 module blocks, got %d", len(doc.Blocks))
	}
	if doc.Blocks[0].Labels[0] != "a" || doc.Blocks[1].Labels[0] != "b" {
		t.Errorf("blocks merged or reordered: %+v", doc.Blocks)
	}
}

func TestParseAttributesInSourceOrder(t *testing.T) {
	src := []byte(`
zeta  = 1
alpha = 2
mid   = 3
`)
	doc, err := Parse("vars.tf", src, KindBulkFile)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var names []string
	for _, attr := range doc.Attributes {
		names = append(names, attr.Name)
	}
	want := "zeta,alpha,mid"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("attribute order = %s, want %s", got, want)
	}
}

func TestParseInterpolatedValueFallsBackToSource(t *testing.T) {
	src := []byte(`
inputs = {
  vpc_id = module.vpc.vpc_id
  name   = "static"
}
`)
	doc, err := Parse("terragrunt.hcl", src, KindModuleFile)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	attr := doc.Attributes[0]
	if attr.Literal {
		t.Error("object with interpolated entry should not be fully literal")
	}
	_, entries, err := attr.Value.AsMapping()
	if err != nil {
		t.Fatalf("inputs should keep mapping shape: %v", err)
	}
	if got, _ := entries["vpc_id"].AsScalar(); got != "module.vpc.vpc_id" {
		t.Errorf("interpolated entry = %q, want raw source", got)
	}
	if got, _ := entries["name"].AsScalar(); got != "static" {
		t.Errorf("literal entry = %q", got)
	}
}

func TestParseMalformedInput(t *testing.T) {
	_, err := Parse("broken.tf", []byte(`module "x" {`), KindBulkFile)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Path != "broken.tf" {
		t.Errorf("error path = %q", perr.Path)
	}
}

func TestValueShapeErrors(t *testing.T) {
	v := Scalar("x")
	if _, _, err := v.AsMapping(); err == nil {
		t.Error("scalar should not read as mapping")
	}
	if _, err := v.AsSequence(); err == nil {
		t.Error("scalar should not read as sequence")
	}
	seq := Sequence([]Value{Scalar("a"), Scalar("b")})
	items, err := seq.AsSequence()
	if err != nil || len(items) != 2 {
		t.Errorf("sequence accessor failed: %v %v", items, err)
	}
}
