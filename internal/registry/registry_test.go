package registry

import (
	"testing"

	"terradep/internal/parser"
)

func mustParse(t *testing.T, path, src string, kind parser.FileKind) *parser.Document {
	t.Helper()
	doc, err := parser.Parse(path, []byte(src), kind)
	if err != nil {
		t.Fatalf("parse fixture %s: %v", path, err)
	}
	return doc
}

func TestMergeModuleFile(t *testing.T) {
	reg := New()
	reg.Merge(mustParse(t, "envs/prod/app/terragrunt.hcl", `
terraform {
  source = "git::https://example.com/modules/app.git"
}

dependency "vpc" {
  config_path = "../../network/vpc"
}

inputs = {
  instance_type = "t3.micro"
  vpc_id        = module.vpc.vpc_id
}
`, parser.KindModuleFile))

	desc, ok := reg.Get("app")
	if !ok {
		t.Fatal("module app not registered")
	}
	if !desc.Defined {
		t.Error("module declared by a file must be defined")
	}
	if desc.Source != "git::https://example.com/modules/app.git" {
		t.Errorf("source = %q", desc.Source)
	}
	if len(desc.ExternalDependencies) != 1 || desc.ExternalDependencies[0] != "vpc" {
		t.Errorf("external deps = %v", desc.ExternalDependencies)
	}
	if len(desc.DirectDependencies) != 1 || desc.DirectDependencies[0] != "vpc" {
		t.Errorf("direct deps = %v", desc.DirectDependencies)
	}
	if got := desc.Variables["instance_type"]; got != "t3.micro" {
		t.Errorf("variable instance_type = %q", got)
	}
	if _, ok := desc.Variables["vpc_id"]; !ok {
		t.Error("interpolated input should still be recorded as a variable")
	}
}

func TestDanglingDescriptor(t *testing.T) {
	reg := New()
	reg.Merge(mustParse(t, "envs/prod/app/terragrunt.hcl", `
dependency "db" {
  config_path = "../../data/db"
}
`, parser.KindModuleFile))

	desc, ok := reg.Get("db")
	if !ok {
		t.Fatal("referenced target should get a dangling descriptor")
	}
	if desc.Defined {
		t.Error("dangling descriptor must not be defined")
	}

	dangling := reg.DanglingNames()
	if len(dangling) != 1 || dangling[0] != "db" {
		t.Errorf("dangling = %v", dangling)
	}
	defined := reg.DefinedNames()
	if len(defined) != 1 || defined[0] != "app" {
		t.Errorf("defined = %v", defined)
	}
}

func TestMergeBulkFile(t *testing.T) {
	reg := New()
	reg.Merge(mustParse(t, "stack/main.tf", `
module "api" {
  source   = "./modules/api"
  vpc_id   = module.network.vpc_id
  replicas = 3
}

output "endpoint" {
  value = module.api.endpoint
}
`, parser.KindBulkFile))

	desc, ok := reg.Get("api")
	if !ok {
		t.Fatal("module api not registered")
	}
	if desc.Source != "./modules/api" {
		t.Errorf("source = %q", desc.Source)
	}
	if len(desc.DirectDependencies) != 1 || desc.DirectDependencies[0] != "network" {
		t.Errorf("direct deps = %v", desc.DirectDependencies)
	}
	if got := desc.Variables["replicas"]; got != "3" {
		t.Errorf("variable replicas = %q", got)
	}
	if _, ok := desc.Variables["source"]; ok {
		t.Error("source must not be recorded as a variable")
	}

	// The output block references module.api.endpoint, so endpoint is a known
	// output of api.
	outputs := desc.Outputs()
	if len(outputs) != 1 || outputs[0] != "endpoint" {
		t.Errorf("outputs = %v", outputs)
	}

	network, ok := reg.Get("network")
	if !ok {
		t.Fatal("referenced module network should exist as dangling")
	}
	if got := network.Outputs(); len(got) != 1 || got[0] != "vpc_id" {
		t.Errorf("network outputs = %v", got)
	}
}

func TestComplexityScoring(t *testing.T) {
	reg := New()
	reg.Merge(mustParse(t, "envs/a/terragrunt.hcl", `
dependency "b" {
  config_path = "../../envs/b"
}

inputs = {
  x  = 1
  id = module.c.id
}
`, parser.KindModuleFile))
	reg.ScoreAll(DefaultWeights())

	desc, _ := reg.Get("a")
	// base 1 + direct(c) 2 + external(b) 2 + vars(x, id) 2 = 7
	if desc.ComplexityScore != 7 {
		t.Errorf("score = %d, want 7", desc.ComplexityScore)
	}
}

func TestComplexityMonotonicity(t *testing.T) {
	w := DefaultWeights()
	base := &ModuleDescriptor{
		Variables:   map[string]string{},
		outputs:     map[string]bool{},
		dataSources: map[string]bool{},
	}
	before := Score(base, w)

	base.DirectDependencies = append(base.DirectDependencies, "x")
	afterDep := Score(base, w)
	if afterDep <= before {
		t.Error("score must strictly increase with an added dependency")
	}

	base.dataSources["aws_ami.x"] = true
	afterData := Score(base, w)
	if afterData <= afterDep {
		t.Error("score must strictly increase with an added data source")
	}

	base.ExternalDependencies = append(base.ExternalDependencies, "y")
	if Score(base, w) <= afterData {
		t.Error("score must strictly increase with an added external dependency")
	}
}
