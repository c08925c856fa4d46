// # internal/registry/complexity.go
package registry

// Weights tunes the complexity score. Dependencies and data-source usage
// weigh more than variable and output counts: they are the actual coupling
// surface, while variables and outputs are just shape. Any override must
// keep the score strictly increasing with added dependencies, external
// dependencies, and data sources.
type Weights struct {
	Base     int `toml:"base"`
	Direct   int `toml:"direct"`
	External int `toml:"external"`
	Variable int `toml:"variable"`
	Output   int `toml:"output"`
	Data     int `toml:"data_source"`
}

func DefaultWeights() Weights {
	return Weights{Base: 1, Direct: 2, External: 2, Variable: 1, Output: 1, Data: 3}
}

// Score computes a descriptor's complexity. Pure function; never negative
// with non-negative weights.
func Score(desc *ModuleDescriptor, w Weights) int {
	score := w.Base
	score += len(desc.DirectDependencies) * w.Direct
	score += len(desc.ExternalDependencies) * w.External
	score += len(desc.Variables) * w.Variable
	score += len(desc.outputs) * w.Output
	score += len(desc.dataSources) * w.Data
	return score
}

// ScoreAll assigns every descriptor its final complexity score. Called
// exactly once, after the last file has merged; descriptors are read-only
// from here on.
func (r *Registry) ScoreAll(w Weights) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, desc := range r.modules {
		desc.ComplexityScore = Score(desc, w)
	}
}
