// # internal/registry/registry.go
package registry

import (
	"sort"
	"sync"

	"terradep/internal/refs"
)

// ModuleDescriptor is one module's full state. Descriptors are mutated only
// while files merge into the registry; after scoring they are read-only.
type ModuleDescriptor struct {
	Name string
	// Source is an opaque locator (registry URL, relative path, or empty).
	Source string
	// Path is the directory the module was defined in, empty for dangling
	// descriptors.
	Path string
	// Defined is set once a file actually declares this module. Descriptors
	// created purely as reference targets stay undefined and never become
	// graph nodes.
	Defined bool

	Variables            map[string]string
	outputs              map[string]bool
	DirectDependencies   []string
	ExternalDependencies []string
	dataSources          map[string]bool
	References           []refs.Reference
	ComplexityScore      int
}

// Outputs returns the output names referenced elsewhere, sorted. The set is
// populated lazily from module-output references, so it is not a complete
// inventory of what the module exposes.
func (d *ModuleDescriptor) Outputs() []string {
	return sortedKeys(d.outputs)
}

// DataSources returns the {type}.{name} data sources this module reads, sorted.
func (d *ModuleDescriptor) DataSources() []string {
	return sortedKeys(d.dataSources)
}

// Registry maps module names to descriptors. All writes go through a single
// merge goroutine; the mutex guards concurrent readers during analysis.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*ModuleDescriptor
}

func New() *Registry {
	return &Registry{modules: make(map[string]*ModuleDescriptor)}
}

// ensure returns the descriptor for name, creating a dangling one on first
// mention. Callers must hold the write lock.
func (r *Registry) ensure(name string) *ModuleDescriptor {
	desc, ok := r.modules[name]
	if !ok {
		desc = &ModuleDescriptor{
			Name:        name,
			Variables:   make(map[string]string),
			outputs:     make(map[string]bool),
			dataSources: make(map[string]bool),
		}
		r.modules[name] = desc
	}
	return desc
}

// Get returns the descriptor for name, if present.
func (r *Registry) Get(name string) (*ModuleDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.modules[name]
	return desc, ok
}

// Names returns every registered module name, sorted for deterministic
// iteration.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefinedNames returns the names of modules actually declared by a file.
func (r *Registry) DefinedNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.modules))
	for name, desc := range r.modules {
		if desc.Defined {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}

// DanglingNames lists modules that were referenced but never defined.
func (r *Registry) DanglingNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0)
	for name, desc := range r.modules {
		if !desc.Defined {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// applyReferences folds extracted references into the owning module's
// descriptor. Module-output and external-dependency targets get dangling
// descriptors on first mention so unresolved references stay visible.
func (r *Registry) applyReferences(owner *ModuleDescriptor, found []refs.Reference) {
	for _, ref := range found {
		owner.References = append(owner.References, ref)

		switch ref.Kind {
		case refs.KindModuleOutput:
			owner.DirectDependencies = append(owner.DirectDependencies, ref.TargetModule)
			r.recordOutput(ref)
		case refs.KindResourceReference:
			owner.DirectDependencies = append(owner.DirectDependencies, ref.TargetModule)
		case refs.KindExternalDependency:
			owner.ExternalDependencies = append(owner.ExternalDependencies, ref.TargetModule)
			r.ensure(ref.TargetModule)
		case refs.KindDataSource:
			owner.dataSources[ref.TargetModule] = true
		case refs.KindRemoteState:
			// Recorded as a reference only; remote state never links two
			// modules inside the same tree.
		}
	}
}

// recordOutput marks the referenced output name on the target module.
func (r *Registry) recordOutput(ref refs.Reference) {
	target := r.ensure(ref.TargetModule)
	parts := splitLast(ref.Path)
	if parts != "" {
		target.outputs[parts] = true
	}
}

// attachForeignReference appends a reference discovered in a resource, data,
// or output body to the referenced module's record, without touching its
// dependency lists.
func (r *Registry) attachForeignReference(ref refs.Reference) {
	if desc, ok := r.modules[ref.TargetModule]; ok {
		desc.References = append(desc.References, ref)
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func splitLast(dotted string) string {
	idx := -1
	for i := len(dotted) - 1; i >= 0; i-- {
		if dotted[i] == '.' {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(dotted)-1 {
		return ""
	}
	return dotted[idx+1:]
}
