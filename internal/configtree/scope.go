package configtree

// ScopeChain is an ordered list of mapping layers used to resolve dotted
// paths, innermost (most recently pushed) first. Loop iterations push a layer
// for the duration of one body render and pop it afterwards, so layers obey
// strict stack discipline.
//
// A ScopeChain is local to a single render call and is not safe for
// concurrent use; renders themselves may run concurrently because each owns
// its own chain.
type ScopeChain struct {
	// layers[len-1] is the outermost (root) layer; lookups walk backwards.
	layers []Value
}

// NewScope creates a chain with root as its sole, outermost layer.
func NewScope(root Value) *ScopeChain {
	return &ScopeChain{layers: []Value{root}}
}

// Push adds layer as the new innermost scope. Non-mapping layers never match
// a lookup but are accepted so callers keep stack discipline uniform.
func (s *ScopeChain) Push(layer Value) {
	s.layers = append(s.layers, layer)
}

// Pop removes the innermost layer. Popping the root layer is a programming
// error and panics.
func (s *ScopeChain) Pop() {
	if len(s.layers) <= 1 {
		panic("configtree: pop of root scope layer")
	}
	s.layers = s.layers[:len(s.layers)-1]
}

// Depth returns the number of layers currently on the chain.
func (s *ScopeChain) Depth() int { return len(s.layers) }

// Resolve looks up a dotted path against the chain, innermost layer first.
//
// The first layer containing the leading segment claims the whole path: the
// remaining segments descend through nested mappings within that layer only.
// If any descent step fails (missing key, or a non-mapping where a mapping is
// needed) the result is Undefined — outer layers are not consulted, so
// shadowing is by key name, not by partial path depth. Undefined is an
// ordinary value here, never an error.
func (s *ScopeChain) Resolve(path string) Value {
	segments := SplitPath(path)
	if len(segments) == 0 || segments[0] == "" {
		return Undefined()
	}

	for idx := len(s.layers) - 1; idx >= 0; idx-- {
		current, ok := s.layers[idx].Get(segments[0])
		if !ok {
			continue
		}
		for _, seg := range segments[1:] {
			current, ok = current.Get(seg)
			if !ok {
				return Undefined()
			}
		}
		return current
	}
	return Undefined()
}
