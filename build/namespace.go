package build

// Namespace holds parsed values keyed by destination name, plus the
// subcommand path the user selected.
type Namespace struct {
	values map[string]any
	Path   []string
}

func NewNamespace() *Namespace {
	return &Namespace{values: make(map[string]any)}
}

func (n *Namespace) Set(name string, v any) {
	if n.values == nil {
		n.values = make(map[string]any)
	}
	n.values[name] = v
}

func (n *Namespace) Get(name string) (any, bool) {
	v, ok := n.values[name]
	return v, ok
}

func (n *Namespace) Has(name string) bool {
	_, ok := n.values[name]
	return ok
}

// Names returns the set destination names, unordered.
func (n *Namespace) Names() []string {
	out := make([]string, 0, len(n.values))
	for name := range n.values {
		out = append(out, name)
	}
	return out
}
