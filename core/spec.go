package core

import (
	"reflect"
	"strconv"
)

// Arity describes how many value tokens an argument consumes.
// The zero of the three fields means "exactly one" (no arity set).
type Arity struct {
	Star bool // zero or more
	Plus bool // one or more
	N    int  // fixed count when > 0
}

func ArityStar() *Arity { return &Arity{Star: true} }
func ArityPlus() *Arity { return &Arity{Plus: true} }
func ArityN(n int) *Arity { return &Arity{N: n} }

func (a *Arity) String() string {
	switch {
	case a == nil:
		return ""
	case a.Star:
		return "*"
	case a.Plus:
		return "+"
	default:
		return strconv.Itoa(a.N)
	}
}

// Action selects non-default parsing behavior for an argument. Value-less
// actions (StoreTrue, StoreConst, Count) never consume a token, so the
// configuration builder clears the converter for them.
type Action int

const (
	ActionNone Action = iota
	ActionStoreTrue
	ActionStoreConst
	ActionCount
	ActionAppend
)

// ArgumentSpec fully describes one emitted CLI argument.
//
// Invariants: Positional implies empty Flags; Hidden implies not
// Positional; Skip implies every other field except Name is meaningless.
type ArgumentSpec struct {
	Name           string
	Flags          []string
	Parser         ConvertFunc
	Default        any
	Const          any
	Required       bool
	Help           string
	Choices        []any
	Action         Action
	Arity          *Arity
	DisplayName    string
	Dest           string
	Group          string
	ExclusiveGroup string
	Positional     bool
	Hidden         bool
	Skip           bool
}

// DestName returns the namespace key the parsed value is stored under.
func (s *ArgumentSpec) DestName() string {
	if s.Dest != "" {
		return s.Dest
	}
	return s.Name
}

// ExpansionKind says what shape an expanded parameter had.
type ExpansionKind int

const (
	ExpandMap ExpansionKind = iota
	ExpandStruct
)

// Expansion records how one structured parameter was flattened into
// several flat arguments, so the per-key values can be reassembled after
// parsing.
type Expansion struct {
	Param string
	Keys  []string
	Names []string // namespace keys, one per expanded key
	Kind  ExpansionKind
	Index []int
	Type  reflect.Type
}

// Subcommand pairs a nested ParserSpec with its discriminator name.
// An ordered slice keeps spec construction deterministic.
type Subcommand struct {
	Name string
	Spec *ParserSpec
}

// ParserSpec is the aggregate configuration a parser is built from. It is
// built once per wrapped schema on first access, cached, and never
// mutated after the underlying parser is constructed.
type ParserSpec struct {
	Prog        string
	Version     string
	Description string
	Epilog      string
	Arguments   []ArgumentSpec
	Subcommands []Subcommand
	Expansions  []Expansion
	AddHelp     bool
	Formatter   string
}

// Lookup returns the argument spec with the given name, or nil.
func (p *ParserSpec) Lookup(name string) *ArgumentSpec {
	for i := range p.Arguments {
		if p.Arguments[i].Name == name {
			return &p.Arguments[i]
		}
	}
	return nil
}

// Sub returns the nested spec for a subcommand name, or nil.
func (p *ParserSpec) Sub(name string) *ParserSpec {
	for _, sc := range p.Subcommands {
		if sc.Name == name {
			return sc.Spec
		}
	}
	return nil
}

// SubNames returns the subcommand names in declaration order.
func (p *ParserSpec) SubNames() []string {
	names := make([]string, 0, len(p.Subcommands))
	for _, sc := range p.Subcommands {
		names = append(names, sc.Name)
	}
	return names
}
