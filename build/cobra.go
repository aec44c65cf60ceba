package build

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cmoxiv/wArgs/core"
	"github.com/cmoxiv/wArgs/errors"
)

// Annotation keys attached to pflag flags for the help renderer.
const (
	annotationGroup    = "wargs_group"
	annotationRequired = "wargs_required"
)

// Builder turns a ParserSpec into an executable cobra command tree.
// Parsed values land in Namespace; Run, if set, fires for the command
// the user selected, after positionals, defaults and required checks.
type Builder struct {
	Spec      *core.ParserSpec
	Namespace *Namespace
	Run       func(ns *Namespace) error
}

// Build constructs the command tree. The returned root has usage and
// error printing silenced; callers render errors themselves.
func (b *Builder) Build() *cobra.Command {
	root := b.command(b.Spec, nil)
	root.SilenceUsage = true
	root.SilenceErrors = true
	return root
}

func (b *Builder) command(spec *core.ParserSpec, path []string) *cobra.Command {
	positionals := positionalSpecs(spec)

	use := spec.Prog
	for _, p := range positionals {
		name := strings.ToUpper(p.Name)
		if p.DisplayName != "" {
			name = p.DisplayName
		}
		if p.Arity != nil && (p.Arity.Star || p.Arity.Plus) {
			name += "..."
		}
		use += " " + name
	}

	cmd := &cobra.Command{
		Use:     use,
		Short:   spec.Description,
		Version: spec.Version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := b.finish(spec, positionals, args, path); err != nil {
				return err
			}
			if b.Run != nil {
				return b.Run(b.Namespace)
			}
			return nil
		},
	}
	if spec.Version != "" {
		cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	}

	// With subcommands present, flags declared at this level must stay
	// visible after the subcommand name.
	flags := cmd.Flags()
	if len(spec.Subcommands) > 0 {
		flags = cmd.PersistentFlags()
	}
	for i := range spec.Arguments {
		arg := &spec.Arguments[i]
		if arg.Skip || arg.Positional {
			continue
		}
		b.addFlag(cmd, flags, arg)
	}

	exclusive := map[string][]string{}
	for i := range spec.Arguments {
		arg := &spec.Arguments[i]
		if arg.ExclusiveGroup != "" && !arg.Positional && !arg.Skip {
			exclusive[arg.ExclusiveGroup] = append(exclusive[arg.ExclusiveGroup], longName(arg))
		}
	}
	for _, names := range exclusive {
		if len(names) > 1 {
			cmd.MarkFlagsMutuallyExclusive(names...)
		}
	}

	for _, sc := range spec.Subcommands {
		cmd.AddCommand(b.command(sc.Spec, append(append([]string{}, path...), sc.Name)))
	}

	return cmd
}

func (b *Builder) addFlag(cmd *cobra.Command, flags *pflag.FlagSet, arg *core.ArgumentSpec) {
	long := longName(arg)
	short := shortName(arg)

	var value pflag.Value
	switch arg.Action {
	case core.ActionStoreTrue:
		value = &presenceValue{ns: b.Namespace, arg: arg, store: true}
	case core.ActionStoreConst:
		value = &presenceValue{ns: b.Namespace, arg: arg, store: arg.Const}
	case core.ActionCount:
		value = &countValue{ns: b.Namespace, arg: arg}
	case core.ActionAppend:
		value = &sliceValue{ns: b.Namespace, arg: arg, split: false}
	default:
		if arg.Arity != nil {
			value = &sliceValue{ns: b.Namespace, arg: arg, split: true}
		} else {
			value = &scalarValue{ns: b.Namespace, arg: arg}
		}
	}

	f := flags.VarPF(value, long, short, arg.Help)
	switch arg.Action {
	case core.ActionStoreTrue, core.ActionStoreConst:
		f.NoOptDefVal = "true"
	case core.ActionCount:
		f.NoOptDefVal = "+1"
	}
	if arg.Hidden {
		f.Hidden = true
	}
	if f.Annotations == nil {
		f.Annotations = map[string][]string{}
	}
	if arg.Group != "" {
		f.Annotations[annotationGroup] = []string{arg.Group}
	}
	if arg.Required {
		f.Annotations[annotationRequired] = []string{"true"}
	}
}

// finish runs after flag parsing: positional assignment, defaults,
// required checks, and path recording.
func (b *Builder) finish(spec *core.ParserSpec, positionals []*core.ArgumentSpec, args []string, path []string) error {
	b.Namespace.Path = path

	i := 0
	for _, p := range positionals {
		switch {
		case p.Arity != nil && (p.Arity.Star || p.Arity.Plus):
			rest := args[i:]
			if p.Arity.Plus && len(rest) == 0 {
				return errors.NewMissingArg(p.Name)
			}
			converted, err := convertAll(rest, p.Parser)
			if err != nil {
				return err
			}
			b.Namespace.Set(p.DestName(), converted)
			i = len(args)
		case p.Arity != nil && p.Arity.N > 0:
			if len(args)-i < p.Arity.N {
				return errors.NewMissingArg(p.Name)
			}
			converted, err := convertAll(args[i:i+p.Arity.N], p.Parser)
			if err != nil {
				return err
			}
			b.Namespace.Set(p.DestName(), converted)
			i += p.Arity.N
		default:
			if i >= len(args) {
				if p.Default != nil {
					b.Namespace.Set(p.DestName(), p.Default)
					continue
				}
				return errors.NewMissingArg(p.Name)
			}
			v, err := convertOne(args[i], p.Parser)
			if err != nil {
				return err
			}
			b.Namespace.Set(p.DestName(), v)
			i++
		}
	}
	if i < len(args) {
		return fmt.Errorf("unexpected argument: %s", args[i])
	}

	for j := range spec.Arguments {
		arg := &spec.Arguments[j]
		if arg.Skip || arg.Positional {
			continue
		}
		dest := arg.DestName()
		if b.Namespace.Has(dest) {
			// Fixed arity checked once all occurrences are in.
			if arg.Arity != nil && arg.Arity.N > 0 {
				if v, _ := b.Namespace.Get(dest); len(v.([]any)) != arg.Arity.N {
					return errors.NewConfig(arg.Name, fmt.Sprintf("expected %d values, got %d", arg.Arity.N, len(v.([]any))))
				}
			}
			continue
		}
		if arg.Required {
			return errors.NewMissingArg(arg.Name)
		}
		if arg.Default != nil {
			b.Namespace.Set(dest, arg.Default)
		}
	}
	return nil
}

func positionalSpecs(spec *core.ParserSpec) []*core.ArgumentSpec {
	var out []*core.ArgumentSpec
	for i := range spec.Arguments {
		if spec.Arguments[i].Positional && !spec.Arguments[i].Skip {
			out = append(out, &spec.Arguments[i])
		}
	}
	return out
}

func longName(arg *core.ArgumentSpec) string {
	for _, f := range arg.Flags {
		if strings.HasPrefix(f, "--") {
			return strings.TrimPrefix(f, "--")
		}
	}
	return arg.Name
}

func shortName(arg *core.ArgumentSpec) string {
	for _, f := range arg.Flags {
		if strings.HasPrefix(f, "-") && !strings.HasPrefix(f, "--") {
			return strings.TrimPrefix(f, "-")
		}
	}
	return ""
}

func convertOne(raw string, parser core.ConvertFunc) (any, error) {
	if parser == nil {
		return raw, nil
	}
	return parser(raw)
}

func convertAll(raw []string, parser core.ConvertFunc) ([]any, error) {
	out := make([]any, 0, len(raw))
	for _, r := range raw {
		v, err := convertOne(r, parser)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// validateChoice enforces literal/choice membership after conversion, so
// that values compare in their converted form.
func validateChoice(arg *core.ArgumentSpec, raw string, v any) error {
	if len(arg.Choices) == 0 {
		return nil
	}
	for _, c := range arg.Choices {
		if c == v {
			return nil
		}
	}
	names := make([]string, 0, len(arg.Choices))
	for _, c := range arg.Choices {
		names = append(names, fmt.Sprint(c))
	}
	return errors.NewConversion(raw, "one of {"+strings.Join(names, ",")+"}", nil)
}

// scalarValue stores a single converted value.
type scalarValue struct {
	ns  *Namespace
	arg *core.ArgumentSpec
}

func (s *scalarValue) Set(raw string) error {
	v, err := convertOne(raw, s.arg.Parser)
	if err != nil {
		return err
	}
	if err := validateChoice(s.arg, raw, v); err != nil {
		return err
	}
	s.ns.Set(s.arg.DestName(), v)
	return nil
}

func (s *scalarValue) String() string { return "" }
func (s *scalarValue) Type() string   { return s.arg.Name }

// sliceValue accumulates converted values across flag occurrences. With
// split set, comma-separated tokens in one occurrence are split apart.
type sliceValue struct {
	ns    *Namespace
	arg   *core.ArgumentSpec
	split bool
}

func (s *sliceValue) Set(raw string) error {
	parts := []string{raw}
	if s.split && strings.Contains(raw, ",") {
		parts = strings.Split(raw, ",")
	}
	var acc []any
	if v, ok := s.ns.Get(s.arg.DestName()); ok {
		acc = v.([]any)
	}
	for _, p := range parts {
		v, err := convertOne(p, s.arg.Parser)
		if err != nil {
			return err
		}
		if err := validateChoice(s.arg, p, v); err != nil {
			return err
		}
		acc = append(acc, v)
	}
	s.ns.Set(s.arg.DestName(), acc)
	return nil
}

func (s *sliceValue) String() string { return "[]" }
func (s *sliceValue) Type() string   { return s.arg.Name + "..." }

// countValue counts flag occurrences.
type countValue struct {
	ns  *Namespace
	arg *core.ArgumentSpec
}

func (c *countValue) Set(raw string) error {
	n := 0
	if v, ok := c.ns.Get(c.arg.DestName()); ok {
		n = v.(int)
	}
	if raw == "+1" || raw == "" {
		n++
	} else {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return errors.NewConversion(raw, "count", err)
		}
		n = parsed
	}
	c.ns.Set(c.arg.DestName(), n)
	return nil
}

func (c *countValue) String() string { return "0" }
func (c *countValue) Type() string   { return "count" }

// presenceValue stores a fixed value when the flag appears.
type presenceValue struct {
	ns    *Namespace
	arg   *core.ArgumentSpec
	store any
}

func (p *presenceValue) Set(raw string) error {
	if b, ok := p.store.(bool); ok && b {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.NewConversion(raw, "bool", err)
		}
		p.ns.Set(p.arg.DestName(), parsed)
		return nil
	}
	p.ns.Set(p.arg.DestName(), p.store)
	return nil
}

func (p *presenceValue) String() string { return "false" }
func (p *presenceValue) Type() string   { return "" }
