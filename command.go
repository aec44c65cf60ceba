package wargs

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmoxiv/wArgs/build"
	"github.com/cmoxiv/wArgs/completion"
	"github.com/cmoxiv/wArgs/core"
	"github.com/cmoxiv/wArgs/display"
	"github.com/cmoxiv/wArgs/errors"
	"github.com/cmoxiv/wArgs/internal/common"
	"github.com/cmoxiv/wArgs/introspect"
)

// Command wraps a schema struct. The extracted schema and the parser
// configuration are built on first use and cached; Invalidate or
// AddCommand clears the cache.
type Command struct {
	target  any
	opts    options
	dynamic []dynamicSub

	info *introspect.CommandInfo
	spec *core.ParserSpec
}

type dynamicSub struct {
	name   string
	target any
}

// New wraps a schema struct pointer. Errors in the schema itself surface
// on the first call to Spec, Parse or Run.
func New(target any, opts ...Option) *Command {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Command{target: target, opts: o}
}

// Info returns the extracted schema, building it on first use.
func (c *Command) Info() (*introspect.CommandInfo, error) {
	if c.info != nil {
		return c.info, nil
	}
	info, err := introspect.Extract(c.target, introspect.Options{
		TraverseEmbedded: c.opts.traverse,
		WarnOnConflict:   c.opts.warnConflicts,
		Logger:           c.opts.logger,
	})
	if err != nil {
		return nil, err
	}
	for _, d := range c.dynamic {
		sub, err := introspect.Extract(d.target, introspect.Options{
			TraverseEmbedded: c.opts.traverse,
			WarnOnConflict:   c.opts.warnConflicts,
			Logger:           c.opts.logger,
		})
		if err != nil {
			return nil, err
		}
		sub.Name = d.name
		info.Subcommands = append(info.Subcommands, introspect.SubcommandInfo{Name: d.name, Info: sub})
	}
	if c.opts.prog != "" {
		info.Name = c.opts.prog
	}
	if c.opts.description != "" {
		info.Description = c.opts.description
	}
	c.info = info
	return info, nil
}

// Spec returns the parser configuration, building it on first use.
func (c *Command) Spec() (*core.ParserSpec, error) {
	if c.spec != nil {
		return c.spec, nil
	}
	info, err := c.Info()
	if err != nil {
		return nil, err
	}
	spec, err := build.BuildParserSpec(info, c.opts.registry, c.opts.prefix)
	if err != nil {
		return nil, err
	}
	c.spec = spec
	return spec, nil
}

// Invalidate drops the cached schema and parser configuration, forcing a
// rebuild on next use.
func (c *Command) Invalidate() {
	c.info = nil
	c.spec = nil
}

// AddCommand registers an additional subcommand backed by its own schema
// struct pointer. The cached configuration is rebuilt on next use.
func (c *Command) AddCommand(name string, target any) {
	c.dynamic = append(c.dynamic, dynamicSub{name: name, target: target})
	c.Invalidate()
}

// Parse populates the schema from args without dispatching to a Runner.
func (c *Command) Parse(args []string) error {
	return c.execute(args, false)
}

// Run populates the schema from args and dispatches to the Runner of the
// selected command.
func (c *Command) Run(args []string) error {
	return c.execute(args, true)
}

func (c *Command) execute(args []string, dispatch bool) error {
	spec, err := c.Spec()
	if err != nil {
		return err
	}
	info, err := c.Info()
	if err != nil {
		return err
	}

	if c.opts.completion {
		if idx := common.ArgsIndexOf(args, "--completion"); idx >= 0 {
			shell := ""
			if idx+1 < len(args) {
				shell = args[idx+1]
			}
			script, err := completion.Generate(spec, shell)
			if err != nil {
				return err
			}
			fmt.Fprint(c.opts.stdout, script)
			return nil
		}
	}

	// With root positionals present a bare first token may belong to
	// them, so only treat it as a subcommand candidate otherwise.
	if len(spec.Subcommands) > 0 && !hasPositionals(spec) && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		if spec.Sub(args[0]) == nil {
			return errors.NewUnknownSubcommand(args[0], common.ClosestMatch(args[0], spec.SubNames()))
		}
	}

	ns := build.NewNamespace()
	builder := &build.Builder{
		Spec:      spec,
		Namespace: ns,
		Run: func(ns *build.Namespace) error {
			if err := c.assign(info, spec, ns); err != nil {
				return err
			}
			if !dispatch {
				return nil
			}
			return c.dispatch(info, spec, ns)
		},
	}

	cmd := builder.Build()
	cmd.SetArgs(args)
	cmd.SetOut(c.opts.stdout)
	cmd.SetHelpFunc(func(cc *cobra.Command, _ []string) {
		fmt.Fprint(c.opts.stdout, c.helpText(spec, cc.CommandPath()))
	})
	return cmd.Execute()
}

// helpText renders help for the command identified by a cobra command
// path ("prog sub subsub").
func (c *Command) helpText(spec *core.ParserSpec, commandPath string) string {
	path := strings.Fields(commandPath)
	if len(path) <= 1 {
		return display.Help(spec)
	}
	if len(path) == 2 {
		return display.HelpWithParent(spec, path[1])
	}
	parent := spec
	for _, name := range path[1 : len(path)-1] {
		parent = parent.Sub(name)
		if parent == nil {
			return display.Help(spec)
		}
	}
	return display.HelpWithParent(parent, path[len(path)-1])
}

// assign writes parsed values back into the schema structs, level by
// level along the chosen subcommand path.
func (c *Command) assign(info *introspect.CommandInfo, spec *core.ParserSpec, ns *build.Namespace) error {
	cur, curSpec := info, spec
	if err := assignLevel(cur, curSpec, ns); err != nil {
		return err
	}
	for _, name := range ns.Path {
		cur, curSpec = cur.Sub(name), curSpec.Sub(name)
		if cur == nil || curSpec == nil {
			break
		}
		if err := assignLevel(cur, curSpec, ns); err != nil {
			return err
		}
	}
	return nil
}

func assignLevel(info *introspect.CommandInfo, spec *core.ParserSpec, ns *build.Namespace) error {
	expanded := map[string]bool{}
	for _, exp := range spec.Expansions {
		expanded[exp.Param] = true
	}

	for i := range info.Params {
		rec := &info.Params[i]
		if rec.Kind == core.VarPositional || rec.Kind == core.VarKeyword {
			continue
		}
		if expanded[rec.Name] {
			continue
		}
		dest := rec.Name
		if d := rec.Tags.Get("dest"); d != "" {
			dest = d
		}
		v, ok := ns.Get(dest)
		if !ok {
			continue
		}
		fv := fieldByIndex(info.Value, rec.Index)
		if err := setField(fv, v, rec.FieldName); err != nil {
			return err
		}
	}

	for _, exp := range spec.Expansions {
		if err := reassemble(info.Value, exp, ns); err != nil {
			return err
		}
	}
	return nil
}

// reassemble rebuilds an expanded map or struct parameter from its
// per-key namespace entries.
func reassemble(root reflect.Value, exp core.Expansion, ns *build.Namespace) error {
	fv := fieldByIndex(root, exp.Index)
	switch exp.Kind {
	case core.ExpandMap:
		m := reflect.MakeMapWithSize(exp.Type, len(exp.Keys))
		for i, key := range exp.Keys {
			v, ok := ns.Get(exp.Names[i])
			if !ok {
				continue
			}
			ev, err := coerce(v, exp.Type.Elem())
			if err != nil {
				return errors.NewUnsupportedField(exp.Param+"["+key+"]", exp.Type.Elem().String())
			}
			m.SetMapIndex(reflect.ValueOf(key).Convert(exp.Type.Key()), ev)
		}
		fv.Set(m)
	case core.ExpandStruct:
		for i, key := range exp.Keys {
			v, ok := ns.Get(exp.Names[i])
			if !ok {
				continue
			}
			sub := fv.FieldByName(key)
			if !sub.IsValid() {
				continue
			}
			if err := setField(sub, v, exp.Param+"."+key); err != nil {
				return err
			}
		}
	}
	return nil
}

// dispatch runs the Runner of the selected command. When subcommands
// exist and none was chosen, the root help is shown instead.
func (c *Command) dispatch(info *introspect.CommandInfo, spec *core.ParserSpec, ns *build.Namespace) error {
	cur := info
	for _, name := range ns.Path {
		cur = cur.Sub(name)
		if cur == nil {
			return errors.NewUnknownSubcommand(name, "")
		}
	}
	if r, ok := runnerOf(cur.Value); ok {
		return r.Run()
	}
	if cur == info && len(spec.Subcommands) > 0 {
		fmt.Fprint(c.opts.stdout, display.Help(spec))
	}
	return nil
}

func runnerOf(v reflect.Value) (core.Runner, bool) {
	if v.CanAddr() {
		if r, ok := v.Addr().Interface().(core.Runner); ok {
			return r, true
		}
	}
	if v.CanInterface() {
		if r, ok := v.Interface().(core.Runner); ok {
			return r, true
		}
	}
	return nil, false
}

// Explain writes a human-readable dump of the parser configuration,
// useful when a schema does not produce the expected CLI.
func (c *Command) Explain(w io.Writer) error {
	spec, err := c.Spec()
	if err != nil {
		return err
	}
	explain(w, spec, 0)
	return nil
}

func explain(w io.Writer, spec *core.ParserSpec, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%scommand %s", indent, spec.Prog)
	if spec.Version != "" {
		fmt.Fprintf(w, " (v%s)", spec.Version)
	}
	fmt.Fprintln(w)
	if spec.Description != "" {
		fmt.Fprintf(w, "%s  doc: %s\n", indent, spec.Description)
	}
	for i := range spec.Arguments {
		arg := &spec.Arguments[i]
		if arg.Skip {
			fmt.Fprintf(w, "%s  arg %s (skipped)\n", indent, arg.Name)
			continue
		}
		kind := "flag"
		if arg.Positional {
			kind = "positional"
		}
		fmt.Fprintf(w, "%s  %s %s", indent, kind, arg.Name)
		if len(arg.Flags) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(arg.Flags, ", "))
		}
		if arg.Required {
			fmt.Fprint(w, " required")
		}
		if arg.Default != nil {
			fmt.Fprintf(w, " default=%v", arg.Default)
		}
		if arg.Arity != nil {
			fmt.Fprintf(w, " arity=%s", arg.Arity)
		}
		if len(arg.Choices) > 0 {
			fmt.Fprintf(w, " choices=%v", arg.Choices)
		}
		fmt.Fprintln(w)
	}
	for _, exp := range spec.Expansions {
		fmt.Fprintf(w, "%s  expansion %s -> %s\n", indent, exp.Param, strings.Join(exp.Names, ", "))
	}
	for _, sc := range spec.Subcommands {
		explain(w, sc.Spec, depth+1)
	}
}

func hasPositionals(spec *core.ParserSpec) bool {
	for i := range spec.Arguments {
		if spec.Arguments[i].Positional && !spec.Arguments[i].Skip {
			return true
		}
	}
	return false
}

func fieldByIndex(root reflect.Value, index []int) reflect.Value {
	v := root
	for _, i := range index {
		v = v.Field(i)
	}
	return v
}

// setField assigns a parsed value to a schema field, wrapping pointers
// and rebuilding collections as needed.
func setField(fv reflect.Value, v any, fieldName string) error {
	ft := fv.Type()

	if ft.Kind() == reflect.Pointer {
		if v == nil {
			return nil
		}
		p := reflect.New(ft.Elem())
		if err := setField(p.Elem(), v, fieldName); err != nil {
			return err
		}
		fv.Set(p)
		return nil
	}
	if v == nil {
		return nil
	}

	switch ft.Kind() {
	case reflect.Slice:
		items, ok := v.([]any)
		if !ok {
			return assignScalar(fv, v, fieldName)
		}
		s := reflect.MakeSlice(ft, 0, len(items))
		for _, item := range items {
			ev, err := coerce(item, ft.Elem())
			if err != nil {
				return errors.NewUnsupportedField(fieldName, ft.String())
			}
			s = reflect.Append(s, ev)
		}
		fv.Set(s)
		return nil
	case reflect.Array:
		items, ok := v.([]any)
		if !ok || len(items) != ft.Len() {
			return errors.NewUnsupportedField(fieldName, ft.String())
		}
		for i, item := range items {
			ev, err := coerce(item, ft.Elem())
			if err != nil {
				return errors.NewUnsupportedField(fieldName, ft.String())
			}
			fv.Index(i).Set(ev)
		}
		return nil
	case reflect.Map:
		if items, ok := v.([]any); ok && ft.Elem().Kind() == reflect.Struct && ft.Elem().NumField() == 0 {
			// Set idiom.
			m := reflect.MakeMapWithSize(ft, len(items))
			empty := reflect.New(ft.Elem()).Elem()
			for _, item := range items {
				kv, err := coerce(item, ft.Key())
				if err != nil {
					return errors.NewUnsupportedField(fieldName, ft.String())
				}
				m.SetMapIndex(kv, empty)
			}
			fv.Set(m)
			return nil
		}
		return assignScalar(fv, v, fieldName)
	}
	return assignScalar(fv, v, fieldName)
}

func assignScalar(fv reflect.Value, v any, fieldName string) error {
	ev, err := coerce(v, fv.Type())
	if err != nil {
		return errors.NewUnsupportedField(fieldName, fv.Type().String())
	}
	fv.Set(ev)
	return nil
}

// coerce adapts a parsed value to the destination type, allowing safe
// reflect conversions between compatible kinds.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Zero(t), nil
	}
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if t.Kind() == reflect.Interface && rv.Type().Implements(t) {
		return rv, nil
	}
	if convertibleKinds(rv.Kind(), t.Kind()) && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", rv.Type(), t)
}

// convertibleKinds limits reflect conversions to same-family kinds, so a
// string never silently converts to an int slice of bytes and friends.
func convertibleKinds(from, to reflect.Kind) bool {
	family := func(k reflect.Kind) int {
		switch k {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return 1
		case reflect.String:
			return 2
		case reflect.Bool:
			return 3
		default:
			return 0
		}
	}
	f, t := family(from), family(to)
	return f != 0 && f == t
}
