// Package display renders help and version text from parser
// configuration.
package display

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/cmoxiv/wArgs/core"
)

var header = color.New(color.Bold, color.Underline).SprintFunc()
var bold = color.New(color.Bold).SprintFunc()

// Help renders the full help text for a command level.
func Help(spec *core.ParserSpec) string {
	return helpFor(spec, spec.Prog)
}

// HelpWithParent renders help for a subcommand, showing the parent
// program name and the subcommand name together (e.g. "app server").
func HelpWithParent(parent *core.ParserSpec, name string) string {
	sub := parent.Sub(name)
	if sub == nil {
		return ""
	}
	return helpFor(sub, parent.Prog+" "+name)
}

func helpFor(spec *core.ParserSpec, fullName string) string {
	var builder strings.Builder
	builder.WriteString(header("Usage:") + " ")
	builder.WriteString(bold(fullName))

	positionals := visiblePositionals(spec)
	for _, p := range positionals {
		name := p.DisplayName
		if name == "" {
			name = strings.ToUpper(p.Name)
		}
		if p.Arity != nil && (p.Arity.Star || p.Arity.Plus) {
			name += "..."
		}
		builder.WriteString(fmt.Sprintf(" <%s>", name))
	}
	if len(spec.Subcommands) > 0 {
		builder.WriteString(" <SUBCOMMAND>")
	}
	if hasOptions(spec) {
		builder.WriteString(" [OPTIONS]")
	}
	builder.WriteString("\n")

	if spec.Description != "" {
		builder.WriteString("\n" + spec.Description + "\n")
	}

	if len(spec.Subcommands) > 0 {
		builder.WriteString("\n" + header("Subcommands:") + "\n")
		builder.WriteString(subcommandsHelp(spec))
	}

	if len(positionals) > 0 {
		builder.WriteString("\n" + header("Arguments:") + "\n")
		builder.WriteString(argsHelp(positionals))
	}

	if hasOptions(spec) {
		builder.WriteString(optionsHelp(spec))
	}

	if spec.Epilog != "" {
		builder.WriteString("\n" + spec.Epilog + "\n")
	}

	return builder.String()
}

func subcommandsHelp(spec *core.ParserSpec) string {
	var lines []string
	maxLen := 0
	for _, sc := range spec.Subcommands {
		line := fmt.Sprintf("  %s||%s", sc.Name, sc.Spec.Description)
		if n := len("  " + sc.Name); n > maxLen {
			maxLen = n
		}
		lines = append(lines, line)
	}
	return alignLines(lines, maxLen)
}

func argsHelp(positionals []*core.ArgumentSpec) string {
	var lines []string
	maxLen := 0
	for _, p := range positionals {
		name := p.DisplayName
		if name == "" {
			name = strings.ToUpper(p.Name)
		}
		left := fmt.Sprintf("  <%s>", name)
		if len(left) > maxLen {
			maxLen = len(left)
		}
		lines = append(lines, fmt.Sprintf("%s||%s", left, p.Help))
	}
	return alignLines(lines, maxLen)
}

// optionsHelp renders grouped option sections. Ungrouped options appear
// under "Options:"; each named group gets its own section.
func optionsHelp(spec *core.ParserSpec) string {
	groups := map[string][]*core.ArgumentSpec{}
	var order []string
	for i := range spec.Arguments {
		arg := &spec.Arguments[i]
		if arg.Positional || arg.Skip || arg.Hidden {
			continue
		}
		if _, ok := groups[arg.Group]; !ok {
			order = append(order, arg.Group)
		}
		groups[arg.Group] = append(groups[arg.Group], arg)
	}

	var builder strings.Builder
	for _, g := range order {
		title := "Options:"
		if g != "" {
			title = g + ":"
		}
		builder.WriteString("\n" + header(title) + "\n")
		builder.WriteString(optionLines(groups[g]))
	}
	if spec.AddHelp {
		if len(order) == 0 {
			builder.WriteString("\n" + header("Options:") + "\n")
		}
		builder.WriteString("  --help     Show this help message\n")
		if spec.Version != "" {
			builder.WriteString("  --version  Show version information\n")
		}
	}
	return builder.String()
}

func optionLines(args []*core.ArgumentSpec) string {
	var lines []string
	maxLen := 0
	for _, arg := range args {
		left := "  " + flagUsage(arg)
		if len(left) > maxLen {
			maxLen = len(left)
		}
		help := arg.Help
		if arg.Required {
			help = strings.TrimSpace(help + " (required)")
		}
		lines = append(lines, fmt.Sprintf("%s||%s", left, help))
	}
	return alignLines(lines, maxLen)
}

// flagUsage renders "-s, --long VALUE" for one option.
func flagUsage(arg *core.ArgumentSpec) string {
	flags := strings.Join(arg.Flags, ", ")
	hint := valueHint(arg)
	if hint == "" {
		return flags
	}
	return flags + " " + hint
}

func valueHint(arg *core.ArgumentSpec) string {
	switch arg.Action {
	case core.ActionStoreTrue, core.ActionStoreConst, core.ActionCount:
		return ""
	}
	if arg.DisplayName != "" {
		return arg.DisplayName
	}
	if len(arg.Choices) > 0 {
		names := make([]string, 0, len(arg.Choices))
		for _, c := range arg.Choices {
			names = append(names, fmt.Sprint(c))
		}
		return "{" + strings.Join(names, ",") + "}"
	}
	hint := strings.ToUpper(arg.Name)
	if arg.Arity != nil {
		hint += "..."
	}
	return hint
}

// alignLines pads the left column of "left||right" lines to a shared
// width.
func alignLines(lines []string, maxLen int) string {
	var builder strings.Builder
	for _, line := range lines {
		parts := strings.SplitN(line, "||", 2)
		padding := strings.Repeat(" ", maxLen-len(parts[0]))
		builder.WriteString(fmt.Sprintf("%s%s  %s\n", parts[0], padding, parts[1]))
	}
	return builder.String()
}

func visiblePositionals(spec *core.ParserSpec) []*core.ArgumentSpec {
	var out []*core.ArgumentSpec
	for i := range spec.Arguments {
		if spec.Arguments[i].Positional && !spec.Arguments[i].Skip {
			out = append(out, &spec.Arguments[i])
		}
	}
	return out
}

func hasOptions(spec *core.ParserSpec) bool {
	if spec.AddHelp {
		return true
	}
	for i := range spec.Arguments {
		if !spec.Arguments[i].Positional && !spec.Arguments[i].Skip && !spec.Arguments[i].Hidden {
			return true
		}
	}
	return false
}
