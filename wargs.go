package wargs

import (
	"io"
	"log/slog"
	"os"

	"github.com/cmoxiv/wArgs/resolve"
)

// Option configures a Command.
type Option func(*options)

type options struct {
	prog          string
	description   string
	prefix        string
	registry      *resolve.Registry
	traverse      bool
	warnConflicts bool
	completion    bool
	logger        *slog.Logger
	stdout        io.Writer
}

func defaultOptions() options {
	return options{
		traverse:      true,
		warnConflicts: true,
		completion:    true,
		stdout:        os.Stdout,
	}
}

// WithProg overrides the program name shown in usage and help.
func WithProg(prog string) Option {
	return func(o *options) { o.prog = prog }
}

// WithDescription overrides the description derived from the schema's
// doc text.
func WithDescription(desc string) Option {
	return func(o *options) { o.description = desc }
}

// WithPrefix prepends a prefix to every generated long flag, so several
// schemas can share one command line without collisions.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithRegistry supplies a custom converter registry in place of the
// process-wide default.
func WithRegistry(reg *resolve.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// TraverseEmbedded controls whether embedded mixin structs contribute
// fields. On by default.
func TraverseEmbedded(on bool) Option {
	return func(o *options) { o.traverse = on }
}

// WithConflictWarnings controls logging when embedded levels disagree on
// a field's type. On by default.
func WithConflictWarnings(on bool) Option {
	return func(o *options) { o.warnConflicts = on }
}

// WithCompletion controls the built-in --completion flag. On by default.
func WithCompletion(on bool) Option {
	return func(o *options) { o.completion = on }
}

// WithLogger routes conflict warnings to a specific logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithOutput redirects help, version and completion output.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// Parse populates target from os.Args without dispatching to a Runner.
// The target must be a pointer to a schema struct.
func Parse(target any) error {
	return New(target).Parse(os.Args[1:])
}

// Run populates target from os.Args and dispatches to the Runner of the
// selected command, if it implements one.
func Run(target any) error {
	return New(target).Run(os.Args[1:])
}
