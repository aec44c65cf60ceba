package core

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/cmoxiv/wArgs/errors"
)

// Arg is the explicit per-argument override record, read from struct
// tags. Invalid combinations are rejected here, before any parser exists.
//
// Recognized tags:
//
//	short:"n"          single-letter short flag
//	long:"max-items"   long flag override (kebab, no dashes)
//	desc:"..."         help text (replaces doc-derived description)
//	metavar:"..."      display name in help
//	choices:"a,b,c"    explicit choice list
//	action:"flag|count|append|store_const"
//	const:"v"          stored value for store_const
//	arity:"*|+|N"      token count override
//	default:"raw"      default, converted with the argument's parser
//	required:"true"    required override
//	dest:"name"        namespace key override
//	group:"name"       help group
//	xor:"name"         mutually-exclusive set
//	env:"VAR"          environment variable supplying the default
//	positional:"true"  consume bare tokens instead of a flag
//	hidden:"true"      omit from help
//	skip:"true"        emit no argument at all
//	expand:"true"      flatten a struct-typed field per sub-field
type Arg struct {
	Short      string
	Long       string
	Help       string
	Metavar    string
	Choices    []string
	Action     Action
	Arity      *Arity
	Const      string
	DefaultRaw *string
	Required   *bool
	Dest       string
	Group      string
	Exclusive  string
	Env        string
	Positional bool
	Hidden     bool
	Skip       bool
	Expand     bool
}

func tagBool(tag reflect.StructTag, key string) bool {
	v, ok := tag.Lookup(key)
	return ok && v != "false"
}

// ArgFromTags reads override metadata for one schema field. It returns a
// ConfigError for combinations the builder must never see.
func ArgFromTags(field string, tag reflect.StructTag) (*Arg, error) {
	a := &Arg{
		Short:      tag.Get("short"),
		Long:       tag.Get("long"),
		Help:       tag.Get("desc"),
		Metavar:    tag.Get("metavar"),
		Const:      tag.Get("const"),
		Dest:       tag.Get("dest"),
		Group:      tag.Get("group"),
		Exclusive:  tag.Get("xor"),
		Env:        tag.Get("env"),
		Positional: tagBool(tag, "positional"),
		Hidden:     tagBool(tag, "hidden"),
		Skip:       tagBool(tag, "skip"),
		Expand:     tagBool(tag, "expand"),
	}

	if a.Skip {
		return a, nil
	}

	if a.Short != "" {
		if len(a.Short) != 1 || a.Short[0] == '-' {
			return nil, errors.NewConfig(field, "short flag must be a single letter, got "+strconv.Quote(a.Short))
		}
	}
	if strings.HasPrefix(a.Long, "-") {
		return nil, errors.NewConfig(field, "long flag must not include dashes, got "+strconv.Quote(a.Long))
	}
	if a.Positional && (a.Short != "" || a.Long != "") {
		return nil, errors.NewConfig(field, "positional arguments cannot have flags")
	}
	if a.Positional && a.Hidden {
		return nil, errors.NewConfig(field, "positional arguments cannot be hidden")
	}

	if v, ok := tag.Lookup("choices"); ok && v != "" {
		a.Choices = strings.Split(v, ",")
	}

	switch act := tag.Get("action"); act {
	case "":
	case "flag", "store_true":
		a.Action = ActionStoreTrue
	case "count":
		a.Action = ActionCount
	case "append":
		a.Action = ActionAppend
	case "store_const":
		if a.Const == "" {
			return nil, errors.NewConfig(field, "action store_const requires a const tag")
		}
		a.Action = ActionStoreConst
	default:
		return nil, errors.NewConfig(field, "unknown action "+strconv.Quote(act))
	}

	if v, ok := tag.Lookup("arity"); ok {
		switch v {
		case "*":
			a.Arity = ArityStar()
		case "+":
			a.Arity = ArityPlus()
		default:
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return nil, errors.NewConfig(field, "arity must be *, + or a positive integer, got "+strconv.Quote(v))
			}
			a.Arity = ArityN(n)
		}
	}

	if v, ok := tag.Lookup("default"); ok {
		a.DefaultRaw = &v
	}
	if v, ok := tag.Lookup("required"); ok {
		b := v != "false"
		a.Required = &b
	}

	return a, nil
}
