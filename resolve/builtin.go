package resolve

import (
	"math/big"
	"net"
	"net/url"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/cmoxiv/wArgs/core"
	"github.com/cmoxiv/wArgs/errors"
)

// timeLayouts are tried in order when parsing time.Time tokens.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RegisterBuiltins installs converters for common standard and ecosystem
// types. Default() calls this once; call it yourself on a fresh Registry
// when not using the process-wide one.
func RegisterBuiltins(reg *Registry) {
	reg.Register(reflect.TypeOf(time.Time{}), convertTime)
	reg.Register(reflect.TypeOf(time.Duration(0)), convertDuration)
	reg.Register(reflect.TypeOf(uuid.UUID{}), convertUUID)
	reg.Register(reflect.TypeOf(url.URL{}), convertURL)
	reg.Register(reflect.TypeOf(net.IP{}), convertIP)
	reg.Register(reflect.TypeOf(big.Rat{}), convertRat)
}

func convertTime(s string) (any, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, errors.NewConversion(s, "time.Time", nil)
}

func convertDuration(s string) (any, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, errors.NewConversion(s, "time.Duration", err)
	}
	return d, nil
}

func convertUUID(s string) (any, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, errors.NewConversion(s, "uuid.UUID", err)
	}
	return id, nil
}

func convertURL(s string) (any, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, errors.NewConversion(s, "url.URL", err)
	}
	return *u, nil
}

func convertIP(s string) (any, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, errors.NewConversion(s, "net.IP", nil)
	}
	return ip, nil
}

func convertRat(s string) (any, error) {
	r := new(big.Rat)
	if _, ok := r.SetString(s); !ok {
		return nil, errors.NewConversion(s, "big.Rat", nil)
	}
	return *r, nil
}

var _ core.ConvertFunc = convertTime
