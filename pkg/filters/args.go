package filters

import (
	"slices"
	"strconv"
	"strings"

	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
)

// args holds parsed "a:b:key=value" instantiation arguments.
type args map[string]string

// parseArgs splits s on ':' and assigns positional values to keys in order.
// A "key=value" token names its key explicitly; once a named token appears,
// positional tokens are no longer accepted. Empty tokens are skipped.
func parseArgs(kind, s string, keys ...string) (args, error) {
	out := make(args)
	pos, named := 0, false
	for _, tok := range strings.Split(s, ":") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if k, v, ok := strings.Cut(tok, "="); ok {
			if !slices.Contains(keys, k) {
				return nil, fgerr.New(fgerr.ErrCodeInvalidArgs, "%s: unknown option %q", kind, k)
			}
			out[k] = v
			named = true
			continue
		}
		if named {
			return nil, fgerr.New(fgerr.ErrCodeInvalidArgs, "%s: positional value %q after named option", kind, tok)
		}
		if pos >= len(keys) {
			return nil, fgerr.New(fgerr.ErrCodeInvalidArgs, "%s: too many arguments in %q", kind, s)
		}
		out[keys[pos]] = tok
		pos++
	}
	return out, nil
}

func (a args) integer(kind, key string, def int) (int, error) {
	v, ok := a[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fgerr.New(fgerr.ErrCodeInvalidArgs, "%s: %s must be an integer, got %q", kind, key, v)
	}
	return n, nil
}

func (a args) require(kind string, keys ...string) error {
	for _, k := range keys {
		if _, ok := a[k]; !ok {
			return fgerr.New(fgerr.ErrCodeInvalidArgs, "%s: missing %s", kind, k)
		}
	}
	return nil
}
