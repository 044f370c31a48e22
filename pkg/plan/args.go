package plan

import (
	"sort"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

// Args is the partial command-line specification of a sub-process.
//
// KeyBased entries render in ascending key order as the key concatenated
// with its value (when present), so keys carry their own separator:
// "--pgdata=" renders with "=", "-p " with a space. IndexBased entries are
// positional and render only for the maximal contiguous run starting at
// position 0; a gap ends the run and everything after it is dropped, since a
// positional sequence with a hole would be malformed.
type Args struct {
	KeyBased   map[string]partial.Opt[string]
	IndexBased map[int]string
}

// Combine merges two argument specifications key-wise (and position-wise);
// o's entries win on collision.
func (a Args) Combine(o Args) Args {
	return Args{
		KeyBased:   partial.MergeMaps(a.KeyBased, o.KeyBased),
		IndexBased: partial.MergeMaps(a.IndexBased, o.IndexBased),
	}
}

// KeyArgs builds a key-based argument map from literal key/value pairs.
func KeyArgs(pairs map[string]string) map[string]partial.Opt[string] {
	out := make(map[string]partial.Opt[string], len(pairs))
	for k, v := range pairs {
		out[k] = partial.Some(v)
	}
	return out
}

// Render produces the resolved argv fragment. It is total: unset key values
// render as the bare key.
func (a Args) Render() []string {
	keys := make([]string, 0, len(a.KeyBased))
	for k := range a.KeyBased {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		if v, ok := a.KeyBased[k].Get(); ok {
			out = append(out, k+v)
		} else {
			out = append(out, k)
		}
	}

	for i := 0; ; i++ {
		v, ok := a.IndexBased[i]
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}
