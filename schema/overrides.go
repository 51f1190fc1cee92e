package schema

import (
	"sort"
	"strings"
)

// Overrides maps a dotted field path (e.g. "address.street") to the field
// number that path must use.
type Overrides map[string]int32

// Validate rejects syntactically invalid paths. Unknown paths are allowed;
// they simply never match a field.
func (o Overrides) Validate() error {
	paths := make([]string, 0, len(o))
	for p := range o {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if p == "" {
			return &MalformedOverridesError{Path: p, Reason: "empty path"}
		}
		for _, seg := range strings.Split(p, ".") {
			if seg == "" {
				return &MalformedOverridesError{Path: p, Reason: "empty path segment"}
			}
		}
	}
	return nil
}

// Merge returns a copy of o with every entry of other applied on top.
func (o Overrides) Merge(other Overrides) Overrides {
	out := make(Overrides, len(o)+len(other))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
