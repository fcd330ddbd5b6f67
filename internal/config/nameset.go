package config

import (
	"sort"
	"strings"
)

// NameSet is an immutable set of resource names, used for the
// databases and buckets a delete must never touch.
type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// ParseNameSet splits a comma separated list. Blank entries are skipped.
func ParseNameSet(raw string) NameSet {
	set := NameSet{}
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// Contains reports exact membership; no case folding.
func (s NameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns a new set holding the members of both sets.
func (s NameSet) Union(other NameSet) NameSet {
	out := make(NameSet, len(s)+len(other))
	for name := range s {
		out[name] = struct{}{}
	}
	for name := range other {
		out[name] = struct{}{}
	}
	return out
}

// Names returns the members sorted by name.
func (s NameSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
