package buchi

import (
	"strings"

	"facette.io/natsort"
)

// Paths is the set of automaton states consistent with the transitions observed so far.
//
// Paths is immutable. The names are kept de-duplicated and in natural order so equal sets have equal keys.
type Paths struct {
	names []string
	key   string
}

func NewPaths(names ...string) Paths {
	sorted := make([]string, len(names))
	copy(sorted, names)
	natsort.Sort(sorted)
	unique := make([]string, 0, len(sorted))
	for _, name := range sorted {
		if len(unique) == 0 || unique[len(unique)-1] != name {
			unique = append(unique, name)
		}
	}
	return Paths{names: unique, key: strings.Join(unique, ",")}
}

// Canonical string identifying the set
func (p Paths) Key() string {
	return p.key
}

// Returns a copy of the names in the set
func (p Paths) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

func (p Paths) Len() int {
	return len(p.names)
}

func (p Paths) Contains(name string) bool {
	for _, n := range p.names {
		if n == name {
			return true
		}
	}
	return false
}

// Returns true if any name follows the accepting naming convention.
// Skip states are only known by the automaton, use Automaton.Accepting to account for them.
func (p Paths) Accepting() bool {
	for _, name := range p.names {
		if strings.HasPrefix(name, acceptingPrefix) {
			return true
		}
	}
	return false
}

func (p Paths) String() string {
	return "{" + p.key + "}"
}
