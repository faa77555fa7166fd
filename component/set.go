package component

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Set is an ordered, named collection of registered component Metadata. It
// is the Go-idiomatic resolution of the "extract every public component
// struct from a namespace" operation the original model describes: Go has
// no namespace-reflection equivalent without code generation, so a Set is
// built explicitly from a list of Metadata values (FromTuple) or by scanning
// a caller-supplied slice of constructors (FromModule).
type Set struct {
	order []*Metadata
	byID  map[ID]*Metadata
	byName map[string]*Metadata
}

// FromTuple builds a Set from an explicit, ordered list of Metadata values.
// Registration order becomes each member's ID and the binary format's
// on-wire emission order.
func FromTuple(metas ...*Metadata) (Set, error) {
	s := Set{
		byID:   make(map[ID]*Metadata, len(metas)),
		byName: make(map[string]*Metadata, len(metas)),
	}
	for i, m := range metas {
		if m == nil {
			return Set{}, eris.New("component: nil Metadata in set")
		}
		if _, dup := s.byName[m.name]; dup {
			return Set{}, eris.Errorf("component: duplicate component name %q", m.name)
		}
		m.id = ID(i)
		s.byName[m.name] = m
		s.byID[m.id] = m
		s.order = append(s.order, m)
	}
	return s, nil
}

// Constructor is a component registration function, the shape that
// RegisterTag/RegisterData calls return: (*Metadata, error).
type Constructor func() (*Metadata, error)

// FromModule resolves a list of component constructors (as a user would
// gather by listing every RegisterXxx call in a package) into a Set,
// assigning IDs in the order given.
func FromModule(ctors ...Constructor) (Set, error) {
	metas := make([]*Metadata, 0, len(ctors))
	for _, ctor := range ctors {
		m, err := ctor()
		if err != nil {
			return Set{}, err
		}
		metas = append(metas, m)
	}
	return FromTuple(metas...)
}

// Len returns the number of components in the set.
func (s Set) Len() int { return len(s.order) }

// Count is an alias for Len, matching the vocabulary used by spec-adjacent
// call sites that talk about "component counts" rather than collection size.
func (s Set) Count() int { return len(s.order) }

// All returns the set's members in registration order.
func (s Set) All() []*Metadata { return s.order }

// ByName looks up a component by its on-wire name.
func (s Set) ByName(name string) (*Metadata, bool) {
	m, ok := s.byName[name]
	return m, ok
}

// ByID looks up a component by its assigned ID.
func (s Set) ByID(id ID) (*Metadata, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// Contains reports whether name is present in the set.
func (s Set) Contains(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Names returns every member's on-wire name, in registration order.
func (s Set) Names() []string {
	names := make([]string, len(s.order))
	for i, m := range s.order {
		names[i] = m.name
	}
	return names
}

// Exclude returns a new Set containing every member of s whose name is not
// in names. Relative order is preserved; IDs are NOT reassigned, since a
// selective save still refers to members by their full-set identity.
func (s Set) Exclude(names ...string) Set {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := Set{
		byID:   make(map[ID]*Metadata),
		byName: make(map[string]*Metadata),
	}
	for _, m := range s.order {
		if drop[m.name] {
			continue
		}
		out.order = append(out.order, m)
		out.byID[m.id] = m
		out.byName[m.name] = m
	}
	return out
}

// Only returns a new Set containing just the named members, in the order
// names was given rather than s's registration order — this lets a caller
// request a specific save ordering for a partial/selective save.
func (s Set) Only(names ...string) (Set, error) {
	out := Set{
		byID:   make(map[ID]*Metadata, len(names)),
		byName: make(map[string]*Metadata, len(names)),
	}
	for _, n := range names {
		m, ok := s.byName[n]
		if !ok {
			return Set{}, eris.Errorf("component: %q is not a member of this set", n)
		}
		out.order = append(out.order, m)
		out.byID[m.id] = m
		out.byName[m.name] = m
	}
	return out, nil
}

// Merge returns the union of s and other. Members of other whose name
// already exists in s are skipped; new members keep the order they had in
// other, appended after all of s's members. Every member of the result,
// s's included, is renumbered sequentially from 0 in that order; since the
// Metadata values are shared, the new IDs are also what s and other see.
func (s Set) Merge(other Set) Set {
	combined := append(append([]*Metadata{}, s.order...), other.order...)
	seen := make(map[string]bool, len(combined))
	deduped := make([]*Metadata, 0, len(combined))
	for _, m := range combined {
		if seen[m.name] {
			continue
		}
		seen[m.name] = true
		deduped = append(deduped, m)
	}
	out := Set{
		byID:   make(map[ID]*Metadata, len(deduped)),
		byName: make(map[string]*Metadata, len(deduped)),
	}
	for i, m := range deduped {
		m.id = ID(i)
		out.order = append(out.order, m)
		out.byID[m.id] = m
		out.byName[m.name] = m
	}
	return out
}

// ValidateSerializable checks every data member and reports the first one
// that cannot be loaded: a write-only member (custom Emit hook without a
// matching Parse hook) appearing in a set that will be used for loading,
// not just saving. Shapes are not walked here; unsupported field kinds are
// already rejected when a member is registered.
func (s Set) ValidateSerializable() error {
	for _, m := range s.order {
		if m.kind == Data && m.writeOnly {
			return eris.Errorf("component: %q has a custom emit hook but no matching parse hook and cannot be loaded", m.name)
		}
	}
	return nil
}

// SortedNames returns every member's name in lexicographic order, used by
// callers that want a deterministic listing independent of registration
// order (e.g. diagnostics output).
func (s Set) SortedNames() []string {
	names := s.Names()
	sort.Strings(names)
	return names
}
