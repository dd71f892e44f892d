package model

import (
	"maps"
	"slices"
)

// IDSet is a set of process identifiers. The zero value is an empty set.
type IDSet map[string]struct{}

// NewIDSet builds a set from the given identifiers.
func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is a member.
func (set IDSet) Has(id string) bool {
	_, ok := set[id]
	return ok
}

// Len returns the number of members.
func (set IDSet) Len() int {
	return len(set)
}

// Intersect returns the members present in both sets.
func (set IDSet) Intersect(other IDSet) IDSet {
	small, large := set, other
	if len(small) > len(large) {
		small, large = large, small
	}
	result := make(IDSet)
	for id := range small {
		if large.Has(id) {
			result[id] = struct{}{}
		}
	}
	return result
}

// Intersects reports whether the sets share at least one member.
func (set IDSet) Intersects(other IDSet) bool {
	for id := range set {
		if other.Has(id) {
			return true
		}
	}
	return false
}

// Sorted returns the members in lexical order.
func (set IDSet) Sorted() []string {
	return slices.Sorted(maps.Keys(set))
}
