package sets

import "sort"

// String is a set of strings, implemented as a map with empty struct values.
type String map[string]struct{}

// NewString creates a String from a list of values.
func NewString(items ...string) String {
	s := String{}
	s.Insert(items...)
	return s
}

// Insert adds items to the set.
func (s String) Insert(items ...string) String {
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Has returns true if and only if item is contained in the set.
func (s String) Has(item string) bool {
	_, contained := s[item]
	return contained
}

// Len returns the size of the set.
func (s String) Len() int {
	return len(s)
}

// List returns the contents as a sorted string slice.
func (s String) List() []string {
	res := make([]string, 0, len(s))
	for key := range s {
		res = append(res, key)
	}
	sort.Strings(res)
	return res
}
