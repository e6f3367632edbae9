// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"iter"
	"strings"
)

type (
	// Attribute is a single manifest header.
	Attribute struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}

	// Attributes is an ordered, case-insensitive mapping of manifest headers.
	// The zero value is ready to use.
	Attributes struct {
		entries []Attribute
		index   map[string]int
	}
)

// NewAttributes returns Attributes holding attrs in order.
func NewAttributes(attrs ...Attribute) *Attributes {
	a := &Attributes{}
	for _, attr := range attrs {
		a.Set(attr.Name, attr.Value)
	}
	return a
}

// Set stores value under name. An existing name, in any letter case, keeps
// its original spelling and position and takes the new value.
func (a *Attributes) Set(name, value string) {
	key := strings.ToLower(name)
	if a.index == nil {
		a.index = make(map[string]int)
	}
	if i, ok := a.index[key]; ok {
		a.entries[i].Value = value
		return
	}
	a.index[key] = len(a.entries)
	a.entries = append(a.entries, Attribute{Name: name, Value: value})
}

// Get returns the value stored under name, ignoring letter case.
func (a *Attributes) Get(name string) (string, bool) {
	if a == nil || a.index == nil {
		return "", false
	}
	i, ok := a.index[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return a.entries[i].Value, true
}

// Len returns the number of distinct names.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// All iterates over the attributes in order.
func (a *Attributes) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if a == nil {
			return
		}
		for _, e := range a.entries {
			if !yield(e.Name, e.Value) {
				return
			}
		}
	}
}

// Entries returns a copy of the attributes in order.
func (a *Attributes) Entries() []Attribute {
	if a == nil {
		return nil
	}
	return append([]Attribute(nil), a.entries...)
}

// Map returns the attributes as a plain map keyed by their stored spelling.
func (a *Attributes) Map() map[string]string {
	m := make(map[string]string, a.Len())
	for name, value := range a.All() {
		m[name] = value
	}
	return m
}
