// SPDX-License-Identifier: MPL-2.0

package nbmmod

import (
	"maps"
	"slices"

	"github.com/nbmkit/nbmkit/pkg/moduleid"
)

// FriendSet is the set of modules granted access to the public packages.
// The zero value is ready to use.
type FriendSet struct {
	names map[moduleid.ModuleName]struct{}
}

// NewFriendSet returns an empty FriendSet.
func NewFriendSet() *FriendSet {
	return &FriendSet{}
}

// Add validates name and inserts it. Adding a name twice is a no-op.
func (s *FriendSet) Add(name string) error {
	valid, err := moduleid.Validate(name)
	if err != nil {
		return err
	}
	if s.names == nil {
		s.names = make(map[moduleid.ModuleName]struct{})
	}
	s.names[valid] = struct{}{}
	return nil
}

// Entries returns a sorted snapshot of the friend names.
func (s *FriendSet) Entries() []string {
	entries := make([]string, 0, len(s.names))
	for _, name := range slices.Sorted(maps.Keys(s.names)) {
		entries = append(entries, name.String())
	}
	return entries
}

// Len returns the number of friends.
func (s *FriendSet) Len() int { return len(s.names) }
