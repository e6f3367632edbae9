// SPDX-License-Identifier: MPL-2.0

package project

import (
	"maps"
	"slices"

	"github.com/nbmkit/nbmkit/internal/config"
)

// WatchDirs returns the directories whose contents feed the descriptor: the
// project directory followed by every source set directory, in source set
// name order.
func WatchDirs(cfg *config.Project, getenv func(string) string) ([]string, error) {
	sets, err := sourceSets(NewHost(cfg, getenv), cfg)
	if err != nil {
		return nil, err
	}
	dirs := []string{cfg.Dir}
	for _, name := range slices.Sorted(maps.Keys(sets)) {
		dirs = append(dirs, sets[name].Dirs()...)
	}
	return dirs, nil
}
