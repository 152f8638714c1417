package topology

import (
	"sort"

	"geotrail/internal/models"
)

// DuplicateGroups finds sets of paths sharing the exact same geometry.
// Direction matters: a reversed copy of a path is a distinct path, not a
// duplicate. Each returned group starts with the path to keep: the first
// visible path by id, or simply the first by id when none is visible.
// Aggregations of the remaining paths can be migrated to the keeper without
// touching their fractional positions.
func DuplicateGroups(paths []*models.Path) [][]*models.Path {
	byGeom := make(map[string][]*models.Path)
	var keys []string
	for _, p := range paths {
		if len(p.Geometry) == 0 {
			continue
		}
		k := string(p.Geometry)
		if _, seen := byGeom[k]; !seen {
			keys = append(keys, k)
		}
		byGeom[k] = append(byGeom[k], p)
	}

	var groups [][]*models.Path
	for _, k := range keys {
		group := byGeom[k]
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		keeper := 0
		for i, p := range group {
			if p.Visible {
				keeper = i
				break
			}
		}
		group[0], group[keeper] = group[keeper], group[0]
		sort.Slice(group[1:], func(i, j int) bool { return group[1+i].ID < group[1+j].ID })
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0].ID < groups[j][0].ID })
	return groups
}
