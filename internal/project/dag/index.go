package dag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

type ProjectID uint32

// ProjectIndex assigns dense ids to config paths.
type ProjectIndex struct {
	NameToID map[string]ProjectID
	IDToName []string
}

// BuildIndex collects every config path that is loaded or referenced,
// sorts them and hands out ids in that order.
func BuildIndex(metas []ProjectMeta) ProjectIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
		for _, ref := range meta.References {
			if ref != "" {
				uniq[ref] = struct{}{}
			}
		}
	}

	paths := make([]string, 0, len(uniq))
	for path := range uniq {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	nameToID := make(map[string]ProjectID, len(paths))
	for i, path := range paths {
		nameToID[path] = toID(i)
	}
	return ProjectIndex{NameToID: nameToID, IDToName: paths}
}

// Names maps ids back to config paths.
func (idx ProjectIndex) Names(ids []ProjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func toID(i int) ProjectID {
	id, err := safecast.Conv[ProjectID](i)
	if err != nil {
		panic(fmt.Errorf("project id overflow: %w", err))
	}
	return id
}
