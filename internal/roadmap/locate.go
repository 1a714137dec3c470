package roadmap

// Locate finds the task with the given ID by scanning features in order.
// The first match wins; duplicate IDs are not detected.
func Locate(r *Roadmap, taskID string) (*Feature, *Task, bool) {
	for fi := range r.Features {
		f := &r.Features[fi]
		for ti := range f.Tasks {
			if f.Tasks[ti].ID == taskID {
				return f, &f.Tasks[ti], true
			}
		}
	}
	return nil, nil, false
}

type position struct {
	feature int
	task    int
}

// Index maps task IDs to their position in a roadmap. It answers the same
// lookups as Locate and stays valid as long as no feature or task is added or
// removed.
type Index struct {
	r   *Roadmap
	pos map[string]position
}

// NewIndex builds an index over r. For duplicate IDs the first occurrence wins.
func NewIndex(r *Roadmap) *Index {
	idx := &Index{r: r, pos: make(map[string]position, r.TaskCount())}
	for fi, f := range r.Features {
		for ti, t := range f.Tasks {
			if _, seen := idx.pos[t.ID]; seen {
				continue
			}
			idx.pos[t.ID] = position{feature: fi, task: ti}
		}
	}
	return idx
}

// Locate returns the owning feature and the task for taskID.
func (idx *Index) Locate(taskID string) (*Feature, *Task, bool) {
	p, ok := idx.pos[taskID]
	if !ok {
		return nil, nil, false
	}
	f := &idx.r.Features[p.feature]
	return f, &f.Tasks[p.task], true
}
