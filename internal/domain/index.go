package domain

import "fmt"

// IndexVersion is the persisted schema version of the index document.
const IndexVersion = 1

// Index is the whole persisted universe: every task plus the id
// allocator. Task order is creation order, which is also the tie-break
// order for readiness selection.
type Index struct {
	Version int     `json:"version" yaml:"version"`
	NextID  int     `json:"next_id" yaml:"next_id"`
	Tasks   []*Task `json:"tasks" yaml:"tasks"`
}

// NewIndex returns an empty index ready for its first task.
func NewIndex() *Index {
	return &Index{
		Version: IndexVersion,
		NextID:  1,
		Tasks:   []*Task{},
	}
}

// Find returns the task with the exact canonical id, or nil.
func (ix *Index) Find(id string) *Task {
	for _, t := range ix.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Resolve finds a task by reference. References are compared by
// sequence number, so "T0012", "t12", and "12" all name the same task.
func (ix *Index) Resolve(ref string) (*Task, error) {
	n, err := ParseTaskID(ref)
	if err != nil {
		return nil, err
	}
	for _, t := range ix.Tasks {
		if seq, perr := ParseTaskID(t.ID); perr == nil && seq == n {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
}

// Allocate hands out the next canonical task id and advances the
// allocator. Ids are never reused.
func (ix *Index) Allocate() string {
	id := FormatTaskID(ix.NextID)
	ix.NextID++
	return id
}
