// Package hierarchy turns flat, owner-scoped task rows into a forest and
// exposes the tree-aware operations the task service builds on.
package hierarchy

import (
	"sort"

	"github.com/mindmesh/mindmesh-api/internal/models"
)

// Node is one task in the forest. Expanded is transient UI state and is
// never persisted.
type Node struct {
	Task     models.Task `json:"task"`
	Expanded bool        `json:"is_expanded"`
	Children []*Node     `json:"children"`
}

// BuildForest places every task under its parent when the parent exists in
// the same input set. A task whose parent_task_id points outside the set
// (e.g. the parent fell out of a status filter) is promoted to root; that is
// a policy choice, not an error. Sibling groups are sorted ascending by
// task_order; the sort is stable, so ties keep the input's fetch order.
func BuildForest(tasks []models.Task) []*Node {
	nodes := make([]*Node, len(tasks))
	byID := make(map[uint64]*Node, len(tasks))
	for i, t := range tasks {
		nodes[i] = &Node{Task: t}
		byID[t.ID] = nodes[i]
	}

	var roots []*Node
	for _, n := range nodes {
		parentID := n.Task.ParentTaskID
		if parentID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := byID[*parentID]
		if !ok || parent == n {
			// Orphan: parent not in this set. Promote to root.
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	sortSiblings(roots)
	for _, n := range nodes {
		sortSiblings(n.Children)
	}

	return roots
}

func sortSiblings(siblings []*Node) {
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].Task.TaskOrder < siblings[j].Task.TaskOrder
	})
}

// ToggleExpansion flips the transient flag on the node matching id anywhere
// in the forest. Returns false when no node matched (a no-op).
func ToggleExpansion(forest []*Node, id uint64) bool {
	node := Find(forest, id)
	if node == nil {
		return false
	}
	node.Expanded = !node.Expanded
	return true
}

// Find walks the forest depth-first for the node carrying the given task ID.
func Find(forest []*Node, id uint64) *Node {
	for _, n := range forest {
		if n.Task.ID == id {
			return n
		}
		if found := Find(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Count returns the number of nodes in the forest.
func Count(forest []*Node) int {
	total := 0
	for _, n := range forest {
		total += 1 + Count(n.Children)
	}
	return total
}

// Flatten returns the forest's tasks in depth-first order.
func Flatten(forest []*Node) []models.Task {
	var out []models.Task
	for _, n := range forest {
		out = append(out, n.Task)
		out = append(out, Flatten(n.Children)...)
	}
	return out
}
