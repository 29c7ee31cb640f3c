package exe

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DataTable is a hierarchical set of data regions: siblings never overlap,
// every child lies strictly inside its parent, and names are globally
// unique. It is built once from catalogues and discovered regions, then
// read-only during decoding.
type DataTable struct {
	root  dataNode
	names map[string]*Data
}

type dataNode struct {
	data     *Data // nil at the root
	children []*dataNode
}

// Data table insertion errors.

// NotContainedError reports a region inserted outside its target node.
type NotContainedError struct {
	Data *Data
}

func (e *NotContainedError) Error() string {
	return fmt.Sprintf("data %s is not contained in the table", e.Data)
}

// IntersectionError reports two regions that overlap without containment.
type IntersectionError struct {
	Data         *Data
	Intersecting *Data
}

func (e *IntersectionError) Error() string {
	return fmt.Sprintf("data %s and %s intersect", e.Data, e.Intersecting)
}

// DuplicateError reports a region covering the same range as an existing
// one.
type DuplicateError struct {
	Data      *Data
	Duplicate *Data
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("data %s and %s are duplicates", e.Data, e.Duplicate)
}

// DuplicateNameError reports a region reusing an existing name.
type DuplicateNameError struct {
	Data      *Data
	Duplicate *Data
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("data %s reuses the name of %s", e.Data, e.Duplicate)
}

// HeuristicsInKnownError reports heuristic data inserted into known
// non-marker data.
type HeuristicsInKnownError struct {
	Data  *Data
	Known *Data
}

func (e *HeuristicsInKnownError) Error() string {
	return fmt.Sprintf("heuristics data %s cannot be inserted into known non-marker data %s", e.Data, e.Known)
}

// NewDataTable creates an empty table.
func NewDataTable() *DataTable {
	return &DataTable{names: make(map[string]*Data)}
}

// Insert adds a region to the table, keeping the table's invariants.
func (t *DataTable) Insert(data *Data) error {
	if dup, exists := t.names[data.Name]; exists {
		return &DuplicateNameError{Data: data, Duplicate: dup}
	}

	if err := t.root.insert(data); err != nil {
		return err
	}
	t.names[data.Name] = data
	return nil
}

// Get returns the innermost region containing pos, or nil.
func (t *DataTable) Get(pos Pos) *Data {
	node := &t.root
	var found *Data
	for {
		child := node.childAt(pos)
		if child == nil {
			return found
		}
		found = child.data
		node = child
	}
}

// NextStart returns the start of the first top-level region past pos.
func (t *DataTable) NextStart(pos Pos) (Pos, bool) {
	idx := sort.Search(len(t.root.children), func(i int) bool {
		return t.root.children[i].data.StartPos() > pos
	})
	if idx == len(t.root.children) {
		return 0, false
	}
	return t.root.children[idx].data.StartPos(), true
}

// GetByName returns the region with the given name, or nil.
func (t *DataTable) GetByName(name string) *Data {
	return t.names[name]
}

// Walk visits every region depth-first in position order.
func (t *DataTable) Walk(visit func(*Data)) {
	t.root.walk(visit)
}

// contains reports whether the node can hold data. The root holds
// everything.
func (n *dataNode) contains(data *Data) bool {
	if n.data == nil {
		return true
	}
	return n.data.ContainsData(data)
}

// childAt finds the child containing pos, or nil.
func (n *dataNode) childAt(pos Pos) *dataNode {
	idx := sort.Search(len(n.children), func(i int) bool {
		return n.children[i].data.EndPos() > pos
	})
	if idx < len(n.children) && n.children[idx].data.Contains(pos) {
		return n.children[idx]
	}
	return nil
}

func (n *dataNode) insert(data *Data) error {
	if !n.contains(data) {
		return &NotContainedError{Data: data}
	}

	// Look for a child to delegate to, rejecting conflicts.
	for _, child := range n.children {
		switch {
		case child.data.SameRange(data):
			return &DuplicateError{Data: data, Duplicate: child.data}
		case child.data.ContainsData(data):
			if data.Kind == DataHeuristics && child.data.Kind == DataKnown && !child.data.Marker {
				return &HeuristicsInKnownError{Data: data, Known: child.data}
			}
			return child.insert(data)
		case data.ContainsData(child.data):
			// Absorbed below.
		case child.data.Intersects(data):
			return &IntersectionError{Data: data, Intersecting: child.data}
		}
	}

	// Adopt as a sibling, absorbing any children it now contains.
	node := &dataNode{data: data}
	kept := n.children[:0]
	for _, child := range n.children {
		if data.ContainsData(child.data) {
			node.children = append(node.children, child)
		} else {
			kept = append(kept, child)
		}
	}
	n.children = append(kept, node)
	sort.Slice(n.children, func(i, j int) bool {
		return n.children[i].data.StartPos() < n.children[j].data.StartPos()
	})
	return nil
}

func (n *dataNode) walk(visit func(*Data)) {
	if n.data != nil {
		visit(n.data)
	}
	for _, child := range n.children {
		child.walk(visit)
	}
}

// LoadDataTable reads a YAML data catalogue and builds a table through the
// checked inserts.
func LoadDataTable(r io.Reader) (*DataTable, error) {
	var regions []*Data
	if err := yaml.NewDecoder(r).Decode(&regions); err != nil {
		return nil, errors.Wrap(err, "unable to parse data catalogue")
	}

	table := NewDataTable()
	for _, data := range regions {
		if err := table.Insert(data); err != nil {
			return nil, errors.Wrapf(err, "unable to insert %q", data.Name)
		}
	}
	return table, nil
}
