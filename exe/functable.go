package exe

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FuncKind is the provenance of a function annotation.
type FuncKind uint8

// Function kinds.
const (
	FuncKnown FuncKind = iota
	FuncHeuristics
)

var funcKindNames = [...]string{"known", "heuristics"}

func (k FuncKind) String() string {
	return funcKindNames[k]
}

// UnmarshalYAML decodes a function kind from its catalogue name.
func (k *FuncKind) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	for kind, kindName := range funcKindNames {
		if name == kindName {
			*k = FuncKind(kind)
			return nil
		}
	}
	return errors.Errorf("unknown function kind %q", name)
}

// Func is a function region within the executable, [StartPos, EndPos).
// Two functions are the same function iff their start positions are equal.
type Func struct {
	Name      string         `yaml:"name"`
	Signature string         `yaml:"signature,omitempty"`
	Desc      string         `yaml:"desc,omitempty"`
	Comments  map[Pos]string `yaml:"comments,omitempty"`
	Labels    map[Pos]string `yaml:"labels,omitempty"`
	StartPos  Pos            `yaml:"start_pos"`
	EndPos    Pos            `yaml:"end_pos"`
	Kind      FuncKind       `yaml:"kind"`
}

// Contains reports whether pos lies within the function.
func (f *Func) Contains(pos Pos) bool {
	return pos >= f.StartPos && pos < f.EndPos
}

func (f *Func) String() string {
	return fmt.Sprintf("%s@[%s, %s)", f.Name, f.StartPos, f.EndPos)
}

// DuplicateFuncError reports a function starting where another already
// does.
type DuplicateFuncError struct {
	Func      *Func
	Duplicate *Func
}

func (e *DuplicateFuncError) Error() string {
	return fmt.Sprintf("functions %s and %s share a start position", e.Func, e.Duplicate)
}

// FuncTable is a flat set of functions ordered and keyed by start
// position.
type FuncTable struct {
	funcs []*Func
}

// NewFuncTable creates an empty table.
func NewFuncTable() *FuncTable {
	return &FuncTable{}
}

// Insert adds a function, rejecting duplicates by start position.
func (t *FuncTable) Insert(f *Func) error {
	idx := t.searchStart(f.StartPos)
	if idx < len(t.funcs) && t.funcs[idx].StartPos == f.StartPos {
		return &DuplicateFuncError{Func: f, Duplicate: t.funcs[idx]}
	}

	t.funcs = append(t.funcs, nil)
	copy(t.funcs[idx+1:], t.funcs[idx:])
	t.funcs[idx] = f
	return nil
}

// Get returns the function starting exactly at pos, or nil.
func (t *FuncTable) Get(pos Pos) *Func {
	idx := t.searchStart(pos)
	if idx < len(t.funcs) && t.funcs[idx].StartPos == pos {
		return t.funcs[idx]
	}
	return nil
}

// At returns the function whose range contains pos, or nil.
func (t *FuncTable) At(pos Pos) *Func {
	idx := t.searchStart(pos)
	if idx < len(t.funcs) && t.funcs[idx].StartPos == pos {
		return t.funcs[idx]
	}
	if idx > 0 && t.funcs[idx-1].Contains(pos) {
		return t.funcs[idx-1]
	}
	return nil
}

// NextStart returns the start position of the first function past pos.
func (t *FuncTable) NextStart(pos Pos) (Pos, bool) {
	idx := sort.Search(len(t.funcs), func(i int) bool {
		return t.funcs[i].StartPos > pos
	})
	if idx == len(t.funcs) {
		return 0, false
	}
	return t.funcs[idx].StartPos, true
}

// Funcs returns the functions in start order.
func (t *FuncTable) Funcs() []*Func {
	return t.funcs
}

func (t *FuncTable) searchStart(pos Pos) int {
	return sort.Search(len(t.funcs), func(i int) bool {
		return t.funcs[i].StartPos >= pos
	})
}

// LoadFuncTable reads a YAML function catalogue.
func LoadFuncTable(r io.Reader) (*FuncTable, error) {
	var funcs []*Func
	if err := yaml.NewDecoder(r).Decode(&funcs); err != nil {
		return nil, errors.Wrap(err, "unable to parse function catalogue")
	}

	table := NewFuncTable()
	for _, f := range funcs {
		if err := table.Insert(f); err != nil {
			return nil, errors.Wrapf(err, "unable to insert %q", f.Name)
		}
	}
	return table, nil
}
