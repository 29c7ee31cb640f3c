// Package exe implements the annotation and decoding layer for the game's
// MIPS executable.
//
// Known data regions and functions are described by catalogues loaded into
// a DataTable and a FuncTable; DecodeIter then walks the executable bytes,
// splicing instruction decoding with data-region directives.
package exe

import (
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Pos is a memory position within the executable.
type Pos uint32

func (p Pos) String() string {
	return fmt.Sprintf("%#x", uint32(p))
}

// DataKind is the provenance of a data region annotation.
type DataKind uint8

// Data kinds.
const (
	// DataKnown comes from a curated catalogue.
	DataKnown DataKind = iota

	// DataForeign is imported from an external source.
	DataForeign

	// DataHeuristics was discovered automatically.
	DataHeuristics
)

var dataKindNames = [...]string{"known", "foreign", "heuristics"}

func (k DataKind) String() string {
	return dataKindNames[k]
}

// UnmarshalYAML decodes a data kind from its catalogue name.
func (k *DataKind) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	for kind, kindName := range dataKindNames {
		if name == kindName {
			*k = DataKind(kind)
			return nil
		}
	}
	return errors.Errorf("unknown data kind %q", name)
}

// MarshalYAML encodes the data kind as its catalogue name.
func (k DataKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Data is a contiguous annotated data region, [Pos, Pos+Ty.Size()).
type Data struct {
	Name string   `yaml:"name"`
	Desc string   `yaml:"desc,omitempty"`
	Pos  Pos      `yaml:"pos"`
	Ty   DataType `yaml:"ty"`
	Kind DataKind `yaml:"kind"`

	// Marker flags a Known region that only marks space; heuristic
	// discoveries may nest inside it.
	Marker bool `yaml:"marker,omitempty"`
}

// StartPos returns the region's first position.
func (d *Data) StartPos() Pos {
	return d.Pos
}

// EndPos returns the position just past the region.
func (d *Data) EndPos() Pos {
	return d.Pos + Pos(d.Ty.Size())
}

// Contains reports whether pos lies within the region.
func (d *Data) Contains(pos Pos) bool {
	return pos >= d.StartPos() && pos < d.EndPos()
}

// ContainsData reports whether other lies entirely within the region.
func (d *Data) ContainsData(other *Data) bool {
	return other.StartPos() >= d.StartPos() && other.EndPos() <= d.EndPos()
}

// SameRange reports whether both regions cover the same range.
func (d *Data) SameRange(other *Data) bool {
	return d.StartPos() == other.StartPos() && d.EndPos() == other.EndPos()
}

// Intersects reports whether the regions share any position.
func (d *Data) Intersects(other *Data) bool {
	return d.StartPos() < other.EndPos() && other.StartPos() < d.EndPos()
}

func (d *Data) String() string {
	return fmt.Sprintf("%s@[%s, %s)", d.Name, d.StartPos(), d.EndPos())
}

// DataTypeKind discriminates data types.
type DataTypeKind uint8

// Data type kinds.
const (
	TypeWord DataTypeKind = iota
	TypeHalfWord
	TypeByte
	TypeAsciiStr
	TypeArray
)

// DataType describes the payload of a data region.
type DataType struct {
	Kind DataTypeKind

	// Len is the string length for TypeAsciiStr and the element count
	// for TypeArray.
	Len int

	// Elem is the element type for TypeArray.
	Elem *DataType
}

// Size returns the byte size of the type.
func (t *DataType) Size() int {
	switch t.Kind {
	case TypeWord:
		return 4
	case TypeHalfWord:
		return 2
	case TypeByte:
		return 1
	case TypeAsciiStr:
		return t.Len
	case TypeArray:
		return t.Len * t.Elem.Size()
	}
	return 0
}

func (t *DataType) String() string {
	switch t.Kind {
	case TypeWord:
		return "u32"
	case TypeHalfWord:
		return "u16"
	case TypeByte:
		return "u8"
	case TypeAsciiStr:
		return fmt.Sprintf("str(%d)", t.Len)
	case TypeArray:
		return fmt.Sprintf("[%d]%s", t.Len, t.Elem)
	}
	return "unknown"
}

// UnmarshalYAML decodes a type from its catalogue form: the scalars
// "u32"/"u16"/"u8", or the mappings {ascii: len} and
// {array: {ty: ..., len: ...}}.
func (t *DataType) UnmarshalYAML(node *yaml.Node) error {
	var scalar string
	if err := node.Decode(&scalar); err == nil {
		switch scalar {
		case "u32":
			t.Kind = TypeWord
		case "u16":
			t.Kind = TypeHalfWord
		case "u8":
			t.Kind = TypeByte
		default:
			return errors.Errorf("unknown data type %q", scalar)
		}
		return nil
	}

	var ascii struct {
		Len *int `yaml:"ascii"`
	}
	if err := node.Decode(&ascii); err == nil && ascii.Len != nil {
		t.Kind = TypeAsciiStr
		t.Len = *ascii.Len
		return nil
	}

	var array struct {
		Array *struct {
			Ty  DataType `yaml:"ty"`
			Len int      `yaml:"len"`
		} `yaml:"array"`
	}
	if err := node.Decode(&array); err != nil {
		return err
	}
	if array.Array == nil {
		return errors.New("unknown data type node")
	}
	elem := array.Array.Ty
	t.Kind = TypeArray
	t.Len = array.Array.Len
	t.Elem = &elem
	return nil
}
