package exe

import (
	"encoding/binary"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"psxrev/mips"
)

// Item is one step of a decode iteration: a data directive, a
// pseudo-instruction or a basic instruction, tagged with its position.
// Exactly one of Directive, Pseudo and Basic is set.
type Item struct {
	Pos       Pos
	Directive *Directive
	Pseudo    mips.Pseudo
	Basic     mips.Inst

	// Func is the known function starting at Pos, if any.
	Func *Func
}

// Size returns the item's byte size.
func (i *Item) Size() int {
	switch {
	case i.Directive != nil:
		return len(i.Directive.Bytes)
	case i.Pseudo != nil:
		return i.Pseudo.Size()
	default:
		return mips.InstSize
	}
}

func (i *Item) String() string {
	switch {
	case i.Directive != nil:
		return i.Directive.String()
	case i.Pseudo != nil:
		return i.Pseudo.String()
	default:
		return i.Basic.String()
	}
}

// Directive describes non-instruction bytes: a known data region's
// payload, or, when Data is nil, a single word with no recognized encoding
// or the trailing bytes too short to form a word.
type Directive struct {
	Data  *Data
	Bytes []byte
}

func (d *Directive) String() string {
	if d.Data == nil {
		if len(d.Bytes) < 4 {
			return fmt.Sprintf("db % x", d.Bytes)
		}
		return fmt.Sprintf("dw %#x", binary.LittleEndian.Uint32(d.Bytes))
	}

	switch d.Data.Ty.Kind {
	case TypeWord:
		return fmt.Sprintf("dw %#x", binary.LittleEndian.Uint32(d.Bytes))
	case TypeHalfWord:
		return fmt.Sprintf("dh %#x", binary.LittleEndian.Uint16(d.Bytes))
	case TypeByte:
		return fmt.Sprintf("db %#x", d.Bytes[0])
	case TypeAsciiStr:
		return fmt.Sprintf(".str %q", strings.TrimRight(string(d.Bytes), "\x00"))
	default:
		return fmt.Sprintf(".array %s", &d.Data.Ty)
	}
}

// DecodeIter walks executable bytes in program order, splicing
// instruction decoding with data-region skipping. Positions within known
// data regions produce directives; elsewhere pseudo-instructions are
// matched before basic ones, and a word with no recognized encoding is
// emitted as a raw-word directive.
//
// A decode attempt that lands mid-region (a jump into annotated data, or
// a region truncated by the end of the bytes) is logged and skipped to the
// region's end rather than failing the iteration.
type DecodeIter struct {
	bytes []byte
	pos   Pos
	data  *DataTable
	funcs *FuncTable
	log   *zap.SugaredLogger
}

// NewDecodeIter creates an iterator over bytes starting at startPos. A nil
// logger discards the skip warnings.
func NewDecodeIter(bytes []byte, startPos Pos, data *DataTable, funcs *FuncTable, log *zap.SugaredLogger) *DecodeIter {
	if data == nil {
		data = NewDataTable()
	}
	if funcs == nil {
		funcs = NewFuncTable()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &DecodeIter{
		bytes: bytes,
		pos:   startPos,
		data:  data,
		funcs: funcs,
		log:   log,
	}
}

// Pos returns the current position. It is stable between emissions.
func (it *DecodeIter) Pos() Pos {
	return it.pos
}

// Next produces the next item, reporting false at the end of the bytes.
func (it *DecodeIter) Next() (*Item, bool) {
	for {
		if len(it.bytes) == 0 {
			return nil, false
		}
		pos := it.pos

		if data := it.data.Get(pos); data != nil {
			size := data.Ty.Size()
			if pos == data.StartPos() && size <= len(it.bytes) {
				item := &Item{
					Pos:       pos,
					Directive: &Directive{Data: data, Bytes: it.bytes[:size]},
				}
				it.advance(size)
				return item, true
			}

			// Mid-region decode attempt; skip to the region's end.
			it.log.Warnf("attempted to decode at %s within data location %s", pos, data)
			skip := int(data.EndPos() - pos)
			if skip > len(it.bytes) {
				skip = len(it.bytes)
			}
			it.advance(skip)
			continue
		}

		if len(it.bytes) < mips.InstSize {
			// Trailing bytes too short for an instruction.
			item := &Item{
				Pos:       pos,
				Directive: &Directive{Bytes: it.bytes},
			}
			it.advance(len(it.bytes))
			return item, true
		}

		if pseudo := mips.DecodePseudo(mips.NewInstStream(it.window())); pseudo != nil {
			item := &Item{Pos: pos, Pseudo: pseudo, Func: it.funcs.Get(pos)}
			it.advance(pseudo.Size())
			return item, true
		}

		word := binary.LittleEndian.Uint32(it.bytes)
		item := &Item{Pos: pos, Func: it.funcs.Get(pos)}
		if inst := mips.Decode(word); inst != nil {
			item.Basic = inst
		} else {
			item.Directive = &Directive{Bytes: it.bytes[:mips.InstSize]}
		}
		it.advance(mips.InstSize)
		return item, true
	}
}

// window bounds pseudo matching so a match never crosses into a data
// region or past the start of another known function.
func (it *DecodeIter) window() []byte {
	limit := len(it.bytes)

	if start, ok := it.data.NextStart(it.pos); ok {
		if dist := int(start - it.pos); dist < limit {
			limit = dist
		}
	}
	if start, ok := it.funcs.NextStart(it.pos); ok {
		if dist := int(start - it.pos); dist < limit {
			limit = dist
		}
	}

	return it.bytes[:limit]
}

func (it *DecodeIter) advance(n int) {
	it.bytes = it.bytes[n:]
	it.pos += Pos(n)
}
