package exe

import (
	"encoding/binary"
	"testing"

	"psxrev/mips"
)

func words(ws ...uint32) []byte {
	b := make([]byte, 0, len(ws)*4)
	for _, w := range ws {
		var enc [4]byte
		binary.LittleEndian.PutUint32(enc[:], w)
		b = append(b, enc[:]...)
	}
	return b
}

func TestDecodeIterInstructions(t *testing.T) {
	// addu $v0, $zr, $zr ; lui $a0, 0x8001 ; jr $ra ; nop
	bytes := words(0x00001021, 0x3C048001, 0x03E00008, 0x00000000)
	iter := NewDecodeIter(bytes, 0x80010000, nil, nil, nil)

	expected := []struct {
		pos  Pos
		asm  string
		size int
	}{
		{0x80010000, "move $v0, $zr", 4},
		{0x80010004, "lui $a0, 0x8001", 4},
		{0x80010008, "jr $ra", 4},
		{0x8001000C, "nop", 4},
	}

	for _, want := range expected {
		item, ok := iter.Next()
		if !ok {
			t.Fatalf("iteration ended before %s", want.asm)
		}
		if item.Pos != want.pos {
			t.Errorf("expected position %s, got %s", want.pos, item.Pos)
		}
		if item.String() != want.asm {
			t.Errorf("expected %q, got %q", want.asm, item.String())
		}
		if item.Size() != want.size {
			t.Errorf("%s: expected size %d, got %d", want.asm, want.size, item.Size())
		}
	}
	if _, ok := iter.Next(); ok {
		t.Error("iteration should have ended")
	}
}

func TestDecodeIterDataDirectives(t *testing.T) {
	table := NewDataTable()
	str := &Data{
		Name: "banner",
		Pos:  0x80010004,
		Ty:   DataType{Kind: TypeAsciiStr, Len: 8},
		Kind: DataKnown,
	}
	if err := table.Insert(str); err != nil {
		t.Fatal(err)
	}

	bytes := append(words(0x00001021), []byte("HI\x00\x00\x00\x00\x00\x00")...)
	bytes = append(bytes, words(0x03E00008)...)
	iter := NewDecodeIter(bytes, 0x80010000, table, nil, nil)

	item, _ := iter.Next()
	if item.Pseudo == nil {
		t.Fatalf("expected the move, got %v", item)
	}

	item, ok := iter.Next()
	if !ok || item.Directive == nil || item.Directive.Data != str {
		t.Fatalf("expected the banner directive, got %v", item)
	}
	if item.Pos != 0x80010004 || item.Size() != 8 {
		t.Errorf("wrong directive position/size %v/%d", item.Pos, item.Size())
	}
	if item.String() != `.str "HI"` {
		t.Errorf("wrong directive text %q", item.String())
	}

	item, ok = iter.Next()
	if !ok || item.Basic == nil || item.String() != "jr $ra" {
		t.Fatalf("expected the jr past the data, got %v", item)
	}
}

func TestDecodeIterSkipsMidDataStart(t *testing.T) {
	// The iterator starts mid-region; the region is skipped, not decoded.
	table := NewDataTable()
	region := &Data{
		Name: "table",
		Pos:  0x80010000,
		Ty:   DataType{Kind: TypeAsciiStr, Len: 8},
		Kind: DataKnown,
	}
	if err := table.Insert(region); err != nil {
		t.Fatal(err)
	}

	bytes := words(0xFFFFFFFF, 0x00001021)
	iter := NewDecodeIter(bytes, 0x80010004, table, nil, nil)

	item, ok := iter.Next()
	if !ok {
		t.Fatal("iteration ended early")
	}
	if item.Pos != 0x80010008 || item.Pseudo == nil {
		t.Fatalf("expected the move past the region, got %v at %s", item, item.Pos)
	}
}

func TestDecodeIterUnknownWord(t *testing.T) {
	bytes := words(0xFFFFFFFF)
	iter := NewDecodeIter(bytes, 0x80010000, nil, nil, nil)

	item, ok := iter.Next()
	if !ok || item.Directive == nil || item.Directive.Data != nil {
		t.Fatalf("expected a raw-word directive, got %v", item)
	}
	if item.String() != "dw 0xffffffff" {
		t.Errorf("wrong directive text %q", item.String())
	}
}

func TestDecodeIterPseudoStopsAtFunctionStart(t *testing.T) {
	funcs := NewFuncTable()
	pad := makeFunc("pad", 0x80010008, 0x80010010)
	if err := funcs.Insert(pad); err != nil {
		t.Fatal(err)
	}

	// Four nop words, but a function starts after the second: the run
	// must not swallow the function's own nops.
	bytes := words(0, 0, 0, 0)
	iter := NewDecodeIter(bytes, 0x80010000, nil, funcs, nil)

	item, _ := iter.Next()
	nop, ok := item.Pseudo.(*mips.Nop)
	if !ok || nop.Len != 2 {
		t.Fatalf("expected a 2-word nop run, got %v", item)
	}

	item, _ = iter.Next()
	if item.Func != pad {
		t.Errorf("expected the item to carry its function, got %v", item.Func)
	}
	nop, ok = item.Pseudo.(*mips.Nop)
	if !ok || nop.Len != 2 {
		t.Fatalf("expected the function's own 2-word nop run, got %v", item)
	}
}

func TestDecodeIterPosStable(t *testing.T) {
	iter := NewDecodeIter(words(0x00001021, 0x00001021), 0x100, nil, nil, nil)

	if iter.Pos() != 0x100 {
		t.Errorf("wrong initial position %s", iter.Pos())
	}
	iter.Next()
	if iter.Pos() != 0x104 {
		t.Errorf("wrong position after one item: %s", iter.Pos())
	}
	if iter.Pos() != 0x104 {
		t.Error("position queries must be stable between emissions")
	}
}
