package exe

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
)

func buildHeader(t *testing.T) []byte {
	t.Helper()

	b := make([]byte, HeaderSize)
	copy(b, "PS-X EXE")
	binary.LittleEndian.PutUint32(b[0x10:], 0x80010000) // pc0
	binary.LittleEndian.PutUint32(b[0x14:], 0x8001F000) // gp0
	binary.LittleEndian.PutUint32(b[0x18:], 0x80010000) // dest
	binary.LittleEndian.PutUint32(b[0x1C:], 0x800)      // size
	binary.LittleEndian.PutUint32(b[0x30:], 0x801FFF00) // stack pos
	copy(b[0x4C:], "Sony Computer Entertainment Inc. for North America area")
	return b
}

func TestHeaderRoundTrip(t *testing.T) {
	raw := buildHeader(t)

	var header Header
	if err := header.UnmarshalBinary(raw); err != nil {
		t.Fatalf("unable to decode header: %v", err)
	}

	if header.PC0 != 0x80010000 || header.DestPos != 0x80010000 {
		t.Errorf("wrong entry fields %+v", header)
	}
	if header.Size != 0x800 || header.StackPos != 0x801FFF00 {
		t.Errorf("wrong size/stack fields %+v", header)
	}
	if header.Marker != "Sony Computer Entertainment Inc. for North America area" {
		t.Errorf("wrong marker %q", header.Marker)
	}

	encoded := make([]byte, HeaderSize)
	if err := header.MarshalBinary(encoded); err != nil {
		t.Fatalf("unable to encode header: %v", err)
	}
	if !bytes.Equal(encoded, raw) {
		t.Error("re-encoded header differs from input")
	}
}

func TestHeaderWrongMagic(t *testing.T) {
	raw := buildHeader(t)
	raw[0] = 'X'

	var header Header
	if err := header.UnmarshalBinary(raw); !errors.Is(err, ErrWrongMagic) {
		t.Errorf("expected ErrWrongMagic, got %v", err)
	}
}

func TestReadExe(t *testing.T) {
	image := buildHeader(t)
	program := make([]byte, 0x800)
	binary.LittleEndian.PutUint32(program, 0x00001021)
	image = append(image, program...)

	exe, err := ReadExe(bytes.NewReader(image))
	if err != nil {
		t.Fatalf("unable to read executable: %v", err)
	}
	if exe.StartPos() != 0x80010000 {
		t.Errorf("wrong start position %s", exe.StartPos())
	}
	if len(exe.Bytes) != 0x800 {
		t.Errorf("wrong program size %d", len(exe.Bytes))
	}

	iter := exe.Decode(nil, nil)
	item, ok := iter.Next()
	if !ok || item.String() != "move $v0, $zr" {
		t.Fatalf("wrong first item %v", item)
	}
}

func TestReadExeBadSize(t *testing.T) {
	raw := buildHeader(t)
	binary.LittleEndian.PutUint32(raw[0x1C:], 0x7FF)

	if _, err := ReadExe(bytes.NewReader(raw)); !errors.Is(err, ErrWrongHeaderSize) {
		t.Errorf("expected ErrWrongHeaderSize, got %v", err)
	}
}
