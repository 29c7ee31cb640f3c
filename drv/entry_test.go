package drv

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestDirEntryDecodeFile(t *testing.T) {
	raw := make([]byte, EntrySize)
	raw[0x00] = 0x01
	copy(raw[0x01:], "ABC")
	raw[0x04] = 100  // sector_pos
	raw[0x09] = 0x10 // size = 4096
	raw[0x0C] = 0x40 // date = 123456
	raw[0x0D] = 0xE2
	raw[0x0E] = 0x01
	copy(raw[0x10:], "TEST")

	entry, err := decodeDirEntry(raw)
	if err != nil {
		t.Fatalf("unable to decode entry: %v", err)
	}
	if entry.Kind != KindFile {
		t.Errorf("expected a file entry, got kind %d", entry.Kind)
	}
	if entry.Name != "TEST" || entry.Ext != "ABC" {
		t.Errorf("wrong name %q / extension %q", entry.Name, entry.Ext)
	}
	if entry.File.SectorPos != 100 || entry.File.Size != 4096 {
		t.Errorf("wrong file pointer %+v", entry.File)
	}
	if !entry.Date.Equal(time.Unix(123456, 0)) {
		t.Errorf("wrong date %v", entry.Date)
	}
	if entry.FullName() != "TEST.ABC" {
		t.Errorf("wrong full name %q", entry.FullName())
	}

	encoded := make([]byte, EntrySize)
	if err := encodeDirEntry(encoded, entry); err != nil {
		t.Fatalf("unable to encode entry: %v", err)
	}
	if !bytes.Equal(encoded, raw) {
		t.Errorf("re-encoded entry differs from input:\n%x\n%x", encoded, raw)
	}
}

func TestDirEntryDecodeDir(t *testing.T) {
	raw := make([]byte, EntrySize)
	raw[0x00] = 0x80
	raw[0x04] = 7
	copy(raw[0x10:], "SUBDIR")

	entry, err := decodeDirEntry(raw)
	if err != nil {
		t.Fatalf("unable to decode entry: %v", err)
	}
	if entry.Kind != KindDir || entry.Dir.SectorPos != 7 {
		t.Errorf("wrong directory entry %+v", entry)
	}
	if entry.FullName() != "SUBDIR" {
		t.Errorf("wrong full name %q", entry.FullName())
	}
}

func TestDirEntryDecodeTerminator(t *testing.T) {
	entry, err := decodeDirEntry(make([]byte, EntrySize))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Errorf("terminator decoded to %+v", entry)
	}
}

func TestDirEntryDecodeErrors(t *testing.T) {
	raw := make([]byte, EntrySize)
	raw[0] = 0x42
	if _, err := decodeDirEntry(raw); err == nil {
		t.Error("expected an invalid-kind error")
	} else {
		var kindErr *InvalidEntryKindError
		if !errors.As(err, &kindErr) || kindErr.Kind != 0x42 {
			t.Errorf("expected InvalidEntryKindError{0x42}, got %v", err)
		}
	}

	raw = make([]byte, EntrySize)
	raw[0] = 0x01
	raw[0x10] = 0xC3
	if _, err := decodeDirEntry(raw); !errors.Is(err, ErrNonASCIIName) {
		t.Errorf("expected ErrNonASCIIName, got %v", err)
	}

	raw = make([]byte, EntrySize)
	raw[0] = 0x01
	raw[0x01] = 0x90
	copy(raw[0x10:], "F")
	if _, err := decodeDirEntry(raw); !errors.Is(err, ErrNonASCIIExtension) {
		t.Errorf("expected ErrNonASCIIExtension, got %v", err)
	}
}

func TestFilePtrOrdering(t *testing.T) {
	a := FilePtr{SectorPos: 1, Size: 500}
	b := FilePtr{SectorPos: 2, Size: 1}
	if !a.Less(b) || b.Less(a) {
		t.Error("file pointers must order by sector position")
	}

	// Size does not participate in the order.
	c := FilePtr{SectorPos: 1, Size: 999}
	if a.Less(c) || c.Less(a) {
		t.Error("size must not affect file pointer order")
	}
}

func TestDirEntryPtrOffset(t *testing.T) {
	ptr := DirEntryPtr{Dir: DirPtr{SectorPos: 3}, Entry: 5}
	if got := ptr.Offset(); got != 3*0x800+5*0x20 {
		t.Errorf("wrong offset %#x", got)
	}
}
