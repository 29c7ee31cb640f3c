package drv

import (
	"bytes"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// imageBuffer is an in-memory read/write/seeker that zero-fills holes,
// standing in for a disc image file.
type imageBuffer struct {
	data []byte
	pos  int64
}

func (b *imageBuffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *imageBuffer) Write(p []byte) (int, error) {
	if grow := b.pos + int64(len(p)) - int64(len(b.data)); grow > 0 {
		b.data = append(b.data, make([]byte, grow)...)
	}
	n := copy(b.data[b.pos:], p)
	b.pos += int64(n)
	return n, nil
}

func (b *imageBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		b.pos = offset
	case io.SeekCurrent:
		b.pos += offset
	case io.SeekEnd:
		b.pos = int64(len(b.data)) + offset
	}
	if grow := b.pos - int64(len(b.data)); grow > 0 {
		b.data = append(b.data, make([]byte, grow)...)
	}
	return b.pos, nil
}

// sliceSource is an EntrySource over a fixed slice.
type sliceSource struct {
	entries []*WriteEntry
	next    int
}

func (s *sliceSource) Len() int { return len(s.entries) }

func (s *sliceSource) Next() (*WriteEntry, error) {
	if s.next >= len(s.entries) {
		return nil, nil
	}
	entry := s.entries[s.next]
	s.next++
	return entry, nil
}

func fileEntry(name, ext string, payload []byte) *WriteEntry {
	return &WriteEntry{
		Name: name,
		Date: time.Unix(123456, 0),
		File: &FileSource{
			Ext:    ext,
			Size:   uint32(len(payload)),
			Reader: bytes.NewReader(payload),
		},
	}
}

func TestWriteTreeRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0x55}, 100)
	root := &sliceSource{entries: []*WriteEntry{
		{
			Name: "D",
			Date: time.Unix(123456, 0),
			Dir: &sliceSource{entries: []*WriteEntry{
				fileEntry("F", "EXT", payload),
			}},
		},
	}}

	img := &imageBuffer{}
	if err := WriteTree(img, root); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}

	// Root directory at sector 0, D's entry first.
	iter, err := RootDir().Entries(img)
	if err != nil {
		t.Fatalf("unable to iterate root: %v", err)
	}
	if !iter.Next() {
		t.Fatalf("root has no entries: %v", iter.Err())
	}
	d := iter.Entry()
	if d.Kind != KindDir || d.Name != "D" {
		t.Fatalf("wrong first entry %+v", d)
	}
	if iter.Next() {
		t.Fatal("root has unexpected extra entries")
	}

	// F.EXT resolves and reads back.
	entryPtr, entry, err := RootDir().Find(img, `\D\F.EXT`)
	if err != nil {
		t.Fatalf("unable to resolve file: %v", err)
	}
	if entry.Kind != KindFile || entry.File.Size != 100 {
		t.Fatalf("wrong file entry %+v", entry)
	}
	if entry.File.SectorPos < 1 {
		t.Errorf("file sector %d should be past the root directory", entry.File.SectorPos)
	}
	if entryPtr.Dir != d.Dir {
		t.Errorf("entry pointer %+v not inside directory %+v", entryPtr, d.Dir)
	}

	r, err := entry.File.Open(img)
	if err != nil {
		t.Fatalf("unable to open file: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("unable to read file: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("file payload did not round-trip")
	}
}

func TestWriteTreePreservesOrderAndAlignment(t *testing.T) {
	root := &sliceSource{entries: []*WriteEntry{
		{
			Name: "SUB",
			Date: time.Unix(1, 0),
			Dir: &sliceSource{entries: []*WriteEntry{
				fileEntry("A", "BIN", bytes.Repeat([]byte{1}, 10)),
			}},
		},
		fileEntry("B", "BIN", bytes.Repeat([]byte{2}, 3000)),
		fileEntry("C", "", bytes.Repeat([]byte{3}, 1)),
	}}

	img := &imageBuffer{}
	if err := WriteTree(img, root); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}

	iter, err := RootDir().Entries(img)
	if err != nil {
		t.Fatalf("unable to iterate root: %v", err)
	}

	var names []string
	var files []FilePtr
	for iter.Next() {
		entry := iter.Entry()
		names = append(names, entry.FullName())
		if entry.Kind == KindFile {
			files = append(files, entry.File)
		}
	}
	if iter.Err() != nil {
		t.Fatalf("iteration error: %v", iter.Err())
	}

	want := []string{"SUB", "B.BIN", "C"}
	if len(names) != len(want) {
		t.Fatalf("expected entries %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], names[i])
		}
	}

	// Payloads are sector-aligned and monotonically forward.
	prevEnd := int64(SectorSize) // root directory occupies sector 0
	for _, f := range files {
		start := f.Offset()
		if start%SectorSize != 0 {
			t.Errorf("file at %#x is not sector aligned", start)
		}
		if start < prevEnd {
			t.Errorf("file at %#x overlaps previous payload ending at %#x", start, prevEnd)
		}
		prevEnd = start + int64(f.Size)
	}
}

func TestWriteTreeNotSectorAligned(t *testing.T) {
	img := &imageBuffer{}
	if _, err := img.Seek(100, io.SeekStart); err != nil {
		t.Fatal(err)
	}

	err := WriteTree(img, &sliceSource{})
	if !errors.Is(err, ErrWriterNotAtSectorStart) {
		t.Errorf("expected ErrWriterNotAtSectorStart, got %v", err)
	}
}

func TestSwapFiles(t *testing.T) {
	root := &sliceSource{entries: []*WriteEntry{
		fileEntry("A", "BIN", bytes.Repeat([]byte{0xAA}, 100)),
		fileEntry("B", "BIN", bytes.Repeat([]byte{0xBB}, 200)),
	}}

	img := &imageBuffer{}
	if err := WriteTree(img, root); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}

	_, before, err := RootDir().Find(img, `A.BIN`)
	if err != nil {
		t.Fatal(err)
	}
	beforePtr := before.File

	if err := SwapFiles(img, `A.BIN`, `B.BIN`); err != nil {
		t.Fatalf("unable to swap files: %v", err)
	}

	_, a, err := RootDir().Find(img, `A.BIN`)
	if err != nil {
		t.Fatal(err)
	}
	_, b, err := RootDir().Find(img, `B.BIN`)
	if err != nil {
		t.Fatal(err)
	}

	if a.File.Size != 200 || b.File.Size != 100 {
		t.Errorf("pointers not swapped: a=%+v b=%+v", a.File, b.File)
	}
	if b.File != beforePtr {
		t.Errorf("b should now hold a's old pointer %+v, got %+v", beforePtr, b.File)
	}

	// The data itself did not move.
	r, err := a.File.Open(img)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 200 || data[0] != 0xBB {
		t.Error("a's pointer should now read b's bytes")
	}
}

func TestSwapFilesRejectsDirs(t *testing.T) {
	root := &sliceSource{entries: []*WriteEntry{
		{
			Name: "D",
			Date: time.Unix(1, 0),
			Dir:  &sliceSource{},
		},
		fileEntry("A", "BIN", []byte{1}),
	}}

	img := &imageBuffer{}
	if err := WriteTree(img, root); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}

	if err := SwapFiles(img, `D`, `A.BIN`); !errors.Is(err, ErrSwapNotFiles) {
		t.Errorf("expected ErrSwapNotFiles, got %v", err)
	}
}

func TestExactlyFullDirectory(t *testing.T) {
	// 64 entries fill a sector exactly, leaving no room for a terminator;
	// iteration must end cleanly at the allocated limit.
	img := &imageBuffer{}
	for i := 0; i < SectorSize/EntrySize; i++ {
		entry := &DirEntry{
			Kind: KindFile,
			Name: fmt.Sprintf("F%02d", i),
			Ext:  "BIN",
			Date: time.Unix(1, 0),
			File: FilePtr{SectorPos: 1, Size: 1},
		}
		var b [EntrySize]byte
		if err := encodeDirEntry(b[:], entry); err != nil {
			t.Fatal(err)
		}
		if _, err := img.Write(b[:]); err != nil {
			t.Fatal(err)
		}
	}
	// The payload sector begins right after.
	if _, err := img.Write(bytes.Repeat([]byte{0x55}, SectorSize)); err != nil {
		t.Fatal(err)
	}

	iter, err := RootDir().Entries(img)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for iter.Next() {
		count++
	}
	if iter.Err() != nil {
		t.Fatalf("exactly-full directory must end cleanly, got %v", iter.Err())
	}
	if count != SectorSize/EntrySize {
		t.Errorf("expected %d entries, got %d", SectorSize/EntrySize, count)
	}
}

func TestOpenFile(t *testing.T) {
	root := &sliceSource{entries: []*WriteEntry{
		{
			Name: "D",
			Date: time.Unix(1, 0),
			Dir:  &sliceSource{},
		},
		fileEntry("A", "BIN", []byte{0xAB, 0xCD}),
	}}

	img := &imageBuffer{}
	if err := WriteTree(img, root); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}

	r, entry, err := OpenFile(img, `\A.BIN`)
	if err != nil {
		t.Fatalf("unable to open file: %v", err)
	}
	if entry.FullName() != "A.BIN" {
		t.Errorf("wrong entry %q", entry.FullName())
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 2 || data[0] != 0xAB {
		t.Errorf("wrong file bytes % x", data)
	}

	if _, _, err := OpenFile(img, `D`); !errors.Is(err, ErrOpenDir) {
		t.Errorf("expected ErrOpenDir, got %v", err)
	}
}

func TestFindErrors(t *testing.T) {
	root := &sliceSource{entries: []*WriteEntry{
		fileEntry("A", "BIN", []byte{1}),
	}}

	img := &imageBuffer{}
	if err := WriteTree(img, root); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}

	if _, _, err := RootDir().Find(img, `MISSING`); !errors.Is(err, ErrFindFile) {
		t.Errorf("expected ErrFindFile, got %v", err)
	}
	if _, _, err := RootDir().Find(img, `A.BIN\X`); !errors.Is(err, ErrFileDirEntries) {
		t.Errorf("expected ErrFileDirEntries, got %v", err)
	}
}
