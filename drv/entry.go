package drv

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// EntrySize is the on-disc size of a directory entry.
const EntrySize = 32

// Entry kind bytes.
const (
	kindTerminator = 0x00
	kindFile       = 0x01
	kindDir        = 0x80
)

// Entry parse errors.
var (
	ErrNonASCIIName      = errors.New("entry name is not ascii")
	ErrNonASCIIExtension = errors.New("entry extension is not ascii")
)

// InvalidEntryKindError reports an entry whose kind byte is none of
// terminator, file or directory.
type InvalidEntryKindError struct {
	Kind uint8
}

func (e *InvalidEntryKindError) Error() string {
	return fmt.Sprintf("invalid entry kind %#x", e.Kind)
}

// EntryKind discriminates directory entries.
type EntryKind uint8

// Entry kinds.
const (
	KindFile EntryKind = iota
	KindDir
)

// DirEntry is a single directory entry: a named file or child directory.
//
// On disc it is a 32-byte record:
//
//	offset  size  field (file)          field (dir)
//	0x00     1    kind = 0x01           kind = 0x80
//	0x01     3    extension             reserved
//	0x04     4    sector position       sector position
//	0x08     4    size                  reserved
//	0x0C     4    date (epoch seconds)  date (epoch seconds)
//	0x10    16    name                  name
//
// Strings are null-padded 7-bit ASCII; integers are little-endian.
type DirEntry struct {
	Kind EntryKind
	Name string
	Date time.Time

	// File fields, valid when Kind is KindFile.
	Ext  string
	File FilePtr

	// Dir pointer, valid when Kind is KindDir.
	Dir DirPtr
}

// FullName returns the entry name as written in paths: NAME.EXT for files
// with an extension, NAME otherwise.
func (e *DirEntry) FullName() string {
	if e.Kind == KindFile && e.Ext != "" {
		return e.Name + "." + e.Ext
	}
	return e.Name
}

// decodeDirEntry parses a 32-byte entry record. A terminator entry decodes
// to nil with no error.
func decodeDirEntry(b []byte) (*DirEntry, error) {
	_ = b[EntrySize-1]

	kind := b[0]
	if kind == kindTerminator {
		return nil, nil
	}
	if kind != kindFile && kind != kindDir {
		return nil, &InvalidEntryKindError{Kind: kind}
	}

	name, ok := decodePaddedASCII(b[0x10 : 0x10+MaxNameLen])
	if !ok {
		return nil, errors.Wrapf(ErrNonASCIIName, "name bytes % x", b[0x10:0x10+MaxNameLen])
	}

	entry := &DirEntry{
		Name: name,
		Date: time.Unix(int64(binary.LittleEndian.Uint32(b[0x0C:0x10])), 0).UTC(),
	}

	sectorPos := binary.LittleEndian.Uint32(b[0x04:0x08])
	switch kind {
	case kindFile:
		ext, ok := decodePaddedASCII(b[0x01:0x04])
		if !ok {
			return nil, errors.Wrapf(ErrNonASCIIExtension, "extension bytes % x", b[0x01:0x04])
		}
		entry.Kind = KindFile
		entry.Ext = ext
		entry.File = FilePtr{
			SectorPos: sectorPos,
			Size:      binary.LittleEndian.Uint32(b[0x08:0x0C]),
		}
	case kindDir:
		entry.Kind = KindDir
		entry.Dir = DirPtr{SectorPos: sectorPos}
	}

	return entry, nil
}

// encodeDirEntry writes the entry as a 32-byte record. Reserved bytes are
// written as zeros.
func encodeDirEntry(b []byte, e *DirEntry) error {
	_ = b[EntrySize-1]
	for i := range b[:EntrySize] {
		b[i] = 0
	}

	if err := encodePaddedASCII(b[0x10:0x10+MaxNameLen], e.Name, ErrNonASCIIName); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b[0x0C:0x10], uint32(e.Date.Unix()))

	switch e.Kind {
	case KindFile:
		b[0] = kindFile
		if err := encodePaddedASCII(b[0x01:0x04], e.Ext, ErrNonASCIIExtension); err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(b[0x04:0x08], e.File.SectorPos)
		binary.LittleEndian.PutUint32(b[0x08:0x0C], e.File.Size)
	case KindDir:
		b[0] = kindDir
		binary.LittleEndian.PutUint32(b[0x04:0x08], e.Dir.SectorPos)
	default:
		return &InvalidEntryKindError{Kind: uint8(e.Kind)}
	}

	return nil
}

// decodePaddedASCII reads a null-padded ASCII string.
func decodePaddedASCII(b []byte) (string, bool) {
	end := len(b)
	for i, c := range b {
		if c == 0 {
			end = i
			break
		}
	}
	s := string(b[:end])
	if !isASCII(s) {
		return "", false
	}
	return s, true
}

// encodePaddedASCII writes s null-padded into b.
func encodePaddedASCII(b []byte, s string, errKind error) error {
	if !isASCII(s) || len(s) > len(b) {
		return errors.Wrapf(errKind, "string %q", s)
	}
	copy(b, s)
	for i := len(s); i < len(b); i++ {
		b[i] = 0
	}
	return nil
}
