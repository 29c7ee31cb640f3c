package drv

import (
	"io"

	"github.com/pkg/errors"
)

// SectorSize is the user-data sector size the filesystem is aligned to.
const SectorSize = 0x800

// Path resolution errors.
var (
	ErrFindFile       = errors.New("unable to find entry")
	ErrOpenDir        = errors.New("cannot open a directory as a file")
	ErrFileDirEntries = errors.New("cannot list directory entries of a file")
)

// FilePtr points at a file's contiguous byte range,
// [SectorPos*0x800, SectorPos*0x800+Size).
type FilePtr struct {
	SectorPos uint32
	Size      uint32
}

// Offset returns the file's absolute byte offset.
func (p FilePtr) Offset() int64 {
	return int64(p.SectorPos) * SectorSize
}

// Less orders file pointers by sector position only.
func (p FilePtr) Less(other FilePtr) bool {
	return p.SectorPos < other.SectorPos
}

// SeekTo positions s at the start of the file.
func (p FilePtr) SeekTo(s io.Seeker) error {
	_, err := s.Seek(p.Offset(), io.SeekStart)
	return errors.Wrapf(err, "unable to seek to file at sector %d", p.SectorPos)
}

// Open seeks to the file and returns a reader bounded to its size.
func (p FilePtr) Open(rs io.ReadSeeker) (io.Reader, error) {
	if err := p.SeekTo(rs); err != nil {
		return nil, err
	}
	return io.LimitReader(rs, int64(p.Size)), nil
}

// DirPtr points at a directory's sector.
type DirPtr struct {
	SectorPos uint32
}

// RootDir returns the root directory pointer, sector 0.
func RootDir() DirPtr {
	return DirPtr{SectorPos: 0}
}

// Offset returns the directory's absolute byte offset.
func (p DirPtr) Offset() int64 {
	return int64(p.SectorPos) * SectorSize
}

// SeekTo positions s at the start of the directory.
func (p DirPtr) SeekTo(s io.Seeker) error {
	_, err := s.Seek(p.Offset(), io.SeekStart)
	return errors.Wrapf(err, "unable to seek to directory at sector %d", p.SectorPos)
}

// Entries seeks to the directory and returns an iterator over its entries.
// The iterator stops at the terminator entry without yielding it.
func (p DirPtr) Entries(rs io.ReadSeeker) (*EntryIter, error) {
	if err := p.SeekTo(rs); err != nil {
		return nil, err
	}
	return &EntryIter{dir: p, rs: rs, index: -1}, nil
}

// Find resolves path starting at this directory, returning the matching
// entry and its on-disc pointer.
//
// Normal components are matched by exact name (NAME.EXT for files); a file
// must be the final component.
func (p DirPtr) Find(rs io.ReadSeeker, path Path) (DirEntryPtr, *DirEntry, error) {
	components, err := path.Components()
	if err != nil {
		return DirEntryPtr{}, nil, err
	}

	var (
		cur      = p
		parents  []DirPtr
		entryPtr DirEntryPtr
		entry    *DirEntry
	)

	for i, component := range components {
		switch component.Kind {
		case Root:
			cur = RootDir()
			parents = parents[:0]
			entry = nil
		case CurDir:
			// Stay put.
		case ParentDir:
			if len(parents) > 0 {
				cur = parents[len(parents)-1]
				parents = parents[:len(parents)-1]
			}
			entry = nil
		case Normal:
			if entry != nil && entry.Kind == KindFile {
				return DirEntryPtr{}, nil, errors.Wrapf(ErrFileDirEntries, "component %q", component.Name)
			}

			found, foundPtr, err := findInDir(rs, cur, component.Name)
			if err != nil {
				return DirEntryPtr{}, nil, err
			}

			entry, entryPtr = found, foundPtr
			if entry.Kind == KindDir {
				parents = append(parents, cur)
				cur = entry.Dir
			} else if i != len(components)-1 {
				return DirEntryPtr{}, nil, errors.Wrapf(ErrFileDirEntries, "component %q", component.Name)
			}
		}
	}

	if entry == nil {
		return DirEntryPtr{}, nil, errors.Wrapf(ErrFindFile, "path %q", string(path))
	}
	return entryPtr, entry, nil
}

// OpenFile resolves path to a file entry and opens it as a bounded
// reader. Resolving to a directory fails with ErrOpenDir.
func OpenFile(rs io.ReadSeeker, path Path) (io.Reader, *DirEntry, error) {
	_, entry, err := RootDir().Find(rs, path)
	if err != nil {
		return nil, nil, err
	}
	if entry.Kind != KindFile {
		return nil, nil, errors.Wrapf(ErrOpenDir, "path %q", string(path))
	}

	r, err := entry.File.Open(rs)
	if err != nil {
		return nil, nil, err
	}
	return r, entry, nil
}

// findInDir scans a single directory for an entry by full name.
func findInDir(rs io.ReadSeeker, dir DirPtr, name string) (*DirEntry, DirEntryPtr, error) {
	iter, err := dir.Entries(rs)
	if err != nil {
		return nil, DirEntryPtr{}, err
	}

	for iter.Next() {
		if iter.Entry().FullName() == name {
			return iter.Entry(), iter.Ptr(), nil
		}
	}
	if err := iter.Err(); err != nil {
		return nil, DirEntryPtr{}, err
	}

	return nil, DirEntryPtr{}, errors.Wrapf(ErrFindFile, "entry %q in directory at sector %d", name, dir.SectorPos)
}

// DirEntryPtr points at one 32-byte entry record within a directory.
type DirEntryPtr struct {
	Dir   DirPtr
	Entry uint32
}

// Offset returns the entry record's absolute byte offset.
func (p DirEntryPtr) Offset() int64 {
	return p.Dir.Offset() + int64(p.Entry)*EntrySize
}

// Write seeks to the entry record and rewrites it in place.
func (p DirEntryPtr) Write(ws io.WriteSeeker, entry *DirEntry) error {
	if _, err := ws.Seek(p.Offset(), io.SeekStart); err != nil {
		return errors.Wrap(err, "unable to seek to entry")
	}

	var b [EntrySize]byte
	if err := encodeDirEntry(b[:], entry); err != nil {
		return err
	}
	_, err := ws.Write(b[:])
	return errors.Wrap(err, "unable to write entry")
}

// EntryIter iterates over a directory's entries.
type EntryIter struct {
	dir   DirPtr
	rs    io.Reader
	index int32
	entry *DirEntry
	err   error
	done  bool
}

// Next advances to the next entry, reporting whether one was read.
// Iteration ends at the terminator entry or on error.
func (it *EntryIter) Next() bool {
	if it.done {
		return false
	}

	var b [EntrySize]byte
	if _, err := io.ReadFull(it.rs, b[:]); err != nil {
		it.done = true
		record := it.index + 1
		if err == io.EOF && record > 0 && record%(SectorSize/EntrySize) == 0 {
			// Exactly-full directory at the end of the image.
			return false
		}
		it.err = errors.Wrap(err, "unable to read entry bytes")
		return false
	}

	entry, err := decodeDirEntry(b[:])
	if err != nil {
		it.done = true
		// A directory that exactly fills its sectors has no terminator;
		// the record past the boundary belongs to the payload area.
		var kindErr *InvalidEntryKindError
		record := it.index + 1
		if errors.As(err, &kindErr) && record > 0 && record%(SectorSize/EntrySize) == 0 {
			return false
		}
		it.err = err
		return false
	}
	if entry == nil {
		// Terminator.
		it.done = true
		return false
	}

	it.entry = entry
	it.index++
	return true
}

// Entry returns the entry read by the last successful Next.
func (it *EntryIter) Entry() *DirEntry {
	return it.entry
}

// Ptr returns the on-disc pointer of the current entry.
func (it *EntryIter) Ptr() DirEntryPtr {
	return DirEntryPtr{Dir: it.dir, Entry: uint32(it.index)}
}

// Err returns the first error encountered, if any.
func (it *EntryIter) Err() error {
	return it.err
}
