package drv

import (
	"io"
	"math"
	"time"

	"github.com/pkg/errors"
)

// Writer errors.
var (
	ErrWriterNotAtSectorStart = errors.New("writer is not at the start of a sector")
	ErrWriterSectorPastMax    = errors.New("writer sector position past maximum")
)

// EntrySource lists the entries to be written into one directory. The
// writer visits the entries in order; the total count must be known up
// front so the directory's sectors can be reserved before any payload is
// written.
//
// Listing directories before files keeps the written image readable with a
// monotonically forward seek pattern, but is not required.
type EntrySource interface {
	// Len returns the number of entries this source will yield.
	Len() int

	// Next returns the next entry, or (nil, nil) when exhausted.
	Next() (*WriteEntry, error)
}

// WriteEntry is one entry to be written: either a file or a nested
// directory.
type WriteEntry struct {
	Name string
	Date time.Time

	// File payload; nil for directories.
	File *FileSource

	// Nested directory lister; nil for files.
	Dir EntrySource
}

// FileSource supplies a file's extension and payload bytes.
type FileSource struct {
	Ext    string
	Size   uint32
	Reader io.Reader
}

// WriteTree writes a full directory tree starting at the writer's current
// position, which must be sector-aligned. Directory headers are reserved
// first, payloads are written sector-aligned in lister order, and the
// 32-byte entries are backpatched into the reserved header range.
//
// The writer is left positioned just past the last payload byte.
func WriteTree(ws io.WriteSeeker, src EntrySource) error {
	_, err := writeDir(ws, src)
	return err
}

// writeDir writes one directory and its children, returning the directory
// pointer it was laid out at.
func writeDir(ws io.WriteSeeker, src EntrySource) (DirPtr, error) {
	cur, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return DirPtr{}, errors.Wrap(err, "unable to get current sector")
	}
	if cur%SectorSize != 0 {
		return DirPtr{}, errors.Wrapf(ErrWriterNotAtSectorStart, "byte offset %#x", cur)
	}

	sectorPos := cur / SectorSize
	if sectorPos > math.MaxUint32 {
		return DirPtr{}, errors.Wrapf(ErrWriterSectorPastMax, "sector %d", sectorPos)
	}
	dir := DirPtr{SectorPos: uint32(sectorPos)}

	// Reserve the directory's own sectors.
	numEntries := src.Len()
	reservedSectors := int64(ceilDiv(numEntries*EntrySize, SectorSize))
	if reservedSectors == 0 {
		reservedSectors = 1
	}
	payloadStart := cur + reservedSectors*SectorSize
	if err := padTo(ws, cur, payloadStart); err != nil {
		return DirPtr{}, err
	}

	// Write every payload, remembering each entry for the backpatch.
	entries := make([]DirEntry, 0, numEntries)
	pos := payloadStart
	for {
		writeEntry, err := src.Next()
		if err != nil {
			return DirPtr{}, errors.Wrap(err, "unable to get entry")
		}
		if writeEntry == nil {
			break
		}

		// Round up to the next sector boundary.
		aligned := int64(ceilDiv64(pos, SectorSize)) * SectorSize
		if err := padTo(ws, pos, aligned); err != nil {
			return DirPtr{}, err
		}
		entrySector := aligned / SectorSize
		if entrySector > math.MaxUint32 {
			return DirPtr{}, errors.Wrapf(ErrWriterSectorPastMax, "sector %d", entrySector)
		}

		entry := DirEntry{
			Name: writeEntry.Name,
			Date: writeEntry.Date,
		}
		switch {
		case writeEntry.File != nil:
			entry.Kind = KindFile
			entry.Ext = writeEntry.File.Ext
			entry.File = FilePtr{SectorPos: uint32(entrySector), Size: writeEntry.File.Size}

			n, err := io.CopyN(ws, writeEntry.File.Reader, int64(writeEntry.File.Size))
			if err != nil {
				return DirPtr{}, errors.Wrapf(err, "unable to write file %q", writeEntry.Name)
			}
			pos = aligned + n

		case writeEntry.Dir != nil:
			childPtr, err := writeDir(ws, writeEntry.Dir)
			if err != nil {
				return DirPtr{}, errors.Wrapf(err, "unable to write directory %q", writeEntry.Name)
			}
			entry.Kind = KindDir
			entry.Dir = childPtr

			end, err := ws.Seek(0, io.SeekCurrent)
			if err != nil {
				return DirPtr{}, errors.Wrap(err, "unable to get current sector")
			}
			pos = end

		default:
			return DirPtr{}, errors.Errorf("entry %q is neither file nor directory", writeEntry.Name)
		}

		entries = append(entries, entry)
	}

	// Backpatch the entry records into the reserved header range.
	if _, err := ws.Seek(dir.Offset(), io.SeekStart); err != nil {
		return DirPtr{}, errors.Wrap(err, "unable to seek to directory entries")
	}
	var record [EntrySize]byte
	for i := range entries {
		if err := encodeDirEntry(record[:], &entries[i]); err != nil {
			return DirPtr{}, err
		}
		if _, err := ws.Write(record[:]); err != nil {
			return DirPtr{}, errors.Wrap(err, "unable to write directory entries")
		}
	}

	// Terminate if the reserved range has room.
	if int64(len(entries)*EntrySize) < reservedSectors*SectorSize {
		record = [EntrySize]byte{}
		if _, err := ws.Write(record[:]); err != nil {
			return DirPtr{}, errors.Wrap(err, "unable to write directory entries")
		}
	}

	// Leave the cursor just past the payload area for the caller.
	if _, err := ws.Seek(pos, io.SeekStart); err != nil {
		return DirPtr{}, errors.Wrap(err, "unable to seek past directory")
	}

	return dir, nil
}

// padTo writes zeros from cur up to target.
func padTo(ws io.Writer, cur, target int64) error {
	if cur >= target {
		return nil
	}
	zeros := make([]byte, target-cur)
	_, err := ws.Write(zeros)
	return errors.Wrap(err, "unable to pad to sector boundary")
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func ceilDiv64(a, b int64) int64 {
	return (a + b - 1) / b
}
