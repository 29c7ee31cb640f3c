package cdrom

import (
	"io"

	"github.com/pkg/errors"
)

// Reader reads sectors sequentially from a disc image.
type Reader struct {
	rs io.ReadSeeker
}

// NewReader creates a sector reader over rs.
func NewReader(rs io.ReadSeeker) *Reader {
	return &Reader{rs: rs}
}

// ReadSector reads and decodes the next sector. It returns io.EOF once no
// full sector remains; a partial tail of fewer than 2352 bytes is treated
// as a clean end of the image.
func (r *Reader) ReadSector() (*Sector, error) {
	var buf [SectorSize]byte
	if _, err := io.ReadFull(r.rs, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "unable to read sector bytes")
	}

	var sector Sector
	if err := sector.UnmarshalBinary(buf[:]); err != nil {
		return nil, err
	}
	return &sector, nil
}

// SeekSector positions the reader at the start of the n-th sector.
func (r *Reader) SeekSector(n uint32) error {
	_, err := r.rs.Seek(int64(n)*SectorSize, io.SeekStart)
	return errors.Wrapf(err, "unable to seek to sector %d", n)
}

// Sectors returns an iterator over the remaining sectors. The iterator is
// single-consumer and does not restart; seek explicitly and create a new
// one to re-iterate.
func (r *Reader) Sectors() *SectorIter {
	return &SectorIter{r: r}
}

// SectorIter iterates over the sectors of a Reader.
type SectorIter struct {
	r      *Reader
	sector *Sector
	err    error
	done   bool
}

// Next advances to the next sector, reporting whether one was read.
func (it *SectorIter) Next() bool {
	if it.done {
		return false
	}

	sector, err := it.r.ReadSector()
	if err != nil {
		it.done = true
		if err != io.EOF {
			it.err = err
		}
		return false
	}

	it.sector = sector
	return true
}

// Sector returns the sector read by the last successful Next.
func (it *SectorIter) Sector() *Sector {
	return it.sector
}

// Err returns the first error encountered, if any. A clean end of image
// leaves it nil.
func (it *SectorIter) Err() error {
	return it.err
}
