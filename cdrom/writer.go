package cdrom

import (
	"io"

	"github.com/pkg/errors"
)

// Writer writes sectors sequentially to a disc image. Writes are strictly
// positional; nothing is buffered or reordered.
type Writer struct {
	w io.Writer
}

// NewWriter creates a sector writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSector serializes and writes one sector.
func (w *Writer) WriteSector(s *Sector) error {
	var buf [SectorSize]byte
	if err := s.MarshalBinary(buf[:]); err != nil {
		return err
	}
	_, err := w.w.Write(buf[:])
	return errors.Wrap(err, "unable to write sector bytes")
}
