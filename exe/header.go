package exe

import (
	"encoding/binary"
	"io"

	"github.com/go-restruct/restruct"
	"github.com/pkg/errors"
)

// HeaderSize is the on-disc size of the PS-X EXE header; the program
// bytes follow immediately.
const HeaderSize = 0x800

// headerMagic identifies a PlayStation executable.
var headerMagic = [8]byte{'P', 'S', '-', 'X', ' ', 'E', 'X', 'E'}

// Header errors.
var (
	ErrWrongMagic      = errors.New("wrong executable magic")
	ErrNonASCIIMarker  = errors.New("header marker is not ascii")
	ErrWrongHeaderSize = errors.New("executable size is not a multiple of 0x800")
)

// rawHeader is the fixed-field prefix of the PS-X EXE header.
type rawHeader struct {
	Magic     [8]byte `struct:"[8]byte"`
	Zero      [8]byte `struct:"[8]byte"`
	PC0       uint32  `struct:"uint32"`
	GP0       uint32  `struct:"uint32"`
	DestPos   uint32  `struct:"uint32"`
	Size      uint32  `struct:"uint32"`
	DataPos   uint32  `struct:"uint32"`
	DataSize  uint32  `struct:"uint32"`
	BSSPos    uint32  `struct:"uint32"`
	BSSSize   uint32  `struct:"uint32"`
	StackPos  uint32  `struct:"uint32"`
	StackSize uint32  `struct:"uint32"`
}

const rawHeaderSize = 0x38

// Header is the 0x800-byte PS-X EXE header.
type Header struct {
	// PC0 is the initial program counter.
	PC0 uint32

	// GP0 is the initial global pointer.
	GP0 uint32

	// DestPos is the memory position the program bytes load at.
	DestPos uint32

	// Size is the program byte size, a multiple of 0x800.
	Size uint32

	DataPos  uint32
	DataSize uint32
	BSSPos   uint32
	BSSSize  uint32

	// StackPos and StackSize describe the initial stack.
	StackPos  uint32
	StackSize uint32

	// Marker is the ASCII region marker at 0x4C.
	Marker string
}

// UnmarshalBinary decodes the header from its 0x800-byte representation.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) != HeaderSize {
		return errors.Errorf("expected %d header bytes, got %d", HeaderSize, len(b))
	}

	var raw rawHeader
	if err := restruct.Unpack(b[:rawHeaderSize], binary.LittleEndian, &raw); err != nil {
		return errors.Wrap(err, "unable to unpack header fields")
	}
	if raw.Magic != headerMagic {
		return errors.Wrapf(ErrWrongMagic, "found %q", raw.Magic[:])
	}

	marker := b[0x4C:]
	end := len(marker)
	for i, c := range marker {
		if c == 0 {
			end = i
			break
		}
		if c >= 0x80 {
			return ErrNonASCIIMarker
		}
	}

	h.PC0 = raw.PC0
	h.GP0 = raw.GP0
	h.DestPos = raw.DestPos
	h.Size = raw.Size
	h.DataPos = raw.DataPos
	h.DataSize = raw.DataSize
	h.BSSPos = raw.BSSPos
	h.BSSSize = raw.BSSSize
	h.StackPos = raw.StackPos
	h.StackSize = raw.StackSize
	h.Marker = string(marker[:end])
	return nil
}

// MarshalBinary encodes the header into b, which must be 0x800 bytes.
func (h *Header) MarshalBinary(b []byte) error {
	if len(b) != HeaderSize {
		return errors.Errorf("expected %d header bytes, got %d", HeaderSize, len(b))
	}
	for i := range b {
		b[i] = 0
	}

	raw := rawHeader{
		Magic:     headerMagic,
		PC0:       h.PC0,
		GP0:       h.GP0,
		DestPos:   h.DestPos,
		Size:      h.Size,
		DataPos:   h.DataPos,
		DataSize:  h.DataSize,
		BSSPos:    h.BSSPos,
		BSSSize:   h.BSSSize,
		StackPos:  h.StackPos,
		StackSize: h.StackSize,
	}
	packed, err := restruct.Pack(binary.LittleEndian, &raw)
	if err != nil {
		return errors.Wrap(err, "unable to pack header fields")
	}
	copy(b, packed)

	marker := []byte(h.Marker)
	if len(marker) > HeaderSize-0x4C {
		return errors.Errorf("marker too long: %d bytes", len(marker))
	}
	for _, c := range marker {
		if c >= 0x80 {
			return ErrNonASCIIMarker
		}
	}
	copy(b[0x4C:], marker)
	return nil
}

// Exe couples a PS-X EXE header with its program bytes.
type Exe struct {
	Header Header
	Bytes  []byte
}

// ReadExe reads and decodes a full executable.
func ReadExe(r io.Reader) (*Exe, error) {
	var headerBytes [HeaderSize]byte
	if _, err := io.ReadFull(r, headerBytes[:]); err != nil {
		return nil, errors.Wrap(err, "unable to read header")
	}

	var exe Exe
	if err := exe.Header.UnmarshalBinary(headerBytes[:]); err != nil {
		return nil, err
	}

	if exe.Header.Size%0x800 != 0 {
		return nil, errors.Wrapf(ErrWrongHeaderSize, "size %#x", exe.Header.Size)
	}

	exe.Bytes = make([]byte, exe.Header.Size)
	if _, err := io.ReadFull(r, exe.Bytes); err != nil {
		return nil, errors.Wrap(err, "unable to read program bytes")
	}
	return &exe, nil
}

// StartPos returns the memory position of the first program byte.
func (e *Exe) StartPos() Pos {
	return Pos(e.Header.DestPos)
}

// Decode returns a decode iterator over the program bytes.
func (e *Exe) Decode(dataTable *DataTable, funcTable *FuncTable) *DecodeIter {
	return NewDecodeIter(e.Bytes, e.StartPos(), dataTable, funcTable, nil)
}
