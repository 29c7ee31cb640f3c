// Package cdrom implements reading and writing of CD-ROM/XA Mode 2 Form 1
// sectors, the 2352-byte sector format used by PlayStation game discs.
//
// Each sector carries 2048 bytes of user data wrapped in a 24-byte header
// and 280 bytes of error detection/correction fields:
//
//	offset  size  field
//	0x000   12    sync pattern (00 FF FF FF FF FF FF FF FF FF FF 00)
//	0x00C    3    address (minute, second, block)
//	0x00F    1    mode (always 2)
//	0x010    4    subheader
//	0x014    4    subheader (repeated, must match)
//	0x018 2048    data
//	0x818    4    EDC
//	0x81C  276    ECC
//
// The EDC and ECC fields are carried through verbatim; they are not
// validated nor recomputed on write. See the EDC type for the checksum
// algorithm a future validation pass would use.
package cdrom

import (
	"github.com/pkg/errors"
)

// Sector and field sizes, in bytes.
const (
	SectorSize = 2352
	DataSize   = 2048

	syncSize      = 12
	headerSize    = 24
	edcSize       = 4
	eccSize       = 276
	dataOffset    = headerSize
	edcOffset     = dataOffset + DataSize
	eccOffset     = edcOffset + edcSize
	subHeaderSize = 4
)

// Sector parse and serialize errors.
var (
	ErrWrongSync           = errors.New("wrong sync pattern")
	ErrInvalidMode         = errors.New("invalid sector mode")
	ErrDifferentSubHeaders = errors.New("the two subheader copies differ")
	ErrSubModeAmbiguous    = errors.New("submode has more than one of video/audio/data set")
)

// syncPattern is the 12-byte preamble identifying the start of a sector.
var syncPattern = [syncSize]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

// A Sector is a single CD-ROM/XA Mode 2 Form 1 sector.
//
// EDC and ECC are kept as read so that re-encoding a decoded sector
// reproduces the input bytes exactly.
type Sector struct {
	Header Header
	Data   [DataSize]byte
	EDC    [edcSize]byte
	ECC    [eccSize]byte
}

// Header is the 24-byte sector header: sync, address, mode and the
// duplicated subheader.
type Header struct {
	Address   Address
	SubHeader SubHeader
}

// SubHeader is the 4-byte XA subheader record, stored twice per sector.
type SubHeader struct {
	File       uint8
	SubMode    SubMode
	Channel    uint8
	CodingInfo uint8
}

// NewSector builds a Form 1 data sector for the given sector position.
func NewSector(data [DataSize]byte, sectorPos uint32) (*Sector, error) {
	addr, err := AddressOfSector(sectorPos)
	if err != nil {
		return nil, err
	}

	return &Sector{
		Header: Header{
			Address: addr,
			SubHeader: SubHeader{
				SubMode: SubModeData,
			},
		},
		Data: data,
	}, nil
}

// UnmarshalBinary decodes a sector from its 2352-byte representation.
func (s *Sector) UnmarshalBinary(b []byte) error {
	if len(b) != SectorSize {
		return errors.Errorf("expected %d sector bytes, got %d", SectorSize, len(b))
	}

	if err := s.Header.UnmarshalBinary(b[:headerSize]); err != nil {
		return err
	}

	copy(s.Data[:], b[dataOffset:edcOffset])
	copy(s.EDC[:], b[edcOffset:eccOffset])
	copy(s.ECC[:], b[eccOffset:])
	return nil
}

// MarshalBinary encodes the sector into b, which must be 2352 bytes.
func (s *Sector) MarshalBinary(b []byte) error {
	if len(b) != SectorSize {
		return errors.Errorf("expected %d sector bytes, got %d", SectorSize, len(b))
	}

	if err := s.Header.MarshalBinary(b[:headerSize]); err != nil {
		return err
	}

	copy(b[dataOffset:edcOffset], s.Data[:])
	copy(b[edcOffset:eccOffset], s.EDC[:])
	copy(b[eccOffset:], s.ECC[:])
	return nil
}

// UnmarshalBinary decodes the 24-byte sector header.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) != headerSize {
		return errors.Errorf("expected %d header bytes, got %d", headerSize, len(b))
	}

	var sync [syncSize]byte
	copy(sync[:], b[:syncSize])
	if sync != syncPattern {
		return errors.Wrapf(ErrWrongSync, "found % x", sync)
	}

	h.Address = Address{Min: b[12], Sec: b[13], Block: b[14]}

	if mode := b[15]; mode != 2 {
		return errors.Wrapf(ErrInvalidMode, "found mode %d", mode)
	}

	first, err := decodeSubHeader(b[16:20])
	if err != nil {
		return err
	}
	second, err := decodeSubHeader(b[20:24])
	if err != nil {
		return err
	}
	if first != second {
		return errors.Wrapf(ErrDifferentSubHeaders, "% x vs % x", b[16:20], b[20:24])
	}

	h.SubHeader = first
	return nil
}

// MarshalBinary encodes the 24-byte sector header, writing the subheader
// twice as the format requires.
func (h *Header) MarshalBinary(b []byte) error {
	if len(b) != headerSize {
		return errors.Errorf("expected %d header bytes, got %d", headerSize, len(b))
	}

	copy(b[:syncSize], syncPattern[:])
	b[12] = h.Address.Min
	b[13] = h.Address.Sec
	b[14] = h.Address.Block
	b[15] = 2

	if err := h.SubHeader.SubMode.validate(); err != nil {
		return err
	}
	encodeSubHeader(b[16:20], h.SubHeader)
	encodeSubHeader(b[20:24], h.SubHeader)
	return nil
}

func decodeSubHeader(b []byte) (SubHeader, error) {
	sh := SubHeader{
		File:       b[0],
		SubMode:    SubMode(b[1]),
		Channel:    b[2],
		CodingInfo: b[3],
	}
	if err := sh.SubMode.validate(); err != nil {
		return SubHeader{}, err
	}
	return sh, nil
}

func encodeSubHeader(b []byte, sh SubHeader) {
	b[0] = sh.File
	b[1] = uint8(sh.SubMode)
	b[2] = sh.Channel
	b[3] = sh.CodingInfo
}
