package cdrom

import "encoding/binary"

// EDCPoly is the CRC-32 polynomial used by the sector EDC field.
const EDCPoly uint32 = 0xD8018001

// edcTable is the 256-entry lookup table for EDCPoly.
var edcTable = makeEDCTable()

func makeEDCTable() [256]uint32 {
	var table [256]uint32
	for n := range table {
		value := uint32(n)
		for i := 0; i < 8; i++ {
			if value&1 != 0 {
				value = EDCPoly ^ (value >> 1)
			} else {
				value >>= 1
			}
		}
		table[n] = value
	}
	return table
}

// EDC is the error-detection checksum of a sector. Sectors carry it as an
// opaque field; this type exists so a future revision can validate it.
type EDC struct {
	CRC uint32
}

// DecodeEDC reads an EDC from its 4 little-endian bytes.
func DecodeEDC(b [4]byte) EDC {
	return EDC{CRC: binary.LittleEndian.Uint32(b[:])}
}

// Bytes returns the 4-byte little-endian representation.
func (e EDC) Bytes() [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], e.CRC)
	return b
}

// Valid reports whether the checksum matches b, returning the calculated
// value alongside.
func (e EDC) Valid(b []byte) (bool, uint32) {
	crc := ComputeEDC(b)
	return crc == e.CRC, crc
}

// ComputeEDC calculates the EDC checksum of b.
func ComputeEDC(b []byte) uint32 {
	var crc uint32
	for _, c := range b {
		crc = (crc >> 8) ^ edcTable[(crc^uint32(c))&0xFF]
	}
	return crc
}
