package cdrom

import (
	"fmt"

	"github.com/pkg/errors"
)

// CD timing: 75 blocks per second, 60 seconds per minute. A standard disc
// runs out at minute 100, so sector positions from 75*60*100 = 450000
// upwards have no address.
const (
	blocksPerSecond  = 75
	secondsPerMinute = 60
	maxSectorPos     = blocksPerSecond * secondsPerMinute * 100
)

// ErrAddressOutOfRange reports a sector position past the end of a disc.
var ErrAddressOutOfRange = errors.New("sector position out of address range")

// Address is the minute/second/block position of a sector. The bytes are
// stored raw; no BCD validation is performed.
type Address struct {
	Min   uint8
	Sec   uint8
	Block uint8
}

// AddressOfSector converts a linear sector index into an address.
func AddressOfSector(sectorPos uint32) (Address, error) {
	if sectorPos >= maxSectorPos {
		return Address{}, errors.Wrapf(ErrAddressOutOfRange, "sector %d", sectorPos)
	}

	return Address{
		Min:   uint8(sectorPos / (blocksPerSecond * secondsPerMinute)),
		Sec:   uint8(sectorPos / blocksPerSecond % secondsPerMinute),
		Block: uint8(sectorPos % blocksPerSecond),
	}, nil
}

func (a Address) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", a.Min, a.Sec, a.Block)
}
