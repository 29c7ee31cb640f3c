package mips

import "fmt"

// CoRegKind selects a co-processor register move.
type CoRegKind uint8

// Co-processor move kinds, encoded in bits [24:21].
const (
	CoMoveFrom CoRegKind = iota // mfc
	CoCtrlFrom                  // cfc
	CoMoveTo                    // mtc
	CoCtrlTo                    // ctc
)

var coRegOps = [...]struct {
	rs       uint32
	mnemonic string
}{
	CoMoveFrom: {0x00, "mfc"},
	CoCtrlFrom: {0x02, "cfc"},
	CoMoveTo:   {0x04, "mtc"},
	CoCtrlTo:   {0x06, "ctc"},
}

// CoReg moves between a general-purpose register and a co-processor
// register. Co is the co-processor number, 0..3.
type CoReg struct {
	Co    uint8
	Kind  CoRegKind
	Reg   Register // general-purpose register, rt
	CoDst uint8    // co-processor register, rd
}

// decodeCo handles the co-processor opcodes 0x10..0x13.
func decodeCo(word uint32) Inst {
	co := uint8(coNOf(word))

	// Bit 25 set selects a co-processor exec with a 25-bit immediate.
	if coRs0Of(word) == 1 {
		return &CoExec{Co: co, Imm: word & 0x1FFFFFF}
	}

	if word&0x7FF != 0 {
		return nil
	}

	var kind CoRegKind
	switch rsOf(word) {
	case 0x00:
		kind = CoMoveFrom
	case 0x02:
		kind = CoCtrlFrom
	case 0x04:
		kind = CoMoveTo
	case 0x06:
		kind = CoCtrlTo
	default:
		return nil
	}

	return &CoReg{
		Co:    co,
		Kind:  kind,
		Reg:   Register(rtOf(word)),
		CoDst: uint8(rdOf(word)),
	}
}

func (i *CoReg) Encode() uint32 {
	return packOpcode(0x10|uint32(i.Co&0x3)) |
		coRegOps[i.Kind].rs<<21 | packRt(i.Reg) | uint32(i.CoDst&0x1F)<<11
}

func (i *CoReg) String() string {
	return fmt.Sprintf("%s%d %s, $%d", coRegOps[i.Kind].mnemonic, i.Co, i.Reg, i.CoDst)
}

func (i *CoReg) sealedInst() {}

// CoExec executes a co-processor command with a 25-bit immediate.
type CoExec struct {
	Co  uint8
	Imm uint32
}

func (i *CoExec) Encode() uint32 {
	return packOpcode(0x10|uint32(i.Co&0x3)) | 1<<25 | i.Imm&0x1FFFFFF
}

func (i *CoExec) String() string {
	return fmt.Sprintf("cop%d %#x", i.Co, i.Imm)
}

func (i *CoExec) sealedInst() {}
