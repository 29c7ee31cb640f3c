package mips

import "fmt"

// MultKind selects a multiply or divide operation. Results land in the
// hi/lo registers.
type MultKind uint8

// Multiply/divide kinds.
const (
	Mul MultKind = iota
	MulU
	Div
	DivU
)

var multOps = [...]struct {
	funct    uint32
	mnemonic string
}{
	Mul:  {0x18, "mult"},
	MulU: {0x19, "multu"},
	Div:  {0x1A, "div"},
	DivU: {0x1B, "divu"},
}

// Mult multiplies or divides Lhs by Rhs into hi/lo.
type Mult struct {
	Kind MultKind
	Lhs  Register
	Rhs  Register
}

func decodeMult(word uint32) Inst {
	if rdOf(word) != 0 || shamtOf(word) != 0 {
		return nil
	}

	var kind MultKind
	switch functOf(word) {
	case 0x18:
		kind = Mul
	case 0x19:
		kind = MulU
	case 0x1A:
		kind = Div
	case 0x1B:
		kind = DivU
	default:
		return nil
	}

	return &Mult{
		Kind: kind,
		Lhs:  Register(rsOf(word)),
		Rhs:  Register(rtOf(word)),
	}
}

func (i *Mult) Encode() uint32 {
	return packRs(i.Lhs) | packRt(i.Rhs) | multOps[i.Kind].funct
}

func (i *Mult) String() string {
	return fmt.Sprintf("%s %s, %s", multOps[i.Kind].mnemonic, i.Lhs, i.Rhs)
}

func (i *Mult) sealedInst() {}

// MultMoveKind selects a move between a general-purpose register and
// hi/lo.
type MultMoveKind uint8

// Hi/lo move kinds.
const (
	MoveFromHi MultMoveKind = iota
	MoveToHi
	MoveFromLo
	MoveToLo
)

var multMoveOps = [...]struct {
	funct    uint32
	mnemonic string
}{
	MoveFromHi: {0x10, "mfhi"},
	MoveToHi:   {0x11, "mthi"},
	MoveFromLo: {0x12, "mflo"},
	MoveToLo:   {0x13, "mtlo"},
}

// MultMove moves between Reg and one of the hi/lo registers.
type MultMove struct {
	Kind MultMoveKind
	Reg  Register
}

func decodeMultMove(word uint32) Inst {
	if shamtOf(word) != 0 {
		return nil
	}

	switch functOf(word) {
	case 0x10, 0x12:
		// mfhi/mflo write rd; rs and rt must be clear.
		if rsOf(word) != 0 || rtOf(word) != 0 {
			return nil
		}
		kind := MoveFromHi
		if functOf(word) == 0x12 {
			kind = MoveFromLo
		}
		return &MultMove{Kind: kind, Reg: Register(rdOf(word))}
	case 0x11, 0x13:
		// mthi/mtlo read rs; rt and rd must be clear.
		if rtOf(word) != 0 || rdOf(word) != 0 {
			return nil
		}
		kind := MoveToHi
		if functOf(word) == 0x13 {
			kind = MoveToLo
		}
		return &MultMove{Kind: kind, Reg: Register(rsOf(word))}
	}
	return nil
}

func (i *MultMove) Encode() uint32 {
	switch i.Kind {
	case MoveFromHi, MoveFromLo:
		return packRd(i.Reg) | multMoveOps[i.Kind].funct
	default:
		return packRs(i.Reg) | multMoveOps[i.Kind].funct
	}
}

func (i *MultMove) String() string {
	return fmt.Sprintf("%s %s", multMoveOps[i.Kind].mnemonic, i.Reg)
}

func (i *MultMove) sealedInst() {}
