package mips

import "fmt"

// ShiftKind selects a shift operation.
type ShiftKind uint8

// Shift kinds.
const (
	ShiftLeftLogical ShiftKind = iota
	ShiftRightLogical
	ShiftRightArithmetic
)

var shiftImmOps = [...]struct {
	funct    uint32
	mnemonic string
}{
	ShiftLeftLogical:     {0x00, "sll"},
	ShiftRightLogical:    {0x02, "srl"},
	ShiftRightArithmetic: {0x03, "sra"},
}

var shiftRegOps = [...]struct {
	funct    uint32
	mnemonic string
}{
	ShiftLeftLogical:     {0x04, "sllv"},
	ShiftRightLogical:    {0x06, "srlv"},
	ShiftRightArithmetic: {0x07, "srav"},
}

// ShiftImm shifts by a 5-bit constant amount.
type ShiftImm struct {
	Kind   ShiftKind
	Dst    Register
	Src    Register
	Amount uint8
}

func decodeShiftImm(word uint32) Inst {
	if rsOf(word) != 0 {
		return nil
	}

	var kind ShiftKind
	switch functOf(word) {
	case 0x00:
		kind = ShiftLeftLogical
	case 0x02:
		kind = ShiftRightLogical
	case 0x03:
		kind = ShiftRightArithmetic
	default:
		return nil
	}

	return &ShiftImm{
		Kind:   kind,
		Dst:    Register(rdOf(word)),
		Src:    Register(rtOf(word)),
		Amount: uint8(shamtOf(word)),
	}
}

func (i *ShiftImm) Encode() uint32 {
	return packRt(i.Src) | packRd(i.Dst) | packShamt(i.Amount) | shiftImmOps[i.Kind].funct
}

func (i *ShiftImm) String() string {
	return fmt.Sprintf("%s %s, %s, %#x", shiftImmOps[i.Kind].mnemonic, i.Dst, i.Src, i.Amount)
}

func (i *ShiftImm) sealedInst() {}

// ShiftReg shifts by the amount held in a register.
type ShiftReg struct {
	Kind ShiftKind
	Dst  Register
	Lhs  Register
	Rhs  Register
}

func decodeShiftReg(word uint32) Inst {
	if shamtOf(word) != 0 {
		return nil
	}

	var kind ShiftKind
	switch functOf(word) {
	case 0x04:
		kind = ShiftLeftLogical
	case 0x06:
		kind = ShiftRightLogical
	case 0x07:
		kind = ShiftRightArithmetic
	default:
		return nil
	}

	return &ShiftReg{
		Kind: kind,
		Dst:  Register(rdOf(word)),
		Lhs:  Register(rtOf(word)),
		Rhs:  Register(rsOf(word)),
	}
}

func (i *ShiftReg) Encode() uint32 {
	return packRs(i.Rhs) | packRt(i.Lhs) | packRd(i.Dst) | shiftRegOps[i.Kind].funct
}

func (i *ShiftReg) String() string {
	return fmt.Sprintf("%s %s, %s, %s", shiftRegOps[i.Kind].mnemonic, i.Dst, i.Lhs, i.Rhs)
}

func (i *ShiftReg) sealedInst() {}
