package mips

import "fmt"

// Lui loads a 16-bit immediate into the high halfword of Dst.
type Lui struct {
	Dst   Register
	Value uint16
}

func decodeLui(word uint32) Inst {
	if rsOf(word) != 0 {
		return nil
	}
	return &Lui{
		Dst:   Register(rtOf(word)),
		Value: uint16(imm16Of(word)),
	}
}

func (i *Lui) Encode() uint32 {
	return packOpcode(0x0F) | packRt(i.Dst) | packImm16(uint32(i.Value))
}

func (i *Lui) String() string {
	return fmt.Sprintf("lui %s, %#x", i.Dst, i.Value)
}

func (i *Lui) sealedInst() {}
