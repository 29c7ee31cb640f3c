package mips

import "fmt"

// LoadKind selects a load operation.
type LoadKind uint8

// Load kinds.
const (
	LoadByte LoadKind = iota
	LoadHalf
	LoadWordLeft
	LoadWord
	LoadByteUnsigned
	LoadHalfUnsigned
	LoadWordRight
)

var loadOps = [...]struct {
	opcode   uint32
	mnemonic string
}{
	LoadByte:         {0x20, "lb"},
	LoadHalf:         {0x21, "lh"},
	LoadWordLeft:     {0x22, "lwl"},
	LoadWord:         {0x23, "lw"},
	LoadByteUnsigned: {0x24, "lbu"},
	LoadHalfUnsigned: {0x25, "lhu"},
	LoadWordRight:    {0x26, "lwr"},
}

// Load reads memory at Src+Offset into Dst.
type Load struct {
	Kind   LoadKind
	Dst    Register
	Src    Register // base address register
	Offset int16
}

func decodeLoad(word uint32) Inst {
	var kind LoadKind
	switch opcodeOf(word) {
	case 0x20:
		kind = LoadByte
	case 0x21:
		kind = LoadHalf
	case 0x22:
		kind = LoadWordLeft
	case 0x23:
		kind = LoadWord
	case 0x24:
		kind = LoadByteUnsigned
	case 0x25:
		kind = LoadHalfUnsigned
	case 0x26:
		kind = LoadWordRight
	default:
		return nil
	}

	return &Load{
		Kind:   kind,
		Dst:    Register(rtOf(word)),
		Src:    Register(rsOf(word)),
		Offset: int16(imm16Of(word)),
	}
}

func (i *Load) Encode() uint32 {
	return packOpcode(loadOps[i.Kind].opcode) |
		packRs(i.Src) | packRt(i.Dst) | packImm16(uint32(uint16(i.Offset)))
}

func (i *Load) String() string {
	return fmt.Sprintf("%s %s, %s(%s)", loadOps[i.Kind].mnemonic, i.Dst, signedHex(int32(i.Offset)), i.Src)
}

func (i *Load) sealedInst() {}

// StoreKind selects a store operation.
type StoreKind uint8

// Store kinds.
const (
	StoreByte StoreKind = iota
	StoreHalf
	StoreWordLeft
	StoreWord
	StoreWordRight
)

var storeOps = [...]struct {
	opcode   uint32
	mnemonic string
}{
	StoreByte:      {0x28, "sb"},
	StoreHalf:      {0x29, "sh"},
	StoreWordLeft:  {0x2A, "swl"},
	StoreWord:      {0x2B, "sw"},
	StoreWordRight: {0x2E, "swr"},
}

// Store writes Dst's value to memory at Src+Offset.
type Store struct {
	Kind   StoreKind
	Dst    Register // value register
	Src    Register // base address register
	Offset int16
}

func decodeStore(word uint32) Inst {
	var kind StoreKind
	switch opcodeOf(word) {
	case 0x28:
		kind = StoreByte
	case 0x29:
		kind = StoreHalf
	case 0x2A:
		kind = StoreWordLeft
	case 0x2B:
		kind = StoreWord
	case 0x2E:
		kind = StoreWordRight
	default:
		return nil
	}

	return &Store{
		Kind:   kind,
		Dst:    Register(rtOf(word)),
		Src:    Register(rsOf(word)),
		Offset: int16(imm16Of(word)),
	}
}

func (i *Store) Encode() uint32 {
	return packOpcode(storeOps[i.Kind].opcode) |
		packRs(i.Src) | packRt(i.Dst) | packImm16(uint32(uint16(i.Offset)))
}

func (i *Store) String() string {
	return fmt.Sprintf("%s %s, %s(%s)", storeOps[i.Kind].mnemonic, i.Dst, signedHex(int32(i.Offset)), i.Src)
}

func (i *Store) sealedInst() {}
