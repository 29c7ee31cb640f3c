package mips

// Inst is a single basic MIPS instruction. The set of implementations is
// closed; switches over it should enumerate every type.
type Inst interface {
	// Encode returns the instruction's 32-bit word. It is the exact
	// inverse of Decode.
	Encode() uint32

	// String renders the instruction in assembly syntax.
	String() string

	sealedInst()
}

// InstSize is the byte size of one basic instruction.
const InstSize = 4

// Decode decodes a raw word into a basic instruction. Unrecognized
// encodings return nil; that is not an error — the caller decides whether
// the word is data.
func Decode(word uint32) Inst {
	switch op := opcodeOf(word); op {
	case 0x00:
		return decodeSpecial(word)
	case 0x01:
		return decodeRegImm(word)
	case 0x02, 0x03:
		return &JmpImm{Link: op == 0x03, Imm: imm26Of(word)}
	case 0x04, 0x05, 0x06, 0x07:
		return decodeBranch(word)
	case 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E:
		return decodeAluImm(word)
	case 0x0F:
		return decodeLui(word)
	case 0x10, 0x11, 0x12, 0x13:
		return decodeCo(word)
	case 0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26:
		return decodeLoad(word)
	case 0x28, 0x29, 0x2A, 0x2B, 0x2E:
		return decodeStore(word)
	}
	return nil
}

// decodeSpecial handles opcode 0 instructions, keyed by funct.
func decodeSpecial(word uint32) Inst {
	switch funct := functOf(word); funct {
	case 0x00, 0x02, 0x03:
		return decodeShiftImm(word)
	case 0x04, 0x06, 0x07:
		return decodeShiftReg(word)
	case 0x08, 0x09:
		return decodeJmpReg(word)
	case 0x0C, 0x0D:
		return &Sys{Comment: (word >> 6) & 0xFFFFF, Break: funct == 0x0D}
	case 0x10, 0x11, 0x12, 0x13:
		return decodeMultMove(word)
	case 0x18, 0x19, 0x1A, 0x1B:
		return decodeMult(word)
	case 0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x2A, 0x2B:
		return decodeAluReg(word)
	}
	return nil
}
