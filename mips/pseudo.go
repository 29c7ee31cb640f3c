package mips

import "fmt"

// Pseudo is a pseudo-instruction: a recognized sequence of basic
// instructions implementing a higher-level operation. The set of
// implementations is closed.
type Pseudo interface {
	// Size returns the byte size of the matched basic sequence.
	Size() int

	// Expand returns the basic-instruction expansion. Re-matching the
	// expansion yields the same pseudo-instruction.
	Expand() []Inst

	// String renders the pseudo-instruction in assembly syntax.
	String() string

	sealedPseudo()
}

// pseudoMatchers holds the pattern matchers in their fixed order: the
// two-instruction big-immediate patterns first, then the load-address
// alias, then the single-instruction aliases.
var pseudoMatchers = []func(*Peeker) Pseudo{
	matchBigLoad,
	matchBigStore,
	matchLoadAddr,
	matchNop,
	matchMove,
}

// DecodePseudo attempts to match a pseudo-instruction at the stream's
// current position. On a match the consumed basic instructions are
// committed; otherwise the stream is left untouched and nil is returned.
func DecodePseudo(s *InstStream) Pseudo {
	for _, match := range pseudoMatchers {
		peeker := s.Peek()
		if pseudo := match(peeker); pseudo != nil {
			peeker.Commit()
			return pseudo
		}
	}
	return nil
}

// joinImm combines a lui halfword with a sign-extended low offset.
func joinImm(hi uint16, lo int16) uint32 {
	return uint32(hi)<<16 + uint32(int32(lo))
}

// splitImm splits a 32-bit target back into lui/low halves such that
// joinImm(hi, lo) == target.
func splitImm(target uint32) (hi uint16, lo int16) {
	return uint16((target + 0x8000) >> 16), int16(target & 0xFFFF)
}

// Nop is a run of `sll $zr, $zr, 0` words.
type Nop struct {
	Len int
}

// nopInst is the basic instruction a nop aliases.
var nopInst = ShiftImm{Kind: ShiftLeftLogical, Dst: Zr, Src: Zr, Amount: 0}

func matchNop(p *Peeker) Pseudo {
	length := 0
	for {
		inst, ok := p.Next()
		if !ok {
			break
		}
		shift, isShift := inst.(*ShiftImm)
		if !isShift || *shift != nopInst {
			// The run ends before this instruction; shrink the match.
			p.idx--
			break
		}
		length++
	}

	if length == 0 {
		return nil
	}
	return &Nop{Len: length}
}

func (n *Nop) Size() int { return InstSize * n.Len }

func (n *Nop) Expand() []Inst {
	insts := make([]Inst, n.Len)
	for i := range insts {
		inst := nopInst
		insts[i] = &inst
	}
	return insts
}

func (n *Nop) String() string {
	if n.Len == 1 {
		return "nop"
	}
	return fmt.Sprintf("nop %d", n.Len)
}

func (n *Nop) sealedPseudo() {}

// Move copies Src into Dst, an alias for `addu $dst, $src, $zr`.
type Move struct {
	Dst Register
	Src Register
}

func matchMove(p *Peeker) Pseudo {
	inst, ok := p.Next()
	if !ok {
		return nil
	}

	alu, isAlu := inst.(*AluReg)
	if !isAlu || alu.Kind != AluRegAddU || alu.Rhs != Zr {
		return nil
	}
	return &Move{Dst: alu.Dst, Src: alu.Lhs}
}

func (m *Move) Size() int { return InstSize }

func (m *Move) Expand() []Inst {
	return []Inst{&AluReg{Kind: AluRegAddU, Dst: m.Dst, Lhs: m.Src, Rhs: Zr}}
}

func (m *Move) String() string {
	return fmt.Sprintf("move %s, %s", m.Dst, m.Src)
}

func (m *Move) sealedPseudo() {}

// LoadAddr loads a 32-bit address, an alias for
//
//	lui   $dst, {hi}
//	addiu $dst, $dst, {lo}
type LoadAddr struct {
	Dst    Register
	Target uint32
}

func matchLoadAddr(p *Peeker) Pseudo {
	first, ok := p.Next()
	if !ok {
		return nil
	}
	lui, isLui := first.(*Lui)
	if !isLui {
		return nil
	}

	second, ok := p.Next()
	if !ok {
		return nil
	}
	add, isAdd := second.(*AluImm)
	if !isAdd || add.Kind != AluAddU || add.Dst != lui.Dst || add.Src != lui.Dst {
		return nil
	}

	return &LoadAddr{Dst: lui.Dst, Target: joinImm(lui.Value, int16(add.Imm))}
}

func (l *LoadAddr) Size() int { return 2 * InstSize }

func (l *LoadAddr) Expand() []Inst {
	hi, lo := splitImm(l.Target)
	return []Inst{
		&Lui{Dst: l.Dst, Value: hi},
		&AluImm{Kind: AluAddU, Dst: l.Dst, Src: l.Dst, Imm: int32(lo)},
	}
}

func (l *LoadAddr) String() string {
	return fmt.Sprintf("la %s, %#x", l.Dst, l.Target)
}

func (l *LoadAddr) sealedPseudo() {}

// BigLoad loads from a 32-bit address, an alias for
//
//	lui $dst, {hi}
//	l*  $dst, {lo}($dst)
type BigLoad struct {
	Kind   LoadKind
	Dst    Register
	Target uint32
}

func matchBigLoad(p *Peeker) Pseudo {
	first, ok := p.Next()
	if !ok {
		return nil
	}
	lui, isLui := first.(*Lui)
	if !isLui {
		return nil
	}

	second, ok := p.Next()
	if !ok {
		return nil
	}
	load, isLoad := second.(*Load)
	if !isLoad || load.Dst != lui.Dst || load.Src != lui.Dst {
		return nil
	}

	return &BigLoad{Kind: load.Kind, Dst: lui.Dst, Target: joinImm(lui.Value, load.Offset)}
}

func (l *BigLoad) Size() int { return 2 * InstSize }

func (l *BigLoad) Expand() []Inst {
	hi, lo := splitImm(l.Target)
	return []Inst{
		&Lui{Dst: l.Dst, Value: hi},
		&Load{Kind: l.Kind, Dst: l.Dst, Src: l.Dst, Offset: lo},
	}
}

func (l *BigLoad) String() string {
	return fmt.Sprintf("%s %s, %#x", loadOps[l.Kind].mnemonic, l.Dst, l.Target)
}

func (l *BigLoad) sealedPseudo() {}

// BigStore stores to a 32-bit address through $at, an alias for
//
//	lui $at, {hi}
//	s*  $src, {lo}($at)
type BigStore struct {
	Kind   StoreKind
	Src    Register // value register
	Target uint32
}

func matchBigStore(p *Peeker) Pseudo {
	first, ok := p.Next()
	if !ok {
		return nil
	}
	lui, isLui := first.(*Lui)
	if !isLui || lui.Dst != At {
		return nil
	}

	second, ok := p.Next()
	if !ok {
		return nil
	}
	store, isStore := second.(*Store)
	if !isStore || store.Src != At {
		return nil
	}

	return &BigStore{Kind: store.Kind, Src: store.Dst, Target: joinImm(lui.Value, store.Offset)}
}

func (s *BigStore) Size() int { return 2 * InstSize }

func (s *BigStore) Expand() []Inst {
	hi, lo := splitImm(s.Target)
	return []Inst{
		&Lui{Dst: At, Value: hi},
		&Store{Kind: s.Kind, Dst: s.Src, Src: At, Offset: lo},
	}
}

func (s *BigStore) String() string {
	return fmt.Sprintf("%s %s, %#x", storeOps[s.Kind].mnemonic, s.Src, s.Target)
}

func (s *BigStore) sealedPseudo() {}
