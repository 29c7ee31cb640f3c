// Package mips implements a decode/encode engine for the MIPS R3000
// instruction set as used by the PlayStation CPU.
//
// A basic instruction is one 32-bit little-endian word whose meaning is
// given directly by the CPU encoding; Decode and Encode are exact inverses
// over the recognized set. Pseudo-instructions are recognized sequences of
// basic instructions (load-address, big-immediate loads and stores,
// register moves, nop runs) matched over a transactional Peeker.
package mips

import "fmt"

// Register is one of the 32 MIPS general-purpose registers. The multiply
// registers hi/lo are separate (see Mult and MultMove).
type Register uint8

// The general-purpose registers, indexed 0..31.
const (
	Zr Register = iota
	At
	V0
	V1
	A0
	A1
	A2
	A3
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	T8
	T9
	K0
	K1
	Gp
	Sp
	Fp
	Ra
)

// NumRegisters is the number of general-purpose registers.
const NumRegisters = 32

var registerNames = [NumRegisters]string{
	"$zr", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

// RegisterIndex validates idx against the register range.
func RegisterIndex(idx uint32) (Register, bool) {
	if idx >= NumRegisters {
		return 0, false
	}
	return Register(idx), true
}

// Index returns the register's encoding index.
func (r Register) Index() uint32 {
	return uint32(r)
}

func (r Register) String() string {
	if r >= NumRegisters {
		return fmt.Sprintf("$%d", uint8(r))
	}
	return registerNames[r]
}
