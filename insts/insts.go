// Package insts provides ARM instruction definitions shared by the T32 and
// A64 disassemblers.
//
// This package holds the symbolic instruction model: opcode identifiers,
// condition codes, the typed operand variants, the register catalog, and the
// Instruction record the decoders produce. It performs no decoding itself.
//
// Usage:
//
//	inst := insts.Instruction{
//		Op:       insts.OpADD,
//		Operands: []insts.Operand{insts.Reg(insts.GpReg64(0))},
//	}
package insts
