package insts

import (
	"fmt"
	"strings"
)

// Instruction is one decoded instruction.
type Instruction struct {
	Op       Op        // Operation code; OpInvalid for undecodable encodings
	Operands []Operand // Ordered operand list

	// Location
	Address uint64 // Address of the first byte of the encoding
	Length  uint8  // Encoding size in bytes (2 or 4 for T32, 4 for A64)

	// Context
	Cond        Cond       // Condition code; AL when unconditional
	UpdateFlags bool       // Instruction sets NZCV (S suffix)
	Writeback   bool       // Base register writeback on memory operands
	ShiftType   Op         // Operand shift mnemonic; OpInvalid when absent
	ShiftValue  Operand    // Shift amount; nil when absent
	VectorData  VectorKind // SIMD arrangement; VecInvalid for scalar forms

	// Diag carries the not-yet-implemented message for encodings that hit an
	// nyi leaf. Empty otherwise.
	Diag string
}

// Valid reports whether the record decoded to a real instruction.
func (i *Instruction) Valid() bool {
	return i.Op != OpInvalid
}

// String renders a debugging summary (not full assembly syntax).
func (i *Instruction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%08x %s", i.Address, i.Op)
	if i.UpdateFlags {
		sb.WriteByte('s')
	}
	if i.Cond != CondAL && i.Cond != CondNV {
		sb.WriteString(".")
		sb.WriteString(i.Cond.String())
	}
	if i.VectorData != VecInvalid {
		sb.WriteByte('.')
		sb.WriteString(i.VectorData.String())
	}
	for n, op := range i.Operands {
		if n == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(op.String())
	}
	if i.ShiftType != OpInvalid && i.ShiftValue != nil {
		fmt.Fprintf(&sb, ",%s %s", i.ShiftType, i.ShiftValue)
	}
	return sb.String()
}
