package dasm

import (
	"iter"

	"github.com/sarchlab/armdasm/insts"
)

// Arch selects the instruction encoding family.
type Arch uint8

const (
	// ArchT32 is the variable-length Thumb-2 encoding (2 or 4 bytes).
	ArchT32 Arch = iota
	// ArchA64 is the fixed 4-byte AArch64 encoding.
	ArchA64
)

// Disassembler decodes one instruction stream. The dispatch trees are shared
// and immutable; the cursor, the IT-block state and the per-instruction
// scratch state belong to this instance, so concurrent use of one instance
// needs external synchronization while separate instances do not.
type Disassembler struct {
	arch Arch
	r    *ImageReader
	it   itTracker
}

// New creates a disassembler over r for the given architecture.
func New(arch Arch, r *ImageReader) *Disassembler {
	return &Disassembler{arch: arch, r: r}
}

// DisassembleOne decodes the next instruction. The second result is false
// when the reader has no complete encoding left; undecodable encodings still
// produce a record with Op == OpInvalid and correct address and length.
func (d *Disassembler) DisassembleOne() (insts.Instruction, bool) {
	if d.arch == ArchA64 {
		return d.a64One()
	}
	return d.t32One()
}

// Instructions iterates the remaining stream in ascending address order.
func (d *Disassembler) Instructions() iter.Seq[insts.Instruction] {
	return func(yield func(insts.Instruction) bool) {
		for {
			inst, ok := d.DisassembleOne()
			if !ok || !yield(inst) {
				return
			}
		}
	}
}

func (d *Disassembler) a64One() (insts.Instruction, bool) {
	addr := d.r.Address()
	w, ok := d.r.TryRead32()
	if !ok {
		return insts.Instruction{}, false
	}
	st := newDecodeState(addr)
	op := a64Root.decode(w, st)
	return assemble(op, st, addr, 4), true
}

func (d *Disassembler) t32One() (insts.Instruction, bool) {
	addr := d.r.Address()
	hw1, ok := d.r.TryRead16()
	if !ok {
		return insts.Instruction{}, false
	}
	var inst insts.Instruction
	if isT32Long(hw1) {
		hw2, ok := d.r.TryRead16()
		if !ok {
			return insts.Instruction{}, false
		}
		st := newDecodeState(addr)
		w := uint32(hw1)<<16 | uint32(hw2)
		inst = assemble(t32Root32.decode(w, st), st, addr, 4)
	} else {
		st := newDecodeState(addr)
		inst = assemble(t32Root16.decode(uint32(hw1), st), st, addr, 2)
	}
	if inst.Op == insts.OpIT {
		d.it.Start(uint8(hw1))
	} else {
		d.it.Apply(&inst)
	}
	return inst, true
}

// isT32Long reports whether the leading halfword opens a 32-bit encoding:
// the top three bits are 111 and the next two are not 00 (0b11100 is the
// 16-bit unconditional branch).
func isT32Long(hw1 uint16) bool {
	return hw1>>11 >= 0b11101
}

// assemble turns the decode state into the final record. Invalid decodes
// keep address and length but drop everything else.
func assemble(op insts.Op, st *decodeState, addr uint64, length uint8) insts.Instruction {
	if op == insts.OpInvalid {
		return insts.Instruction{
			Op:        insts.OpInvalid,
			Address:   addr,
			Length:    length,
			Cond:      insts.CondAL,
			ShiftType: insts.OpInvalid,
			Diag:      st.diag,
		}
	}
	return insts.Instruction{
		Op:          op,
		Operands:    st.ops,
		Address:     addr,
		Length:      length,
		Cond:        st.cond,
		UpdateFlags: st.setFlags,
		Writeback:   st.writeback,
		ShiftType:   st.shiftType,
		ShiftValue:  st.shiftValue,
		VectorData:  st.vec,
	}
}
