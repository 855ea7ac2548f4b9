package dasm

import "github.com/sarchlab/armdasm/insts"

// T32 helpers. The 16-bit tree sees the halfword zero-extended to 32 bits;
// the 32-bit tree sees hw1:hw2 with the leading halfword in the top half.

// sBit latches the S bit into the flag-update state.
func sBit(pos uint8) mutator {
	return func(w uint32, st *decodeState) bool {
		st.setFlags = w>>pos&1 == 1
		return true
	}
}

// regWFields extracts a GP register index from split fields (hi-register
// forms).
func regWFields(fields []Bitfield) mutator {
	return func(w uint32, st *decodeState) bool {
		st.push(insts.Reg(insts.GpReg32(uint32(ReadFields(fields, w)))))
		return true
	}
}

// spReg appends the stack pointer.
func spReg(w uint32, st *decodeState) bool {
	st.push(insts.Reg(insts.RegSP))
	return true
}

// jdispT computes a T32 branch target: the pipeline base is the instruction
// address plus 4.
func jdispT(fields []Bitfield, scale uint) mutator {
	return func(w uint32, st *decodeState) bool {
		disp := ReadScaledSignedFields(fields, w, scale)
		st.push(insts.AddrOperand{Addr: st.addr + 4 + uint64(disp)})
		return true
	}
}

// jdispTU is jdispT with a zero-extended displacement (cbz/cbnz).
func jdispTU(fields []Bitfield, scale uint) mutator {
	return func(w uint32, st *decodeState) bool {
		disp := ReadFields(fields, w) << scale
		st.push(insts.AddrOperand{Addr: st.addr + 4 + disp})
		return true
	}
}

// adrT resolves the 16-bit adr: Align(PC,4) + imm8*4.
func adrT(w uint32, st *decodeState) bool {
	st.push(insts.AddrOperand{Addr: (st.addr+4)&^3 + uint64(w&0xFF)<<2})
	return true
}

// litT16 resolves the 16-bit ldr (literal): Align(PC,4) + imm8*4.
func litT16(w uint32, st *decodeState) bool {
	st.push(insts.AddrOperand{Addr: (st.addr+4)&^3 + uint64(w&0xFF)<<2})
	return true
}

// memT16Imm builds the 16-bit [Rn, #imm5<<scale] operand.
func memT16Imm(dt insts.PrimitiveType, scale uint) mutator {
	return func(w uint32, st *decodeState) bool {
		o := insts.Imm(int64(w>>6&0x1F)<<scale, insts.PrimSDoubleword)
		st.push(insts.MemOperand{
			Base:     insts.GpReg32(w >> 3 & 7),
			Offset:   &o,
			DataType: dt,
		})
		return true
	}
}

// memT16SP builds the sp-relative [sp, #imm8*4] operand.
func memT16SP(dt insts.PrimitiveType) mutator {
	return func(w uint32, st *decodeState) bool {
		o := insts.Imm(int64(w&0xFF)<<2, insts.PrimSDoubleword)
		st.push(insts.MemOperand{Base: insts.RegSP, Offset: &o, DataType: dt})
		return true
	}
}

// memT16Reg builds the [Rn, Rm] operand.
func memT16Reg(dt insts.PrimitiveType) mutator {
	return func(w uint32, st *decodeState) bool {
		idx := insts.GpReg32(w >> 6 & 7)
		st.push(insts.MemOperand{
			Base:     insts.GpReg32(w >> 3 & 7),
			Index:    &idx,
			DataType: dt,
		})
		return true
	}
}

// regList expands a register-list field into one register operand per set
// bit. extraBit (0xFF for none) folds the M/P bit in as extraReg.
func regList(pos, length, extraBit uint8, extraReg uint32) mutator {
	return func(w uint32, st *decodeState) bool {
		list := w >> pos & (1<<length - 1)
		if extraBit != 0xFF && w>>extraBit&1 == 1 {
			list |= 1 << extraReg
		}
		if list == 0 {
			return false
		}
		for i := uint32(0); i < 16; i++ {
			if list>>i&1 == 1 {
				st.push(insts.Reg(insts.GpReg32(i)))
			}
		}
		return true
	}
}

// wbAlways marks unconditional base writeback (16-bit stm, push, pop).
func wbAlways(w uint32, st *decodeState) bool {
	st.writeback = true
	return true
}

// ldmWB marks writeback when the base register is not in the list.
func ldmWB(w uint32, st *decodeState) bool {
	rn := w >> 8 & 7
	st.writeback = w>>rn&1 == 0
	return true
}

// The 16-bit T32 dispatch tree, keyed on the top three bits of the
// halfword. The 32-bit prefixes (0b11101..0b11111) never reach it; the
// driver routes those to the 32-bit tree.
var t32Root16 = buildT32Root16()

func buildT32Root16() decoder {
	rd := regW(0, 3)
	rm := regW(3, 3)
	rd8 := regW(8, 3)

	shiftImm := func(op insts.Op) decoder {
		return instr(op, uf, rd, rm, uimm(6, 5, insts.PrimByte))
	}
	val0 := mask(11, 2,
		sel([]Bitfield{BF(6, 5)}, eq(0),
			instr(insts.OpMOV, uf, rd, rm),
			shiftImm(insts.OpLSL)),
		shiftImm(insts.OpLSR),
		shiftImm(insts.OpASR),
		mask(9, 2,
			instr(insts.OpADD, uf, rd, rm, regW(6, 3)),
			instr(insts.OpSUB, uf, rd, rm, regW(6, 3)),
			instr(insts.OpADD, uf, rd, rm, uimm(6, 3, insts.PrimByte)),
			instr(insts.OpSUB, uf, rd, rm, uimm(6, 3, insts.PrimByte)),
		),
	)

	imm8 := uimm(0, 8, insts.PrimWord)
	val1 := mask(11, 2,
		instr(insts.OpMOV, uf, rd8, imm8),
		instr(insts.OpCMP, uf, rd8, imm8),
		instr(insts.OpADD, uf, rd8, imm8),
		instr(insts.OpSUB, uf, rd8, imm8),
	)

	alu := func(op insts.Op) decoder { return instr(op, uf, rd, rm) }
	dataProc := mask(6, 4,
		alu(insts.OpAND), alu(insts.OpEOR), alu(insts.OpLSL), alu(insts.OpLSR),
		alu(insts.OpASR), alu(insts.OpADC), alu(insts.OpSBC), alu(insts.OpROR),
		alu(insts.OpTST), alu(insts.OpRSB), alu(insts.OpCMP), alu(insts.OpCMN),
		alu(insts.OpORR), alu(insts.OpMUL), alu(insts.OpBIC), alu(insts.OpMVN),
	)
	rdn := regWFields([]Bitfield{BF(7, 1), BF(0, 3)})
	rm4 := regW(3, 4)
	special := mask(8, 2,
		instr(insts.OpADD, rdn, rm4),
		instr(insts.OpCMP, uf, rdn, rm4),
		instr(insts.OpMOV, rdn, rm4),
		mask(7, 1,
			instr(insts.OpBX, rm4),
			instr(insts.OpBLX, rm4),
		),
	)
	ldStReg := func(op insts.Op, dt insts.PrimitiveType) decoder {
		return instr(op, rd, memT16Reg(dt))
	}
	val2 := mask(11, 2,
		mask(10, 1, dataProc, special),
		instr(insts.OpLDR, rd8, litT16),
		mask(9, 2,
			ldStReg(insts.OpSTR, insts.PrimWord),
			ldStReg(insts.OpSTRH, insts.PrimHalfword),
			ldStReg(insts.OpSTRB, insts.PrimByte),
			ldStReg(insts.OpLDRSB, insts.PrimSByte),
		),
		mask(9, 2,
			ldStReg(insts.OpLDR, insts.PrimWord),
			ldStReg(insts.OpLDRH, insts.PrimHalfword),
			ldStReg(insts.OpLDRB, insts.PrimByte),
			ldStReg(insts.OpLDRSH, insts.PrimSHalfword),
		),
	)

	val3 := mask(11, 2,
		instr(insts.OpSTR, rd, memT16Imm(insts.PrimWord, 2)),
		instr(insts.OpLDR, rd, memT16Imm(insts.PrimWord, 2)),
		instr(insts.OpSTRB, rd, memT16Imm(insts.PrimByte, 0)),
		instr(insts.OpLDRB, rd, memT16Imm(insts.PrimByte, 0)),
	)

	val4 := mask(11, 2,
		instr(insts.OpSTRH, rd, memT16Imm(insts.PrimHalfword, 1)),
		instr(insts.OpLDRH, rd, memT16Imm(insts.PrimHalfword, 1)),
		instr(insts.OpSTR, rd8, memT16SP(insts.PrimWord)),
		instr(insts.OpLDR, rd8, memT16SP(insts.PrimWord)),
	)

	cbTarget := jdispTU([]Bitfield{BF(9, 1), BF(3, 5)}, 1)
	extend := func(op insts.Op) decoder { return instr(op, rd, rm) }
	hints := sparse(4, 4, nyi("hint"), map[uint32]decoder{
		0: instr(insts.OpNOP),
		1: instr(insts.OpYIELD),
		2: instr(insts.OpWFE),
		3: instr(insts.OpWFI),
		4: instr(insts.OpSEV),
	})
	itOrHints := sel([]Bitfield{BF(0, 4)}, eq(0),
		hints,
		instr(insts.OpIT, condOp(4)))
	cbz := instr(insts.OpCBZ, rd, cbTarget)
	cbnz := instr(insts.OpCBNZ, rd, cbTarget)
	misc := sparse(8, 4, invalid, map[uint32]decoder{
		0: mask(7, 1,
			instr(insts.OpADD, spReg, uimmScaled(0, 7, insts.PrimWord, 2)),
			instr(insts.OpSUB, spReg, uimmScaled(0, 7, insts.PrimWord, 2)),
		),
		1:  cbz,
		3:  cbz,
		9:  cbnz,
		11: cbnz,
		2: mask(6, 2,
			extend(insts.OpSXTH), extend(insts.OpSXTB),
			extend(insts.OpUXTH), extend(insts.OpUXTB),
		),
		4:  instr(insts.OpPUSH, wbAlways, regList(0, 8, 8, 14)),
		5:  instr(insts.OpPUSH, wbAlways, regList(0, 8, 8, 14)),
		10: mask(6, 2, extend(insts.OpREV), extend(insts.OpREV16), invalid, extend(insts.OpREVSH)),
		12: instr(insts.OpPOP, wbAlways, regList(0, 8, 8, 15)),
		13: instr(insts.OpPOP, wbAlways, regList(0, 8, 8, 15)),
		14: instr(insts.OpBKPT, uimm(0, 8, insts.PrimByte)),
		15: itOrHints,
	})
	val5 := mask(12, 1,
		mask(11, 1,
			instr(insts.OpADR, rd8, adrT),
			instr(insts.OpADD, rd8, spReg, uimmScaled(0, 8, insts.PrimWord, 2)),
		),
		misc,
	)

	condBr := instr(insts.OpB, setCond(8), jdispT([]Bitfield{BF(0, 8)}, 1))
	val6 := mask(12, 1,
		mask(11, 1,
			instr(insts.OpSTM, rd8, wbAlways, regList(0, 8, 0xFF, 0)),
			instr(insts.OpLDM, rd8, ldmWB, regList(0, 8, 0xFF, 0)),
		),
		sel([]Bitfield{BF(8, 4)}, eq(14),
			instr(insts.OpUDF, uimm(0, 8, insts.PrimByte)),
			sel([]Bitfield{BF(8, 4)}, eq(15),
				instr(insts.OpSVC, uimm(0, 8, insts.PrimByte)),
				condBr)),
	)

	val7 := mask(11, 2,
		instr(insts.OpB, jdispT([]Bitfield{BF(0, 11)}, 1)),
		invalid, invalid, invalid,
	)

	return mask(13, 3, val0, val1, val2, val3, val4, val5, val6, val7)
}
