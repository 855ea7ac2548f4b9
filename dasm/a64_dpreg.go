package dasm

import "github.com/sarchlab/armdasm/insts"

// ccmpArg extracts the second ccmp/ccmn comparand: a register, or a 5-bit
// immediate when bit 11 is set.
func ccmpArg(w uint32, st *decodeState) bool {
	if w>>11&1 == 1 {
		st.push(insts.Imm(int64(w>>16&0x1F), insts.PrimByte))
		return true
	}
	return regSf(16)(w, st)
}

func buildA64DataProcessingReg() decoder {
	log := func(op insts.Op, ms ...mutator) decoder {
		return instr(op, append(ms,
			regSf(0), regSf(5), regSf(16), shiftCtx(22, 10, 6, true))...)
	}
	logical := maskFields([]Bitfield{BF(29, 2), BF(21, 1)},
		log(insts.OpAND),
		log(insts.OpBIC),
		log(insts.OpORR),
		log(insts.OpORN),
		log(insts.OpEOR),
		log(insts.OpEON),
		log(insts.OpAND, uf),
		log(insts.OpBIC, uf),
	)

	shifted := func(op insts.Op, ms ...mutator) decoder {
		return instr(op, append(ms,
			regSf(0), regSf(5), regSf(16), shiftCtx(22, 10, 6, false))...)
	}
	addsubShifted := mask(29, 2,
		shifted(insts.OpADD),
		shifted(insts.OpADD, uf),
		shifted(insts.OpSUB),
		shifted(insts.OpSUB, uf),
	)

	extended := func(op insts.Op, ms ...mutator) decoder {
		return instr(op, append(ms,
			regSf(0), regSf(5), regSf(16), extCtx(13, 10, 3))...)
	}
	addsubExtended := sel([]Bitfield{BF(22, 2)}, eq(0),
		mask(29, 2,
			extended(insts.OpADD),
			extended(insts.OpADD, uf),
			extended(insts.OpSUB),
			extended(insts.OpSUB, uf),
		),
		invalid)

	carryOp := func(op insts.Op, ms ...mutator) decoder {
		return instr(op, append(ms, regSf(0), regSf(5), regSf(16))...)
	}
	carry := sel([]Bitfield{BF(10, 6)}, eq(0),
		mask(29, 2,
			carryOp(insts.OpADC),
			carryOp(insts.OpADC, uf),
			carryOp(insts.OpSBC),
			carryOp(insts.OpSBC, uf),
		),
		invalid)

	condCmp := sel([]Bitfield{BF(29, 1), BF(10, 1), BF(4, 1)}, eq(0b100),
		mask(30, 1,
			instr(insts.OpCCMN, regSf(5), ccmpArg,
				uimm(0, 4, insts.PrimByte), condOp(12)),
			instr(insts.OpCCMP, regSf(5), ccmpArg,
				uimm(0, 4, insts.PrimByte), condOp(12)),
		),
		invalid)

	cs := func(op insts.Op) decoder {
		return instr(op, regSf(0), regSf(5), regSf(16), condOp(12))
	}
	condSel := sel([]Bitfield{BF(29, 1)}, eq(0),
		maskFields([]Bitfield{BF(30, 1), BF(10, 2)},
			cs(insts.OpCSEL), cs(insts.OpCSINC), invalid, invalid,
			cs(insts.OpCSINV), cs(insts.OpCSNEG), invalid, invalid,
		),
		invalid)

	two := func(op insts.Op) decoder {
		return instr(op, regSf(0), regSf(5), regSf(16))
	}
	twoSource := sel([]Bitfield{BF(29, 1)}, eq(0),
		sparse(10, 6, nyi("data processing 2-source"), map[uint32]decoder{
			2:  two(insts.OpUDIV),
			3:  two(insts.OpSDIV),
			8:  two(insts.OpLSL),
			9:  two(insts.OpLSR),
			10: two(insts.OpASR),
			11: two(insts.OpROR),
		}),
		invalid)

	one := func(op insts.Op) decoder {
		return instr(op, regSf(0), regSf(5))
	}
	oneSource := sel([]Bitfield{BF(29, 1), BF(16, 5)}, eq(0),
		sparse(10, 6, invalid, map[uint32]decoder{
			0: one(insts.OpRBIT),
			1: one(insts.OpREV16),
			2: mask(31, 1, one(insts.OpREV), one(insts.OpREV32)),
			3: mask(31, 1, invalid, one(insts.OpREV)),
			4: one(insts.OpCLZ),
			5: one(insts.OpCLS),
		}),
		invalid)

	acc := func(op insts.Op) decoder {
		return instr(op, regSf(0), regSf(5), regSf(16), regSf(10))
	}
	long := func(op insts.Op) decoder {
		return sel([]Bitfield{BF(31, 1)}, eq(1),
			instr(op, regX(0, 5), regW(5, 5), regW(16, 5), regX(10, 5)),
			invalid)
	}
	high := func(op insts.Op) decoder {
		return sel([]Bitfield{BF(31, 1)}, eq(1),
			instr(op, regX(0, 5), regX(5, 5), regX(16, 5)),
			invalid)
	}
	threeSource := sel([]Bitfield{BF(29, 2)}, eq(0),
		maskFields([]Bitfield{BF(21, 3), BF(15, 1)},
			acc(insts.OpMADD),
			acc(insts.OpMSUB),
			long(insts.OpSMADDL),
			long(insts.OpSMSUBL),
			high(insts.OpSMULH),
			invalid,
			invalid, invalid, invalid, invalid,
			long(insts.OpUMADDL),
			long(insts.OpUMSUBL),
			high(insts.OpUMULH),
			invalid, invalid, invalid,
		),
		invalid)

	return mask(28, 1,
		mask(24, 1,
			logical,
			mask(21, 1, addsubShifted, addsubExtended),
		),
		sparse(21, 4, invalid, map[uint32]decoder{
			0:  carry,
			2:  condCmp,
			4:  condSel,
			6:  mask(30, 1, twoSource, oneSource),
			8:  threeSource,
			9:  threeSource,
			10: threeSource,
			11: threeSource,
			12: threeSource,
			13: threeSource,
			14: threeSource,
			15: threeSource,
		}),
	)
}
