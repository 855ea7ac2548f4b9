package dasm

import "github.com/sarchlab/armdasm/insts"

// ldstForm describes one size:V:opc combination of the A64 load/store
// register group: the opcode for the scaled forms, the unscaled (ldur/stur)
// opcode, the transfer register extractor and the data type that drives
// offset scaling.
type ldstForm struct {
	op   insts.Op
	urOp insts.Op
	rt   mutator
	dt   insts.PrimitiveType
}

// a64LdStForms is indexed by size<<3 | V<<2 | opc.
func a64LdStForms() [32]ldstForm {
	var f [32]ldstForm
	set := func(size, v, opc uint32, op, urOp insts.Op, rt mutator, dt insts.PrimitiveType) {
		f[size<<3|v<<2|opc] = ldstForm{op: op, urOp: urOp, rt: rt, dt: dt}
	}
	b := func(pos uint8) mutator { return regSimd(insts.FamSIMD8, pos) }
	h := func(pos uint8) mutator { return regSimd(insts.FamSIMD16, pos) }
	s := func(pos uint8) mutator { return regSimd(insts.FamSIMD32, pos) }
	d := func(pos uint8) mutator { return regSimd(insts.FamSIMD64, pos) }
	q := func(pos uint8) mutator { return regSimd(insts.FamSIMD128, pos) }

	set(0, 0, 0, insts.OpSTRB, insts.OpSTURB, regW(0, 5), insts.PrimByte)
	set(0, 0, 1, insts.OpLDRB, insts.OpLDURB, regW(0, 5), insts.PrimByte)
	set(0, 0, 2, insts.OpLDRSB, insts.OpLDURSB, regX(0, 5), insts.PrimSByte)
	set(0, 0, 3, insts.OpLDRSB, insts.OpLDURSB, regW(0, 5), insts.PrimSByte)
	set(0, 1, 0, insts.OpSTR, insts.OpSTUR, b(0), insts.PrimByte)
	set(0, 1, 1, insts.OpLDR, insts.OpLDUR, b(0), insts.PrimByte)
	set(0, 1, 2, insts.OpSTR, insts.OpSTUR, q(0), insts.PrimQuadword)
	set(0, 1, 3, insts.OpLDR, insts.OpLDUR, q(0), insts.PrimQuadword)

	set(1, 0, 0, insts.OpSTRH, insts.OpSTURH, regW(0, 5), insts.PrimHalfword)
	set(1, 0, 1, insts.OpLDRH, insts.OpLDURH, regW(0, 5), insts.PrimHalfword)
	set(1, 0, 2, insts.OpLDRSH, insts.OpLDURSH, regX(0, 5), insts.PrimSHalfword)
	set(1, 0, 3, insts.OpLDRSH, insts.OpLDURSH, regW(0, 5), insts.PrimSHalfword)
	set(1, 1, 0, insts.OpSTR, insts.OpSTUR, h(0), insts.PrimHalfword)
	set(1, 1, 1, insts.OpLDR, insts.OpLDUR, h(0), insts.PrimHalfword)

	set(2, 0, 0, insts.OpSTR, insts.OpSTUR, regW(0, 5), insts.PrimWord)
	set(2, 0, 1, insts.OpLDR, insts.OpLDUR, regW(0, 5), insts.PrimWord)
	set(2, 0, 2, insts.OpLDRSW, insts.OpLDURSW, regX(0, 5), insts.PrimSWord)
	set(2, 1, 0, insts.OpSTR, insts.OpSTUR, s(0), insts.PrimWord)
	set(2, 1, 1, insts.OpLDR, insts.OpLDUR, s(0), insts.PrimWord)

	set(3, 0, 0, insts.OpSTR, insts.OpSTUR, regX(0, 5), insts.PrimDoubleword)
	set(3, 0, 1, insts.OpLDR, insts.OpLDUR, regX(0, 5), insts.PrimDoubleword)
	set(3, 0, 2, insts.OpPRFM, insts.OpPRFM, nil, insts.PrimDoubleword)
	set(3, 1, 0, insts.OpSTR, insts.OpSTUR, d(0), insts.PrimDoubleword)
	set(3, 1, 1, insts.OpLDR, insts.OpLDUR, d(0), insts.PrimDoubleword)
	return f
}

// buildLdStVariant assembles the 32-way size:V:opc mask for one addressing
// flavor.
func buildLdStVariant(leaf func(ldstForm) decoder) decoder {
	forms := a64LdStForms()
	children := make([]decoder, 32)
	for i, fm := range forms {
		switch {
		case fm.op == insts.OpPRFM:
			children[i] = nyi("prfm")
		case fm.rt == nil:
			children[i] = invalid
		default:
			children[i] = leaf(fm)
		}
	}
	return maskFields([]Bitfield{BF(30, 2), BF(26, 1), BF(22, 2)}, children...)
}

func buildA64LoadLiteral() decoder {
	lit := func(op insts.Op, rt mutator) decoder {
		return instr(op, rt, memLit())
	}
	return sel([]Bitfield{BF(24, 2)}, eq(0),
		maskFields([]Bitfield{BF(30, 2), BF(26, 1)},
			lit(insts.OpLDR, regW(0, 5)),
			lit(insts.OpLDR, regSimd(insts.FamSIMD32, 0)),
			lit(insts.OpLDR, regX(0, 5)),
			lit(insts.OpLDR, regSimd(insts.FamSIMD64, 0)),
			lit(insts.OpLDRSW, regX(0, 5)),
			lit(insts.OpLDR, regSimd(insts.FamSIMD128, 0)),
			nyi("prfm (literal)"),
			invalid,
		),
		invalid)
}

// buildA64LoadStorePair assembles the opc:V:L mask for each pair addressing
// mode.
func buildA64LoadStorePair() decoder {
	pair := func(op insts.Op, fam insts.RegFamily, gp64 bool, dt insts.PrimitiveType, mode pairMode) decoder {
		var rt, rt2 mutator
		if fam != insts.FamNone {
			rt, rt2 = regSimd(fam, 0), regSimd(fam, 10)
		} else if gp64 {
			rt, rt2 = regX(0, 5), regX(10, 5)
		} else {
			rt, rt2 = regW(0, 5), regW(10, 5)
		}
		return instr(op, rt, rt2, memPair(dt, mode))
	}
	variant := func(mode pairMode) decoder {
		ld, st := insts.OpLDP, insts.OpSTP
		return maskFields([]Bitfield{BF(30, 2), BF(26, 1), BF(22, 1)},
			pair(st, insts.FamNone, false, insts.PrimWord, mode),
			pair(ld, insts.FamNone, false, insts.PrimWord, mode),
			pair(st, insts.FamSIMD32, false, insts.PrimWord, mode),
			pair(ld, insts.FamSIMD32, false, insts.PrimWord, mode),
			invalid,
			pair(insts.OpLDPSW, insts.FamNone, true, insts.PrimSWord, mode),
			pair(st, insts.FamSIMD64, false, insts.PrimDoubleword, mode),
			pair(ld, insts.FamSIMD64, false, insts.PrimDoubleword, mode),
			pair(st, insts.FamNone, true, insts.PrimDoubleword, mode),
			pair(ld, insts.FamNone, true, insts.PrimDoubleword, mode),
			pair(st, insts.FamSIMD128, false, insts.PrimQuadword, mode),
			pair(ld, insts.FamSIMD128, false, insts.PrimQuadword, mode),
			invalid, invalid, invalid, invalid,
		)
	}
	return mask(23, 3,
		nyi("load/store no-allocate pair"),
		variant(pairPost),
		variant(pairSigned),
		variant(pairPre),
		invalid, invalid, invalid, invalid,
	)
}

func buildA64LoadStoreReg() decoder {
	unsigned := buildLdStVariant(func(fm ldstForm) decoder {
		return instr(fm.op, fm.rt, memUOff(fm.dt, 5, 10, 12))
	})
	unscaled := buildLdStVariant(func(fm ldstForm) decoder {
		return instr(fm.urOp, fm.rt, memUnscaled(fm.dt))
	})
	post := buildLdStVariant(func(fm ldstForm) decoder {
		return instr(fm.op, fm.rt, memIndexed(fm.dt, true))
	})
	pre := buildLdStVariant(func(fm ldstForm) decoder {
		return instr(fm.op, fm.rt, memIndexed(fm.dt, false))
	})
	regOff := buildLdStVariant(func(fm ldstForm) decoder {
		return instr(fm.op, fm.rt, memReg(fm.dt))
	})

	imm9 := mask(10, 2,
		unscaled,
		post,
		nyi("load/store unprivileged"),
		pre,
	)
	return mask(24, 2,
		mask(21, 1,
			imm9,
			sel([]Bitfield{BF(10, 2)}, eq(2), regOff, nyi("atomic memory operation")),
		),
		unsigned,
		invalid,
		invalid,
	)
}

func buildA64LoadStore() decoder {
	return mask(27, 3,
		invalid,
		mask(26, 1,
			nyi("load/store exclusive"),
			nyi("advanced simd load/store structure"),
		),
		invalid,
		buildA64LoadLiteral(),
		invalid,
		buildA64LoadStorePair(),
		invalid,
		buildA64LoadStoreReg(),
	)
}
