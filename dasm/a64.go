package dasm

import "github.com/sarchlab/armdasm/insts"

// The A64 dispatch tree. Built once at init, immutable afterwards. The root
// keys on the instruction-class bits 25..28; the subtrees mirror the
// encoding-group tables of the architecture manual.
var a64Root = buildA64Root()

func buildA64Root() decoder {
	ldst := buildA64LoadStore()
	dpreg := buildA64DataProcessingReg()
	dpimm := buildA64DataProcessingImm()
	br := buildA64Branches()
	return mask(25, 4,
		invalid,             // 0000 reserved
		invalid,             // 0001
		nyi("sve"),          // 0010
		invalid,             // 0011
		ldst,                // 0100
		dpreg,               // 0101
		ldst,                // 0110
		buildA64SimdGroup(), // 0111
		dpimm,               // 1000
		dpimm,               // 1001
		br,                  // 1010
		br,                  // 1011
		ldst,                // 1100
		dpreg,               // 1101
		ldst,                // 1110
		buildA64FpGroup(),   // 1111
	)
}

func eq(want uint64) func(uint64) bool {
	return func(v uint64) bool { return v == want }
}

// immAddSub extracts the add/sub imm12, shifted left by 12 when sh is set.
func immAddSub(width insts.PrimitiveType) mutator {
	return func(w uint32, st *decodeState) bool {
		v := int64(w >> 10 & 0xFFF)
		switch w >> 22 & 3 {
		case 0:
		case 1:
			v <<= 12
		default:
			return false
		}
		st.push(insts.Imm(v, width))
		return true
	}
}

// bfN requires the bitfield N bit to match sf.
func bfN(w uint32, st *decodeState) bool {
	return w>>22&1 == w>>31&1
}

func buildA64DataProcessingImm() decoder {
	pcrelFields := []Bitfield{BF(5, 19), BF(29, 2)}
	pcrel := mask(31, 1,
		instr(insts.OpADR, regX(0, 5), pcRel(pcrelFields, 0)),
		instr(insts.OpADRP, regX(0, 5), pcRelPage(pcrelFields)),
	)

	addSub32 := func(op insts.Op, ms ...mutator) decoder {
		return instr(op, append(ms, regW(0, 5), regW(5, 5), immAddSub(insts.PrimWord))...)
	}
	addSub64 := func(op insts.Op, ms ...mutator) decoder {
		return instr(op, append(ms, regX(0, 5), regX(5, 5), immAddSub(insts.PrimDoubleword))...)
	}
	addsub := mask(29, 3,
		addSub32(insts.OpADD),
		addSub32(insts.OpADD, uf),
		addSub32(insts.OpSUB),
		addSub32(insts.OpSUB, uf),
		addSub64(insts.OpADD),
		addSub64(insts.OpADD, uf),
		addSub64(insts.OpSUB),
		addSub64(insts.OpSUB, uf),
	)

	log32 := func(op insts.Op, ms ...mutator) decoder {
		return instr(op, append(ms, regW(0, 5), regW(5, 5), bm(32))...)
	}
	log64 := func(op insts.Op, ms ...mutator) decoder {
		return instr(op, append(ms, regX(0, 5), regX(5, 5), bm(64))...)
	}
	logical := mask(29, 3,
		log32(insts.OpAND),
		log32(insts.OpORR),
		log32(insts.OpEOR),
		log32(insts.OpAND, uf),
		log64(insts.OpAND),
		log64(insts.OpORR),
		log64(insts.OpEOR),
		log64(insts.OpAND, uf),
	)

	mw32 := func(op insts.Op) decoder {
		return instr(op, regW(0, 5), uimm(5, 16, insts.PrimWord), shiftLSL16(21))
	}
	mw64 := func(op insts.Op) decoder {
		return instr(op, regX(0, 5), uimm(5, 16, insts.PrimDoubleword), shiftLSL16(21))
	}
	movewide := mask(29, 3,
		mw32(insts.OpMOVN), invalid, mw32(insts.OpMOVZ), mw32(insts.OpMOVK),
		mw64(insts.OpMOVN), invalid, mw64(insts.OpMOVZ), mw64(insts.OpMOVK),
	)

	bf32 := func(op insts.Op) decoder {
		return instr(op, bfN, regW(0, 5), regW(5, 5),
			uimm(16, 6, insts.PrimByte), uimm(10, 6, insts.PrimByte))
	}
	bf64 := func(op insts.Op) decoder {
		return instr(op, bfN, regX(0, 5), regX(5, 5),
			uimm(16, 6, insts.PrimByte), uimm(10, 6, insts.PrimByte))
	}
	bitfield := mask(29, 3,
		bf32(insts.OpSBFM), bf32(insts.OpBFM), bf32(insts.OpUBFM), invalid,
		bf64(insts.OpSBFM), bf64(insts.OpBFM), bf64(insts.OpUBFM), invalid,
	)

	extr32 := sel([]Bitfield{BF(21, 2), BF(15, 1)}, eq(0),
		instr(insts.OpEXTR, bfN, regW(0, 5), regW(5, 5), regW(16, 5),
			uimm(10, 5, insts.PrimByte)),
		invalid)
	extr64 := sel([]Bitfield{BF(21, 2)}, eq(2),
		instr(insts.OpEXTR, bfN, regX(0, 5), regX(5, 5), regX(16, 5),
			uimm(10, 6, insts.PrimByte)),
		invalid)
	extract := mask(29, 3,
		extr32, invalid, invalid, invalid,
		extr64, invalid, invalid, invalid,
	)

	return mask(23, 3,
		pcrel,
		pcrel,
		addsub,
		nyi("add/sub immediate with tags"),
		logical,
		movewide,
		bitfield,
		extract,
	)
}

// sysregImm extracts the o0:op1:CRn:CRm:op2 system-register encoding as one
// immediate operand.
var sysregImm = uimmFields(
	[]Bitfield{BF(19, 1), BF(16, 3), BF(12, 4), BF(8, 4), BF(5, 3)},
	insts.PrimHalfword)

func buildA64Branches() decoder {
	b := instr(insts.OpB, jdisp(0, 26))
	bl := instr(insts.OpBL, jdisp(0, 26))

	bcond := sel([]Bitfield{BF(24, 1), BF(4, 1)}, eq(0),
		instr(insts.OpB, setCond(0), jdisp(5, 19)),
		invalid)

	cmpbr32 := mask(24, 1,
		instr(insts.OpCBZ, regW(0, 5), jdisp(5, 19)),
		instr(insts.OpCBNZ, regW(0, 5), jdisp(5, 19)))
	cmpbr64 := mask(24, 1,
		instr(insts.OpCBZ, regX(0, 5), jdisp(5, 19)),
		instr(insts.OpCBNZ, regX(0, 5), jdisp(5, 19)))

	tbFields := []Bitfield{BF(31, 1), BF(19, 5)}
	tb := mask(24, 1,
		instr(insts.OpTBZ, regSf(0), uimmFields(tbFields, insts.PrimByte), jdisp(5, 14)),
		instr(insts.OpTBNZ, regSf(0), uimmFields(tbFields, insts.PrimByte), jdisp(5, 14)))

	excImm := uimm(5, 16, insts.PrimHalfword)
	exceptions := sel([]Bitfield{BF(2, 3)}, eq(0),
		sparse(21, 3, invalid, map[uint32]decoder{
			0: sparse(0, 2, invalid, map[uint32]decoder{
				1: instr(insts.OpSVC, excImm),
				2: instr(insts.OpHVC, excImm),
				3: instr(insts.OpSMC, excImm),
			}),
			1: sel([]Bitfield{BF(0, 2)}, eq(0), instr(insts.OpBRK, excImm), invalid),
			2: sel([]Bitfield{BF(0, 2)}, eq(0), instr(insts.OpHLT, excImm), invalid),
			5: nyi("dcps"),
		}),
		invalid)

	hints := sparse(5, 7, nyi("hint"), map[uint32]decoder{
		0: instr(insts.OpNOP),
		1: instr(insts.OpYIELD),
		2: instr(insts.OpWFE),
		3: instr(insts.OpWFI),
		4: instr(insts.OpSEV),
		5: instr(insts.OpSEVL),
	})
	barriers := sparse(5, 3, nyi("system"), map[uint32]decoder{
		2: instr(insts.OpCLREX, uimm(8, 4, insts.PrimByte)),
		4: instr(insts.OpDSB, barrierOp(8)),
		5: instr(insts.OpDMB, barrierOp(8)),
		6: instr(insts.OpISB, barrierOp(8)),
	})
	msr := instr(insts.OpMSR, sysregImm, regX(0, 5))
	mrs := instr(insts.OpMRS, regX(0, 5), sysregImm)
	system := mask(19, 3,
		sparse(12, 4, invalid, map[uint32]decoder{
			2: hints,
			3: barriers,
			4: nyi("msr (immediate)"),
		}),
		nyi("sys"),
		msr, msr,
		invalid,
		nyi("sysl"),
		mrs, mrs,
	)

	branchReg := sel([]Bitfield{BF(16, 5), BF(10, 6)}, eq(0x1F<<6),
		sparse(21, 4, invalid, map[uint32]decoder{
			0: sel([]Bitfield{BF(0, 5)}, eq(0), instr(insts.OpBR, regX(5, 5)), invalid),
			1: sel([]Bitfield{BF(0, 5)}, eq(0), instr(insts.OpBLR, regX(5, 5)), invalid),
			2: sel([]Bitfield{BF(0, 5)}, eq(0), instr(insts.OpRET, regX(5, 5)), invalid),
			4: sel([]Bitfield{BF(0, 10)}, eq(0x3E0), instr(insts.OpERET), invalid),
			5: sel([]Bitfield{BF(0, 10)}, eq(0x3E0), instr(insts.OpDRPS), invalid),
		}),
		invalid)

	return mask(29, 3,
		b,
		mask(25, 1, cmpbr32, tb),
		mask(25, 1, bcond, invalid),
		invalid,
		bl,
		mask(25, 1, cmpbr64, tb),
		mask(25, 1, mask(24, 1, exceptions, system), branchReg),
		invalid,
	)
}
