package dasm

import "github.com/sarchlab/armdasm/insts"

// arrFixed sets a fixed vector arrangement.
func arrFixed(v insts.VectorKind) mutator {
	return func(w uint32, st *decodeState) bool {
		st.vec = v
		return true
	}
}

// fpZero appends the #0.0 comparand of fcmp with a typed zero immediate.
func fpZero(w uint32, st *decodeState) bool {
	ty := fpType[w>>22&3]
	if ty == insts.PrimNone {
		return false
	}
	st.push(insts.Imm(0, ty))
	return true
}

// regFpCvtDst extracts the fcvt destination register, typed by the low two
// opcode bits rather than the source type field.
func regFpCvtDst(pos uint8) mutator {
	bf := BF(pos, 5)
	return func(w uint32, st *decodeState) bool {
		fam := fpFamily[w>>15&3]
		if fam == insts.FamNone {
			return false
		}
		st.push(insts.Reg(insts.SimdReg(fam, bf.Read(w))))
		return true
	}
}

// simdModImm expands the abc:defgh immediate through the cmode/op table.
func simdModImm(w uint32, st *decodeState) bool {
	cmode := w >> 12 & 0xF
	op := w >> 29 & 1
	imm8 := (w>>16&7)<<5 | w>>5&0x1F
	v, ok := DecodeSIMDModifiedImm(cmode, op, imm8)
	if !ok {
		return false
	}
	st.push(insts.Imm(int64(v), insts.PrimDoubleword))
	return true
}

// buildA64FpGroup covers the encodings with bits 25..28 = 1111: scalar
// floating point, FP/int conversions and the scalar SIMD space.
func buildA64FpGroup() decoder {
	conv := sel([]Bitfield{BF(29, 1), BF(30, 1)}, eq(0),
		sparse(16, 5, nyi("fp/int conversion"), map[uint32]decoder{
			2:  instr(insts.OpSCVTF, regFp(0), regSf(5)),
			3:  instr(insts.OpUCVTF, regFp(0), regSf(5)),
			6:  instr(insts.OpFMOV, regSf(0), regFp(5)),
			7:  instr(insts.OpFMOV, regFp(0), regSf(5)),
			14: nyi("fmov (top half)"),
			15: nyi("fmov (top half)"),
			24: instr(insts.OpFCVTZS, regSf(0), regFp(5)),
			25: instr(insts.OpFCVTZU, regSf(0), regFp(5)),
		}),
		invalid)

	scalarGuard := func(d decoder) decoder {
		return sel([]Bitfield{BF(29, 3)}, eq(0), d, invalid)
	}

	fcmp := scalarGuard(sparse(0, 5, invalid, map[uint32]decoder{
		0:  instr(insts.OpFCMP, regFp(5), regFp(16)),
		8:  instr(insts.OpFCMP, regFp(5), fpZero),
		16: instr(insts.OpFCMPE, regFp(5), regFp(16)),
		24: instr(insts.OpFCMPE, regFp(5), fpZero),
	}))

	one := func(op insts.Op) decoder {
		return instr(op, regFp(0), regFp(5))
	}
	oneSource := scalarGuard(sparse(15, 6, nyi("fp data processing 1-source"),
		map[uint32]decoder{
			0: one(insts.OpFMOV),
			1: one(insts.OpFABS),
			2: one(insts.OpFNEG),
			3: one(insts.OpFSQRT),
			4: instr(insts.OpFCVT, regFpCvtDst(0), regFp(5)),
			5: instr(insts.OpFCVT, regFpCvtDst(0), regFp(5)),
			7: instr(insts.OpFCVT, regFpCvtDst(0), regFp(5)),
		}))

	fpImm := scalarGuard(sel([]Bitfield{BF(5, 5)}, eq(0),
		instr(insts.OpFMOV, regFp(0), fpimmTyped(13)),
		invalid))

	two := func(op insts.Op) decoder {
		return instr(op, regFp(0), regFp(5), regFp(16))
	}
	twoSource := scalarGuard(sparse(12, 4, invalid, map[uint32]decoder{
		0: two(insts.OpFMUL),
		1: two(insts.OpFDIV),
		2: two(insts.OpFADD),
		3: two(insts.OpFSUB),
		4: two(insts.OpFMAX),
		5: two(insts.OpFMIN),
		6: two(insts.OpFMAXNM),
		7: two(insts.OpFMINNM),
		8: two(insts.OpFNMUL),
	}))

	fcsel := scalarGuard(instr(insts.OpFCSEL,
		regFp(0), regFp(5), regFp(16), condOp(12)))

	fpCore := sel([]Bitfield{BF(21, 1)}, eq(1),
		mask(10, 2,
			sparse(12, 4, invalid, map[uint32]decoder{
				0:  conv,
				1:  fpImm,
				2:  fcmp,
				3:  fpImm,
				4:  oneSource,
				5:  fpImm,
				7:  fpImm,
				9:  fpImm,
				11: fpImm,
				12: oneSource,
				13: fpImm,
				15: fpImm,
			}),
			nyi("fp conditional compare"),
			twoSource,
			fcsel,
		),
		nyi("fp/int fixed-point conversion"))

	return mask(24, 1,
		fpCore,
		nyi("advanced simd scalar"),
	)
}

// buildA64SimdGroup covers the encodings with bits 25..28 = 0111: vector
// three-same operations and the modified-immediate group.
func buildA64SimdGroup() decoder {
	intOp := func(op insts.Op) decoder {
		return instr(op, wq(30), arrInt(22), regV(0), regV(5), regV(16))
	}
	logicOp := func(op insts.Op) decoder {
		return instr(op, wq(30), arrFixed(insts.VecI8), regV(0), regV(5), regV(16))
	}
	fpOp := func(op insts.Op) decoder {
		return instr(op, wq(30), arrFloat(22), regV(0), regV(5), regV(16))
	}

	threeSameU0 := sparse(11, 5, nyi("simd three-same"), map[uint32]decoder{
		0b00011: mask(22, 2,
			logicOp(insts.OpVAND),
			logicOp(insts.OpVBIC),
			logicOp(insts.OpVORR),
			logicOp(insts.OpVORN)),
		0b10000: intOp(insts.OpVADD),
		0b10011: intOp(insts.OpVMUL),
		0b11010: mask(23, 1, fpOp(insts.OpVFADD), fpOp(insts.OpVFSUB)),
		0b11110: mask(23, 1, fpOp(insts.OpVFMAX), fpOp(insts.OpVFMIN)),
	})
	threeSameU1 := sparse(11, 5, nyi("simd three-same"), map[uint32]decoder{
		0b00011: mask(22, 2,
			logicOp(insts.OpVEOR),
			logicOp(insts.OpVBSL),
			logicOp(insts.OpVBIT),
			logicOp(insts.OpVBIF)),
		0b10000: intOp(insts.OpVSUB),
		0b11011: mask(23, 1, fpOp(insts.OpVFMUL), invalid),
		0b11111: mask(23, 1, fpOp(insts.OpVFDIV), invalid),
	})

	mi := func(op insts.Op, vec insts.VectorKind) decoder {
		return instr(op, wq(30), arrFixed(vec), regV(0), simdModImm)
	}
	modImmOp0 := sparse(12, 4, invalid, map[uint32]decoder{
		0:  mi(insts.OpMOVI, insts.VecI32),
		2:  mi(insts.OpMOVI, insts.VecI32),
		4:  mi(insts.OpMOVI, insts.VecI32),
		6:  mi(insts.OpMOVI, insts.VecI32),
		1:  mi(insts.OpVORR, insts.VecI32),
		3:  mi(insts.OpVORR, insts.VecI32),
		5:  mi(insts.OpVORR, insts.VecI32),
		7:  mi(insts.OpVORR, insts.VecI32),
		8:  mi(insts.OpMOVI, insts.VecI16),
		10: mi(insts.OpMOVI, insts.VecI16),
		9:  mi(insts.OpVORR, insts.VecI16),
		11: mi(insts.OpVORR, insts.VecI16),
		12: mi(insts.OpMOVI, insts.VecI32),
		13: mi(insts.OpMOVI, insts.VecI32),
		14: mi(insts.OpMOVI, insts.VecI8),
		15: mi(insts.OpFMOV, insts.VecF32),
	})
	modImmOp1 := sparse(12, 4, invalid, map[uint32]decoder{
		0:  mi(insts.OpMVNI, insts.VecI32),
		2:  mi(insts.OpMVNI, insts.VecI32),
		4:  mi(insts.OpMVNI, insts.VecI32),
		6:  mi(insts.OpMVNI, insts.VecI32),
		1:  mi(insts.OpVBIC, insts.VecI32),
		3:  mi(insts.OpVBIC, insts.VecI32),
		5:  mi(insts.OpVBIC, insts.VecI32),
		7:  mi(insts.OpVBIC, insts.VecI32),
		8:  mi(insts.OpMVNI, insts.VecI16),
		10: mi(insts.OpMVNI, insts.VecI16),
		9:  mi(insts.OpVBIC, insts.VecI16),
		11: mi(insts.OpVBIC, insts.VecI16),
		12: mi(insts.OpMVNI, insts.VecI32),
		13: mi(insts.OpMVNI, insts.VecI32),
		14: mi(insts.OpMOVI, insts.VecI64),
		// cmode=1111 op=1 float expansions stay unspecified.
	})
	modImm := sel([]Bitfield{BF(19, 5)}, eq(0),
		mask(29, 1, modImmOp0, modImmOp1),
		nyi("advanced simd shift by immediate"))

	nonImm := mask(21, 1,
		nyi("advanced simd permute/extract/copy"),
		mask(10, 1,
			nyi("advanced simd three-different / two-register misc"),
			mask(29, 1, threeSameU0, threeSameU1),
		),
	)

	return mask(31, 1,
		mask(24, 1, nonImm, modImm),
		invalid,
	)
}
