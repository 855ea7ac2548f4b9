package dasm

import "github.com/sarchlab/armdasm/insts"

// 32-bit T32 encodings. The decoders see hw1:hw2 as one word with the
// leading halfword in bits 16..31.

// t32ModImm expands the i:imm3:abcdefgh modified immediate.
func t32ModImm(w uint32, st *decodeState) bool {
	imm12 := (w>>26&1)<<11 | (w>>12&7)<<8 | w&0xFF
	st.push(insts.Imm(int64(DecodeModifiedImm(imm12)), insts.PrimWord))
	return true
}

// t32PlainImm12 extracts the zero-extended i:imm3:imm8 immediate (addw/subw).
var t32PlainImm12 = uimmFields(
	[]Bitfield{BF(26, 1), BF(12, 3), BF(0, 8)}, insts.PrimWord)

// t32Imm16 extracts the imm4:i:imm3:imm8 immediate (movw/movt).
var t32Imm16 = uimmFields(
	[]Bitfield{BF(16, 4), BF(26, 1), BF(12, 3), BF(0, 8)}, insts.PrimWord)

// t32ShiftCtx sets the constant-shift context from type(4..5) and
// imm3:imm2(12..14,6..7). LSL #0 is no shift; ROR #0 encodes RRX.
func t32ShiftCtx(w uint32, st *decodeState) bool {
	ty := w >> 4 & 3
	amt := (w>>12&7)<<2 | w>>6&3
	if ty == 0 && amt == 0 {
		return true
	}
	if ty == 3 && amt == 0 {
		st.shiftType = insts.OpRRX
		st.shiftValue = insts.Imm(1, insts.PrimByte)
		return true
	}
	st.shiftType = shiftOps[ty]
	st.shiftValue = insts.Imm(int64(amt), insts.PrimByte)
	return true
}

// t32Rot sets the optional byte rotation of the extend instructions.
func t32Rot(w uint32, st *decodeState) bool {
	rot := w >> 4 & 3
	if rot != 0 {
		st.shiftType = insts.OpROR
		st.shiftValue = insts.Imm(int64(rot*8), insts.PrimByte)
	}
	return true
}

// t32LsbWidth emits the lsb and width operands of sbfx/ubfx.
func t32LsbWidth(w uint32, st *decodeState) bool {
	lsb := (w>>12&7)<<2 | w>>6&3
	st.push(insts.Imm(int64(lsb), insts.PrimByte))
	st.push(insts.Imm(int64(w&0x1F)+1, insts.PrimByte))
	return true
}

// t32BfLsbWidth emits the lsb and width operands of bfi/bfc, derived from
// the msb field.
func t32BfLsbWidth(w uint32, st *decodeState) bool {
	lsb := (w>>12&7)<<2 | w>>6&3
	msb := w & 0x1F
	if msb < lsb {
		return false
	}
	st.push(insts.Imm(int64(lsb), insts.PrimByte))
	st.push(insts.Imm(int64(msb-lsb+1), insts.PrimByte))
	return true
}

// t32Branch20 resolves the conditional-branch target
// (S:J2:J1:imm6:imm11:0).
var t32Branch20 = jdispT(
	[]Bitfield{BF(26, 1), BF(11, 1), BF(13, 1), BF(16, 6), BF(0, 11)}, 1)

// t32Branch24 resolves the b.w/bl target. I1 and I2 are NOT(J1 XOR S) and
// NOT(J2 XOR S).
func t32Branch24(w uint32, st *decodeState) bool {
	s := w >> 26 & 1
	j1 := w >> 13 & 1
	j2 := w >> 11 & 1
	i1 := ^(j1 ^ s) & 1
	i2 := ^(j2 ^ s) & 1
	imm := uint64(s)<<24 | uint64(i1)<<23 | uint64(i2)<<22 |
		uint64(w>>16&0x3FF)<<12 | uint64(w&0x7FF)<<1
	st.push(insts.AddrOperand{Addr: st.addr + 4 + uint64(signExtend(imm, 25))})
	return true
}

// t32MemSingle builds the load/store single operand: imm12 when bit 23 is
// set, the imm8 P/U/W forms when hw2 bit 11 is set, else register offset.
func t32MemSingle(dt insts.PrimitiveType) mutator {
	return func(w uint32, st *decodeState) bool {
		base := insts.GpReg32(w >> 16 & 0xF)
		if w>>23&1 == 1 {
			o := insts.Imm(int64(w&0xFFF), insts.PrimSDoubleword)
			st.push(insts.MemOperand{Base: base, Offset: &o, DataType: dt})
			return true
		}
		if w>>11&1 == 1 {
			off := int64(w & 0xFF)
			if w>>9&1 == 0 {
				off = -off
			}
			puw := w >> 8 & 7
			o := insts.Imm(off, insts.PrimSDoubleword)
			m := insts.MemOperand{Base: base, Offset: &o, DataType: dt}
			switch puw {
			case 0b100: // negative offset
			case 0b101, 0b111:
				m.PreIndex = true
				st.writeback = true
			case 0b001, 0b011:
				m.PostIndex = true
				st.writeback = true
			default: // unprivileged or undefined
				return false
			}
			st.push(m)
			return true
		}
		if w>>6&0x3F != 0 {
			return false
		}
		idx := insts.GpReg32(w & 0xF)
		st.push(insts.MemOperand{
			Base:        base,
			Index:       &idx,
			IndexExtend: insts.OpLSL,
			IndexShift:  uint8(w >> 4 & 3),
			DataType:    dt,
		})
		return true
	}
}

// t32LitSingle resolves ldr (literal): Align(PC,4) +/- imm12.
func t32LitSingle(w uint32, st *decodeState) bool {
	base := (st.addr + 4) &^ 3
	off := uint64(w & 0xFFF)
	if w>>23&1 == 1 {
		st.push(insts.AddrOperand{Addr: base + off})
	} else {
		st.push(insts.AddrOperand{Addr: base - off})
	}
	return true
}

// memT32Ex builds the [Rn, #imm8*4] operand of strex/ldrex.
func memT32Ex(w uint32, st *decodeState) bool {
	o := insts.Imm(int64(w&0xFF)<<2, insts.PrimSDoubleword)
	st.push(insts.MemOperand{
		Base:     insts.GpReg32(w >> 16 & 0xF),
		Offset:   &o,
		DataType: insts.PrimWord,
	})
	return true
}

// memT32Dual builds the ldrd/strd operand from the P/U/W bits.
func memT32Dual(w uint32, st *decodeState) bool {
	off := int64(w&0xFF) << 2
	if w>>23&1 == 0 {
		off = -off
	}
	p := w>>24&1 == 1
	wb := w>>21&1 == 1
	o := insts.Imm(off, insts.PrimSDoubleword)
	st.push(insts.MemOperand{
		Base:      insts.GpReg32(w >> 16 & 0xF),
		Offset:    &o,
		PreIndex:  p && wb,
		PostIndex: !p,
		DataType:  insts.PrimDoubleword,
	})
	st.writeback = wb
	return true
}

// wbBit latches the W bit of the 32-bit ldm/stm forms.
func wbBit(pos uint8) mutator {
	return func(w uint32, st *decodeState) bool {
		st.writeback = w>>pos&1 == 1
		return true
	}
}

var t32Root32 = buildT32Root32()

func buildT32Root32() decoder {
	return mask(27, 2,
		invalid,
		mask(25, 2,
			buildT32MultiDual(),
			buildT32DpShifted(),
			nyi("coprocessor"),
			nyi("coprocessor"),
		),
		mask(15, 1,
			mask(25, 1, buildT32DpModImm(), buildT32DpPlainImm()),
			buildT32BranchesMisc(),
		),
		mask(24, 3,
			buildT32LdStSingle(false),
			buildT32LdStSingle(true),
			buildT32DpReg(),
			mask(23, 1, buildT32Multiply(), buildT32MultiplyLong()),
			nyi("coprocessor/advanced simd"),
			nyi("coprocessor/advanced simd"),
			nyi("coprocessor/advanced simd"),
			nyi("coprocessor/advanced simd"),
		),
	)
}

func buildT32MultiDual() decoder {
	rt := regW(12, 4)
	rt2 := regW(8, 4)
	rn := regW(16, 4)
	stm := func(op insts.Op) decoder {
		return instr(op, rn, wbBit(21), regList(0, 16, 0xFF, 0))
	}
	strd := instr(insts.OpSTRD, rt, rt2, memT32Dual)
	ldrd := instr(insts.OpLDRD, rt, rt2, memT32Dual)
	children := map[uint32]decoder{
		4:  instr(insts.OpSTREX, rt2, rt, memT32Ex),
		5:  instr(insts.OpLDREX, rt, memT32Ex),
		8:  stm(insts.OpSTM),
		9:  stm(insts.OpLDM),
		10: stm(insts.OpSTM),
		11: stm(insts.OpLDM),
		13: nyi("tbb/tbh"),
		16: stm(insts.OpSTMDB),
		17: stm(insts.OpLDMDB),
		18: stm(insts.OpSTMDB),
		19: stm(insts.OpLDMDB),
	}
	for _, v := range []uint32{6, 14, 20, 22, 28, 30} {
		children[v] = strd
	}
	for _, v := range []uint32{7, 15, 21, 23, 29, 31} {
		children[v] = ldrd
	}
	return sparse(20, 5, invalid, children)
}

// aliasRdS matches the rd:S pattern selecting tst/teq/cmn/cmp aliases.
func aliasRdS(v uint64) bool { return v == 0x1F }

func buildT32DpModImm() decoder {
	rd := regW(8, 4)
	rn := regW(16, 4)
	rdS := []Bitfield{BF(8, 4), BF(20, 1)}
	rnF := []Bitfield{BF(16, 4)}
	full := func(op insts.Op) decoder {
		return instr(op, sBit(20), rd, rn, t32ModImm)
	}
	test := func(op insts.Op) decoder {
		return instr(op, uf, rn, t32ModImm)
	}
	moveOp := func(op insts.Op) decoder {
		return instr(op, sBit(20), rd, t32ModImm)
	}
	return sparse(21, 4, invalid, map[uint32]decoder{
		0:  sel(rdS, aliasRdS, test(insts.OpTST), full(insts.OpAND)),
		1:  full(insts.OpBIC),
		2:  sel(rnF, eq(0xF), moveOp(insts.OpMOV), full(insts.OpORR)),
		3:  sel(rnF, eq(0xF), moveOp(insts.OpMVN), full(insts.OpORN)),
		4:  sel(rdS, aliasRdS, test(insts.OpTEQ), full(insts.OpEOR)),
		8:  sel(rdS, aliasRdS, test(insts.OpCMN), full(insts.OpADD)),
		10: full(insts.OpADC),
		11: full(insts.OpSBC),
		13: sel(rdS, aliasRdS, test(insts.OpCMP), full(insts.OpSUB)),
		14: full(insts.OpRSB),
	})
}

func buildT32DpPlainImm() decoder {
	rd := regW(8, 4)
	rn := regW(16, 4)
	return sparse(20, 5, invalid, map[uint32]decoder{
		0:  instr(insts.OpADD, rd, rn, t32PlainImm12),
		4:  instr(insts.OpMOV, rd, t32Imm16),
		10: instr(insts.OpSUB, rd, rn, t32PlainImm12),
		12: instr(insts.OpMOVT, rd, t32Imm16),
		16: nyi("ssat"),
		18: nyi("ssat16"),
		20: instr(insts.OpSBFX, rd, rn, t32LsbWidth),
		22: sel([]Bitfield{BF(16, 4)}, eq(0xF),
			instr(insts.OpBFC, rd, t32BfLsbWidth),
			instr(insts.OpBFI, rd, rn, t32BfLsbWidth)),
		24: nyi("usat"),
		26: nyi("usat16"),
		28: instr(insts.OpUBFX, rd, rn, t32LsbWidth),
	})
}

func buildT32DpShifted() decoder {
	rd := regW(8, 4)
	rn := regW(16, 4)
	rm := regW(0, 4)
	rdS := []Bitfield{BF(8, 4), BF(20, 1)}
	rnF := []Bitfield{BF(16, 4)}
	full := func(op insts.Op) decoder {
		return instr(op, sBit(20), rd, rn, rm, t32ShiftCtx)
	}
	test := func(op insts.Op) decoder {
		return instr(op, uf, rn, rm, t32ShiftCtx)
	}
	moveOp := func(op insts.Op) decoder {
		return instr(op, sBit(20), rd, rm, t32ShiftCtx)
	}
	return sparse(21, 4, invalid, map[uint32]decoder{
		0:  sel(rdS, aliasRdS, test(insts.OpTST), full(insts.OpAND)),
		1:  full(insts.OpBIC),
		2:  sel(rnF, eq(0xF), moveOp(insts.OpMOV), full(insts.OpORR)),
		3:  sel(rnF, eq(0xF), moveOp(insts.OpMVN), full(insts.OpORN)),
		4:  sel(rdS, aliasRdS, test(insts.OpTEQ), full(insts.OpEOR)),
		6:  nyi("pkhbt/pkhtb"),
		8:  sel(rdS, aliasRdS, test(insts.OpCMN), full(insts.OpADD)),
		10: full(insts.OpADC),
		11: full(insts.OpSBC),
		13: sel(rdS, aliasRdS, test(insts.OpCMP), full(insts.OpSUB)),
		14: full(insts.OpRSB),
	})
}

func buildT32BranchesMisc() decoder {
	hints := sel([]Bitfield{BF(8, 8)}, eq(0x80),
		sparse(0, 8, nyi("hint"), map[uint32]decoder{
			0: instr(insts.OpNOP),
			1: instr(insts.OpYIELD),
			2: instr(insts.OpWFE),
			3: instr(insts.OpWFI),
			4: instr(insts.OpSEV),
		}),
		invalid)
	barriers := sparse(4, 4, nyi("misc control"), map[uint32]decoder{
		2: instr(insts.OpCLREX),
		4: instr(insts.OpDSB, barrierOp(0)),
		5: instr(insts.OpDMB, barrierOp(0)),
		6: instr(insts.OpISB, barrierOp(0)),
	})
	miscCtl := sparse(20, 6, invalid, map[uint32]decoder{
		0x38: instr(insts.OpMSR, uimm(0, 8, insts.PrimByte), regW(16, 4)),
		0x39: instr(insts.OpMSR, uimm(0, 8, insts.PrimByte), regW(16, 4)),
		0x3A: hints,
		0x3B: barriers,
		0x3E: instr(insts.OpMRS, regW(8, 4), uimm(0, 8, insts.PrimByte)),
		0x3F: instr(insts.OpMRS, regW(8, 4), uimm(0, 8, insts.PrimByte)),
	})
	bcond := sel([]Bitfield{BF(23, 3)}, eq(7),
		miscCtl,
		instr(insts.OpB, setCond(22), t32Branch20))
	bw := instr(insts.OpB, t32Branch24)
	bl := instr(insts.OpBL, t32Branch24)
	return mask(12, 3,
		bcond,
		bw,
		bcond,
		bw,
		nyi("blx (immediate)"),
		bl,
		nyi("blx (immediate)"),
		bl,
	)
}

func buildT32LdStSingle(signed bool) decoder {
	rt := regW(12, 4)
	form := func(dt insts.PrimitiveType, stOp, ldOp insts.Op) decoder {
		load := sel([]Bitfield{BF(16, 4)}, eq(0xF),
			instr(ldOp, rt, t32LitSingle),
			instr(ldOp, rt, t32MemSingle(dt)))
		var store decoder = invalid
		if stOp != insts.OpInvalid {
			store = instr(stOp, rt, t32MemSingle(dt))
		}
		return mask(20, 1, store, load)
	}
	if !signed {
		return mask(21, 2,
			form(insts.PrimByte, insts.OpSTRB, insts.OpLDRB),
			form(insts.PrimHalfword, insts.OpSTRH, insts.OpLDRH),
			form(insts.PrimWord, insts.OpSTR, insts.OpLDR),
			invalid,
		)
	}
	return mask(21, 2,
		form(insts.PrimSByte, insts.OpInvalid, insts.OpLDRSB),
		form(insts.PrimSHalfword, insts.OpInvalid, insts.OpLDRSH),
		invalid,
		invalid,
	)
}

func buildT32DpReg() decoder {
	rd := regW(8, 4)
	rn := regW(16, 4)
	rm := regW(0, 4)
	shiftVar := func(op insts.Op, s bool) decoder {
		ms := []mutator{rd, rn, rm}
		if s {
			ms = append([]mutator{uf}, ms...)
		}
		return sel([]Bitfield{BF(4, 4)}, eq(0), instr(op, ms...), invalid)
	}
	extend := func(op insts.Op) decoder {
		return sel([]Bitfield{BF(16, 4)}, eq(0xF),
			instr(op, rd, rm, t32Rot),
			nyi("extend and add"))
	}
	shiftOrExtend := func(shiftOp insts.Op, s bool, extOp insts.Op) decoder {
		ext := invalid
		if extOp != insts.OpInvalid {
			ext = extend(extOp)
		}
		ms := []mutator{rd, rn, rm}
		if s {
			ms = append([]mutator{uf}, ms...)
		}
		return sel([]Bitfield{BF(4, 4)}, eq(0), instr(shiftOp, ms...), ext)
	}
	miscReg := sparse(4, 4, invalid, map[uint32]decoder{
		8:  instr(insts.OpREV, rd, rm),
		9:  instr(insts.OpREV16, rd, rm),
		10: instr(insts.OpRBIT, rd, rm),
		11: instr(insts.OpREVSH, rd, rm),
	})
	return sparse(20, 4, invalid, map[uint32]decoder{
		0:  shiftOrExtend(insts.OpLSL, false, insts.OpSXTH),
		1:  shiftOrExtend(insts.OpLSL, true, insts.OpUXTH),
		2:  shiftVar(insts.OpLSR, false),
		3:  shiftVar(insts.OpLSR, true),
		4:  shiftOrExtend(insts.OpASR, false, insts.OpSXTB),
		5:  shiftOrExtend(insts.OpASR, true, insts.OpUXTB),
		6:  shiftVar(insts.OpROR, false),
		7:  shiftVar(insts.OpROR, true),
		9:  miscReg,
		11: sel([]Bitfield{BF(4, 4)}, eq(8), instr(insts.OpCLZ, rd, rm), invalid),
	})
}

func buildT32Multiply() decoder {
	rd := regW(8, 4)
	rn := regW(16, 4)
	rm := regW(0, 4)
	ra := regW(12, 4)
	mulOrMla := sel([]Bitfield{BF(12, 4)}, eq(0xF),
		instr(insts.OpMUL, rd, rn, rm),
		instr(insts.OpMLA, rd, rn, rm, ra))
	return sparse(20, 3, nyi("dsp multiply"), map[uint32]decoder{
		0: sparse(4, 4, invalid, map[uint32]decoder{
			0: mulOrMla,
			1: instr(insts.OpMLS, rd, rn, rm, ra),
		}),
	})
}

func buildT32MultiplyLong() decoder {
	rdlo := regW(12, 4)
	rdhi := regW(8, 4)
	rn := regW(16, 4)
	rm := regW(0, 4)
	long := func(op insts.Op) decoder {
		return sel([]Bitfield{BF(4, 4)}, eq(0),
			instr(op, rdlo, rdhi, rn, rm),
			invalid)
	}
	div := func(op insts.Op) decoder {
		return sel([]Bitfield{BF(4, 4)}, eq(0xF),
			instr(op, rdhi, rn, rm),
			invalid)
	}
	return sparse(20, 3, nyi("long multiply"), map[uint32]decoder{
		0: long(insts.OpSMULL),
		1: div(insts.OpSDIV),
		2: long(insts.OpUMULL),
		3: div(insts.OpUDIV),
		4: long(insts.OpSMLAL),
		6: long(insts.OpUMLAL),
	})
}
