package dasm

import "github.com/sarchlab/armdasm/insts"

// Operand mutators. Each constructor captures its bit positions and returns
// a closure that appends operands (or updates context) for one leaf. The
// naming follows the operand grammar: reg* for register fields, uimm/simm
// for immediates, mem* for addressing modes, and lowercase context setters.

func (st *decodeState) push(op insts.Operand) {
	st.ops = append(st.ops, op)
}

// regW extracts a 32-bit GP register from a field.
func regW(pos, length uint8) mutator {
	bf := BF(pos, length)
	return func(w uint32, st *decodeState) bool {
		st.push(insts.Reg(insts.GpReg32(bf.Read(w))))
		return true
	}
}

// regX extracts a 64-bit GP register from a field.
func regX(pos, length uint8) mutator {
	bf := BF(pos, length)
	return func(w uint32, st *decodeState) bool {
		st.push(insts.Reg(insts.GpReg64(bf.Read(w))))
		return true
	}
}

// regSf extracts a GP register whose width follows the sf bit (31).
func regSf(pos uint8) mutator {
	bf := BF(pos, 5)
	return func(w uint32, st *decodeState) bool {
		if w>>31 == 1 {
			st.push(insts.Reg(insts.GpReg64(bf.Read(w))))
		} else {
			st.push(insts.Reg(insts.GpReg32(bf.Read(w))))
		}
		return true
	}
}

// regSimd extracts a SIMD register of a fixed family.
func regSimd(fam insts.RegFamily, pos uint8) mutator {
	bf := BF(pos, 5)
	return func(w uint32, st *decodeState) bool {
		st.push(insts.Reg(insts.SimdReg(fam, bf.Read(w))))
		return true
	}
}

// regV extracts a SIMD register sized by the previously set Q context bit.
func regV(pos uint8) mutator {
	bf := BF(pos, 5)
	return func(w uint32, st *decodeState) bool {
		fam := insts.FamSIMD64
		if st.useQ {
			fam = insts.FamSIMD128
		}
		st.push(insts.Reg(insts.SimdReg(fam, bf.Read(w))))
		return true
	}
}

// fpFamily maps the scalar FP type field (bits 22..23) to a register family.
// Type 2 is unallocated.
var fpFamily = [4]insts.RegFamily{
	insts.FamSIMD32, insts.FamSIMD64, insts.FamNone, insts.FamSIMD16,
}

var fpType = [4]insts.PrimitiveType{
	insts.PrimReal32, insts.PrimReal64, insts.PrimNone, insts.PrimReal16,
}

// regFp extracts a scalar FP register sized by the type field at bit 22.
func regFp(pos uint8) mutator {
	bf := BF(pos, 5)
	return func(w uint32, st *decodeState) bool {
		fam := fpFamily[w>>22&3]
		if fam == insts.FamNone {
			return false
		}
		st.push(insts.Reg(insts.SimdReg(fam, bf.Read(w))))
		return true
	}
}

// uimm extracts an unsigned immediate.
func uimm(pos, length uint8, width insts.PrimitiveType) mutator {
	return uimmScaled(pos, length, width, 0)
}

// uimmScaled extracts an unsigned immediate and shifts it left by scale.
func uimmScaled(pos, length uint8, width insts.PrimitiveType, scale uint) mutator {
	bf := BF(pos, length)
	return func(w uint32, st *decodeState) bool {
		st.push(insts.Imm(int64(bf.Read(w))<<scale, width))
		return true
	}
}

// simm extracts a sign-extended immediate.
func simm(pos, length uint8, width insts.PrimitiveType) mutator {
	bf := BF(pos, length)
	return func(w uint32, st *decodeState) bool {
		st.push(insts.Imm(bf.ReadSigned(w), width))
		return true
	}
}

// uimmFields extracts an unsigned immediate from concatenated fields.
func uimmFields(fields []Bitfield, width insts.PrimitiveType) mutator {
	return func(w uint32, st *decodeState) bool {
		st.push(insts.Imm(int64(ReadFields(fields, w)), width))
		return true
	}
}

// fpimm expands the 8-bit packed FP literal at pos into an IEEE bit pattern
// of the given width (PrimReal16/32/64).
func fpimm(pos uint8, width insts.PrimitiveType) mutator {
	bf := BF(pos, 8)
	return func(w uint32, st *decodeState) bool {
		imm8 := bf.Read(w)
		var v int64
		switch width {
		case insts.PrimReal16:
			v = int64(ExpandFPImm16(imm8))
		case insts.PrimReal32:
			v = int64(ExpandFPImm32(imm8))
		default:
			v = int64(ExpandFPImm64(imm8))
		}
		st.push(insts.Imm(v, width))
		return true
	}
}

// fpimmTyped expands the literal using the scalar type field at bit 22.
func fpimmTyped(pos uint8) mutator {
	return func(w uint32, st *decodeState) bool {
		ty := fpType[w>>22&3]
		if ty == insts.PrimNone {
			return false
		}
		return fpimm(pos, ty)(w, st)
	}
}

// pcRel computes an address from sign-extended concatenated fields, scaled
// and added to the instruction address.
func pcRel(fields []Bitfield, scale uint) mutator {
	return func(w uint32, st *decodeState) bool {
		disp := ReadScaledSignedFields(fields, w, scale)
		st.push(insts.AddrOperand{Addr: st.addr + uint64(disp)})
		return true
	}
}

// pcRelPage is pcRel with the base address aligned down to a 4KiB page
// (adrp).
func pcRelPage(fields []Bitfield) mutator {
	return func(w uint32, st *decodeState) bool {
		disp := ReadScaledSignedFields(fields, w, 12)
		st.push(insts.AddrOperand{Addr: st.addr&^0xFFF + uint64(disp)})
		return true
	}
}

// jdisp computes a branch target: address + (signed field << 2).
func jdisp(pos, length uint8) mutator {
	bf := BF(pos, length)
	return func(w uint32, st *decodeState) bool {
		st.push(insts.AddrOperand{Addr: st.addr + uint64(bf.ReadSigned(w)<<2)})
		return true
	}
}

// setCond sets the record's condition from a 4-bit field.
func setCond(pos uint8) mutator {
	bf := BF(pos, 4)
	return func(w uint32, st *decodeState) bool {
		st.cond = insts.Cond(bf.Read(w))
		return true
	}
}

// condOp appends an explicit condition-code operand.
func condOp(pos uint8) mutator {
	bf := BF(pos, 4)
	return func(w uint32, st *decodeState) bool {
		st.push(insts.CondOperand{Cond: insts.Cond(bf.Read(w))})
		return true
	}
}

// barrierOp appends a barrier domain operand from a 4-bit field.
func barrierOp(pos uint8) mutator {
	bf := BF(pos, 4)
	return func(w uint32, st *decodeState) bool {
		st.push(insts.BarrierOperand{Option: insts.BarrierOption(bf.Read(w))})
		return true
	}
}

// uf marks the instruction as flag-setting.
func uf(w uint32, st *decodeState) bool {
	st.setFlags = true
	return true
}

// wq latches the Q bit for following regV operands.
func wq(pos uint8) mutator {
	return func(w uint32, st *decodeState) bool {
		st.useQ = w>>pos&1 == 1
		return true
	}
}

// arrInt sets the vector arrangement from the SIMD size field.
func arrInt(pos uint8) mutator {
	return func(w uint32, st *decodeState) bool {
		size := w >> pos & 3
		if size == 3 && !st.useQ {
			return false
		}
		st.vec = insts.VecInt(size)
		return true
	}
}

// arrFloat sets the vector arrangement from the fp sz bit.
func arrFloat(pos uint8) mutator {
	return func(w uint32, st *decodeState) bool {
		sz := w >> pos & 1
		if sz == 1 && !st.useQ {
			return false
		}
		st.vec = insts.VecFloat(sz)
		return true
	}
}

var shiftOps = [4]insts.Op{insts.OpLSL, insts.OpLSR, insts.OpASR, insts.OpROR}

// shiftCtx sets the shift context from a type and an amount field. A zero
// LSL is treated as no shift. rorOK excludes ROR for add/sub forms.
func shiftCtx(typePos, amtPos, amtLen uint8, rorOK bool) mutator {
	amt := BF(amtPos, amtLen)
	return func(w uint32, st *decodeState) bool {
		ty := w >> typePos & 3
		if ty == 3 && !rorOK {
			return false
		}
		a := amt.Read(w)
		if ty == 0 && a == 0 {
			return true
		}
		st.shiftType = shiftOps[ty]
		st.shiftValue = insts.Imm(int64(a), insts.PrimByte)
		return true
	}
}

// shiftLSL16 sets an LSL shift of hw*16 from the move-wide hw field.
func shiftLSL16(pos uint8) mutator {
	return func(w uint32, st *decodeState) bool {
		hw := w >> pos & 3
		if w>>31 == 0 && hw > 1 {
			return false
		}
		if hw != 0 {
			st.shiftType = insts.OpLSL
			st.shiftValue = insts.Imm(int64(hw*16), insts.PrimByte)
		}
		return true
	}
}

var extendOps = [8]insts.Op{
	insts.OpUXTB, insts.OpUXTH, insts.OpUXTW, insts.OpUXTX,
	insts.OpSXTB, insts.OpSXTH, insts.OpSXTW, insts.OpSXTX,
}

// extCtx sets the extended-register context from option and amount fields.
func extCtx(optPos, amtPos, amtLen uint8) mutator {
	amt := BF(amtPos, amtLen)
	return func(w uint32, st *decodeState) bool {
		a := amt.Read(w)
		if a > 4 {
			return false
		}
		st.shiftType = extendOps[w>>optPos&7]
		st.shiftValue = insts.Imm(int64(a), insts.PrimByte)
		return true
	}
}

// bm validates and extracts an A64 bitmask immediate, emitting immr and imms
// as two integer operands.
func bm(width uint) mutator {
	return func(w uint32, st *decodeState) bool {
		n := w >> 22 & 1
		immr := w >> 16 & 0x3F
		imms := w >> 10 & 0x3F
		if _, ok := DecodeLogicalImm(n, immr, imms, width); !ok {
			return false
		}
		st.push(insts.Imm(int64(immr), insts.PrimByte))
		st.push(insts.Imm(int64(imms), insts.PrimByte))
		return true
	}
}

// memUOff builds an unsigned-offset memory operand; the offset field scales
// by the data size.
func memUOff(dt insts.PrimitiveType, basePos, offPos, offLen uint8) mutator {
	base := BF(basePos, 5)
	off := BF(offPos, offLen)
	return func(w uint32, st *decodeState) bool {
		o := insts.Imm(int64(off.Read(w))<<log2(dt.Size()), insts.PrimSDoubleword)
		st.push(insts.MemOperand{
			Base:     insts.GpReg64(base.Read(w)),
			Offset:   &o,
			DataType: dt,
		})
		return true
	}
}

// memUnscaled builds the 9-bit signed unscaled-offset operand (ldur/stur).
func memUnscaled(dt insts.PrimitiveType) mutator {
	off := BF(12, 9)
	return func(w uint32, st *decodeState) bool {
		o := insts.Imm(off.ReadSigned(w), insts.PrimSDoubleword)
		st.push(insts.MemOperand{
			Base:     insts.GpReg64(w >> 5 & 0x1F),
			Offset:   &o,
			DataType: dt,
		})
		return true
	}
}

// memIndexed builds the pre/post-indexed 9-bit immediate operand and sets
// writeback.
func memIndexed(dt insts.PrimitiveType, post bool) mutator {
	off := BF(12, 9)
	return func(w uint32, st *decodeState) bool {
		o := insts.Imm(off.ReadSigned(w), insts.PrimSDoubleword)
		st.push(insts.MemOperand{
			Base:      insts.GpReg64(w >> 5 & 0x1F),
			Offset:    &o,
			PreIndex:  !post,
			PostIndex: post,
			DataType:  dt,
		})
		st.writeback = true
		return true
	}
}

// pairMode selects the addressing flavor of a load/store pair operand.
type pairMode uint8

const (
	pairSigned pairMode = iota
	pairPre
	pairPost
)

// memPair builds the 7-bit scaled pair offset operand.
func memPair(dt insts.PrimitiveType, mode pairMode) mutator {
	off := BF(15, 7)
	return func(w uint32, st *decodeState) bool {
		o := insts.Imm(off.ReadSigned(w)<<log2(dt.Size()), insts.PrimSDoubleword)
		st.push(insts.MemOperand{
			Base:      insts.GpReg64(w >> 5 & 0x1F),
			Offset:    &o,
			PreIndex:  mode == pairPre,
			PostIndex: mode == pairPost,
			DataType:  dt,
		})
		if mode != pairSigned {
			st.writeback = true
		}
		return true
	}
}

// memLit resolves literal-pool addressing to an absolute address.
func memLit() mutator {
	off := BF(5, 19)
	return func(w uint32, st *decodeState) bool {
		st.push(insts.AddrOperand{Addr: st.addr + uint64(off.ReadSigned(w)<<2)})
		return true
	}
}

// memReg builds the register-offset operand. The option field selects the
// index extension; only uxtw, lsl, sxtw and sxtx are allocated.
func memReg(dt insts.PrimitiveType) mutator {
	return func(w uint32, st *decodeState) bool {
		option := w >> 13 & 7
		var ext insts.Op
		switch option {
		case 2:
			ext = insts.OpUXTW
		case 3:
			ext = insts.OpLSL
		case 6:
			ext = insts.OpSXTW
		case 7:
			ext = insts.OpSXTX
		default:
			return false
		}
		var shift uint8
		if w>>12&1 == 1 {
			shift = uint8(log2(dt.Size()))
		}
		var idx insts.RegisterID
		if option&1 == 1 {
			idx = insts.GpReg64(w >> 16 & 0x1F)
		} else {
			idx = insts.GpReg32(w >> 16 & 0x1F)
		}
		st.push(insts.MemOperand{
			Base:        insts.GpReg64(w >> 5 & 0x1F),
			Index:       &idx,
			IndexExtend: ext,
			IndexShift:  shift,
			DataType:    dt,
		})
		return true
	}
}

// log2 of the power-of-two data sizes used by memory scaling.
func log2(n uint) uint {
	var s uint
	for n > 1 {
		n >>= 1
		s++
	}
	return s
}
