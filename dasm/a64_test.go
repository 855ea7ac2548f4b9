package dasm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armdasm/dasm"
	"github.com/sarchlab/armdasm/insts"
)

const a64Base = 0x100000

// decodeA64 decodes a single instruction word placed at a64Base.
func decodeA64(w uint32) insts.Instruction {
	buf := []byte{byte(w), byte(w >> 8), byte(w >> 16), byte(w >> 24)}
	d := dasm.New(dasm.ArchA64, dasm.NewImageReader(buf, a64Base))
	inst, ok := d.DisassembleOne()
	ExpectWithOffset(1, ok).To(BeTrue())
	ExpectWithOffset(1, inst.Length).To(Equal(uint8(4)))
	ExpectWithOffset(1, inst.Address).To(Equal(uint64(a64Base)))
	return inst
}

func x(i uint32) insts.Operand { return insts.Reg(insts.GpReg64(i)) }
func w(i uint32) insts.Operand { return insts.Reg(insts.GpReg32(i)) }

var _ = Describe("A64 decoder", func() {
	Describe("Data processing (immediate)", func() {
		// MOVZ X0, #0 -> 0xD2800000
		It("should decode MOVZ X0, #0", func() {
			inst := decodeA64(0xD2800000)
			Expect(inst.Op).To(Equal(insts.OpMOVZ))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				x(0), insts.Imm(0, insts.PrimDoubleword),
			}))
			Expect(inst.ShiftType).To(Equal(insts.OpInvalid))
		})

		// MOVZ X1, #0x10, LSL #16 -> sf=1 opc=10 hw=01 imm16=0x10 Rd=1
		It("should decode MOVZ with a shifted halfword", func() {
			inst := decodeA64(0xD2A00201)
			Expect(inst.Op).To(Equal(insts.OpMOVZ))
			Expect(inst.Operands[1]).To(Equal(insts.Imm(0x10, insts.PrimDoubleword)))
			Expect(inst.ShiftType).To(Equal(insts.OpLSL))
			Expect(inst.ShiftValue).To(Equal(insts.Imm(16, insts.PrimByte)))
		})

		// ADD W0, W1, #1 -> 0x11000420
		It("should decode ADD W0, W1, #1", func() {
			inst := decodeA64(0x11000420)
			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.UpdateFlags).To(BeFalse())
			Expect(inst.Operands).To(Equal([]insts.Operand{
				w(0), w(1), insts.Imm(1, insts.PrimWord),
			}))
		})

		// ADDS X2, X3, #10 -> 0xB1002862
		It("should decode ADDS X2, X3, #10", func() {
			inst := decodeA64(0xB1002862)
			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.UpdateFlags).To(BeTrue())
			Expect(inst.Operands).To(Equal([]insts.Operand{
				x(2), x(3), insts.Imm(10, insts.PrimDoubleword),
			}))
		})

		// SUB X5, X6, #20 -> 0xD10050C5
		It("should decode SUB X5, X6, #20", func() {
			inst := decodeA64(0xD10050C5)
			Expect(inst.Op).To(Equal(insts.OpSUB))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				x(5), x(6), insts.Imm(20, insts.PrimDoubleword),
			}))
		})

		// ADD X0, X1, #1, LSL #12 -> 0x91400420
		It("should scale the shifted add/sub immediate", func() {
			inst := decodeA64(0x91400420)
			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Operands[2]).To(Equal(insts.Imm(1<<12, insts.PrimDoubleword)))
		})

		// AND W0, W1, #1 -> N=0 immr=0 imms=0
		It("should decode AND with a bitmask immediate", func() {
			inst := decodeA64(0x12000020)
			Expect(inst.Op).To(Equal(insts.OpAND))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				w(0), w(1),
				insts.Imm(0, insts.PrimByte), insts.Imm(0, insts.PrimByte),
			}))
		})

		// Logical immediate with N=1 in 32-bit form is undefined.
		It("should reject a 32-bit bitmask with N=1", func() {
			inst := decodeA64(0x12400020)
			Expect(inst.Op).To(Equal(insts.OpInvalid))
			Expect(inst.Length).To(Equal(uint8(4)))
		})

		// ADR X0, #0 -> 0x10000000
		It("should decode ADR relative to the instruction", func() {
			inst := decodeA64(0x10000000)
			Expect(inst.Op).To(Equal(insts.OpADR))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				x(0), insts.AddrOperand{Addr: a64Base},
			}))
		})

		// ADRP X1, #+1 page -> immlo=1, immhi=0
		It("should decode ADRP against the aligned page", func() {
			inst := decodeA64(0xB0000001)
			Expect(inst.Op).To(Equal(insts.OpADRP))
			Expect(inst.Operands[1]).To(Equal(
				insts.AddrOperand{Addr: a64Base&^0xFFF + 0x1000}))
		})

		// UBFM W0, W1, #4, #7 (ubfx-style field extract)
		It("should decode UBFM with immr and imms operands", func() {
			// sf=0 opc=10 100110 N=0 immr=4 imms=7 Rn=1 Rd=0
			inst := decodeA64(0x53041C20)
			Expect(inst.Op).To(Equal(insts.OpUBFM))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				w(0), w(1),
				insts.Imm(4, insts.PrimByte), insts.Imm(7, insts.PrimByte),
			}))
		})
	})

	Describe("Branches, exceptions, system", func() {
		// RET -> 0xD65F03C0
		It("should decode RET", func() {
			inst := decodeA64(0xD65F03C0)
			Expect(inst.Op).To(Equal(insts.OpRET))
			Expect(inst.Operands).To(Equal([]insts.Operand{x(30)}))
		})

		// B #16 -> 0x14000004
		It("should decode B with a positive target", func() {
			inst := decodeA64(0x14000004)
			Expect(inst.Op).To(Equal(insts.OpB))
			Expect(inst.Cond).To(Equal(insts.CondAL))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.AddrOperand{Addr: a64Base + 16},
			}))
		})

		// BL #-4 -> 0x97FFFFFF
		It("should decode BL with a negative target", func() {
			inst := decodeA64(0x97FFFFFF)
			Expect(inst.Op).To(Equal(insts.OpBL))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.AddrOperand{Addr: a64Base - 4},
			}))
		})

		// B.EQ #8 -> 0x54000040
		It("should decode B.cond with its condition", func() {
			inst := decodeA64(0x54000040)
			Expect(inst.Op).To(Equal(insts.OpB))
			Expect(inst.Cond).To(Equal(insts.CondEQ))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.AddrOperand{Addr: a64Base + 8},
			}))
		})

		// CBZ X1, #8 -> 0xB4000041
		It("should decode CBZ", func() {
			inst := decodeA64(0xB4000041)
			Expect(inst.Op).To(Equal(insts.OpCBZ))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				x(1), insts.AddrOperand{Addr: a64Base + 8},
			}))
		})

		// TBZ W0, #0, #8 -> 0x36000040
		It("should decode TBZ with the bit number", func() {
			inst := decodeA64(0x36000040)
			Expect(inst.Op).To(Equal(insts.OpTBZ))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				w(0), insts.Imm(0, insts.PrimByte),
				insts.AddrOperand{Addr: a64Base + 8},
			}))
		})

		// SVC #0 -> 0xD4000001
		It("should decode SVC", func() {
			inst := decodeA64(0xD4000001)
			Expect(inst.Op).To(Equal(insts.OpSVC))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.Imm(0, insts.PrimHalfword),
			}))
		})

		// BRK #1 -> 0xD4200020
		It("should decode BRK", func() {
			inst := decodeA64(0xD4200020)
			Expect(inst.Op).To(Equal(insts.OpBRK))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.Imm(1, insts.PrimHalfword),
			}))
		})

		// NOP -> 0xD503201F
		It("should decode NOP with no operands", func() {
			inst := decodeA64(0xD503201F)
			Expect(inst.Op).To(Equal(insts.OpNOP))
			Expect(inst.Operands).To(BeEmpty())
		})

		// DSB SY -> 0xD5033F9F
		It("should decode DSB with a barrier operand", func() {
			inst := decodeA64(0xD5033F9F)
			Expect(inst.Op).To(Equal(insts.OpDSB))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.BarrierOperand{Option: insts.BarrierSY},
			}))
		})

		// DMB ISH -> 0xD5033BBF
		It("should decode DMB ISH", func() {
			inst := decodeA64(0xD5033BBF)
			Expect(inst.Op).To(Equal(insts.OpDMB))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.BarrierOperand{Option: insts.BarrierISH},
			}))
		})

		// MRS X0, NZCV -> 0xD53B4200
		It("should decode MRS with the system register encoding", func() {
			inst := decodeA64(0xD53B4200)
			Expect(inst.Op).To(Equal(insts.OpMRS))
			Expect(inst.Operands[0]).To(Equal(x(0)))
			Expect(inst.Operands[1]).To(Equal(insts.Imm(0x5A10, insts.PrimHalfword)))
		})

		// BR X3 -> 0xD61F0060
		It("should decode BR", func() {
			inst := decodeA64(0xD61F0060)
			Expect(inst.Op).To(Equal(insts.OpBR))
			Expect(inst.Operands).To(Equal([]insts.Operand{x(3)}))
		})
	})

	Describe("Loads and stores", func() {
		// LDR X0, [X1] -> 0xF9400020
		It("should decode LDR with an unsigned offset", func() {
			inst := decodeA64(0xF9400020)
			Expect(inst.Op).To(Equal(insts.OpLDR))
			off := insts.Imm(0, insts.PrimSDoubleword)
			Expect(inst.Operands).To(Equal([]insts.Operand{
				x(0),
				insts.MemOperand{
					Base:     insts.GpReg64(1),
					Offset:   &off,
					DataType: insts.PrimDoubleword,
				},
			}))
		})

		// STR W1, [X2, #8] -> 0xB9000841
		It("should scale the unsigned offset by the data size", func() {
			inst := decodeA64(0xB9000841)
			Expect(inst.Op).To(Equal(insts.OpSTR))
			off := insts.Imm(8, insts.PrimSDoubleword)
			Expect(inst.Operands).To(Equal([]insts.Operand{
				w(1),
				insts.MemOperand{
					Base:     insts.GpReg64(2),
					Offset:   &off,
					DataType: insts.PrimWord,
				},
			}))
		})

		// LDRB W3, [X4, #1] -> size=00 opc=01 imm12=1
		It("should decode LDRB without scaling", func() {
			inst := decodeA64(0x39400483)
			Expect(inst.Op).To(Equal(insts.OpLDRB))
			off := insts.Imm(1, insts.PrimSDoubleword)
			Expect(inst.Operands).To(Equal([]insts.Operand{
				w(3),
				insts.MemOperand{
					Base:     insts.GpReg64(4),
					Offset:   &off,
					DataType: insts.PrimByte,
				},
			}))
		})

		// STP X29, X30, [SP, #-16]! -> 0xA9BF7BFD
		It("should decode STP pre-indexed with writeback", func() {
			inst := decodeA64(0xA9BF7BFD)
			Expect(inst.Op).To(Equal(insts.OpSTP))
			Expect(inst.Writeback).To(BeTrue())
			off := insts.Imm(-16, insts.PrimSDoubleword)
			Expect(inst.Operands).To(Equal([]insts.Operand{
				x(29), x(30),
				insts.MemOperand{
					Base:     insts.GpReg64(31),
					Offset:   &off,
					PreIndex: true,
					DataType: insts.PrimDoubleword,
				},
			}))
		})

		// LDP X29, X30, [SP], #16 -> 0xA8C17BFD
		It("should decode LDP post-indexed", func() {
			inst := decodeA64(0xA8C17BFD)
			Expect(inst.Op).To(Equal(insts.OpLDP))
			Expect(inst.Writeback).To(BeTrue())
			off := insts.Imm(16, insts.PrimSDoubleword)
			Expect(inst.Operands).To(Equal([]insts.Operand{
				x(29), x(30),
				insts.MemOperand{
					Base:      insts.GpReg64(31),
					Offset:    &off,
					PostIndex: true,
					DataType:  insts.PrimDoubleword,
				},
			}))
		})

		// LDUR X0, [X1, #-8] -> size=11 opc=01 imm9=-8
		It("should decode LDUR with an unscaled signed offset", func() {
			inst := decodeA64(0xF85F8020)
			Expect(inst.Op).To(Equal(insts.OpLDUR))
			off := insts.Imm(-8, insts.PrimSDoubleword)
			Expect(inst.Operands).To(Equal([]insts.Operand{
				x(0),
				insts.MemOperand{
					Base:     insts.GpReg64(1),
					Offset:   &off,
					DataType: insts.PrimDoubleword,
				},
			}))
		})

		// LDR X0, [X1, X2, LSL #3] -> option=011 S=1
		It("should decode the register-offset form", func() {
			inst := decodeA64(0xF8627820)
			Expect(inst.Op).To(Equal(insts.OpLDR))
			idx := insts.GpReg64(2)
			Expect(inst.Operands).To(Equal([]insts.Operand{
				x(0),
				insts.MemOperand{
					Base:        insts.GpReg64(1),
					Index:       &idx,
					IndexExtend: insts.OpLSL,
					IndexShift:  3,
					DataType:    insts.PrimDoubleword,
				},
			}))
		})

		// Register offset with option=000 is undefined.
		It("should reject an unallocated index extend option", func() {
			inst := decodeA64(0xF8620820)
			Expect(inst.Op).To(Equal(insts.OpInvalid))
		})

		// LDR W5, [PC+8] literal -> opc=00 imm19=2
		It("should resolve the literal form to an absolute address", func() {
			inst := decodeA64(0x18000045)
			Expect(inst.Op).To(Equal(insts.OpLDR))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				w(5), insts.AddrOperand{Addr: a64Base + 8},
			}))
		})

		// LDR Q0, [X1] -> SIMD 128-bit unsigned offset
		It("should decode the SIMD Q-register load", func() {
			inst := decodeA64(0x3DC00020)
			Expect(inst.Op).To(Equal(insts.OpLDR))
			off := insts.Imm(0, insts.PrimSDoubleword)
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.Reg(insts.SimdReg(insts.FamSIMD128, 0)),
				insts.MemOperand{
					Base:     insts.GpReg64(1),
					Offset:   &off,
					DataType: insts.PrimQuadword,
				},
			}))
		})
	})

	Describe("Data processing (register)", func() {
		// ORR W0, W1, W2, LSL #4 -> 0x2A021020
		It("should decode ORR with a shift context", func() {
			inst := decodeA64(0x2A021020)
			Expect(inst.Op).To(Equal(insts.OpORR))
			Expect(inst.Operands).To(Equal([]insts.Operand{w(0), w(1), w(2)}))
			Expect(inst.ShiftType).To(Equal(insts.OpLSL))
			Expect(inst.ShiftValue).To(Equal(insts.Imm(4, insts.PrimByte)))
		})

		// ADD X0, X1, X2 -> 0x8B020020
		It("should decode ADD shifted register without a shift", func() {
			inst := decodeA64(0x8B020020)
			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Operands).To(Equal([]insts.Operand{x(0), x(1), x(2)}))
			Expect(inst.ShiftType).To(Equal(insts.OpInvalid))
		})

		// SUBS X0, X1, X2 -> 0xEB020020
		It("should decode SUBS with flag update", func() {
			inst := decodeA64(0xEB020020)
			Expect(inst.Op).To(Equal(insts.OpSUB))
			Expect(inst.UpdateFlags).To(BeTrue())
		})

		// UDIV X0, X1, X2 -> 0x9AC20820
		It("should decode UDIV", func() {
			inst := decodeA64(0x9AC20820)
			Expect(inst.Op).To(Equal(insts.OpUDIV))
			Expect(inst.Operands).To(Equal([]insts.Operand{x(0), x(1), x(2)}))
		})

		// MADD X0, X1, X2, X3 -> 0x9B020C20
		It("should decode MADD", func() {
			inst := decodeA64(0x9B020C20)
			Expect(inst.Op).To(Equal(insts.OpMADD))
			Expect(inst.Operands).To(Equal([]insts.Operand{x(0), x(1), x(2), x(3)}))
		})

		// CSEL W0, W1, W2, EQ -> 0x1A820020
		It("should decode CSEL with a condition operand", func() {
			inst := decodeA64(0x1A820020)
			Expect(inst.Op).To(Equal(insts.OpCSEL))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				w(0), w(1), w(2), insts.CondOperand{Cond: insts.CondEQ},
			}))
		})

		// CLZ W0, W1 -> sf=0 1 S=0 11010110 00000 000100 Rn=1 Rd=0
		It("should decode CLZ", func() {
			inst := decodeA64(0x5AC01020)
			Expect(inst.Op).To(Equal(insts.OpCLZ))
			Expect(inst.Operands).To(Equal([]insts.Operand{w(0), w(1)}))
		})
	})

	Describe("Floating point and SIMD", func() {
		// SCVTF D0, X1 -> 0x9E620020
		It("should decode SCVTF", func() {
			inst := decodeA64(0x9E620020)
			Expect(inst.Op).To(Equal(insts.OpSCVTF))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.Reg(insts.SimdReg(insts.FamSIMD64, 0)), x(1),
			}))
		})

		// FADD S0, S1, S2 -> 0x1E222820
		It("should decode FADD", func() {
			inst := decodeA64(0x1E222820)
			Expect(inst.Op).To(Equal(insts.OpFADD))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.Reg(insts.SimdReg(insts.FamSIMD32, 0)),
				insts.Reg(insts.SimdReg(insts.FamSIMD32, 1)),
				insts.Reg(insts.SimdReg(insts.FamSIMD32, 2)),
			}))
		})

		// FMOV S0, #1.0 -> 0x1E2E1000
		It("should decode the FP immediate form", func() {
			inst := decodeA64(0x1E2E1000)
			Expect(inst.Op).To(Equal(insts.OpFMOV))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.Reg(insts.SimdReg(insts.FamSIMD32, 0)),
				insts.Imm(0x3F800000, insts.PrimReal32),
			}))
		})

		// ADD V0.4S, V1.4S, V2.4S -> 0x4EA28420
		It("should decode the vector integer add", func() {
			inst := decodeA64(0x4EA28420)
			Expect(inst.Op).To(Equal(insts.OpVADD))
			Expect(inst.VectorData).To(Equal(insts.VecI32))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.Reg(insts.SimdReg(insts.FamSIMD128, 0)),
				insts.Reg(insts.SimdReg(insts.FamSIMD128, 1)),
				insts.Reg(insts.SimdReg(insts.FamSIMD128, 2)),
			}))
		})

		// MOVI V0.4S, #5 -> 0x4F0004A0
		It("should decode the vector modified immediate", func() {
			inst := decodeA64(0x4F0004A0)
			Expect(inst.Op).To(Equal(insts.OpMOVI))
			Expect(inst.VectorData).To(Equal(insts.VecI32))
			Expect(inst.Operands).To(Equal([]insts.Operand{
				insts.Reg(insts.SimdReg(insts.FamSIMD128, 0)),
				insts.Imm(0x0000000500000005, insts.PrimDoubleword),
			}))
		})
	})

	Describe("Failure semantics", func() {
		// 0x00000000 hits the reserved class.
		It("should produce an Invalid record for the all-zero word", func() {
			inst := decodeA64(0x00000000)
			Expect(inst.Op).To(Equal(insts.OpInvalid))
			Expect(inst.Length).To(Equal(uint8(4)))
			Expect(inst.Operands).To(BeEmpty())
		})

		It("should continue decoding after an invalid word", func() {
			buf := []byte{
				0x00, 0x00, 0x00, 0x00, // invalid
				0xC0, 0x03, 0x5F, 0xD6, // ret
			}
			d := dasm.New(dasm.ArchA64, dasm.NewImageReader(buf, 0x2000))

			inst, ok := d.DisassembleOne()
			Expect(ok).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpInvalid))
			Expect(inst.Address).To(Equal(uint64(0x2000)))

			inst, ok = d.DisassembleOne()
			Expect(ok).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpRET))
			Expect(inst.Address).To(Equal(uint64(0x2004)))
		})

		It("should end the stream on a truncated word", func() {
			d := dasm.New(dasm.ArchA64, dasm.NewImageReader([]byte{0x1F, 0x20}, 0))
			_, ok := d.DisassembleOne()
			Expect(ok).To(BeFalse())
		})
	})
})
