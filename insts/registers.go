package insts

import "fmt"

// RegFamily selects one of the fixed register files.
type RegFamily uint8

const (
	FamNone RegFamily = iota
	FamGP32
	FamGP64
	FamSIMD8
	FamSIMD16
	FamSIMD32
	FamSIMD64
	FamSIMD128
	FamSpecial
)

// RegisterID names a register as (family, index). Index 31 of the GP
// families is stored raw; whether it reads as the zero register or the stack
// pointer depends on the instruction form and is resolved by consumers.
type RegisterID struct {
	Family RegFamily
	Index  uint8
}

// Register is one catalog entry.
type Register struct {
	ID   RegisterID
	Name string
	Bits uint
}

// Special register indices within FamSpecial.
const (
	SpecialSP uint8 = iota
	SpecialPC
	SpecialCPSR
	SpecialSPSR
)

// Special register identifiers.
var (
	RegSP   = RegisterID{FamSpecial, SpecialSP}
	RegPC   = RegisterID{FamSpecial, SpecialPC}
	RegCPSR = RegisterID{FamSpecial, SpecialCPSR}
	RegSPSR = RegisterID{FamSpecial, SpecialSPSR}
)

// The catalog is built once at init and read-only afterwards.
var (
	GpRegs32    [32]Register
	GpRegs64    [32]Register
	SimdRegs8   [32]Register
	SimdRegs16  [32]Register
	SimdRegs32  [32]Register
	SimdRegs64  [32]Register
	SimdRegs128 [32]Register
	Specials    [4]Register
)

func init() {
	fill := func(dst *[32]Register, fam RegFamily, prefix string, bits uint) {
		for i := range dst {
			dst[i] = Register{
				ID:   RegisterID{fam, uint8(i)},
				Name: fmt.Sprintf("%s%d", prefix, i),
				Bits: bits,
			}
		}
	}
	fill(&GpRegs32, FamGP32, "w", 32)
	fill(&GpRegs64, FamGP64, "x", 64)
	fill(&SimdRegs8, FamSIMD8, "b", 8)
	fill(&SimdRegs16, FamSIMD16, "h", 16)
	fill(&SimdRegs32, FamSIMD32, "s", 32)
	fill(&SimdRegs64, FamSIMD64, "d", 64)
	fill(&SimdRegs128, FamSIMD128, "q", 128)
	GpRegs32[31].Name = "wzr"
	GpRegs64[31].Name = "xzr"
	Specials = [4]Register{
		{RegSP, "sp", 64},
		{RegPC, "pc", 64},
		{RegCPSR, "cpsr", 32},
		{RegSPSR, "spsr", 32},
	}
}

// GpReg32 returns the 32-bit GP register with the given index.
func GpReg32(i uint32) RegisterID { return RegisterID{FamGP32, uint8(i & 31)} }

// GpReg64 returns the 64-bit GP register with the given index.
func GpReg64(i uint32) RegisterID { return RegisterID{FamGP64, uint8(i & 31)} }

// SimdReg returns the SIMD register of the given family and index.
func SimdReg(fam RegFamily, i uint32) RegisterID {
	return RegisterID{fam, uint8(i & 31)}
}

// Lookup resolves an identifier against the catalog.
func Lookup(id RegisterID) *Register {
	switch id.Family {
	case FamGP32:
		return &GpRegs32[id.Index&31]
	case FamGP64:
		return &GpRegs64[id.Index&31]
	case FamSIMD8:
		return &SimdRegs8[id.Index&31]
	case FamSIMD16:
		return &SimdRegs16[id.Index&31]
	case FamSIMD32:
		return &SimdRegs32[id.Index&31]
	case FamSIMD64:
		return &SimdRegs64[id.Index&31]
	case FamSIMD128:
		return &SimdRegs128[id.Index&31]
	case FamSpecial:
		if int(id.Index) < len(Specials) {
			return &Specials[id.Index]
		}
	}
	return nil
}

func (id RegisterID) String() string {
	if r := Lookup(id); r != nil {
		return r.Name
	}
	return "reg?"
}
