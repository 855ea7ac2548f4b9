package insts

// VectorKind encodes the SIMD lane arrangement of an instruction, and for
// conversions the source/destination lane pair.
type VectorKind uint8

const (
	VecInvalid VectorKind = iota
	VecI8
	VecI16
	VecI32
	VecI64
	VecS8
	VecS16
	VecS32
	VecS64
	VecU8
	VecU16
	VecU32
	VecU64
	VecF16
	VecF32
	VecF64
	VecF16S16
	VecF32S32
	VecF64S64
	VecF16U16
	VecF32U32
	VecF64U64
	VecS16F16
	VecS32F32
	VecS64F64
	VecU16F16
	VecU32F32
	VecU64F64
)

var vectorNames = [...]string{
	"", "i8", "i16", "i32", "i64",
	"s8", "s16", "s32", "s64",
	"u8", "u16", "u32", "u64",
	"f16", "f32", "f64",
	"f16.s16", "f32.s32", "f64.s64",
	"f16.u16", "f32.u32", "f64.u64",
	"s16.f16", "s32.f32", "s64.f64",
	"u16.f16", "u32.f32", "u64.f64",
}

func (v VectorKind) String() string {
	if int(v) < len(vectorNames) {
		return vectorNames[v]
	}
	return "?"
}

// VecInt returns the integer arrangement for a 2-bit size field
// (0=bytes, 1=halfwords, 2=words, 3=doublewords).
func VecInt(size uint32) VectorKind {
	switch size & 3 {
	case 0:
		return VecI8
	case 1:
		return VecI16
	case 2:
		return VecI32
	}
	return VecI64
}

// VecFloat returns the float arrangement for the single-bit sz field
// (0=single, 1=double).
func VecFloat(sz uint32) VectorKind {
	if sz&1 == 1 {
		return VecF64
	}
	return VecF32
}
