package insts

import (
	"fmt"
	"strings"
)

// BarrierOption is the 4-bit domain/type operand of DMB, DSB and ISB.
type BarrierOption uint8

const (
	BarrierOSHLD BarrierOption = 0b0001
	BarrierOSHST BarrierOption = 0b0010
	BarrierOSH   BarrierOption = 0b0011
	BarrierNSHLD BarrierOption = 0b0101
	BarrierNSHST BarrierOption = 0b0110
	BarrierNSH   BarrierOption = 0b0111
	BarrierISHLD BarrierOption = 0b1001
	BarrierISHST BarrierOption = 0b1010
	BarrierISH   BarrierOption = 0b1011
	BarrierLD    BarrierOption = 0b1101
	BarrierST    BarrierOption = 0b1110
	BarrierSY    BarrierOption = 0b1111
)

var barrierNames = [16]string{
	"#0", "oshld", "oshst", "osh", "#4", "nshld", "nshst", "nsh",
	"#8", "ishld", "ishst", "ish", "#12", "ld", "st", "sy",
}

func (b BarrierOption) String() string {
	return barrierNames[b&0xF]
}

// Operand is one element of an instruction's operand list. The concrete
// variants below form a closed set.
type Operand interface {
	fmt.Stringer
	operand()
}

// RegOperand is a register reference.
type RegOperand struct {
	Reg RegisterID
}

// ImmOperand is an integer immediate. Width tags how the value should be
// interpreted; signed widths mean Value was sign-extended during decoding.
type ImmOperand struct {
	Value int64
	Width PrimitiveType
}

// AddrOperand is an absolute address, already resolved against the
// instruction's own address for PC-relative forms.
type AddrOperand struct {
	Addr uint64
}

// MemOperand describes a memory reference.
type MemOperand struct {
	Base        RegisterID
	Offset      *ImmOperand
	Index       *RegisterID
	IndexExtend Op
	IndexShift  uint8
	PreIndex    bool
	PostIndex   bool
	DataType    PrimitiveType
}

// CondOperand carries an explicit condition-code operand (csel, ccmp, it).
type CondOperand struct {
	Cond Cond
}

// BarrierOperand carries a barrier domain/type.
type BarrierOperand struct {
	Option BarrierOption
}

func (RegOperand) operand()     {}
func (ImmOperand) operand()     {}
func (AddrOperand) operand()    {}
func (MemOperand) operand()     {}
func (CondOperand) operand()    {}
func (BarrierOperand) operand() {}

// Reg wraps a register identifier as an operand.
func Reg(id RegisterID) RegOperand { return RegOperand{Reg: id} }

// Imm builds an immediate operand.
func Imm(v int64, w PrimitiveType) ImmOperand { return ImmOperand{Value: v, Width: w} }

func (o RegOperand) String() string { return o.Reg.String() }

func (o ImmOperand) String() string {
	if o.Width.Signed() || o.Value < 0 {
		return fmt.Sprintf("#%d", o.Value)
	}
	return fmt.Sprintf("#0x%x", uint64(o.Value))
}

func (o AddrOperand) String() string { return fmt.Sprintf("0x%x", o.Addr) }

func (o MemOperand) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(o.Base.String())
	if o.PostIndex {
		sb.WriteByte(']')
	}
	if o.Index != nil {
		sb.WriteByte(',')
		sb.WriteString(o.Index.String())
		if o.IndexExtend != OpInvalid {
			fmt.Fprintf(&sb, ",%s", o.IndexExtend)
			if o.IndexShift > 0 {
				fmt.Fprintf(&sb, " #%d", o.IndexShift)
			}
		}
	} else if o.Offset != nil && o.Offset.Value != 0 {
		fmt.Fprintf(&sb, ",#%d", o.Offset.Value)
	}
	if !o.PostIndex {
		sb.WriteByte(']')
	}
	if o.PreIndex {
		sb.WriteByte('!')
	}
	return sb.String()
}

func (o CondOperand) String() string { return o.Cond.String() }

func (o BarrierOperand) String() string { return o.Option.String() }
