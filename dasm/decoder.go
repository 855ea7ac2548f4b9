package dasm

import (
	"fmt"

	"github.com/sarchlab/armdasm/insts"
)

// decodeState is the per-instruction scratch state mutators write into. A
// fresh value is used for every instruction, so shared decoder trees stay
// safe to use from many goroutines.
type decodeState struct {
	addr uint64 // address of the first byte of the current encoding

	ops        []insts.Operand
	cond       insts.Cond
	setFlags   bool
	writeback  bool
	shiftType  insts.Op
	shiftValue insts.Operand
	vec        insts.VectorKind
	useQ       bool
	diag       string
}

func newDecodeState(addr uint64) *decodeState {
	return &decodeState{
		addr: addr,
		ops:  make([]insts.Operand, 0, 5),
		cond: insts.CondAL,
	}
}

func (st *decodeState) clear() {
	st.ops = st.ops[:0]
	st.cond = insts.CondAL
	st.setFlags = false
	st.writeback = false
	st.shiftType = insts.OpInvalid
	st.shiftValue = nil
	st.vec = insts.VecInvalid
	st.useQ = false
	st.diag = ""
}

// mutator extracts one operand (or updates context) from a raw word. A false
// return marks the whole decode invalid.
type mutator func(w uint32, st *decodeState) bool

// decoder is one node of a dispatch tree. decode returns the opcode for the
// leaf that w reaches; OpInvalid when the encoding is undefined.
type decoder interface {
	decode(w uint32, st *decodeState) insts.Op
}

// instrDecoder is a leaf: an opcode plus its operand extractors.
type instrDecoder struct {
	op       insts.Op
	mutators []mutator
}

func (d *instrDecoder) decode(w uint32, st *decodeState) insts.Op {
	st.clear()
	for _, m := range d.mutators {
		if !m(w, st) {
			return insts.OpInvalid
		}
	}
	return d.op
}

// instr builds a leaf decoder.
func instr(op insts.Op, ms ...mutator) decoder {
	return &instrDecoder{op: op, mutators: ms}
}

// maskDecoder indexes its children by one bit-field. It always has exactly
// 2^width children.
type maskDecoder struct {
	bf       Bitfield
	children []decoder
}

func (d *maskDecoder) decode(w uint32, st *decodeState) insts.Op {
	return d.children[d.bf.Read(w)].decode(w, st)
}

func mask(offset, width uint8, children ...decoder) decoder {
	if len(children) != 1<<width {
		panic(fmt.Sprintf("mask(%d,%d): want %d children, have %d",
			offset, width, 1<<width, len(children)))
	}
	return &maskDecoder{bf: BF(offset, width), children: children}
}

// bitfieldMaskDecoder indexes its children by the concatenation of several
// bit-fields.
type bitfieldMaskDecoder struct {
	fields   []Bitfield
	children []decoder
}

func (d *bitfieldMaskDecoder) decode(w uint32, st *decodeState) insts.Op {
	return d.children[ReadFields(d.fields, w)].decode(w, st)
}

func maskFields(fields []Bitfield, children ...decoder) decoder {
	var total uint8
	for _, f := range fields {
		total += f.Length
	}
	if len(children) != 1<<total {
		panic(fmt.Sprintf("maskFields(%v): want %d children, have %d",
			fields, 1<<total, len(children)))
	}
	return &bitfieldMaskDecoder{fields: fields, children: children}
}

// selectDecoder delegates to one of two children based on a predicate over
// concatenated fields.
type selectDecoder struct {
	fields  []Bitfield
	pred    func(uint64) bool
	ifTrue  decoder
	ifFalse decoder
}

func (d *selectDecoder) decode(w uint32, st *decodeState) insts.Op {
	if d.pred(ReadFields(d.fields, w)) {
		return d.ifTrue.decode(w, st)
	}
	return d.ifFalse.decode(w, st)
}

func sel(fields []Bitfield, pred func(uint64) bool, t, f decoder) decoder {
	return &selectDecoder{fields: fields, pred: pred, ifTrue: t, ifFalse: f}
}

// sparseDecoder maps a subset of field values to children; unmatched values
// go to the default.
type sparseDecoder struct {
	bf       Bitfield
	def      decoder
	children map[uint32]decoder
}

func (d *sparseDecoder) decode(w uint32, st *decodeState) insts.Op {
	if c, ok := d.children[d.bf.Read(w)]; ok {
		return c.decode(w, st)
	}
	return d.def.decode(w, st)
}

func sparse(offset, width uint8, def decoder, children map[uint32]decoder) decoder {
	for k := range children {
		if k >= 1<<width {
			panic(fmt.Sprintf("sparse(%d,%d): key %#x out of range", offset, width, k))
		}
	}
	return &sparseDecoder{bf: BF(offset, width), def: def, children: children}
}

// nyiDecoder marks a known but not-yet-implemented encoding. It produces an
// invalid record carrying a diagnostic message.
type nyiDecoder struct {
	msg string
}

func (d *nyiDecoder) decode(w uint32, st *decodeState) insts.Op {
	st.clear()
	st.diag = d.msg
	return insts.OpInvalid
}

func nyi(msg string) decoder {
	return &nyiDecoder{msg: msg}
}

// invalidDecoder is the leaf for undefined encodings.
type invalidDecoder struct{}

func (invalidDecoder) decode(w uint32, st *decodeState) insts.Op {
	st.clear()
	return insts.OpInvalid
}

var invalid decoder = invalidDecoder{}
