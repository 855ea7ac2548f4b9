package dasm

import "github.com/sarchlab/armdasm/insts"

// itTracker carries the T32 IT-block state across instructions. An it
// instruction loads it; each following instruction consumes one slot until
// the state word hits the terminal pattern.
type itTracker struct {
	cond  insts.Cond
	state uint8
}

// Start loads the tracker from the it instruction's firstcond:mask byte.
func (t *itTracker) Start(imm8 uint8) {
	t.cond = insts.Cond(imm8 >> 4)
	t.state = imm8
}

// Active reports whether an IT block is in progress.
func (t *itTracker) Active() bool {
	return t.state != 0
}

// Apply rewrites the condition of one decoded instruction and advances the
// block. The per-slot bit selects the base condition or its inverse; the
// block ends when the low five bits reach 0x10.
func (t *itTracker) Apply(inst *insts.Instruction) {
	if t.state == 0 {
		return
	}
	if t.state&0x1F == 0x10 {
		t.state = 0
		t.cond = insts.CondAL
		return
	}
	inst.Cond = t.cond&^1 | insts.Cond(t.state>>4&1)
	t.state <<= 1
}
