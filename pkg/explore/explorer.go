// Package explore drives the decoder over a worklist of program counters,
// classifying each decoded instruction by its branch semantics to decide
// what to enqueue next, recording provenance for every reached address,
// and watching for the cartridge's computed-jump idiom and VDP-hook
// installation along the way.
package explore

import (
	"fmt"

	"github.com/msxdisasm/msxdis/pkg/cpu"
	"github.com/msxdisasm/msxdis/pkg/decode"
	"github.com/msxdisasm/msxdis/pkg/inst"
	"github.com/msxdisasm/msxdis/pkg/mem"
	"github.com/msxdisasm/msxdis/pkg/routines"
)

// MaxQueuedPCs bounds the number of distinct PCs an explorer will enqueue
// in a single run. A malformed binary can otherwise drive the worklist
// without bound; 65536 is a natural ceiling since it is the whole address
// range.
const MaxQueuedPCs = 65536

// BaseAddr is where the cartridge image is mapped: MSX cartridge ROM
// always starts at 0x4000.
const BaseAddr = 0x4000

// VDPHookHighByte is the address of the high byte of the VDP interrupt
// hook's target word (0xFD9B is the low byte, 0xFD9C the high byte,
// written last by well-behaved hook-installation code).
const VDPHookHighByte = 0xFD9C

// VDPHookTarget is where the hook's two-byte jump target lives.
const VDPHookTarget = 0xFD9B

// Style selects how the explorer walks the binary.
type Style int

const (
	// BranchAll follows branch/call/jump semantics from the entry point
	// and the VDP hook, the default and only style that reflects what the
	// cartridge's code actually reaches.
	BranchAll Style = iota
	// Linear decodes sequentially across the whole cartridge window,
	// ignoring branch semantics; useful only as a comparison pass.
	Linear
)

// QueueOverflowError reports that more than MaxQueuedPCs distinct
// addresses were enqueued in one run.
type QueueOverflowError struct {
	Limit int
}

func (e *QueueOverflowError) Error() string {
	return fmt.Sprintf("queue overflow: more than %d distinct PCs enqueued", e.Limit)
}

// Record is what the explorer keeps for each reached PC.
type Record struct {
	PC           uint16
	Instruction  inst.Instruction
	Predecessors []Edge
}

// Explorer owns the worklist, the decoded-record set, the routine table,
// and whatever jump-table state it discovers while running.
type Explorer struct {
	space     *mem.Space
	routines  *routines.Table
	records   map[uint16]*Record
	order     []uint16 // PCs in the order they were first popped, for determinism
	queue     []uint16
	queuedSet map[uint16]bool
	pending   map[uint16][]Edge
	warnings  []string
	shadow    shadowState

	pcMagicAddr  uint16
	pcMagicKnown bool
	hlPlusAAddr  uint16
	haveHLPlusA  bool

	halted bool
}

// New constructs an Explorer over a loaded address space. routineTable may
// be nil, in which case a fresh BIOS-seeded table is created.
func New(space *mem.Space, routineTable *routines.Table) *Explorer {
	if routineTable == nil {
		routineTable = routines.New()
	}
	ex := &Explorer{
		space:     space,
		routines:  routineTable,
		records:   make(map[uint16]*Record),
		queuedSet: make(map[uint16]bool),
		pending:   make(map[uint16][]Edge),
	}
	detectJumpTableSignatures(ex)
	ex.space.InstallObserver(VDPHookHighByte, ex.onVDPHookWrite)
	return ex
}

// AddRoutine installs a display label, delegating to the routine table.
func (ex *Explorer) AddRoutine(addr uint16, name string) {
	ex.routines.Add(addr, name)
}

// Warnings returns the diagnostics accumulated for uninitialized reads and
// unknown opcodes encountered along individual branches; these do not stop
// the run, only the branch that hit them.
func (ex *Explorer) Warnings() []string {
	return ex.warnings
}

// Records returns every reached record, keyed by PC.
func (ex *Explorer) Records() map[uint16]*Record {
	return ex.records
}

// Ordered returns records in the order their PCs were first popped off the
// worklist (the order decoding actually happened in), for deterministic
// output that does not depend on map iteration order.
func (ex *Explorer) Ordered() []*Record {
	out := make([]*Record, 0, len(ex.order))
	for _, pc := range ex.order {
		out = append(out, ex.records[pc])
	}
	return out
}

// Run walks the binary in the given style, accumulating records that
// Records and Ordered expose afterwards. It seeds the queue according to style, then pops addresses
// until the queue drains, halts on queue overflow, or hits a fatal
// (top-level) error.
func (ex *Explorer) Run(style Style) error {
	switch style {
	case Linear:
		return ex.runLinear()
	default:
		return ex.runBranchAll()
	}
}

func (ex *Explorer) runBranchAll() error {
	entry, err := ex.space.ReadWord(BaseAddr + 2)
	if err != nil {
		return fmt.Errorf("reading entry point word at 0x%04X: %w", BaseAddr+2, err)
	}
	ex.seedRoot(entry)

	for len(ex.queue) > 0 {
		pc := ex.pop()
		if ex.records[pc] != nil {
			continue
		}
		if pc < BaseAddr {
			// BIOS ROM: never decoded, only labeled for rendering.
			continue
		}
		if err := ex.step(pc); err != nil {
			ex.warn(pc, err)
			continue
		}
		if ex.halted {
			return &QueueOverflowError{Limit: MaxQueuedPCs}
		}
	}
	return nil
}

func (ex *Explorer) runLinear() error {
	for pc := uint16(BaseAddr); pc < 0x8000; {
		in, err := decode.Decode(ex.space, pc)
		if err != nil {
			ex.warn(pc, err)
			pc++
			continue
		}
		ex.setRecord(pc, in)
		pc += uint16(in.Size)
	}
	return nil
}

// step decodes the instruction at pc, records it, and enqueues whatever
// its branch class calls for.
func (ex *Explorer) step(pc uint16) error {
	in, err := decode.Decode(ex.space, pc)
	if err != nil {
		return err
	}
	ex.setRecord(pc, in)
	fallThrough := pc + uint16(in.Size)

	if ex.isJumpTableCall(in) {
		ex.walkJumpTable(pc, fallThrough)
		return nil
	}

	switch classify(in) {
	case classReturn, classUnknownJump:
		// Destination either ends the branch or is not statically known.
	case classAbsoluteJump:
		ex.enqueueFrom(pc, in.JumpDest, EdgeJPNN)
	case classRelativeJump:
		ex.enqueueFrom(pc, in.JumpDest, EdgeJRE)
	case classConditionalAbsoluteJump:
		ex.enqueueFrom(pc, in.JumpDest, EdgeJPCCNN)
		ex.enqueueFrom(pc, fallThrough, EdgeFallThrough)
	case classConditionalRelativeJump:
		label := jrCondEdge(in.CC)
		if in.Family == inst.FamDJNZ_E {
			label = EdgeDJNZE
		}
		ex.enqueueFrom(pc, in.JumpDest, label)
		ex.enqueueFrom(pc, fallThrough, EdgeFallThrough)
	case classCall:
		ex.enqueueFrom(pc, in.JumpDest, EdgeCallNN)
		ex.enqueueFrom(pc, fallThrough, EdgeCallNN)
	case classConditionalCall:
		ex.enqueueFrom(pc, in.JumpDest, EdgeCallCCNN)
		ex.enqueueFrom(pc, fallThrough, EdgeCallCCNN)
	default:
		ex.enqueueFrom(pc, fallThrough, EdgeFallThrough)
	}

	// Side effects: the two store instructions the VDP hook installer
	// uses to write the hook's target word. A shadow register file tracks
	// just enough state for these to resolve correctly.
	ex.shadow.exec(ex.space, in)

	return nil
}

// shadowState tracks just the register values the two store instructions
// need, updated as the explorer walks straight-line code. It is a best
// effort: branches are not modeled, so a value is only trustworthy right
// after the instruction that set it.
type shadowState struct {
	s cpu.State
}

func (sh *shadowState) exec(space *mem.Space, in inst.Instruction) {
	cpu.Exec(&sh.s, space, in)
}

func (ex *Explorer) onVDPHookWrite(addr int, newVal, oldVal uint8) {
	target, err := ex.space.ReadWord(VDPHookTarget)
	if err != nil {
		ex.warn(uint16(addr), err)
		return
	}
	ex.enqueue(target, Edge{From: VDPHookTarget, Label: EdgeVDPHook})
}

func (ex *Explorer) enqueueFrom(src, dst uint16, label string) {
	ex.enqueue(dst, Edge{From: src, Label: label})
}

// enqueue pushes dst onto the worklist (if not already reached) and
// records the predecessor edge regardless, so the predecessor map stays
// complete even when dst was reached earlier through a different path.
func (ex *Explorer) enqueue(dst uint16, edge Edge) {
	if r, ok := ex.records[dst]; ok {
		r.Predecessors = append(r.Predecessors, edge)
		return
	}
	if !ex.queuedSet[dst] {
		if len(ex.queuedSet) >= MaxQueuedPCs {
			ex.halted = true
			return
		}
		ex.queue = append(ex.queue, dst)
		ex.queuedSet[dst] = true
	}
	ex.pending[dst] = append(ex.pending[dst], edge)
}

// seedRoot pushes pc onto the worklist with no predecessor edge: it is a
// root (the entry point), not reached from another decoded instruction.
// VDP-hook and jump-table targets go through enqueue with their edge.
func (ex *Explorer) seedRoot(pc uint16) {
	if !ex.queuedSet[pc] {
		ex.queue = append(ex.queue, pc)
		ex.queuedSet[pc] = true
	}
}

func (ex *Explorer) pop() uint16 {
	pc := ex.queue[0]
	ex.queue = ex.queue[1:]
	return pc
}

func (ex *Explorer) setRecord(pc uint16, in inst.Instruction) {
	r := &Record{PC: pc, Instruction: in, Predecessors: ex.pending[pc]}
	delete(ex.pending, pc)
	ex.records[pc] = r
	ex.order = append(ex.order, pc)
}

func (ex *Explorer) warn(pc uint16, err error) {
	ex.warnings = append(ex.warnings, fmt.Sprintf("0x%04X: %v", pc, err))
}
