package explore

import (
	"testing"

	"github.com/msxdisasm/msxdis/pkg/inst"
	"github.com/msxdisasm/msxdis/pkg/mem"
)

func newCartridge(patches map[int][]byte) *mem.Space {
	space := mem.New()
	rom := make([]byte, 16384)
	for i := range rom {
		rom[i] = 0x00
	}
	space.LoadAt(BaseAddr, rom)
	for addr, bytes := range patches {
		space.LoadAt(addr, bytes)
	}
	return space
}

func TestMinimalEntryRET(t *testing.T) {
	space := newCartridge(map[int][]byte{
		BaseAddr:     {0x41, 0x42, 0x06, 0x40},
		BaseAddr + 6: {0xC9},
	})
	ex := New(space, nil)
	if err := ex.Run(BranchAll); err != nil {
		t.Fatalf("run: %v", err)
	}
	rec, ok := ex.Records()[0x4006]
	if !ok {
		t.Fatal("expected a record at 0x4006")
	}
	if rec.Instruction.Family != inst.FamRET {
		t.Fatalf("family = %v, want FamRET", rec.Instruction.Family)
	}
	if len(ex.Records()) != 1 {
		t.Fatalf("got %d records, want 1 (RET has no fall-through)", len(ex.Records()))
	}
}

func TestConditionalRelative(t *testing.T) {
	space := newCartridge(map[int][]byte{
		BaseAddr:     {0x41, 0x42, 0x06, 0x40},
		BaseAddr + 6: {0x20, 0x02, 0xC9, 0x00, 0xC9},
	})
	ex := New(space, nil)
	if err := ex.Run(BranchAll); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, pc := range []uint16{0x4006, 0x4008, 0x400A} {
		if _, ok := ex.Records()[pc]; !ok {
			t.Fatalf("expected a record at 0x%04X", pc)
		}
	}
	recA := ex.Records()[0x400A]
	if !hasEdge(recA.Predecessors, 0x4006, "JR NZ, e") {
		t.Fatalf("0x400A predecessors = %+v, want edge from 0x4006 labeled JR NZ, e", recA.Predecessors)
	}
	recFall := ex.Records()[0x4008]
	if !hasEdge(recFall.Predecessors, 0x4006, EdgeFallThrough) {
		t.Fatalf("0x4008 predecessors = %+v, want fall-through edge from 0x4006", recFall.Predecessors)
	}
}

func TestCallAndReturn(t *testing.T) {
	space := newCartridge(map[int][]byte{
		BaseAddr:     {0x41, 0x42, 0x06, 0x40},
		BaseAddr + 6: {0xCD, 0x0A, 0x40, 0xC9},
		0x400A:       {0xC9},
	})
	ex := New(space, nil)
	if err := ex.Run(BranchAll); err != nil {
		t.Fatalf("run: %v", err)
	}
	recCallee := ex.Records()[0x400A]
	if recCallee == nil || !hasEdge(recCallee.Predecessors, 0x4006, EdgeCallNN) {
		t.Fatalf("0x400A predecessors = %+v, want CALL nn edge from 0x4006", recCallee)
	}
	recFallThrough := ex.Records()[0x4009]
	if recFallThrough == nil {
		t.Fatal("expected a record at the call's fall-through PC 0x4009")
	}
}

func TestJumpTableWalkStopsOnDivergence(t *testing.T) {
	const helper = 0x4300
	const trampoline = 0x4310
	const callSite = 0x4100

	space := newCartridge(map[int][]byte{
		BaseAddr:     {0x41, 0x42, 0x06, 0x40},
		BaseAddr + 6: {0xC9},
		helper:       {0x85, 0x6F, 0xD0, 0x24, 0xC9},
		trampoline:   {0x87, 0xE1, 0xCD, byte(helper & 0xFF), byte(helper >> 8), 0x5E, 0x23, 0x56, 0xEB, 0xE9},
		callSite:     {0xCD, byte(trampoline & 0xFF), byte(trampoline >> 8)},
		callSite + 3: {0x00, 0x42}, // 0x4200
		callSite + 5: {0x10, 0x42}, // 0x4210
		callSite + 7: {0x20, 0x42}, // 0x4220
		callSite + 9: {0x00, 0x50}, // 0x5000, diverges, must not be enqueued
	})
	ex := New(space, nil)
	if !ex.haveHLPlusA || !ex.pcMagicKnown {
		t.Fatalf("expected both jump-table signatures to be found, got haveHLPlusA=%v pcMagicKnown=%v", ex.haveHLPlusA, ex.pcMagicKnown)
	}

	ex.seedRoot(callSite)
	for len(ex.queue) > 0 {
		pc := ex.pop()
		if ex.records[pc] != nil || pc < BaseAddr {
			continue
		}
		if err := ex.step(pc); err != nil {
			ex.warn(pc, err)
		}
	}

	for _, pc := range []uint16{0x4200, 0x4210, 0x4220} {
		if r, ok := ex.records[pc]; !ok || !hasEdge(r.Predecessors, 0x4100, EdgeJumpTable) {
			t.Fatalf("expected a jump-table record at 0x%04X with edge from 0x4100, got %+v", pc, r)
		}
	}
	if _, ok := ex.records[0x5000]; ok {
		t.Fatal("0x5000 diverges by >= 0x400 from 0x4220 and must not be enqueued")
	}
}

func TestVDPHookInstallation(t *testing.T) {
	// LD A, 0xC3 ; LD (0xFD9A), A ; LD HL, 0x4500 ; LD (0xFD9B), HL
	hookSeq := []byte{
		0x3E, 0xC3, // LD A, 0xC3
		0x32, 0x9A, 0xFD, // LD (0xFD9A), A
		0x21, 0x00, 0x45, // LD HL, 0x4500
		0x22, 0x9B, 0xFD, // LD (0xFD9B), HL
	}
	space := newCartridge(map[int][]byte{
		BaseAddr:     {0x41, 0x42, 0x06, 0x40},
		BaseAddr + 6: hookSeq,
	})

	ex := New(space, nil)
	if err := ex.Run(BranchAll); err != nil {
		t.Fatalf("run: %v", err)
	}
	rec := ex.Records()[0x4500]
	if rec == nil {
		t.Fatal("expected a record at 0x4500 installed via the VDP hook write")
	}
	if !hasEdge(rec.Predecessors, VDPHookTarget, EdgeVDPHook) {
		t.Fatalf("0x4500 predecessors = %+v, want VDP hook edge from 0x%04X", rec.Predecessors, VDPHookTarget)
	}
}

func TestBIOSCallNeverDecoded(t *testing.T) {
	space := newCartridge(map[int][]byte{
		BaseAddr:     {0x41, 0x42, 0x06, 0x40},
		BaseAddr + 6: {0xCD, 0x56, 0x00, 0xC9},
	})
	ex := New(space, nil)
	if err := ex.Run(BranchAll); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := ex.Records()[0x0056]; ok {
		t.Fatal("BIOS address 0x0056 must never be decoded")
	}
	if !ex.routines.Has(0x0056) {
		t.Fatal("0x0056 should still carry a BIOS label for rendering")
	}
}

func TestIdempotentRun(t *testing.T) {
	space := newCartridge(map[int][]byte{
		BaseAddr:     {0x41, 0x42, 0x06, 0x40},
		BaseAddr + 6: {0x20, 0x02, 0xC9, 0x00, 0xC9},
	})
	ex1 := New(space, nil)
	_ = ex1.Run(BranchAll)

	space2 := newCartridge(map[int][]byte{
		BaseAddr:     {0x41, 0x42, 0x06, 0x40},
		BaseAddr + 6: {0x20, 0x02, 0xC9, 0x00, 0xC9},
	})
	ex2 := New(space2, nil)
	_ = ex2.Run(BranchAll)

	if len(ex1.Records()) != len(ex2.Records()) {
		t.Fatalf("non-deterministic record count: %d vs %d", len(ex1.Records()), len(ex2.Records()))
	}
	o1, o2 := ex1.Ordered(), ex2.Ordered()
	for i := range o1 {
		if o1[i].PC != o2[i].PC {
			t.Fatalf("non-deterministic decode order at index %d: %04X vs %04X", i, o1[i].PC, o2[i].PC)
		}
	}
}

func hasEdge(edges []Edge, from uint16, label string) bool {
	for _, e := range edges {
		if e.From == from && e.Label == label {
			return true
		}
	}
	return false
}
