// Package result stores the disassembler's output across a run and lets a
// batch job persist and resume it. Adapted from the teacher's rule table:
// same mutex-guarded store plus sorted accessor shape, now a map keyed by
// PC instead of a list of discovered optimization rules.
package result

import (
	"sort"
	"sync"

	"github.com/msxdisasm/msxdis/pkg/explore"
	"github.com/msxdisasm/msxdis/pkg/inst"
)

// Entry is one disassembled record, flattened out of an explore.Record for
// storage — Predecessors is kept so a resumed run can re-render without
// re-walking control flow.
type Entry struct {
	PC           uint16
	Instruction  inst.Instruction
	Predecessors []explore.Edge
}

// Table stores the disassembled records accumulated for one ROM.
type Table struct {
	mu      sync.Mutex
	entries map[uint16]Entry
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[uint16]Entry)}
}

// Add inserts or overwrites the entry for e.PC.
func (t *Table) Add(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[e.PC] = e
}

// FromExplorer copies every record an explore.Explorer reached into the
// table, discarding the explorer itself so the result can outlive it.
func FromExplorer(ex *explore.Explorer) *Table {
	t := NewTable()
	for pc, rec := range ex.Records() {
		t.Add(Entry{PC: pc, Instruction: rec.Instruction, Predecessors: rec.Predecessors})
	}
	return t
}

// Records returns every entry in ascending-PC order, matching the
// rendering contract spec.md §6 requires.
func (t *Table) Records() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PC < out[j].PC })
	return out
}

// Len returns the number of recorded entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
