// Package render converts explorer output into disassembly text. A
// Renderer is a visitor over inst.Instruction values plus the
// explore.Record they came from; two dialects are provided, selected at
// construction, not by branching inside a shared formatter.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/msxdisasm/msxdis/pkg/explore"
	"github.com/msxdisasm/msxdis/pkg/routines"
)

// Renderer formats one Record as a single output line. The routine-header
// and predecessor comments that precede it are emitted by WriteAll.
type Renderer interface {
	Line(rec *explore.Record) string
}

// WriteAll renders every reached record, in ascending PC order, to sb.
// Before a PC that starts a named routine, it emits a header comment;
// before a PC with predecessors other than a single "fall through", it
// lists each predecessor on its own line.
func WriteAll(sb *strings.Builder, ex *explore.Explorer, tbl *routines.Table, r Renderer) {
	pcs := make([]uint16, 0, len(ex.Records()))
	for pc := range ex.Records() {
		pcs = append(pcs, pc)
	}
	sort.Slice(pcs, func(i, j int) bool { return pcs[i] < pcs[j] })

	for _, pc := range pcs {
		rec := ex.Records()[pc]
		if name, err := tbl.Lookup(pc); err == nil {
			fmt.Fprintf(sb, "; Start of routine %s.\n", name)
		} else if isCallOrJumpTableTarget(rec.Predecessors) {
			fmt.Fprintf(sb, "; Start of routine %s.\n", routines.DefaultLabel(pc))
		}
		if needsPredecessorComment(rec.Predecessors) {
			for _, e := range rec.Predecessors {
				fmt.Fprintf(sb, ";   0x%04X %s\n", e.From, e.Label)
			}
		}
		sb.WriteString(r.Line(rec))
		sb.WriteString("\n")
	}
}

// isCallOrJumpTableTarget reports whether any predecessor reached this PC
// via a CALL or the heuristic jump-table walk — per SPEC_FULL.md §11's
// supplemented default-label feature, these addresses get a synthesized
// L<hex> header even with no registered routine name.
func isCallOrJumpTableTarget(preds []explore.Edge) bool {
	for _, e := range preds {
		switch e.Label {
		case explore.EdgeCallNN, explore.EdgeCallCCNN, explore.EdgeJumpTable:
			return true
		}
	}
	return false
}

func needsPredecessorComment(preds []explore.Edge) bool {
	if len(preds) == 0 {
		return false
	}
	if len(preds) == 1 && preds[0].Label == explore.EdgeFallThrough {
		return false
	}
	return true
}
