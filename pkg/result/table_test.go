package result

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/msxdisasm/msxdis/pkg/explore"
	"github.com/msxdisasm/msxdis/pkg/inst"
)

func TestTableRecordsSortedByPC(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Entry{PC: 0x4006, Instruction: inst.Instruction{Family: inst.FamRET}})
	tbl.Add(Entry{PC: 0x4000, Instruction: inst.Instruction{Family: inst.FamNOP}})
	tbl.Add(Entry{PC: 0x4003, Instruction: inst.Instruction{Family: inst.FamNOP}})

	recs := tbl.Records()
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i-1].PC >= recs[i].PC {
			t.Fatalf("records out of order: %04X before %04X", recs[i-1].PC, recs[i].PC)
		}
	}
}

func TestCheckpointSaveAndLoadRoundTrips(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Entry{
		PC:          0x4006,
		Instruction: inst.Instruction{Family: inst.FamJR_CC_E, CC: 0, Rel: 2, JumpDest: 0x400A},
		Predecessors: []explore.Edge{
			{From: 0x4000, Label: explore.EdgeFallThrough},
		},
	})

	ckpt := &Checkpoint{}
	ckpt.MarkCompleted("game.rom", tbl)

	path := filepath.Join(t.TempDir(), "checkpoint.gob")
	if err := SaveCheckpoint(path, ckpt); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("checkpoint file missing: %v", err)
	}

	loaded, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.IsCompleted("game.rom") {
		t.Fatal("expected game.rom to be marked completed after round-trip")
	}
	entries := loaded.Tables["game.rom"]
	if len(entries) != 1 || entries[0].PC != 0x4006 {
		t.Fatalf("got %+v, want one entry at 0x4006", entries)
	}
}
