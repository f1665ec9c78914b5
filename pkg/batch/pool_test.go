package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/msxdisasm/msxdis/pkg/explore"
	"github.com/msxdisasm/msxdis/pkg/result"
)

func writeROM(t *testing.T, dir, name string, body []byte) string {
	t.Helper()
	rom := make([]byte, 16384)
	rom[0], rom[1] = 'A', 'B'
	copy(rom[2:], []byte{0x06, 0x40}) // INIT = 0x4006
	copy(rom[6:], body)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, rom, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestPoolRunProcessesAllTasks(t *testing.T) {
	dir := t.TempDir()
	a := writeROM(t, dir, "a.rom", []byte{0xC9}) // RET
	b := writeROM(t, dir, "b.rom", []byte{0xC9})

	pool := NewPool(2, nil, explore.BranchAll)
	outcomes := pool.Run([]Task{{Path: a}, {Path: b}}, nil, false)

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Err != nil {
			t.Fatalf("%s: unexpected error %v", o.Path, o.Err)
		}
		if o.Table.Len() != 1 {
			t.Fatalf("%s: got %d records, want 1 (a single RET)", o.Path, o.Table.Len())
		}
	}
	processed, failed := pool.Stats()
	if processed != 2 || failed != 0 {
		t.Fatalf("stats = (%d, %d), want (2, 0)", processed, failed)
	}
}

func TestPoolRunSkipsCompletedTasks(t *testing.T) {
	dir := t.TempDir()
	a := writeROM(t, dir, "a.rom", []byte{0xC9})
	b := writeROM(t, dir, "b.rom", []byte{0xC9})

	resume := &result.Checkpoint{}
	resume.MarkCompleted(a, result.NewTable())

	pool := NewPool(1, nil, explore.BranchAll)
	outcomes := pool.Run([]Task{{Path: a}, {Path: b}}, resume, false)

	if len(outcomes) != 1 || outcomes[0].Path != b {
		t.Fatalf("got %+v, want exactly one outcome for %s", outcomes, b)
	}
}

func TestPoolRunReportsMissingFile(t *testing.T) {
	pool := NewPool(1, nil, explore.BranchAll)
	outcomes := pool.Run([]Task{{Path: "/nonexistent/path.rom"}}, nil, false)
	if len(outcomes) != 1 || outcomes[0].Err == nil {
		t.Fatalf("got %+v, want a single outcome carrying a read error", outcomes)
	}
	_, failed := pool.Stats()
	if failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
}
