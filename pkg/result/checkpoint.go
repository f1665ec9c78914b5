package result

import (
	"encoding/gob"
	"os"

	"github.com/msxdisasm/msxdis/pkg/explore"
	"github.com/msxdisasm/msxdis/pkg/inst"
)

// Checkpoint holds state for resuming a batch disassembly run: which ROM
// paths are already fully processed, and each one's accumulated entries.
type Checkpoint struct {
	Completed []string
	Tables    map[string][]Entry
}

func init() {
	// Register types for gob encoding, matching the teacher's
	// belt-and-suspenders registration even though these fields are
	// concrete rather than interface-typed.
	gob.Register(inst.Instruction{})
	gob.Register(explore.Edge{})
}

// SaveCheckpoint writes batch state to a file.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint loads batch state from a file.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}

// IsCompleted reports whether path was already fully processed in ckpt.
func (c *Checkpoint) IsCompleted(path string) bool {
	for _, p := range c.Completed {
		if p == path {
			return true
		}
	}
	return false
}

// MarkCompleted records path's table and marks it done, ready to save.
func (c *Checkpoint) MarkCompleted(path string, t *Table) {
	if c.Tables == nil {
		c.Tables = make(map[string][]Entry)
	}
	c.Tables[path] = t.Records()
	c.Completed = append(c.Completed, path)
}
