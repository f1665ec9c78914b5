package decode

import (
	"testing"

	"github.com/msxdisasm/msxdis/pkg/inst"
	"github.com/msxdisasm/msxdis/pkg/mem"
)

func load(data map[int][]byte) *mem.Space {
	s := mem.New()
	for base, bytes := range data {
		s.LoadAt(base, bytes)
	}
	return s
}

func TestDecodeRET(t *testing.T) {
	s := load(map[int][]byte{0x4006: {0xC9}})
	in, err := Decode(s, 0x4006)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Family != inst.FamRET || in.Size != 1 {
		t.Fatalf("got %+v, want RET size 1", in)
	}
}

func TestDecodeJRNZRelative(t *testing.T) {
	s := load(map[int][]byte{0x4006: {0x20, 0x02}})
	in, err := Decode(s, 0x4006)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Family != inst.FamJR_CC_E || in.Size != 2 {
		t.Fatalf("got %+v, want JR_CC_E size 2", in)
	}
	if in.JumpDest != 0x400A {
		t.Fatalf("jump dest = 0x%04X, want 0x400A", in.JumpDest)
	}
}

func TestDecodeCallNN(t *testing.T) {
	s := load(map[int][]byte{0x4006: {0xCD, 0x0A, 0x40}})
	in, err := Decode(s, 0x4006)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Family != inst.FamCALL_NN || in.Size != 3 || in.JumpDest != 0x400A {
		t.Fatalf("got %+v, want CALL_NN size 3 dest 0x400A", in)
	}
}

func TestDecodeCallAllEightConditions(t *testing.T) {
	for cc := uint8(0); cc < 8; cc++ {
		op := 0xC4 | cc<<3
		s := load(map[int][]byte{0x4000: {op, 0x00, 0x50}})
		in, err := Decode(s, 0x4000)
		if err != nil {
			t.Fatalf("cc=%d: unexpected error: %v", cc, err)
		}
		if in.Family != inst.FamCALL_CC_NN || in.CC != cc {
			t.Fatalf("cc=%d: got %+v", cc, in)
		}
	}
}

func TestDecodeIndexedLoadConsumesDisplacement(t *testing.T) {
	// LD A, (IX+5)
	s := load(map[int][]byte{0x4000: {0xDD, 0x7E, 0x05}})
	in, err := Decode(s, 0x4000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Family != inst.FamLD_R_MEM || in.Index != inst.IndexIX || in.Disp != 5 || in.Size != 3 {
		t.Fatalf("got %+v, want LD_R_MEM IX disp=5 size=3", in)
	}
}

func TestDecodeIndexPrefixIgnoredWhenNoHLReference(t *testing.T) {
	// DD 3E 09 -> DD prefix has no effect on LD A,n; decodes as LD A, 9, one byte longer.
	s := load(map[int][]byte{0x4000: {0xDD, 0x3E, 0x09}})
	in, err := Decode(s, 0x4000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Family != inst.FamLD_R_N || in.Index != inst.IndexNone || in.Imm8 != 0x09 || in.Size != 3 {
		t.Fatalf("got %+v, want LD_R_N no-index imm=9 size=3", in)
	}
}

func TestDecodeDDCBConsumesFourBytesDispAtOffsetTwo(t *testing.T) {
	// DD CB 02 46 -> BIT 0, (IX+2)
	s := load(map[int][]byte{0x4000: {0xDD, 0xCB, 0x02, 0x46}})
	in, err := Decode(s, 0x4000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Family != inst.FamBIT || in.Index != inst.IndexIX || in.Disp != 2 || in.Size != 4 {
		t.Fatalf("got %+v, want BIT IX disp=2 size=4", in)
	}
}

func TestDecodeRETI(t *testing.T) {
	s := load(map[int][]byte{0x4000: {0xED, 0x4D}})
	in, err := Decode(s, 0x4000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Family != inst.FamRETI || in.Size != 2 {
		t.Fatalf("got %+v, want RETI size 2", in)
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	// ED FF is not a documented opcode.
	s := load(map[int][]byte{0x4000: {0xED, 0xFF}})
	_, err := Decode(s, 0x4000)
	if err == nil {
		t.Fatal("expected UnknownOpcodeError")
	}
	if _, ok := err.(*UnknownOpcodeError); !ok {
		t.Fatalf("got %T, want *UnknownOpcodeError", err)
	}
}

func TestDecodeUninitializedByteFails(t *testing.T) {
	s := mem.New()
	if _, err := Decode(s, 0x4000); err == nil {
		t.Fatal("expected error decoding an unloaded byte")
	}
}
