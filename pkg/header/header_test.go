package header

import (
	"testing"

	"github.com/msxdisasm/msxdis/pkg/mem"
)

func TestReadDecodesAllSevenFields(t *testing.T) {
	space := mem.New()
	space.LoadAt(0x4000, []byte{
		'A', 'B', // signature
		0x06, 0x40, // INIT = 0x4006
		0x00, 0x00, // STATEMENT
		0x00, 0x00, // DEVICE
		0x00, 0x00, // TEXT
		0x00, 0x00, // reserved
		0x00, 0x00, // reserved
		0xAA, 0xBB, // reserved (last word, offset 14-15)
	})

	h, err := Read(space, 0x4000)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if h.Init != 0x4006 {
		t.Fatalf("Init = 0x%04X, want 0x4006", h.Init)
	}
	if h.Reserved[2] != 0xBBAA {
		t.Fatalf("Reserved[2] = 0x%04X, want 0xBBAA", h.Reserved[2])
	}
}

func TestReadReportsInvalidSignature(t *testing.T) {
	space := mem.New()
	rom := make([]byte, Size)
	rom[0], rom[1] = 0x00, 0x00
	space.LoadAt(0x4000, rom)

	_, err := Read(space, 0x4000)
	if err == nil {
		t.Fatal("expected an InvalidSignatureError for a missing AB signature")
	}
	if _, ok := err.(*InvalidSignatureError); !ok {
		t.Fatalf("got error type %T, want *InvalidSignatureError", err)
	}
}
