package routines

import "testing"

func TestNewSeedsKnownBIOSVectors(t *testing.T) {
	tbl := New()
	cases := map[uint16]string{
		0x0000: "CHKRAM",
		0x0056: "FILVRM",
		0x009B: "CHGET",
		0x0179: "PCMREC",
	}
	for addr, want := range cases {
		got, err := tbl.Lookup(addr)
		if err != nil {
			t.Fatalf("lookup 0x%04X: %v", addr, err)
		}
		if got != want {
			t.Fatalf("lookup 0x%04X = %q, want %q", addr, got, want)
		}
	}
}

func TestLookupUnknownFails(t *testing.T) {
	tbl := New()
	if _, err := tbl.Lookup(0x4006); err == nil {
		t.Fatal("expected UnknownRoutineError for an address never registered")
	}
	if tbl.Has(0x4006) {
		t.Fatal("Has reported true for an unregistered address")
	}
}

func TestAddInstallsAndOverwrites(t *testing.T) {
	tbl := New()
	tbl.Add(0x4100, "HL_plus_A")
	if !tbl.Has(0x4100) {
		t.Fatal("Has reported false right after Add")
	}
	tbl.Add(0x4100, "jumpTableTrampoline")
	got, err := tbl.Lookup(0x4100)
	if err != nil || got != "jumpTableTrampoline" {
		t.Fatalf("lookup after overwrite = %q, %v", got, err)
	}
}
