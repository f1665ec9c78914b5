package explore

import (
	"github.com/msxdisasm/msxdis/pkg/inst"
	"github.com/msxdisasm/msxdis/pkg/mem"
)

// hlPlusASignature is the helper routine's exact byte encoding:
// ADD A,L; LD L,A; RET NC; INC H; RET.
var hlPlusASignature = [5]byte{0x85, 0x6F, 0xD0, 0x24, 0xC9}

// pcMagicPrefix and pcMagicSuffix are the fixed parts of the trampoline
// that doubles A, recovers the table base pushed by its caller, calls the
// HL+=A helper, and performs the indirect jump: ADD A,A; POP HL;
// CALL <hlPlusA>; LD E,(HL); INC HL; LD D,(HL); EX DE,HL; JP (HL).
// Bytes 3-4 (the CALL operand) vary with where the helper landed;
// detectJumpTableSignatures fills them in with the helper's address.
var pcMagicPrefix = [2]byte{0x87, 0xE1}
var pcMagicSuffix = [5]byte{0x5E, 0x23, 0x56, 0xEB, 0xE9}

// jumpTableDivergence is the threshold past which two consecutive table
// entries are considered too far apart to still be part of the same
// table; crossing it stops the walk without enqueueing the diverging
// entry.
const jumpTableDivergence = 0x400

// detectJumpTableSignatures scans the whole address space for the
// HL+=A helper and the PC-magic trampoline that calls it, recording the
// address of each one found (and installing a label for it). The
// trampoline is searched for only once the helper has been found. Absence of either signature simply means this binary never uses the
// computed-dispatch idiom; CALL nn decoding then never matches
// isJumpTableCall and proceeds as an ordinary call.
func detectJumpTableSignatures(ex *Explorer) {
	hlAddr, ok := findBytes(ex.space, hlPlusASignature[:])
	if !ok {
		return
	}
	ex.hlPlusAAddr = hlAddr
	ex.haveHLPlusA = true
	ex.routines.Add(hlAddr, "HL_plus_A")

	// The trampoline embeds hlAddr as a little-endian word between its
	// prefix and suffix bytes: 87 E1 CD <lo> <hi> 5E 23 56 EB E9.
	full := make([]byte, 0, 10)
	full = append(full, pcMagicPrefix[:]...)
	full = append(full, 0xCD, byte(hlAddr), byte(hlAddr>>8))
	full = append(full, pcMagicSuffix[:]...)

	tAddr, ok := findBytes(ex.space, full)
	if !ok {
		return
	}
	ex.pcMagicAddr = tAddr
	ex.pcMagicKnown = true
	ex.routines.Add(tAddr, "PC_magic")
}

// findBytes scans the whole address space for the first occurrence of
// pattern. A candidate start position is abandoned as soon as a cell
// disagrees or is uninitialized; the pattern can never span a hole.
func findBytes(space *mem.Space, pattern []byte) (uint16, bool) {
	if len(pattern) == 0 {
		return 0, false
	}
	for start := 0; start+len(pattern) <= mem.Size; start++ {
		match := true
		for i, want := range pattern {
			got, err := space.ReadByte(start + i)
			if err != nil || got != want {
				match = false
				break
			}
		}
		if match {
			return uint16(start), true
		}
	}
	return 0, false
}

func (ex *Explorer) isJumpTableCall(in inst.Instruction) bool {
	if in.Family != inst.FamCALL_NN || !ex.pcMagicKnown {
		return false
	}
	return in.Imm16 == ex.pcMagicAddr
}

// walkJumpTable reads consecutive little-endian words starting right
// after the CALL, enqueueing each as a jump-table entry until two
// consecutive entries diverge by at least jumpTableDivergence, or an
// uninitialized read ends the walk early (both are normal termination,
// not errors). The call's own fall-through is not enqueued: the bytes
// after the CALL are the table itself, not code.
func (ex *Explorer) walkJumpTable(callPC, fallThrough uint16) {
	offset := int(callPC) + 3
	var last uint16
	first := true
	for {
		word, err := ex.space.ReadWord(offset)
		if err != nil {
			return
		}
		if !first && absDiff(word, last) >= jumpTableDivergence {
			return
		}
		first = false
		last = word
		ex.enqueueFrom(callPC, word, EdgeJumpTable)
		offset += 2
	}
}

func absDiff(a, b uint16) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
