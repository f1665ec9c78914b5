// Package decode turns address-space bytes into inst.Instruction values.
// It is a pure function of (pkg/mem.Space, pkg/inst catalog): no
// package-level state survives between calls, so a decoder can be shared
// freely across explorer instances (including the concurrent batch runner
// in pkg/batch).
package decode

import (
	"fmt"

	"github.com/msxdisasm/msxdis/pkg/inst"
	"github.com/msxdisasm/msxdis/pkg/mem"
)

// UnknownOpcodeError reports a prefix-combined word matching no catalog
// family.
type UnknownOpcodeError struct {
	PC   uint16
	Word uint32
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%X at 0x%04X", e.Word, e.PC)
}

// Decode reads one instruction starting at addr. It returns the decoded
// instruction, whose Size field holds its total length in bytes, or an
// error if the fetched
// prefix word matches no catalog family or a fetched byte is uninitialized.
func Decode(space *mem.Space, addr uint16) (inst.Instruction, error) {
	a := int(addr)
	b0, err := space.ReadByte(a)
	if err != nil {
		return inst.Instruction{}, err
	}

	switch b0 {
	case 0xCB:
		return decodeCB(space, addr, inst.IndexNone, 0)
	case 0xDD:
		return decodePrefixed(space, addr, inst.IndexIX)
	case 0xFD:
		return decodePrefixed(space, addr, inst.IndexIY)
	case 0xED:
		return decodeED(space, addr)
	default:
		e, ok := lookupBase(b0)
		if !ok {
			return inst.Instruction{}, &UnknownOpcodeError{PC: addr, Word: uint32(b0)}
		}
		return materialize(space, addr, e, inst.IndexNone, 1)
	}
}

func lookupBase(b uint8) (inst.OpEntry, bool) {
	e := inst.BaseTable[b]
	if e.Family == inst.FamUnknown {
		return e, false
	}
	return e, true
}

// decodePrefixed handles a DD or FD byte: if the next byte is CB, this is
// the four-byte DDCB/FDCB indexed-bit-op form. Otherwise, if the next byte
// names an HL-referencing opcode, decode it with the index substitution
// applied (consuming a displacement byte where the family needs one).
// Anything else is the unprefixed instruction, one byte longer — on real
// hardware an index prefix preceding an opcode that never touches HL is a
// one-byte no-op.
func decodePrefixed(space *mem.Space, addr uint16, idx inst.IndexMode) (inst.Instruction, error) {
	b1, err := space.ReadByte(int(addr) + 1)
	if err != nil {
		return inst.Instruction{}, err
	}
	if b1 == 0xCB {
		return decodeCB(space, addr, idx, 2)
	}

	e, ok := lookupBase(b1)
	if !ok {
		prefix := uint16(0xDD)
		if idx == inst.IndexIY {
			prefix = 0xFD
		}
		return inst.Instruction{}, &UnknownOpcodeError{PC: addr, Word: uint32(prefix<<8 | uint16(b1))}
	}
	if inst.IndexableOpcodes[b1] {
		return materialize(space, addr, e, idx, 2)
	}
	// Prefix is a no-op: decode the base instruction, one byte longer.
	return materialize(space, addr, e, inst.IndexNone, 2)
}

// decodeCB handles the CB-prefixed form. offset is 0 for a plain CB xx
// instruction, and 2 for DDCB/FDCB, where it is the byte offset of the
// displacement d that sits between CB and the final opcode byte.
func decodeCB(space *mem.Space, addr uint16, idx inst.IndexMode, offset int) (inst.Instruction, error) {
	a := int(addr)
	if offset == 0 {
		op, err := space.ReadByte(a + 1)
		if err != nil {
			return inst.Instruction{}, err
		}
		e := inst.CBTable[op]
		return materialize(space, addr, e, idx, 2)
	}

	// DDCB/FDCB: prefix, CB, displacement d, final opcode.
	disp, err := space.ReadSigned(a + 2)
	if err != nil {
		return inst.Instruction{}, err
	}
	op, err := space.ReadByte(a + 3)
	if err != nil {
		return inst.Instruction{}, err
	}
	e := inst.CBTable[op]
	e.R = 6 // the indexed form always targets memory, never a bare register
	in := inst.Instruction{
		PC:     addr,
		Family: e.Family,
		Size:   4,
		Index:  idx,
		R:      e.R,
		Bit:    e.Bit,
		Disp:   disp,
	}
	return in, nil
}

func decodeED(space *mem.Space, addr uint16) (inst.Instruction, error) {
	b1, err := space.ReadByte(int(addr) + 1)
	if err != nil {
		return inst.Instruction{}, err
	}
	e, ok := inst.EDTable[b1]
	if !ok {
		return inst.Instruction{}, &UnknownOpcodeError{PC: addr, Word: uint32(0xED00 | uint16(b1))}
	}
	return materialize(space, addr, e, inst.IndexNone, 2)
}

// materialize builds the final Instruction from a resolved catalog entry,
// fetching whatever trailing displacement/immediate bytes the family's
// operand spec calls for. consumed is how many bytes the opcode (plus any
// escape prefix) already occupies before those trailing bytes.
func materialize(space *mem.Space, addr uint16, e inst.OpEntry, idx inst.IndexMode, consumed int) (inst.Instruction, error) {
	spec := inst.Catalog[e.Family].Operand
	a := int(addr)
	pos := a + consumed

	in := inst.Instruction{
		PC:     addr,
		Family: e.Family,
		Index:  idx,
		R:      e.R,
		R2:     e.R2,
		Pair:   e.Pair,
		CC:     e.CC,
		Bit:    e.Bit,
		RST:    e.RST,
	}

	if spec.HasDisp && idx != inst.IndexNone {
		d, err := space.ReadSigned(pos)
		if err != nil {
			return inst.Instruction{}, err
		}
		in.Disp = d
		pos++
	}
	if spec.HasImm8 {
		n, err := space.ReadByte(pos)
		if err != nil {
			return inst.Instruction{}, err
		}
		in.Imm8 = n
		pos++
	}
	if spec.HasImm16 {
		nn, err := space.ReadWord(pos)
		if err != nil {
			return inst.Instruction{}, err
		}
		in.Imm16 = nn
		pos += 2
	}
	if spec.HasRel {
		e8, err := space.ReadSigned(pos)
		if err != nil {
			return inst.Instruction{}, err
		}
		in.Rel = e8
		pos++
	}

	in.Size = uint8(pos - a)

	if in.HasKnownTarget() {
		switch e.Family {
		case inst.FamJR_E, inst.FamJR_CC_E, inst.FamDJNZ_E:
			in.JumpDest = uint16(int(addr) + int(in.Size) + int(in.Rel))
		case inst.FamRST:
			in.JumpDest = inst.RSTTargets[in.RST]
		default:
			in.JumpDest = in.Imm16
		}
	}

	return in, nil
}
