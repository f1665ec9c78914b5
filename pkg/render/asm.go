package render

import (
	"fmt"
	"strings"

	"github.com/msxdisasm/msxdis/pkg/explore"
	"github.com/msxdisasm/msxdis/pkg/inst"
	"github.com/msxdisasm/msxdis/pkg/routines"
)

// Asm renders the assembler-compatible dialect: trailing-h hex with a
// leading zero digit where needed, lowercase mnemonics, relative branches
// written $+offset instead of their resolved absolute address, rst <hex>h
// restart rendering, and a tab between mnemonic and operands.
type Asm struct {
	Routines *routines.Table
}

// Line implements Renderer.
func (a Asm) Line(rec *explore.Record) string {
	in := rec.Instruction
	mnem := formatMnemonic(in, asmTokens{})
	head, rest, ok := strings.Cut(mnem, " ")
	var line string
	if ok {
		line = head + "\t" + rest
	} else {
		line = mnem
	}
	comment := a.comment(in)
	if comment != "" {
		line += " ; " + comment
	}
	return fmt.Sprintf("%s ;%04x", line, rec.PC)
}

func (a Asm) comment(in inst.Instruction) string {
	if in.IsCall() && a.Routines != nil {
		if name, err := a.Routines.Lookup(in.Imm16); err == nil {
			return name
		}
	}
	return ""
}

type asmTokens struct{}

func (asmTokens) reg(r uint8, idx inst.IndexMode) string { return inst.RegName(r, idx) }
func (asmTokens) pair(k inst.PairKind, sel uint8, idx inst.IndexMode) string {
	return inst.PairName(k, sel, idx)
}
func (asmTokens) cond(cc uint8, rel bool) string {
	if rel {
		return inst.CondNamesRel[cc]
	}
	return inst.CondNames[cc]
}
func (asmTokens) hex8(v uint8) string   { return asmHex(fmt.Sprintf("%02X", v)) }
func (asmTokens) hex16(v uint16) string { return asmHex(fmt.Sprintf("%04X", v)) }
func (asmTokens) signed(v int8) string  { return fmt.Sprintf("%d", v) }
func (asmTokens) bit(b uint8) string    { return fmt.Sprintf("%d", b) }
func (asmTokens) rst(t uint8) string    { return asmHex(fmt.Sprintf("%02X", inst.RSTTargets[t])) }

// jumpTarget renders a relative branch as an offset from the current
// address rather than the resolved absolute destination: $+n for a forward
// branch, $-n for backward, where n accounts for the two bytes of the JR/
// DJNZ instruction itself (the assembler's $ refers to the opcode's own
// address, and e is counted from the byte after the instruction).
func (asmTokens) jumpTarget(rel int8, dest uint16) string {
	offset := int(rel) + 2
	if offset >= 0 {
		return fmt.Sprintf("$+%s", asmHex(fmt.Sprintf("%02X", offset)))
	}
	return fmt.Sprintf("$-%s", asmHex(fmt.Sprintf("%02X", -offset)))
}

func (asmTokens) mnemonicCase(s string) string { return strings.ToLower(s) }

// asmHex appends the trailing h digit suffix and, when the leftmost digit
// is A-F, a leading zero so the token can't be mistaken for an identifier.
func asmHex(digits string) string {
	if digits[0] >= 'A' && digits[0] <= 'F' {
		digits = "0" + digits
	}
	return digits + "h"
}
