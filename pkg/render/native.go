package render

import (
	"fmt"
	"strings"

	"github.com/msxdisasm/msxdis/pkg/explore"
	"github.com/msxdisasm/msxdis/pkg/inst"
	"github.com/msxdisasm/msxdis/pkg/routines"
)

// Native renders 0x%04X/0x%02X operands, uppercase mnemonics and register
// names, and decimal bit indices. It decorates loads that write to the
// VDP hook slots and CALL targets known to the routine table.
type Native struct {
	Routines *routines.Table
}

// Line implements Renderer.
func (n Native) Line(rec *explore.Record) string {
	in := rec.Instruction
	mnem := formatMnemonic(in, nativeTokens{})
	comment := n.comment(in)
	if comment == "" {
		return fmt.Sprintf("%04X %s", rec.PC, mnem)
	}
	return fmt.Sprintf("%04X %-24s ; %s", rec.PC, mnem, comment)
}

func (n Native) comment(in inst.Instruction) string {
	switch in.Family {
	case inst.FamLD_NN_A:
		if in.Imm16 == 0xFD9A {
			return "VDP interrupt hook, JP opcode byte"
		}
	case inst.FamLD_NNI_HL:
		if in.Imm16 == 0xFD9B {
			return "VDP interrupt hook target"
		}
	}
	if in.IsCall() && n.Routines != nil {
		if name, err := n.Routines.Lookup(in.Imm16); err == nil {
			return fmt.Sprintf("bios.%s(...)", name)
		}
	}
	return ""
}

// tokenStyle abstracts the handful of cosmetic differences between the
// native and assembler-compatible dialects so formatMnemonic stays
// shared between native.go and asm.go.
type tokenStyle interface {
	reg(r uint8, idx inst.IndexMode) string
	pair(kind inst.PairKind, sel uint8, idx inst.IndexMode) string
	cond(cc uint8, rel bool) string
	hex8(v uint8) string
	hex16(v uint16) string
	signed(v int8) string
	bit(b uint8) string
	rst(t uint8) string
	jumpTarget(rel int8, dest uint16) string
	mnemonicCase(s string) string
}

type nativeTokens struct{}

func (nativeTokens) reg(r uint8, idx inst.IndexMode) string      { return inst.RegName(r, idx) }
func (nativeTokens) pair(k inst.PairKind, sel uint8, idx inst.IndexMode) string {
	return inst.PairName(k, sel, idx)
}
func (nativeTokens) cond(cc uint8, rel bool) string {
	if rel {
		return inst.CondNamesRel[cc]
	}
	return inst.CondNames[cc]
}
func (nativeTokens) hex8(v uint8) string   { return fmt.Sprintf("0x%02X", v) }
func (nativeTokens) hex16(v uint16) string { return fmt.Sprintf("0x%04X", v) }
func (nativeTokens) signed(v int8) string  { return fmt.Sprintf("%d", v) }
func (nativeTokens) bit(b uint8) string    { return fmt.Sprintf("%d", b) }
func (nativeTokens) rst(t uint8) string    { return fmt.Sprintf("0x%02X", inst.RSTTargets[t]) }
func (nt nativeTokens) jumpTarget(rel int8, dest uint16) string { return nt.hex16(dest) }
func (nativeTokens) mnemonicCase(s string) string               { return strings.ToUpper(s) }

// formatMnemonic substitutes the operand placeholders in a family's
// template name (e.g. "LD r, n", "JP cc, nn") with the instruction's
// actual resolved operands, using the given dialect's token formatting.
func formatMnemonic(in inst.Instruction, style tokenStyle) string {
	meta := in.Meta()
	fields := strings.Fields(meta.Name)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		base := strings.TrimSuffix(f, ",")
		comma := strings.HasSuffix(f, ",")
		rendered := substituteToken(base, in, style)
		if comma {
			rendered += ","
		}
		out = append(out, rendered)
	}
	return style.mnemonicCase(strings.Join(out, " "))
}

func substituteToken(tok string, in inst.Instruction, style tokenStyle) string {
	spec := in.Meta().Operand
	switch tok {
	case "r":
		if in.R == 6 && in.Index != inst.IndexNone {
			return formatMemRef(in.Index, in.Disp)
		}
		return style.reg(in.R, in.Index)
	case "r'":
		return style.reg(in.R2, inst.IndexNone)
	case "(HL)":
		return formatMemRef(in.Index, in.Disp)
	case "(n)":
		return "(" + style.hex8(in.Imm8) + ")"
	case "(nn)":
		return "(" + style.hex16(in.Imm16) + ")"
	case "n":
		return style.hex8(in.Imm8)
	case "nn":
		return style.hex16(in.Imm16)
	case "d":
		return style.signed(in.Disp)
	case "e":
		return style.jumpTarget(in.Rel, in.JumpDest)
	case "dd", "ss", "qq", "pp":
		return style.pair(spec.PairKind, in.Pair, in.Index)
	case "cc":
		return style.cond(in.CC, spec.CCRel)
	case "b":
		return style.bit(in.Bit)
	case "t":
		return style.rst(in.RST)
	default:
		return tok
	}
}

// formatMemRef renders the (HL)/(IX+d)/(IY+d) memory operand with its
// actual resolved displacement. Shared by both dialects: casing is applied
// uniformly to the whole rendered mnemonic afterward, and a displacement is
// conventionally decimal in either dialect.
func formatMemRef(idx inst.IndexMode, disp int8) string {
	if idx == inst.IndexNone {
		return "(HL)"
	}
	if disp >= 0 {
		return fmt.Sprintf("(%s+%d)", idx.String(), disp)
	}
	return fmt.Sprintf("(%s-%d)", idx.String(), -disp)
}
