package inst

// RegNames indexes the 3-bit r operand field. Index 6 never names a real
// register — it marks "memory via HL" (or, under a DD/FD prefix together
// with a displacement byte, "memory via IX+d/IY+d").
var RegNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// PairNamesSP indexes the 2-bit dd/ss/rr operand field outside a PUSH/POP
// context.
var PairNamesSP = [4]string{"BC", "DE", "HL", "SP"}

// PairNamesAF indexes the 2-bit qq operand field in a PUSH/POP context.
var PairNamesAF = [4]string{"BC", "DE", "HL", "AF"}

// CondNames indexes the 3-bit cc operand field used by JP/CALL/RET.
var CondNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

// CondNamesRel indexes the 2-bit condition subset JR cc uses.
var CondNamesRel = [4]string{"NZ", "Z", "NC", "C"}

// RSTTargets indexes the 3-bit t operand field of RST.
var RSTTargets = [8]uint16{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38}

// PairName resolves a 2-bit pair selector to a register-pair name, honoring
// an active index-register substitution (DD/FD prefix) when the pair would
// otherwise name HL.
func PairName(kind PairKind, sel uint8, idx IndexMode) string {
	names := PairNamesSP
	if kind == PairAF {
		names = PairNamesAF
	}
	name := names[sel&3]
	if name == "HL" && idx != IndexNone {
		return idx.String()
	}
	return name
}

// RegName resolves a 3-bit register selector to its display name, honoring
// an active index-register substitution for the memory slot (r==6).
func RegName(r uint8, idx IndexMode) string {
	if r == 6 {
		if idx == IndexNone {
			return "(HL)"
		}
		return "(" + idx.String() + "+d)"
	}
	return RegNames[r&7]
}
