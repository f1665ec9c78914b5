// Package inst is the Z80 instruction catalog: the canonical table of
// instruction families, their opcode shapes, and the operand fields each
// family carries. It is the single source of truth consulted by both the
// decoder (pkg/decode) and the renderer (pkg/render).
package inst

// Family tags one shape of Z80 instruction. Unlike a per-register-variant
// enum, a Family covers every register/pair/condition permutation of the
// same encoding pattern — the permutation itself is resolved by the decoder
// from the opcode's embedded bit fields, not baked into the tag.
type Family uint16

const (
	FamUnknown Family = iota

	// 8-bit load group
	FamLD_R_R   // LD r, r'
	FamLD_R_N   // LD r, n
	FamLD_R_MEM // LD r, (HL) / LD r, (IX+d) / LD r, (IY+d)
	FamLD_MEM_R // LD (HL), r / LD (IX+d), r / LD (IY+d), r
	FamLD_MEM_N // LD (HL), n / LD (IX+d), n / LD (IY+d), n
	FamLD_A_BC  // LD A, (BC)
	FamLD_A_DE  // LD A, (DE)
	FamLD_A_NN  // LD A, (nn)
	FamLD_BC_A  // LD (BC), A
	FamLD_DE_A  // LD (DE), A
	FamLD_NN_A  // LD (nn), A
	FamLD_A_I   // LD A, I
	FamLD_A_R   // LD A, R
	FamLD_I_A   // LD I, A
	FamLD_R_A   // LD R, A

	// 16-bit load group
	FamLD_DD_NN  // LD dd, nn  (BC/DE/HL/SP, or IX/IY under a DD/FD prefix)
	FamLD_HL_NNI // LD HL, (nn) / LD IX, (nn) / LD IY, (nn)
	FamLD_DD_NNI // LD dd, (nn)  (ED-prefixed: BC/DE/HL/SP; unprefixed HL and IX/IY use the form above)
	FamLD_NNI_HL // LD (nn), HL / LD (nn), IX / LD (nn), IY
	FamLD_NNI_DD // LD (nn), dd  (ED-prefixed: BC/DE/HL/SP)
	FamLD_SP_HL  // LD SP, HL / LD SP, IX / LD SP, IY
	FamPUSH_QQ   // PUSH qq  (BC/DE/HL/AF, or IX/IY)
	FamPOP_QQ    // POP qq

	// Exchange & block transfer/search
	FamEX_DE_HL
	FamEX_AF_AF2
	FamEXX
	FamEX_SP_HL // EX (SP), HL / EX (SP), IX / EX (SP), IY
	FamLDI
	FamLDIR
	FamLDD
	FamLDDR
	FamCPI
	FamCPIR
	FamCPD
	FamCPDR

	// 8-bit arithmetic/logic group — one family per ALU op, per addressing shape
	FamADD_A_R
	FamADD_A_N
	FamADD_A_MEM
	FamADC_A_R
	FamADC_A_N
	FamADC_A_MEM
	FamSUB_R
	FamSUB_N
	FamSUB_MEM
	FamSBC_A_R
	FamSBC_A_N
	FamSBC_A_MEM
	FamAND_R
	FamAND_N
	FamAND_MEM
	FamXOR_R
	FamXOR_N
	FamXOR_MEM
	FamOR_R
	FamOR_N
	FamOR_MEM
	FamCP_R
	FamCP_N
	FamCP_MEM

	FamINC_R
	FamINC_MEM
	FamDEC_R
	FamDEC_MEM

	// Accumulator/flag instructions
	FamRLCA
	FamRRCA
	FamRLA
	FamRRA
	FamDAA
	FamCPL
	FamSCF
	FamCCF
	FamNEG
	FamNOP
	FamHALT
	FamDI
	FamEI
	FamIM0
	FamIM1
	FamIM2

	// 16-bit arithmetic
	FamINC_SS
	FamDEC_SS
	FamADD_HL_SS // incl. ADD IX,pp / ADD IY,rr
	FamADC_HL_SS
	FamSBC_HL_SS

	// CB-prefixed rotate/shift (register, (HL), or (IX+d)/(IY+d))
	FamRLC
	FamRRC
	FamRL
	FamRR
	FamSLA
	FamSRA
	FamSLL // undocumented, widely present in the wild
	FamSRL

	FamBIT
	FamRES
	FamSET

	// Control flow
	FamJP_NN
	FamJP_CC_NN
	FamJP_MEM_HL // JP (HL) / JP (IX) / JP (IY)
	FamJR_E
	FamJR_CC_E
	FamDJNZ_E
	FamCALL_NN
	FamCALL_CC_NN
	FamRET
	FamRET_CC
	FamRETI
	FamRETN
	FamRST

	// I/O
	FamIN_A_N
	FamOUT_N_A
	FamIN_R_C
	FamOUT_C_R
	FamINI
	FamINIR
	FamIND
	FamINDR
	FamOUTI
	FamOTIR
	FamOUTD
	FamOTDR

	FamRRD
	FamRLD

	// famSentinelCount is the number of families, not a family itself. A
	// stray DD/FD prefix before an opcode that does not reference HL has no
	// family of its own: the instruction decodes as its unprefixed family,
	// one byte longer.
	famSentinelCount
)

// IndexMode records which index register (if any) an instruction's memory
// or 16-bit-pair operand refers to, per the DD/FD prefix rules in spec §4.C.
type IndexMode uint8

const (
	IndexNone IndexMode = iota
	IndexIX
	IndexIY
)

func (m IndexMode) String() string {
	switch m {
	case IndexIX:
		return "IX"
	case IndexIY:
		return "IY"
	default:
		return "HL"
	}
}

// PairKind selects which four-entry register-pair name list a 2-bit pair
// selector indexes into — the same 2-bit encoding means BC/DE/HL/SP in an
// LD dd,nn or INC ss context but BC/DE/HL/AF in a PUSH/POP qq context.
type PairKind uint8

const (
	PairSP PairKind = iota // dd / ss / rr: BC, DE, HL, SP
	PairAF                 // qq: BC, DE, HL, AF
)

// OperandSpec records which operand fields a family's instructions carry.
// The decoder consults this to know what to extract; the renderer consults
// it to know what to print. Bit positions for fields that appear in more
// than one family are documented per extraction site in catalog.go's
// table builders, since
// Z80 encodes the same field at different offsets depending on instruction
// class (e.g. r at bits 0-2 in the ALU block, bits 3-5 in INC r).
type OperandSpec struct {
	HasR     bool // register selector r
	HasR2    bool // second register selector r' (LD r, r')
	HasPair  bool // 2-bit register-pair selector
	PairKind PairKind
	HasCC    bool // 3-bit condition (JP cc,nn / CALL cc,nn / RET cc)
	CCRel    bool // true if this is the JR-only 2-bit condition subset
	HasBit   bool // 3-bit bit index (BIT/RES/SET)
	HasRST   bool // 3-bit restart selector t
	HasDisp  bool // consumes signed displacement d (IX+d/IY+d forms)
	HasRel   bool // consumes signed relative offset e
	HasImm8  bool // consumes unsigned 8-bit immediate n
	HasImm16 bool // consumes unsigned 16-bit immediate nn
	IsMem    bool // the r/pair field may resolve to a memory reference
}

// FamilyMeta is the per-family catalog entry: everything that's invariant
// across every instance of the family.
type FamilyMeta struct {
	Name    string // mnemonic stem, e.g. "LD r, r'" — renderer fills in operands
	Operand OperandSpec
}

// Catalog maps every Family to its metadata. Populated in init() below by
// table-driven loops, the same style as the teacher's pkg/inst/catalog.go.
var Catalog [famSentinelCount]FamilyMeta

func init() {
	set := func(f Family, name string, spec OperandSpec) {
		Catalog[f] = FamilyMeta{Name: name, Operand: spec}
	}

	set(FamLD_R_R, "LD r, r'", OperandSpec{HasR: true, HasR2: true})
	set(FamLD_R_N, "LD r, n", OperandSpec{HasR: true, HasImm8: true})
	set(FamLD_R_MEM, "LD r, (HL)", OperandSpec{HasR: true, IsMem: true, HasDisp: true})
	set(FamLD_MEM_R, "LD (HL), r", OperandSpec{HasR: true, IsMem: true, HasDisp: true})
	set(FamLD_MEM_N, "LD (HL), n", OperandSpec{IsMem: true, HasDisp: true, HasImm8: true})
	set(FamLD_A_BC, "LD A, (BC)", OperandSpec{})
	set(FamLD_A_DE, "LD A, (DE)", OperandSpec{})
	set(FamLD_A_NN, "LD A, (nn)", OperandSpec{HasImm16: true})
	set(FamLD_BC_A, "LD (BC), A", OperandSpec{})
	set(FamLD_DE_A, "LD (DE), A", OperandSpec{})
	set(FamLD_NN_A, "LD (nn), A", OperandSpec{HasImm16: true})
	set(FamLD_A_I, "LD A, I", OperandSpec{})
	set(FamLD_A_R, "LD A, R", OperandSpec{})
	set(FamLD_I_A, "LD I, A", OperandSpec{})
	set(FamLD_R_A, "LD R, A", OperandSpec{})

	set(FamLD_DD_NN, "LD dd, nn", OperandSpec{HasPair: true, PairKind: PairSP, HasImm16: true})
	set(FamLD_HL_NNI, "LD HL, (nn)", OperandSpec{HasImm16: true})
	set(FamLD_DD_NNI, "LD dd, (nn)", OperandSpec{HasPair: true, PairKind: PairSP, HasImm16: true})
	set(FamLD_NNI_HL, "LD (nn), HL", OperandSpec{HasImm16: true})
	set(FamLD_NNI_DD, "LD (nn), dd", OperandSpec{HasPair: true, PairKind: PairSP, HasImm16: true})
	set(FamLD_SP_HL, "LD SP, HL", OperandSpec{})
	set(FamPUSH_QQ, "PUSH qq", OperandSpec{HasPair: true, PairKind: PairAF})
	set(FamPOP_QQ, "POP qq", OperandSpec{HasPair: true, PairKind: PairAF})

	set(FamEX_DE_HL, "EX DE, HL", OperandSpec{})
	set(FamEX_AF_AF2, "EX AF, AF'", OperandSpec{})
	set(FamEXX, "EXX", OperandSpec{})
	set(FamEX_SP_HL, "EX (SP), HL", OperandSpec{})
	set(FamLDI, "LDI", OperandSpec{})
	set(FamLDIR, "LDIR", OperandSpec{})
	set(FamLDD, "LDD", OperandSpec{})
	set(FamLDDR, "LDDR", OperandSpec{})
	set(FamCPI, "CPI", OperandSpec{})
	set(FamCPIR, "CPIR", OperandSpec{})
	set(FamCPD, "CPD", OperandSpec{})
	set(FamCPDR, "CPDR", OperandSpec{})

	aluR := func(f Family, name string) { set(f, name, OperandSpec{HasR: true}) }
	aluN := func(f Family, name string) { set(f, name, OperandSpec{HasImm8: true}) }
	aluMem := func(f Family, name string) { set(f, name, OperandSpec{IsMem: true, HasDisp: true}) }

	aluR(FamADD_A_R, "ADD A, r")
	aluN(FamADD_A_N, "ADD A, n")
	aluMem(FamADD_A_MEM, "ADD A, (HL)")
	aluR(FamADC_A_R, "ADC A, r")
	aluN(FamADC_A_N, "ADC A, n")
	aluMem(FamADC_A_MEM, "ADC A, (HL)")
	aluR(FamSUB_R, "SUB r")
	aluN(FamSUB_N, "SUB n")
	aluMem(FamSUB_MEM, "SUB (HL)")
	aluR(FamSBC_A_R, "SBC A, r")
	aluN(FamSBC_A_N, "SBC A, n")
	aluMem(FamSBC_A_MEM, "SBC A, (HL)")
	aluR(FamAND_R, "AND r")
	aluN(FamAND_N, "AND n")
	aluMem(FamAND_MEM, "AND (HL)")
	aluR(FamXOR_R, "XOR r")
	aluN(FamXOR_N, "XOR n")
	aluMem(FamXOR_MEM, "XOR (HL)")
	aluR(FamOR_R, "OR r")
	aluN(FamOR_N, "OR n")
	aluMem(FamOR_MEM, "OR (HL)")
	aluR(FamCP_R, "CP r")
	aluN(FamCP_N, "CP n")
	aluMem(FamCP_MEM, "CP (HL)")

	set(FamINC_R, "INC r", OperandSpec{HasR: true})
	set(FamINC_MEM, "INC (HL)", OperandSpec{IsMem: true, HasDisp: true})
	set(FamDEC_R, "DEC r", OperandSpec{HasR: true})
	set(FamDEC_MEM, "DEC (HL)", OperandSpec{IsMem: true, HasDisp: true})

	set(FamRLCA, "RLCA", OperandSpec{})
	set(FamRRCA, "RRCA", OperandSpec{})
	set(FamRLA, "RLA", OperandSpec{})
	set(FamRRA, "RRA", OperandSpec{})
	set(FamDAA, "DAA", OperandSpec{})
	set(FamCPL, "CPL", OperandSpec{})
	set(FamSCF, "SCF", OperandSpec{})
	set(FamCCF, "CCF", OperandSpec{})
	set(FamNEG, "NEG", OperandSpec{})
	set(FamNOP, "NOP", OperandSpec{})
	set(FamHALT, "HALT", OperandSpec{})
	set(FamDI, "DI", OperandSpec{})
	set(FamEI, "EI", OperandSpec{})
	set(FamIM0, "IM 0", OperandSpec{})
	set(FamIM1, "IM 1", OperandSpec{})
	set(FamIM2, "IM 2", OperandSpec{})

	set(FamINC_SS, "INC ss", OperandSpec{HasPair: true, PairKind: PairSP})
	set(FamDEC_SS, "DEC ss", OperandSpec{HasPair: true, PairKind: PairSP})
	set(FamADD_HL_SS, "ADD HL, ss", OperandSpec{HasPair: true, PairKind: PairSP})
	set(FamADC_HL_SS, "ADC HL, ss", OperandSpec{HasPair: true, PairKind: PairSP})
	set(FamSBC_HL_SS, "SBC HL, ss", OperandSpec{HasPair: true, PairKind: PairSP})

	shift := func(f Family, name string) {
		set(f, name, OperandSpec{HasR: true, IsMem: true, HasDisp: true})
	}
	shift(FamRLC, "RLC")
	shift(FamRRC, "RRC")
	shift(FamRL, "RL")
	shift(FamRR, "RR")
	shift(FamSLA, "SLA")
	shift(FamSRA, "SRA")
	shift(FamSLL, "SLL")
	shift(FamSRL, "SRL")

	set(FamBIT, "BIT b, r", OperandSpec{HasR: true, HasBit: true, IsMem: true, HasDisp: true})
	set(FamRES, "RES b, r", OperandSpec{HasR: true, HasBit: true, IsMem: true, HasDisp: true})
	set(FamSET, "SET b, r", OperandSpec{HasR: true, HasBit: true, IsMem: true, HasDisp: true})

	set(FamJP_NN, "JP nn", OperandSpec{HasImm16: true})
	set(FamJP_CC_NN, "JP cc, nn", OperandSpec{HasCC: true, HasImm16: true})
	set(FamJP_MEM_HL, "JP (HL)", OperandSpec{})
	set(FamJR_E, "JR e", OperandSpec{HasRel: true})
	set(FamJR_CC_E, "JR cc, e", OperandSpec{HasCC: true, CCRel: true, HasRel: true})
	set(FamDJNZ_E, "DJNZ e", OperandSpec{HasRel: true})
	set(FamCALL_NN, "CALL nn", OperandSpec{HasImm16: true})
	set(FamCALL_CC_NN, "CALL cc, nn", OperandSpec{HasCC: true, HasImm16: true})
	set(FamRET, "RET", OperandSpec{})
	set(FamRET_CC, "RET cc", OperandSpec{HasCC: true})
	set(FamRETI, "RETI", OperandSpec{})
	set(FamRETN, "RETN", OperandSpec{})
	set(FamRST, "RST t", OperandSpec{HasRST: true})

	set(FamIN_A_N, "IN A, (n)", OperandSpec{HasImm8: true})
	set(FamOUT_N_A, "OUT (n), A", OperandSpec{HasImm8: true})
	set(FamIN_R_C, "IN r, (C)", OperandSpec{HasR: true})
	set(FamOUT_C_R, "OUT (C), r", OperandSpec{HasR: true})
	set(FamINI, "INI", OperandSpec{})
	set(FamINIR, "INIR", OperandSpec{})
	set(FamIND, "IND", OperandSpec{})
	set(FamINDR, "INDR", OperandSpec{})
	set(FamOUTI, "OUTI", OperandSpec{})
	set(FamOTIR, "OTIR", OperandSpec{})
	set(FamOUTD, "OUTD", OperandSpec{})
	set(FamOTDR, "OTDR", OperandSpec{})
	set(FamRRD, "RRD", OperandSpec{})
	set(FamRLD, "RLD", OperandSpec{})
}
