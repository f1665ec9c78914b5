package inst

// OpEntry is one resolved opcode-table entry: the family an opcode byte
// belongs to, plus every operand field already extracted from the byte's
// bit pattern. Size counts the opcode byte(s) and any immediate bytes that
// belong to the entry's own prefix level — it excludes a leading DD/FD
// escape byte and any displacement byte. The decoder does not read Size:
// it computes each instruction's length from the bytes it consumes.
type OpEntry struct {
	Family Family
	Size   uint8
	R      uint8
	R2     uint8
	Pair   uint8
	CC     uint8
	Bit    uint8
	RST    uint8
}

// BaseTable resolves every unprefixed opcode byte. Bytes 0xCB, 0xDD, 0xED,
// 0xFD are prefixes, not instructions; BaseTable holds zero (FamUnknown)
// entries for them and pkg/decode special-cases the byte before consulting
// the table.
var BaseTable [256]OpEntry

// CBTable resolves every CB-prefixed opcode byte (rotate/shift, BIT, RES,
// SET on a register). When accessed through a DD/FD/CB (DDCB/FDCB) escape,
// the decoder reuses this table for the family/bit-index/op and overrides
// the operand to indexed memory itself.
var CBTable [256]OpEntry

// EDTable resolves the sparse set of documented (and well-known,
// widely-emitted undocumented-duplicate) ED-prefixed opcode bytes.
var EDTable = map[uint8]OpEntry{}

// IndexableOpcodes flags which base-table opcode bytes have their HL (or
// (HL)) operand replaced by IX/IY (or (IX+d)/(IY+d)) under a DD/FD prefix.
// A DD/FD byte preceding any other opcode is a one-byte no-op on real
// hardware: the instruction decodes exactly as its unprefixed form, one
// byte longer.
var IndexableOpcodes [256]bool

// RegRotateFamilies indexes the 3-bit CB-prefixed rotate/shift subop field.
var RegRotateFamilies = [8]Family{FamRLC, FamRRC, FamRL, FamRR, FamSLA, FamSRA, FamSLL, FamSRL}

// AluFamilyReg, AluFamilyMem and AluFamilyImm index the 3-bit ALU op field shared by the A,r (0x80-0xBF)
// and A,n (0xC6.. step 8) opcode blocks.
var AluFamilyReg = [8]Family{FamADD_A_R, FamADC_A_R, FamSUB_R, FamSBC_A_R, FamAND_R, FamXOR_R, FamOR_R, FamCP_R}
var AluFamilyMem = [8]Family{FamADD_A_MEM, FamADC_A_MEM, FamSUB_MEM, FamSBC_A_MEM, FamAND_MEM, FamXOR_MEM, FamOR_MEM, FamCP_MEM}
var AluFamilyImm = [8]Family{FamADD_A_N, FamADC_A_N, FamSUB_N, FamSBC_A_N, FamAND_N, FamXOR_N, FamOR_N, FamCP_N}

func init() {
	buildBaseTable()
	buildCBTable()
	buildEDTable()
	markIndexable()
}

func buildBaseTable() {
	BaseTable[0x00] = OpEntry{Family: FamNOP, Size: 1}
	BaseTable[0x07] = OpEntry{Family: FamRLCA, Size: 1}
	BaseTable[0x08] = OpEntry{Family: FamEX_AF_AF2, Size: 1}
	BaseTable[0x0F] = OpEntry{Family: FamRRCA, Size: 1}
	BaseTable[0x10] = OpEntry{Family: FamDJNZ_E, Size: 2}
	BaseTable[0x17] = OpEntry{Family: FamRLA, Size: 1}
	BaseTable[0x18] = OpEntry{Family: FamJR_E, Size: 2}
	BaseTable[0x1F] = OpEntry{Family: FamRRA, Size: 1}
	BaseTable[0x22] = OpEntry{Family: FamLD_NNI_HL, Size: 3}
	BaseTable[0x27] = OpEntry{Family: FamDAA, Size: 1}
	BaseTable[0x2A] = OpEntry{Family: FamLD_HL_NNI, Size: 3}
	BaseTable[0x2F] = OpEntry{Family: FamCPL, Size: 1}
	BaseTable[0x32] = OpEntry{Family: FamLD_NN_A, Size: 3}
	BaseTable[0x34] = OpEntry{Family: FamINC_MEM, Size: 1}
	BaseTable[0x35] = OpEntry{Family: FamDEC_MEM, Size: 1}
	BaseTable[0x36] = OpEntry{Family: FamLD_MEM_N, Size: 2}
	BaseTable[0x37] = OpEntry{Family: FamSCF, Size: 1}
	BaseTable[0x3A] = OpEntry{Family: FamLD_A_NN, Size: 3}
	BaseTable[0x3F] = OpEntry{Family: FamCCF, Size: 1}
	BaseTable[0x02] = OpEntry{Family: FamLD_BC_A, Size: 1}
	BaseTable[0x12] = OpEntry{Family: FamLD_DE_A, Size: 1}
	BaseTable[0x0A] = OpEntry{Family: FamLD_A_BC, Size: 1}
	BaseTable[0x1A] = OpEntry{Family: FamLD_A_DE, Size: 1}

	// JR cc,e: 0x20, 0x28, 0x30, 0x38 — cc is the 2-bit relative subset.
	for i, op := range []uint8{0x20, 0x28, 0x30, 0x38} {
		BaseTable[op] = OpEntry{Family: FamJR_CC_E, Size: 2, CC: uint8(i)}
	}

	// LD dd,nn / INC ss / DEC ss / ADD HL,ss: pair at bits 4-5.
	for pair := uint8(0); pair < 4; pair++ {
		BaseTable[0x01|pair<<4] = OpEntry{Family: FamLD_DD_NN, Size: 3, Pair: pair}
		BaseTable[0x03|pair<<4] = OpEntry{Family: FamINC_SS, Size: 1, Pair: pair}
		BaseTable[0x0B|pair<<4] = OpEntry{Family: FamDEC_SS, Size: 1, Pair: pair}
		BaseTable[0x09|pair<<4] = OpEntry{Family: FamADD_HL_SS, Size: 1, Pair: pair}
	}

	// INC r / DEC r / LD r,n: r at bits 3-5. Opcode = base | r<<3.
	for r := uint8(0); r < 8; r++ {
		if r == 6 {
			continue // (HL) slot handled separately above (0x34/0x35/0x36)
		}
		BaseTable[0x04|r<<3] = OpEntry{Family: FamINC_R, Size: 1, R: r}
		BaseTable[0x05|r<<3] = OpEntry{Family: FamDEC_R, Size: 1, R: r}
		BaseTable[0x06|r<<3] = OpEntry{Family: FamLD_R_N, Size: 2, R: r}
	}

	// LD r, r' (0x40-0x7F): dst r at bits 3-5, src r' at bits 0-2.
	// 0x76 (dst=(HL), src=(HL)) is HALT, not a load.
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x40 | dst<<3 | src
			if dst == 6 && src == 6 {
				BaseTable[op] = OpEntry{Family: FamHALT, Size: 1}
				continue
			}
			switch {
			case dst == 6:
				BaseTable[op] = OpEntry{Family: FamLD_MEM_R, Size: 1, R: src}
			case src == 6:
				BaseTable[op] = OpEntry{Family: FamLD_R_MEM, Size: 1, R: dst}
			default:
				BaseTable[op] = OpEntry{Family: FamLD_R_R, Size: 1, R: dst, R2: src}
			}
		}
	}

	// ALU A,r (0x80-0xBF): op at bits 3-5, r at bits 0-2.
	for op := uint8(0); op < 8; op++ {
		for r := uint8(0); r < 8; r++ {
			enc := 0x80 | op<<3 | r
			if r == 6 {
				BaseTable[enc] = OpEntry{Family: AluFamilyMem[op], Size: 1}
			} else {
				BaseTable[enc] = OpEntry{Family: AluFamilyReg[op], Size: 1, R: r}
			}
		}
		// ALU A,n: 0xC6 step 8.
		BaseTable[0xC6|op<<3] = OpEntry{Family: AluFamilyImm[op], Size: 2}
	}

	// PUSH/POP qq, RET cc, JP cc/nn, CALL cc/nn, RST t: all top-nibble-driven.
	for qq := uint8(0); qq < 4; qq++ {
		BaseTable[0xC1|qq<<4] = OpEntry{Family: FamPOP_QQ, Size: 1, Pair: qq}
		BaseTable[0xC5|qq<<4] = OpEntry{Family: FamPUSH_QQ, Size: 1, Pair: qq}
	}
	for cc := uint8(0); cc < 8; cc++ {
		BaseTable[0xC0|cc<<3] = OpEntry{Family: FamRET_CC, Size: 1, CC: cc}
		BaseTable[0xC2|cc<<3] = OpEntry{Family: FamJP_CC_NN, Size: 3, CC: cc}
		BaseTable[0xC4|cc<<3] = OpEntry{Family: FamCALL_CC_NN, Size: 3, CC: cc}
		BaseTable[0xC7|cc<<3] = OpEntry{Family: FamRST, Size: 1, RST: cc}
	}

	BaseTable[0xC3] = OpEntry{Family: FamJP_NN, Size: 3}
	BaseTable[0xC9] = OpEntry{Family: FamRET, Size: 1}
	BaseTable[0xCD] = OpEntry{Family: FamCALL_NN, Size: 3}
	BaseTable[0xD3] = OpEntry{Family: FamOUT_N_A, Size: 2}
	BaseTable[0xD9] = OpEntry{Family: FamEXX, Size: 1}
	BaseTable[0xDB] = OpEntry{Family: FamIN_A_N, Size: 2}
	BaseTable[0xE3] = OpEntry{Family: FamEX_SP_HL, Size: 1}
	BaseTable[0xE9] = OpEntry{Family: FamJP_MEM_HL, Size: 1}
	BaseTable[0xEB] = OpEntry{Family: FamEX_DE_HL, Size: 1}
	BaseTable[0xF3] = OpEntry{Family: FamDI, Size: 1}
	BaseTable[0xF9] = OpEntry{Family: FamLD_SP_HL, Size: 1}
	BaseTable[0xFB] = OpEntry{Family: FamEI, Size: 1}
}

func buildCBTable() {
	for op := 0; op < 256; op++ {
		group := uint8(op) >> 6
		sub := (uint8(op) >> 3) & 7
		r := uint8(op) & 7
		switch group {
		case 0:
			CBTable[op] = OpEntry{Family: RegRotateFamilies[sub], Size: 2, R: r}
		case 1:
			CBTable[op] = OpEntry{Family: FamBIT, Size: 2, R: r, Bit: sub}
		case 2:
			CBTable[op] = OpEntry{Family: FamRES, Size: 2, R: r, Bit: sub}
		case 3:
			CBTable[op] = OpEntry{Family: FamSET, Size: 2, R: r, Bit: sub}
		}
	}
}

func buildEDTable() {
	set := func(op uint8, e OpEntry) { EDTable[op] = e }

	for pair := uint8(0); pair < 4; pair++ {
		set(0x42|pair<<4, OpEntry{Family: FamSBC_HL_SS, Size: 2, Pair: pair})
		set(0x4A|pair<<4, OpEntry{Family: FamADC_HL_SS, Size: 2, Pair: pair})
		set(0x43|pair<<4, OpEntry{Family: FamLD_NNI_DD, Size: 4, Pair: pair})
		set(0x4B|pair<<4, OpEntry{Family: FamLD_DD_NNI, Size: 4, Pair: pair})
	}

	// NEG and RETN repeat at the x4/x5 slots of each ED 0x4x-0x7x row, and
	// IM at every x6/xE slot; real hardware decodes these duplicates
	// identically, and cartridges built with lax assemblers do emit them.
	// RETI is catalogued only at 0x4D, and the xC/xD mirrors of NEG and
	// RETN are not in the table.
	for _, row := range []uint8{0x40, 0x50, 0x60, 0x70} {
		set(row|0x04, OpEntry{Family: FamNEG, Size: 2})
		set(row|0x05, OpEntry{Family: FamRETN, Size: 2})
	}
	set(0x4D, OpEntry{Family: FamRETI, Size: 2})
	set(0x46, OpEntry{Family: FamIM0, Size: 2})
	set(0x4E, OpEntry{Family: FamIM0, Size: 2})
	set(0x56, OpEntry{Family: FamIM1, Size: 2})
	set(0x5E, OpEntry{Family: FamIM2, Size: 2})
	set(0x66, OpEntry{Family: FamIM0, Size: 2})
	set(0x6E, OpEntry{Family: FamIM0, Size: 2})
	set(0x76, OpEntry{Family: FamIM1, Size: 2})
	set(0x7E, OpEntry{Family: FamIM2, Size: 2})

	set(0x47, OpEntry{Family: FamLD_I_A, Size: 2})
	set(0x4F, OpEntry{Family: FamLD_R_A, Size: 2})
	set(0x57, OpEntry{Family: FamLD_A_I, Size: 2})
	set(0x5F, OpEntry{Family: FamLD_A_R, Size: 2})
	set(0x67, OpEntry{Family: FamRRD, Size: 2})
	set(0x6F, OpEntry{Family: FamRLD, Size: 2})

	// IN r,(C) / OUT (C),r: r at bits 3-5, same 0-7 encoding as the base
	// table (r==6 is the undocumented flags-only / writes-zero form).
	for r := uint8(0); r < 8; r++ {
		set(0x40|r<<3, OpEntry{Family: FamIN_R_C, Size: 2, R: r})
		set(0x41|r<<3, OpEntry{Family: FamOUT_C_R, Size: 2, R: r})
	}

	set(0xA0, OpEntry{Family: FamLDI, Size: 2})
	set(0xA1, OpEntry{Family: FamCPI, Size: 2})
	set(0xA2, OpEntry{Family: FamINI, Size: 2})
	set(0xA3, OpEntry{Family: FamOUTI, Size: 2})
	set(0xA8, OpEntry{Family: FamLDD, Size: 2})
	set(0xA9, OpEntry{Family: FamCPD, Size: 2})
	set(0xAA, OpEntry{Family: FamIND, Size: 2})
	set(0xAB, OpEntry{Family: FamOUTD, Size: 2})
	set(0xB0, OpEntry{Family: FamLDIR, Size: 2})
	set(0xB1, OpEntry{Family: FamCPIR, Size: 2})
	set(0xB2, OpEntry{Family: FamINIR, Size: 2})
	set(0xB3, OpEntry{Family: FamOTIR, Size: 2})
	set(0xB8, OpEntry{Family: FamLDDR, Size: 2})
	set(0xB9, OpEntry{Family: FamCPDR, Size: 2})
	set(0xBA, OpEntry{Family: FamINDR, Size: 2})
	set(0xBB, OpEntry{Family: FamOTDR, Size: 2})
}

func markIndexable() {
	indexable := []uint8{
		0x09, 0x19, 0x21, 0x22, 0x23, 0x29, 0x2A, 0x2B,
		0x34, 0x35, 0x36, 0x39,
		0x46, 0x4E, 0x56, 0x5E, 0x66, 0x6E, 0x7E,
		0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x77,
		0x86, 0x8E, 0x96, 0x9E, 0xA6, 0xAE, 0xB6, 0xBE,
		0xE1, 0xE3, 0xE5, 0xE9, 0xF9,
	}
	for _, op := range indexable {
		IndexableOpcodes[op] = true
	}
}
