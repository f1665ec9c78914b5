package cpu

import (
	"github.com/msxdisasm/msxdis/pkg/inst"
	"github.com/msxdisasm/msxdis/pkg/mem"
)

// Exec executes the side effects of in on s and space. It implements only
// what the control-flow explorer needs to follow a hook installation: the
// 8/16-bit register-set loads (so a shadow copy of the registers tracks
// what a routine is about to store), INC ss / DEC ss, and the two
// instructions that write through an absolute address, LD (nn), A and
// LD (nn), HL. Every other
// family is a no-op here — flag-accurate ALU execution is out of scope
// (spec §1 Non-goals), and the explorer never branches on a computed flag.
func Exec(s *State, space *mem.Space, in inst.Instruction) {
	switch in.Family {
	case inst.FamLD_R_R:
		s.SetRegByCode(in.R, s.Reg(in.R2))
	case inst.FamLD_R_N:
		s.SetRegByCode(in.R, in.Imm8)
	case inst.FamLD_DD_NN:
		s.SetPair(in.Pair, in.Imm16)
	case inst.FamLD_SP_HL:
		s.SP = s.HL()
	case inst.FamLD_NN_A:
		space.WriteByte(int(in.Imm16), s.A)
	case inst.FamLD_NNI_HL:
		space.WriteWord(int(in.Imm16), s.HL())
	case inst.FamINC_SS:
		s.SetPair(in.Pair, s.Pair(in.Pair)+1)
	case inst.FamDEC_SS:
		s.SetPair(in.Pair, s.Pair(in.Pair)-1)
	}
}
