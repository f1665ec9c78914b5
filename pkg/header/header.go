// Package header decodes the 16-byte MSX cartridge header at the base of
// a loaded ROM image: the "AB" signature and the seven header words that
// follow it.
package header

import (
	"fmt"

	"github.com/msxdisasm/msxdis/pkg/mem"
)

// Size is the header's length in bytes.
const Size = 16

// InvalidSignatureError reports a header whose first two bytes are not
// the expected "AB" cartridge signature.
type InvalidSignatureError struct {
	Got [2]byte
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid cartridge signature: got %02X %02X, want 41 42", e.Got[0], e.Got[1])
}

// Header is the decoded cartridge header.
type Header struct {
	Init      uint16
	Statement uint16
	Device    uint16
	Text      uint16
	Reserved  [3]uint16
}

// Read decodes the 16-byte header starting at base. It does not require
// the signature to validate — callers that only need the INIT address
// (entry-point seeding) can ignore a returned *InvalidSignatureError.
func Read(space *mem.Space, base int) (Header, error) {
	var h Header
	sig0, err := space.ReadByte(base)
	if err != nil {
		return h, err
	}
	sig1, err := space.ReadByte(base + 1)
	if err != nil {
		return h, err
	}

	words := make([]uint16, 7)
	for i := range words {
		w, err := space.ReadWord(base + 2 + 2*i)
		if err != nil {
			return h, err
		}
		words[i] = w
	}
	h.Init = words[0]
	h.Statement = words[1]
	h.Device = words[2]
	h.Text = words[3]
	h.Reserved = [3]uint16{words[4], words[5], words[6]}

	if sig0 != 'A' || sig1 != 'B' {
		return h, &InvalidSignatureError{Got: [2]byte{sig0, sig1}}
	}
	return h, nil
}

// Render formats the header as a single comment line suitable for printing
// above the first disassembled instruction. It lists INIT, STATEMENT,
// DEVICE and TEXT; the three reserved words are not shown.
func Render(h Header) string {
	return fmt.Sprintf(
		"; Cartridge header: INIT=0x%04X STATEMENT=0x%04X DEVICE=0x%04X TEXT=0x%04X\n",
		h.Init, h.Statement, h.Device, h.Text,
	)
}
