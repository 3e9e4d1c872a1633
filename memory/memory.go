// Package memory provides the byte-addressable memory image seen by the
// simulated processor.
//
// Words are 32 bits wide and stored little-endian. No alignment is
// enforced: a word access at any address touches the four bytes starting
// there.
package memory

// Memory is the word access contract between the processor and its
// memory image.
type Memory interface {
	// ReadWord returns the 32-bit word at addr.
	ReadWord(addr uint32) (value uint32, err error)
	// WriteWord stores a 32-bit word at addr.
	WriteWord(addr uint32, value uint32) error
}
