package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
)

const (
	WORD_SIZE           = 4           // Bytes per word.
	DEFAULT_MEMORY_SIZE = 1024 * 1024 // Default image size in bytes.
)

// Flat is a contiguous memory image starting at address zero.
type Flat struct {
	Data []byte

	Reads  int // Word reads since the last reset.
	Writes int // Word writes since the last reset.
}

var _ Memory = (*Flat)(nil)

// NewFlat creates a zeroed image of size bytes.
func NewFlat(size int) (mem *Flat) {
	mem = &Flat{
		Data: make([]byte, size),
	}

	return
}

// Size returns the image size in bytes.
func (mem *Flat) Size() int {
	return len(mem.Data)
}

// Defines returns the memory geometry for the assembler.
func (mem *Flat) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("0x%x", len(mem.Data)),
	})
}

// Reset zeroes the image and the access counters.
func (mem *Flat) Reset() {
	clear(mem.Data)
	mem.Reads = 0
	mem.Writes = 0
}

// span checks that count bytes at addr are inside the image.
func (mem *Flat) span(addr uint32, count int) (err error) {
	if uint64(addr)+uint64(count) > uint64(len(mem.Data)) {
		err = ErrAddress{Addr: addr, Size: len(mem.Data)}
	}
	return
}

// ReadWord returns the little-endian word at addr.
func (mem *Flat) ReadWord(addr uint32) (value uint32, err error) {
	err = mem.span(addr, WORD_SIZE)
	if err != nil {
		return
	}

	mem.Reads++
	value = binary.LittleEndian.Uint32(mem.Data[addr:])
	return
}

// WriteWord stores value little-endian at addr.
func (mem *Flat) WriteWord(addr uint32, value uint32) (err error) {
	err = mem.span(addr, WORD_SIZE)
	if err != nil {
		return
	}

	mem.Writes++
	binary.LittleEndian.PutUint32(mem.Data[addr:], value)
	return
}

// PeekWord returns the little-endian word at addr, without counting it
// as a read.
func (mem *Flat) PeekWord(addr uint32) (value uint32, err error) {
	err = mem.span(addr, WORD_SIZE)
	if err != nil {
		return
	}

	value = binary.LittleEndian.Uint32(mem.Data[addr:])
	return
}

// PeekByte returns the byte at addr.
func (mem *Flat) PeekByte(addr uint32) (value byte, err error) {
	err = mem.span(addr, 1)
	if err != nil {
		return
	}

	value = mem.Data[addr]
	return
}

// PokeByte stores a byte at addr.
func (mem *Flat) PokeByte(addr uint32, value byte) (err error) {
	err = mem.span(addr, 1)
	if err != nil {
		return
	}

	mem.Data[addr] = value
	return
}

// LoadWords stores words consecutively starting at base.
func (mem *Flat) LoadWords(base uint32, words ...uint32) (err error) {
	err = mem.span(base, len(words)*WORD_SIZE)
	if err != nil {
		return
	}

	for n, word := range words {
		binary.LittleEndian.PutUint32(mem.Data[int(base)+n*WORD_SIZE:], word)
	}

	return
}

// Load copies a raw image from input into memory at base.
// The whole input must fit inside the image.
func (mem *Flat) Load(base uint32, input io.Reader) (count int, err error) {
	err = mem.span(base, 0)
	if err != nil {
		return
	}

	count, err = io.ReadFull(input, mem.Data[base:])
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	// Image filled to the end; anything left over does not fit.
	var extra [1]byte
	n, _ := input.Read(extra[:])
	if n != 0 {
		err = ErrImageTooLarge
	}

	return
}

// Save writes size bytes of the image starting at base to output.
func (mem *Flat) Save(base uint32, size int, output io.Writer) (err error) {
	err = mem.span(base, size)
	if err != nil {
		return
	}

	_, err = output.Write(mem.Data[base : int(base)+size])

	return
}
