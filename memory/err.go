package memory

import (
	"errors"

	"github.com/ezrec/rvsim/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrImageTooLarge = errors.New(f("image too large"))
)

// ErrAddress reports an access outside of the memory image.
type ErrAddress struct {
	Addr uint32 // First byte of the access.
	Size int    // Size of the image.
}

func (err ErrAddress) Error() string {
	return f("address 0x%08x outside of memory [0, 0x%x)", err.Addr, err.Size)
}

func (err ErrAddress) Is(target error) (ok bool) {
	_, ok = target.(ErrAddress)
	return
}
