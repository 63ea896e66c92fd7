package nfv3

import "errors"

var (
	// ErrShort is returned when a buffer is too small to hold a header.
	ErrShort = errors.New("nfv3: buffer too short")

	// ErrCorrupt signals the fatal stream corruption described in spec.md §7:
	// the extension cursor would run past the end of the record. The
	// caller must treat this as unrecoverable for the whole block.
	ErrCorrupt = errors.New("nfv3: record corrupt, cursor exceeds bounds")
)
