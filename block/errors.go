package block

import "errors"

var (
	// ErrShort is returned when a buffer is too small to hold a block header.
	ErrShort = errors.New("block: buffer too short")

	// ErrCorrupt is the fatal stream corruption of spec.md §7: a record's
	// declared size is smaller than its header, or the running total of
	// record sizes would exceed the block's declared size. The caller
	// must terminate processing of the whole archive, not just the block.
	ErrCorrupt = errors.New("block: corrupt record stream")
)
