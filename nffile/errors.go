package nffile

import "errors"

var (
	// ErrBadMagic is returned when a file's magic number does not match.
	ErrBadMagic = errors.New("nffile: bad magic")

	// ErrVersion is returned for an unsupported layout version.
	ErrVersion = errors.New("nffile: unsupported layout version")

	// ErrShort is returned when a header or block is truncated.
	ErrShort = errors.New("nffile: truncated")

	// ErrCompression is returned for an unrecognized compression code.
	ErrCompression = errors.New("nffile: unsupported compression")
)
