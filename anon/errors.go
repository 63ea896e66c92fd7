package anon

import "errors"

var (
	// ErrKeyLength is returned by NewFromBytes when the key is not exactly
	// 32 bytes.
	ErrKeyLength = errors.New("anon: key must be 32 bytes")

	// ErrNoKey reports a missing key. No function in this package returns
	// it: Anon4 and Anon6 have no error result, and a CryptoPAn not built
	// by New has no cipher and panics on use.
	ErrNoKey = errors.New("anon: key not initialized")
)
