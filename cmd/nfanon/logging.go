package main

import (
	"os"

	"github.com/rs/zerolog"
)

// newLogger implements spec.md §6's "-L facility": "stderr" (the
// default), "none" (a no-op sink), or a file path opened for append.
// The returned closer, if non-nil, must be closed by the caller once
// logging is no longer needed.
func newLogger(facility string) (*zerolog.Logger, *os.File, error) {
	switch facility {
	case "", "stderr":
		l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		return &l, nil, nil
	case "none":
		l := zerolog.Nop()
		return &l, nil, nil
	default:
		fh, err := os.OpenFile(facility, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		l := zerolog.New(fh).With().Timestamp().Logger()
		return &l, fh, nil
	}
}
