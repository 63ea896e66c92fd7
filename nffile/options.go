package nffile

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultOptions are nffile's default options.
var DefaultOptions = Options{
	Logger: &log.Logger,
}

// Options configures a Reader or Writer, following mrt.ReaderOptions /
// speaker.Options: a plain struct, a package-level default, logger
// optional and defaulting to a no-op.
type Options struct {
	Logger *zerolog.Logger // if nil, logging is disabled
}
