package pipeline

import (
	"runtime"

	"github.com/nfanon/nfanon/nfv3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxWorkers is the hard cap of spec.md §4.6's worker count policy.
const MaxWorkers = 8

// DefaultOptions are the pipeline's default options.
var DefaultOptions = Options{
	Logger: &log.Logger,
	Quiet:  false,
}

// Options configures a Pipeline, following mrt.ReaderOptions /
// speaker.Options: a plain struct, a package-level default, the logger
// optional and defaulting to a no-op.
type Options struct {
	Logger *zerolog.Logger // if nil, logging is disabled

	// Anonymizer supplies anon4/anon6 (spec.md §6's Anonymizer
	// interface); required.
	Anonymizer nfv3.Anonymizer

	// NumWorkers overrides worker-count discovery when > 0, still capped
	// at MaxWorkers. Zero means min(runtime.NumCPU(), MaxWorkers),
	// falling back to 1 (spec.md §4.6).
	NumWorkers int

	// OutputPath, if non-empty, is used as the single output path for
	// -w mode (spec.md §6). Empty means in-place: each input is
	// rewritten via "<input>-tmp" then renamed over the original
	// (spec.md §4.6 step 1, §9's rename-atomicity note).
	OutputPath string

	// Quiet suppresses the per-file progress banner (spec.md §6's -q).
	Quiet bool
}

func (o Options) numWorkers() int {
	n := o.NumWorkers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	return n
}
