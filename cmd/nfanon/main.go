/*
 * nfanon anonymizes IP addresses and AS numbers in flow-record archives.
 */
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nfanon/nfanon/anon"
	"github.com/nfanon/nfanon/block"
	"github.com/nfanon/nfanon/nfv3"
	"github.com/nfanon/nfanon/pipeline"
)

var (
	opt_key     = flag.String("K", "", "CryptoPAn key (required, <=66 chars)")
	opt_log     = flag.String("L", "stderr", "log facility: stderr, none, or a file path")
	opt_quiet   = flag.Bool("q", false, "suppress progress banner")
	opt_read    = flag.String("r", "", "input file or directory (required)")
	opt_write   = flag.String("w", "", "single output file; default is in-place")
	opt_workers = flag.Int("workers", 0, "worker count override (0 = auto, capped at 8)")
)

// exit codes, per spec.md §6.
const (
	exitOK    = 0
	exitSetup = 255
)

func main() {
	flag.Usage = usage
	flag.Parse()
	os.Exit(run())
}

// run does the actual work and returns the process exit code, so every
// open resource (notably a -L <file> log sink) gets a chance to close
// before the process exits — os.Exit itself skips deferred calls.
func run() int {
	if *opt_key == "" || len(*opt_key) > 66 {
		fmt.Fprintln(os.Stderr, "nfanon: -K <key> is required and must be at most 66 characters")
		return exitSetup
	}
	if *opt_read == "" {
		fmt.Fprintln(os.Stderr, "nfanon: -r <path> is required")
		return exitSetup
	}

	log, logFile, err := newLogger(*opt_log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nfanon: log facility: %v\n", err)
		return exitSetup
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// spec.md §4.1: key initialization failure is fatal before any
	// worker spawns.
	key, err := anon.ParseKey(*opt_key)
	if err != nil {
		log.Error().Err(err).Msg("nfanon: invalid key")
		return exitSetup
	}
	cp, err := anon.New(key)
	if err != nil {
		log.Error().Err(err).Msg("nfanon: key schedule init failed")
		return exitSetup
	}

	inputs, err := enumerateInputs(*opt_read)
	if err != nil {
		log.Error().Err(err).Str("path", *opt_read).Msg("nfanon: cannot enumerate input")
		return exitSetup
	}
	if *opt_write != "" && len(inputs) > 1 {
		fmt.Fprintln(os.Stderr, "nfanon: -w names a single output file, but -r selects multiple inputs")
		return exitSetup
	}

	opts := pipeline.DefaultOptions
	opts.Logger = log
	opts.Anonymizer = cp
	opts.OutputPath = *opt_write
	opts.Quiet = *opt_quiet
	opts.NumWorkers = *opt_workers

	p := pipeline.New(opts)
	if err := p.Run(inputs); err != nil {
		if errors.Is(err, block.ErrCorrupt) || errors.Is(err, nfv3.ErrCorrupt) {
			log.Error().Err(err).Msg("nfanon: corrupt record stream, aborting")
		} else {
			log.Error().Err(err).Msg("nfanon: processing failed")
		}
		return exitSetup
	}

	if !*opt_quiet {
		log.Info().
			Int("files", p.Stats.Files).
			Int("blocks", p.Stats.Blocks).
			Uint64("records", p.Stats.Records).
			Uint64("anonymized", p.Stats.Anonymized).
			Msg("nfanon: done")
	}
	return exitOK
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: nfanon -K <key> -r <path> [-w <file>] [-L <facility>] [-q]")
	flag.PrintDefaults()
}
