// Package pipeline implements the Controller/Pipeline of spec.md §4.6:
// for each input file, it streams data blocks through a long-lived
// worker pool rendezvousing on a Barrier, writing each (possibly
// mutated) block to a matching output file.
package pipeline

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/nfanon/nfanon/barrier"
	"github.com/nfanon/nfanon/block"
	"github.com/nfanon/nfanon/nffile"
	"github.com/nfanon/nfanon/worker"
	"github.com/rs/zerolog"
)

// Stats tallies what a Run processed, in the same register as
// mrt.Reader's Stats: a plain counters struct logged by the caller.
type Stats struct {
	Files      int
	Blocks     int
	Records    uint64
	Anonymized uint64
}

// Pipeline owns one barrier and its worker pool for the lifetime of a
// single Run call. Workers are spawned fresh per Run and joined before
// it returns.
type Pipeline struct {
	*zerolog.Logger

	Options Options
	Stats   Stats

	numWorkers int
	barrier    *barrier.Barrier
	params     []*worker.Param
	wg         sync.WaitGroup
}

// New returns a Pipeline configured by opts. Call Run to process input
// files; New itself spawns no goroutines.
func New(opts Options) *Pipeline {
	p := &Pipeline{Options: opts}
	if opts.Logger != nil {
		p.Logger = opts.Logger
	} else {
		l := zerolog.Nop()
		p.Logger = &l
	}
	return p
}

// Run processes every path in inputs in order (spec.md §4.6). Non-empty
// Options.OutputPath selects -w mode (a single named output, valid for
// a single input path); otherwise every input is rewritten in place via
// "<input>-tmp" + atomic rename.
//
// Any error, whether a per-file error (output-open or rename failure,
// spec.md §7) or fatal stream corruption, abandons the current file and
// ends the Run: the remaining inputs are not processed, and the error
// is returned.
func (p *Pipeline) Run(inputs []string) error {
	if p.Options.Anonymizer == nil {
		return ErrNoAnonymizer
	}
	if len(inputs) == 0 {
		return ErrNoInput
	}

	p.numWorkers = p.Options.numWorkers()
	p.barrier = barrier.New(p.numWorkers)
	p.params = make([]*worker.Param, p.numWorkers)
	for i := range p.params {
		p.params[i] = &worker.Param{Self: i, NumWorkers: p.numWorkers}
		w := worker.New(p.params[i], p.Options.Anonymizer, p.barrier, p.Logger)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.Run()
		}()
	}

	// step 3: wait for every worker's post-spawn park
	p.barrier.ControllerWait()

	var runErr error
	for _, in := range inputs {
		if err := p.runOne(in); err != nil {
			p.Logger.Error().Err(err).Str("path", in).Msg("nfanon: aborting file")
			runErr = err
			break
		}
		p.Stats.Files++
	}

	// step 5: shut down the pool regardless of outcome
	for _, param := range p.params {
		param.Done = true
	}
	p.barrier.ControllerRelease()
	p.wg.Wait()
	p.barrier.Destroy()

	return runErr
}

func (p *Pipeline) outputPathFor(inputPath string) (path string, inPlace bool) {
	if p.Options.OutputPath != "" {
		return p.Options.OutputPath, false
	}
	dir := filepath.Dir(inputPath)
	return filepath.Join(dir, filepath.Base(inputPath)+"-tmp"), true
}

func (p *Pipeline) runOne(inputPath string) error {
	r, err := nffile.Open(inputPath, nffile.Options{Logger: p.Logger})
	if err != nil {
		return fmt.Errorf("open input %s: %w", inputPath, err)
	}
	defer r.Close()

	outPath, inPlace := p.outputPathFor(inputPath)
	w, err := nffile.OpenOutput(outPath, r.Header.Identity(), r.Header.Compression(), nffile.Options{Logger: p.Logger})
	if err != nil {
		return fmt.Errorf("open output %s: %w", outPath, err)
	}
	w.CopyStats(r.StatRecord)

	if !p.Options.Quiet {
		p.Logger.Info().
			Str("path", inputPath).
			Uint32("blocks", r.Header.NumBlocks).
			Msg("nfanon: processing file")
	}

	blocks := 0
	for {
		blk, err := r.ReadBlock()
		if err != nil {
			w.Dispose()
			return fmt.Errorf("read block: %w", err)
		}
		if blk == nil {
			break // end of this file
		}
		blocks++
		p.Stats.Blocks++

		if !block.CarriesRecords(blk.Header.Type) {
			p.Logger.Warn().Uint16("type", blk.Header.Type).Msg("nfanon: non-record block type, passed through")
			if _, err := w.WriteBlock(*blk); err != nil {
				w.Dispose()
				return fmt.Errorf("write passthrough block: %w", err)
			}
			continue
		}

		if err := p.dispatchBlock(blk); err != nil {
			w.Dispose()
			return err
		}
		p.Stats.Records += uint64(blk.Header.NumRecords)

		if _, err := w.WriteBlock(*blk); err != nil {
			w.Dispose()
			return fmt.Errorf("write block: %w", err)
		}
	}

	if err := w.Finalize(); err != nil {
		return fmt.Errorf("finalize %s: %w", outPath, err)
	}

	if inPlace {
		if err := nffile.Rename(outPath, inputPath); err != nil {
			return fmt.Errorf("rename %s -> %s: %w", outPath, inputPath, err)
		}
	}

	if !p.Options.Quiet {
		p.Logger.Info().Str("path", inputPath).Int("blocks", blocks).Msg("nfanon: file done")
	}
	return nil
}

// dispatchBlock implements spec.md §4.6 step 4c: publish the block to
// every worker's parameter record while all are parked, release them,
// and wait for completion before the caller writes the mutated bytes.
func (p *Pipeline) dispatchBlock(blk *block.Block) error {
	for _, param := range p.params {
		param.CurrentBlock = blk.Data
		param.NumRecords = blk.Header.NumRecords
		param.Anonymized = 0
		param.Err = nil
	}
	p.barrier.ControllerRelease()
	p.barrier.ControllerWait()

	for _, param := range p.params {
		if param.Err != nil {
			return fmt.Errorf("worker %d: %w", param.Self, param.Err)
		}
		p.Stats.Anonymized += uint64(param.Anonymized)
	}
	return nil
}
