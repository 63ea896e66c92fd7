// Package worker implements the long-lived Worker transformer of
// spec.md §4.4: one goroutine per partition index, parked at a shared
// Barrier between blocks, running the Block Partitioner over whatever
// block the controller has published.
package worker

import (
	"github.com/nfanon/nfanon/barrier"
	"github.com/nfanon/nfanon/block"
	"github.com/nfanon/nfanon/nfv3"
	"github.com/rs/zerolog"
)

// Param is the worker parameter record of spec.md §3: owned by the
// controller, shared read-write from the controller; in the window
// between a release and its next park the worker reads the inputs and
// writes only Anonymized and Err. The controller must only write
// CurrentBlock, NumRecords and Done while this worker is parked in the
// barrier.
type Param struct {
	Self         int    // this worker's partition index
	NumWorkers   int    // total worker count, shared across all Params
	CurrentBlock []byte // record area of the block to process this round; nil means no-op
	NumRecords   uint32 // record count in CurrentBlock
	Anonymized   int    // set by the worker after a round: records it anonymized
	Err          error  // set by the worker after a round if Partition failed
	Done         bool   // set by the controller: terminate instead of processing
}

// Worker is a long-lived transformer bound to one partition index. It
// never allocates or writes outside its own partition and holds no
// state across blocks beyond what Param carries.
type Worker struct {
	Param *Param
	Az    nfv3.Anonymizer
	B     *barrier.Barrier
	Log   *zerolog.Logger
}

// New returns a Worker bound to param, sharing b with every other
// worker in the pool and az as the (read-only, concurrency-safe)
// address anonymizer.
func New(param *Param, az nfv3.Anonymizer, b *barrier.Barrier, log *zerolog.Logger) *Worker {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Worker{Param: param, Az: az, B: b, Log: log}
}

// Run is the worker's lifecycle loop of spec.md §4.4. It parks at the
// barrier immediately, then on every release either runs the Block
// Partitioner over CurrentBlock or, once Done is observed, returns.
// Run must be invoked as its own goroutine; it returns only once the
// controller has signalled shutdown.
func (w *Worker) Run() {
	p := w.Param
	for {
		w.B.WorkerWait()

		if p.Done {
			return
		}

		if len(p.CurrentBlock) == 0 {
			continue
		}

		n, err := block.Partition(p.CurrentBlock, p.NumRecords, p.Self, p.NumWorkers, w.Az, w.Log)
		p.Anonymized = n
		p.Err = err
	}
}
