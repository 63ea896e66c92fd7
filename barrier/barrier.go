// Package barrier implements the custom two-phase controller/worker
// rendezvous of spec.md §4.5: one controller publishes a unit of work
// only once every worker is parked, releases them all together, and
// then waits again until every worker reports completion.
//
// This is deliberately not a sync.WaitGroup or a channel hand-off: the
// controller needs to observe "all workers parked" as a distinct,
// repeatable state twice per cycle (once before publishing work, once
// after releasing it), which is exactly what a mutex plus two condition
// variables gives you and a one-shot primitive does not. See the
// barrier section of DESIGN.md for the tradeoff against countdown
// latches.
package barrier

import "sync"

// Barrier coordinates exactly one controller and Target workers.
// The zero value is not usable; construct one with New.
type Barrier struct {
	mu             sync.Mutex
	workerCond     *sync.Cond
	controllerCond *sync.Cond

	waiting int // workers currently parked
	target  int // total worker count
}

// New returns a Barrier for target workers.
func New(target int) *Barrier {
	b := &Barrier{target: target}
	b.workerCond = sync.NewCond(&b.mu)
	b.controllerCond = sync.NewCond(&b.mu)
	return b
}

// WorkerWait parks the calling worker. If it is the last of target
// workers to park, it wakes a controller blocked in ControllerWait.
// Returns once ControllerRelease has been called.
func (b *Barrier) WorkerWait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.waiting++
	if b.waiting >= b.target {
		b.controllerCond.Signal()
	}
	b.workerCond.Wait()
}

// ControllerWait blocks until all target workers are parked in
// WorkerWait. Postcondition: every worker is parked and safe to publish
// work to.
func (b *Barrier) ControllerWait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.waiting < b.target {
		b.controllerCond.Wait()
	}
}

// ControllerRelease resets the parked-worker count and wakes every
// worker blocked in WorkerWait. Call only after ControllerWait and after
// publishing work (or the shutdown sentinel) to every worker.
func (b *Barrier) ControllerRelease() {
	b.mu.Lock()
	b.waiting = 0
	b.workerCond.Broadcast()
	b.mu.Unlock()
}

// Target returns the number of workers this barrier coordinates.
func (b *Barrier) Target() int {
	return b.target
}

// Destroy tears the barrier down: it wakes anything still parked in
// WorkerWait or ControllerWait so no goroutine blocks on it forever,
// per spec.md §4.5's destroy operation. Call it only after every
// worker has already observed shutdown (Param.Done) and returned from
// WorkerWait; it does not itself guarantee workers exit. The Barrier
// must not be reused afterward.
func (b *Barrier) Destroy() {
	b.mu.Lock()
	b.workerCond.Broadcast()
	b.controllerCond.Broadcast()
	b.mu.Unlock()
}
