package worker

import (
	"sync"
	"testing"
	"time"

	"github.com/nfanon/nfanon/barrier"
	"github.com/nfanon/nfanon/binary"
	"github.com/nfanon/nfanon/nfv3"
	"github.com/stretchr/testify/require"
)

type fakeAnon struct{}

func (fakeAnon) Anon4(addr uint32) uint32       { return addr ^ 1 }
func (fakeAnon) Anon6(addr [2]uint64) [2]uint64 { return [2]uint64{addr[0] ^ 1, addr[1] ^ 1} }

func v3Record() []byte {
	lsb := binary.Lsb
	buf := make([]byte, nfv3.HeaderLen)
	lsb.PutUint16(buf[0:2], nfv3.TypeV3)
	lsb.PutUint16(buf[2:4], uint16(len(buf)))
	lsb.PutUint16(buf[4:6], 0) // numElements
	return buf
}

// TestWorker_ParksDispatchesAndShutsDown drives one worker through a
// publish/release/observe cycle and then a shutdown cycle, mirroring
// the controller/worker protocol of spec.md §4.6.
func TestWorker_ParksDispatchesAndShutsDown(t *testing.T) {
	b := barrier.New(1)
	param := &Param{Self: 0, NumWorkers: 1}
	w := New(param, fakeAnon{}, b, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Run()
	}()

	// first round: post-spawn park observed, publish a block
	b.ControllerWait()
	rec := v3Record()
	param.CurrentBlock = rec
	param.NumRecords = 1
	b.ControllerRelease()

	// observe completion
	b.ControllerWait()
	require.NoError(t, param.Err)
	require.Equal(t, 1, param.Anonymized)

	// shut down
	param.Done = true
	b.ControllerRelease()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not exit after Done")
	}
}
