package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nfanon/nfanon/anon"
	"github.com/nfanon/nfanon/binary"
	"github.com/nfanon/nfanon/block"
	"github.com/nfanon/nfanon/nffile"
	"github.com/nfanon/nfanon/nfv3"
	"github.com/stretchr/testify/require"
)

var lsb = binary.Lsb

func v3Record(srcAddr, dstAddr uint32) []byte {
	buf := make([]byte, nfv3.HeaderLen)

	payload := make([]byte, 8)
	lsb.PutUint32(payload[0:4], srcAddr)
	lsb.PutUint32(payload[4:8], dstAddr)

	ext := make([]byte, nfv3.ExtHeaderLen)
	lsb.PutUint16(ext[0:2], uint16(nfv3.ExtIPv4Flow))
	lsb.PutUint16(ext[2:4], uint16(nfv3.ExtHeaderLen+len(payload)))
	buf = append(buf, ext...)
	buf = append(buf, payload...)

	lsb.PutUint16(buf[0:2], nfv3.TypeV3)
	lsb.PutUint16(buf[2:4], uint16(len(buf)))
	lsb.PutUint16(buf[4:6], 1) // numElements

	return buf
}

func writeArchive(t *testing.T, path string, records [][]byte, blockType uint16) nffile.StatRecord {
	t.Helper()

	w, err := nffile.OpenOutput(path, "router1.example.net", nffile.CompressNone, nffile.DefaultOptions)
	require.NoError(t, err)

	stat := nffile.StatRecord{NumFlows: uint64(len(records)), NumBytes: 123456}
	w.CopyStats(stat)

	var data []byte
	for _, r := range records {
		data = append(data, r...)
	}
	_, err = w.WriteBlock(block.Block{
		Header: block.Header{Type: blockType, NumRecords: uint32(len(records)), Size: uint32(len(data))},
		Data:   data,
	})
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	return stat
}

// S1 — single IPv4 flow, single worker: output differs only in the two
// addresses, ANON flag set, framing preserved.
func TestPipeline_SingleIPv4FlowSingleWorker(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "nfcapd.s1")
	stat := writeArchive(t, in, [][]byte{v3Record(0x0A000001, 0x0A000002)}, block.Type2)

	cp, err := anon.New(mustKey(t, "s1-key"))
	require.NoError(t, err)

	p := New(Options{Anonymizer: cp, NumWorkers: 1, Quiet: true})
	require.NoError(t, p.Run([]string{in}))

	r, err := nffile.Open(in, nffile.DefaultOptions)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, stat, r.StatRecord)
	require.Equal(t, "router1.example.net", r.Header.Identity())
	require.Equal(t, nffile.Creator, r.Header.CreatorTag())

	blk, err := r.ReadBlock()
	require.NoError(t, err)
	require.NotNil(t, blk)
	require.Equal(t, uint32(1), blk.Header.NumRecords)

	hdr, err := nfv3.ParseHeader(blk.Data)
	require.NoError(t, err)
	require.True(t, hdr.Anonymized())

	payload := blk.Data[nfv3.HeaderLen+nfv3.ExtHeaderLen:]
	require.Equal(t, cp.Anon4(0x0A000001), lsb.Uint32(payload[0:4]))
	require.Equal(t, cp.Anon4(0x0A000002), lsb.Uint32(payload[4:8]))
}

// S3 — a pass-through block type is written through unchanged.
func TestPipeline_PassThroughBlockType(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "nfcapd.s3")
	writeArchive(t, in, nil, block.Type1)

	cp, err := anon.New(mustKey(t, "s3-key"))
	require.NoError(t, err)

	p := New(Options{Anonymizer: cp, NumWorkers: 2, Quiet: true})
	require.NoError(t, p.Run([]string{in}))

	r, err := nffile.Open(in, nffile.DefaultOptions)
	require.NoError(t, err)
	defer r.Close()

	blk, err := r.ReadBlock()
	require.NoError(t, err)
	require.NotNil(t, blk)
	require.Equal(t, block.Type1, blk.Header.Type)
	require.Empty(t, blk.Data)
}

// S4 — two input files processed in-place: both exist at their original
// paths afterward, no *-tmp files remain.
func TestPipeline_TwoFilesInPlace(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "nfcapd.a")
	b := filepath.Join(dir, "nfcapd.b")
	writeArchive(t, a, [][]byte{v3Record(0x0A000001, 0x0A000002)}, block.Type2)
	writeArchive(t, b, [][]byte{v3Record(0x0B000001, 0x0B000002)}, block.Type2)

	cp, err := anon.New(mustKey(t, "s4-key"))
	require.NoError(t, err)

	p := New(Options{Anonymizer: cp, NumWorkers: 2, Quiet: true})
	require.NoError(t, p.Run([]string{a, b}))

	for _, path := range []string{a, b} {
		_, err := os.Stat(path)
		require.NoError(t, err, "original file must still exist")
		_, err = os.Stat(path + "-tmp")
		require.True(t, os.IsNotExist(err), "no -tmp file should remain")
	}
	require.Equal(t, 2, p.Stats.Files)
}

// S6 — corrupt block causes the run to abort with an error; no rename
// occurs, so the original input is left untouched.
func TestPipeline_CorruptionAborts(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "nfcapd.s6")

	rec := v3Record(0x0A000001, 0x0A000002)
	// corrupt: declare a size far larger than the record actually is
	lsb.PutUint16(rec[2:4], 9000)

	writeArchive(t, in, [][]byte{rec}, block.Type2)

	cp, err := anon.New(mustKey(t, "s6-key"))
	require.NoError(t, err)

	p := New(Options{Anonymizer: cp, NumWorkers: 1, Quiet: true})
	err = p.Run([]string{in})
	require.Error(t, err)

	_, err = os.Stat(in + "-tmp")
	require.False(t, os.IsNotExist(err), "the tmp file is left behind on corruption, not renamed over the input")
}

func mustKey(t *testing.T, s string) [32]byte {
	t.Helper()
	k, err := anon.ParseKey(s)
	require.NoError(t, err)
	return k
}
