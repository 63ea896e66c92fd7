package nffile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nfanon/nfanon/block"
	"github.com/stretchr/testify/require"
)

// TestWriterReader_RoundTrip drives OpenOutput/WriteBlock/Finalize and
// Open/ReadBlock back to back, checking that identity, stats and block
// contents survive byte-for-byte (spec.md §8 property 10).
func TestWriterReader_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.nfa")

	w, err := OpenOutput(path, "router1.example.net", CompressGZIP, DefaultOptions)
	require.NoError(t, err)

	stat := StatRecord{NumFlows: 42, NumBytes: 4096}
	w.CopyStats(stat)

	data := []byte("some record bytes, not parsed by nffile itself")
	blk := block.Block{
		Header: block.Header{Type: block.Type3, NumRecords: 1, Size: uint32(len(data))},
		Data:   data,
	}
	_, err = w.WriteBlock(blk)
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	r, err := Open(path, DefaultOptions)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, "router1.example.net", r.Header.Identity())
	require.Equal(t, Creator, r.Header.CreatorTag())
	require.Equal(t, stat, r.StatRecord)
	require.False(t, r.Header.Encrypted())
	require.Equal(t, uint32(1), r.Header.NumBlocks)

	got, err := r.ReadBlock()
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, block.Type3, got.Header.Type)
	require.Equal(t, data, got.Data)

	eof, err := r.ReadBlock()
	require.NoError(t, err)
	require.Nil(t, eof)
}

// TestOpenOutput_LZODegradesToGZIP checks SPEC_FULL.md §13's write-back
// decision: LZO input compression is rewritten as GZIP on output.
func TestOpenOutput_LZODegradesToGZIP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.nfa")

	w, err := OpenOutput(path, "ident", CompressLZO, DefaultOptions)
	require.NoError(t, err)
	require.Equal(t, uint32(CompressGZIP), w.Header.Compression())
	require.NoError(t, w.Dispose())
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, "in-tmp")
	final := filepath.Join(dir, "in")

	require.NoError(t, os.WriteFile(tmp, []byte("x"), 0o644))
	require.NoError(t, Rename(tmp, final))

	_, err := os.Stat(tmp)
	require.True(t, os.IsNotExist(err))
	contents, err := os.ReadFile(final)
	require.NoError(t, err)
	require.Equal(t, "x", string(contents))
}
