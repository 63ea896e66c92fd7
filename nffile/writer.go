package nffile

import (
	"io"
	"os"

	"github.com/nfanon/nfanon/block"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Creator is the tag nfanon stamps on every file it writes (spec.md
// §6: "creator tag 'nfanon'").
const Creator = "nfanon"

// Writer writes one output archive: Header, StatRecord, and a stream
// of data blocks, implementing spec.md §6's openOutput/writeBlock/
// finalize/rename contract.
type Writer struct {
	*zerolog.Logger

	Header     Header
	StatRecord StatRecord

	path    string
	fh      *os.File
	written bool // header+stat already flushed
}

// OpenOutput implements spec.md §6's openOutput: creates path, and
// propagates identity and compression from the input header. Encryption
// is always disabled on output (spec.md §4.6 step 2). The actual
// compression code recorded in the written header may differ from
// requested if the codec has no encoder (SPEC_FULL.md §13: LZO/BZ2
// degrade to GZIP on write).
func OpenOutput(path string, identity string, compression uint32, opts Options) (*Writer, error) {
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &Writer{path: path, fh: fh}
	if opts.Logger != nil {
		w.Logger = opts.Logger
	} else {
		l := zerolog.Nop()
		w.Logger = &l
	}

	w.Header.SetCreator(Creator)
	w.Header.SetIdentity(identity)

	switch compression {
	case CompressLZO, CompressBZ2:
		w.Logger.Warn().
			Str("path", path).
			Msg("nfanon: input compression has no encoder, writing gzip instead")
		compression = CompressGZIP
	}
	w.Header.Flags = compression

	return w, nil
}

// CopyStats implements spec.md §6's copyStats: copies src verbatim
// (spec.md §8 property 10).
func (w *Writer) CopyStats(src StatRecord) {
	w.StatRecord = src
}

// flushHeader writes Header and StatRecord once, before the first
// block. NumBlocks is filled in by Finalize via a seek-back, since it
// is only known once every block has been written.
func (w *Writer) flushHeader() error {
	if w.written {
		return nil
	}
	buf := make([]byte, HeaderLen+StatRecordLen)
	PutHeader(buf[:HeaderLen], w.Header)
	PutStatRecord(buf[HeaderLen:], w.StatRecord)
	if _, err := w.fh.Write(buf); err != nil {
		return err
	}
	w.written = true
	return nil
}

// WriteBlock implements spec.md §6's writeBlock: appends blk,
// compressed per the writer's negotiated compression code, and
// returns a buffer blk.Data's caller may reuse.
func (w *Writer) WriteBlock(blk block.Block) (reusable []byte, err error) {
	if err := w.flushHeader(); err != nil {
		return nil, err
	}

	out, writeCode, err := compress(w.Header.Compression(), blk.Data)
	if err != nil {
		return nil, errors.Wrap(err, "nffile: compress block")
	}
	if writeCode != w.Header.Compression() {
		w.Header.Flags = writeCode
	}

	hdr := blk.Header
	hdr.Size = uint32(len(out))

	buf := make([]byte, block.HeaderLen)
	block.PutHeader(buf, hdr)
	if _, err := w.fh.Write(buf); err != nil {
		return nil, err
	}
	if _, err := w.fh.Write(out); err != nil {
		return nil, err
	}

	w.Header.NumBlocks++
	return blk.Data[:0], nil
}

// Finalize implements spec.md §6's finalize: flush, rewrite the final
// NumBlocks, and close.
func (w *Writer) Finalize() error {
	if err := w.flushHeader(); err != nil {
		return err
	}
	if _, err := w.fh.Seek(0, io.SeekStart); err != nil {
		return err
	}
	hdrBuf := make([]byte, HeaderLen)
	PutHeader(hdrBuf, w.Header)
	if _, err := w.fh.Write(hdrBuf); err != nil {
		return err
	}
	if err := w.fh.Sync(); err != nil {
		return err
	}
	return w.fh.Close()
}

// Dispose implements spec.md §6's dispose: release resources without
// finalizing, used on the abandon-current-file error paths of §7.
func (w *Writer) Dispose() error {
	return w.fh.Close()
}

// Rename implements spec.md §6's rename: atomic in-place replacement,
// used by the in-place (-w-less) mode of spec.md §4.6 step 4a.
func Rename(tmpPath, finalPath string) error {
	return os.Rename(tmpPath, finalPath)
}

// Path returns the path this Writer was opened at.
func (w *Writer) Path() string {
	return w.path
}
