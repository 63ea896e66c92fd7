package nffile

import (
	"io"
	"os"

	"github.com/nfanon/nfanon/block"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Reader reads one flow-record archive: its Header, its StatRecord,
// and the sequence of data blocks that follow, transparently
// decompressing each block per the file's compression code. It
// implements spec.md §6's readBlock contract for a single open file;
// pipeline.Run opens one Reader per input path, in order.
type Reader struct {
	*zerolog.Logger

	Header     Header
	StatRecord StatRecord

	path string
	fh   *os.File
}

// Open opens path, reads its Header and StatRecord, and returns a
// Reader positioned at the first data block.
func Open(path string, opts Options) (*Reader, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := &Reader{path: path, fh: fh}
	if opts.Logger != nil {
		r.Logger = opts.Logger
	} else {
		l := zerolog.Nop()
		r.Logger = &l
	}

	hdrBuf := make([]byte, HeaderLen)
	if _, err := io.ReadFull(fh, hdrBuf); err != nil {
		fh.Close()
		return nil, errors.Wrap(err, "nffile: read header")
	}
	r.Header, err = ParseHeader(hdrBuf)
	if err != nil {
		fh.Close()
		return nil, errors.Wrap(err, "nffile: parse header")
	}

	statBuf := make([]byte, StatRecordLen)
	if _, err := io.ReadFull(fh, statBuf); err != nil {
		fh.Close()
		return nil, errors.Wrap(err, "nffile: read stat record")
	}
	r.StatRecord, err = ParseStatRecord(statBuf)
	if err != nil {
		fh.Close()
		return nil, errors.Wrap(err, "nffile: parse stat record")
	}

	return r, nil
}

// Path returns the path this Reader was opened from.
func (r *Reader) Path() string {
	return r.path
}

// ReadBlock implements spec.md §6's readBlock: returns the next data
// block, decompressed, or (nil, nil) at end of file.
func (r *Reader) ReadBlock() (*block.Block, error) {
	hdrBuf := make([]byte, block.HeaderLen)
	if _, err := io.ReadFull(r.fh, hdrBuf); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, "nffile: read block header")
	}

	hdr, err := block.ParseHeader(hdrBuf)
	if err != nil {
		return nil, errors.Wrap(err, "nffile: parse block header")
	}

	raw := make([]byte, hdr.Size)
	if _, err := io.ReadFull(r.fh, raw); err != nil {
		return nil, errors.Wrap(err, "nffile: read block body")
	}

	data, err := decompress(r.Header.Compression(), raw)
	if err != nil {
		return nil, errors.Wrap(err, "nffile: decompress block")
	}

	hdr.Size = uint32(len(data))
	return &block.Block{Header: hdr, Data: data}, nil
}

// Close releases the underlying file handle (spec.md §6's close).
func (r *Reader) Close() error {
	return r.fh.Close()
}
