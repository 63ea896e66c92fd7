package nffile

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"io"

	"github.com/pkg/errors"
	lzo "github.com/rasky/go-lzo"
)

// decompress returns the decoded form of a block's on-disk bytes,
// dispatching on the compression code carried in the file header,
// mirroring bgpfix/mrt.Reader.ReadFromPath's transparent-uncompress
// pattern (there dispatched on file extension; here on Header.Flags).
func decompress(code uint32, raw []byte) ([]byte, error) {
	switch code {
	case CompressNone:
		return raw, nil
	case CompressGZIP:
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.Wrap(err, "gzip")
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		return out, errors.Wrap(err, "gzip")
	case CompressBZ2:
		out, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(raw)))
		return out, errors.Wrap(err, "bzip2")
	case CompressLZO:
		out, err := lzo.Decompress1X(bytes.NewReader(raw), 0, 0)
		return out, errors.Wrap(err, "lzo")
	default:
		return nil, ErrCompression
	}
}

// compress encodes plain for the given compression code. LZO and BZ2
// have no encoder in any library this repository depends on (see
// SPEC_FULL.md §13); writeCode reports the code actually used so the
// caller can update the output header instead of lying about it.
func compress(code uint32, plain []byte) (out []byte, writeCode uint32, err error) {
	switch code {
	case CompressNone:
		return plain, CompressNone, nil
	case CompressGZIP:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(plain); err != nil {
			return nil, 0, errors.Wrap(err, "gzip")
		}
		if err := zw.Close(); err != nil {
			return nil, 0, errors.Wrap(err, "gzip")
		}
		return buf.Bytes(), CompressGZIP, nil
	case CompressLZO, CompressBZ2:
		// no encoder available; degrade to gzip (SPEC_FULL.md §13)
		return compress(CompressGZIP, plain)
	default:
		return nil, 0, ErrCompression
	}
}
