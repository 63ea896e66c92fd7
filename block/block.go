// Package block represents a single data block of a flow-record archive:
// a typed, framed sequence of records (spec.md §3), and the
// index-mod-N Block Partitioner that visits it (spec.md §4.3).
package block

import (
	"github.com/nfanon/nfanon/binary"
)

var lsb = binary.Lsb

// Block type tags (spec.md §3). Only Type2 and Type3 carry flow records;
// every other type is opaque framing the pipeline passes through
// unchanged.
const (
	Type1 uint16 = 1 // generic/control block, no records
	Type2 uint16 = 2 // legacy flow record block
	Type3 uint16 = 3 // V3 flow record block
)

// CarriesRecords reports whether a block of type t holds flow records
// the partitioner should walk, per spec.md §3/§4.3's precondition.
func CarriesRecords(t uint16) bool {
	return t == Type2 || t == Type3
}

// Header is a data block's framing header (spec.md §3): type, record
// count, and the byte length of the record area that follows it.
type Header struct {
	Type       uint16
	Flags      uint16
	NumRecords uint32
	Size       uint32
}

// HeaderLen is the wire size of Header.
const HeaderLen = 12

// ParseHeader reads a Header from the front of buf.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderLen {
		return Header{}, ErrShort
	}
	return Header{
		Type:       lsb.Uint16(buf[0:2]),
		Flags:      lsb.Uint16(buf[2:4]),
		NumRecords: lsb.Uint32(buf[4:8]),
		Size:       lsb.Uint32(buf[8:12]),
	}, nil
}

// PutHeader writes h to the front of buf, which must be at least
// HeaderLen bytes.
func PutHeader(buf []byte, h Header) {
	lsb.PutUint16(buf[0:2], h.Type)
	lsb.PutUint16(buf[2:4], h.Flags)
	lsb.PutUint32(buf[4:8], h.NumRecords)
	lsb.PutUint32(buf[8:12], h.Size)
}

// Block is one parsed data block: its header plus a reference to the
// record area that follows it in the owning buffer. Data is shared,
// mutable memory — see Partition for the concurrency discipline that
// makes in-place mutation of it safe.
type Block struct {
	Header Header
	Data   []byte // exactly Header.Size bytes, the record area
}

// FromBytes parses one block from the front of raw, referencing raw's
// memory for Data (does not copy). Returns the number of bytes consumed.
func FromBytes(raw []byte) (blk Block, off int, err error) {
	hdr, err := ParseHeader(raw)
	if err != nil {
		return Block{}, 0, err
	}

	off = HeaderLen
	end := off + int(hdr.Size)
	if end > len(raw) {
		return Block{}, 0, ErrShort
	}

	blk.Header = hdr
	blk.Data = raw[off:end]
	return blk, end, nil
}
