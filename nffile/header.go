// Package nffile is the concrete file subsystem spec.md §6 describes by
// contract: the on-disk header and stat record, transparent block
// compression, and the Reader/Writer pair the pipeline controller
// drives (spec.md §4.6).
package nffile

import (
	"github.com/nfanon/nfanon/binary"
)

var lsb = binary.Lsb

const magic uint16 = 0xA50C
const layoutVersion uint16 = 1

// Compression codes carried in Header.Flags, grounded on the
// chrispassas/nfdump reference file's flag layout.
const (
	CompressNone  uint32 = 0x0
	CompressLZO   uint32 = 0x1
	CompressBZ2   uint32 = 0x8
	CompressGZIP  uint32 = 0x10 // this repository's own extension; see compress.go
	compressMask  uint32 = CompressLZO | CompressBZ2 | CompressGZIP
	flagEncrypted uint32 = 0x20
)

// IdentLen is the size of Header.Ident, the free-form identity string
// spec.md's setIdentity/copyStats operate on.
const IdentLen = 128

// CreatorLen is the size of Header.Creator, the persisted creator tag
// (spec.md §6: "creator tag 'nfanon'").
const CreatorLen = 16

// Header is a flow-record archive's file header (spec.md §3's "typed
// header" at the file level, §6's setIdentity/copyStats target).
type Header struct {
	Magic     uint16
	Version   uint16
	Flags     uint32
	NumBlocks uint32
	Creator   [CreatorLen]byte
	Ident     [IdentLen]byte
}

// HeaderLen is the wire size of Header.
const HeaderLen = 2 + 2 + 4 + 4 + CreatorLen + IdentLen

// Compression returns the compression code carried in h.Flags.
func (h Header) Compression() uint32 {
	return h.Flags & compressMask
}

// Encrypted reports whether h.Flags carries the encryption bit. nfanon
// never sets it on output (spec.md §4.6 step 2: "encryption disabled").
func (h Header) Encrypted() bool {
	return h.Flags&flagEncrypted != 0
}

// Identity returns Ident as a Go string, trimmed at the first NUL.
func (h Header) Identity() string {
	n := 0
	for n < len(h.Ident) && h.Ident[n] != 0 {
		n++
	}
	return string(h.Ident[:n])
}

// SetIdentity implements spec.md §6's setIdentity: copies str into Ident,
// truncating if necessary.
func (h *Header) SetIdentity(str string) {
	h.Ident = [IdentLen]byte{}
	copy(h.Ident[:], str)
}

// ParseHeader reads a Header from the front of buf.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderLen {
		return Header{}, ErrShort
	}
	var h Header
	h.Magic = lsb.Uint16(buf[0:2])
	h.Version = lsb.Uint16(buf[2:4])
	h.Flags = lsb.Uint32(buf[4:8])
	h.NumBlocks = lsb.Uint32(buf[8:12])
	copy(h.Creator[:], buf[12:12+CreatorLen])
	copy(h.Ident[:], buf[12+CreatorLen:12+CreatorLen+IdentLen])

	if h.Magic != magic {
		return Header{}, ErrBadMagic
	}
	if h.Version != layoutVersion {
		return Header{}, ErrVersion
	}
	return h, nil
}

// PutHeader writes h to the front of buf, which must be at least
// HeaderLen bytes. Magic and Version are always written as this
// package's own constants, regardless of h's fields.
func PutHeader(buf []byte, h Header) {
	lsb.PutUint16(buf[0:2], magic)
	lsb.PutUint16(buf[2:4], layoutVersion)
	lsb.PutUint32(buf[4:8], h.Flags)
	lsb.PutUint32(buf[8:12], h.NumBlocks)
	copy(buf[12:12+CreatorLen], h.Creator[:])
	copy(buf[12+CreatorLen:12+CreatorLen+IdentLen], h.Ident[:])
}

// SetCreator writes str into Creator, truncating if necessary.
func (h *Header) SetCreator(str string) {
	h.Creator = [CreatorLen]byte{}
	copy(h.Creator[:], str)
}

// CreatorTag returns Creator as a Go string, trimmed at the first NUL.
func (h Header) CreatorTag() string {
	n := 0
	for n < len(h.Creator) && h.Creator[n] != 0 {
		n++
	}
	return string(h.Creator[:n])
}

// StatRecord is the file-level aggregate statistics record of spec.md
// §3/§8 property 10 ("stat_record of output equals stat_record of
// input byte-for-byte"), shaped after NFDump's NFStatRecord.
type StatRecord struct {
	NumFlows        uint64
	NumBytes        uint64
	NumPackets      uint64
	NumFlowsTCP     uint64
	NumFlowsUDP     uint64
	NumFlowsICMP    uint64
	NumFlowsOther   uint64
	NumBytesTCP     uint64
	NumBytesUDP     uint64
	NumBytesICMP    uint64
	NumBytesOther   uint64
	NumPacketsTCP   uint64
	NumPacketsUDP   uint64
	NumPacketsICMP  uint64
	NumPacketsOther uint64
	FirstSeen       uint32
	LastSeen        uint32
	MSecFirst       uint16
	MSecLast        uint16
	SequenceFailure uint32
}

// StatRecordLen is the wire size of StatRecord.
const StatRecordLen = 15*8 + 2*4 + 2*2 + 4

// ParseStatRecord reads a StatRecord from the front of buf.
func ParseStatRecord(buf []byte) (StatRecord, error) {
	if len(buf) < StatRecordLen {
		return StatRecord{}, ErrShort
	}
	var s StatRecord
	fields := []*uint64{
		&s.NumFlows, &s.NumBytes, &s.NumPackets,
		&s.NumFlowsTCP, &s.NumFlowsUDP, &s.NumFlowsICMP, &s.NumFlowsOther,
		&s.NumBytesTCP, &s.NumBytesUDP, &s.NumBytesICMP, &s.NumBytesOther,
		&s.NumPacketsTCP, &s.NumPacketsUDP, &s.NumPacketsICMP, &s.NumPacketsOther,
	}
	off := 0
	for _, f := range fields {
		*f = lsb.Uint64(buf[off : off+8])
		off += 8
	}
	s.FirstSeen = lsb.Uint32(buf[off : off+4])
	off += 4
	s.LastSeen = lsb.Uint32(buf[off : off+4])
	off += 4
	s.MSecFirst = lsb.Uint16(buf[off : off+2])
	off += 2
	s.MSecLast = lsb.Uint16(buf[off : off+2])
	off += 2
	s.SequenceFailure = lsb.Uint32(buf[off : off+4])
	return s, nil
}

// PutStatRecord writes s to the front of buf, which must be at least
// StatRecordLen bytes.
func PutStatRecord(buf []byte, s StatRecord) {
	fields := []uint64{
		s.NumFlows, s.NumBytes, s.NumPackets,
		s.NumFlowsTCP, s.NumFlowsUDP, s.NumFlowsICMP, s.NumFlowsOther,
		s.NumBytesTCP, s.NumBytesUDP, s.NumBytesICMP, s.NumBytesOther,
		s.NumPacketsTCP, s.NumPacketsUDP, s.NumPacketsICMP, s.NumPacketsOther,
	}
	off := 0
	for _, v := range fields {
		lsb.PutUint64(buf[off:off+8], v)
		off += 8
	}
	lsb.PutUint32(buf[off:off+4], s.FirstSeen)
	off += 4
	lsb.PutUint32(buf[off:off+4], s.LastSeen)
	off += 4
	lsb.PutUint16(buf[off:off+2], s.MSecFirst)
	off += 2
	lsb.PutUint16(buf[off:off+2], s.MSecLast)
	off += 2
	lsb.PutUint32(buf[off:off+4], s.SequenceFailure)
}
