// Package nfv3 represents the V3 flow record: a typed header followed by
// a list of typed extensions, and the walk that anonymizes the
// address-bearing ones.
package nfv3

import (
	"github.com/nfanon/nfanon/binary"
)

var lsb = binary.Lsb

// Record type tags recognized at the block level (spec.md §3). Only
// TypeV3 carries extensions; the others are opaque to this package and
// are skipped by byte length alone.
const (
	TypeV3           uint16 = 10
	TypeExporterInfo uint16 = 1
	TypeExporterStat uint16 = 2
	TypeSampler      uint16 = 6
	TypeNbar         uint16 = 11
)

// CommonHeader is the 4-byte {type, size} frame shared by every record
// variant (spec.md §3).
type CommonHeader struct {
	Type uint16
	Size uint16
}

// CommonHeaderLen is the wire size of CommonHeader.
const CommonHeaderLen = 4

// PeekCommon reads the common {type, size} header from the front of buf
// without interpreting anything past it.
func PeekCommon(buf []byte) (CommonHeader, error) {
	if len(buf) < CommonHeaderLen {
		return CommonHeader{}, ErrShort
	}
	return CommonHeader{
		Type: lsb.Uint16(buf[0:2]),
		Size: lsb.Uint16(buf[2:4]),
	}, nil
}

// Header is the V3 flow record header (spec.md §4.2): the common
// {type, size} plus the element count and a flags byte the walker marks
// once anonymization succeeds.
type Header struct {
	Type        uint16
	Size        uint16
	NumElements uint16
	EngineType  uint8
	EngineID    uint8
	ExporterID  uint16
	Flags       uint8
	_           uint8 // reserved, wire padding
}

// HeaderLen is the wire size of Header, per spec.md §4.2's
// "record.size >= header size" invariant.
const HeaderLen = 12

// FlagAnon marks a V3 record as having been walked by the anonymizer
// (spec.md §6 "per-record ANON flag").
const FlagAnon uint8 = 0x01

// ParseHeader reads a Header from the front of buf.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderLen {
		return Header{}, ErrShort
	}
	return Header{
		Type:        lsb.Uint16(buf[0:2]),
		Size:        lsb.Uint16(buf[2:4]),
		NumElements: lsb.Uint16(buf[4:6]),
		EngineType:  buf[6],
		EngineID:    buf[7],
		ExporterID:  lsb.Uint16(buf[8:10]),
		Flags:       buf[10],
	}, nil
}

// Anonymized reports whether FlagAnon is set.
func (h Header) Anonymized() bool {
	return h.Flags&FlagAnon != 0
}

func setAnonFlag(buf []byte) {
	buf[10] |= FlagAnon
}

// Walk anonymizes every address-bearing extension inside one V3 record
// in place and sets FlagAnon, per spec.md §4.2.
//
// buf must be exactly one record: len(buf) == the record's declared
// Size. Returns ErrShort if buf is too small to hold even the header
// (the record is left untouched, a recoverable anomaly per spec.md §7).
// Returns ErrCorrupt if an extension's length would run the cursor past
// len(buf); per spec.md §7 this is fatal to the whole block and must
// propagate up to terminate processing.
func Walk(buf []byte, az Anonymizer) error {
	if len(buf) < HeaderLen {
		return ErrShort
	}

	hdr, err := ParseHeader(buf)
	if err != nil {
		return err
	}
	setAnonFlag(buf)

	cur := HeaderLen
	for i := 0; i < int(hdr.NumElements); i++ {
		if cur+ExtHeaderLen > len(buf) {
			return ErrCorrupt
		}

		extType := ExtTag(lsb.Uint16(buf[cur : cur+2]))
		extLen := int(lsb.Uint16(buf[cur+2 : cur+4]))
		if extLen < ExtHeaderLen {
			return ErrCorrupt
		}

		end := cur + extLen
		if end > len(buf) {
			return ErrCorrupt
		}

		applyExtension(extType, buf[cur+ExtHeaderLen:end], az)
		cur = end
	}

	return nil
}
