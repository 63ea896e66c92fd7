package block

import (
	"errors"
	"fmt"

	"github.com/nfanon/nfanon/nfv3"
	"github.com/rs/zerolog"
)

// Partition is the Block Partitioner of spec.md §4.3. It walks every
// record in data (data is a block's Header.Size-byte record area),
// dispatching only those whose zero-based index is congruent to
// self (mod numWorkers) to the Record Walker.
//
// Every worker walks the full record chain to keep its own cursor in
// sync — only records it owns are ever mutated. Because record owners
// are disjoint, concurrent callers with different self values never
// write the same bytes.
//
// Returns a wrapped ErrCorrupt (spec.md §7's fatal stream corruption) if
// a record's declared size under- or over-runs the block; the caller
// must abort the whole archive, not just this block. On success, also
// returns the number of V3 records this call anonymized, for the
// caller's running statistics.
func Partition(data []byte, numRecords uint32, self, numWorkers int, az nfv3.Anonymizer, log *zerolog.Logger) (anonymized int, err error) {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	cur := 0
	for i := 0; i < int(numRecords); i++ {
		hdr, err := nfv3.PeekCommon(data[cur:])
		if err != nil {
			return anonymized, fmt.Errorf("%w: record %d: %v", ErrCorrupt, i, err)
		}

		size := int(hdr.Size)
		if size < nfv3.CommonHeaderLen {
			return anonymized, fmt.Errorf("%w: record %d: size %d smaller than header", ErrCorrupt, i, size)
		}
		if cur+size > len(data) {
			return anonymized, fmt.Errorf("%w: record %d: size %d overruns block (cur=%d, len=%d)",
				ErrCorrupt, i, size, cur, len(data))
		}

		if i%numWorkers == self {
			ok, err := dispatch(data[cur:cur+size], hdr.Type, i, az, log)
			if err != nil {
				return anonymized, err
			}
			if ok {
				anonymized++
			}
		}

		cur += size
	}

	return anonymized, nil
}

func dispatch(rec []byte, typ uint16, index int, az nfv3.Anonymizer, log *zerolog.Logger) (anonymized bool, err error) {
	switch typ {
	case nfv3.TypeV3:
		if err := nfv3.Walk(rec, az); err != nil {
			if errors.Is(err, nfv3.ErrCorrupt) {
				return false, fmt.Errorf("%w: record %d: %v", ErrCorrupt, index, err)
			}
			// recoverable anomaly: record left unchanged (spec.md §7)
			log.Warn().Err(err).Int("record", index).Msg("nfanon: record left unchanged")
			return false, nil
		}
		return true, nil
	case nfv3.TypeExporterInfo, nfv3.TypeExporterStat, nfv3.TypeSampler, nfv3.TypeNbar:
		// skipped silently, per spec.md §3
	default:
		log.Warn().Int("record", index).Uint16("type", typ).Msg("nfanon: unknown record type, skipping")
	}
	return false, nil
}
