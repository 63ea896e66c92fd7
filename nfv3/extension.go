package nfv3

// Anonymizer is the interface the walker needs from the address
// anonymizer (spec.md §4.1): two pure, thread-safe functions once a key
// has been installed. Defined here, at the point of use, rather than
// imported from the anon package, so nfv3 depends on a shape, not a
// concrete type.
type Anonymizer interface {
	Anon4(addr uint32) uint32
	Anon6(addr [2]uint64) [2]uint64
}

// ExtTag identifies an extension's payload shape (spec.md §3's table).
type ExtTag uint16

const (
	ExtUnknown       ExtTag = 0
	ExtIPv4Flow      ExtTag = 1
	ExtIPv6Flow      ExtTag = 2
	ExtASRouting     ExtTag = 3
	ExtBGPNextHopV4  ExtTag = 4
	ExtBGPNextHopV6  ExtTag = 5
	ExtIPNextHopV4   ExtTag = 6
	ExtIPNextHopV6   ExtTag = 7
	ExtIPReceivedV4  ExtTag = 8
	ExtIPReceivedV6  ExtTag = 9
	ExtASAdjacent    ExtTag = 10
	ExtNselXlateIPv4 ExtTag = 11
	ExtNselXlateIPv6 ExtTag = 12
)

// ExtHeaderLen is the wire size of an extension's {type, length} header;
// Length (read by Walk) counts this header plus the payload.
const ExtHeaderLen = 4

func (t ExtTag) String() string {
	switch t {
	case ExtIPv4Flow:
		return "ipv4Flow"
	case ExtIPv6Flow:
		return "ipv6Flow"
	case ExtASRouting:
		return "asRouting"
	case ExtBGPNextHopV4:
		return "bgpNextHopV4"
	case ExtBGPNextHopV6:
		return "bgpNextHopV6"
	case ExtIPNextHopV4:
		return "ipNextHopV4"
	case ExtIPNextHopV6:
		return "ipNextHopV6"
	case ExtIPReceivedV4:
		return "ipReceivedV4"
	case ExtIPReceivedV6:
		return "ipReceivedV6"
	case ExtASAdjacent:
		return "asAdjacent"
	case ExtNselXlateIPv4:
		return "nselXlateIPv4"
	case ExtNselXlateIPv6:
		return "nselXlateIPv6"
	default:
		return "unknown"
	}
}

// applyExtension anonymizes payload in place per tag, per the table in
// spec.md §3. Unknown tags, and known tags whose payload is shorter than
// expected (garbled but not cursor-violating), are left untouched: only
// the cursor arithmetic in Walk is a fatal-corruption condition.
func applyExtension(tag ExtTag, payload []byte, az Anonymizer) {
	switch tag {
	case ExtIPv4Flow:
		if len(payload) < 8 {
			return
		}
		putV4(payload[0:4], az.Anon4(getV4(payload[0:4])))
		putV4(payload[4:8], az.Anon4(getV4(payload[4:8])))

	case ExtIPv6Flow:
		if len(payload) < 32 {
			return
		}
		anon6InPlace(payload[0:16], az)
		anon6InPlace(payload[16:32], az)

	case ExtASRouting:
		if len(payload) < 8 {
			return
		}
		putV4(payload[0:4], 0)
		putV4(payload[4:8], 0)

	case ExtBGPNextHopV4:
		if len(payload) < 4 {
			return
		}
		putV4(payload[0:4], az.Anon4(getV4(payload[0:4])))

	case ExtBGPNextHopV6:
		if len(payload) < 16 {
			return
		}
		anon6InPlace(payload[0:16], az)

	case ExtIPNextHopV4:
		if len(payload) < 4 {
			return
		}
		putV4(payload[0:4], az.Anon4(getV4(payload[0:4])))

	case ExtIPNextHopV6:
		if len(payload) < 16 {
			return
		}
		anon6InPlace(payload[0:16], az)

	case ExtIPReceivedV4:
		if len(payload) < 4 {
			return
		}
		putV4(payload[0:4], az.Anon4(getV4(payload[0:4])))

	case ExtIPReceivedV6:
		if len(payload) < 16 {
			return
		}
		anon6InPlace(payload[0:16], az)

	case ExtASAdjacent:
		if len(payload) < 8 {
			return
		}
		putV4(payload[0:4], 0)
		putV4(payload[4:8], 0)

	case ExtNselXlateIPv4:
		if len(payload) < 8 {
			return
		}
		putV4(payload[0:4], az.Anon4(getV4(payload[0:4])))
		putV4(payload[4:8], az.Anon4(getV4(payload[4:8])))

	case ExtNselXlateIPv6:
		if len(payload) < 32 {
			return
		}
		anon6InPlace(payload[0:16], az)
		anon6InPlace(payload[16:32], az)

	default:
		// unrecognized extension: inspected but left unmodified, per
		// spec.md §3 ("any other ... left unmodified").
	}
}

func getV4(b []byte) uint32 {
	return lsb.Uint32(b)
}

func putV4(b []byte, v uint32) {
	lsb.PutUint32(b, v)
}

// anon6InPlace anonymizes a 16-byte (two uint64 words) address field.
func anon6InPlace(b []byte, az Anonymizer) {
	addr := [2]uint64{lsb.Uint64(b[0:8]), lsb.Uint64(b[8:16])}
	out := az.Anon6(addr)
	lsb.PutUint64(b[0:8], out[0])
	lsb.PutUint64(b[8:16], out[1])
}
