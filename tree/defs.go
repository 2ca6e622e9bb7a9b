// Package cbor decodes RFC 8949 CBOR data items from a byte stream into a
// tree of typed Items.
//
// The decoder reads from any io.Reader and never looks further ahead than
// one byte. Each top-level item is returned fully formed:
//
//	dec := cbor.NewDecoder(r)
//	for dec.More() {
//		it, err := dec.Decode()
//		...
//	}
//
// Integers, byte and text strings (definite and indefinite), arrays, maps,
// floats (half, single, double), the simple values false/true/null/undefined
// and the tags 0 (date-time string), 1 (epoch time), 2 and 3 (bignums) are
// supported. Other tag numbers fail with ErrUnsupportedTag unless the
// decoder is told to pass them through.
package cbor

const (
	// defaultMaxDepth bounds the nesting of arrays, maps and tags.
	defaultMaxDepth = 1024
)

// MajorType is the 3-bit category code of an item header.
type MajorType uint8

// CBOR major types (3 bits)
const (
	MajorTypeUint   MajorType = 0 // unsigned integer
	MajorTypeNegInt MajorType = 1 // negative integer
	MajorTypeBytes  MajorType = 2 // byte string
	MajorTypeText   MajorType = 3 // text string (UTF-8)
	MajorTypeArray  MajorType = 4 // array
	MajorTypeMap    MajorType = 5 // map
	MajorTypeTag    MajorType = 6 // semantic tag
	MajorTypeSimple MajorType = 7 // float, simple values, break
)

// String implements fmt.Stringer
func (m MajorType) String() string {
	switch m {
	case MajorTypeUint:
		return "uint"
	case MajorTypeNegInt:
		return "negint"
	case MajorTypeBytes:
		return "bytes"
	case MajorTypeText:
		return "text"
	case MajorTypeArray:
		return "array"
	case MajorTypeMap:
		return "map"
	case MajorTypeTag:
		return "tag"
	case MajorTypeSimple:
		return "simple"
	default:
		return "<invalid>"
	}
}

// Additional info values (5 bits)
const (
	// 0-23: literal value
	addInfoDirect     = 23 // max direct value
	addInfoUint8      = 24 // 1-byte uint8 follows
	addInfoUint16     = 25 // 2-byte uint16 follows
	addInfoUint32     = 26 // 4-byte uint32 follows
	addInfoUint64     = 27 // 8-byte uint64 follows
	addInfoIndefinite = 31 // indefinite length (for bytes, text, array, map)
)

// Simple values in major type 7
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
	simpleBreak     = 31
)

// Semantic tags with a registered interpretation
const (
	tagDateTimeString = 0 // RFC3339 date/time string
	tagEpochDateTime  = 1 // Unix timestamp (int or float)
	tagPosBignum      = 2 // Positive bignum
	tagNegBignum      = 3 // Negative bignum
)

// breakCode terminates indefinite-length strings, arrays and maps.
const breakCode byte = 0xff

// makeByte creates a CBOR initial byte from major type and additional info
func makeByte(major MajorType, addInfo uint8) byte {
	return byte(uint8(major)<<5 | addInfo&0x1f)
}

// SplitHeader decomposes an initial byte into its major type (high 3 bits)
// and additional information (low 5 bits). Every byte value is a valid
// header.
func SplitHeader(b byte) (MajorType, uint8) {
	return getMajorType(b), getAddInfo(b)
}

// getMajorType extracts the major type from a CBOR initial byte
func getMajorType(b byte) MajorType {
	return MajorType(b>>5) & 0x07
}

// getAddInfo extracts the additional info from a CBOR initial byte
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

// argumentLen returns the number of argument bytes that follow a header
// with the given additional information, for 24..27.
func argumentLen(addInfo uint8) int {
	switch addInfo {
	case addInfoUint8:
		return 1
	case addInfoUint16:
		return 2
	case addInfoUint32:
		return 4
	case addInfoUint64:
		return 8
	}
	return 0
}
