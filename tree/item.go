package cbor

import (
	"bytes"
	"math"
	bigmath "math/big"
	"time"
)

// Kind identifies which variant of decoded value an Item holds.
type Kind uint8

// Item kinds
const (
	InvalidKind Kind = iota

	UintKind      // unsigned integer
	NegIntKind    // negative integer -1-argument
	BytesKind     // byte string
	TextKind      // UTF-8 text string
	ArrayKind     // ordered sequence of items
	MapKind       // item -> item mapping
	TagKind       // tag number with nested content item
	BoolKind      // false / true
	NullKind      // null
	UndefinedKind // undefined
	SimpleKind    // unassigned simple value
	Float32Kind   // half or single precision float
	Float64Kind   // double precision float
	BigIntKind    // arbitrary-precision integer (tag 2/3 content)
)

// String implements fmt.Stringer
func (k Kind) String() string {
	switch k {
	case UintKind:
		return "uint"
	case NegIntKind:
		return "negint"
	case BytesKind:
		return "bytes"
	case TextKind:
		return "text"
	case ArrayKind:
		return "array"
	case MapKind:
		return "map"
	case TagKind:
		return "tag"
	case BoolKind:
		return "bool"
	case NullKind:
		return "null"
	case UndefinedKind:
		return "undefined"
	case SimpleKind:
		return "simple"
	case Float32Kind:
		return "float32"
	case Float64Kind:
		return "float64"
	case BigIntKind:
		return "bignum"
	default:
		return "<invalid>"
	}
}

// Item is one decoded CBOR data item: the header it was read from, the raw
// argument bytes, and the decoded value. Items are built once by the
// decoder and are not modified afterwards; arrays, maps and tags own their
// children.
type Item struct {
	major MajorType
	info  uint8
	arg   []byte

	kind  Kind
	bits  uint64 // uint, negint magnitude, bool, simple, tag number, float bits
	data  []byte // byte string, or the magnitude bytes of a bignum
	text  string
	items []Item
	m     *Map
	tag   *Item
	big   *bigmath.Int
}

// Major returns the major type of the item's header.
func (it Item) Major() MajorType { return it.major }

// Info returns the additional information of the item's header.
func (it Item) Info() uint8 { return it.info }

// Argument returns the raw argument bytes as read from the source: one byte
// holding the additional information when it is below 24, 1, 2, 4 or 8
// bytes in network order for 24..27, and nothing for indefinite-length
// headers. The returned slice must not be modified.
func (it Item) Argument() []byte { return it.arg }

// Kind returns the variant of the decoded value.
func (it Item) Kind() Kind { return it.kind }

// Indefinite reports whether the item was encoded with an indefinite length.
func (it Item) Indefinite() bool {
	return it.info == addInfoIndefinite && it.major >= MajorTypeBytes && it.major <= MajorTypeMap
}

// Uint returns the value of an unsigned integer item.
func (it Item) Uint() (uint64, bool) {
	return it.bits, it.kind == UintKind
}

// NegIntArgument returns the encoded argument n of a negative integer item
// whose value is -1-n. Every n in the uint64 range is representable.
func (it Item) NegIntArgument() (uint64, bool) {
	return it.bits, it.kind == NegIntKind
}

// Int64 returns the value of an unsigned or negative integer item as an
// int64. Values outside the int64 range produce an IntOverflow error rather
// than wrapping.
func (it Item) Int64() (int64, error) {
	switch it.kind {
	case UintKind:
		if it.bits > math.MaxInt64 {
			return 0, IntOverflow{Value: new(bigmath.Int).SetUint64(it.bits)}
		}
		return int64(it.bits), nil
	case NegIntKind:
		if it.bits > math.MaxInt64 {
			return 0, IntOverflow{Value: negIntBig(it.bits)}
		}
		return -1 - int64(it.bits), nil
	default:
		return 0, TypeError{Method: NegIntKind, Encoded: it.kind}
	}
}

// BigInt returns the value of an integer item (unsigned, negative or
// bignum) as a new big.Int.
func (it Item) BigInt() (*bigmath.Int, bool) {
	switch it.kind {
	case UintKind:
		return new(bigmath.Int).SetUint64(it.bits), true
	case NegIntKind:
		return negIntBig(it.bits), true
	case BigIntKind:
		return new(bigmath.Int).Set(it.big), true
	default:
		return nil, false
	}
}

func negIntBig(n uint64) *bigmath.Int {
	z := new(bigmath.Int).SetUint64(n)
	z.Add(z, bigOne)
	return z.Neg(z)
}

var bigOne = bigmath.NewInt(1)

// Bytes returns the content of a byte string item. For a bignum item it
// returns the magnitude bytes as they appeared on the wire.
func (it Item) Bytes() ([]byte, bool) {
	return it.data, it.kind == BytesKind || it.kind == BigIntKind
}

// Text returns the content of a text string item.
func (it Item) Text() (string, bool) {
	return it.text, it.kind == TextKind
}

// Array returns the elements of an array item.
func (it Item) Array() ([]Item, bool) {
	return it.items, it.kind == ArrayKind
}

// Map returns the entries of a map item.
func (it Item) Map() (*Map, bool) {
	return it.m, it.kind == MapKind
}

// TagNumber returns the tag number of a tag item.
func (it Item) TagNumber() (uint64, bool) {
	return it.bits, it.kind == TagKind
}

// Content returns the item wrapped by a tag item.
func (it Item) Content() (Item, bool) {
	if it.kind != TagKind || it.tag == nil {
		return Item{}, false
	}
	return *it.tag, true
}

// Bool returns the value of a false/true item.
func (it Item) Bool() (bool, bool) {
	return it.bits == 1, it.kind == BoolKind
}

// IsNull reports whether the item is the null simple value.
func (it Item) IsNull() bool { return it.kind == NullKind }

// IsUndefined reports whether the item is the undefined simple value.
func (it Item) IsUndefined() bool { return it.kind == UndefinedKind }

// Simple returns the number of an unassigned simple value item.
func (it Item) Simple() (uint8, bool) {
	return uint8(it.bits), it.kind == SimpleKind
}

// Float32 returns the value of a half or single precision float item.
func (it Item) Float32() (float32, bool) {
	return math.Float32frombits(uint32(it.bits)), it.kind == Float32Kind
}

// Float64 returns the value of any float item widened to float64.
func (it Item) Float64() (float64, bool) {
	switch it.kind {
	case Float32Kind:
		return float64(math.Float32frombits(uint32(it.bits))), true
	case Float64Kind:
		return math.Float64frombits(it.bits), true
	default:
		return 0, false
	}
}

// Time returns the point in time represented by a tag 0 (date-time string)
// or tag 1 (epoch-based) item. The result is in UTC for tag 1 and keeps the
// encoded offset for tag 0.
func (it Item) Time() (time.Time, error) {
	num, ok := it.TagNumber()
	if !ok || it.tag == nil {
		return time.Time{}, TypeError{Method: TagKind, Encoded: it.kind}
	}
	c := *it.tag
	switch num {
	case tagDateTimeString:
		return time.Parse(time.RFC3339Nano, c.text)
	case tagEpochDateTime:
		switch c.kind {
		case UintKind, NegIntKind:
			sec, err := c.Int64()
			if err != nil {
				return time.Time{}, err
			}
			return time.Unix(sec, 0).UTC(), nil
		case Float32Kind, Float64Kind:
			f, _ := c.Float64()
			if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
				return time.Time{}, TagContentError{Tag: num, Major: c.major, Info: c.info, Reason: "epoch time out of range"}
			}
			sec, frac := math.Modf(f)
			return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC(), nil
		}
	}
	return time.Time{}, TypeError{Method: TagKind, Encoded: it.kind}
}

// Equal reports whether two items are structurally equal: same header,
// same argument bytes and equal values. Map entries are compared without
// regard to order.
func (it Item) Equal(other Item) bool {
	return bytes.Equal(appendKey(nil, it), appendKey(nil, other))
}

// Tag is the Interface() form of a tag item without a native Go mapping.
type Tag struct {
	Number  uint64
	Content any
}

// Interface converts the item tree into plain Go values: uint64, int64 (or
// *big.Int when out of range), []byte, string, []any, map[any]any, bool,
// nil, float32, float64, *big.Int, time.Time (tags 0 and 1) and Tag. Map
// keys that are not comparable in Go are replaced by their diagnostic
// notation.
func (it Item) Interface() any {
	switch it.kind {
	case UintKind:
		return it.bits
	case NegIntKind:
		if v, err := it.Int64(); err == nil {
			return v
		}
		z, _ := it.BigInt()
		return z
	case BytesKind:
		return it.data
	case TextKind:
		return it.text
	case ArrayKind:
		out := make([]any, len(it.items))
		for i, e := range it.items {
			out[i] = e.Interface()
		}
		return out
	case MapKind:
		out := make(map[any]any, it.m.Len())
		it.m.Range(func(k, v Item) bool {
			switch k.kind {
			case ArrayKind, MapKind, BytesKind, TagKind, BigIntKind:
				out[k.String()] = v.Interface()
			default:
				out[k.Interface()] = v.Interface()
			}
			return true
		})
		return out
	case TagKind:
		if t, err := it.Time(); err == nil {
			return t
		}
		c := *it.tag
		if c.kind == BigIntKind {
			z, _ := c.BigInt()
			return z
		}
		return Tag{Number: it.bits, Content: c.Interface()}
	case BoolKind:
		return it.bits == 1
	case Float32Kind:
		f, _ := it.Float32()
		return f
	case Float64Kind:
		f, _ := it.Float64()
		return f
	case BigIntKind:
		z, _ := it.BigInt()
		return z
	case SimpleKind:
		return uint8(it.bits)
	default:
		return nil
	}
}
