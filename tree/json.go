package cbor

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// AppendJSON appends a JSON rendering of it to b:
//   - integers and bignums outside ±2^53 are written as decimal strings;
//   - byte strings are written as standard base64 strings;
//   - tags 0 and 1 are written as RFC 3339 strings;
//   - other tags are written as {"$tag":N,"$":content};
//   - map keys that are not text are written as their diagnostic notation;
//   - null, undefined and unassigned simple values are written as null,
//     as are NaN and infinite floats.
func AppendJSON(b []byte, it Item) []byte {
	bb := getByteBuffer()
	defer putByteBuffer(bb)
	toJSON(bb, it)
	return append(b, bb.Bytes()...)
}

// MarshalJSON implements json.Marshaler
func (it Item) MarshalJSON() ([]byte, error) {
	return AppendJSON(nil, it), nil
}

const maxSafeJSONInt = 1<<53 - 1

func toJSON(buf *byteBuffer, it Item) {
	switch it.kind {
	case UintKind:
		if it.bits > maxSafeJSONInt {
			writeJSONString(buf, strconv.FormatUint(it.bits, 10))
			return
		}
		buf.WriteString(strconv.FormatUint(it.bits, 10))
	case NegIntKind:
		if it.bits >= maxSafeJSONInt {
			writeJSONString(buf, negIntBig(it.bits).String())
			return
		}
		buf.WriteString(strconv.FormatInt(-1-int64(it.bits), 10))
	case BytesKind:
		// base64-encode byte strings
		buf.WriteByte('"')
		encodeBase64Std(buf, it.data)
		buf.WriteByte('"')
	case TextKind:
		writeJSONString(buf, it.text)
	case ArrayKind:
		buf.WriteByte('[')
		for i, e := range it.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			toJSON(buf, e)
		}
		buf.WriteByte(']')
	case MapKind:
		buf.WriteByte('{')
		first := true
		it.m.Range(func(k, v Item) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if k.kind == TextKind {
				writeJSONString(buf, k.text)
			} else {
				// fallback: use diagnostic notation as key
				writeJSONString(buf, k.String())
			}
			buf.WriteByte(':')
			toJSON(buf, v)
			return true
		})
		buf.WriteByte('}')
	case TagKind:
		tagToJSON(buf, it)
	case BigIntKind:
		writeJSONString(buf, it.big.String())
	case BoolKind:
		if it.bits == 1 {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Float32Kind, Float64Kind:
		f, _ := it.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			return
		}
		bitSize := 64
		if it.kind == Float32Kind {
			bitSize = 32
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, bitSize))
	default:
		// null, undefined and unassigned simple values
		buf.WriteString("null")
	}
}

func tagToJSON(buf *byteBuffer, it Item) {
	c := *it.tag
	switch {
	case it.bits == tagDateTimeString || it.bits == tagEpochDateTime:
		if tm, err := it.Time(); err == nil {
			writeJSONString(buf, tm.Format(time.RFC3339Nano))
			return
		}
	case c.kind == BigIntKind:
		toJSON(buf, c)
		return
	}
	// Generic: {"$tag":N, "$": value}
	buf.WriteString(`{"$tag":`)
	buf.WriteString(strconv.FormatUint(it.bits, 10))
	buf.WriteString(`,"$":`)
	toJSON(buf, c)
	buf.WriteByte('}')
}

func writeJSONString(buf *byteBuffer, s string) {
	js, _ := json.Marshal(s)
	buf.Write(js)
}

// encodeBase64Std writes standard base64 of src into buf.
func encodeBase64Std(buf *byteBuffer, src []byte) {
	out := buf.Extend(base64.StdEncoding.EncodedLen(len(src)))
	base64.StdEncoding.Encode(out, src)
}
