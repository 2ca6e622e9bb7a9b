package cbor

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// String renders the item in RFC 8949 diagnostic notation.
func (it Item) String() string {
	bb := getByteBuffer()
	defer putByteBuffer(bb)
	appendDiag(bb, it)
	return string(bb.Bytes())
}

// AppendDiag appends the diagnostic notation of it to b.
func AppendDiag(b []byte, it Item) []byte {
	bb := getByteBuffer()
	defer putByteBuffer(bb)
	appendDiag(bb, it)
	return append(b, bb.Bytes()...)
}

func appendDiag(buf *byteBuffer, it Item) {
	switch it.kind {
	case UintKind:
		buf.WriteString(strconv.FormatUint(it.bits, 10))
	case NegIntKind:
		if it.bits < math.MaxInt64 {
			buf.WriteString(strconv.FormatInt(-1-int64(it.bits), 10))
		} else {
			buf.WriteString(negIntBig(it.bits).String())
		}
	case BytesKind, BigIntKind:
		if it.Indefinite() {
			if len(it.data) == 0 {
				buf.WriteString("(_ )")
				return
			}
			buf.WriteString("(_ ")
			appendHexString(buf, it.data)
			buf.WriteByte(')')
			return
		}
		appendHexString(buf, it.data)
	case TextKind:
		if it.Indefinite() {
			if it.text == "" {
				buf.WriteString("(_ )")
				return
			}
			buf.WriteString("(_ ")
			buf.WriteString(strconv.Quote(it.text))
			buf.WriteByte(')')
			return
		}
		buf.WriteString(strconv.Quote(it.text))
	case ArrayKind:
		buf.WriteByte('[')
		if it.Indefinite() {
			buf.WriteString("_ ")
		}
		for i, e := range it.items {
			if i > 0 {
				buf.WriteString(", ")
			}
			appendDiag(buf, e)
		}
		buf.WriteByte(']')
	case MapKind:
		buf.WriteByte('{')
		if it.Indefinite() {
			buf.WriteString("_ ")
		}
		first := true
		it.m.Range(func(k, v Item) bool {
			if !first {
				buf.WriteString(", ")
			}
			first = false
			appendDiag(buf, k)
			buf.WriteString(": ")
			appendDiag(buf, v)
			return true
		})
		buf.WriteByte('}')
	case TagKind:
		buf.WriteString(strconv.FormatUint(it.bits, 10))
		buf.WriteByte('(')
		if it.tag != nil {
			appendDiag(buf, *it.tag)
		}
		buf.WriteByte(')')
	case BoolKind:
		if it.bits == 1 {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case NullKind:
		buf.WriteString("null")
	case UndefinedKind:
		buf.WriteString("undefined")
	case SimpleKind:
		buf.WriteString("simple(")
		buf.WriteString(strconv.FormatUint(it.bits, 10))
		buf.WriteByte(')')
	case Float32Kind:
		f, _ := it.Float32()
		buf.WriteString(formatFloat32Diag(f))
	case Float64Kind:
		f, _ := it.Float64()
		buf.WriteString(formatFloat64Diag(f))
	default:
		buf.WriteString("<invalid>")
	}
}

func appendHexString(buf *byteBuffer, p []byte) {
	buf.WriteString("h'")
	hex.Encode(buf.Extend(hex.EncodedLen(len(p))), p)
	buf.WriteByte('\'')
}

// formatFloat64Diag returns a diagnostic string for float64 matching RFC examples
func formatFloat64Diag(f float64) string {
	return formatFloatDiag(f, 64)
}

// formatFloat32Diag returns a diagnostic string for float32 matching RFC examples
func formatFloat32Diag(f float32) string {
	return formatFloatDiag(float64(f), 32)
}

func formatFloatDiag(f float64, bitSize int) string {
	if math.IsInf(f, +1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	af := math.Abs(f)
	// Prefer fixed-point for reasonable magnitudes
	if af == 0 || (af >= 1e-5 && af < 1e15) {
		s := strconv.FormatFloat(f, 'f', -1, bitSize)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatFloat(f, 'e', -1, bitSize)
}
