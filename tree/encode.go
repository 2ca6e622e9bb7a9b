package cbor

import (
	"bytes"
	"encoding/binary"
	"math"
	bigmath "math/big"
	"slices"
)

// appendUintCore encodes an unsigned integer with the given major type
func appendUintCore(b []byte, major MajorType, u uint64) []byte {
	info, arg := minimalArgument(u)
	b = append(b, makeByte(major, info))
	if info > addInfoDirect {
		b = append(b, arg...)
	}
	return b
}

// minimalArgument returns the shortest header form for u.
func minimalArgument(u uint64) (uint8, []byte) {
	switch {
	case u <= addInfoDirect:
		return uint8(u), []byte{uint8(u)}
	case u <= math.MaxUint8:
		return addInfoUint8, []byte{uint8(u)}
	case u <= math.MaxUint16:
		return addInfoUint16, binary.BigEndian.AppendUint16(nil, uint16(u))
	case u <= math.MaxUint32:
		return addInfoUint32, binary.BigEndian.AppendUint32(nil, uint32(u))
	default:
		return addInfoUint64, binary.BigEndian.AppendUint64(nil, u)
	}
}

// AppendItem appends the CBOR encoding of it to b. Items produced by the
// decoder are written with the header and argument they were read with;
// the chunks of an indefinite-length string are joined into a single
// chunk, and a definite-length map that repeated a key gets a header
// counting its remaining entries.
func AppendItem(b []byte, it Item) []byte {
	return appendItem(b, it, false)
}

// appendKey appends the canonical form used for structural comparison:
// the same as AppendItem except that map entries are written in byte-wise
// order of their encoding.
func appendKey(b []byte, it Item) []byte {
	return appendItem(b, it, true)
}

func appendItem(b []byte, it Item, sortMaps bool) []byte {
	if it.kind == InvalidKind {
		return b
	}
	if it.kind == MapKind && !it.Indefinite() && argumentUint(it.arg) != uint64(it.m.Len()) {
		// repeated keys were merged; the header counts what is written
		b = appendUintCore(b, MajorTypeMap, uint64(it.m.Len()))
	} else {
		b = append(b, makeByte(it.major, it.info))
		if it.info >= addInfoUint8 && it.info <= addInfoUint64 {
			b = append(b, it.arg...)
		}
	}

	switch it.kind {
	case BytesKind, BigIntKind:
		b = appendChunked(b, it, it.data)
	case TextKind:
		b = appendChunked(b, it, []byte(it.text))
	case ArrayKind:
		for _, e := range it.items {
			b = appendItem(b, e, sortMaps)
		}
		if it.Indefinite() {
			b = append(b, breakCode)
		}
	case MapKind:
		if sortMaps {
			entries := make([][]byte, 0, it.m.Len())
			it.m.Range(func(k, v Item) bool {
				e := appendItem(nil, k, true)
				entries = append(entries, appendItem(e, v, true))
				return true
			})
			slices.SortFunc(entries, bytes.Compare)
			for _, e := range entries {
				b = append(b, e...)
			}
		} else {
			it.m.Range(func(k, v Item) bool {
				b = appendItem(b, k, false)
				b = appendItem(b, v, false)
				return true
			})
		}
		if it.Indefinite() {
			b = append(b, breakCode)
		}
	case TagKind:
		if it.tag != nil {
			b = appendItem(b, *it.tag, sortMaps)
		}
	}
	return b
}

// appendChunked writes string content after its header. Definite strings
// carry the content directly; indefinite strings get one definite chunk
// (omitted when empty) and the break code.
func appendChunked(b []byte, it Item, content []byte) []byte {
	if !it.Indefinite() {
		return append(b, content...)
	}
	if len(content) > 0 {
		b = appendUintCore(b, it.major, uint64(len(content)))
		b = append(b, content...)
	}
	return append(b, breakCode)
}

// Marshal returns the CBOR encoding of it.
func (it Item) Marshal() []byte {
	return AppendItem(make([]byte, 0, 16), it)
}

func headerItem(major MajorType, u uint64, kind Kind) Item {
	info, arg := minimalArgument(u)
	return Item{major: major, info: info, arg: arg, kind: kind, bits: u}
}

// NewUint returns an unsigned integer item.
func NewUint(u uint64) Item { return headerItem(MajorTypeUint, u, UintKind) }

// NewNegInt returns the negative integer item -1-n.
func NewNegInt(n uint64) Item { return headerItem(MajorTypeNegInt, n, NegIntKind) }

// NewInt returns an unsigned or negative integer item for i.
func NewInt(i int64) Item {
	if i >= 0 {
		return NewUint(uint64(i))
	}
	return NewNegInt(uint64(-1 - i))
}

// NewBytes returns a definite-length byte string item.
func NewBytes(p []byte) Item {
	it := headerItem(MajorTypeBytes, uint64(len(p)), BytesKind)
	it.bits = 0
	it.data = p
	return it
}

// NewText returns a definite-length text string item.
func NewText(s string) Item {
	it := headerItem(MajorTypeText, uint64(len(s)), TextKind)
	it.bits = 0
	it.text = s
	return it
}

// NewArray returns a definite-length array item.
func NewArray(items ...Item) Item {
	it := headerItem(MajorTypeArray, uint64(len(items)), ArrayKind)
	it.bits = 0
	it.items = items
	return it
}

// NewMap returns a definite-length map item. Later pairs replace earlier
// ones with an equal key.
func NewMap(pairs ...Pair) Item {
	m := newMap(len(pairs))
	for _, p := range pairs {
		m.set(p.Key, p.Value)
	}
	it := headerItem(MajorTypeMap, uint64(m.Len()), MapKind)
	it.bits = 0
	it.m = m
	return it
}

// NewTag returns a tag item wrapping content unchanged.
func NewTag(num uint64, content Item) Item {
	it := headerItem(MajorTypeTag, num, TagKind)
	it.tag = &content
	return it
}

// NewBigInt returns a tag 2 or tag 3 item holding z.
func NewBigInt(z *bigmath.Int) Item {
	num := uint64(tagPosBignum)
	if z.Sign() < 0 {
		num = tagNegBignum
	}
	c := NewBytes(z.Bytes())
	c.kind = BigIntKind
	c.big = new(bigmath.Int).Set(z)
	return NewTag(num, c)
}

func simpleItem(info uint8, kind Kind, bits uint64) Item {
	return Item{major: MajorTypeSimple, info: info, arg: []byte{info}, kind: kind, bits: bits}
}

// NewBool returns a false or true item.
func NewBool(v bool) Item {
	if v {
		return simpleItem(simpleTrue, BoolKind, 1)
	}
	return simpleItem(simpleFalse, BoolKind, 0)
}

// NewNull returns the null item.
func NewNull() Item { return simpleItem(simpleNull, NullKind, 0) }

// NewUndefined returns the undefined item.
func NewUndefined() Item { return simpleItem(simpleUndefined, UndefinedKind, 0) }

// NewSimple returns an unassigned simple value item. Values 20..31 are
// reserved for other meanings and are rejected.
func NewSimple(v uint8) (Item, bool) {
	switch {
	case v < simpleFalse:
		return simpleItem(v, SimpleKind, uint64(v)), true
	case v >= 32:
		return Item{major: MajorTypeSimple, info: addInfoUint8, arg: []byte{v}, kind: SimpleKind, bits: uint64(v)}, true
	}
	return Item{}, false
}

// NewFloat32 returns a single precision float item.
func NewFloat32(f float32) Item {
	bits := math.Float32bits(f)
	return Item{major: MajorTypeSimple, info: simpleFloat32, arg: binary.BigEndian.AppendUint32(nil, bits),
		kind: Float32Kind, bits: uint64(bits)}
}

// NewFloat64 returns a double precision float item.
func NewFloat64(f float64) Item {
	bits := math.Float64bits(f)
	return Item{major: MajorTypeSimple, info: simpleFloat64, arg: binary.BigEndian.AppendUint64(nil, bits),
		kind: Float64Kind, bits: bits}
}
