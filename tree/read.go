package cbor

import (
	"errors"
	"io"
	"math"
	"strconv"
	"unicode/utf8"
)

// smallStringLen is the largest declared string length that is allocated
// up front. Longer strings grow with the data actually read so a forged
// length cannot force a huge allocation.
const smallStringLen = 64 * 1024

// isUTF8Valid validates UTF-8 for a byte slice.
var isUTF8Valid = func(b []byte) bool { return utf8.Valid(b) }

// eofToPremature maps end of input inside an item to ErrPrematureEnd.
func eofToPremature(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrPrematureEnd
	}
	return err
}

// readByte reads one byte that is required to complete the current item.
func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, eofToPremature(err)
	}
	return b, nil
}

// readArgument produces the raw argument bytes for a header. Additional
// information below 24 is its own one-byte argument; 24..27 read 1, 2, 4
// or 8 bytes in network order; 31 yields an empty argument for major types
// 2..5 and 7 (indefinite length or break) and fails for 0, 1 and 6.
func (d *Decoder) readArgument(major MajorType, info uint8) ([]byte, error) {
	switch {
	case info <= addInfoDirect:
		return []byte{info}, nil
	case info <= addInfoUint64:
		arg := make([]byte, argumentLen(info))
		if _, err := io.ReadFull(d.r, arg); err != nil {
			return nil, eofToPremature(err)
		}
		return arg, nil
	case info == addInfoIndefinite:
		switch major {
		case MajorTypeBytes, MajorTypeText, MajorTypeArray, MajorTypeMap, MajorTypeSimple:
			return []byte{}, nil
		}
	}
	return nil, InvalidAdditionalInfoError{Major: major, Info: info}
}

// argumentUint reassembles big-endian argument bytes into a uint64.
func argumentUint(arg []byte) uint64 {
	var u uint64
	for _, b := range arg {
		u = u<<8 | uint64(b)
	}
	return u
}

// checkLen applies the configured container limit to a declared length.
func (d *Decoder) checkLen(n uint64) error {
	if d.maxContainer > 0 && n > d.maxContainer {
		return ErrContainerTooLarge
	}
	return nil
}

// decodeItem decodes the item whose header byte has already been read.
func (d *Decoder) decodeItem(head byte, depth int) (Item, error) {
	if d.maxDepth > 0 && depth > d.maxDepth {
		return Item{}, ErrMaxDepthExceeded
	}
	major, info := SplitHeader(head)
	return d.decodeBody(major, info, depth)
}

// decodeBody dispatches on the major type of a decomposed header.
func (d *Decoder) decodeBody(major MajorType, info uint8, depth int) (Item, error) {
	switch major {
	case MajorTypeUint, MajorTypeNegInt:
		return d.readInteger(major, info)
	case MajorTypeBytes, MajorTypeText:
		return d.readString(major, info)
	case MajorTypeArray:
		return d.readArray(info, depth)
	case MajorTypeMap:
		return d.readMap(info, depth)
	case MajorTypeTag:
		return d.readTag(info, depth)
	case MajorTypeSimple:
		return d.readSimple(info)
	default:
		return Item{}, ErrInvalidMajorType
	}
}

func (d *Decoder) readInteger(major MajorType, info uint8) (Item, error) {
	arg, err := d.readArgument(major, info)
	if err != nil {
		return Item{}, err
	}
	it := Item{major: major, info: info, arg: arg, bits: argumentUint(arg), kind: UintKind}
	if major == MajorTypeNegInt {
		it.kind = NegIntKind
	}
	return it, nil
}

func (d *Decoder) readString(major MajorType, info uint8) (Item, error) {
	arg, err := d.readArgument(major, info)
	if err != nil {
		return Item{}, err
	}
	var data []byte
	if info == addInfoIndefinite {
		data, err = d.readChunks(major)
	} else {
		data, err = d.readDefinite(major, arg)
	}
	if err != nil {
		return Item{}, err
	}
	it := Item{major: major, info: info, arg: arg}
	if major == MajorTypeText {
		it.kind = TextKind
		it.text = string(data)
	} else {
		it.kind = BytesKind
		it.data = data
	}
	return it, nil
}

// readDefinite reads exactly the number of bytes declared by arg. Text
// content must be valid UTF-8.
func (d *Decoder) readDefinite(major MajorType, arg []byte) ([]byte, error) {
	n := argumentUint(arg)
	if err := d.checkLen(n); err != nil {
		return nil, err
	}
	if n > math.MaxInt {
		return nil, ErrContainerTooLarge
	}

	var data []byte
	if n <= smallStringLen {
		data = make([]byte, n)
		if _, err := io.ReadFull(d.r, data); err != nil {
			return nil, eofToPremature(err)
		}
	} else {
		bb := getByteBuffer()
		got, err := bb.ReadFrom(io.LimitReader(d.r, int64(n)))
		if err != nil {
			putByteBuffer(bb)
			return nil, eofToPremature(err)
		}
		if uint64(got) != n {
			putByteBuffer(bb)
			return nil, ErrPrematureEnd
		}
		data = bb.Copy()
		putByteBuffer(bb)
	}
	if major == MajorTypeText && !isUTF8Valid(data) {
		return nil, ErrInvalidUTF8
	}
	return data, nil
}

// readChunks assembles an indefinite-length string. Every chunk must be a
// definite-length string of the same major type; the break code ends the
// string. End of input before the break fails for both byte and text
// strings.
func (d *Decoder) readChunks(major MajorType) ([]byte, error) {
	out := []byte{}
	for i := 0; ; i++ {
		head, err := d.readByte()
		if err != nil {
			return nil, WrapError(err, "chunk["+strconv.Itoa(i)+"]")
		}
		if head == breakCode {
			return out, nil
		}
		cm, ci := SplitHeader(head)
		if cm != major || ci == addInfoIndefinite {
			return nil, WrapError(InvalidChunkError{Want: major, Got: cm, Info: ci}, "chunk["+strconv.Itoa(i)+"]")
		}
		arg, err := d.readArgument(cm, ci)
		if err != nil {
			return nil, WrapError(err, "chunk["+strconv.Itoa(i)+"]")
		}
		chunk, err := d.readDefinite(cm, arg)
		if err != nil {
			return nil, WrapError(err, "chunk["+strconv.Itoa(i)+"]")
		}
		if err := d.checkLen(uint64(len(out)) + uint64(len(chunk))); err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
}

// readRequired reads the header of an item that must be present, such as
// an array element or a map value, and decodes it.
func (d *Decoder) readRequired(depth int) (Item, error) {
	head, err := d.readByte()
	if err != nil {
		return Item{}, err
	}
	if head == breakCode {
		return Item{}, ErrUnexpectedBreak
	}
	return d.decodeItem(head, depth)
}

// readNextOrBreak reads the next header inside an indefinite-length
// container. It reports done when the header is the break code.
func (d *Decoder) readNextOrBreak(depth int) (it Item, done bool, err error) {
	head, err := d.readByte()
	if err != nil {
		return Item{}, false, err
	}
	if head == breakCode {
		return Item{}, true, nil
	}
	it, err = d.decodeItem(head, depth)
	return it, false, err
}

func (d *Decoder) readArray(info uint8, depth int) (Item, error) {
	arg, err := d.readArgument(MajorTypeArray, info)
	if err != nil {
		return Item{}, err
	}
	it := Item{major: MajorTypeArray, info: info, arg: arg, kind: ArrayKind}

	if info == addInfoIndefinite {
		items := []Item{}
		for i := 0; ; i++ {
			e, done, err := d.readNextOrBreak(depth + 1)
			if err != nil {
				return Item{}, d.abort(err, "array["+strconv.Itoa(i)+"]")
			}
			if done {
				break
			}
			items = append(items, e)
			if err := d.checkLen(uint64(len(items))); err != nil {
				return Item{}, err
			}
		}
		it.items = items
		return it, nil
	}

	n := argumentUint(arg)
	if err := d.checkLen(n); err != nil {
		return Item{}, err
	}
	items := make([]Item, 0, min(n, 1024))
	for i := uint64(0); i < n; i++ {
		e, err := d.readRequired(depth + 1)
		if err != nil {
			return Item{}, d.abort(err, "array["+strconv.FormatUint(i, 10)+"]")
		}
		items = append(items, e)
	}
	it.items = items
	return it, nil
}

func (d *Decoder) readMap(info uint8, depth int) (Item, error) {
	arg, err := d.readArgument(MajorTypeMap, info)
	if err != nil {
		return Item{}, err
	}
	it := Item{major: MajorTypeMap, info: info, arg: arg, kind: MapKind}

	if info == addInfoIndefinite {
		m := newMap(0)
		for i := 0; ; i++ {
			k, done, err := d.readNextOrBreak(depth + 1)
			if err != nil {
				return Item{}, d.abort(err, "map key["+strconv.Itoa(i)+"]")
			}
			if done {
				break
			}
			v, err := d.readRequired(depth + 1)
			if err != nil {
				return Item{}, d.abort(err, "map value["+strconv.Itoa(i)+"]")
			}
			m.set(k, v)
			if err := d.checkLen(uint64(i + 1)); err != nil {
				return Item{}, err
			}
		}
		it.m = m
		return it, nil
	}

	n := argumentUint(arg)
	if err := d.checkLen(n); err != nil {
		return Item{}, err
	}
	m := newMap(int(min(n, 1024)))
	for i := uint64(0); i < n; i++ {
		k, err := d.readRequired(depth + 1)
		if err != nil {
			return Item{}, d.abort(err, "map key["+strconv.FormatUint(i, 10)+"]")
		}
		v, err := d.readRequired(depth + 1)
		if err != nil {
			return Item{}, d.abort(err, "map value["+strconv.FormatUint(i, 10)+"]")
		}
		m.set(k, v)
	}
	it.m = m
	return it, nil
}

// readSimple decodes major type 7: simple values and floats. The break
// code is not a data item and fails here; containers check for it before
// calling the item decoder.
func (d *Decoder) readSimple(info uint8) (Item, error) {
	if info == simpleBreak {
		return Item{}, ErrUnexpectedBreak
	}
	arg, err := d.readArgument(MajorTypeSimple, info)
	if err != nil {
		return Item{}, err
	}
	it := Item{major: MajorTypeSimple, info: info, arg: arg}
	switch info {
	case simpleFalse, simpleTrue:
		it.kind = BoolKind
		if info == simpleTrue {
			it.bits = 1
		}
	case simpleNull:
		it.kind = NullKind
	case simpleUndefined:
		it.kind = UndefinedKind
	case addInfoUint8:
		// One-byte simple values below 32 must use the short form.
		if arg[0] < 32 {
			return Item{}, InvalidAdditionalInfoError{Major: MajorTypeSimple, Info: info}
		}
		it.kind = SimpleKind
		it.bits = uint64(arg[0])
	case simpleFloat16:
		f := float16BitsToFloat32(uint16(argumentUint(arg)))
		it.kind = Float32Kind
		it.bits = uint64(math.Float32bits(f))
	case simpleFloat32:
		it.kind = Float32Kind
		it.bits = argumentUint(arg)
	case simpleFloat64:
		it.kind = Float64Kind
		it.bits = argumentUint(arg)
	default:
		// 0..19: unassigned simple values
		it.kind = SimpleKind
		it.bits = uint64(info)
	}
	return it, nil
}

// abort wraps an error raised inside an array or map and records that the
// container was left partially read.
func (d *Decoder) abort(err error, ctx ...any) error {
	d.aborted = true
	return WrapError(err, ctx...)
}
