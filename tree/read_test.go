package cbor

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func decodeHex(t testing.TB, s string) (Item, error) {
	t.Helper()
	return DecodeOne(bytes.NewReader(mustHex(t, s)))
}

// RFC 8949 Appendix A examples that this decoder accepts, with the
// diagnostic notation it renders for them.
var appendixA = []struct {
	hex  string
	diag string
}{
	{"00", "0"},
	{"01", "1"},
	{"0a", "10"},
	{"17", "23"},
	{"1818", "24"},
	{"1819", "25"},
	{"1864", "100"},
	{"1903e8", "1000"},
	{"1a000f4240", "1000000"},
	{"1b000000e8d4a51000", "1000000000000"},
	{"1bffffffffffffffff", "18446744073709551615"},
	{"c249010000000000000000", "2(h'010000000000000000')"},
	{"3bffffffffffffffff", "-18446744073709551616"},
	{"c349010000000000000000", "3(h'010000000000000000')"},
	{"20", "-1"},
	{"29", "-10"},
	{"3863", "-100"},
	{"3903e7", "-1000"},
	{"f90000", "0.0"},
	{"f98000", "-0.0"},
	{"f93c00", "1.0"},
	{"fb3ff199999999999a", "1.1"},
	{"f93e00", "1.5"},
	{"f97bff", "65504.0"},
	{"fa47c35000", "100000.0"},
	{"fb7e37e43c8800759c", "1e+300"},
	{"f9c400", "-4.0"},
	{"fbc010666666666666", "-4.1"},
	{"f97c00", "Infinity"},
	{"f97e00", "NaN"},
	{"f9fc00", "-Infinity"},
	{"fa7f800000", "Infinity"},
	{"fa7fc00000", "NaN"},
	{"faff800000", "-Infinity"},
	{"fb7ff0000000000000", "Infinity"},
	{"fb7ff8000000000000", "NaN"},
	{"fbfff0000000000000", "-Infinity"},
	{"f4", "false"},
	{"f5", "true"},
	{"f6", "null"},
	{"f7", "undefined"},
	{"f0", "simple(16)"},
	{"f8ff", "simple(255)"},
	{"c074323031332d30332d32315432303a30343a30305a", `0("2013-03-21T20:04:00Z")`},
	{"c11a514b67b0", "1(1363896240)"},
	{"c1fb41d452d9ec200000", "1(1363896240.5)"},
	{"40", "h''"},
	{"4401020304", "h'01020304'"},
	{"60", `""`},
	{"6161", `"a"`},
	{"6449455446", `"IETF"`},
	{"62225c", `"\"\\"`},
	{"62c3bc", `"ü"`},
	{"63e6b0b4", `"水"`},
	{"80", "[]"},
	{"83010203", "[1, 2, 3]"},
	{"8301820203820405", "[1, [2, 3], [4, 5]]"},
	{"98190102030405060708090a0b0c0d0e0f101112131415161718181819",
		"[1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25]"},
	{"a0", "{}"},
	{"a201020304", "{1: 2, 3: 4}"},
	{"a26161016162820203", `{"a": 1, "b": [2, 3]}`},
	{"826161a161626163", `["a", {"b": "c"}]`},
	{"a56161614161626142616361436164614461656145", `{"a": "A", "b": "B", "c": "C", "d": "D", "e": "E"}`},
	{"5f42010243030405ff", "(_ h'0102030405')"},
	{"7f657374726561646d696e67ff", `(_ "streaming")`},
	{"9fff", "[_ ]"},
	{"9f018202039f0405ffff", "[_ 1, [2, 3], [_ 4, 5]]"},
	{"9f01820203820405ff", "[_ 1, [2, 3], [4, 5]]"},
	{"83018202039f0405ff", "[1, [2, 3], [_ 4, 5]]"},
	{"83019f0203ff820405", "[1, [_ 2, 3], [4, 5]]"},
	{"bf61610161629f0203ffff", `{_ "a": 1, "b": [_ 2, 3]}`},
	{"826161bf61626163ff", `["a", {_ "b": "c"}]`},
	{"bf6346756ef563416d7421ff", `{_ "Fun": true, "Amt": -2}`},
}

func TestDecodeAppendixA(t *testing.T) {
	for _, tc := range appendixA {
		it, err := decodeHex(t, tc.hex)
		if err != nil {
			t.Fatalf("decode %s: %v", tc.hex, err)
		}
		if got := it.String(); got != tc.diag {
			t.Fatalf("diag mismatch for %s: got %q want %q", tc.hex, got, tc.diag)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		want error
	}{
		{"reserved-info-28", "1c", ErrMalformedArgument},
		{"reserved-info-29", "3d", ErrMalformedArgument},
		{"reserved-info-30", "fe", ErrMalformedArgument},
		{"indefinite-uint", "1f", ErrMalformedArgument},
		{"indefinite-negint", "3f", ErrMalformedArgument},
		{"indefinite-tag", "df", ErrMalformedArgument},
		{"two-byte-simple-below-32", "f818", ErrMalformedArgument},
		{"short-argument", "19ff", ErrPrematureEnd},
		{"missing-argument", "18", ErrPrematureEnd},
		{"short-text", "6568656c", ErrPrematureEnd},
		{"short-bytes", "4401", ErrPrematureEnd},
		{"indefinite-bytes-no-break", "5f4101", ErrPrematureEnd},
		{"indefinite-text-no-break", "7f6161", ErrPrematureEnd},
		{"short-array", "8301", ErrPrematureEnd},
		{"short-map-value", "a2010203", ErrPrematureEnd},
		{"indefinite-array-no-break", "9f01", ErrPrematureEnd},
		{"indefinite-map-no-break", "bf0102", ErrPrematureEnd},
		{"tag-no-content", "c1", ErrPrematureEnd},
		{"chunk-wrong-major", "5f6161ff", ErrInvalidChunk},
		{"text-chunk-wrong-major", "7f4161ff", ErrInvalidChunk},
		{"nested-indefinite-chunk", "5f5f4101ffff", ErrInvalidChunk},
		{"invalid-utf8", "62c328", ErrInvalidUTF8},
		{"invalid-utf8-chunk", "7f61ffff", ErrInvalidUTF8},
		{"top-level-break", "ff", ErrUnexpectedBreak},
		{"break-in-definite-array", "82ff", ErrUnexpectedBreak},
		{"break-as-map-value", "bf01ff", ErrUnexpectedBreak},
		{"break-as-tag-content", "c1ff", ErrUnexpectedBreak},
		{"tag0-int", "c001", ErrInvalidTagContent},
		{"tag0-not-a-date", "c06161", ErrInvalidTagContent},
		{"tag1-text", "c16161", ErrInvalidTagContent},
		{"tag2-text", "c26161", ErrInvalidTagContent},
		{"tag3-array", "c380", ErrInvalidTagContent},
		{"tag2-indefinite", "c25f4101ff", ErrInvalidTagContent},
		{"tag-999", "d903e701", ErrUnsupportedTag},
		{"tag-32-uri", "d82076687474703a2f2f7777772e6578616d706c652e636f6d", ErrUnsupportedTag},
		{"empty", "", ErrPrematureEnd},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeHex(t, tc.hex)
			if err == nil {
				t.Fatalf("expected error for %s", tc.hex)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestArgumentBytes(t *testing.T) {
	cases := []struct {
		hex  string
		arg  string
		info uint8
	}{
		{"00", "00", 0},
		{"17", "17", 23},
		{"1818", "18", 24},
		{"1901f4", "01f4", 25},
		{"1a000f4240", "000f4240", 26},
		{"1b000000e8d4a51000", "000000e8d4a51000", 27},
		{"3903e7", "03e7", 25},
		{"f93c00", "3c00", 25},
		{"f5", "15", 21},
		{"9fff", "", 31},
		{"5fff", "", 31},
	}
	for _, tc := range cases {
		it, err := decodeHex(t, tc.hex)
		if err != nil {
			t.Fatalf("decode %s: %v", tc.hex, err)
		}
		if it.Info() != tc.info {
			t.Fatalf("%s: info %d want %d", tc.hex, it.Info(), tc.info)
		}
		if got := hex.EncodeToString(it.Argument()); got != tc.arg {
			t.Fatalf("%s: argument %s want %s", tc.hex, got, tc.arg)
		}
	}
}

func TestDecodeIndefiniteBytes(t *testing.T) {
	it, err := decodeHex(t, "5f42010243030405ff")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b, ok := it.Bytes()
	if !ok || !bytes.Equal(b, []byte{1, 2, 3, 4, 5}) {
		t.Fatalf("got %x (%v)", b, ok)
	}
	if !it.Indefinite() || it.Major() != MajorTypeBytes || len(it.Argument()) != 0 {
		t.Fatalf("header not preserved: major %v info %d arg %x", it.Major(), it.Info(), it.Argument())
	}
}

func TestDecodeEmptyIndefiniteStrings(t *testing.T) {
	it, err := decodeHex(t, "5fff")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b, ok := it.Bytes(); !ok || len(b) != 0 {
		t.Fatalf("got %x (%v)", b, ok)
	}
	it, err = decodeHex(t, "7f60ff")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s, ok := it.Text(); !ok || s != "" {
		t.Fatalf("got %q (%v)", s, ok)
	}
}

func TestDecodeIndefiniteArray(t *testing.T) {
	it, err := decodeHex(t, "9f0102ff")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	items, ok := it.Array()
	if !ok || len(items) != 2 {
		t.Fatalf("got %v (%v)", items, ok)
	}
	for i, want := range []uint64{1, 2} {
		if u, ok := items[i].Uint(); !ok || u != want {
			t.Fatalf("element %d: got %d want %d", i, u, want)
		}
	}
}

func TestDecodeLongString(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh"), 20000)
	enc := appendUintCore(nil, MajorTypeText, uint64(len(payload)))
	enc = append(enc, payload...)

	it, err := DecodeOne(bytes.NewReader(enc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s, ok := it.Text(); !ok || s != string(payload) {
		t.Fatalf("long text mismatch (len %d)", len(s))
	}

	_, err = DecodeOne(bytes.NewReader(enc[:len(enc)-1]))
	if !errors.Is(err, ErrPrematureEnd) {
		t.Fatalf("truncated long text: got %v", err)
	}
}

func TestDecodeBodyInvalidMajorType(t *testing.T) {
	d := NewDecoderBytes(nil)
	if _, err := d.decodeBody(MajorType(8), 0, 0); !errors.Is(err, ErrInvalidMajorType) {
		t.Fatalf("got %v", err)
	}
}

func TestSplitHeaderCoversAllBytes(t *testing.T) {
	for i := 0; i < 256; i++ {
		major, info := SplitHeader(byte(i))
		if major > MajorTypeSimple || info > 31 {
			t.Fatalf("byte %#x split into %d/%d", i, major, info)
		}
		if makeByte(major, info) != byte(i) {
			t.Fatalf("byte %#x does not reassemble", i)
		}
	}
}
