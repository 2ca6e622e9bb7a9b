package cbor

import (
	"errors"
	"math/big"
	"testing"
	"time"
)

func TestBignumTag2(t *testing.T) {
	it, err := decodeHex(t, "c2420100")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n, ok := it.TagNumber(); !ok || n != 2 {
		t.Fatalf("tag %d (%v)", n, ok)
	}
	c, ok := it.Content()
	if !ok || c.Kind() != BigIntKind {
		t.Fatalf("content kind %v", c.Kind())
	}
	z, ok := c.BigInt()
	if !ok || z.Cmp(big.NewInt(256)) != 0 {
		t.Fatalf("got %v", z)
	}
	if b, _ := c.Bytes(); len(b) != 2 || b[0] != 1 || b[1] != 0 {
		t.Fatalf("raw magnitude %x", b)
	}
}

func TestBignumTag3IsNegatedMagnitude(t *testing.T) {
	cases := []struct {
		hex  string
		want string
	}{
		{"c3420100", "-256"},
		{"c34101", "-1"},
		{"c340", "0"},
		{"c349010000000000000000", "-18446744073709551616"},
	}
	for _, tc := range cases {
		it, err := decodeHex(t, tc.hex)
		if err != nil {
			t.Fatalf("decode %s: %v", tc.hex, err)
		}
		c, _ := it.Content()
		z, ok := c.BigInt()
		if !ok || z.String() != tc.want {
			t.Fatalf("%s: got %v want %s", tc.hex, z, tc.want)
		}
	}
}

func TestBignumLeadingZeros(t *testing.T) {
	it, err := decodeHex(t, "c243000001")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	c, _ := it.Content()
	if z, _ := c.BigInt(); z.Int64() != 1 {
		t.Fatalf("got %v", z)
	}
	// The wire form is kept, so the item re-encodes byte for byte.
	if got := AppendItem(nil, it); string(got) != string(mustHex(t, "c243000001")) {
		t.Fatalf("re-encoded %x", got)
	}
}

func TestTagDateTimeString(t *testing.T) {
	it, err := decodeHex(t, "c074323031332d30332d32315432303a30343a30305a")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tm, err := it.Time()
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	want := time.Date(2013, 3, 21, 20, 4, 0, 0, time.UTC)
	if !tm.Equal(want) {
		t.Fatalf("got %v want %v", tm, want)
	}
}

func TestTagEpochDateTime(t *testing.T) {
	cases := []struct {
		hex  string
		want time.Time
	}{
		{"c11a514b67b0", time.Unix(1363896240, 0)},
		{"c1fb41d452d9ec200000", time.Unix(1363896240, 500000000)},
		{"c120", time.Unix(-1, 0)},
		{"c1f93c00", time.Unix(1, 0)},
	}
	for _, tc := range cases {
		it, err := decodeHex(t, tc.hex)
		if err != nil {
			t.Fatalf("decode %s: %v", tc.hex, err)
		}
		tm, err := it.Time()
		if err != nil {
			t.Fatalf("%s: Time: %v", tc.hex, err)
		}
		if !tm.Equal(tc.want) {
			t.Fatalf("%s: got %v want %v", tc.hex, tm, tc.want)
		}
	}
}

func TestTagEpochOutOfRange(t *testing.T) {
	it, err := decodeHex(t, "c1fb7ff8000000000000")
	if err != nil {
		t.Fatalf("NaN content is a float and decodes: %v", err)
	}
	if _, err := it.Time(); !errors.Is(err, ErrInvalidTagContent) {
		t.Fatalf("got %v", err)
	}

	it, err = decodeHex(t, "c11bffffffffffffffff")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var ov IntOverflow
	if _, err := it.Time(); !errors.As(err, &ov) {
		t.Fatalf("got %v", err)
	}
}

func TestTimeOnNonTagItem(t *testing.T) {
	it, err := decodeHex(t, "01")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var te TypeError
	if _, err := it.Time(); !errors.As(err, &te) {
		t.Fatalf("got %v", err)
	}
}

func TestUnsupportedTagConsumesContent(t *testing.T) {
	d := NewDecoderBytes(mustHex(t, "d903e7a16161bf616201ff"+"f6"))
	_, err := d.Decode()
	var ue UnsupportedTagError
	if !errors.As(err, &ue) || ue.Tag != 999 {
		t.Fatalf("got %v", err)
	}
	it, err := d.Decode()
	if err != nil || !it.IsNull() {
		t.Fatalf("next item: %v, %v", it, err)
	}
}

func TestTagContentErrorDetails(t *testing.T) {
	_, err := decodeHex(t, "c26161")
	var te TagContentError
	if !errors.As(err, &te) {
		t.Fatalf("got %T %v", err, err)
	}
	if te.Tag != 2 || te.Major != MajorTypeText || te.Info != 1 {
		t.Fatalf("got %+v", te)
	}
	if !Resumable(err) {
		t.Fatalf("tag content errors leave the source at the next item")
	}
}

func TestNestedTagErrorContext(t *testing.T) {
	_, err := decodeHex(t, "d903e71c")
	if !errors.Is(err, ErrMalformedArgument) {
		t.Fatalf("got %v", err)
	}
	if got := err.Error(); got != "cbor: malformed argument: additional information 28 is not valid for major type 0 at tag 999" {
		t.Fatalf("got %q", got)
	}
}
