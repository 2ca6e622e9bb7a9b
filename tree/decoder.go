package cbor

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// byteSource is what the decoder needs from its input: bulk reads for
// string content and a one-byte lookahead for headers.
type byteSource interface {
	io.Reader
	io.ByteScanner
}

// Decoder reads a sequence of CBOR data items from an input stream.
type Decoder struct {
	r                byteSource
	maxDepth         int
	maxContainer     uint64
	allowUnknownTags bool
	err              error

	// aborted is set when an error leaves an array or map partially read;
	// the source is then not at an item boundary.
	aborted bool
}

// NewDecoder returns a Decoder reading from r. Readers that already
// implement io.ByteScanner (bufio.Reader, bytes.Reader, ...) are used
// directly; anything else is wrapped in a bufio.Reader, which may read
// ahead of the last decoded item.
func NewDecoder(r io.Reader) *Decoder {
	src, ok := r.(byteSource)
	if !ok {
		src = bufio.NewReader(r)
	}
	return &Decoder{r: src, maxDepth: defaultMaxDepth}
}

// NewDecoderBytes returns a Decoder over an in-memory buffer.
func NewDecoderBytes(b []byte) *Decoder {
	return NewDecoder(bytes.NewReader(b))
}

// SetMaxDepth bounds the nesting depth of arrays, maps and tags. Items
// nested deeper fail with ErrMaxDepthExceeded. A value of zero or less
// disables the limit.
func (d *Decoder) SetMaxDepth(depth int) { d.maxDepth = depth }

// SetMaxContainerLen configures an upper bound on declared lengths (byte
// strings, text strings, arrays, maps). A value of zero disables the limit.
// When exceeded, ErrContainerTooLarge is returned.
func (d *Decoder) SetMaxContainerLen(max uint64) { d.maxContainer = max }

// SetAllowUnknownTags controls how tag numbers other than 0..3 are handled.
// By default they fail with ErrUnsupportedTag after their content has been
// consumed; when allowed they decode as a TagKind item wrapping the
// content unchanged.
func (d *Decoder) SetAllowUnknownTags(allow bool) { d.allowUnknownTags = allow }

// More reports whether another item header is available. It peeks one byte
// and does not consume it.
func (d *Decoder) More() bool {
	if d.err != nil {
		return false
	}
	if _, err := d.r.ReadByte(); err != nil {
		return false
	}
	return d.r.UnreadByte() == nil
}

// Decode reads the next top-level item. It returns io.EOF when the source
// is exhausted before a header byte; end of input inside an item is
// reported as ErrPrematureEnd. After an error that is not Resumable the
// decoder keeps returning that error.
func (d *Decoder) Decode() (Item, error) {
	if d.err != nil {
		return Item{}, d.err
	}
	head, err := d.r.ReadByte()
	if err != nil {
		return Item{}, err
	}
	d.aborted = false
	it, err := d.decodeItem(head, 0)
	if err != nil {
		if d.aborted && Resumable(err) {
			err = errAborted{err}
		}
		if !Resumable(err) {
			d.err = err
		}
		return Item{}, err
	}
	return it, nil
}

// DecodeAll reads items until the source is exhausted. On failure it
// returns the items decoded before the failing one together with the error.
func (d *Decoder) DecodeAll() ([]Item, error) {
	var out []Item
	for {
		it, err := d.Decode()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, it)
	}
}

// DecodeOne decodes a single top-level item from r. An empty source
// produces ErrPrematureEnd.
func DecodeOne(r io.Reader) (Item, error) {
	it, err := NewDecoder(r).Decode()
	if errors.Is(err, io.EOF) {
		return Item{}, ErrPrematureEnd
	}
	return it, err
}

// DecodeAll decodes every top-level item in r, in source order.
func DecodeAll(r io.Reader) ([]Item, error) {
	return NewDecoder(r).DecodeAll()
}

// DecodeBytes decodes the first item in b and returns the bytes that follow
// it.
func DecodeBytes(b []byte) (Item, []byte, error) {
	br := bytes.NewReader(b)
	it, err := DecodeOne(br)
	if err != nil {
		return Item{}, b, err
	}
	return it, b[len(b)-br.Len():], nil
}
