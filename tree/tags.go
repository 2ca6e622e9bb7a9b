package cbor

import (
	bigmath "math/big"
	"strconv"
	"time"
)

// readTag decodes a tag header and its content. The content is always
// decoded in full before the tag number is interpreted, so a failure for an
// unsupported tag or malformed content leaves the source at the next item.
func (d *Decoder) readTag(info uint8, depth int) (Item, error) {
	arg, err := d.readArgument(MajorTypeTag, info)
	if err != nil {
		return Item{}, err
	}
	num := argumentUint(arg)
	ctx := "tag " + strconv.FormatUint(num, 10)

	content, err := d.readRequired(depth + 1)
	if err != nil {
		return Item{}, WrapError(err, ctx)
	}
	content, err = d.interpretTag(num, content)
	if err != nil {
		return Item{}, err
	}
	return Item{major: MajorTypeTag, info: info, arg: arg, kind: TagKind, bits: num, tag: &content}, nil
}

// interpretTag checks the content of a registered tag and returns the
// content item to store under the tag.
func (d *Decoder) interpretTag(num uint64, c Item) (Item, error) {
	switch num {
	case tagDateTimeString:
		if c.kind != TextKind || c.Indefinite() {
			return Item{}, tagContentError(num, c, "expected definite-length text string")
		}
		if _, err := time.Parse(time.RFC3339Nano, c.text); err != nil {
			return Item{}, tagContentError(num, c, "not an RFC 3339 date/time")
		}
		return c, nil

	case tagEpochDateTime:
		switch c.kind {
		case UintKind, NegIntKind, Float32Kind, Float64Kind:
			return c, nil
		}
		return Item{}, tagContentError(num, c, "expected integer or float")

	case tagPosBignum, tagNegBignum:
		if c.kind != BytesKind || c.Indefinite() {
			return Item{}, tagContentError(num, c, "expected definite-length byte string")
		}
		z := new(bigmath.Int).SetBytes(c.data)
		if num == tagNegBignum {
			z.Neg(z)
		}
		c.kind = BigIntKind
		c.big = z
		return c, nil

	default:
		if d.allowUnknownTags {
			return c, nil
		}
		return Item{}, UnsupportedTagError{Tag: num}
	}
}

func tagContentError(num uint64, c Item, reason string) error {
	return TagContentError{Tag: num, Major: c.major, Info: c.info, Reason: reason}
}
