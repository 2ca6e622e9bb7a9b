package cbor

import (
	"errors"
	bigmath "math/big"
	"strconv"
)

const resumableDefault = false

var (
	// ErrMalformedArgument is returned for reserved additional information
	// (28, 29, 30) or for additional information 31 where no argument can be
	// derived (major types 0, 1 and 6).
	ErrMalformedArgument error = errors.New("cbor: malformed argument")

	// ErrPrematureEnd is returned when the source ends before the item being
	// decoded is complete.
	ErrPrematureEnd error = errPrematureEnd{}

	// ErrInvalidUTF8 is returned when a text string contains invalid UTF-8
	ErrInvalidUTF8 error = errors.New("cbor: invalid UTF-8 in text string")

	// ErrInvalidMajorType is returned when the item decoder is handed a major
	// type outside 0..7. A 3-bit field cannot produce one, so seeing this
	// error means a caller built a header by hand.
	ErrInvalidMajorType error = errors.New("cbor: invalid major type")

	// ErrInvalidTagContent is returned when the content of a tag does not have
	// the shape its tag number requires.
	ErrInvalidTagContent error = errors.New("cbor: invalid tag content")

	// ErrUnsupportedTag is returned for tag numbers without a registered
	// interpretation.
	ErrUnsupportedTag error = errors.New("cbor: unsupported tag")

	// ErrInvalidChunk is returned when an indefinite-length string contains a
	// chunk that is not a definite-length string of the same major type.
	ErrInvalidChunk error = errors.New("cbor: invalid indefinite-length string chunk")

	// ErrUnexpectedBreak is returned when a break code appears where a data
	// item is required.
	ErrUnexpectedBreak error = errors.New("cbor: unexpected break code")

	// ErrMaxDepthExceeded is returned when nesting exceeds the decoder's depth limit
	ErrMaxDepthExceeded error = errors.New("cbor: max depth exceeded")

	// ErrContainerTooLarge is returned when a declared length exceeds the
	// decoder's configured limit.
	ErrContainerTooLarge error = errors.New("cbor: container too large")
)

// Error is the interface satisfied
// by all of the errors that originate
// from this package.
type Error interface {
	error

	// Resumable returns whether
	// or not the error leaves the source
	// positioned at the start of the next item.
	Resumable() bool
}

// contextError allows Error instances to be enhanced with additional
// context about their origin.
type contextError interface {
	Error

	// withContext must not modify the error instance - it must clone and
	// return a new error with the context added.
	withContext(ctx string) error
}

// Cause returns the underlying cause of an error that has been wrapped
// with additional context.
func Cause(e error) error {
	out := e
	for {
		switch w := out.(type) {
		case errWrapped:
			if w.cause == nil {
				return out
			}
			out = w.cause
		case errAborted:
			out = w.err
		default:
			return out
		}
	}
}

// Resumable returns whether or not the error leaves the source positioned
// at the start of the next item.
func Resumable(e error) bool {
	if e, ok := e.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// WrapError wraps an error with additional context that identifies the part
// of the item tree that caused the problem. Underlying errors can be
// retrieved using Cause() or errors.Is/As.
//
// The input error is not modified - a new error is returned.
func WrapError(err error, ctx ...any) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case contextError:
		return e.withContext(ctxString(ctx))
	case errWrapped:
		e.ctx = addCtx(e.ctx, ctxString(ctx))
		return e
	default:
		return errWrapped{cause: err, ctx: ctxString(ctx)}
	}
}

func ctxString(ctx []any) string {
	out := ""
	for idx, c := range ctx {
		if idx > 0 {
			out += "/"
		}
		switch v := c.(type) {
		case string:
			out += v
		case int:
			out += strconv.Itoa(v)
		case uint64:
			out += strconv.FormatUint(v, 10)
		default:
			out += "?"
		}
	}
	return out
}

func addCtx(ctx, add string) string {
	if ctx != "" {
		return add + "/" + ctx
	}
	return add
}

// errWrapped allows arbitrary errors passed to WrapError to be enhanced with
// context and unwrapped with Cause()
type errWrapped struct {
	cause error
	ctx   string
}

func (e errWrapped) Error() string {
	if e.ctx != "" {
		return e.cause.Error() + " at " + e.ctx
	}
	return e.cause.Error()
}

func (e errWrapped) Resumable() bool {
	if e, ok := e.cause.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// Unwrap returns the cause.
func (e errWrapped) Unwrap() error { return e.cause }

// errAborted marks an otherwise resumable error that was raised inside an
// array or map. The rest of the container is still unread.
type errAborted struct{ err error }

func (e errAborted) Error() string   { return e.err.Error() }
func (e errAborted) Resumable() bool { return false }
func (e errAborted) Unwrap() error   { return e.err }

type errPrematureEnd struct{}

func (e errPrematureEnd) Error() string   { return "cbor: premature end of input" }
func (e errPrematureEnd) Resumable() bool { return false }

// InvalidAdditionalInfoError is returned when the additional information of
// a header cannot produce an argument for its major type.
type InvalidAdditionalInfoError struct {
	Major MajorType
	Info  uint8
	ctx   string
}

// Error implements the error interface
func (e InvalidAdditionalInfoError) Error() string {
	out := "cbor: malformed argument: additional information " + strconv.Itoa(int(e.Info)) +
		" is not valid for major type " + strconv.Itoa(int(e.Major))
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Is reports whether target is ErrMalformedArgument.
func (e InvalidAdditionalInfoError) Is(target error) bool { return target == ErrMalformedArgument }

// Resumable returns 'false' for InvalidAdditionalInfoErrors
func (e InvalidAdditionalInfoError) Resumable() bool { return false }

func (e InvalidAdditionalInfoError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// InvalidChunkError is returned when a chunk inside an indefinite-length
// string is not a definite-length string of the enclosing major type.
type InvalidChunkError struct {
	Want MajorType
	Got  MajorType
	Info uint8
	ctx  string
}

// Error implements the error interface
func (e InvalidChunkError) Error() string {
	out := "cbor: indefinite-length " + e.Want.String() + " string contains a " + e.Got.String() + " chunk"
	if e.Got == e.Want && e.Info == addInfoIndefinite {
		out = "cbor: indefinite-length " + e.Want.String() + " string contains a nested indefinite-length chunk"
	}
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Is reports whether target is ErrInvalidChunk.
func (e InvalidChunkError) Is(target error) bool { return target == ErrInvalidChunk }

// Resumable returns 'false' for InvalidChunkErrors
func (e InvalidChunkError) Resumable() bool { return false }

func (e InvalidChunkError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// TagContentError is returned when the content of a tag does not have the
// shape required by its tag number.
type TagContentError struct {
	Tag    uint64    // the owning tag number
	Major  MajorType // major type of the content
	Info   uint8     // additional information of the content
	Reason string
	ctx    string
}

// Error implements the error interface
func (e TagContentError) Error() string {
	out := "cbor: invalid content for tag " + strconv.FormatUint(e.Tag, 10) +
		": major type " + strconv.Itoa(int(e.Major)) + ", additional information " + strconv.Itoa(int(e.Info))
	if e.Reason != "" {
		out += ": " + e.Reason
	}
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Is reports whether target is ErrInvalidTagContent.
func (e TagContentError) Is(target error) bool { return target == ErrInvalidTagContent }

// Resumable is always 'true' for TagContentErrors: the content item has
// been consumed in full before the check.
func (e TagContentError) Resumable() bool { return true }

func (e TagContentError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// UnsupportedTagError is returned for a tag number without a registered
// interpretation. The tag content has been consumed from the source.
type UnsupportedTagError struct {
	Tag uint64
	ctx string
}

// Error implements the error interface
func (e UnsupportedTagError) Error() string {
	out := "cbor: unsupported tag " + strconv.FormatUint(e.Tag, 10)
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Is reports whether target is ErrUnsupportedTag.
func (e UnsupportedTagError) Is(target error) bool { return target == ErrUnsupportedTag }

// Resumable is always 'true' for UnsupportedTagErrors
func (e UnsupportedTagError) Resumable() bool { return true }

func (e UnsupportedTagError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// IntOverflow is returned when an integer item does not fit in an int64.
type IntOverflow struct {
	Value *bigmath.Int // the exact value of the item
}

// Error implements the error interface
func (i IntOverflow) Error() string {
	return "cbor: " + i.Value.String() + " overflows int64"
}

// Resumable is always 'true' for overflows
func (i IntOverflow) Resumable() bool { return true }

// A TypeError is returned when an Item accessor is used on an item of a
// different kind.
type TypeError struct {
	Method  Kind // Kind expected by the accessor
	Encoded Kind // Kind actually held
}

// Error implements the error interface
func (t TypeError) Error() string {
	return "cbor: attempted to read " + quoteStr(t.Encoded.String()) + " item as " + quoteStr(t.Method.String())
}

// Resumable returns 'true' for TypeErrors
func (t TypeError) Resumable() bool { return true }

func quoteStr(s string) string {
	return strconv.Quote(s)
}
