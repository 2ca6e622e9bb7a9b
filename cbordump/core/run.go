package core

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	cbor "github.com/synadia-labs/cbortree/tree"
)

// Output formats.
const (
	FormatDiag = "diag"
	FormatJSON = "json"
	FormatHex  = "hex"
)

// Options configures how a dump runs.
type Options struct {
	// Hex treats the input as hexadecimal text; whitespace is ignored.
	Hex bool
	// Format selects the per-item rendering: diag, json or hex.
	Format string

	MaxDepth         int
	MaxContainerLen  uint64
	AllowUnknownTags bool

	// KeepGoing continues past failures that leave the input at the next
	// top-level item, such as an unsupported tag.
	KeepGoing bool

	// Logger receives diagnostics; nil means slog.Default().
	Logger *slog.Logger
}

// Stats summarizes a dump.
type Stats struct {
	Items   int
	Skipped int
}

// Run decodes every top-level item from in and writes one rendered item
// per line to out. Items decoded before a failure are written before the
// error is returned.
func Run(in io.Reader, out io.Writer, opts Options) (Stats, error) {
	var st Stats
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	render, err := renderer(opts.Format)
	if err != nil {
		return st, err
	}

	src := in
	if opts.Hex {
		raw, err := io.ReadAll(in)
		if err != nil {
			return st, fmt.Errorf("read input: %w", err)
		}
		b, err := hex.DecodeString(strings.Join(strings.Fields(string(raw)), ""))
		if err != nil {
			return st, fmt.Errorf("decode hex input: %w", err)
		}
		log.Debug("hex input decoded", "bytes", len(b))
		src = bytes.NewReader(b)
	}

	dec := cbor.NewDecoder(src)
	dec.SetMaxDepth(opts.MaxDepth)
	dec.SetMaxContainerLen(opts.MaxContainerLen)
	dec.SetAllowUnknownTags(opts.AllowUnknownTags)

	for idx := 0; ; idx++ {
		it, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			log.Debug("end of input", "items", st.Items, "skipped", st.Skipped)
			return st, nil
		}
		if err != nil {
			if opts.KeepGoing && cbor.Resumable(err) {
				log.Warn("skipping item", "index", idx, "error", err)
				st.Skipped++
				continue
			}
			return st, fmt.Errorf("item %d: %w", idx, err)
		}
		log.Debug("decoded item", "index", idx, "major", it.Major(), "kind", it.Kind())

		line := render(make([]byte, 0, 64), it)
		line = append(line, '\n')
		if _, err := out.Write(line); err != nil {
			return st, fmt.Errorf("write output: %w", err)
		}
		st.Items++
	}
}

func renderer(format string) (func([]byte, cbor.Item) []byte, error) {
	switch format {
	case "", FormatDiag:
		return cbor.AppendDiag, nil
	case FormatJSON:
		return cbor.AppendJSON, nil
	case FormatHex:
		return func(b []byte, it cbor.Item) []byte {
			return hex.AppendEncode(b, cbor.AppendItem(nil, it))
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
