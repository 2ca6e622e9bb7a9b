package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/synadia-labs/cbortree/cbordump/core"
)

// CLI defines the cbordump command-line interface.
//
//   - input: CBOR file, or "-" for stdin
//   - format: how each top-level item is printed
//   - limits: nesting depth and declared lengths accepted by the decoder
type CLI struct {
	Input            string `arg:"" optional:"" default:"-" help:"Input file containing a CBOR sequence (\"-\" for stdin)"`
	Hex              bool   `short:"x" help:"Input is hexadecimal text"`
	Format           string `short:"f" enum:"diag,json,hex" default:"diag" help:"Output format (diag, json, hex)"`
	MaxDepth         int    `default:"1024" help:"Maximum nesting depth (0 disables the limit)"`
	MaxContainerLen  uint64 `help:"Maximum declared string, array or map length (0 disables the limit)"`
	AllowUnknownTags bool   `help:"Pass through tags other than 0-3 instead of failing"`
	KeepGoing        bool   `short:"k" help:"Continue after failures that leave the input at the next item"`
	Verbose          bool   `short:"v" help:"Enable verbose diagnostics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cbordump"),
		kong.Description("Decode a CBOR sequence and print each item."),
	)

	if err := run(&cli, os.Stdin, os.Stdout, os.Stderr); err != nil {
		ctx.FatalIfErrorf(err)
	}
}

func run(cli *CLI, stdin io.Reader, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	in := stdin
	input := strings.TrimSpace(cli.Input)
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}
	logger.Debug("reading", "input", input, "hex", cli.Hex, "format", cli.Format)

	_, err := core.Run(in, stdout, core.Options{
		Hex:              cli.Hex,
		Format:           cli.Format,
		MaxDepth:         cli.MaxDepth,
		MaxContainerLen:  cli.MaxContainerLen,
		AllowUnknownTags: cli.AllowUnknownTags,
		KeepGoing:        cli.KeepGoing,
		Logger:           logger,
	})
	return err
}
