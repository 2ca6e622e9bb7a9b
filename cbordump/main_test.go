package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.cbor")
	require.NoError(t, os.WriteFile(path, []byte{0x83, 0x01, 0x02, 0x03, 0xf5}, 0o600))

	var stdout, stderr bytes.Buffer
	cli := &CLI{Input: path, Format: "diag", MaxDepth: 1024}
	require.NoError(t, run(cli, strings.NewReader(""), &stdout, &stderr))
	assert.Equal(t, "[1, 2, 3]\ntrue\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunFromStdinVerbose(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cli := &CLI{Input: "-", Hex: true, Format: "json", MaxDepth: 1024, Verbose: true}
	require.NoError(t, run(cli, strings.NewReader("c249010000000000000000\n"), &stdout, &stderr))
	assert.Equal(t, "\"18446744073709551616\"\n", stdout.String())
	assert.Contains(t, stderr.String(), "decoded item")
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cli := &CLI{Input: filepath.Join(t.TempDir(), "missing.cbor"), Format: "diag"}
	err := run(cli, strings.NewReader(""), &stdout, &stderr)
	assert.ErrorContains(t, err, "open input")
}
