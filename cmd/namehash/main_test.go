package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udscan/internal/namehash"
)

const (
	ethLine    = "eth: 0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae"
	fooEthLine = "foo.eth: 0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f"
)

func TestRunDomain(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"domain", "foo.eth"}, &out, &errOut)

	assert.Equal(t, 0, code)
	assert.Equal(t, fooEthLine+"\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestRunUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run(nil, &out, &errOut))
	assert.Equal(t, 2, run([]string{"domain"}, &out, &errOut))
	assert.Equal(t, 2, run([]string{"hash", "eth"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "Usage:")
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "domains.txt")
	require.NoError(t, os.WriteFile(input, []byte("eth\nfoo.eth\n"), 0o644))

	t.Run("writes to stdout", func(t *testing.T) {
		var out, errOut bytes.Buffer
		code := run([]string{"file", input}, &out, &errOut)

		assert.Equal(t, 0, code)
		assert.Equal(t, ethLine+"\n"+fooEthLine+"\n", out.String())
	})

	t.Run("writes to an output file in a new directory", func(t *testing.T) {
		output := filepath.Join(dir, "nested", "hashes.txt")
		var out, errOut bytes.Buffer
		code := run([]string{"file", input, "-o", output}, &out, &errOut)

		assert.Equal(t, 0, code)
		assert.Empty(t, out.String())
		got, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, ethLine+"\n"+fooEthLine+"\n", string(got))
	})

	t.Run("accepts the flag before the input", func(t *testing.T) {
		output := filepath.Join(dir, "before.txt")
		var out, errOut bytes.Buffer
		code := run([]string{"file", "--output", output, input}, &out, &errOut)

		assert.Equal(t, 0, code)
		_, err := os.Stat(output)
		assert.NoError(t, err)
	})

	t.Run("skips lines that are not utf-8 and keeps going", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.txt")
		require.NoError(t, os.WriteFile(bad, []byte("eth\n\xff\xfe\nfoo.eth\n"), 0o644))
		var out, errOut bytes.Buffer
		code := run([]string{"file", bad}, &out, &errOut)

		assert.Equal(t, 0, code)
		assert.Equal(t, ethLine+"\n"+fooEthLine+"\n", out.String())
		assert.Equal(t, "Error: stream did not contain valid UTF-8\n", errOut.String())
	})

	t.Run("handles long lines, crlf and a missing final newline", func(t *testing.T) {
		long := strings.Repeat("a", 70000) + ".eth"
		in := filepath.Join(dir, "long.txt")
		require.NoError(t, os.WriteFile(in, []byte(long+"\r\nfoo.eth"), 0o644))
		var out, errOut bytes.Buffer
		code := run([]string{"file", in}, &out, &errOut)

		assert.Equal(t, 0, code)
		assert.Empty(t, errOut.String())
		lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, namehash.FormatLine(long), lines[0])
		assert.Equal(t, fooEthLine, lines[1])
	})

	t.Run("missing input fails", func(t *testing.T) {
		var out, errOut bytes.Buffer
		code := run([]string{"file", filepath.Join(dir, "absent.txt")}, &out, &errOut)

		assert.Equal(t, 1, code)
		assert.Contains(t, errOut.String(), "Error:")
	})
}
