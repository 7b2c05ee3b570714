package namehash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"unicode/utf8"
)

const (
	// The tool prints "<name>: 0x<hex>", so the identifier starts after the
	// prefix label, the dot, the suffix and ": ".
	windowOffset = 6
	// IdentifierLength covers the 0x lead plus 64 hex characters.
	IdentifierLength = 66
)

// ProcessHasher runs `<Path> domain <name>` for each lookup.
type ProcessHasher struct {
	path   string
	logger *slog.Logger
}

type Option func(*ProcessHasher)

func WithLogger(logger *slog.Logger) Option {
	return func(h *ProcessHasher) {
		h.logger = logger
	}
}

// NewProcessHasher returns a hasher backed by the executable at path.
func NewProcessHasher(path string, opts ...Option) *ProcessHasher {
	h := &ProcessHasher{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash invokes the executable and extracts the identifier from its output.
// The output layout is not validated; a short or malformed output yields a
// truncated identifier and the registry call decides what to do with it.
func (h *ProcessHasher) Hash(ctx context.Context, name string) (string, error) {
	cmd := exec.CommandContext(ctx, h.path, "domain", name)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(out) > 0 {
			h.logger.DebugContext(ctx, "hasher exited non-zero with output",
				"name", name,
				"exit_code", exitErr.ExitCode(),
			)
		} else {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return "", fmt.Errorf("%w: %s: %w: %s", ErrHasherFailed, name, err, msg)
			}
			return "", fmt.Errorf("%w: %s: %w", ErrHasherFailed, name, err)
		}
	}

	return Extract(decode(out), utf8.RuneCountInString(suffixOf(name))), nil
}

// Extract returns the characters [6+suffixLen, 72+suffixLen) of raw, clamped
// to the length of raw. It never fails.
func Extract(raw string, suffixLen int) string {
	runes := []rune(raw)
	start := windowOffset + suffixLen
	end := start + IdentifierLength
	if start > len(runes) {
		return ""
	}
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

// decode reads the process output as UTF-8, replacing invalid sequences.
func decode(out []byte) string {
	if utf8.Valid(out) {
		return string(out)
	}
	return strings.ToValidUTF8(string(out), string(utf8.RuneError))
}
