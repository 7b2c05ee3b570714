// Package namehash turns candidate domain names into registry identifiers.
//
// ProcessHasher shells out to the external namehash executable and slices its
// output. NativeHasher computes the same EIP-137 namehash in-process.
package namehash

import (
	"errors"
	"strings"
)

// ErrHasherFailed is returned when the external hasher could not produce output.
var ErrHasherFailed = errors.New("namehash: hasher failed")

// suffixOf returns the text after the last dot, or the whole name when it has none.
func suffixOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
