// Package namespace enumerates the fixed set of candidate domain names
// scanned against the registry.
package namespace

import (
	"fmt"
	"iter"
)

const (
	// PrefixCount is the number of numeric labels, [0, PrefixCount).
	PrefixCount = 1000
	// PadWidth is the zero-padded width of every numeric label.
	PadWidth = 3
)

// Suffixes lists the top-level suffixes in scan order.
var Suffixes = []string{
	"888", "anime", "bitcoin", "blockchain", "coin", "crypto", "dao", "hi",
	"klever", "kresus", "manga", "nft", "polygon", "wallet", "x", "zil",
}

// Candidate is a single (prefix, suffix) pair to be looked up.
type Candidate struct {
	Prefix string
	Suffix string
}

// Name returns the full domain name, e.g. "007.crypto".
func (c Candidate) Name() string {
	return c.Prefix + "." + c.Suffix
}

func (c Candidate) String() string {
	return c.Name()
}

// PadPrefix formats n as a zero-padded label of PadWidth digits.
func PadPrefix(n int) string {
	return fmt.Sprintf("%0*d", PadWidth, n)
}

// Prefixes yields 0 through PrefixCount-1. Each range over the returned
// sequence starts again from zero.
func Prefixes() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range PrefixCount {
			if !yield(i) {
				return
			}
		}
	}
}

// Candidates yields every candidate, prefix-major and suffix-minor.
func Candidates() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for n := range Prefixes() {
			prefix := PadPrefix(n)
			for _, suffix := range Suffixes {
				if !yield(Candidate{Prefix: prefix, Suffix: suffix}) {
					return
				}
			}
		}
	}
}

// Total is the number of candidates Candidates yields.
func Total() int {
	return PrefixCount * len(Suffixes)
}
