package namehash

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Namehash computes the EIP-137 namehash of name. The empty name hashes to
// 32 zero bytes; labels are folded in from the right.
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256Hash(node.Bytes(), label)
	}
	return node
}

// FormatLine renders the "<name>: 0x<hex>" line printed by the namehash tool.
func FormatLine(name string) string {
	return fmt.Sprintf("%s: %s", name, Namehash(name).Hex())
}

// NativeHasher computes identifiers without spawning a process.
type NativeHasher struct{}

func (NativeHasher) Hash(_ context.Context, name string) (string, error) {
	return Namehash(name).Hex(), nil
}
