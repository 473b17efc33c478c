package ens

import (
	"strings"

	"golang.org/x/crypto/sha3"
)

// Namehash computes the EIP-137 node hash for a domain name. Labels are
// lowercased before hashing; full UTS-46 normalization is the caller's
// concern.
func Namehash(domain string) [32]byte {
	var node [32]byte
	if domain == "" {
		return node
	}
	labels := strings.Split(strings.ToLower(domain), ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := keccak256([]byte(labels[i]))
		node = keccak256(append(node[:], labelHash[:]...))
	}
	return node
}

func keccak256(b []byte) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	copy(out[:], h.Sum(nil))
	return out
}
