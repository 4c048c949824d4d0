package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// ParamsHash fingerprints a run configuration
type ParamsHash Hash

func (h ParamsHash) String() string { return Hash(h).String() }

// ComputeParamsHash produces a deterministic fingerprint of named
// run parameters. Keys are sorted so map iteration order cannot leak
// into the fingerprint.
func ComputeParamsHash(params map[string]interface{}) ParamsHash {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("%v", params[key]))
	}

	return ParamsHash(NewHash([]byte(data.String())))
}
