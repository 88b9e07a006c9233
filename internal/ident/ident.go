// Package ident provides the identity primitives shared by links and
// credentials: content hashes, sortable public ids, and short codes.
package ident

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/jaevor/go-nanoid"
	"github.com/oklog/ulid/v2"
)

// DefaultCodeLength is the short-code length used when none is configured.
const DefaultCodeLength = 6

const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ContentHash computes a SHA256 hash of the raw URL.
// Returns the hash as a hex-encoded string. Identical input always yields
// identical output; it is a dedup key, not a security primitive.
func ContentHash(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}

// NewPublicID returns a lowercased ULID. ULIDs are time-ordered, so ids
// generated later sort after earlier ones.
func NewPublicID() string {
	return strings.ToLower(ulid.Make().String())
}

// CodeGenerator produces random short codes. Codes are not unique by
// themselves; uniqueness is enforced by the caller on insert.
type CodeGenerator func() string

// NewCodeGenerator returns a generator of uniformly random alphanumeric
// codes of the given length.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	gen, err := nanoid.CustomASCII(codeAlphabet, length)
	if err != nil {
		return nil, err
	}

	return CodeGenerator(gen), nil
}
