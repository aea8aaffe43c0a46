// Package keys implements the two lookup identities a bookmark can have: a
// deterministic content hash derived from its terminal URL and an optional
// randomly minted short alias.
package keys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"

	"github.com/balain/bkmrkr/internal/errors"
)

// Kind tells the store which column a lookup key targets.
type Kind int

const (
	KindHash Kind = iota
	KindAlias
)

const (
	// HashLength is the hex length of a sha256 digest.
	HashLength = 64
	// AliasLength keeps aliases short enough for a public path segment
	// while making collisions negligible (56^8 possibilities).
	AliasLength = 8
)

// Alphabet excludes ambiguous characters: 0, O, I, l, 1
const aliasAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnopqrstuvwxyz"

// ContentKey returns the hex sha256 digest of the terminal URL. It is a pure
// function: the same URL always yields the same key.
func ContentKey(terminalUrl string) string {
	digest := sha256.Sum256([]byte(terminalUrl))
	return hex.EncodeToString(digest[:])
}

// MintAlias generates a fixed-length alias from a cryptographically strong
// random source. Uniqueness is not checked anywhere: the alphabet and length
// make collisions negligible.
func MintAlias() (string, error) {
	b := make([]byte, AliasLength)
	alphabetLen := big.NewInt(int64(len(aliasAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		b[i] = aliasAlphabet[n.Int64()]
	}
	return string(b), nil
}

// KindOf dispatches a lookup key on its length alone: 64 characters is a
// content hash, 8 an alias. Character content is not inspected.
func KindOf(key string) (Kind, error) {
	switch len(key) {
	case HashLength:
		return KindHash, nil
	case AliasLength:
		return KindAlias, nil
	default:
		return 0, errors.ErrInvalidKey
	}
}
