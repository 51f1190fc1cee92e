package schema

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"
)

// HashAlgorithm selects the digest behind message fingerprints.
type HashAlgorithm string

const (
	HashSHA1   HashAlgorithm = "sha1"
	HashBLAKE3 HashAlgorithm = "blake3"
)

// ParseHashAlgorithm accepts "sha1" or "blake3"; empty means sha1.
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	switch HashAlgorithm(s) {
	case "", HashSHA1:
		return HashSHA1, nil
	case HashBLAKE3:
		return HashBLAKE3, nil
	default:
		return "", fmt.Errorf("unknown fingerprint algorithm %q (want sha1 or blake3)", s)
	}
}

func (a HashAlgorithm) newHash() hash.Hash {
	if a == HashBLAKE3 {
		return blake3.New()
	}
	return sha1.New()
}

// Signature is the stable textual form of a field's type that goes into the
// fingerprint. Message fields carry their nested fingerprint so equal
// fingerprints imply equal structure at every depth.
func (f *FieldSpec) Signature() string {
	sig := string(f.Type)
	if f.Type == TypeMessage && f.Nested != nil {
		sig += ":" + f.Nested.Fingerprint
	}
	if f.Repeated {
		sig = "repeated " + sig
	}
	return sig
}

// Fingerprint digests the (name, signature) sequence of fields in order.
// Field numbers do not participate.
func Fingerprint(fields []*FieldSpec, alg HashAlgorithm) string {
	h := alg.newHash()
	for _, f := range fields {
		h.Write([]byte(f.Name))
		h.Write([]byte{0})
		h.Write([]byte(f.Signature()))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
