// Package keys provides ECDSA-SHA256 signing and verification over the key
// material a caller supplies. Keys are parsed from PEM (SEC1, PKCS#8 or PKIX)
// on the NIST curves or on secp256k1; signatures are ASN.1 DER encoded, the
// format OpenSSL emits.
package keys

import (
	"crypto/sha256"

	"github.com/goliatone/go-usersig/sigerr"
)

const (
	AlgorithmES256P256      = "ecdsa-p256-sha256"
	AlgorithmES256P384      = "ecdsa-p384-sha256"
	AlgorithmES256P521      = "ecdsa-p521-sha256"
	AlgorithmES256Secp256k1 = "ecdsa-secp256k1-sha256"
)

// Signer produces a DER ECDSA signature over the SHA-256 digest of content.
type Signer interface {
	Sign(content []byte) ([]byte, error)
	Algorithm() string
	// Verifier returns the verifier for the matching public key.
	Verifier() Verifier
}

// Verifier reports whether signature is a valid DER ECDSA signature over the
// SHA-256 digest of content. A malformed or non-matching signature is false,
// not an error; errors are reserved for key or backend failures.
type Verifier interface {
	Verify(content []byte, signature []byte) (bool, error)
	Algorithm() string
}

// Material is the capability set a credential service is constructed with.
// Either side may be nil.
type Material struct {
	Signer   Signer
	Verifier Verifier
}

// NewMaterial parses the PEM inputs. Either may be empty; when only the
// private key is given the verifier is derived from it.
func NewMaterial(privatePEM []byte, publicPEM []byte) (Material, error) {
	material := Material{}
	if len(privatePEM) > 0 {
		signer, err := ParsePrivateKeyPEM(privatePEM)
		if err != nil {
			return Material{}, err
		}
		material.Signer = signer
	}
	if len(publicPEM) > 0 {
		verifier, err := ParsePublicKeyPEM(publicPEM)
		if err != nil {
			return Material{}, err
		}
		material.Verifier = verifier
	}
	if material.Signer == nil && material.Verifier == nil {
		return Material{}, sigerr.New(sigerr.TextCodeKey, "keys: no key material supplied")
	}
	return material.withDerivedVerifier(), nil
}

func (m Material) CanSign() bool {
	return m.Signer != nil
}

func (m Material) CanVerify() bool {
	return m.Verifier != nil || m.Signer != nil
}

// ResolveVerifier returns the configured verifier, falling back to the one
// derived from the signer.
func (m Material) ResolveVerifier() Verifier {
	if m.Verifier != nil {
		return m.Verifier
	}
	if m.Signer != nil {
		return m.Signer.Verifier()
	}
	return nil
}

func (m Material) withDerivedVerifier() Material {
	if m.Verifier == nil && m.Signer != nil {
		m.Verifier = m.Signer.Verifier()
	}
	return m
}

func digest(content []byte) []byte {
	sum := sha256.Sum256(content)
	return sum[:]
}
