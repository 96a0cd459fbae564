package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"io"

	"github.com/goliatone/go-usersig/sigerr"
)

type ecdsaSigner struct {
	key    *ecdsa.PrivateKey
	random io.Reader
}

type ecdsaVerifier struct {
	key *ecdsa.PublicKey
}

// NewSigner wraps a NIST-curve private key.
func NewSigner(key *ecdsa.PrivateKey) (Signer, error) {
	if key == nil || key.D == nil {
		return nil, sigerr.New(sigerr.TextCodeKey, "keys: ecdsa private key is required")
	}
	if algorithmForCurve(key.Curve) == "" {
		return nil, sigerr.New(sigerr.TextCodeKey, "keys: unsupported ecdsa curve")
	}
	return &ecdsaSigner{key: key, random: rand.Reader}, nil
}

// NewVerifier wraps a NIST-curve public key.
func NewVerifier(key *ecdsa.PublicKey) (Verifier, error) {
	if key == nil || key.X == nil || key.Y == nil {
		return nil, sigerr.New(sigerr.TextCodeKey, "keys: ecdsa public key is required")
	}
	if algorithmForCurve(key.Curve) == "" {
		return nil, sigerr.New(sigerr.TextCodeKey, "keys: unsupported ecdsa curve")
	}
	return &ecdsaVerifier{key: key}, nil
}

func (s *ecdsaSigner) Sign(content []byte) ([]byte, error) {
	signature, err := ecdsa.SignASN1(s.random, s.key, digest(content))
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeCryptoBackend, "keys: ecdsa sign failed")
	}
	return signature, nil
}

func (s *ecdsaSigner) Algorithm() string {
	return algorithmForCurve(s.key.Curve)
}

func (s *ecdsaSigner) Verifier() Verifier {
	return &ecdsaVerifier{key: &s.key.PublicKey}
}

func (v *ecdsaVerifier) Verify(content []byte, signature []byte) (bool, error) {
	if len(signature) == 0 {
		return false, nil
	}
	return ecdsa.VerifyASN1(v.key, digest(content), signature), nil
}

func (v *ecdsaVerifier) Algorithm() string {
	return algorithmForCurve(v.key.Curve)
}

func algorithmForCurve(curve elliptic.Curve) string {
	if curve == nil {
		return ""
	}
	switch curve.Params().Name {
	case "P-256":
		return AlgorithmES256P256
	case "P-384":
		return AlgorithmES256P384
	case "P-521":
		return AlgorithmES256P521
	default:
		return ""
	}
}
