package keys

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/goliatone/go-usersig/sigerr"
)

// secp256k1 signatures are RFC 6979 deterministic; no random source is used.
type secp256k1Signer struct {
	key *secp256k1.PrivateKey
}

type secp256k1Verifier struct {
	key *secp256k1.PublicKey
}

func newSecp256k1Signer(scalar []byte) (Signer, error) {
	if len(scalar) == 0 || len(scalar) > 32 {
		return nil, sigerr.New(sigerr.TextCodeKey, "keys: invalid secp256k1 private scalar length")
	}
	return NewSecp256k1Signer(secp256k1.PrivKeyFromBytes(scalar))
}

// NewSecp256k1Signer wraps a secp256k1 private key.
func NewSecp256k1Signer(key *secp256k1.PrivateKey) (Signer, error) {
	if key == nil || key.Key.IsZero() {
		return nil, sigerr.New(sigerr.TextCodeKey, "keys: secp256k1 private key is required")
	}
	return &secp256k1Signer{key: key}, nil
}

// NewSecp256k1Verifier wraps a secp256k1 public key.
func NewSecp256k1Verifier(key *secp256k1.PublicKey) (Verifier, error) {
	if key == nil {
		return nil, sigerr.New(sigerr.TextCodeKey, "keys: secp256k1 public key is required")
	}
	return &secp256k1Verifier{key: key}, nil
}

func newSecp256k1Verifier(point []byte) (Verifier, error) {
	key, err := secp256k1.ParsePubKey(point)
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "keys: invalid secp256k1 public key")
	}
	return &secp256k1Verifier{key: key}, nil
}

func (s *secp256k1Signer) Sign(content []byte) ([]byte, error) {
	return dcrecdsa.Sign(s.key, digest(content)).Serialize(), nil
}

func (s *secp256k1Signer) Algorithm() string {
	return AlgorithmES256Secp256k1
}

func (s *secp256k1Signer) Verifier() Verifier {
	return &secp256k1Verifier{key: s.key.PubKey()}
}

func (v *secp256k1Verifier) Verify(content []byte, signature []byte) (bool, error) {
	parsed, err := dcrecdsa.ParseDERSignature(signature)
	if err != nil {
		return false, nil
	}
	return parsed.Verify(digest(content), v.key), nil
}

func (v *secp256k1Verifier) Algorithm() string {
	return AlgorithmES256Secp256k1
}
