// Package keystest provides throwaway key material for tests.
package keystest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/goliatone/go-usersig/keys"
)

// Algorithms lists every algorithm the keys package accepts.
var Algorithms = []string{
	keys.AlgorithmES256P256,
	keys.AlgorithmES256P384,
	keys.AlgorithmES256P521,
	keys.AlgorithmES256Secp256k1,
}

// Signer returns a fresh signer for algorithm.
func Signer(t testing.TB, algorithm string) keys.Signer {
	t.Helper()
	var curve elliptic.Curve
	switch algorithm {
	case keys.AlgorithmES256Secp256k1:
		key, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			t.Fatalf("keystest: generate secp256k1 key: %v", err)
		}
		signer, err := keys.NewSecp256k1Signer(key)
		if err != nil {
			t.Fatalf("keystest: wrap secp256k1 key: %v", err)
		}
		return signer
	case keys.AlgorithmES256P256:
		curve = elliptic.P256()
	case keys.AlgorithmES256P384:
		curve = elliptic.P384()
	case keys.AlgorithmES256P521:
		curve = elliptic.P521()
	default:
		t.Fatalf("keystest: unsupported algorithm %q", algorithm)
	}
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		t.Fatalf("keystest: generate ecdsa key: %v", err)
	}
	signer, err := keys.NewSigner(key)
	if err != nil {
		t.Fatalf("keystest: wrap ecdsa key: %v", err)
	}
	return signer
}

// PEM returns a fresh private/public PEM pair for algorithm.
func PEM(t testing.TB, algorithm string) ([]byte, []byte) {
	t.Helper()
	signer := Signer(t, algorithm)
	privatePEM, err := keys.MarshalPrivateKeyPEM(signer)
	if err != nil {
		t.Fatalf("keystest: marshal private key: %v", err)
	}
	publicPEM, err := keys.MarshalPublicKeyPEM(signer.Verifier())
	if err != nil {
		t.Fatalf("keystest: marshal public key: %v", err)
	}
	return privatePEM, publicPEM
}

// Material returns signing and verifying material for algorithm.
func Material(t testing.TB, algorithm string) keys.Material {
	t.Helper()
	signer := Signer(t, algorithm)
	return keys.Material{Signer: signer, Verifier: signer.Verifier()}
}
