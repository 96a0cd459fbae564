package keys

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-usersig/sigerr"
)

const (
	pemTypeECParameters = "EC PARAMETERS"
	pemTypeECPrivateKey = "EC PRIVATE KEY"
	pemTypePrivateKey   = "PRIVATE KEY"
	pemTypePublicKey    = "PUBLIC KEY"
)

var (
	oidPublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidCurveSecp256k1 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// RFC 5915 / SEC1.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// RFC 5208.
type pkcs8PrivateKey struct {
	Version    int
	Algo       pkix.AlgorithmIdentifier
	PrivateKey []byte
}

// RFC 5280 SubjectPublicKeyInfo.
type subjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// ParsePrivateKeyPEM parses an EC private key in SEC1 ("EC PRIVATE KEY") or
// PKCS#8 ("PRIVATE KEY") form. A leading "EC PARAMETERS" block, as written
// by `openssl ecparam -genkey`, is skipped.
func ParsePrivateKeyPEM(data []byte) (Signer, error) {
	block, err := firstKeyBlock(data)
	if err != nil {
		return nil, err
	}

	switch block.Type {
	case pemTypeECPrivateKey:
		var parsed ecPrivateKey
		if _, err := asn1.Unmarshal(block.Bytes, &parsed); err != nil {
			return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "keys: invalid sec1 private key")
		}
		if parsed.NamedCurveOID.Equal(oidCurveSecp256k1) {
			return newSecp256k1Signer(parsed.PrivateKey)
		}
	case pemTypePrivateKey:
		var parsed pkcs8PrivateKey
		if _, err := asn1.Unmarshal(block.Bytes, &parsed); err != nil {
			return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "keys: invalid pkcs8 private key")
		}
		if !parsed.Algo.Algorithm.Equal(oidPublicKeyECDSA) {
			return nil, sigerr.New(sigerr.TextCodeKey, "keys: pkcs8 key is not an ecdsa key")
		}
		if curveOID(parsed.Algo).Equal(oidCurveSecp256k1) {
			var inner ecPrivateKey
			if _, err := asn1.Unmarshal(parsed.PrivateKey, &inner); err != nil {
				return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "keys: invalid pkcs8 ec private key")
			}
			return newSecp256k1Signer(inner.PrivateKey)
		}
	default:
		return nil, sigerr.New(sigerr.TextCodeKey, "keys: unsupported private key pem type "+block.Type)
	}

	key, err := jwt.ParseECPrivateKeyFromPEM(pem.EncodeToMemory(block))
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "keys: invalid ec private key")
	}
	return NewSigner(key)
}

// ParsePublicKeyPEM parses a PKIX ("PUBLIC KEY") EC public key or a
// certificate. Given a private key it returns the derived verifier.
func ParsePublicKeyPEM(data []byte) (Verifier, error) {
	block, err := firstKeyBlock(data)
	if err != nil {
		return nil, err
	}

	switch block.Type {
	case pemTypeECPrivateKey, pemTypePrivateKey:
		signer, err := ParsePrivateKeyPEM(pem.EncodeToMemory(block))
		if err != nil {
			return nil, err
		}
		return signer.Verifier(), nil
	case pemTypePublicKey:
		var parsed subjectPublicKeyInfo
		if _, err := asn1.Unmarshal(block.Bytes, &parsed); err != nil {
			return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "keys: invalid pkix public key")
		}
		if !parsed.Algorithm.Algorithm.Equal(oidPublicKeyECDSA) {
			return nil, sigerr.New(sigerr.TextCodeKey, "keys: public key is not an ecdsa key")
		}
		if curveOID(parsed.Algorithm).Equal(oidCurveSecp256k1) {
			return newSecp256k1Verifier(parsed.PublicKey.RightAlign())
		}
	}

	key, err := jwt.ParseECPublicKeyFromPEM(pem.EncodeToMemory(block))
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "keys: invalid ec public key")
	}
	return NewVerifier(key)
}

func firstKeyBlock(data []byte) (*pem.Block, error) {
	rest := data
	for {
		block, next := pem.Decode(rest)
		if block == nil {
			return nil, sigerr.New(sigerr.TextCodeKey, "keys: no pem key block found")
		}
		if block.Type != pemTypeECParameters {
			return block, nil
		}
		rest = next
	}
}

func curveOID(algorithm pkix.AlgorithmIdentifier) asn1.ObjectIdentifier {
	var oid asn1.ObjectIdentifier
	if len(algorithm.Parameters.FullBytes) == 0 {
		return nil
	}
	if _, err := asn1.Unmarshal(algorithm.Parameters.FullBytes, &oid); err != nil {
		return nil
	}
	return oid
}
