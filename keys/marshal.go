package keys

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"

	"github.com/goliatone/go-usersig/sigerr"
)

// MarshalPrivateKeyPEM writes a signer's key as a SEC1 "EC PRIVATE KEY" block.
func MarshalPrivateKeyPEM(signer Signer) ([]byte, error) {
	var der []byte
	var err error
	switch s := signer.(type) {
	case *ecdsaSigner:
		der, err = x509.MarshalECPrivateKey(s.key)
	case *secp256k1Signer:
		point := s.key.PubKey().SerializeUncompressed()
		der, err = asn1.Marshal(ecPrivateKey{
			Version:       1,
			PrivateKey:    s.key.Serialize(),
			NamedCurveOID: oidCurveSecp256k1,
			PublicKey:     asn1.BitString{Bytes: point, BitLength: len(point) * 8},
		})
	default:
		return nil, sigerr.New(sigerr.TextCodeKey, "keys: signer does not expose its private key")
	}
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "keys: marshal private key failed")
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypeECPrivateKey, Bytes: der}), nil
}

// MarshalPublicKeyPEM writes a verifier's key as a PKIX "PUBLIC KEY" block.
func MarshalPublicKeyPEM(verifier Verifier) ([]byte, error) {
	var der []byte
	var err error
	switch v := verifier.(type) {
	case *ecdsaVerifier:
		der, err = x509.MarshalPKIXPublicKey(v.key)
	case *secp256k1Verifier:
		var params []byte
		params, err = asn1.Marshal(oidCurveSecp256k1)
		if err != nil {
			break
		}
		point := v.key.SerializeUncompressed()
		der, err = asn1.Marshal(subjectPublicKeyInfo{
			Algorithm: pkix.AlgorithmIdentifier{
				Algorithm:  oidPublicKeyECDSA,
				Parameters: asn1.RawValue{FullBytes: params},
			},
			PublicKey: asn1.BitString{Bytes: point, BitLength: len(point) * 8},
		})
	default:
		return nil, sigerr.New(sigerr.TextCodeKey, "keys: verifier does not expose its public key")
	}
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "keys: marshal public key failed")
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der}), nil
}
