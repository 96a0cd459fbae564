// Package core contains the credential service: issuance and verification of
// UserSig and PrivateMapKey values over caller-supplied key material. Lower
// level packages (codec, record, content, keys) must not depend on core.
package core
