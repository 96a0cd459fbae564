// Package content builds the canonical byte string that is signed for each
// credential kind. The signed field order is fixed: reordering these lists
// invalidates every credential already in circulation.
package content

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-usersig/sigerr"
)

// Field is a credential record key as it appears on the wire.
type Field string

const (
	FieldAccountType Field = "TLS.account_type"
	FieldIdentifier  Field = "TLS.identifier"
	FieldAppIDAt3rd  Field = "TLS.appid_at_3rd"
	FieldSDKAppID    Field = "TLS.sdk_appid"
	FieldExpireAfter Field = "TLS.expire_after"
	FieldVersion     Field = "TLS.version"
	FieldTime        Field = "TLS.time"
	FieldUserBuf     Field = "TLS.userbuf"
	FieldSig         Field = "TLS.sig"
)

var userSigFields = [...]Field{
	FieldAppIDAt3rd,
	FieldAccountType,
	FieldIdentifier,
	FieldSDKAppID,
	FieldTime,
	FieldExpireAfter,
}

var privateMapKeyFields = [...]Field{
	FieldAppIDAt3rd,
	FieldAccountType,
	FieldIdentifier,
	FieldSDKAppID,
	FieldTime,
	FieldExpireAfter,
	FieldUserBuf,
}

// UserSigFields returns the signed fields of a UserSig in signing order.
func UserSigFields() []Field {
	return append([]Field(nil), userSigFields[:]...)
}

// PrivateMapKeyFields returns the signed fields of a PrivateMapKey in signing order.
func PrivateMapKeyFields() []Field {
	return append([]Field(nil), privateMapKeyFields[:]...)
}

// Fields is the flat credential record.
type Fields map[Field]string

func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for key, value := range f {
		out[key] = value
	}
	return out
}

func (f Fields) Get(field Field) (string, bool) {
	value, ok := f[field]
	return value, ok
}

// Require fails with a missing-field error for the first absent field.
func (f Fields) Require(fields ...Field) error {
	for _, field := range fields {
		if _, ok := f[field]; !ok {
			return missingField(field)
		}
	}
	return nil
}

func BuildForUserSig(fields Fields) (string, error) {
	return build(fields, userSigFields[:])
}

func BuildForPrivateMapKey(fields Fields) (string, error) {
	return build(fields, privateMapKeyFields[:])
}

// build renders "key:value\n" for each field in order.
func build(fields Fields, order []Field) (string, error) {
	var sb strings.Builder
	for _, field := range order {
		value, ok := fields[field]
		if !ok {
			return "", missingField(field)
		}
		sb.WriteString(string(field))
		sb.WriteByte(':')
		sb.WriteString(value)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func missingField(field Field) error {
	err := sigerr.New(sigerr.TextCodeMissingField, fmt.Sprintf("content: json need %s", field))
	return sigerr.WithMetadata(err, map[string]any{"field": string(field)})
}
