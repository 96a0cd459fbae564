package security

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/goliatone/go-usersig/sigerr"
)

const (
	envelopePrefix    = "usersig.key.v1:"
	envelopeAlgorithm = "aes-256-gcm"
)

type envelope struct {
	KeyID      string `json:"kid"`
	Version    int    `json:"ver"`
	Algorithm  string `json:"alg"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

type EnvelopeMetadata struct {
	KeyID     string
	Version   int
	Algorithm string
}

// ParseEnvelopeMetadata reads the key id and version of a sealed value
// without opening it.
func ParseEnvelopeMetadata(sealed []byte) (EnvelopeMetadata, error) {
	env, err := decodeEnvelope(sealed)
	if err != nil {
		return EnvelopeMetadata{}, err
	}
	return EnvelopeMetadata{
		KeyID:     env.KeyID,
		Version:   env.Version,
		Algorithm: env.Algorithm,
	}, nil
}

func encodeEnvelope(env envelope) ([]byte, error) {
	data, err := json.Marshal(normalizeEnvelope(env))
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeInternal, "security: encode envelope")
	}
	return append([]byte(envelopePrefix), data...), nil
}

func decodeEnvelope(sealed []byte) (envelope, error) {
	if len(sealed) == 0 {
		return envelope{}, sigerr.New(sigerr.TextCodeKey, "security: sealed value is required")
	}
	payload, ok := strings.CutPrefix(string(sealed), envelopePrefix)
	if !ok {
		return envelope{}, sigerr.New(sigerr.TextCodeKey, "security: invalid sealed envelope prefix")
	}

	parsed := envelope{}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return envelope{}, sigerr.Wrap(err, sigerr.TextCodeKey, "security: decode envelope")
	}
	parsed = normalizeEnvelope(parsed)
	if parsed.Algorithm != envelopeAlgorithm {
		return envelope{}, sigerr.New(sigerr.TextCodeKey, "security: unsupported envelope algorithm "+parsed.Algorithm)
	}
	if parsed.Ciphertext == "" || parsed.Nonce == "" {
		return envelope{}, sigerr.New(sigerr.TextCodeKey, "security: envelope ciphertext is required")
	}
	return parsed, nil
}

func normalizeEnvelope(in envelope) envelope {
	in.KeyID = strings.TrimSpace(in.KeyID)
	in.Algorithm = strings.ToLower(strings.TrimSpace(in.Algorithm))
	in.Nonce = strings.TrimSpace(in.Nonce)
	in.Ciphertext = strings.TrimSpace(in.Ciphertext)
	return in
}

func decodeField(value string, name string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "security: decode envelope "+name)
	}
	return decoded, nil
}
