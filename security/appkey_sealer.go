package security

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goliatone/go-usersig/keys"
	"github.com/goliatone/go-usersig/sigerr"
)

type Option func(*AppKeySealer)

// AppKeySealer seals signing keys at rest with AES-GCM under an application key.
type AppKeySealer struct {
	key     []byte
	keyID   string
	version int
	window  KeyRotationWindow
	now     func() time.Time
	random  io.Reader
}

func WithKeyID(id string) Option {
	return func(sealer *AppKeySealer) {
		trimmed := strings.TrimSpace(id)
		if trimmed != "" {
			sealer.keyID = trimmed
		}
	}
}

func WithVersion(version int) Option {
	return func(sealer *AppKeySealer) {
		if version > 0 {
			sealer.version = version
		}
	}
}

// WithRotationWindow limits when the sealer may be used.
func WithRotationWindow(window KeyRotationWindow) Option {
	return func(sealer *AppKeySealer) {
		sealer.window = window
	}
}

func WithClock(now func() time.Time) Option {
	return func(sealer *AppKeySealer) {
		if now != nil {
			sealer.now = now
		}
	}
}

func NewAppKeySealer(keyMaterial []byte, opts ...Option) (*AppKeySealer, error) {
	key := bytes.TrimSpace(keyMaterial)
	if len(key) == 0 {
		return nil, sigerr.New(sigerr.TextCodeKey, "security: key material is required")
	}
	sealer := &AppKeySealer{
		key:     normalizeKey(key),
		keyID:   "app-key",
		version: 1,
		now:     func() time.Time { return time.Now().UTC() },
		random:  rand.Reader,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(sealer)
	}
	return sealer, nil
}

func NewAppKeySealerFromString(key string, opts ...Option) (*AppKeySealer, error) {
	return NewAppKeySealer([]byte(key), opts...)
}

func (s *AppKeySealer) Seal(_ context.Context, plaintext []byte) ([]byte, error) {
	if s == nil {
		return nil, sigerr.New(sigerr.TextCodeKey, "security: sealer is nil")
	}
	if len(plaintext) == 0 {
		return nil, sigerr.New(sigerr.TextCodeKey, "security: plaintext is required")
	}
	if err := s.checkWindow(); err != nil {
		return nil, err
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(s.random, nonce); err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeCryptoBackend, "security: nonce generation failed")
	}

	return encodeEnvelope(envelope{
		KeyID:      s.keyID,
		Version:    s.version,
		Algorithm:  envelopeAlgorithm,
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, plaintext, s.additionalData())),
	})
}

// Open implements keys.SecretOpener.
func (s *AppKeySealer) Open(_ context.Context, sealed []byte) ([]byte, error) {
	if s == nil {
		return nil, sigerr.New(sigerr.TextCodeKey, "security: sealer is nil")
	}
	parsed, err := decodeEnvelope(sealed)
	if err != nil {
		return nil, err
	}
	if parsed.KeyID != s.keyID {
		return nil, sigerr.New(sigerr.TextCodeKey, fmt.Sprintf("security: key id mismatch: got %q want %q", parsed.KeyID, s.keyID))
	}
	if parsed.Version != s.version {
		return nil, sigerr.New(sigerr.TextCodeKey, fmt.Sprintf("security: key version mismatch: got %d want %d", parsed.Version, s.version))
	}
	if err := s.checkWindow(); err != nil {
		return nil, err
	}

	nonce, err := decodeField(parsed.Nonce, "nonce")
	if err != nil {
		return nil, err
	}
	payload, err := decodeField(parsed.Ciphertext, "ciphertext")
	if err != nil {
		return nil, err
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, sigerr.New(sigerr.TextCodeKey, "security: invalid nonce size")
	}
	plaintext, err := gcm.Open(nil, nonce, payload, s.additionalData())
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "security: open sealed payload")
	}
	return plaintext, nil
}

func (s *AppKeySealer) KeyID() string {
	if s == nil {
		return ""
	}
	return s.keyID
}

func (s *AppKeySealer) Version() int {
	if s == nil {
		return 0
	}
	return s.version
}

func (s *AppKeySealer) checkWindow() error {
	if !s.window.Allows(s.now()) {
		return sigerr.New(sigerr.TextCodeKey, fmt.Sprintf("security: key %s v%d is outside its rotation window", s.keyID, s.version))
	}
	return nil
}

func (s *AppKeySealer) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeCryptoBackend, "security: create cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeCryptoBackend, "security: create gcm")
	}
	return gcm, nil
}

// additionalData binds the ciphertext to the key id and version.
func (s *AppKeySealer) additionalData() []byte {
	return []byte(fmt.Sprintf("%s:%d", s.keyID, s.version))
}

func normalizeKey(value []byte) []byte {
	if len(value) == 16 || len(value) == 24 || len(value) == 32 {
		key := make([]byte, len(value))
		copy(key, value)
		return key
	}
	sum := sha256.Sum256(value)
	return sum[:]
}

var _ keys.SecretOpener = (*AppKeySealer)(nil)
