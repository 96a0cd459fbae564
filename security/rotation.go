package security

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-usersig/keys"
	"github.com/goliatone/go-usersig/sigerr"
)

// KeyRotationWindow gates when a key version is allowed to seal or open.
type KeyRotationWindow struct {
	NotBefore time.Time
	NotAfter  time.Time
}

func (w KeyRotationWindow) Allows(at time.Time) bool {
	ts := at.UTC()
	if !w.NotBefore.IsZero() && ts.Before(w.NotBefore.UTC()) {
		return false
	}
	if !w.NotAfter.IsZero() && ts.After(w.NotAfter.UTC()) {
		return false
	}
	return true
}

// KeyRing seals with the current sealer and opens with whichever sealer
// matches the envelope's key id and version, so values sealed under a
// retired application key stay readable until they are resealed.
type KeyRing struct {
	current *AppKeySealer
	sealers map[string]*AppKeySealer
}

func NewKeyRing(current *AppKeySealer, retired ...*AppKeySealer) (*KeyRing, error) {
	if current == nil {
		return nil, sigerr.New(sigerr.TextCodeKey, "security: current sealer is required")
	}
	ring := &KeyRing{
		current: current,
		sealers: map[string]*AppKeySealer{},
	}
	for _, sealer := range append([]*AppKeySealer{current}, retired...) {
		if sealer == nil {
			continue
		}
		id := ringKey(sealer.KeyID(), sealer.Version())
		if _, exists := ring.sealers[id]; exists {
			return nil, sigerr.New(sigerr.TextCodeKey, "security: duplicate sealer "+id)
		}
		ring.sealers[id] = sealer
	}
	return ring, nil
}

func (r *KeyRing) Seal(ctx context.Context, plaintext []byte) ([]byte, error) {
	return r.current.Seal(ctx, plaintext)
}

func (r *KeyRing) Open(ctx context.Context, sealed []byte) ([]byte, error) {
	meta, err := ParseEnvelopeMetadata(sealed)
	if err != nil {
		return nil, err
	}
	sealer, ok := r.sealers[ringKey(meta.KeyID, meta.Version)]
	if !ok {
		return nil, sigerr.New(sigerr.TextCodeKey, "security: no sealer for "+ringKey(meta.KeyID, meta.Version))
	}
	return sealer.Open(ctx, sealed)
}

// NeedsReseal reports whether sealed was produced by a sealer other than
// the current one.
func (r *KeyRing) NeedsReseal(sealed []byte) (bool, error) {
	meta, err := ParseEnvelopeMetadata(sealed)
	if err != nil {
		return false, err
	}
	return meta.KeyID != r.current.KeyID() || meta.Version != r.current.Version(), nil
}

func ringKey(keyID string, version int) string {
	return fmt.Sprintf("%s/v%d", keyID, version)
}

var _ keys.SecretOpener = (*KeyRing)(nil)
