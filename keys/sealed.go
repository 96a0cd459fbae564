package keys

import (
	"context"

	"github.com/goliatone/go-usersig/sigerr"
)

// SecretOpener decrypts key material stored at rest.
type SecretOpener interface {
	Open(ctx context.Context, sealed []byte) ([]byte, error)
}

// LoadSealedMaterial opens sealed PEM inputs with opener and parses them.
// Either input may be empty.
func LoadSealedMaterial(ctx context.Context, opener SecretOpener, sealedPrivate []byte, sealedPublic []byte) (Material, error) {
	if opener == nil {
		return Material{}, sigerr.New(sigerr.TextCodeKey, "keys: secret opener is required")
	}
	privatePEM, err := openIfPresent(ctx, opener, sealedPrivate, "private")
	if err != nil {
		return Material{}, err
	}
	publicPEM, err := openIfPresent(ctx, opener, sealedPublic, "public")
	if err != nil {
		return Material{}, err
	}
	return NewMaterial(privatePEM, publicPEM)
}

func openIfPresent(ctx context.Context, opener SecretOpener, sealed []byte, label string) ([]byte, error) {
	if len(sealed) == 0 {
		return nil, nil
	}
	opened, err := opener.Open(ctx, sealed)
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeKey, "keys: open sealed "+label+" key failed")
	}
	return opened, nil
}
