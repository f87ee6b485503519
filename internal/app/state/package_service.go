package state

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"strings"
)

type PackageService struct {
	canonicalizer Canonicalizer
	hasher        Hasher
}

func NewPackageService(canonicalizer Canonicalizer, hasher Hasher) *PackageService {
	return &PackageService{canonicalizer: canonicalizer, hasher: hasher}
}

func (s *PackageService) Package(ctx context.Context, payload []byte) (Package, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return Package{}, ErrPayloadRequired
	}
	canonical, err := s.canonicalizer.Canonicalize(ctx, payload)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Package{}, ctxErr
		}
		return Package{}, fmt.Errorf("%w: %v", ErrPayloadNotSerializable, err)
	}
	return Package{
		Bundle:    payload,
		Canonical: canonical,
		Hash:      s.hasher.SumHex(canonical),
	}, nil
}

// Verify recomputes the content hash of payload and compares it with
// expected. A 0x prefix and upper case hex are accepted.
func (s *PackageService) Verify(ctx context.Context, payload []byte, expected string) (Verification, error) {
	normalized, err := NormalizeHash(expected)
	if err != nil {
		return Verification{}, err
	}
	pkg, err := s.Package(ctx, payload)
	if err != nil {
		return Verification{}, err
	}
	return Verification{
		Hash:     pkg.Hash,
		Expected: normalized,
		Match:    pkg.Hash == normalized,
	}, nil
}

func NormalizeHash(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.TrimPrefix(value, "0x")
	if value == "" {
		return "", ErrHashRequired
	}
	if len(value) != 64 {
		return "", ErrInvalidHash
	}
	if _, err := hex.DecodeString(value); err != nil {
		return "", ErrInvalidHash
	}
	return value, nil
}
