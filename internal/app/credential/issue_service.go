package credential

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"
)

//go:embed request.schema.json
var RequestSchema []byte

type IssueService struct {
	validator Validator
	marshaler Marshaler
	hasher    Hasher
	ids       IDGenerator
	clock     Clock
}

func NewIssueService(validator Validator, marshaler Marshaler, hasher Hasher, ids IDGenerator, clock Clock) *IssueService {
	return &IssueService{
		validator: validator,
		marshaler: marshaler,
		hasher:    hasher,
		ids:       ids,
		clock:     clock,
	}
}

func (s *IssueService) Issue(ctx context.Context, body []byte) (Issued, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Issued{}, ErrBodyRequired
	}
	if err := s.validator.Validate(ctx, body); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Issued{}, ctxErr
		}
		return Issued{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		return Issued{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	id, err := s.ids.NewID()
	if err != nil {
		return Issued{}, err
	}
	cred := Credential{
		ID:       id,
		Issuer:   req.Issuer,
		Subject:  req.Subject,
		Claims:   req.Claims,
		IssuedAt: s.clock.Now().UTC().Format(time.RFC3339),
	}

	canonical, err := s.marshaler.Marshal(ctx, cred)
	if err != nil {
		return Issued{}, fmt.Errorf("canonicalize credential: %w", err)
	}
	return Issued{
		Credential: cred,
		Canonical:  canonical,
		Hash:       s.hasher.SumHex(canonical),
	}, nil
}
