package canonicaljson

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

var ErrEmptyInput = errors.New("json input is empty")

// ErrInexactNumber reports a number literal that an IEEE-754 double cannot
// hold, such as an integer above 2^53. Canonical form would silently round it.
var ErrInexactNumber = errors.New("json number is not exactly representable")

// Canonicalizer produces RFC 8785 canonical JSON: object names sorted at
// every level, no insignificant whitespace, numbers in ES6 form.
type Canonicalizer struct{}

func (Canonicalizer) Canonicalize(ctx context.Context, input []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(input)) == 0 {
		return nil, ErrEmptyInput
	}

	if err := checkNumbers(input); err != nil {
		return nil, err
	}
	value := jsontext.Value(append([]byte(nil), input...))
	if err := value.Canonicalize(); err != nil {
		return nil, fmt.Errorf("canonicalize json: %w", err)
	}

	return []byte(value), nil
}

// Marshal serializes an in-memory value and canonicalizes the result.
// Values without a JSON representation (channels, funcs, NaN, cycles) fail.
func (c Canonicalizer) Marshal(ctx context.Context, value any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(value, json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return c.Canonicalize(ctx, raw)
}

// checkNumbers walks every number literal of a JSON text and fails on the
// first one whose shortest float64 form denotes a different value.
func checkNumbers(input []byte) error {
	dec := jsontext.NewDecoder(bytes.NewReader(input))
	for {
		if dec.PeekKind() == '0' {
			literal, err := dec.ReadValue()
			if err != nil {
				return fmt.Errorf("canonicalize json: %w", err)
			}
			if err := exactNumber(string(literal)); err != nil {
				return err
			}
			continue
		}
		if _, err := dec.ReadToken(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("canonicalize json: %w", err)
		}
	}
}

func exactNumber(literal string) error {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInexactNumber, literal)
	}
	// Enough bits to tell apart any two decimals of this many digits.
	prec := uint(4*len(literal) + 64)
	want, _, err := big.ParseFloat(literal, 10, prec, big.ToNearestEven)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInexactNumber, literal)
	}
	got, _, err := big.ParseFloat(strconv.FormatFloat(f, 'g', -1, 64), 10, prec, big.ToNearestEven)
	if err != nil || want.Cmp(got) != 0 {
		return fmt.Errorf("%w: %s", ErrInexactNumber, literal)
	}
	return nil
}
