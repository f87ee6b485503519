package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrDocumentInvalid = errors.New("document does not match schema")

// Validator holds one compiled JSON Schema. It is safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

func Compile(name string, schema []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

func MustCompile(name string, schema []byte) *Validator {
	validator, err := Compile(name, schema)
	if err != nil {
		panic(err)
	}
	return validator
}

func (v *Validator) Validate(ctx context.Context, document []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := unmarshalJSON(bytes.NewReader(document))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}
	if err := v.schema.Validate(value); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", ErrDocumentInvalid, leafMessage(verr))
		}
		return fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}
	return nil
}

// unmarshalJSON decodes a document the way jsonschema/v5 expects:
// json.UseNumber for number precision, rejecting trailing data.
func unmarshalJSON(r io.Reader) (any, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, errors.New("invalid character after top-level value")
	}
	return value, nil
}

// leafMessage reports the first concrete failure rather than the
// "doesn't validate with" wrapper at the root.
func leafMessage(err *jsonschema.ValidationError) string {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	location := err.InstanceLocation
	if location == "" {
		location = "/"
	}
	return fmt.Sprintf("%s: %s", location, err.Message)
}
