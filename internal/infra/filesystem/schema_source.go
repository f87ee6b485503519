package filesystem

import (
	"context"
	"fmt"
	"os"
)

// SchemaSource loads JSON Schema documents that override the embedded ones.
type SchemaSource struct{}

func (SchemaSource) ReadSchema(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return data, nil
}
