package credential

import (
	"context"
	"time"
)

type Validator interface {
	Validate(ctx context.Context, document []byte) error
}

type Marshaler interface {
	Marshal(ctx context.Context, value any) ([]byte, error)
}

type Hasher interface {
	SumHex(data []byte) string
}

type IDGenerator interface {
	NewID() (string, error)
}

type Clock interface {
	Now() time.Time
}
