package domain

import (
	"fmt"
	"log/slog"
	"strings"
)

// SigningIdentity authorizes anchor transactions. The private key must only
// ever reach the signer adapter.
type SigningIdentity struct {
	Address    string
	PrivateKey string
}

func (id SigningIdentity) IsComplete() bool {
	return strings.TrimSpace(id.Address) != "" && strings.TrimSpace(id.PrivateKey) != ""
}

func (id SigningIdentity) String() string {
	return id.Address
}

// GoString keeps %#v from printing the key.
func (id SigningIdentity) GoString() string {
	return fmt.Sprintf("domain.SigningIdentity{Address:%q}", id.Address)
}

func (id SigningIdentity) LogValue() slog.Value {
	return slog.GroupValue(slog.String("address", id.Address))
}
