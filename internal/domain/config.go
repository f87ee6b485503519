package domain

import (
	"fmt"
	"strings"
)

type Network string

const (
	NetworkL2 Network = "l2"
	NetworkL1 Network = "l1"
)

const DefaultNetwork = NetworkL2

func (network Network) IsValid() bool {
	return network == NetworkL2 || network == NetworkL1
}

func ParseNetwork(value string) (Network, error) {
	parsed := Network(strings.ToLower(strings.TrimSpace(value)))
	if parsed == "" {
		return "", fmt.Errorf("%w: network is required", ErrInvalidNetwork)
	}
	if !parsed.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidNetwork, value)
	}
	return parsed, nil
}

const (
	DefaultGasLimit uint64 = 200000
)
