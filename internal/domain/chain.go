package domain

import "strings"

// ChainEndpoint identifies the RPC access point used for a single anchoring
// call. FallbackFromL2 is set when L1 was requested but resolved to the L2 URL.
type ChainEndpoint struct {
	Network        Network
	RPCURL         string
	FallbackFromL2 bool
}

// ChainConfig is read once at startup and never mutated afterwards.
type ChainConfig struct {
	L2RPCURL string
	L1RPCURL string
	StrictL1 bool
	Identity SigningIdentity
}

func (c ChainConfig) Endpoint(network Network) (ChainEndpoint, error) {
	l2 := strings.TrimSpace(c.L2RPCURL)
	switch network {
	case NetworkL2:
		return ChainEndpoint{Network: NetworkL2, RPCURL: l2}, nil
	case NetworkL1:
		l1 := strings.TrimSpace(c.L1RPCURL)
		if l1 != "" {
			return ChainEndpoint{Network: NetworkL1, RPCURL: l1}, nil
		}
		if c.StrictL1 {
			return ChainEndpoint{}, ErrL1NotConfigured
		}
		return ChainEndpoint{Network: NetworkL1, RPCURL: l2, FallbackFromL2: l2 != ""}, nil
	default:
		return ChainEndpoint{}, ErrInvalidNetwork
	}
}
