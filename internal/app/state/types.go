package state

// Package is a hash-only state bundle. Bundle is the request body as given.
type Package struct {
	Bundle    []byte
	Canonical []byte
	Hash      string
}

type Verification struct {
	Hash     string
	Expected string
	Match    bool
}
