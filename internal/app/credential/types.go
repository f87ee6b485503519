package credential

import "github.com/go-json-experiment/json/jsontext"

// Credential is a toy provenance record. Claims are carried as raw JSON so
// numbers keep their textual form until canonicalization.
type Credential struct {
	ID       string         `json:"id"`
	Issuer   string         `json:"issuer"`
	Subject  string         `json:"subject"`
	Claims   jsontext.Value `json:"claims"`
	IssuedAt string         `json:"issued_at"`
}

type Issued struct {
	Credential Credential
	Canonical  []byte
	Hash       string
}

type request struct {
	Issuer  string         `json:"issuer"`
	Subject string         `json:"subject"`
	Claims  jsontext.Value `json:"claims"`
}
