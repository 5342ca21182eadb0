package id

import (
	"strings"

	"github.com/google/uuid"
)

const (
	RequestPrefix = "IRC-Sol-"
	SessionPrefix = "IRC-Ses-"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// Prefixed yields identifiers like "IRC-Sol-3f9a1c2", the shape already used
// by rows in the facility spreadsheet.
type Prefixed struct {
	Prefix string
}

func (p Prefixed) New() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return p.Prefix + raw[:7]
}
