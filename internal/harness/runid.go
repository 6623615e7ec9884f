package harness

import (
	"github.com/google/uuid"
)

// RunIDGenerator produces identifiers for scenario runs.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedRunIDGenerator returns the same id every time, for golden output.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a fixed generator.
// If id is empty, Generate returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
