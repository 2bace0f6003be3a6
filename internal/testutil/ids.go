package testutil

// ConstantIDGenerator returns the same id every time.
//
// Useful for exercising idempotent inserts, where a repeated id must leave
// the first row untouched.
//
// Thread-safety: ConstantIDGenerator is stateless and safe for concurrent use.
type ConstantIDGenerator struct {
	id string
}

// NewConstantIDGenerator creates a generator for id. An empty id becomes
// "test-id-default".
func NewConstantIDGenerator(id string) *ConstantIDGenerator {
	if id == "" {
		id = "test-id-default"
	}
	return &ConstantIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *ConstantIDGenerator) Generate() string {
	return g.id
}
