package domain

import "github.com/google/uuid"

// GraphID identifies a graph within an editing session. It is opaque and
// assigned at construction, so commands can address graphs without ever
// parsing identity out of strings at execution time.
type GraphID string

// NewGraphID returns a fresh, globally unique graph id.
func NewGraphID() GraphID {
	return GraphID(uuid.NewString())
}

func (id GraphID) String() string { return string(id) }
