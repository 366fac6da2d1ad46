package testutil

import (
	"hub-go/internal/hub"
)

// TestDeps bundles deterministic collaborators for feature store tests.
type TestDeps struct {
	hub.Deps
	Clock *StubClock
	IDs   *StubIDGenerator
}

// NewTestDeps wires storage to a fixed clock, sequential ids and the JSON codec.
func NewTestDeps(storage hub.Storage) TestDeps {
	clock := FixedClock()
	ids := NewStubIDGenerator()
	return TestDeps{
		Deps: hub.Deps{
			Storage: storage,
			Codec:   hub.JSONCodec{},
			Logger:  hub.NewNopLogger(),
			Clock:   clock,
			IDs:     ids,
		},
		Clock: clock,
		IDs:   ids,
	}
}
