package hub

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so feature logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// TimestampIDGenerator produces "<unix millis>-<8 hex chars>" ids.
// The random suffix keeps ids created within the same millisecond distinct.
type TimestampIDGenerator struct {
	Clock Clock
}

func (g TimestampIDGenerator) New() string {
	salt := uuid.New()
	return fmt.Sprintf("%d-%x", g.Clock.Now().UnixMilli(), salt[:4])
}

// NewIDGenerator returns the generator for a configured id format.
func NewIDGenerator(format string, clock Clock) (IDGenerator, error) {
	switch format {
	case "", "timestamp":
		return TimestampIDGenerator{Clock: clock}, nil
	case "uuid":
		return UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown id format: %q", format)
	}
}
