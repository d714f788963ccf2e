package postgresadapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quad/contexts/moderation-safety/moderation-service/ports"
)

// SystemClock reads wall-clock UTC time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator issues time-ordered UUID v7 identifiers so primary keys
// cluster by insertion order.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
