package custodytest

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// NewSerial returns a random request serial. Serials only have to be
// unique within a project, so a random 64 bit value is good enough
// for tests that do not care about the exact number.
func NewSerial() uint64 {
	u := uuid.New()
	return binary.BigEndian.Uint64(u[:8])
}
