package session

import (
	"errors"

	"github.com/google/uuid"
)

// maxCreateAttempts bounds id regeneration when a collision is detected.
const maxCreateAttempts = 5

var ErrIDExhausted = errors.New("session: could not allocate a unique id")

// GenerateID returns a random (version 4) UUID string.
func GenerateID() string {
	return uuid.NewString()
}
