package keyword

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashKeyword hashes a plaintext keyword with bcrypt so deployments can
// configure SECRET_KEYWORD_HASH instead of the plaintext secret.
func HashKeyword(keyword string) (string, error) {
	if keyword == "" {
		return "", errors.New("keyword must not be empty")
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(keyword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

// matcher compares a candidate against the configured secret.
type matcher interface {
	match(candidate string) bool
}

type plainMatcher []byte

func (p plainMatcher) match(candidate string) bool {
	return subtle.ConstantTimeCompare(p, []byte(candidate)) == 1
}

type bcryptMatcher []byte

func (b bcryptMatcher) match(candidate string) bool {
	return bcrypt.CompareHashAndPassword(b, []byte(candidate)) == nil
}
