package config

import (
	"crypto/rand"
	"crypto/sha256"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

type SecurityConfig interface {
	GetSigningSecret() []byte
	GetEncryptionKey() []byte
	GetSessionTTL() time.Duration
	GetMaxFailedAttempts() int
	GetRateLimitWindow() time.Duration
}

const (
	signingSecretVar = "JWT_SECRET"
	encryptionKeyVar = "ENCRYPTION_KEY"
)

// Security holds the process-wide signing and encryption keys. When the
// environment does not supply them they are generated at startup, which
// invalidates every session on restart. Known limitation.
type Security struct {
	signingSecret []byte
	encryptionKey []byte
}

var _ SecurityConfig = &Security{}

func NewSecurity() *Security {
	s := &Security{}

	if secret := os.Getenv(signingSecretVar); secret != "" {
		s.signingSecret = []byte(secret)
	} else {
		s.signingSecret = randomKey()
		log.Warn().Msg("JWT_SECRET not set, generated ephemeral signing secret - sessions will not survive a restart")
	}

	if key := os.Getenv(encryptionKeyVar); key != "" {
		// Derive a fixed-length key from whatever the environment supplies
		derived := sha256.Sum256([]byte(key))
		s.encryptionKey = derived[:]
	} else {
		s.encryptionKey = randomKey()
		log.Warn().Msg("ENCRYPTION_KEY not set, generated ephemeral encryption key - sessions will not survive a restart")
	}

	return s
}

func randomKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate random key: " + err.Error())
	}
	return key
}

func (s *Security) GetSigningSecret() []byte {
	return s.signingSecret
}

func (s *Security) GetEncryptionKey() []byte {
	return s.encryptionKey
}

func (s *Security) GetSessionTTL() time.Duration {
	return time.Hour
}

func (s *Security) GetMaxFailedAttempts() int {
	return 10
}

func (s *Security) GetRateLimitWindow() time.Duration {
	return time.Hour
}
