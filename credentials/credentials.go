// Package credentials handles the caller's upstream cookie pair: fingerprinting
// it for anonymous identity and sealing it for in-memory storage.
package credentials

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const fingerprintLength = 16

// Set is the pair of opaque upstream cookie secrets belonging to one end user.
// It is never stored unencrypted.
type Set struct {
	EspnS2 string `json:"espn_s2"`
	SWID   string `json:"swid"`
}

// Fingerprint derives a deterministic one-way identity digest from the
// credential pair, truncated to a fixed length. The same credentials always
// produce the same fingerprint; it keys both the session store and the
// rate limiter.
func (s Set) Fingerprint() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%s", s.EspnS2, s.SWID)))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}
