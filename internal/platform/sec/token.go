// Copyright (c) 2026 FormGrid. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a cryptographically random hex string.
//
// # Parameters
//   - byteLength: The number of random bytes to draw. The resulting string
//     is twice as long (hex encoding).
//
// # Usage
//
// Session tokens are opaque values with no embedded claims. All identity
// information lives server-side in the session store, which is what allows
// the Session Guard to re-validate every request against the credential store.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
