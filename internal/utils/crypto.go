package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// inviteTokenBytes is the entropy of a freshly minted invite token.
const inviteTokenBytes = 32

// GenerateInviteToken returns a cryptographically random, URL-safe
// opaque token suitable for one-time registration invites.
func GenerateInviteToken() string {
	b := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to generate invite token: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
