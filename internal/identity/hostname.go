package identity

import (
	"crypto/rand"
	"fmt"
)

// generateHostname produces a short, human-distinguishable default hostname
// like "headset-9f3a" for a client that has never announced itself before.
func generateHostname() string {
	var b [2]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "headset-0000"
	}
	return fmt.Sprintf("headset-%04x", b)
}
