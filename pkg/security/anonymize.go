package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// AnonymizeIdentifier replaces a raw identifier (client IP, email) with a
// keyed, truncated digest so it can be logged and stored without exposing
// the original value. The namespace keeps digests from different identifier
// kinds from colliding. Empty input maps to "unknown".
func AnonymizeIdentifier(secret, namespace, value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "unknown"
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(namespace + ":" + normalized))
	return hex.EncodeToString(mac.Sum(nil))[:16]
}
