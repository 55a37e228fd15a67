package csrf

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func newTestCodec(ttl time.Duration) *Codec {
	return NewCodec(testSecret, ttl)
}

func TestGenerateValidateRoundtrip(t *testing.T) {
	codec := newTestCodec(time.Hour)

	t.Run("Should accept a freshly minted token for the same user agent", func(t *testing.T) {
		token, err := codec.Generate("Mozilla/5.0 (X11; Linux x86_64)")
		assert.NoError(t, err)
		assert.True(t, codec.Validate(token, "Mozilla/5.0 (X11; Linux x86_64)"))
	})

	t.Run("Should accept an empty user agent on both ends", func(t *testing.T) {
		token, err := codec.Generate("")
		assert.NoError(t, err)
		assert.True(t, codec.Validate(token, ""))
		assert.Contains(t, token, ":na:")
	})

	t.Run("Should treat user agent normalization as case-insensitive", func(t *testing.T) {
		token, err := codec.Generate("  MOZILLA/5.0  ")
		assert.NoError(t, err)
		assert.True(t, codec.Validate(token, "mozilla/5.0"))
	})
}

func TestValidateUserAgentBinding(t *testing.T) {
	codec := newTestCodec(time.Hour)

	token, err := codec.Generate("browser-one")
	assert.NoError(t, err)

	t.Run("Should reject a token presented by a different user agent", func(t *testing.T) {
		assert.False(t, codec.Validate(token, "browser-two"))
	})

	t.Run("Should reject a token minted for a user agent when none is supplied", func(t *testing.T) {
		assert.False(t, codec.Validate(token, ""))
	})
}

func TestValidateExpiry(t *testing.T) {
	ttl := time.Hour
	codec := newTestCodec(ttl)

	mintedAt := time.Unix(1_700_000_000, 0)
	codec.now = func() time.Time { return mintedAt }
	token, err := codec.Generate("ua")
	assert.NoError(t, err)

	t.Run("Should accept a token at exactly the TTL boundary", func(t *testing.T) {
		codec.now = func() time.Time { return mintedAt.Add(ttl) }
		assert.True(t, codec.Validate(token, "ua"))
	})

	t.Run("Should reject a token older than the TTL", func(t *testing.T) {
		codec.now = func() time.Time { return mintedAt.Add(ttl + time.Second) }
		assert.False(t, codec.Validate(token, "ua"))
	})

	t.Run("Should reject a token with a future timestamp", func(t *testing.T) {
		codec.now = func() time.Time { return mintedAt.Add(-time.Second) }
		assert.False(t, codec.Validate(token, "ua"))
	})
}

func TestValidateTampering(t *testing.T) {
	codec := newTestCodec(time.Hour)

	token, err := codec.Generate("ua")
	assert.NoError(t, err)

	t.Run("Should reject any single-character change to the signature", func(t *testing.T) {
		idx := strings.LastIndex(token, ":") + 1
		for i := idx; i < len(token); i++ {
			flipped := byte('0')
			if token[i] == '0' {
				flipped = '1'
			}
			tampered := token[:i] + string(flipped) + token[i+1:]
			assert.False(t, codec.Validate(tampered, "ua"), "position %d", i)
		}
	})

	t.Run("Should reject a payload change with the original signature", func(t *testing.T) {
		parts := strings.Split(token, ":")
		parts[1] = strings.Repeat("0", len(parts[1]))
		assert.False(t, codec.Validate(strings.Join(parts, ":"), "ua"))
	})

	t.Run("Should reject a token signed with a different secret", func(t *testing.T) {
		other := NewCodec("other-secret", time.Hour)
		foreign, err := other.Generate("ua")
		assert.NoError(t, err)
		assert.False(t, codec.Validate(foreign, "ua"))
	})
}

func TestValidateMalformedTokens(t *testing.T) {
	codec := newTestCodec(time.Hour)

	cases := []string{
		"",
		"::",
		"a:b:c",
		"a:b:c:d:e",
		"not-a-token",
		"12x4:deadbeef:na:ffff",
		strings.Repeat(":", 3),
	}
	for _, token := range cases {
		t.Run(fmt.Sprintf("Should fail closed for %q", token), func(t *testing.T) {
			assert.False(t, codec.Validate(token, "ua"))
		})
	}

	t.Run("Should fail closed for a non-numeric timestamp with a valid signature", func(t *testing.T) {
		payload := "notanumber:deadbeef:na"
		token := payload + ":" + codec.sign(payload)
		assert.False(t, codec.Validate(token, ""))
	})
}
