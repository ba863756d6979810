package services

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultDedupTTL is how long a processed delivery id is remembered.
	DefaultDedupTTL = 24 * time.Hour

	fingerprintTextRunes = 40
	fingerprintBucket    = 60 // seconds
	fingerprintPrefix    = "fk:"
)

// HashMSISDN returns the SHA-256 hex digest used as the subscriber key.
func HashMSISDN(msisdn string) string {
	sum := sha256.Sum256([]byte(msisdn))
	return hex.EncodeToString(sum[:])
}

// DeliveryID returns the dedup key for a delivery. A provider message id is
// used verbatim. Without one, the key is a fingerprint of the sender, the
// first 40 runes of the text and the 60-second bucket of now: two different
// messages with the same prefix from the same sender inside one bucket collide,
// and a retry that straddles a bucket boundary is not recognised.
func DeliveryID(sender, text, messageID string, now time.Time) string {
	if id := strings.TrimSpace(messageID); id != "" {
		return id
	}
	bucket := now.Unix() / fingerprintBucket
	raw := sender + "|" + truncateRunes(text, fingerprintTextRunes) + "|" + strconv.FormatInt(bucket, 10)
	sum := sha1.Sum([]byte(raw))
	return fingerprintPrefix + hex.EncodeToString(sum[:])
}
