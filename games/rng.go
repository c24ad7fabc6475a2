package games

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
)

// The outcome source is an HMAC-SHA256 byte stream keyed by the server seed
// over "clientSeed:nonce:round". Every game consumes floats from this one
// stream; the server seed is generated from crypto/rand and committed via its
// SHA-256 hash before any wager uses it, so players can verify draws after a
// rotation discloses the seed.

// floatBytes is the number of stream bytes consumed per float
const floatBytes = 4

// GenerateServerSeed returns a new 32-byte server seed, hex encoded
func GenerateServerSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate server seed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashSeed returns the SHA-256 commitment hash of a server seed
func HashSeed(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// Floats derives count uniform floats in [0, 1) from the seed pair and nonce.
// The derivation is deterministic: identical inputs always produce identical
// outputs, which is what makes settled outcomes verifiable.
func Floats(serverSeed, clientSeed string, nonce int64, count int) []float64 {
	floats := make([]float64, 0, count)
	round := 0
	for len(floats) < count {
		h := hmac.New(sha256.New, []byte(serverSeed))
		h.Write([]byte(clientSeed + ":" + strconv.FormatInt(nonce, 10) + ":" + strconv.Itoa(round)))
		digest := h.Sum(nil)

		for off := 0; off+floatBytes <= len(digest) && len(floats) < count; off += floatBytes {
			n := binary.BigEndian.Uint32(digest[off : off+floatBytes])
			floats = append(floats, float64(n)/float64(1<<32))
		}
		round++
	}
	return floats
}

// DrawWithoutReplacement selects k distinct values from [0, n) using a
// Fisher-Yates pass driven by the float stream. Used for keno draws and mine
// placement so that every subset is equally likely.
func DrawWithoutReplacement(serverSeed, clientSeed string, nonce int64, n, k int) []int {
	floats := Floats(serverSeed, clientSeed, nonce, k)

	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	drawn := make([]int, 0, k)
	for i := 0; i < k; i++ {
		remaining := n - i
		idx := int(floats[i] * float64(remaining))
		if idx >= remaining {
			idx = remaining - 1
		}
		drawn = append(drawn, pool[idx])
		pool[idx] = pool[remaining-1]
	}
	return drawn
}
