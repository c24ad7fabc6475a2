package games

import (
	"fmt"
	"sync"
	"time"
)

// SeedManager holds the active server seed and its public commitment hash.
// Rotation discloses the outgoing seed so past outcomes become verifiable.
type SeedManager struct {
	mu        sync.RWMutex
	seed      string
	hash      string
	rotatedAt time.Time
}

// NewSeedManager creates a seed manager with a freshly generated server seed
func NewSeedManager() (*SeedManager, error) {
	m := &SeedManager{}
	if _, err := m.Rotate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Current returns the active server seed and its commitment hash
func (m *SeedManager) Current() (seed, hash string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.seed, m.hash
}

// Hash returns only the public commitment hash of the active seed
func (m *SeedManager) Hash() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hash
}

// Rotate replaces the active seed and returns the previous (now disclosed)
// seed. The first rotation returns an empty string.
func (m *SeedManager) Rotate() (previous string, err error) {
	seed, err := GenerateServerSeed()
	if err != nil {
		return "", fmt.Errorf("failed to rotate server seed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	previous = m.seed
	m.seed = seed
	m.hash = HashSeed(seed)
	m.rotatedAt = time.Now()
	return previous, nil
}

// MaybeRotate rotates the seed if it is older than maxAge. Returns the
// disclosed seed and true when a rotation happened.
func (m *SeedManager) MaybeRotate(maxAge time.Duration) (string, bool, error) {
	m.mu.RLock()
	age := time.Since(m.rotatedAt)
	m.mu.RUnlock()

	if age < maxAge {
		return "", false, nil
	}
	previous, err := m.Rotate()
	if err != nil {
		return "", false, err
	}
	return previous, true, nil
}
