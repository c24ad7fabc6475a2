package service

import (
	"context"
	"sync"

	"nayaplay/events"
	"nayaplay/models"
)

// FeedService keeps the bounded in-memory projection of recently settled
// wagers shown on the public live feed. It subscribes to settlement events
// and never touches the database; losing the projection on restart is fine,
// it refills within a few wagers.
type FeedService struct {
	mu      sync.RWMutex
	entries []models.FeedEntry
	size    int
}

// NewFeedService creates a feed service holding at most size entries
func NewFeedService(size int) *FeedService {
	return &FeedService{size: size}
}

// Register subscribes the feed to settlement events on the bus
func (s *FeedService) Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeWagerSettled, func(ctx context.Context, event events.Event) {
		settled, ok := event.(events.WagerSettledEvent)
		if !ok {
			return
		}
		s.Add(models.FeedEntry{
			WagerRef:    settled.WagerRef,
			DisplayName: settled.DisplayName,
			Game:        settled.Game,
			Stake:       settled.Stake,
			Multiplier:  settled.Multiplier,
			Payout:      settled.Payout,
			Won:         settled.Won,
			SettledAt:   settled.SettledAt,
		})
	})
}

// Add prepends an entry, evicting the oldest once the feed is full
func (s *FeedService) Add(entry models.FeedEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]models.FeedEntry{entry}, s.entries...)
	if len(s.entries) > s.size {
		s.entries = s.entries[:s.size]
	}
}

// Recent returns the feed entries, newest first
func (s *FeedService) Recent() []models.FeedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FeedEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
