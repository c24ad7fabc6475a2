package models

import "time"

// FeedEntry is a display-only projection of a recently settled wager shown in
// the public live bet feed. The display name is denormalized at settlement
// time; ghost-mode accounts appear anonymized.
type FeedEntry struct {
	WagerRef    string    `json:"wager_ref"`
	DisplayName string    `json:"display_name"`
	Game        Game      `json:"game"`
	Stake       int64     `json:"stake"`
	Multiplier  float64   `json:"multiplier"`
	Payout      int64     `json:"payout"`
	Won         bool      `json:"won"`
	SettledAt   time.Time `json:"settled_at"`
}
