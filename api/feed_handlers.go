package api

import (
	"net/http"

	"nayaplay/games"
	"nayaplay/models"
	"nayaplay/service"
)

// FeedHandler exposes the public live feed and provably-fair endpoints
type FeedHandler struct {
	feed  *service.FeedService
	seeds *games.SeedManager
}

func NewFeedHandler(feed *service.FeedService, seeds *games.SeedManager) *FeedHandler {
	return &FeedHandler{feed: feed, seeds: seeds}
}

// HandleGetFeed handles GET /feed
func (h *FeedHandler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	entries := h.feed.Recent()
	if entries == nil {
		entries = []models.FeedEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// HandleGetSeedHash handles GET /fairness/seed. Only the commitment hash is
// public; the seed itself is disclosed on rotation.
func (h *FeedHandler) HandleGetSeedHash(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"seed_hash": h.seeds.Hash(),
	})
}
