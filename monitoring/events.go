package monitoring

import (
	"context"

	"nayaplay/events"
)

// Register subscribes the settlement metrics to the event bus. Counters move
// only after the owning transaction commits, since the bus flushes on commit.
func Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeWagerSettled, func(ctx context.Context, event events.Event) {
		settled, ok := event.(events.WagerSettledEvent)
		if !ok {
			return
		}
		status := "lost"
		if settled.Won {
			status = "won"
		}
		WagersSettled.WithLabelValues(string(settled.Game), status).Inc()
		AmountWagered.WithLabelValues(string(settled.Game)).Add(float64(settled.Stake))
		AmountPaidOut.WithLabelValues(string(settled.Game)).Add(float64(settled.Payout))
	})

	bus.Subscribe(events.EventTypeTransferCompleted, func(ctx context.Context, event events.Event) {
		TransfersCompleted.Inc()
	})

	bus.Subscribe(events.EventTypeSeedRotated, func(ctx context.Context, event events.Event) {
		SeedRotations.Inc()
	})
}
