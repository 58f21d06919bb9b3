package consumers

import (
	"context"
	"log/slog"
	"time"

	"arcadia/internal/clock"
	"arcadia/internal/repository"
)

// SweeperJob drives the booking lifecycle on a timer: confirmed bookings
// whose slot has started become ONGOING, ongoing bookings past their end
// become COMPLETED, and pending bookings past their end become NO_SHOW.
type SweeperJob struct {
	bookings repository.BookingStore
	clock    clock.Clock
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
}

func NewSweeperJob(bookings repository.BookingStore, clk clock.Clock, interval time.Duration) *SweeperJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SweeperJob{
		bookings: bookings,
		clock:    clk,
		interval: interval,
		done:     make(chan bool),
	}
}

func (j *SweeperJob) Start(ctx context.Context) {
	slog.Info("Starting booking lifecycle sweeper", "interval", j.interval)

	j.ticker = time.NewTicker(j.interval)

	// Run an initial sweep immediately.
	go j.sweep(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.sweep(ctx)
			case <-j.done:
				slog.Info("Booking lifecycle sweeper stopped")
				return
			}
		}
	}()
}

func (j *SweeperJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *SweeperJob) sweep(ctx context.Context) {
	now := j.clock.Now()

	started, err := j.bookings.StartDue(ctx, now)
	if err != nil {
		slog.Error("Failed to start due bookings", "error", err)
	} else if started > 0 {
		slog.Info("Bookings moved to ONGOING", "count", started)
	}

	completed, err := j.bookings.CompleteDue(ctx, now)
	if err != nil {
		slog.Error("Failed to complete due bookings", "error", err)
	} else if completed > 0 {
		slog.Info("Bookings moved to COMPLETED", "count", completed)
	}

	expired, err := j.bookings.ExpireNoShows(ctx, now)
	if err != nil {
		slog.Error("Failed to expire no-show bookings", "error", err)
	} else if expired > 0 {
		slog.Info("Pending bookings marked NO_SHOW", "count", expired)
	}
}
