package cron

import (
	"context"
	"encoding/json"
	"time"

	"stayhub/services/booking"
	"stayhub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitLifecycleWorker runs the async worker that fires the time-driven
// booking tasks: hold-window expiry, the start-date check-in reminder,
// end-of-stay check-out and post-stay completion.
func InitLifecycleWorker(svc booking.BookingService) {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingExpire, func(ctx context.Context, task *asynq.Task) error {
		return handleTask(ctx, task, "expire", func(ctx context.Context, id string) error {
			return svc.ExpireBooking(ctx, id)
		})
	})
	mux.HandleFunc(TypeBookingCheckinRemind, func(ctx context.Context, task *asynq.Task) error {
		return handleTask(ctx, task, "checkin_reminder", func(ctx context.Context, id string) error {
			return svc.RemindCheckIn(ctx, id)
		})
	})
	mux.HandleFunc(TypeBookingCheckout, func(ctx context.Context, task *asynq.Task) error {
		return handleTask(ctx, task, "checkout", func(ctx context.Context, id string) error {
			_, err := svc.CheckOutBooking(ctx, id)
			return err
		})
	})
	mux.HandleFunc(TypeBookingComplete, func(ctx context.Context, task *asynq.Task) error {
		return handleTask(ctx, task, "complete", func(ctx context.Context, id string) error {
			_, err := svc.CompleteBooking(ctx, id)
			return err
		})
	})

	go func() {
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			logger.Info("starting booking lifecycle worker", zap.Int("attempt", attempt))
			if err := srv.Run(mux); err != nil {
				if attempt == maxAttempts {
					logger.Fatal("lifecycle worker failed to start", zap.Error(err))
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
				continue
			}
			break
		}
	}()
}

// handleTask unwraps the payload and runs one lifecycle transition. A stale
// task is normal: the booking may have moved on (paid, cancelled, already
// checked out) before the timer fired, so conflicts and missing bookings are
// swallowed rather than retried.
func handleTask(ctx context.Context, task *asynq.Task, op string, fn func(context.Context, string) error) error {
	logger := utils.GetLogger()

	var p taskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("invalid lifecycle task payload", zap.String("op", op), zap.Error(err))
		return err
	}

	err := fn(ctx, p.BookingID)
	switch booking.CodeOf(err) {
	case booking.CodeStateConflict, booking.CodeNotFound:
		logger.Info("lifecycle task skipped",
			zap.String("op", op),
			zap.String("booking_id", p.BookingID),
			zap.String("reason", err.Error()))
		return nil
	}
	if err != nil {
		logger.Error("lifecycle task failed",
			zap.String("op", op),
			zap.String("booking_id", p.BookingID),
			zap.Error(err))
		return err
	}

	logger.Info("lifecycle task applied", zap.String("op", op), zap.String("booking_id", p.BookingID))
	return nil
}
