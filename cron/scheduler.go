package cron

import (
	"encoding/json"
	"time"

	"stayhub/config"
	"stayhub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Task types for the time-driven booking transitions.
const (
	TypeBookingExpire        = "booking:expire"
	TypeBookingCheckinRemind = "booking:checkin_reminder"
	TypeBookingCheckout      = "booking:checkout"
	TypeBookingComplete      = "booking:complete"
)

// taskPayload carries the booking a lifecycle task acts on.
type taskPayload struct {
	BookingID string `json:"booking_id"`
}

// AsynqScheduler enqueues delayed booking transitions on the task queue.
// It implements booking.LifecycleScheduler.
type AsynqScheduler struct {
	client *asynq.Client
}

func NewAsynqScheduler() *AsynqScheduler {
	return &AsynqScheduler{
		client: asynq.NewClient(redisOpts()),
	}
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}
}

func (s *AsynqScheduler) ScheduleExpiry(bookingID string, at time.Time) error {
	return s.enqueue(TypeBookingExpire, bookingID, at)
}

func (s *AsynqScheduler) ScheduleCheckInReminder(bookingID string, at time.Time) error {
	return s.enqueue(TypeBookingCheckinRemind, bookingID, at)
}

func (s *AsynqScheduler) ScheduleCheckout(bookingID string, at time.Time) error {
	return s.enqueue(TypeBookingCheckout, bookingID, at)
}

func (s *AsynqScheduler) ScheduleCompletion(bookingID string, at time.Time) error {
	return s.enqueue(TypeBookingComplete, bookingID, at)
}

func (s *AsynqScheduler) enqueue(taskType, bookingID string, at time.Time) error {
	payload, err := json.Marshal(taskPayload{BookingID: bookingID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(taskType, payload)
	info, err := s.client.Enqueue(task,
		asynq.ProcessAt(at),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return err
	}
	utils.GetLogger().Info("scheduled booking task",
		zap.String("type", taskType),
		zap.String("booking_id", bookingID),
		zap.String("task_id", info.ID),
		zap.Time("process_at", at),
	)
	return nil
}

func (s *AsynqScheduler) Close() error {
	return s.client.Close()
}
