package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fuelq/config"
	bookingRepo "fuelq/database/repository/booking"
	reminderRepo "fuelq/database/repository/reminder"
	tokenRepo "fuelq/database/repository/token"
	"fuelq/models"
	bookingSvc "fuelq/services/booking"
	"fuelq/services/notification"
	"fuelq/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const sweepInterval = 5 * time.Minute

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(
	notifSvc notification.NotificationService,
	reminders reminderRepo.ReminderRepository,
	bookings bookingRepo.BookingRepository,
) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc, reminders, bookings))

	go monitorRedisConnection()

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleReminderTask delivers one scheduled reminder. Reminders for bookings
// that were cancelled, expired or already answered are dropped silently.
func handleReminderTask(
	notifSvc notification.NotificationService,
	reminders reminderRepo.ReminderRepository,
	bookings bookingRepo.BookingRepository,
) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		rem, err := reminders.GetByID(ctx, p.ReminderID)
		if err != nil {
			// Deleted by the cancellation cascade.
			log.Printf("[ReminderHandler] reminder %s gone, skipping", p.ReminderID)
			return nil
		}
		if rem.ConfirmationStatus != models.ConfirmationPending {
			return nil
		}

		booking, err := bookings.GetByID(ctx, p.BookingID)
		if err != nil {
			log.Printf("[ReminderHandler] booking %s gone, skipping", p.BookingID)
			return nil
		}
		if booking.BookingStatus == models.BookingStatusCancelled ||
			booking.BookingStatus == models.BookingStatusExpired ||
			booking.BookingStatus == models.BookingStatusCompleted {
			return nil
		}

		data := map[string]string{
			"reminderId": p.ReminderID,
			"bookingId":  p.BookingID,
			"fireDate":   p.FireDate,
			"title":      p.Title,
			"body":       p.Body,
		}
		if err := notifSvc.SendUserPushNotification(ctx, p.UserID, p.Title, p.Body, data); err != nil {
			log.Printf("[ReminderHandler] failed to send notification: %v", err)
			return err
		}
		return nil
	}
}

// StartSweeper expires overdue tokens and no-show bookings on a fixed
// interval. Token expiry is also applied lazily at validation time; the sweep
// just keeps the collections tidy and frees slots sooner.
func StartSweeper(tokens tokenRepo.TokenRepository, bookings bookingRepo.BookingRepository, svc bookingSvc.BookingService) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for range ticker.C {
			ctx := context.Background()
			now := time.Now().UTC()

			if n, err := tokens.ExpireOverdue(ctx, now); err != nil {
				log.Printf("[Sweeper] token sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("[Sweeper] expired %d overdue tokens", n)
			}

			overdue, err := bookings.ListOverdueActive(ctx, now)
			if err != nil {
				log.Printf("[Sweeper] overdue booking query failed: %v", err)
				continue
			}
			for _, b := range overdue {
				if err := svc.Expire(ctx, b.ID); err != nil {
					log.Printf("[Sweeper] failed to expire booking %s: %v", b.ID, err)
				}
			}
		}
	}()
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
