package notification

import (
	"context"
	"fmt"

	userRepo "fuelq/database/repository/user"
	"fuelq/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService defines methods for delivering user-facing messages.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
	SendSMS(ctx context.Context, phone, body string) error
}

// DefaultNotificationService sends pushes over FCM and logs SMS sends. An
// actual SMS gateway can replace the log-only path without touching callers.
type DefaultNotificationService struct {
	Users  userRepo.UserRepository
	Logger *zap.Logger
}

func NewDefaultNotificationService(users userRepo.UserRepository, logger *zap.Logger) (*DefaultNotificationService, error) {
	if users == nil {
		return nil, fmt.Errorf("notification service initialization error: user repository is nil")
	}
	return &DefaultNotificationService{Users: users, Logger: logger}, nil
}

// SendUserPushNotification looks up a user's FCM token and sends a push.
func (s *DefaultNotificationService) SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		return fmt.Errorf("user %s has no FCM token", userID)
	}
	if utils.FCMClient == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message to user %s: %w", userID, err)
	}

	s.Logger.Info("push notification sent",
		zap.String("user_id", userID),
		zap.String("message_id", response))
	return nil
}

// SendSMS logs the outbound message. No SMS gateway is wired in yet.
func (s *DefaultNotificationService) SendSMS(ctx context.Context, phone, body string) error {
	s.Logger.Info("sms send requested",
		zap.String("phone", phone),
		zap.String("body", body))
	return nil
}
