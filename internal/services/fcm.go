package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	ctx := context.Background()

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials
// This is useful for cloud deployments (Railway, Fly.io, Render) where you can't upload files easily
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	ctx := context.Background()

	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}

	opt := option.WithCredentialsJSON(credentialsJSON)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendSLABreachAlert notifies a manager that a bin has breached its SLA
func (s *FCMService) SendSLABreachAlert(token, binID, locationName, zone string, overflowCount int) error {
	ctx := context.Background()

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "SLA Breached",
			Body:  fmt.Sprintf("%s (%s zone) has exceeded its collection window.", locationName, zone),
		},
		Data: map[string]string{
			"type":           "sla_breach",
			"bin_id":         binID,
			"zone":           zone,
			"overflow_count": strconv.Itoa(overflowCount),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ FCM breach alert sent successfully: %s", response)
	return nil
}

// SendOverflowWarning notifies a manager of a predicted overflow
func (s *FCMService) SendOverflowWarning(token, binID, locationName string, hoursUntilOverflow int) error {
	ctx := context.Background()

	body := fmt.Sprintf("%s is predicted to overflow within %d hour(s).", locationName, hoursUntilOverflow)
	if hoursUntilOverflow == 0 {
		body = fmt.Sprintf("%s is predicted to be overflowing now.", locationName)
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Overflow Warning",
			Body:  body,
		},
		Data: map[string]string{
			"type":                 "overflow_warning",
			"bin_id":               binID,
			"hours_until_overflow": strconv.Itoa(hoursUntilOverflow),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ FCM overflow warning sent successfully: %s", response)
	return nil
}
