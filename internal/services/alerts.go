package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// AlertService delivers push alerts through Firebase Cloud Messaging.
// Delivery is best effort: callers log failures and move on, a scan or a
// task assignment never fails because a push did.
type AlertService struct {
	client *messaging.Client
}

// NewAlertService creates an AlertService from a credentials file
func NewAlertService(credentialsFile string) (*AlertService, error) {
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

	return &AlertService{client: client}, nil
}

// NewAlertServiceFromBase64 creates an AlertService from base64-encoded
// credentials, useful for cloud deployments where files can't be uploaded.
func NewAlertServiceFromBase64(credentialsBase64 string) (*AlertService, error) {
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

	return &AlertService{client: client}, nil
}

// SendViolationScanAlert notifies a manager that a unit tag scan was
// classified as a violation report.
func (s *AlertService) SendViolationScanAlert(token, propertyName, unitNumber string) error {
	ctx := context.Background()

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Violation Reported",
			Body:  fmt.Sprintf("A violation was reported at %s, unit %s.", propertyName, unitNumber),
		},
		Data: map[string]string{
			"type":          "violation_scan",
			"property_name": propertyName,
			"unit_number":   unitNumber,
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

	log.Printf("✅ FCM alert sent: %s", response)
	return nil
}

// SendTaskAssignedNotification notifies an employee about a new task.
func (s *AlertService) SendTaskAssignedNotification(token, taskID, title string) error {
	ctx := context.Background()

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "New Task Assigned",
			Body:  title,
		},
		Data: map[string]string{
			"type":    "task_assigned",
			"task_id": taskID,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ FCM notification sent: %s", response)
	return nil
}
