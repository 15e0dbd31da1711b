package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Klainnoble1/backend-logistics/entity"
	notificationpkg "github.com/Klainnoble1/backend-logistics/notification"
	"github.com/Klainnoble1/backend-logistics/realtime"
	"github.com/google/uuid"
)

const expoPushURL = "https://exp.host/--/api/v2/push/send"

type notificationService struct {
	repo   notificationpkg.Repository
	hub    *realtime.Hub
	client *http.Client
}

// NewNotificationService builds the Events sink backed by notification
// records, Expo push and the websocket hub. hub may be nil.
func NewNotificationService(repo notificationpkg.Repository, hub *realtime.Hub) notificationpkg.Events {
	return &notificationService{
		repo:   repo,
		hub:    hub,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *notificationService) ParcelStatusChanged(p *entity.Parcel) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		title := "Parcel Status Updated"
		message := fmt.Sprintf("Your parcel %s is now %s", p.TrackingID, p.Status)
		s.record(ctx, p.SenderID, &p.ID, "status_update", title, message)

		if s.hub != nil {
			_ = s.hub.NotifyCustomer(p.SenderID.String(), "parcel.status", realtime.ParcelStatusPayload{
				ParcelID:   p.ID.String(),
				TrackingID: p.TrackingID,
				Status:     string(p.Status),
			})
		}
	}()
}

func (s *notificationService) ParcelAssigned(p *entity.Parcel, a *entity.Assignment, driverUserID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		s.record(ctx, p.SenderID, &p.ID, "assignment",
			"Driver Assigned",
			fmt.Sprintf("A driver was assigned to your parcel %s", p.TrackingID))
		s.record(ctx, driverUserID, &p.ID, "assignment",
			"New Delivery",
			fmt.Sprintf("Parcel %s was assigned to you", p.TrackingID))

		if s.hub != nil {
			_ = s.hub.NotifyDriver(a.DriverID.String(), "parcel.assigned", realtime.AssignmentPayload{
				ParcelID:      p.ID.String(),
				TrackingID:    p.TrackingID,
				PickupAddress: p.PickupAddress,
			})
			_ = s.hub.NotifyCustomer(p.SenderID.String(), "parcel.status", realtime.ParcelStatusPayload{
				ParcelID:   p.ID.String(),
				TrackingID: p.TrackingID,
				Status:     string(p.Status),
			})
		}
	}()
}

func (s *notificationService) PaymentCompleted(pay *entity.Payment) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		s.record(ctx, pay.UserID, &pay.ParcelID, "payment",
			"Payment Received",
			fmt.Sprintf("Your payment of %.2f was received", pay.Amount))
	}()
}

// record stores the notification row and attempts an Expo push when the user
// has a registered token.
func (s *notificationService) record(ctx context.Context, userID uuid.UUID, parcelID *uuid.UUID, kind, title, message string) {
	n := &entity.Notification{
		UserID:   userID,
		ParcelID: parcelID,
		Type:     kind,
		Title:    title,
		Message:  message,
	}
	if _, err := s.repo.CreateNotification(ctx, n); err != nil {
		log.Printf("notification: create record failed: %v", err)
		return
	}

	token, err := s.repo.GetPushToken(ctx, userID)
	if err != nil || token == "" {
		return
	}
	if err := s.push(ctx, token, title, message); err != nil {
		log.Printf("notification: expo push failed: %v", err)
	}
}

func (s *notificationService) push(ctx context.Context, token, title, message string) error {
	body, err := json.Marshal(map[string]any{
		"to":    token,
		"sound": "default",
		"title": title,
		"body":  message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, expoPushURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo push status %d", resp.StatusCode)
	}
	return nil
}
