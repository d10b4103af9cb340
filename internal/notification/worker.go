package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"andon-console/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Alert is a call raised on the console.
type Alert struct {
	ConsoleID   int       `json:"consoleid"`
	Slot        int       `json:"slot"`
	Department  string    `json:"department"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Recipient   string    `json:"recipient"`
	RaisedAt    time.Time `json:"raised_at"`
}

// message is the push payload shown by the browser.
type message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Alert Alert  `json:"alert"`
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Alert
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Alert, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case alert := <-wp.jobs:
			log.Printf("Worker %d processing call %d (%s)", id, alert.Slot+1, alert.Status)
			wp.sendNotificationsForAlert(ctx, alert)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert without blocking the caller. It reports false
// when the queue is full and the alert was dropped.
func (wp *WorkerPool) Dispatch(alert Alert) bool {
	select {
	case wp.jobs <- alert:
		return true
	default:
		log.Printf("Notification queue full, dropping alert for call %d", alert.Slot+1)
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Alert {
	return wp.jobs
}

// sendNotificationsForAlert notifies every subscription addressed to the
// alert's recipient plus every catch-all subscription.
func (wp *WorkerPool) sendNotificationsForAlert(ctx context.Context, alert Alert) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Where("recipient = ? OR recipient = ?", alert.Recipient, "").
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for recipient %q: %v", alert.Recipient, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(message{
		Title: fmt.Sprintf("Andon call %d: %s", alert.Slot+1, alert.Status),
		Body:  alertBody(alert),
		Alert: alert,
	})
	if err != nil {
		log.Printf("Error encoding alert payload: %v", err)
		return
	}

	log.Printf("Sending %d notifications for call %d", len(subscriptions), alert.Slot+1)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func alertBody(alert Alert) string {
	desc := alert.Description
	if desc == "" {
		desc = "Unconfigured call"
	}
	if alert.Department == "" {
		return fmt.Sprintf("%s on console %d", desc, alert.ConsoleID)
	}
	return fmt.Sprintf("%s on console %d (department %s)", desc, alert.ConsoleID, alert.Department)
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
