package handler

import (
	"context"
	"time"

	"github.com/iliyamo/office-seat-booking/internal/queue"
	queuepub "github.com/iliyamo/office-seat-booking/internal/service/queue_publisher"
)

// notify publishes a notification event in the background and hands it
// back so the handler can embed the same object in its HTTP response.
// Publishing is fire-and-forget: a broker outage never fails the
// request.
func notify(ev queue.NotificationEvent) queue.NotificationEvent {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queuepub.PublishNotification(ctx, ev)
	}()
	return ev
}
