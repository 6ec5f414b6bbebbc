// Package notify delivers order notifications: an order event on Kafka and an
// invoice email. Delivery runs off the request path and never fails the
// operation that triggered it.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/internal/mykafka"
	"github.com/Skotchmaster/hoversale/internal/orders"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

const DefaultTimeout = 30 * time.Second

var ErrNoRecipient = errors.New("order has no email address")

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Dispatcher struct {
	DB       *gorm.DB
	Orders   *orders.Store
	Events   Publisher
	Topic    string
	Renderer Renderer
	Mailer   Mailer
	Timeout  time.Duration
	Now      func() time.Time

	wg sync.WaitGroup
}

func NewDispatcher(db *gorm.DB, events Publisher, topic string, mailer Mailer, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		DB:       db,
		Orders:   &orders.Store{DB: db},
		Events:   events,
		Topic:    topic,
		Renderer: HTMLRenderer{},
		Mailer:   mailer,
		Timeout:  timeout,
	}
}

// Notify schedules a delivery and returns at once. The delivery keeps the
// request's logger but not its cancellation.
func (d *Dispatcher) Notify(ctx context.Context, orderID, userID uint, status models.OrderStatus) {
	l := logging.FromContext(ctx).With("component", "notify", "order_id", orderID, "status", status)
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout())

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()

		start := time.Now()
		if err := d.Deliver(bg, orderID, userID, status); err != nil {
			l.Warn("notification_failed", "error", err, "duration", time.Since(start))
			return
		}
		l.Info("notification_sent", "duration", time.Since(start))
	}()
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) Deliver(ctx context.Context, orderID, userID uint, status models.OrderStatus) error {
	l := logging.FromContext(ctx)

	o, err := d.Orders.GetForUser(ctx, orderID, userID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	o.Status = status

	d.publish(ctx, l, o)

	if d.Mailer == nil {
		return nil
	}

	sendErr := d.send(ctx, o)
	d.record(ctx, l, o, sendErr)
	return sendErr
}

func (d *Dispatcher) publish(ctx context.Context, l *slog.Logger, o *models.Order) {
	if d.Events == nil || d.Topic == "" {
		return
	}
	ev := mykafka.OrderEvent{
		Type:    eventType(o.Status),
		OrderID: o.ID,
		UserID:  o.UserID,
		Status:  string(o.Status),
		Total:   o.TotalPrice,
	}
	if err := d.Events.PublishEvent(ctx, d.Topic, ev.Key(), ev); err != nil {
		l.Warn("order_event_publish_failed", "order_id", o.ID, "type", ev.Type, "error", err)
	}
}

func (d *Dispatcher) send(ctx context.Context, o *models.Order) error {
	if o.Email == "" {
		return ErrNoRecipient
	}
	r := d.Renderer
	if r == nil {
		r = HTMLRenderer{}
	}
	inv := NewInvoice(o, d.now())

	body, err := r.Body(inv)
	if err != nil {
		return err
	}
	doc, err := r.Document(inv)
	if err != nil {
		return err
	}

	return d.Mailer.Send(ctx, Message{
		To:      o.Email,
		Subject: Subject(o.ID, o.Status),
		HTML:    body,
		Attachments: []Attachment{{
			Name:        fmt.Sprintf("Invoice-%d.html", o.ID),
			ContentType: "text/html; charset=utf-8",
			Data:        doc,
		}},
	})
}

func (d *Dispatcher) record(ctx context.Context, l *slog.Logger, o *models.Order, sendErr error) {
	rec := models.InvoiceDelivery{
		OrderID:   o.ID,
		UserID:    o.UserID,
		Status:    o.Status,
		Recipient: o.Email,
		Sent:      sendErr == nil,
	}
	if sendErr != nil {
		rec.Error = sendErr.Error()
	}
	if err := d.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		l.Warn("invoice_delivery_record_failed", "order_id", o.ID, "error", err)
	}
}

func Subject(orderID uint, status models.OrderStatus) string {
	return fmt.Sprintf("Your Order [%d] is %s", orderID, status)
}

func eventType(s models.OrderStatus) string {
	switch s {
	case models.StatusPending:
		return mykafka.OrderPlaced
	case models.StatusCanceled:
		return mykafka.OrderCanceled
	default:
		return mykafka.OrderStatusChanged
	}
}

func (d *Dispatcher) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return DefaultTimeout
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
