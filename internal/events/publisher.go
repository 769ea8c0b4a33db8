// Package events publishes settlement events to NATS for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/state"
)

// SubjectBillSettled carries one BillSettled event per settlement.
const SubjectBillSettled = "settleup.bills.settled"

// DefaultBufferSize is the number of events queued before new ones are dropped.
const DefaultBufferSize = 64

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
}

var _ Conn = (*nats.Conn)(nil)

// BillSettled is published after a settlement has been committed.
type BillSettled struct {
	EventType string             `json:"eventType"`
	BillID    string             `json:"billId"`
	Bill      models.SettledBill `json:"bill"`
	Timestamp time.Time          `json:"timestamp"`
}

// Publisher forwards settlements from the state manager to NATS.
// Publishing is asynchronous: the manager never waits on the broker, and a failed or
// dropped publish is logged without affecting the settlement.
type Publisher struct {
	conn  Conn
	queue chan BillSettled
	now   func() time.Time
}

// NewPublisher creates a Publisher writing to conn.
func NewPublisher(conn Conn, bufferSize int) *Publisher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Publisher{
		conn:  conn,
		queue: make(chan BillSettled, bufferSize),
		now:   time.Now,
	}
}

// Connect dials the NATS server at url.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("settleup"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return nc, nil
}

// Attach subscribes the publisher to m.
func (p *Publisher) Attach(m *state.Manager) {
	m.Subscribe(p.Handle)
}

// Handle enqueues an event for KindSettled transitions and ignores the rest.
func (p *Publisher) Handle(t state.Transition) {
	if t.Kind != state.KindSettled || t.Bill == nil {
		return
	}
	evt := BillSettled{
		EventType: string(state.KindSettled),
		BillID:    t.Bill.ID,
		Bill:      t.Bill.Clone(),
		Timestamp: p.now(),
	}
	select {
	case p.queue <- evt:
	default:
		slog.Warn("Event queue full, dropping event", "bill_id", evt.BillID)
	}
}

// Run publishes queued events until ctx is cancelled, then publishes whatever is still
// queued before returning.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if n := p.Flush(); n > 0 {
				slog.Debug("Flushed queued events on shutdown", "count", n)
			}
			return nil
		case evt := <-p.queue:
			p.send(evt)
		}
	}
}

// Flush publishes every queued event without waiting for new ones and returns how many
// it took off the queue.
func (p *Publisher) Flush() int {
	n := 0
	for {
		select {
		case evt := <-p.queue:
			p.send(evt)
			n++
		default:
			return n
		}
	}
}

func (p *Publisher) send(evt BillSettled) {
	if err := p.publish(evt); err != nil {
		slog.Error("Failed to publish event", "subject", SubjectBillSettled, "bill_id", evt.BillID, "error", err)
	}
}

func (p *Publisher) publish(evt BillSettled) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.conn.Publish(SubjectBillSettled, data); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	slog.Debug("Event published", "subject", SubjectBillSettled, "bill_id", evt.BillID)
	return nil
}
