package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSConfig configures the NATS sink.
type NATSConfig struct {
	URL     string
	Subject string // subject prefix; the event kind is appended
}

// NATSPublisher forwards events to a NATS subject so external consumers
// (dashboards, reconcilers) can follow submission lifecycles.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

// NewNATSPublisher connects to the broker and returns a publishing sink.
func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("events: nats url is required")
	}
	subject := cfg.Subject
	if subject == "" {
		subject = "escrowkit.events"
	}

	nc, err := nats.Connect(cfg.URL, nats.Name("escrowkit"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("events: nats connect: %w", err)
	}
	return &NATSPublisher{nc: nc, subject: subject}, nil
}

// Publish implements Sink.
func (p *NATSPublisher) Publish(_ context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal: %w", err)
	}

	msg := &nats.Msg{
		Subject: p.subject + "." + string(event.Kind),
		Data:    data,
	}
	if event.Hash != "" {
		msg.Header = nats.Header{}
		msg.Header.Set("x-tx-hash", event.Hash)
	}
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("events: nats publish: %w", err)
	}
	return nil
}

// Close flushes and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	if err := p.nc.Flush(); err != nil {
		p.nc.Close()
		return fmt.Errorf("events: nats flush: %w", err)
	}
	p.nc.Close()
	return nil
}
