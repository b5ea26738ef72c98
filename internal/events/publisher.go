// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/metrics"
	"github.com/tomtom215/tripsense/internal/models"
)

// Metadata keys set on every published message.
const (
	MetadataType     = "trigger_type"
	MetadataPriority = "priority"
	MetadataSession  = "session_id"
)

// ErrClosed is returned when publishing after Close.
var ErrClosed = errors.New("events: publisher is closed")

// Config configures the publisher.
type Config struct {
	// Enabled turns publishing on. When false the server does not attach
	// a publisher to trigger engines.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// Topic receives every proactive message.
	Topic string `json:"topic" koanf:"topic" validate:"required"`

	// BufferSize is the per-subscriber output channel buffer.
	BufferSize int64 `json:"buffer_size" koanf:"buffer_size" validate:"gte=0"`

	// Persistent keeps messages for subscribers that join later.
	Persistent bool `json:"persistent" koanf:"persistent"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Topic:      "proactive.messages",
		BufferSize: 256,
	}
}

// Validate checks the configuration.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c Config) Validate() error {
	if c.Topic == "" {
		return fmt.Errorf("events.topic must not be empty")
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("events.buffer_size must not be negative, got %d", c.BufferSize)
	}
	return nil
}

// Publisher publishes proactive messages on a Watermill topic.
type Publisher struct {
	pubsub *gochannel.GoChannel
	topic  string
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPublisher creates a publisher backed by an in-process Go channel
// pub/sub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPublisher(cfg Config, logger zerolog.Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	l := logger.With().Str("component", "events").Logger()

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
		Persistent:          cfg.Persistent,
	}, NewWatermillLogger(l))

	return &Publisher{
		pubsub: pubsub,
		topic:  cfg.Topic,
		logger: l,
	}, nil
}

// Topic returns the topic messages are published on.
func (p *Publisher) Topic() string {
	return p.topic
}

// Publish serializes and publishes msgs. Messages without subscribers are
// dropped unless the publisher is persistent.
func (p *Publisher) Publish(ctx context.Context, msgs []*models.ProactiveMessage) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	out := make([]*message.Message, 0, len(msgs))
	for _, m := range msgs {
		wm, err := Encode(m)
		if err != nil {
			metrics.EventsPublished.WithLabelValues("error").Inc()
			return err
		}
		wm.SetContext(ctx)
		out = append(out, wm)
	}

	if err := p.pubsub.Publish(p.topic, out...); err != nil {
		metrics.EventsPublished.WithLabelValues("error").Add(float64(len(out)))
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	metrics.EventsPublished.WithLabelValues("success").Add(float64(len(out)))
	p.logger.Debug().Int("messages", len(out)).Str("topic", p.topic).Msg("published proactive messages")
	return nil
}

// Subscribe returns a channel of raw messages on the publisher's topic. The
// channel closes when ctx is done or the publisher is closed. Consumers must
// Ack or Nack every message.
func (p *Publisher) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrClosed
	}
	ch, err := p.pubsub.Subscribe(ctx, p.topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", p.topic, err)
	}
	return ch, nil
}

// Close shuts the pub/sub down and closes every subscription.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.pubsub.Close()
}

// Encode converts a proactive message to a Watermill message keyed by the
// proactive message id.
func Encode(m *models.ProactiveMessage) (*message.Message, error) {
	if m == nil {
		return nil, fmt.Errorf("encode proactive message: nil message")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal proactive message %s: %w", m.ID, err)
	}
	wm := message.NewMessage(m.ID, data)
	wm.Metadata.Set(MetadataType, string(m.Type))
	wm.Metadata.Set(MetadataPriority, string(m.Priority))
	wm.Metadata.Set(MetadataSession, m.SessionID)
	return wm, nil
}

// Decode converts a Watermill message back to a proactive message.
func Decode(wm *message.Message) (*models.ProactiveMessage, error) {
	var m models.ProactiveMessage
	if err := json.Unmarshal(wm.Payload, &m); err != nil {
		return nil, fmt.Errorf("unmarshal proactive message %s: %w", wm.UUID, err)
	}
	return &m, nil
}
