// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/tripsense/internal/events"
	"github.com/tomtom215/tripsense/internal/metrics"
)

// Subscriber is satisfied by *events.Publisher.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

// EventLogService consumes the proactive message topic and writes one log
// entry per delivered message.
type EventLogService struct {
	sub    Subscriber
	logger zerolog.Logger
}

// NewEventLogService creates the consumer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventLogService(sub Subscriber, logger zerolog.Logger) *EventLogService {
	return &EventLogService{
		sub:    sub,
		logger: logger.With().Str("component", "event-log").Logger(),
	}
}

// Serve implements suture.Service. A closed publisher stops the service
// for good; any other subscription loss is returned for a restart.
func (s *EventLogService) Serve(ctx context.Context) error {
	ch, err := s.sub.Subscribe(ctx)
	if errors.Is(err, events.ErrClosed) {
		return suture.ErrDoNotRestart
	}
	if err != nil {
		return fmt.Errorf("event log subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case wm, ok := <-ch:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return suture.ErrDoNotRestart
			}
			s.handle(wm)
		}
	}
}

func (s *EventLogService) handle(wm *message.Message) {
	defer wm.Ack()

	m, err := events.Decode(wm)
	if err != nil {
		s.logger.Warn().Err(err).Str("message_uuid", wm.UUID).Msg("dropping undecodable proactive message")
		return
	}
	metrics.EventsDelivered.Inc()
	s.logger.Info().
		Str("message_id", m.ID).
		Str("session_id", m.SessionID).
		Str("trigger_type", string(m.Type)).
		Str("priority", string(m.Priority)).
		Str("title", m.Title).
		Msg("proactive message delivered")
}

// String implements fmt.Stringer for suture's event log.
func (s *EventLogService) String() string {
	return "event-log"
}
