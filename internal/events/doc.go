// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

/*
Package events delivers proactive messages to downstream consumers.

Emitted trigger messages are serialized as JSON and published on a Watermill
topic (default "proactive.messages"). The in-process transport is Watermill's
Go channel pub/sub, so consumers in the same process (push gateways, audit
sinks, tests) subscribe without an external broker.

Message metadata carries the trigger type, priority and session id so that
consumers can route without decoding the payload:

	pub, err := events.NewPublisher(events.DefaultConfig(), logger)
	if err != nil {
	    return err
	}
	defer pub.Close()

	msgs, _ := pub.Subscribe(ctx)
	go func() {
	    for m := range msgs {
	        pm, err := events.Decode(m)
	        ...
	        m.Ack()
	    }
	}()

Publisher implements trigger.Publisher.
*/
package events
