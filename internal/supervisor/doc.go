// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

/*
Package supervisor runs the long-lived tripsense services under a suture v4
supervisor tree.

# Overview

Services are grouped into layers so that a failure in one layer restarts
only that layer's services:

	RootSupervisor ("tripsense")
	├── DataSupervisor ("data-layer")
	│   └── JanitorService
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventLogService (if events are enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's failure threshold, decay and
backoff. Cancelling the context passed to Serve stops every service, each
bounded by ShutdownTimeout; UnstoppedServiceReport names the ones that
overran.

Supervisor events are written through the zerolog logger via a slog bridge
and sutureslog.

# Usage

	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(janitor)
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second, logger))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

See the services subpackage for the service wrappers.
*/
package supervisor
