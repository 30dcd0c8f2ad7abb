// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

/*
Package supervisor provides process supervision for natalchart using suture v4.

It runs every long-lived goroutine of the service under one supervisor tree
so that a crashed component is restarted and a shutdown signal reaches all
of them.

# Overview

The tree has two layers:

	RootSupervisor ("natalchart")
	├── BackgroundSupervisor ("background-layer")
	│   └── ratelimit sweeper (geocode token buckets)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the sweeper is restarted inside the background layer and never
touches the listener. A listener failure restarts only the API layer.

# Restart Policy

Crashed services are restarted with suture's decaying failure counter:

  - FailureThreshold failures put the supervisor into backoff
  - failures decay over FailureDecay seconds
  - in backoff, restarts wait FailureBackoff

DefaultTreeConfig returns suture's own defaults, and zero fields passed to
NewSupervisorTree fall back to them. main sets only ShutdownTimeout, taken
from the server's graceful shutdown window.

# Service Contract

Services follow the suture contract: return nil to stop for good, return an
error to be restarted, and return promptly once ctx is canceled. A service
that misses ShutdownTimeout is listed by UnstoppedServiceReport.

# Logging

Supervisor events (start, stop, panic, backoff) go through sutureslog.
main wires it to the zerolog backed slog handler from the logging package,
so they share the output format and level of the rest of the service.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddBackgroundService(ratelimit.NewService(limiter, cfg.Security.SweepInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

# What Is Not Supervised

The astrology and geocoder clients hold no goroutines. Their circuit
breakers isolate upstream failures instead.

# See Also

  - internal/supervisor/services: suture.Service adapters
  - github.com/thejerf/suture/v4
*/
package supervisor
