// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

/*
Package services adapts blocking components to suture.Service so the
supervisor tree can run them.

# HTTPServerService

HTTPServerService turns http.Server's ListenAndServe/Shutdown pair into a
context-aware Serve:

	server := &http.Server{Addr: cfg.Server.Addr(), Handler: router}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

Serve behaves as follows:

  - ListenAndServe runs in its own goroutine
  - a listener error (port in use, accept failure) is returned, so the
    supervisor restarts the server
  - http.ErrServerClosed is treated as a clean stop
  - canceling ctx calls Shutdown with a fresh deadline of shutdownTimeout,
    waits for ListenAndServe to return, then returns ctx.Err()

The server is reached through the small HTTPServer interface so tests can
substitute a fake without binding a port.

# Naming

String returns "http-server(<addr>)", which suture uses to label the
service in its events and in UnstoppedServiceReport.

# Other Services

The rate limiter sweeper implements suture.Service itself (see
ratelimit.NewService) and needs no adapter here.
*/
package services
