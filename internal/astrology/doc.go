// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

/*
Package astrology talks to the Astrology API (v3) and turns its responses into
the body list the natal wheel renderer consumes.

Endpoints used:
  - POST /api/v3/charts/natal: full natal chart JSON (NatalChart)
  - POST /api/v3/render/natal: upstream rendered chart image (RenderNatal)
  - POST /api/v3/planetary-positions: raw positions (PlanetaryPositions)

All calls authenticate with a bearer key. Without a key every call fails with
ErrMissingAPIKey before any network traffic. Non-2xx answers become
*UpstreamError carrying the upstream status and a best-effort decoded body.

Resilience:
  - BreakerClient wraps Client with a named circuit breaker. Upstream 4xx
    answers and a missing key do not count as breaker failures.
  - HTTP 429 is retried with exponential backoff, honoring Retry-After.

ExtractBodies is the single place where the loosely shaped upstream JSON is
normalized into []wheel.CelestialBody.
*/
package astrology
