// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

/*
Command server runs the natalchart HTTP service.

It resolves a birth city through a Nominatim geocoder, fetches the natal
chart from the Astrology API and draws the natal wheel as SVG, PNG or a JSON
drawing description.

# Process Layout

	RootSupervisor ("natalchart")
	├── BackgroundSupervisor ("background-layer")
	│   └── ratelimit-sweeper-geocode
	└── APISupervisor ("api-layer")
	    └── http-server

# Configuration

Koanf v2 layers, highest priority first: environment variables, the YAML
file named by CONFIG_PATH (or ./config.yaml), built-in defaults.

	# Server
	PORT=3000
	ENVIRONMENT=production
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Astrology API
	ASTROLOGY_API_KEY=<token>    # chart routes answer 500 without it
	ASTROLOGY_API_URL=https://api.astrology-api.io

	# Geocoder
	GEOCODER_URL=https://nominatim.openstreetmap.org
	GEOCODER_USER_AGENT="natalchart/1.0 (you@example.com)"

	# Limits
	RATE_LIMIT_REQUESTS=100      # per IP per RATE_LIMIT_WINDOW
	GEOCODE_RATE=1               # tokens per second per client
	GEOCODE_BURST=3

	# Wheel
	WHEEL_FORMAT=svg             # svg, png or json
	WHEEL_PNG_SCALE=2

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server stops accepting
connections and drains in-flight requests within SHUTDOWN_TIMEOUT.
*/
package main
