// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

// Package models defines the request and response types of the HTTP API,
// including the APIResponse envelope shared by every JSON route.
//
// It is a leaf package: conversions to astrology and wheel types live in the
// api package.
package models
