// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/wheel", "200"))
	RecordAPIRequest("POST", "/api/v1/wheel", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/wheel", "200"))
	if after-before != 1 {
		t.Errorf("counter delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("gauge = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("gauge = %v, want %v", got, before)
	}
}

func TestRecordUpstream(t *testing.T) {
	tests := []struct {
		name   string
		status int
		label  string
	}{
		{"ok response", 200, "200"},
		{"upstream error status", 502, "502"},
		{"transport error", 0, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := UpstreamRequestsTotal.WithLabelValues("astrology", "natal", tt.label)
			before := testutil.ToFloat64(c)
			RecordUpstream("astrology", "natal", tt.status, time.Second)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("delta = %v, want 1", got)
			}
		})
	}
}

func TestRecordWheelRender(t *testing.T) {
	renders := WheelRendersTotal.WithLabelValues("svg")
	beforeRenders := testutil.ToFloat64(renders)
	beforeDropped := testutil.ToFloat64(WheelBodiesDropped)

	RecordWheelRender("svg", 2, time.Millisecond)
	RecordWheelRender("svg", 0, time.Millisecond)

	if got := testutil.ToFloat64(renders) - beforeRenders; got != 2 {
		t.Errorf("renders delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(WheelBodiesDropped) - beforeDropped; got != 2 {
		t.Errorf("dropped delta = %v, want 2", got)
	}
}

func TestRecordRateLimitRejection(t *testing.T) {
	c := RateLimitRejections.WithLabelValues("geocode")
	before := testutil.ToFloat64(c)
	RecordRateLimitRejection("geocode")
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("delta = %v, want 1", got)
	}
}
