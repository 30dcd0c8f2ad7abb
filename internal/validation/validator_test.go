// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package validation

import (
	"strings"
	"testing"
)

type birthRequest struct {
	Name      string   `json:"name" validate:"omitempty,max=20"`
	Date      string   `json:"date" validate:"required,birthdate"`
	Time      string   `json:"time" validate:"required,birthtime"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Timezone  string   `json:"timezone" validate:"omitempty,timezone"`
	Format    string   `json:"format" validate:"omitempty,oneof=svg png"`
}

func ptr(f float64) *float64 { return &f }

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []birthRequest{
		{Date: "1990-07-04", Time: "13:45", Latitude: ptr(51.5), Longitude: ptr(-0.12)},
		{Date: "2000-02-29", Time: "00:00:30", Latitude: ptr(0), Longitude: ptr(0), Timezone: "Europe/Lisbon"},
		{Date: "1985-12-31", Time: "23:59", Latitude: ptr(-90), Longitude: ptr(180), Timezone: "UTC", Format: "png"},
	}
	for i, req := range tests {
		if err := ValidateStruct(&req); err != nil {
			t.Errorf("case %d: unexpected error %v", i, err)
		}
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	base := func() birthRequest {
		return birthRequest{Date: "1990-07-04", Time: "13:45", Latitude: ptr(10), Longitude: ptr(10)}
	}
	tests := []struct {
		name   string
		mutate func(*birthRequest)
		field  string
		tag    string
		msg    string
	}{
		{"missing date", func(r *birthRequest) { r.Date = "" }, "date", "required", "date is required"},
		{"bad date", func(r *birthRequest) { r.Date = "04/07/1990" }, "date", "birthdate", "YYYY-MM-DD"},
		{"impossible date", func(r *birthRequest) { r.Date = "2001-02-29" }, "date", "birthdate", ""},
		{"bad time", func(r *birthRequest) { r.Time = "25:00" }, "time", "birthtime", "HH:MM"},
		{"missing latitude", func(r *birthRequest) { r.Latitude = nil }, "latitude", "required", ""},
		{"latitude out of range", func(r *birthRequest) { r.Latitude = ptr(91) }, "latitude", "latitude", "-90 to 90"},
		{"longitude out of range", func(r *birthRequest) { r.Longitude = ptr(-181) }, "longitude", "longitude", ""},
		{"unknown zone", func(r *birthRequest) { r.Timezone = "Mars/Olympus" }, "timezone", "timezone", "IANA"},
		{"format", func(r *birthRequest) { r.Format = "gif" }, "format", "oneof", "one of: svg png"},
		{"long name", func(r *birthRequest) { r.Name = strings.Repeat("x", 21) }, "name", "max", "at most 20 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := base()
			tt.mutate(&req)
			verr := ValidateStruct(&req)
			if verr == nil {
				t.Fatal("expected validation error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("errors = %v, want one", errs)
			}
			if errs[0].Field != tt.field || errs[0].Tag != tt.tag {
				t.Errorf("got %s/%s, want %s/%s", errs[0].Field, errs[0].Tag, tt.field, tt.tag)
			}
			if !strings.Contains(errs[0].Message, tt.msg) {
				t.Errorf("message %q missing %q", errs[0].Message, tt.msg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&birthRequest{})
	if verr == nil {
		t.Fatal("expected errors for empty request")
	}
	if got := verr.Fields(); len(got) != 4 || got[0] != "date" {
		t.Errorf("fields = %v", got)
	}
	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q", apiErr.Code)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error details should list fields")
	}

	one := ValidateStruct(&birthRequest{Date: "x", Time: "10:00", Latitude: ptr(1), Longitude: ptr(1)}).ToAPIError()
	if one.Details["field"] != "date" {
		t.Errorf("single error details = %v", one.Details)
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	h, m, s, err := ParseClock("07:05:09")
	if err != nil || h != 7 || m != 5 || s != 9 {
		t.Errorf("ParseClock = %d %d %d %v", h, m, s, err)
	}
	h, m, s, err = ParseClock(" 18:30 ")
	if err != nil || h != 18 || m != 30 || s != 0 {
		t.Errorf("ParseClock = %d %d %d %v", h, m, s, err)
	}
	if _, _, _, err := ParseClock("6pm"); err == nil {
		t.Error("expected error for 6pm")
	}
}
