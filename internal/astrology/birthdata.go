// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package astrology

import (
	"errors"
	"strings"

	"github.com/tomtom215/natalchart/internal/validation"
)

// DefaultTimezone is sent when the caller gives none.
const DefaultTimezone = "UTC"

// BirthInput is the raw birth data as received from a client.
type BirthInput struct {
	Date      string   `json:"date" validate:"required,birthdate"`
	Time      string   `json:"time" validate:"required,birthtime"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Timezone  string   `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// BirthData is validated birth data in the shape the upstream expects.
type BirthData struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Day       int     `json:"day"`
	Hour      int     `json:"hour"`
	Minute    int     `json:"minute"`
	Second    int     `json:"second"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// ParseBirthData validates in and splits the date and time into fields.
// HH:MM:SS is accepted but charts are cast to the minute, so Second is
// always 0. Validation failures are returned as
// *validation.RequestValidationError.
func ParseBirthData(in BirthInput) (BirthData, error) {
	if verr := validation.ValidateStruct(&in); verr != nil {
		return BirthData{}, verr
	}

	d, err := validation.ParseDate(in.Date)
	if err != nil {
		return BirthData{}, err
	}
	h, m, _, err := validation.ParseClock(in.Time)
	if err != nil {
		return BirthData{}, err
	}

	tz := strings.TrimSpace(in.Timezone)
	if tz == "" {
		tz = DefaultTimezone
	}

	return BirthData{
		Year:      d.Year(),
		Month:     int(d.Month()),
		Day:       d.Day(),
		Hour:      h,
		Minute:    m,
		Second:    0,
		Latitude:  *in.Latitude,
		Longitude: *in.Longitude,
		Timezone:  tz,
	}, nil
}

// MissingRequired reports whether err is a validation failure caused by an
// absent required field, as opposed to a malformed one.
func MissingRequired(err error) bool {
	var verr *validation.RequestValidationError
	if !errors.As(err, &verr) {
		return false
	}
	for _, fe := range verr.Errors() {
		if fe.Tag == "required" {
			return true
		}
	}
	return false
}
