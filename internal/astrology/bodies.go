// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package astrology

import (
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/tomtom215/natalchart/internal/wheel"
)

// Keys tried for a body's label and longitude, in priority order.
var (
	labelKeys     = []string{"name", "planet"}
	longitudeKeys = []string{"longitude", "abs_pos", "full_degree"}
)

// ExtractBodies normalizes an upstream chart payload into a body list.
//
// The first present container wins, in this order: "planets",
// "data.planets", "data", then the document itself. A container that is an
// array yields its entries in order; an object yields its values in sorted
// key order, and the key serves as the label fallback. Entries whose
// longitude is missing or not a JSON number are kept with a nil longitude;
// the wheel drops them.
func ExtractBodies(raw []byte) ([]wheel.CelestialBody, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("astrology: decode chart: %w", err)
	}

	switch c := container(doc).(type) {
	case []interface{}:
		out := make([]wheel.CelestialBody, 0, len(c))
		for _, entry := range c {
			out = append(out, bodyFrom(entry, ""))
		}
		return out, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]wheel.CelestialBody, 0, len(keys))
		for _, k := range keys {
			out = append(out, bodyFrom(c[k], k))
		}
		return out, nil
	default:
		return nil, ErrNoBodies
	}
}

func container(doc interface{}) interface{} {
	root, ok := doc.(map[string]interface{})
	if !ok {
		return doc
	}
	if v := present(root["planets"]); v != nil {
		return v
	}
	if data, ok := root["data"].(map[string]interface{}); ok {
		if v := present(data["planets"]); v != nil {
			return v
		}
	}
	if v := present(root["data"]); v != nil {
		return v
	}
	return root
}

// present treats JSON null and scalar falsy values as absent.
func present(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		if !t {
			return nil
		}
	case string:
		if t == "" {
			return nil
		}
	case float64:
		if t == 0 {
			return nil
		}
	}
	return v
}

func bodyFrom(entry interface{}, key string) wheel.CelestialBody {
	b := wheel.CelestialBody{Label: key}
	obj, ok := entry.(map[string]interface{})
	if !ok {
		return b
	}
	for _, k := range labelKeys {
		if s, ok := obj[k].(string); ok && s != "" {
			b.Label = s
			break
		}
	}
	for _, k := range longitudeKeys {
		if f, ok := obj[k].(float64); ok {
			b.Longitude = &f
			break
		}
	}
	return b
}
