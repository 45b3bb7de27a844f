// Copyright 2025 MacroFeed

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package series defines the canonical time-series schema which every
// provider adapter must produce, together with the shared date filtering
// and sorting helpers and the error taxonomy of the adapter boundary.
package series

import (
	"sort"
	"time"
)

// Default metadata values for providers that have no concept of the
// corresponding field.
const (
	DefaultSeasonalAdjustment = "Not Seasonally Adjusted"
	DefaultUnits              = "Price"
	DefaultFrequency          = "Annual"
)

// DataPoint is a single observation. A nil Value marshals as JSON null and
// records an observation the provider reported as missing or unparseable.
type DataPoint struct {
	Date  string   `json:"date"` // YYYY-MM-DD
	Value *float64 `json:"value"`
}

// Float is a convenience constructor for an observed value.
func Float(v float64) *float64 { return &v }

// Series is the universal output shape of all adapters.
type Series struct {
	ID                 string      `json:"series_id"`
	Title              string      `json:"title"`
	Units              string      `json:"units"`
	Frequency          string      `json:"frequency"`
	SeasonalAdjustment string      `json:"seasonal_adjustment"`
	LastUpdated        string      `json:"last_updated"`
	ObservationStart   string      `json:"observation_start"`
	ObservationEnd     string      `json:"observation_end"`
	Data               []DataPoint `json:"data"`
	DataPoints         int         `json:"data_points"`
	Source             string      `json:"source,omitempty"`
}

// Now returns the normalization timestamp recorded as LastUpdated by sources
// that do not report freshness themselves.
func Now() string {
	return time.Now().Format(time.RFC3339)
}

// FilterRange keeps the points whose date falls within [start, end],
// inclusive on both bounds, comparing date strings lexicographically.
// Empty bounds are ignored.
func FilterRange(points []DataPoint, start, end string) []DataPoint {
	if start == "" && end == "" {
		return points
	}
	filtered := make([]DataPoint, 0, len(points))
	for _, p := range points {
		if start != "" && p.Date < start {
			continue
		}
		if end != "" && p.Date > end {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// SortByDate sorts points in place by ascending date string. The sort is
// stable, so equal dates keep their provider order.
func SortByDate(points []DataPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
}

// Bounds returns the min and max date of the points, assuming they are
// sorted, or empty strings when there are none.
func Bounds(points []DataPoint) (start, end string) {
	if len(points) == 0 {
		return "", ""
	}
	return points[0].Date, points[len(points)-1].Date
}

// Finalize applies the canonical normalization order to s.Data: filter by the
// inclusive [start, end] range, then sort ascending by date, then derive the
// observation bounds and the point count. Filtering strictly precedes
// sorting.
func (s *Series) Finalize(start, end string) {
	s.Data = FilterRange(s.Data, start, end)
	SortByDate(s.Data)
	s.ObservationStart, s.ObservationEnd = Bounds(s.Data)
	s.DataPoints = len(s.Data)
}

// SearchResult is a single series search hit. Popularity is 0 for providers
// without a ranking concept.
type SearchResult struct {
	ID                 string `json:"series_id"`
	Title              string `json:"title"`
	Units              string `json:"units"`
	Frequency          string `json:"frequency"`
	SeasonalAdjustment string `json:"seasonal_adjustment"`
	Popularity         int    `json:"popularity"`
}

// SearchResponse is the result of a free-text series search. Message carries
// an explanation for providers that do not support search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
	Message string         `json:"message,omitempty"`
}

// NoSearch builds the empty response of a provider without a search API.
func NoSearch(query, message string) *SearchResponse {
	return &SearchResponse{
		Query:   query,
		Results: []SearchResult{},
		Count:   0,
		Message: message,
	}
}

// Info is the full provider metadata of a single series, for providers that
// report it (FRED).
type Info struct {
	ID                      string `json:"series_id"`
	Title                   string `json:"title"`
	ObservationStart        string `json:"observation_start"`
	ObservationEnd          string `json:"observation_end"`
	Frequency               string `json:"frequency"`
	FrequencyShort          string `json:"frequency_short"`
	Units                   string `json:"units"`
	UnitsShort              string `json:"units_short"`
	SeasonalAdjustment      string `json:"seasonal_adjustment"`
	SeasonalAdjustmentShort string `json:"seasonal_adjustment_short"`
	LastUpdated             string `json:"last_updated"`
	Popularity              int    `json:"popularity"`
	Notes                   string `json:"notes"`
}

// ItemError records one failed series of a batch request.
type ItemError struct {
	ID    string `json:"series_id"`
	Error string `json:"error"`
}

// MultiSeries is the result of a batch fetch: per-item successes and
// failures, where no individual failure aborts the batch.
type MultiSeries struct {
	Series     map[string]*Series `json:"series"`
	Errors     []ItemError        `json:"errors"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Source     string             `json:"source,omitempty"`
}

// Validation is the outcome of a format-only symbol or variable check.
type Validation struct {
	Valid  bool   `json:"is_valid"`
	Error  string `json:"error_message,omitempty"`
	Source string `json:"source,omitempty"`
	Input  string `json:"input,omitempty"`
}

// Suggestion is a single autocomplete hit with its symbol category.
type Suggestion struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"`
}
