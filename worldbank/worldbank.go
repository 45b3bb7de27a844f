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

// Package worldbank is the adapter for the World Bank indicators API, the
// keyless development bank provider. Observations are annual; years are
// normalized to January 1st dates.
package worldbank

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/macrofeed/macrofeed/series"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://api.worldbank.org/v2"

// Client for querying World Bank indicators. No API key is required.
type Client struct {
	baseURL string
}

// New creates a client.
func New() *Client {
	return &Client{baseURL: URL}
}

// SeriesOptions select the country scope and date window of an indicator
// fetch. Dates may be YYYY or YYYY-MM-DD; only the year is sent to the
// provider. Country defaults to USA; "all" selects every country.
type SeriesOptions struct {
	StartDate string
	EndDate   string
	Country   string
}

// SearchOptions control a free-text indicator search. The provider has no
// server-side ordering, so OrderBy ("title" or "series_id") and SortOrder
// ("asc" or "desc") are applied client-side.
type SearchOptions struct {
	Limit     int
	OrderBy   string
	SortOrder string
}

type indicatorRef struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type record struct {
	Indicator indicatorRef `json:"indicator"`
	Date      string       `json:"date"`
	Value     *float64     `json:"value"`
}

// year extracts the leading year of a YYYY or YYYY-MM-DD date string.
func year(date string) (int, bool) {
	if i := strings.Index(date, "-"); i >= 0 {
		date = date[:i]
	}
	y, err := strconv.Atoi(date)
	if err != nil {
		return 0, false
	}
	return y, true
}

// Series fetches one indicator for one country scope.
func (c *Client) Series(ctx context.Context, id string, opts SeriesOptions) (*series.Series, error) {
	country := opts.Country
	if country == "" {
		country = "USA"
	}
	query := make(url.Values)
	query.Set("format", "json")
	query.Set("per_page", "10000")
	if startYear, ok := year(opts.StartDate); ok {
		endYear := time.Now().Year()
		if y, ok := year(opts.EndDate); ok {
			endYear = y
		}
		query.Set("date", strconv.Itoa(startYear)+":"+strconv.Itoa(endYear))
	}
	uri := c.baseURL + "/country/" + url.PathEscape(country) + "/indicator/" + url.PathEscape(id)
	var payload []json.RawMessage
	if err := fetch.FetchJSON(ctx, uri, &payload, query, nil); err != nil {
		return nil, series.Upstream(err, "error fetching World Bank series %s", id)
	}
	if len(payload) < 2 {
		return nil, series.NotFound("no data returned for indicator %s", id)
	}
	var records []record
	if err := json.Unmarshal(payload[1], &records); err != nil {
		return nil, series.Upstream(errors.Annotate(err, "failed to parse records"),
			"error fetching World Bank series %s", id)
	}
	if len(records) == 0 {
		return nil, series.NotFound("no data records found for %s", id)
	}
	title := records[0].Indicator.Value
	if title == "" {
		title = id
	}
	s := &series.Series{
		ID:    id,
		Title: title,
		// The provider reports no units; the indicator name doubles as one.
		Units:              records[0].Indicator.Value,
		Frequency:          series.DefaultFrequency,
		SeasonalAdjustment: series.DefaultSeasonalAdjustment,
		LastUpdated:        series.Now(),
		Data:               make([]series.DataPoint, 0, len(records)),
	}
	for _, r := range records {
		s.Data = append(s.Data, series.DataPoint{
			Date:  r.Date + "-01-01",
			Value: r.Value,
		})
	}
	// Bounds apply client-side only in full date form; bare years were
	// already resolved server-side.
	start, end := "", ""
	if len(opts.StartDate) == 10 {
		start = opts.StartDate
	}
	if len(opts.EndDate) == 10 {
		end = opts.EndDate
	}
	s.Finalize(start, end)
	return s, nil
}

// Search runs a free-text indicator search. Matching is server-side,
// ordering is client-side.
func (c *Client) Search(ctx context.Context, text string, opts SearchOptions) (*series.SearchResponse, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	query := make(url.Values)
	query.Set("format", "json")
	query.Set("per_page", strconv.Itoa(limit))
	query.Set("q", text)
	var payload []json.RawMessage
	if err := fetch.FetchJSON(ctx, c.baseURL+"/indicator", &payload, query, nil); err != nil {
		return nil, series.Upstream(err, "error searching World Bank for %q", text)
	}
	resp := &series.SearchResponse{Query: text, Results: []series.SearchResult{}}
	if len(payload) < 2 {
		return resp, nil
	}
	var records []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(payload[1], &records); err != nil {
		return nil, series.Upstream(errors.Annotate(err, "failed to parse indicators"),
			"error searching World Bank for %q", text)
	}
	if len(records) > limit {
		records = records[:limit]
	}
	for _, r := range records {
		resp.Results = append(resp.Results, series.SearchResult{
			ID:                 r.ID,
			Title:              r.Name,
			Frequency:          series.DefaultFrequency,
			SeasonalAdjustment: series.DefaultSeasonalAdjustment,
		})
	}
	if opts.OrderBy != "" && opts.SortOrder != "" {
		desc := opts.SortOrder == "desc"
		key := func(r series.SearchResult) string {
			if opts.OrderBy == "series_id" {
				return strings.ToLower(r.ID)
			}
			return strings.ToLower(r.Title)
		}
		if opts.OrderBy == "title" || opts.OrderBy == "series_id" {
			sort.SliceStable(resp.Results, func(i, j int) bool {
				if desc {
					return key(resp.Results[j]) < key(resp.Results[i])
				}
				return key(resp.Results[i]) < key(resp.Results[j])
			})
		}
	}
	resp.Count = len(resp.Results)
	return resp, nil
}
