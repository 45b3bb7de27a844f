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

// Package fred is the adapter for FRED, the government statistics provider.
// It is the only source supporting batch fetch and full server-side search.
package fred

import (
	"context"
	"net/url"
	"strconv"

	"github.com/macrofeed/macrofeed/series"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://api.stlouisfed.org/fred"

// Client for querying FRED series and search endpoints.
type Client struct {
	baseURL string
	apiKey  string
}

// New creates a client. The API key is required; without it the adapter is
// unavailable.
func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, series.Unavailable(
			"FRED API key is not configured; set it in the config file or environment")
	}
	return &Client{baseURL: URL, apiKey: apiKey}, nil
}

// SeriesOptions are the optional parameters of a series fetch. All fields
// are passed to the provider; the date range is additionally re-applied
// client-side.
type SeriesOptions struct {
	StartDate         string // YYYY-MM-DD
	EndDate           string // YYYY-MM-DD
	Limit             int    // max. number of observations, 0 = no limit
	Frequency         string // d, w, m, q, a
	AggregationMethod string // avg, sum, eop
	Units             string // lin, chg, ch1, pch, pc1, pca, cch, cca, log
}

// SearchOptions are the optional parameters of a free-text search.
type SearchOptions struct {
	Limit     int    // max. number of results, default 20
	OrderBy   string // search_rank, series_id, title, units, frequency
	SortOrder string // asc or desc
}

func (c *Client) values() url.Values {
	v := make(url.Values)
	v.Set("api_key", c.apiKey)
	v.Set("file_type", "json")
	return v
}

type observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type observationsPage struct {
	Observations []observation `json:"observations"`
}

type seriesInfo struct {
	ID                      string `json:"id"`
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

type seriesPage struct {
	Seriess []seriesInfo `json:"seriess"`
}

func (c *Client) fetchInfo(ctx context.Context, id string) (*seriesInfo, error) {
	query := c.values()
	query.Set("series_id", id)
	var page seriesPage
	if err := fetch.FetchJSON(ctx, c.baseURL+"/series", &page, query, nil); err != nil {
		return nil, errors.Annotate(err, "failed to fetch series info for %s", id)
	}
	if len(page.Seriess) == 0 {
		return nil, errors.Reason("series %s not found", id)
	}
	return &page.Seriess[0], nil
}

// Series fetches the observations of one series and normalizes them. A
// missing or unparseable observation value becomes a null data point.
func (c *Client) Series(ctx context.Context, id string, opts SeriesOptions) (*series.Series, error) {
	query := c.values()
	query.Set("series_id", id)
	if opts.StartDate != "" {
		query.Set("observation_start", opts.StartDate)
	}
	if opts.EndDate != "" {
		query.Set("observation_end", opts.EndDate)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Frequency != "" {
		query.Set("frequency", opts.Frequency)
	}
	if opts.AggregationMethod != "" {
		query.Set("aggregation_method", opts.AggregationMethod)
	}
	if opts.Units != "" {
		query.Set("units", opts.Units)
	}
	var page observationsPage
	uri := c.baseURL + "/series/observations"
	if err := fetch.FetchJSON(ctx, uri, &page, query, nil); err != nil {
		return nil, series.Upstream(err, "error fetching FRED series %s", id)
	}
	info, err := c.fetchInfo(ctx, id)
	if err != nil {
		return nil, series.Upstream(err, "error fetching FRED series %s", id)
	}
	s := &series.Series{
		ID:                 id,
		Title:              info.Title,
		Units:              info.Units,
		Frequency:          info.Frequency,
		SeasonalAdjustment: info.SeasonalAdjustment,
		LastUpdated:        info.LastUpdated,
		Data:               make([]series.DataPoint, len(page.Observations)),
	}
	for i, o := range page.Observations {
		p := series.DataPoint{Date: o.Date}
		if v, err := strconv.ParseFloat(o.Value, 64); err == nil {
			p.Value = series.Float(v)
		}
		s.Data[i] = p
	}
	s.Finalize(opts.StartDate, opts.EndDate)
	return s, nil
}

// Info fetches the full metadata of one series.
func (c *Client) Info(ctx context.Context, id string) (*series.Info, error) {
	info, err := c.fetchInfo(ctx, id)
	if err != nil {
		return nil, series.Upstream(err, "error fetching series info for %s", id)
	}
	return &series.Info{
		ID:                      info.ID,
		Title:                   info.Title,
		ObservationStart:        info.ObservationStart,
		ObservationEnd:          info.ObservationEnd,
		Frequency:               info.Frequency,
		FrequencyShort:          info.FrequencyShort,
		Units:                   info.Units,
		UnitsShort:              info.UnitsShort,
		SeasonalAdjustment:      info.SeasonalAdjustment,
		SeasonalAdjustmentShort: info.SeasonalAdjustmentShort,
		LastUpdated:             info.LastUpdated,
		Popularity:              info.Popularity,
		Notes:                   info.Notes,
	}, nil
}

// Search runs a free-text series search with server-side ranking.
func (c *Client) Search(ctx context.Context, text string, opts SearchOptions) (*series.SearchResponse, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	query := c.values()
	query.Set("search_text", text)
	query.Set("limit", strconv.Itoa(limit))
	if opts.OrderBy != "" {
		query.Set("order_by", opts.OrderBy)
	}
	if opts.SortOrder != "" {
		query.Set("sort_order", opts.SortOrder)
	}
	var page seriesPage
	uri := c.baseURL + "/series/search"
	if err := fetch.FetchJSON(ctx, uri, &page, query, nil); err != nil {
		return nil, series.Upstream(err, "error searching FRED for %q", text)
	}
	resp := &series.SearchResponse{
		Query:   text,
		Results: make([]series.SearchResult, len(page.Seriess)),
		Count:   len(page.Seriess),
	}
	for i, s := range page.Seriess {
		resp.Results[i] = series.SearchResult{
			ID:                 s.ID,
			Title:              s.Title,
			Units:              s.Units,
			Frequency:          s.Frequency,
			SeasonalAdjustment: s.SeasonalAdjustment,
			Popularity:         s.Popularity,
		}
	}
	return resp, nil
}

// MultipleSeries fetches several series, attempting each independently. A
// failed item is recorded in the error list and never aborts the batch.
// Successes and failures keep the input order of their IDs.
func (c *Client) MultipleSeries(ctx context.Context, ids []string, startDate, endDate string) (*series.MultiSeries, error) {
	if len(ids) == 0 {
		return nil, series.BadInput("series IDs cannot be empty")
	}
	res := &series.MultiSeries{
		Series: make(map[string]*series.Series),
		Errors: []series.ItemError{},
	}
	for _, id := range ids {
		s, err := c.Series(ctx, id, SeriesOptions{StartDate: startDate, EndDate: endDate})
		if err != nil {
			logging.Warningf(ctx, "batch fetch: series %s failed: %s", id, err.Error())
			res.Errors = append(res.Errors, series.ItemError{ID: id, Error: err.Error()})
			continue
		}
		res.Series[id] = s
	}
	res.Successful = len(res.Series)
	res.Failed = len(res.Errors)
	logging.Infof(ctx, "batch fetch: %d succeeded, %d failed out of %d series",
		res.Successful, res.Failed, len(ids))
	return res, nil
}
