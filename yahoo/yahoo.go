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

// Package yahoo is the adapter for Yahoo Finance's chart API, the keyless
// consumer finance provider. It fetches daily close prices for tickers and
// index symbols, with a best-effort quote lookup for the display title.
package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/macrofeed/macrofeed/refdata"
	"github.com/macrofeed/macrofeed/series"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://query1.finance.yahoo.com"

// Client for querying Yahoo Finance charts and quotes. No API key is
// required.
type Client struct {
	baseURL string
}

// New creates a client.
func New() *Client {
	return &Client{baseURL: URL}
}

// SeriesOptions select the chart window. An explicit date range takes
// precedence over Period, which defaults to 1y. Interval defaults to 1d.
type SeriesOptions struct {
	StartDate string
	EndDate   string
	Period    string // 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max
	Interval  string // 1m, 5m, 1h, 1d, 5d, 1wk, 1mo, 3mo
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			LongName  string `json:"longName"`
			ShortName string `json:"shortName"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// title looks up the display name of the symbol. A failed lookup never
// fails the series; the raw symbol is used instead.
func (c *Client) title(ctx context.Context, id string) string {
	query := make(url.Values)
	query.Set("symbols", id)
	var resp quoteResponse
	uri := c.baseURL + "/v7/finance/quote"
	if err := fetch.FetchJSON(ctx, uri, &resp, query, nil); err != nil {
		logging.Debugf(ctx, "quote lookup for %s failed: %s", id, err.Error())
		return id
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return id
	}
	q := resp.QuoteResponse.Result[0]
	if q.LongName != "" {
		return q.LongName
	}
	if q.ShortName != "" {
		return q.ShortName
	}
	return id
}

func unixDay(date string) (int64, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// Series fetches daily close prices for one ticker.
func (c *Client) Series(ctx context.Context, id string, opts SeriesOptions) (*series.Series, error) {
	interval := opts.Interval
	if interval == "" {
		interval = "1d"
	}
	query := make(url.Values)
	query.Set("interval", interval)
	if opts.StartDate != "" && opts.EndDate != "" {
		p1, err := unixDay(opts.StartDate)
		if err != nil {
			return nil, series.BadInput("invalid start date %q: use YYYY-MM-DD", opts.StartDate)
		}
		// The end bound of the chart API is exclusive, so extend it by a day
		// to keep the range inclusive.
		p2, err := unixDay(opts.EndDate)
		if err != nil {
			return nil, series.BadInput("invalid end date %q: use YYYY-MM-DD", opts.EndDate)
		}
		query.Set("period1", strconv.FormatInt(p1, 10))
		query.Set("period2", strconv.FormatInt(p2+24*3600, 10))
	} else if opts.Period != "" {
		query.Set("range", opts.Period)
	} else {
		query.Set("range", "1y")
	}
	var resp chartResponse
	uri := c.baseURL + "/v8/finance/chart/" + url.PathEscape(id)
	if err := fetch.FetchJSON(ctx, uri, &resp, query, nil); err != nil {
		return nil, series.Upstream(err, "error fetching Yahoo Finance series %s", id)
	}
	if e := resp.Chart.Error; e != nil {
		return nil, series.NotFound("series %s not found: %s", id, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, series.NotFound("no data returned for %s", id)
	}
	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, series.Upstream(nil, "no quote data returned for %s", id)
	}
	closes := result.Indicators.Quote[0].Close
	frequency := interval
	if interval == "1d" {
		frequency = "Daily"
	}
	s := &series.Series{
		ID:                 id,
		Title:              c.title(ctx, id),
		Units:              series.DefaultUnits,
		Frequency:          frequency,
		SeasonalAdjustment: series.DefaultSeasonalAdjustment,
		LastUpdated:        series.Now(),
		Data:               make([]series.DataPoint, 0, len(result.Timestamp)),
	}
	for i, ts := range result.Timestamp {
		p := series.DataPoint{Date: time.Unix(ts, 0).UTC().Format("2006-01-02")}
		if i < len(closes) {
			p.Value = closes[i]
		}
		s.Data = append(s.Data, p)
	}
	s.Finalize(opts.StartDate, opts.EndDate)
	return s, nil
}

// Validate checks the ticker format without calling the provider.
func (c *Client) Validate(symbol string) *series.Validation {
	if strings.TrimSpace(symbol) == "" {
		return &series.Validation{Valid: false, Error: "Symbol cannot be empty"}
	}
	if !refdata.ValidateTicker(symbol) {
		return &series.Validation{Valid: false, Error: fmt.Sprintf(
			"Invalid symbol format: %s. Symbols should be uppercase alphanumeric (e.g., AAPL, MSFT, ^GSPC)", symbol)}
	}
	return &series.Validation{Valid: true}
}

// Suggestions returns autocomplete matches for a partial ticker.
func (c *Client) Suggestions(query string, limit int) []series.Suggestion {
	tickers := refdata.SearchTickers(query, limit)
	out := make([]series.Suggestion, len(tickers))
	for i, t := range tickers {
		out[i] = series.Suggestion{Symbol: t, Type: "ticker"}
	}
	return out
}

// Search is unsupported by the provider and always returns an empty result
// with an explanation.
func (c *Client) Search(ctx context.Context, text string, limit int) (*series.SearchResponse, error) {
	return series.NoSearch(text,
		"Yahoo Finance does not support programmatic search. Please use ticker symbols (e.g., AAPL, MSFT, ^GSPC for S&P 500)."), nil
}
