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

// Package alphavantage is the adapter for Alpha Vantage, the market data
// provider for stocks, forex pairs and cryptocurrencies. All date filtering
// is client-side; the provider has no search API.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/macrofeed/macrofeed/refdata"
	"github.com/macrofeed/macrofeed/series"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
)

// URL is the default query endpoint. It may be overwritten in tests before
// creating a new client.
var URL = "https://www.alphavantage.co/query"

// Client for querying Alpha Vantage time series functions.
type Client struct {
	baseURL string
	apiKey  string
}

// New creates a client. The API key is required; without it the adapter is
// unavailable.
func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, series.Unavailable(
			"Alpha Vantage API key is not configured; set it in the config file or environment")
	}
	return &Client{baseURL: URL, apiKey: apiKey}, nil
}

// SeriesOptions select the provider function and its parameters. Function
// defaults to TIME_SERIES_DAILY, Interval to 60min for intraday functions.
type SeriesOptions struct {
	StartDate string
	EndDate   string
	Function  string
	Interval  string
}

// splitPair splits a forex symbol into its from/to currencies: on "/" when
// present, otherwise the first three letters against the rest.
func splitPair(symbol string) (from, to string) {
	if i := strings.Index(symbol, "/"); i >= 0 {
		return symbol[:i], symbol[i+1:]
	}
	if len(symbol) < 3 {
		return symbol, ""
	}
	return symbol[:3], symbol[3:]
}

func (c *Client) query(symbol string, opts SeriesOptions) (url.Values, error) {
	function := opts.Function
	if function == "" {
		function = "TIME_SERIES_DAILY"
	}
	interval := opts.Interval
	if interval == "" {
		interval = "60min"
	}
	v := make(url.Values)
	v.Set("function", function)
	v.Set("apikey", c.apiKey)
	switch function {
	case "TIME_SERIES_DAILY", "TIME_SERIES_INTRADAY":
		v.Set("symbol", symbol)
		v.Set("outputsize", "compact")
		if function == "TIME_SERIES_INTRADAY" {
			v.Set("interval", interval)
		}
	case "TIME_SERIES_WEEKLY", "TIME_SERIES_MONTHLY":
		v.Set("symbol", symbol)
	case "FX_DAILY":
		from, to := splitPair(symbol)
		v.Set("from_symbol", from)
		v.Set("to_symbol", to)
		v.Set("outputsize", "compact")
	case "CRYPTO_INTRADAY":
		v.Set("symbol", symbol)
		v.Set("market", "USD")
		v.Set("interval", interval)
		v.Set("outputsize", "compact")
	case "DIGITAL_CURRENCY_DAILY":
		v.Set("symbol", symbol)
		v.Set("market", "USD")
	default:
		return nil, series.BadInput("unsupported function: %s", function)
	}
	return v, nil
}

// closeColumn picks the column holding the series value: "close", then
// "4. close", then the first numeric column of the first row in sorted
// column order.
func closeColumn(ts map[string]map[string]string) (string, error) {
	var first map[string]string
	for _, row := range ts {
		first = row
		break
	}
	if _, ok := first["close"]; ok {
		return "close", nil
	}
	if _, ok := first["4. close"]; ok {
		return "4. close", nil
	}
	cols := make([]string, 0, len(first))
	for col := range first {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		if _, err := strconv.ParseFloat(first[col], 64); err == nil {
			return col, nil
		}
	}
	return "", errors.Reason("no numeric data columns found")
}

// timeSeries finds the payload object among the top-level keys: the first
// key in sorted order, other than the metadata, that decodes as a map of
// rows.
func timeSeries(payload map[string]json.RawMessage) (map[string]map[string]string, error) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "Meta Data" {
			continue
		}
		var ts map[string]map[string]string
		if err := json.Unmarshal(payload[k], &ts); err == nil && len(ts) > 0 {
			return ts, nil
		}
	}
	return nil, errors.Reason("no time series data in response")
}

// Series fetches one symbol and normalizes it to close prices. The provider
// reports soft failures as 200 responses with a diagnostic key, which are
// classified here: a provider error message means the symbol is unknown, a
// note or information message means the rate limit was hit.
func (c *Client) Series(ctx context.Context, id string, opts SeriesOptions) (*series.Series, error) {
	query, err := c.query(id, opts)
	if err != nil {
		return nil, err
	}
	function := query.Get("function")
	var payload map[string]json.RawMessage
	if err := fetch.FetchJSON(ctx, c.baseURL, &payload, query, nil); err != nil {
		return nil, series.Upstream(err, "error fetching Alpha Vantage series %s", id)
	}
	var msg string
	if raw, ok := payload["Error Message"]; ok && json.Unmarshal(raw, &msg) == nil {
		return nil, series.NotFound("series %s not found: %s", id, msg)
	}
	for _, k := range []string{"Note", "Information"} {
		if raw, ok := payload[k]; ok && json.Unmarshal(raw, &msg) == nil {
			return nil, series.Upstream(errors.Reason("%s", msg),
				"Alpha Vantage rate limit reached for %s", id)
		}
	}
	ts, err := timeSeries(payload)
	if err != nil {
		return nil, series.Upstream(err, "no data returned for %s", id)
	}
	col, err := closeColumn(ts)
	if err != nil {
		return nil, series.Upstream(err, "error fetching Alpha Vantage series %s", id)
	}
	title := fmt.Sprintf("%s (%s)", id, function)
	var meta map[string]string
	if raw, ok := payload["Meta Data"]; ok && json.Unmarshal(raw, &meta) == nil {
		if sym, ok := meta["2. Symbol"]; ok {
			title = sym
		}
	}
	frequency := "Unknown"
	if strings.Contains(function, "DAILY") {
		frequency = "Daily"
	} else if strings.Contains(function, "INTRADAY") {
		frequency = "Intraday"
	}
	s := &series.Series{
		ID:                 id,
		Title:              title,
		Units:              series.DefaultUnits,
		Frequency:          frequency,
		SeasonalAdjustment: series.DefaultSeasonalAdjustment,
		LastUpdated:        series.Now(),
		Data:               make([]series.DataPoint, 0, len(ts)),
	}
	for date, row := range ts {
		if len(date) > 10 {
			date = date[:10]
		}
		p := series.DataPoint{Date: date}
		if v, err := strconv.ParseFloat(row[col], 64); err == nil {
			p.Value = series.Float(v)
		}
		s.Data = append(s.Data, p)
	}
	s.Finalize(opts.StartDate, opts.EndDate)
	return s, nil
}

// Validate checks the symbol format without calling the provider.
func (c *Client) Validate(symbol string) *series.Validation {
	if strings.TrimSpace(symbol) == "" {
		return &series.Validation{Valid: false, Error: "Symbol cannot be empty"}
	}
	ok, _ := refdata.ValidateSymbol(symbol)
	if !ok {
		if strings.Contains(symbol, "/") {
			return &series.Validation{Valid: false, Error: fmt.Sprintf(
				"Invalid forex pair format: %s. Use format XXX/YYY (e.g., EUR/USD, GBP/USD)", symbol)}
		}
		return &series.Validation{Valid: false, Error: fmt.Sprintf(
			"Invalid symbol format: %s. Use stock symbols (e.g., AAPL) or crypto (e.g., BTC)", symbol)}
	}
	return &series.Validation{Valid: true}
}

// Suggestions returns autocomplete matches for a partial symbol.
func (c *Client) Suggestions(query, category string, limit int) []series.Suggestion {
	matches := refdata.SearchSymbols(query, category, limit)
	out := make([]series.Suggestion, len(matches))
	for i, m := range matches {
		out[i] = series.Suggestion{Symbol: m.Symbol, Type: m.Type}
	}
	return out
}

// Search is unsupported by the provider and always returns an empty result
// with an explanation.
func (c *Client) Search(ctx context.Context, text string, limit int) (*series.SearchResponse, error) {
	return series.NoSearch(text,
		"Alpha Vantage does not support search. Please use stock symbols (e.g., AAPL, MSFT) or forex pairs (e.g., EUR/USD)."), nil
}
