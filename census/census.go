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

// Package census is the adapter for the U.S. Census Bureau API, the keyless
// government survey provider. Unlike the other providers it exposes raw
// tabular queries next to the normalized series shape, since Census data is
// organized by dataset, variable and geography rather than by series ID.
package census

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/macrofeed/macrofeed/refdata"
	"github.com/macrofeed/macrofeed/series"
	"github.com/stockparfait/errors"
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://api.census.gov/data"

// DefaultDataset is the dataset used by a plain series fetch.
const DefaultDataset = "timeseries/eits/mid"

// fallbackYear is used for year-based datasets outside the known catalog.
const fallbackYear = 2023

// Dataset describes one queryable dataset. Years is empty for timeseries
// datasets, which are not year-scoped.
type Dataset struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Years []int  `json:"years,omitempty"`
}

// Geography describes one geography filter supported by the API.
type Geography struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Variable describes one variable of a dataset.
type Variable struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func yearRange(from, to int) []int {
	ys := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		ys = append(ys, y)
	}
	return ys
}

// YearBasedDatasets is the catalog of known year-scoped datasets.
var YearBasedDatasets = []Dataset{
	{ID: "pep/population", Name: "Population Estimates Program", Years: yearRange(2010, 2024)},
	{ID: "acs/acs5", Name: "American Community Survey 5-Year", Years: yearRange(2010, 2023)},
	{ID: "acs/acs1", Name: "American Community Survey 1-Year", Years: yearRange(2010, 2023)},
	{ID: "dec/pl", Name: "Decennial Census - Population", Years: []int{2020, 2010, 2000}},
}

// TimeseriesDatasets is the catalog of known timeseries datasets.
var TimeseriesDatasets = []Dataset{
	{ID: "timeseries/eits/mid", Name: "Economic Indicators - Monthly/Quarterly/Annual"},
	{ID: "timeseries/eits/retail", Name: "Retail Trade"},
	{ID: "timeseries/eits/manufacturing", Name: "Manufacturing"},
	{ID: "timeseries/eits/construction", Name: "Construction"},
}

// GeographyTypes is the static list of supported geography filters.
var GeographyTypes = []Geography{
	{ID: "us:1", Name: "United States", Level: "national"},
	{ID: "state:*", Name: "All States", Level: "state"},
	{ID: "county:*", Name: "All Counties", Level: "county"},
	{ID: "tract:*", Name: "All Census Tracts", Level: "tract"},
}

// geographyColumns are the response columns that identify a geography or
// time rather than a variable.
var geographyColumns = map[string]bool{
	"time":        true,
	"for":         true,
	"us":          true,
	"NAME":        true,
	"GEO_ID":      true,
	"state":       true,
	"county":      true,
	"tract":       true,
	"block group": true,
}

// Client for querying Census Bureau datasets. No API key is required.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client.
func New() *Client {
	return &Client{
		baseURL: URL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// snippet truncates a response body for inclusion in error messages.
func snippet(body []byte) string {
	s := string(bytes.TrimSpace(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// get performs a GET request and returns the status code and raw body. Only
// transport-level failures are errors; callers branch on the status.
func (c *Client) get(ctx context.Context, uri string, query url.Values) (int, []byte, error) {
	if query != nil {
		uri += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return 0, nil, errors.Annotate(err, "failed to create request for %s", uri)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, errors.Annotate(err, "request failed for %s", uri)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Annotate(err, "failed to read response from %s", uri)
	}
	return resp.StatusCode, body, nil
}

// table is a parsed Census response: a header row followed by data rows.
type table struct {
	headers []string
	rows    [][]string
}

func (t *table) index(col string) int {
	for i, h := range t.headers {
		if h == col {
			return i
		}
	}
	return -1
}

// parseTable decodes the row-oriented JSON payload. A JSON object with an
// "error" key is the provider's soft failure and maps to a bad input.
func parseTable(body []byte) (*table, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var soft map[string]interface{}
		if err := json.Unmarshal(trimmed, &soft); err == nil {
			if msg, ok := soft["error"]; ok {
				return nil, series.BadInput("Census Bureau API error: %v", msg)
			}
		}
		return nil, errors.Reason("unexpected response format: %s", snippet(body))
	}
	var raw [][]*string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errors.Reason("invalid JSON response: %s", snippet(body))
	}
	if len(raw) < 2 {
		return nil, errors.Reason("no data returned: %s", snippet(body))
	}
	t := &table{rows: make([][]string, 0, len(raw)-1)}
	for i, rawRow := range raw {
		row := make([]string, len(rawRow))
		for j, cell := range rawRow {
			if cell != nil {
				row[j] = *cell
			}
		}
		if i == 0 {
			t.headers = row
		} else {
			t.rows = append(t.rows, row)
		}
	}
	return t, nil
}

// normalizeTime converts the provider's time column to YYYY-MM-DD. Formats
// vary by dataset: bare years, YYYYMM, YYYYMMDD, and full timestamps.
// Unrecognized values pass through unchanged.
func normalizeTime(t string) string {
	switch {
	case len(t) == 4:
		return t + "-01-01"
	case len(t) == 6:
		return t[:4] + "-" + t[4:6] + "-01"
	case len(t) == 8:
		return t[:4] + "-" + t[4:6] + "-" + t[6:8]
	case strings.Contains(t, "-"):
		if len(t) > 10 {
			return t[:10]
		}
		return t
	}
	return t
}

// SeriesOptions select the dataset and date window of a series fetch.
type SeriesOptions struct {
	StartDate string
	EndDate   string
	Dataset   string
}

// timeParam builds the time filter of a timeseries request. The provider
// expects "from <year> to <year>" with a default window of 2000 to 2024.
func timeParam(startDate, endDate string) string {
	start, end := 2000, 2024
	if y, ok := leadingYear(startDate); ok {
		start = y
	}
	if y, ok := leadingYear(endDate); ok {
		end = y
	}
	return fmt.Sprintf("from %d to %d", start, end)
}

func leadingYear(date string) (int, bool) {
	if date == "" {
		return 0, false
	}
	if i := strings.Index(date, "-"); i >= 0 {
		date = date[:i]
	}
	y, err := strconv.Atoi(date)
	if err != nil {
		return 0, false
	}
	return y, true
}

// Series fetches one variable of a timeseries dataset and normalizes it.
func (c *Client) Series(ctx context.Context, id string, opts SeriesOptions) (*series.Series, error) {
	dataset := opts.Dataset
	if dataset == "" {
		dataset = DefaultDataset
	}
	query := make(url.Values)
	query.Set("get", id)
	query.Set("for", "us:1")
	query.Set("time", timeParam(opts.StartDate, opts.EndDate))
	status, body, err := c.get(ctx, c.baseURL+"/"+dataset, query)
	if err != nil {
		return nil, series.Upstream(err, "error fetching Census Bureau series %s", id)
	}
	if status == http.StatusNotFound {
		return nil, series.NotFound(
			"variable %q or dataset %q not found; verify the variable exists in this dataset", id, dataset)
	}
	if status != http.StatusOK {
		return nil, series.Upstream(errors.Reason("HTTP %d: %s", status, snippet(body)),
			"error fetching Census Bureau series %s", id)
	}
	t, err := parseTable(body)
	if err != nil {
		if series.KindOf(err) == series.KindBadInput {
			return nil, err
		}
		return nil, series.Upstream(err, "error fetching Census Bureau series %s", id)
	}
	timeIdx := t.index("time")
	if timeIdx < 0 {
		return nil, series.Upstream(errors.Reason(
			"time column not found; available columns: %s", strings.Join(t.headers, ", ")),
			"error fetching Census Bureau series %s", id)
	}
	valueIdx := t.index(id)
	if valueIdx < 0 {
		available := make([]string, 0, len(t.headers))
		for _, h := range t.headers {
			if !geographyColumns[h] {
				available = append(available, h)
			}
		}
		if len(available) > 10 {
			available = available[:10]
		}
		msg := fmt.Sprintf("variable %q not found in dataset %q", id, dataset)
		if len(available) > 0 {
			msg += "; available variables: " + strings.Join(available, ", ")
		}
		return nil, series.NotFound("%s", msg)
	}
	s := &series.Series{
		ID:                 id,
		Title:              "Census Bureau: " + id,
		Frequency:          "Annual",
		SeasonalAdjustment: series.DefaultSeasonalAdjustment,
		LastUpdated:        series.Now(),
		Data:               []series.DataPoint{},
	}
	if strings.HasPrefix(dataset, "timeseries") {
		s.Frequency = "Monthly"
	}
	for _, row := range t.rows {
		if len(row) <= timeIdx || len(row) <= valueIdx {
			continue
		}
		if row[timeIdx] == "" {
			continue
		}
		p := series.DataPoint{Date: normalizeTime(row[timeIdx])}
		if v, err := strconv.ParseFloat(row[valueIdx], 64); err == nil {
			p.Value = series.Float(v)
		}
		s.Data = append(s.Data, p)
	}
	s.Finalize(opts.StartDate, opts.EndDate)
	return s, nil
}

// Datasets lists the known datasets, optionally filtered by type
// ("year_based" or "timeseries").
func (c *Client) Datasets(datasetType string) []Dataset {
	var out []Dataset
	if datasetType == "" || datasetType == "year_based" {
		out = append(out, YearBasedDatasets...)
	}
	if datasetType == "" || datasetType == "timeseries" {
		out = append(out, TimeseriesDatasets...)
	}
	return out
}

// Geographies lists the geography filters available for a dataset.
func (c *Client) Geographies(dataset string) []Geography {
	return GeographyTypes
}

// TimeRange bounds a timeseries query; dates are YYYY-MM-DD or bare years.
type TimeRange struct {
	Start string
	End   string
}

// QueryRequest is a raw tabular query against one dataset.
type QueryRequest struct {
	Dataset   string
	Variables []string
	Geography string     // defaults to us:1
	Year      int        // year-based datasets only
	TimeRange *TimeRange // timeseries datasets only
}

// QueryResult is the tabular result of a query: the raw headers plus one
// map per row. Rows whose length does not match the header are dropped.
type QueryResult struct {
	Dataset   string              `json:"dataset"`
	Year      int                 `json:"year,omitempty"`
	Geography string              `json:"geography"`
	Variables []string            `json:"variables"`
	Headers   []string            `json:"headers"`
	Data      []map[string]string `json:"data"`
	Count     int                 `json:"count"`
}

// catalogYear resolves the default year of a year-based dataset: the most
// recent catalog year, or a recent fallback for unknown datasets.
func catalogYear(dataset string) int {
	for _, d := range YearBasedDatasets {
		if d.ID != dataset {
			continue
		}
		max := 0
		for _, y := range d.Years {
			if y > max {
				max = y
			}
		}
		if max > 0 {
			return max
		}
	}
	return fallbackYear
}

// ExecuteQuery runs a raw query. Timeseries datasets are addressed by name
// and a time window; year-based datasets by year-prefixed path.
func (c *Client) ExecuteQuery(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	if req.Dataset == "" {
		return nil, series.BadInput("dataset cannot be empty")
	}
	if len(req.Variables) == 0 {
		return nil, series.BadInput("variables cannot be empty")
	}
	geography := req.Geography
	if geography == "" {
		geography = "us:1"
	}
	query := make(url.Values)
	query.Set("get", strings.Join(req.Variables, ","))
	query.Set("for", geography)
	year := req.Year
	var uri string
	if strings.HasPrefix(req.Dataset, "timeseries") {
		uri = c.baseURL + "/" + req.Dataset
		start, end := "2020", "2024"
		if req.TimeRange != nil {
			if y, ok := leadingYear(req.TimeRange.Start); ok {
				start = strconv.Itoa(y)
			}
			if y, ok := leadingYear(req.TimeRange.End); ok {
				end = strconv.Itoa(y)
			}
		}
		query.Set("time", "from "+start+" to "+end)
		year = 0
	} else {
		if year == 0 {
			year = catalogYear(req.Dataset)
		}
		uri = c.baseURL + "/" + strconv.Itoa(year) + "/" + req.Dataset
	}
	status, body, err := c.get(ctx, uri, query)
	if err != nil {
		return nil, series.Upstream(err, "error fetching Census data")
	}
	if status == http.StatusNotFound {
		return nil, series.NotFound("dataset %q not found; verify the dataset name", req.Dataset)
	}
	if status != http.StatusOK {
		return nil, series.Upstream(errors.Reason("HTTP %d: %s", status, snippet(body)),
			"error fetching Census data")
	}
	t, err := parseTable(body)
	if err != nil {
		if series.KindOf(err) == series.KindBadInput {
			return nil, err
		}
		return nil, series.Upstream(err, "error fetching Census data")
	}
	res := &QueryResult{
		Dataset:   req.Dataset,
		Year:      year,
		Geography: geography,
		Variables: req.Variables,
		Headers:   t.headers,
		Data:      []map[string]string{},
	}
	for _, row := range t.rows {
		if len(row) != len(t.headers) {
			continue
		}
		m := make(map[string]string, len(t.headers))
		for i, h := range t.headers {
			m[h] = row[i]
		}
		res.Data = append(res.Data, m)
	}
	res.Count = len(res.Data)
	return res, nil
}

// SeriesByYear fetches year-based data for one year.
func (c *Client) SeriesByYear(ctx context.Context, year int, dataset string, variables []string, geography string) (*QueryResult, error) {
	return c.ExecuteQuery(ctx, QueryRequest{
		Dataset:   dataset,
		Variables: variables,
		Geography: geography,
		Year:      year,
	})
}

// Timeseries fetches timeseries data over a time window.
func (c *Client) Timeseries(ctx context.Context, dataset string, variables []string, timeRange *TimeRange, geography string) (*QueryResult, error) {
	return c.ExecuteQuery(ctx, QueryRequest{
		Dataset:   dataset,
		Variables: variables,
		Geography: geography,
		TimeRange: timeRange,
	})
}

// ValidateVariable checks the variable name format without calling the
// provider.
func (c *Client) ValidateVariable(variable string) *series.Validation {
	if strings.TrimSpace(variable) == "" {
		return &series.Validation{Valid: false, Error: "Variable name cannot be empty"}
	}
	if !refdata.ValidateVariable(variable) {
		return &series.Validation{Valid: false, Error: fmt.Sprintf(
			"Invalid variable format: %s. Variables should be uppercase alphanumeric with underscores (e.g., EMPSALUS, B01001_001E)", variable)}
	}
	return &series.Validation{Valid: true}
}

// Suggestions returns autocomplete matches for a partial variable name.
func (c *Client) Suggestions(query, category string, limit int) []series.Suggestion {
	vars := refdata.SearchVariables(query, category, limit)
	out := make([]series.Suggestion, len(vars))
	for i, v := range vars {
		out[i] = series.Suggestion{Symbol: v, Type: "variable"}
	}
	return out
}

// Search is unsupported by the provider and always returns an empty result
// with an explanation.
func (c *Client) Search(ctx context.Context, text string, limit int) (*series.SearchResponse, error) {
	return series.NoSearch(text,
		"Census Bureau API does not support programmatic search. Please use specific variable names from Census datasets."), nil
}
