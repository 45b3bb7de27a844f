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

// Package source routes normalized data requests to the provider adapters.
// A Hub owns one client per configured provider; keyless providers are
// always available, keyed ones only when their credential is set.
package source

import (
	"context"

	"github.com/macrofeed/macrofeed/alphavantage"
	"github.com/macrofeed/macrofeed/census"
	"github.com/macrofeed/macrofeed/fred"
	"github.com/macrofeed/macrofeed/series"
	"github.com/macrofeed/macrofeed/worldbank"
	"github.com/macrofeed/macrofeed/yahoo"
)

// Kind identifies a data provider.
type Kind string

// The supported providers.
const (
	FRED         Kind = "fred"
	AlphaVantage Kind = "alphavantage"
	YFinance     Kind = "yfinance"
	WorldBank    Kind = "worldbank"
	Census       Kind = "census"
)

// Kinds lists all providers in their catalog order.
var Kinds = []Kind{FRED, AlphaVantage, YFinance, WorldBank, Census}

// ParseKind validates a provider name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if Kind(s) == k {
			return k, nil
		}
	}
	return "", series.BadInput(
		"unknown source %q; supported sources: fred, alphavantage, yfinance, worldbank, census", s)
}

// Config holds the provider credentials. Keyless providers need none.
type Config struct {
	FREDKey         string `toml:"fred_api_key"`
	AlphaVantageKey string `toml:"alpha_vantage_api_key"`
}

// Hub dispatches requests to the configured provider adapters.
type Hub struct {
	fred      *fred.Client
	alpha     *alphavantage.Client
	yahoo     *yahoo.Client
	worldbank *worldbank.Client
	census    *census.Client
}

// NewHub creates a hub. Adapters whose credential is missing are left out
// and report as unavailable on use.
func NewHub(cfg Config) *Hub {
	h := &Hub{
		yahoo:     yahoo.New(),
		worldbank: worldbank.New(),
		census:    census.New(),
	}
	if c, err := fred.New(cfg.FREDKey); err == nil {
		h.fred = c
	}
	if c, err := alphavantage.New(cfg.AlphaVantageKey); err == nil {
		h.alpha = c
	}
	return h
}

func unavailable(kind Kind) error {
	return series.Unavailable("source %s is not configured; set its API key", kind)
}

// SeriesRequest is a provider-independent series fetch. The trailing fields
// apply only to the providers that understand them and are ignored
// elsewhere.
type SeriesRequest struct {
	ID        string
	StartDate string
	EndDate   string

	// FRED
	Limit             int
	Frequency         string
	AggregationMethod string
	Units             string

	// Alpha Vantage
	Function string

	// Alpha Vantage intraday and Yahoo Finance
	Interval string

	// Yahoo Finance
	Period string

	// World Bank
	Country string

	// Census
	Dataset string
}

// Series fetches one series from the given provider. The result carries the
// provider name in its Source field.
func (h *Hub) Series(ctx context.Context, kind Kind, req SeriesRequest) (*series.Series, error) {
	if req.ID == "" {
		return nil, series.BadInput("series ID cannot be empty")
	}
	var s *series.Series
	var err error
	switch kind {
	case FRED:
		if h.fred == nil {
			return nil, unavailable(kind)
		}
		s, err = h.fred.Series(ctx, req.ID, fred.SeriesOptions{
			StartDate:         req.StartDate,
			EndDate:           req.EndDate,
			Limit:             req.Limit,
			Frequency:         req.Frequency,
			AggregationMethod: req.AggregationMethod,
			Units:             req.Units,
		})
	case AlphaVantage:
		if h.alpha == nil {
			return nil, unavailable(kind)
		}
		s, err = h.alpha.Series(ctx, req.ID, alphavantage.SeriesOptions{
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Function:  req.Function,
			Interval:  req.Interval,
		})
	case YFinance:
		s, err = h.yahoo.Series(ctx, req.ID, yahoo.SeriesOptions{
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Period:    req.Period,
			Interval:  req.Interval,
		})
	case WorldBank:
		s, err = h.worldbank.Series(ctx, req.ID, worldbank.SeriesOptions{
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Country:   req.Country,
		})
	case Census:
		s, err = h.census.Series(ctx, req.ID, census.SeriesOptions{
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Dataset:   req.Dataset,
		})
	default:
		return nil, series.BadInput("unknown source %q", kind)
	}
	if err != nil {
		return nil, err
	}
	s.Source = string(kind)
	return s, nil
}

// SearchRequest is a provider-independent free-text search.
type SearchRequest struct {
	Text      string
	Limit     int
	OrderBy   string
	SortOrder string
}

// Search runs a series search on the given provider. Providers without a
// search API return an empty result with an explanation rather than an
// error.
func (h *Hub) Search(ctx context.Context, kind Kind, req SearchRequest) (*series.SearchResponse, error) {
	switch kind {
	case FRED:
		if h.fred == nil {
			return nil, unavailable(kind)
		}
		return h.fred.Search(ctx, req.Text, fred.SearchOptions{
			Limit:     req.Limit,
			OrderBy:   req.OrderBy,
			SortOrder: req.SortOrder,
		})
	case AlphaVantage:
		if h.alpha == nil {
			return nil, unavailable(kind)
		}
		return h.alpha.Search(ctx, req.Text, req.Limit)
	case YFinance:
		return h.yahoo.Search(ctx, req.Text, req.Limit)
	case WorldBank:
		return h.worldbank.Search(ctx, req.Text, worldbank.SearchOptions{
			Limit:     req.Limit,
			OrderBy:   req.OrderBy,
			SortOrder: req.SortOrder,
		})
	case Census:
		return h.census.Search(ctx, req.Text, req.Limit)
	}
	return nil, series.BadInput("unknown source %q", kind)
}

// Validate checks a symbol or variable format for the providers that define
// one; the rest accept any identifier. The check is offline and never calls
// the provider.
func (h *Hub) Validate(kind Kind, symbol string) (*series.Validation, error) {
	var v *series.Validation
	switch kind {
	case AlphaVantage:
		if h.alpha == nil {
			return nil, unavailable(kind)
		}
		v = h.alpha.Validate(symbol)
	case YFinance:
		v = h.yahoo.Validate(symbol)
	case Census:
		v = h.census.ValidateVariable(symbol)
	default:
		// Sources without a symbol catalog accept any identifier.
		v = &series.Validation{Valid: true}
	}
	v.Source = string(kind)
	v.Input = symbol
	return v, nil
}

// Suggestions returns autocomplete matches for the providers with a symbol
// catalog.
func (h *Hub) Suggestions(kind Kind, query, category string, limit int) ([]series.Suggestion, error) {
	if limit <= 0 {
		limit = 20
	}
	switch kind {
	case AlphaVantage:
		if h.alpha == nil {
			return nil, unavailable(kind)
		}
		return h.alpha.Suggestions(query, category, limit), nil
	case YFinance:
		return h.yahoo.Suggestions(query, limit), nil
	case Census:
		return h.census.Suggestions(query, category, limit), nil
	}
	// Sources without a symbol catalog have nothing to suggest.
	return []series.Suggestion{}, nil
}

// Info fetches full series metadata; only FRED reports it.
func (h *Hub) Info(ctx context.Context, kind Kind, id string) (*series.Info, error) {
	if kind != FRED {
		return nil, series.BadInput("series info is not supported for source %q", kind)
	}
	if h.fred == nil {
		return nil, unavailable(kind)
	}
	return h.fred.Info(ctx, id)
}

// MultipleSeries fetches a batch of series; only FRED supports batching.
func (h *Hub) MultipleSeries(ctx context.Context, kind Kind, ids []string, startDate, endDate string) (*series.MultiSeries, error) {
	if kind != FRED {
		return nil, series.BadInput("batch fetch is not supported for source %q", kind)
	}
	if h.fred == nil {
		return nil, unavailable(kind)
	}
	res, err := h.fred.MultipleSeries(ctx, ids, startDate, endDate)
	if err != nil {
		return nil, err
	}
	res.Source = string(kind)
	return res, nil
}

// CommonSeriesIDs are the FRED series of the economic indicators summary.
var CommonSeriesIDs = []string{"GDP", "UNRATE", "CPIAUCSL", "FEDFUNDS", "SP500", "DGS10"}

// CommonIndicators fetches the standard US economic indicators batch.
func (h *Hub) CommonIndicators(ctx context.Context, startDate, endDate string) (*series.MultiSeries, error) {
	return h.MultipleSeries(ctx, FRED, CommonSeriesIDs, startDate, endDate)
}

// Census returns the census adapter for its dataset, variable and raw query
// surface, which has no equivalent on the other providers.
func (h *Hub) Census() *census.Client {
	return h.census
}

// SourceInfo describes one provider in the source catalog.
type SourceInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RequiresKey bool   `json:"requires_key"`
	Available   bool   `json:"available"`
}

// Sources lists all known providers and their availability under the
// current configuration.
func (h *Hub) Sources() []SourceInfo {
	return []SourceInfo{
		{
			ID:          string(FRED),
			Name:        "FRED",
			Description: "Federal Reserve Economic Data: US government statistics with search and batch fetch",
			RequiresKey: true,
			Available:   h.fred != nil,
		},
		{
			ID:          string(AlphaVantage),
			Name:        "Alpha Vantage",
			Description: "Market data: stocks, forex pairs and cryptocurrencies",
			RequiresKey: true,
			Available:   h.alpha != nil,
		},
		{
			ID:          string(YFinance),
			Name:        "Yahoo Finance",
			Description: "Consumer finance data: tickers, indices and ETFs",
			RequiresKey: false,
			Available:   true,
		},
		{
			ID:          string(WorldBank),
			Name:        "World Bank",
			Description: "Development indicators by country, annual frequency",
			RequiresKey: false,
			Available:   true,
		},
		{
			ID:          string(Census),
			Name:        "U.S. Census Bureau",
			Description: "Demographic and economic survey data by dataset, variable and geography",
			RequiresKey: false,
			Available:   true,
		},
	}
}
