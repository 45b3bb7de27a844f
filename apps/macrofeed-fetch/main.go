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

// Command macrofeed-fetch fetches and searches normalized economic time
// series from the configured providers and prints them as text or CSV.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/macrofeed/macrofeed/series"
	"github.com/macrofeed/macrofeed/source"
	"github.com/macrofeed/macrofeed/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Config   string // config file with the provider API keys
	Source   string
	Series   string // comma-separated series IDs
	Start    string
	End      string
	Search   string
	Limit    int
	OrderBy  string
	SortOrd  string
	Sources  bool // list the source catalog
	Summary  bool // fetch the common US economic indicators
	CSV      bool // CSV output instead of aligned text
	Rows     int  // max. number of output rows; 0 = unlimited
	LogLevel logging.Level

	// Source-specific options.
	Function    string // alphavantage
	Interval    string // alphavantage, yfinance
	Period      string // yfinance
	Country     string // worldbank
	Dataset     string // census
	Frequency   string // fred
	Aggregation string // fred
	Units       string // fred
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("macrofeed-fetch", flag.ExitOnError)
	fs.StringVar(&flags.Config, "config",
		filepath.Join(os.Getenv("HOME"), ".macrofeed", "config.toml"),
		"config file with the provider API keys")
	fs.StringVar(&flags.Source, "source", "fred",
		"data source: fred, alphavantage, yfinance, worldbank, census")
	fs.StringVar(&flags.Series, "series", "", "series ID(s), comma-separated")
	fs.StringVar(&flags.Start, "start", "", "start date, YYYY-MM-DD")
	fs.StringVar(&flags.End, "end", "", "end date, YYYY-MM-DD")
	fs.StringVar(&flags.Search, "search", "", "free-text series search")
	fs.IntVar(&flags.Limit, "limit", 20, "max. number of search results")
	fs.StringVar(&flags.OrderBy, "order-by", "", "search result ordering column")
	fs.StringVar(&flags.SortOrd, "sort-order", "", "search result sort order: asc or desc")
	fs.BoolVar(&flags.Sources, "sources", false, "list the available sources")
	fs.BoolVar(&flags.Summary, "indicators", false,
		"fetch the common US economic indicators (requires a FRED key)")
	fs.BoolVar(&flags.CSV, "csv", false, "write CSV instead of aligned text")
	fs.IntVar(&flags.Rows, "rows", 0, "max. number of output rows, 0 = unlimited")
	fs.StringVar(&flags.Function, "function", "", "alphavantage: provider function")
	fs.StringVar(&flags.Interval, "interval", "", "alphavantage, yfinance: data interval")
	fs.StringVar(&flags.Period, "period", "", "yfinance: fetch period, e.g. 1y")
	fs.StringVar(&flags.Country, "country", "", "worldbank: country code, default USA")
	fs.StringVar(&flags.Dataset, "dataset", "", "census: dataset name")
	fs.StringVar(&flags.Frequency, "frequency", "", "fred: observation frequency")
	fs.StringVar(&flags.Aggregation, "aggregation", "", "fred: aggregation method")
	fs.StringVar(&flags.Units, "units", "", "fred: units transformation")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	return &flags, err
}

// parseConfig reads the provider credentials. A missing config file is not
// an error: the keyless sources work without one.
func parseConfig(ctx context.Context, filePath string) (*source.Config, error) {
	var c source.Config
	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debugf(ctx, "no config file at %s, keyed sources are unavailable", filePath)
			return &c, nil
		}
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	return &c, nil
}

func writeTable(w io.Writer, t *table.Table, flags *Flags) error {
	p := table.Params{Rows: flags.Rows}
	if flags.CSV {
		return t.WriteCSV(w, p)
	}
	return t.WriteText(w, p)
}

func (f *Flags) request(id string) source.SeriesRequest {
	return source.SeriesRequest{
		ID:                id,
		StartDate:         f.Start,
		EndDate:           f.End,
		Limit:             f.Rows,
		Frequency:         f.Frequency,
		AggregationMethod: f.Aggregation,
		Units:             f.Units,
		Function:          f.Function,
		Interval:          f.Interval,
		Period:            f.Period,
		Country:           f.Country,
		Dataset:           f.Dataset,
	}
}

type fetched struct {
	id  string
	s   *series.Series
	err error
}

// fetchMany fetches several series concurrently and merges them into a
// batch result in the input ID order.
func fetchMany(ctx context.Context, hub *source.Hub, kind source.Kind, ids []string, flags *Flags) *series.MultiSeries {
	f := func(id string) fetched {
		s, err := hub.Series(ctx, kind, flags.request(id))
		return fetched{id: id, s: s, err: err}
	}
	pm := iterator.ParallelMap(ctx, 2*runtime.NumCPU(), iterator.FromSlice(ids), f)
	defer pm.Close()

	results := iterator.Reduce[fetched, []fetched](pm, []fetched{}, func(r fetched, acc []fetched) []fetched {
		return append(acc, r)
	})
	byID := make(map[string]fetched, len(results))
	for _, r := range results {
		byID[r.id] = r
	}
	res := &series.MultiSeries{
		Series: make(map[string]*series.Series),
		Errors: []series.ItemError{},
		Source: string(kind),
	}
	for _, id := range ids {
		r := byID[id]
		if r.err != nil {
			res.Errors = append(res.Errors, series.ItemError{ID: id, Error: r.err.Error()})
			continue
		}
		res.Series[id] = r.s
	}
	res.Successful = len(res.Series)
	res.Failed = len(res.Errors)
	return res
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(ctx, flags.Config)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	hub := source.NewHub(*config)

	if flags.Sources {
		t := table.New("id", "name", "requires_key", "available")
		for _, info := range hub.Sources() {
			key, avail := "no", "no"
			if info.RequiresKey {
				key = "yes"
			}
			if info.Available {
				avail = "yes"
			}
			t.Add(info.ID, info.Name, key, avail)
		}
		return writeTable(w, t, flags)
	}

	if flags.Summary {
		res, err := hub.CommonIndicators(ctx, flags.Start, flags.End)
		if err != nil {
			return errors.Annotate(err, "failed to fetch common indicators")
		}
		return writeTable(w, table.FromMulti(res, source.CommonSeriesIDs), flags)
	}

	kind, err := source.ParseKind(flags.Source)
	if err != nil {
		return err
	}

	if flags.Search != "" {
		resp, err := hub.Search(ctx, kind, source.SearchRequest{
			Text:      flags.Search,
			Limit:     flags.Limit,
			OrderBy:   flags.OrderBy,
			SortOrder: flags.SortOrd,
		})
		if err != nil {
			return errors.Annotate(err, "search failed")
		}
		if resp.Message != "" {
			logging.Infof(ctx, "%s", resp.Message)
		}
		return writeTable(w, table.FromSearch(resp), flags)
	}

	if flags.Series == "" {
		return errors.Reason("nothing to do: specify -series, -search, -indicators or -sources")
	}
	ids := strings.Split(flags.Series, ",")
	for i := range ids {
		ids[i] = strings.TrimSpace(ids[i])
	}

	if len(ids) == 1 {
		s, err := hub.Series(ctx, kind, flags.request(ids[0]))
		if err != nil {
			return errors.Annotate(err, "failed to fetch %s", ids[0])
		}
		logging.Infof(ctx, "%s: %s [%s], %d points from %s to %s",
			s.ID, s.Title, s.Frequency, s.DataPoints, s.ObservationStart, s.ObservationEnd)
		return writeTable(w, table.FromSeries(s), flags)
	}

	var res *series.MultiSeries
	if kind == source.FRED {
		res, err = hub.MultipleSeries(ctx, kind, ids, flags.Start, flags.End)
		if err != nil {
			return errors.Annotate(err, "batch fetch failed")
		}
	} else {
		res = fetchMany(ctx, hub, kind, ids, flags)
	}
	logging.Infof(ctx, "fetched %d series, %d failed", res.Successful, res.Failed)
	return writeTable(w, table.FromMulti(res, ids), flags)
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := run(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
