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

// Command macrofeed-census explores the Census Bureau API: it lists
// datasets, discovers their variables and geographies, and runs raw
// tabular queries.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/macrofeed/macrofeed/census"
	"github.com/macrofeed/macrofeed/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

type Flags struct {
	Datasets    bool   // list the dataset catalog
	Type        string // dataset catalog filter: year_based or timeseries
	Variables   string // discover the variables of this dataset
	Geographies string // list the geographies of this dataset
	Query       string // run a query against this dataset
	Get         string // comma-separated variables of the query
	For         string // geography filter of the query
	Year        int    // year for year-based datasets
	TimeStart   string // start of the time window for timeseries datasets
	TimeEnd     string // end of the time window for timeseries datasets
	CSV         bool
	Rows        int
	LogLevel    logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("macrofeed-census", flag.ExitOnError)
	fs.BoolVar(&flags.Datasets, "datasets", false, "list the known datasets")
	fs.StringVar(&flags.Type, "type", "", "dataset filter: year_based or timeseries")
	fs.StringVar(&flags.Variables, "variables", "", "discover the variables of a dataset")
	fs.StringVar(&flags.Geographies, "geographies", "", "list the geographies of a dataset")
	fs.StringVar(&flags.Query, "query", "", "run a query against a dataset")
	fs.StringVar(&flags.Get, "get", "", "comma-separated variables to query")
	fs.StringVar(&flags.For, "for", "", "geography filter, e.g. us:1 or state:*")
	fs.IntVar(&flags.Year, "year", 0, "year for year-based datasets")
	fs.StringVar(&flags.TimeStart, "time-start", "", "start of the time window, YYYY or YYYY-MM-DD")
	fs.StringVar(&flags.TimeEnd, "time-end", "", "end of the time window, YYYY or YYYY-MM-DD")
	fs.BoolVar(&flags.CSV, "csv", false, "write CSV instead of aligned text")
	fs.IntVar(&flags.Rows, "rows", 0, "max. number of output rows, 0 = unlimited")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	return &flags, err
}

func writeTable(w io.Writer, t *table.Table, flags *Flags) error {
	p := table.Params{Rows: flags.Rows}
	if flags.CSV {
		return t.WriteCSV(w, p)
	}
	return t.WriteText(w, p)
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	client := census.New()

	switch {
	case flags.Datasets:
		return writeTable(w, table.FromDatasets(client.Datasets(flags.Type)), flags)

	case flags.Variables != "":
		vars := client.Variables(ctx, flags.Variables, flags.Year)
		logging.Infof(ctx, "discovered %d variables in %s", len(vars), flags.Variables)
		return writeTable(w, table.FromVariables(vars), flags)

	case flags.Geographies != "":
		return writeTable(w, table.FromGeographies(client.Geographies(flags.Geographies)), flags)

	case flags.Query != "":
		if flags.Get == "" {
			return errors.Reason("-query requires -get with at least one variable")
		}
		variables := strings.Split(flags.Get, ",")
		for i := range variables {
			variables[i] = strings.TrimSpace(variables[i])
		}
		req := census.QueryRequest{
			Dataset:   flags.Query,
			Variables: variables,
			Geography: flags.For,
			Year:      flags.Year,
		}
		if flags.TimeStart != "" || flags.TimeEnd != "" {
			req.TimeRange = &census.TimeRange{Start: flags.TimeStart, End: flags.TimeEnd}
		}
		res, err := client.ExecuteQuery(ctx, req)
		if err != nil {
			return errors.Annotate(err, "query failed")
		}
		logging.Infof(ctx, "%d rows from %s for %s", res.Count, res.Dataset, res.Geography)
		return writeTable(w, table.FromQuery(res), flags)
	}
	return errors.Reason("nothing to do: specify -datasets, -variables, -geographies or -query")
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
