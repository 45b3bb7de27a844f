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

package source

import (
	"context"
	"testing"

	"github.com/macrofeed/macrofeed/fred"
	"github.com/macrofeed/macrofeed/series"
	"github.com/macrofeed/macrofeed/worldbank"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	Convey("ParseKind", t, func() {
		Convey("accepts all known sources", func() {
			for _, name := range []string{"fred", "alphavantage", "yfinance", "worldbank", "census"} {
				k, err := ParseKind(name)
				So(err, ShouldBeNil)
				So(string(k), ShouldEqual, name)
			}
		})

		Convey("rejects an unknown source", func() {
			_, err := ParseKind("nasdaq")
			So(series.KindOf(err), ShouldEqual, series.KindBadInput)
		})
	})
}

func TestHub(t *testing.T) {
	t.Parallel()

	Convey("Hub without credentials", t, func() {
		hub := NewHub(Config{})
		ctx := context.Background()

		Convey("keyed sources report unavailable", func() {
			_, err := hub.Series(ctx, FRED, SeriesRequest{ID: "GDP"})
			So(series.KindOf(err), ShouldEqual, series.KindUnavailable)

			_, err = hub.Search(ctx, AlphaVantage, SearchRequest{Text: "apple"})
			So(series.KindOf(err), ShouldEqual, series.KindUnavailable)

			_, err = hub.CommonIndicators(ctx, "", "")
			So(series.KindOf(err), ShouldEqual, series.KindUnavailable)
		})

		Convey("the source catalog reflects availability", func() {
			infos := hub.Sources()
			So(len(infos), ShouldEqual, 5)
			byID := make(map[string]SourceInfo)
			for _, info := range infos {
				byID[info.ID] = info
			}
			So(byID["fred"].Available, ShouldBeFalse)
			So(byID["fred"].RequiresKey, ShouldBeTrue)
			So(byID["yfinance"].Available, ShouldBeTrue)
			So(byID["census"].RequiresKey, ShouldBeFalse)
		})

		Convey("an empty series ID is a bad input", func() {
			_, err := hub.Series(ctx, YFinance, SeriesRequest{})
			So(series.KindOf(err), ShouldEqual, series.KindBadInput)
		})

		Convey("Validate dispatches to the catalog sources", func() {
			v, err := hub.Validate(YFinance, "AAPL")
			So(err, ShouldBeNil)
			So(v.Valid, ShouldBeTrue)
			So(v.Source, ShouldEqual, "yfinance")
			So(v.Input, ShouldEqual, "AAPL")

			v, err = hub.Validate(Census, "EMPSALUS")
			So(err, ShouldBeNil)
			So(v.Valid, ShouldBeTrue)

			_, err = hub.Validate(AlphaVantage, "AAPL")
			So(series.KindOf(err), ShouldEqual, series.KindUnavailable)
		})

		Convey("catalog-less sources validate any identifier", func() {
			for _, kind := range []Kind{FRED, WorldBank} {
				v, err := hub.Validate(kind, "GDP")
				So(err, ShouldBeNil)
				So(v.Valid, ShouldBeTrue)
				So(v.Source, ShouldEqual, string(kind))
				So(v.Input, ShouldEqual, "GDP")
			}
		})

		Convey("Suggestions dispatch and cap", func() {
			got, err := hub.Suggestions(YFinance, "AAP", "", 0)
			So(err, ShouldBeNil)
			So(len(got), ShouldBeGreaterThan, 0)

			got, err = hub.Suggestions(WorldBank, "gdp", "", 10)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []series.Suggestion{})
		})

		Convey("batch fetch is FRED-only", func() {
			_, err := hub.MultipleSeries(ctx, Census, []string{"EMPSALUS"}, "", "")
			So(series.KindOf(err), ShouldEqual, series.KindBadInput)
		})

		Convey("series info is FRED-only", func() {
			_, err := hub.Info(ctx, WorldBank, "NY.GDP.MKTP.CD")
			So(series.KindOf(err), ShouldEqual, series.KindBadInput)
		})

		Convey("unsupported search sources return an explanation", func() {
			resp, err := hub.Search(ctx, Census, SearchRequest{Text: "population"})
			So(err, ShouldBeNil)
			So(resp.Count, ShouldEqual, 0)
			So(resp.Message, ShouldNotEqual, "")
		})

		Convey("the census surface is exposed", func() {
			So(len(hub.Census().Datasets("")), ShouldEqual, 8)
		})
	})

	Convey("Hub with a test server", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()
		ctx := fetch.UseClient(context.Background(), server.Client())
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))

		Convey("a fetched series is stamped with its source", func() {
			worldbank.URL = server.URL() + "/v2"
			hub := NewHub(Config{})
			server.ResponseBody = []string{`[
  {"total": 1},
  [{"indicator": {"id": "SP.POP.TOTL", "value": "Population, total"},
    "date": "2022", "value": 333287557}]
]`}

			s, err := hub.Series(ctx, WorldBank, SeriesRequest{ID: "SP.POP.TOTL"})
			So(err, ShouldBeNil)
			So(s.Source, ShouldEqual, "worldbank")
			So(s.Title, ShouldEqual, "Population, total")
		})

		Convey("configured keyed sources are available", func() {
			fred.URL = server.URL() + "/fred"
			hub := NewHub(Config{FREDKey: "k", AlphaVantageKey: "k"})
			byID := make(map[string]SourceInfo)
			for _, info := range hub.Sources() {
				byID[info.ID] = info
			}
			So(byID["fred"].Available, ShouldBeTrue)
			So(byID["alphavantage"].Available, ShouldBeTrue)

			server.ResponseBody = []string{
				`{"observations": [{"date": "2020-01-01", "value": "1.5"}]}`,
				`{"seriess": [{"id": "GDP", "title": "Gross Domestic Product"}]}`,
			}
			res, err := hub.MultipleSeries(ctx, FRED, []string{"GDP"}, "", "")
			So(err, ShouldBeNil)
			So(res.Successful, ShouldEqual, 1)
			So(res.Source, ShouldEqual, "fred")
		})
	})
}
