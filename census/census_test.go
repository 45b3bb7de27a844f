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

package census

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/macrofeed/macrofeed/series"

	. "github.com/smartystreets/goconvey/convey"
)

// testServer serves canned responses by request path and records the last
// request for inspection.
type testServer struct {
	*httptest.Server
	responses map[string]string // path -> body
	status    int
	lastPath  string
	lastQuery map[string]string
}

func newTestServer() *testServer {
	ts := &testServer{responses: make(map[string]string), status: http.StatusOK}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.lastPath = r.URL.Path
		ts.lastQuery = make(map[string]string)
		for k, vs := range r.URL.Query() {
			ts.lastQuery[k] = vs[0]
		}
		body, ok := ts.responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(ts.status)
		w.Write([]byte(body))
	}))
	return ts
}

// Not parallel: rebinds the package URL.
func TestCensus(t *testing.T) {
	Convey("Client with a test server", t, func() {
		server := newTestServer()
		defer server.Close()
		URL = server.Server.URL
		ctx := context.Background()

		client := New()

		Convey("Series normalizes a timeseries response", func() {
			server.responses["/timeseries/eits/mid"] = `[
  ["EMPSALUS", "time", "us"],
  ["1234.5", "202303", "1"],
  ["1200.0", "202301", "1"],
  ["", "202302", "1"],
  ["99.9", "202304"]
]`

			s, err := client.Series(ctx, "EMPSALUS", SeriesOptions{})
			So(err, ShouldBeNil)
			So(server.lastQuery["time"], ShouldEqual, "from 2000 to 2024")
			So(server.lastQuery["for"], ShouldEqual, "us:1")
			So(s.Title, ShouldEqual, "Census Bureau: EMPSALUS")
			So(s.Units, ShouldEqual, "")
			So(s.Frequency, ShouldEqual, "Monthly")
			So(s.Data, ShouldResemble, []series.DataPoint{
				{Date: "2023-01-01", Value: series.Float(1200.0)},
				{Date: "2023-02-01", Value: nil},
				{Date: "2023-03-01", Value: series.Float(1234.5)},
				{Date: "2023-04-01", Value: series.Float(99.9)},
			})
			So(s.DataPoints, ShouldEqual, 4)
		})

		Convey("Series passes the year window to the provider", func() {
			server.responses["/timeseries/eits/retail"] = `[
  ["RETAILUS", "time", "us"],
  ["50.0", "2021", "1"]
]`

			s, err := client.Series(ctx, "RETAILUS", SeriesOptions{
				Dataset: "timeseries/eits/retail", StartDate: "2021-01-01", EndDate: "2022-12-31"})
			So(err, ShouldBeNil)
			So(server.lastQuery["time"], ShouldEqual, "from 2021 to 2022")
			So(s.Data, ShouldResemble, []series.DataPoint{
				{Date: "2021-01-01", Value: series.Float(50.0)},
			})
		})

		Convey("an unknown dataset maps to not found", func() {
			_, err := client.Series(ctx, "EMPSALUS", SeriesOptions{Dataset: "timeseries/nosuch"})
			So(series.KindOf(err), ShouldEqual, series.KindNotFound)
		})

		Convey("a provider error object maps to bad input", func() {
			server.responses["/timeseries/eits/mid"] = `{"error": "unknown variable 'XYZ'"}`

			_, err := client.Series(ctx, "XYZ", SeriesOptions{})
			So(series.KindOf(err), ShouldEqual, series.KindBadInput)
		})

		Convey("a missing variable column lists the available ones", func() {
			server.responses["/timeseries/eits/mid"] = `[
  ["RETAILUS", "MANUFUS", "time", "us"],
  ["1.0", "2.0", "2023", "1"]
]`

			_, err := client.Series(ctx, "EMPSALUS", SeriesOptions{})
			So(series.KindOf(err), ShouldEqual, series.KindNotFound)
			So(err.Error(), ShouldContainSubstring, "RETAILUS, MANUFUS")
		})

		Convey("ExecuteQuery", func() {
			Convey("timeseries datasets carry a time window", func() {
				server.responses["/timeseries/eits/retail"] = `[
  ["RETAILUS", "time", "us"],
  ["50.0", "202201", "1"],
  ["truncated row"]
]`

				res, err := client.ExecuteQuery(ctx, QueryRequest{
					Dataset:   "timeseries/eits/retail",
					Variables: []string{"RETAILUS"},
				})
				So(err, ShouldBeNil)
				So(server.lastQuery["time"], ShouldEqual, "from 2020 to 2024")
				So(res.Geography, ShouldEqual, "us:1")
				So(res.Count, ShouldEqual, 1)
				So(res.Data[0]["RETAILUS"], ShouldEqual, "50.0")
			})

			Convey("year-based datasets resolve the catalog year", func() {
				server.responses["/2023/acs/acs5"] = `[
  ["B01001_001E", "NAME", "us"],
  ["331893745", "United States", "1"]
]`

				res, err := client.ExecuteQuery(ctx, QueryRequest{
					Dataset:   "acs/acs5",
					Variables: []string{"B01001_001E", "NAME"},
				})
				So(err, ShouldBeNil)
				So(server.lastPath, ShouldEqual, "/2023/acs/acs5")
				So(res.Year, ShouldEqual, 2023)
				So(res.Data[0]["NAME"], ShouldEqual, "United States")
			})

			Convey("unknown year-based datasets fall back to a recent year", func() {
				server.responses["/2023/cbp"] = `[["ESTAB", "us"], ["100", "1"]]`

				res, err := client.ExecuteQuery(ctx, QueryRequest{
					Dataset:   "cbp",
					Variables: []string{"ESTAB"},
				})
				So(err, ShouldBeNil)
				So(res.Year, ShouldEqual, 2023)
			})

			Convey("empty variables are a bad input", func() {
				_, err := client.ExecuteQuery(ctx, QueryRequest{Dataset: "acs/acs5"})
				So(series.KindOf(err), ShouldEqual, series.KindBadInput)
			})
		})

		Convey("SeriesByYear and Timeseries delegate to ExecuteQuery", func() {
			server.responses["/2020/dec/pl"] = `[["P1_001N", "us"], ["331449281", "1"]]`
			res, err := client.SeriesByYear(ctx, 2020, "dec/pl", []string{"P1_001N"}, "")
			So(err, ShouldBeNil)
			So(res.Year, ShouldEqual, 2020)

			server.responses["/timeseries/eits/mid"] = `[["EMPSALUS", "time", "us"], ["1.0", "2021", "1"]]`
			res, err = client.Timeseries(ctx, "timeseries/eits/mid", []string{"EMPSALUS"},
				&TimeRange{Start: "2021-01-01", End: "2022-01-01"}, "")
			So(err, ShouldBeNil)
			So(server.lastQuery["time"], ShouldEqual, "from 2021 to 2022")
		})

		Convey("Datasets filters by type", func() {
			So(len(client.Datasets("")), ShouldEqual, 8)
			So(len(client.Datasets("timeseries")), ShouldEqual, 4)
			So(client.Datasets("year_based")[0].ID, ShouldEqual, "pep/population")
		})

		Convey("Geographies lists the static filters", func() {
			gs := client.Geographies("acs/acs5")
			So(len(gs), ShouldEqual, 4)
			So(gs[0].ID, ShouldEqual, "us:1")
		})

		Convey("ValidateVariable", func() {
			So(client.ValidateVariable("B01001_001E").Valid, ShouldBeTrue)
			So(client.ValidateVariable("EMPSALUS").Valid, ShouldBeTrue)
			So(client.ValidateVariable("").Valid, ShouldBeFalse)
			So(client.ValidateVariable("bad variable!").Valid, ShouldBeFalse)
		})

		Convey("Suggestions match case-insensitively", func() {
			got := client.Suggestions("empsal", "", 5)
			So(len(got), ShouldBeGreaterThan, 0)
			So(got[0].Type, ShouldEqual, "variable")
		})

		Convey("Search is unsupported", func() {
			resp, err := client.Search(ctx, "population", 10)
			So(err, ShouldBeNil)
			So(resp.Count, ShouldEqual, 0)
			So(resp.Message, ShouldContainSubstring, "does not support programmatic search")
		})
	})
}

func TestNormalizeTime(t *testing.T) {
	t.Parallel()

	Convey("normalizeTime handles the provider's time formats", t, func() {
		So(normalizeTime("2023"), ShouldEqual, "2023-01-01")
		So(normalizeTime("202303"), ShouldEqual, "2023-03-01")
		So(normalizeTime("20230315"), ShouldEqual, "2023-03-15")
		So(normalizeTime("2023-03-15T00:00:00"), ShouldEqual, "2023-03-15")
		So(normalizeTime("2023-Q1"), ShouldEqual, "2023-Q1")
		So(normalizeTime("Q1"), ShouldEqual, "Q1")
	})
}
