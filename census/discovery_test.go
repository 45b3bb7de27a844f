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
	"testing"

	"github.com/stockparfait/logging"

	. "github.com/smartystreets/goconvey/convey"
)

// Not parallel: rebinds the package URL.
func TestDiscovery(t *testing.T) {
	Convey("Variables discovery with a test server", t, func() {
		server := newTestServer()
		defer server.Close()
		URL = server.Server.URL
		ctx := logging.Use(context.Background(), logging.DefaultGoLogger(logging.Info))

		client := New()

		Convey("a live probe lists the timeseries columns", func() {
			server.responses["/timeseries/eits/mid"] = `[
  ["EMPSALUS", "EMPSALUSM", "time", "us", "NAME"],
  ["1.0", "2.0", "2023", "1", "United States"]
]`

			vars := client.Variables(ctx, "timeseries/eits/mid", 0)
			So(server.lastQuery["get"], ShouldEqual, "EMPSALUS")
			So(server.lastQuery["time"], ShouldEqual, "from 2023 to 2023")
			So(vars, ShouldResemble, []Variable{
				{ID: "EMPSALUS", Name: "EMPSALUS"},
				{ID: "EMPSALUSM", Name: "EMPSALUSM"},
			})
		})

		Convey("a non-eits timeseries probes with NAME", func() {
			server.responses["/timeseries/intltrade/exports"] = `[
  ["EXPTOT", "time", "us"],
  ["5.0", "2023", "1"]
]`

			vars := client.Variables(ctx, "timeseries/intltrade/exports", 0)
			So(server.lastQuery["get"], ShouldEqual, "NAME")
			So(vars, ShouldResemble, []Variable{{ID: "EXPTOT", Name: "EXPTOT"}})
		})

		Convey("year-based metadata comes from variables.json", func() {
			server.responses["/2023/acs/acs5/variables.json"] = `{"variables": {
  "B19013_001E": {"label": "Median household income", "concept": "Income"},
  "B01001_001E": {"label": "Total population", "concept": "Sex by Age"},
  "NAME": {"label": "Geographic Area Name"}
}}`

			vars := client.Variables(ctx, "acs/acs5", 0)
			So(vars, ShouldResemble, []Variable{
				{ID: "B01001_001E", Name: "Total population", Description: "Sex by Age"},
				{ID: "B19013_001E", Name: "Median household income", Description: "Income"},
			})
		})

		Convey("a failed metadata fetch falls back to a sample query", func() {
			server.responses["/2024/pep/population"] = `[
  ["POP", "BIRTHS", "NAME", "us"],
  ["331893745", "3664292", "United States", "1"]
]`

			vars := client.Variables(ctx, "pep/population", 0)
			So(server.lastQuery["get"], ShouldEqual, "POP,NAME")
			So(vars, ShouldResemble, []Variable{
				{ID: "POP", Name: "POP"},
				{ID: "BIRTHS", Name: "BIRTHS"},
			})
		})

		Convey("static fallback", func() {
			Convey("for an unreachable eits dataset", func() {
				vars := client.Variables(ctx, "timeseries/eits/construction", 0)
				So(len(vars), ShouldEqual, 6)
				So(vars[0].ID, ShouldEqual, "EMPSALUS")
			})

			Convey("for an unreachable generic timeseries dataset", func() {
				vars := client.Variables(ctx, "timeseries/intltrade/imports", 0)
				So(vars, ShouldResemble, []Variable{
					{ID: "EMPSALUS", Name: "Employment and Salaries - US"},
					{ID: "RETAILUS", Name: "Retail Trade - US"},
				})
			})

			Convey("for an unreachable ACS dataset", func() {
				vars := client.Variables(ctx, "acs/acs1", 2022)
				So(len(vars), ShouldEqual, 5)
				So(vars[0].ID, ShouldEqual, "B01001_001E")
			})

			Convey("an unknown family yields an empty list", func() {
				vars := client.Variables(ctx, "cbp", 0)
				So(vars, ShouldResemble, []Variable{})
			})
		})
	})
}
