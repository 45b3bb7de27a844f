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

package table

import (
	"bytes"
	"testing"

	"github.com/macrofeed/macrofeed/census"
	"github.com/macrofeed/macrofeed/series"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTable(t *testing.T) {
	t.Parallel()

	Convey("Table output", t, func() {
		tbl := New("date", "value")
		tbl.Add("2020-01-01", "1.5")
		tbl.Add("2021-01-01", "")

		Convey("WriteCSV", func() {
			var buf bytes.Buffer
			So(tbl.WriteCSV(&buf, Params{}), ShouldBeNil)
			So(buf.String(), ShouldEqual, "date,value\n2020-01-01,1.5\n2021-01-01,\n")
		})

		Convey("WriteCSV with a row limit and no header", func() {
			var buf bytes.Buffer
			So(tbl.WriteCSV(&buf, Params{Rows: 1, NoHeader: true}), ShouldBeNil)
			So(buf.String(), ShouldEqual, "2020-01-01,1.5\n")
		})

		Convey("WriteText aligns columns under the header", func() {
			var buf bytes.Buffer
			So(tbl.WriteText(&buf, Params{}), ShouldBeNil)
			So(buf.String(), ShouldEqual, `date        value
----------  -----
2020-01-01  1.5
2021-01-01
`)
		})

		Convey("WriteText rejects a ragged row", func() {
			tbl.Add("only one cell")
			var buf bytes.Buffer
			So(tbl.WriteText(&buf, Params{}), ShouldNotBeNil)
		})
	})

	Convey("Converters", t, func() {
		Convey("FromSeries leaves missing values empty", func() {
			s := &series.Series{Data: []series.DataPoint{
				{Date: "2020-01-01", Value: series.Float(21538.032)},
				{Date: "2021-01-01", Value: nil},
			}}
			tbl := FromSeries(s)
			So(tbl.Rows, ShouldResemble, [][]string{
				{"2020-01-01", "21538.032"},
				{"2021-01-01", ""},
			})
		})

		Convey("FromMulti lists successes before failures", func() {
			res := &series.MultiSeries{
				Series: map[string]*series.Series{
					"GDP": {DataPoints: 2, ObservationStart: "2020-01-01", ObservationEnd: "2021-01-01"},
				},
				Errors: []series.ItemError{{ID: "NOSUCH", Error: "not found"}},
			}
			tbl := FromMulti(res, []string{"GDP", "NOSUCH"})
			So(tbl.Rows, ShouldResemble, [][]string{
				{"GDP", "2", "2020-01-01", "2021-01-01", "ok"},
				{"NOSUCH", "0", "", "", "not found"},
			})
		})

		Convey("FromDatasets compresses year ranges", func() {
			tbl := FromDatasets([]census.Dataset{
				{ID: "dec/pl", Name: "Decennial", Years: []int{2020, 2010, 2000}},
				{ID: "timeseries/eits/mid", Name: "Economic Indicators"},
			})
			So(tbl.Rows, ShouldResemble, [][]string{
				{"dec/pl", "Decennial", "2000-2020"},
				{"timeseries/eits/mid", "Economic Indicators", ""},
			})
		})

		Convey("FromQuery preserves the header order", func() {
			res := &census.QueryResult{
				Headers: []string{"POP", "NAME", "us"},
				Data: []map[string]string{
					{"POP": "331893745", "NAME": "United States", "us": "1"},
				},
			}
			tbl := FromQuery(res)
			So(tbl.Header, ShouldResemble, []string{"POP", "NAME", "us"})
			So(tbl.Rows, ShouldResemble, [][]string{{"331893745", "United States", "1"}})
		})
	})
}
