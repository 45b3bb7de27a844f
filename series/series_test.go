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

package series

import (
	"encoding/json"
	"testing"

	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSeries(t *testing.T) {
	t.Parallel()

	Convey("FilterRange", t, func() {
		points := []DataPoint{
			{Date: "2020-01-01", Value: Float(1)},
			{Date: "2021-06-15", Value: Float(2)},
			{Date: "2022-12-31", Value: nil},
		}

		Convey("keeps both bounds inclusively", func() {
			So(FilterRange(points, "2020-01-01", "2022-12-31"), ShouldResemble, points)
		})

		Convey("applies each bound independently", func() {
			So(FilterRange(points, "2021-01-01", ""), ShouldResemble, points[1:])
			So(FilterRange(points, "", "2021-12-31"), ShouldResemble, points[:2])
		})

		Convey("ignores empty bounds", func() {
			So(FilterRange(points, "", ""), ShouldResemble, points)
		})
	})

	Convey("Finalize", t, func() {
		Convey("filters before sorting and derives metadata", func() {
			s := &Series{Data: []DataPoint{
				{Date: "2022-01-01", Value: Float(3)},
				{Date: "2019-01-01", Value: Float(1)},
				{Date: "2020-01-01", Value: nil},
			}}
			s.Finalize("2020-01-01", "")
			So(s.Data, ShouldResemble, []DataPoint{
				{Date: "2020-01-01", Value: nil},
				{Date: "2022-01-01", Value: Float(3)},
			})
			So(s.ObservationStart, ShouldEqual, "2020-01-01")
			So(s.ObservationEnd, ShouldEqual, "2022-01-01")
			So(s.DataPoints, ShouldEqual, 2)
		})

		Convey("an empty result keeps empty bounds", func() {
			s := &Series{Data: []DataPoint{{Date: "2019-01-01", Value: Float(1)}}}
			s.Finalize("2020-01-01", "")
			So(s.Data, ShouldResemble, []DataPoint{})
			So(s.ObservationStart, ShouldEqual, "")
			So(s.ObservationEnd, ShouldEqual, "")
			So(s.DataPoints, ShouldEqual, 0)
		})
	})

	Convey("missing observations marshal as JSON null", t, func() {
		p := DataPoint{Date: "2022-12-31"}
		js, err := json.Marshal(p)
		So(err, ShouldBeNil)
		So(testutil.JSON(string(js)), ShouldResemble, map[string]interface{}{
			"date":  "2022-12-31",
			"value": nil,
		})
	})

	Convey("NoSearch carries the query and message", t, func() {
		r := NoSearch("apple", "no search here")
		So(r.Query, ShouldEqual, "apple")
		So(r.Count, ShouldEqual, 0)
		So(r.Results, ShouldResemble, []SearchResult{})
		So(r.Message, ShouldEqual, "no search here")
	})
}

func TestError(t *testing.T) {
	t.Parallel()

	Convey("error kinds map to HTTP statuses", t, func() {
		So(KindBadInput.HTTPStatus(), ShouldEqual, 400)
		So(KindNotFound.HTTPStatus(), ShouldEqual, 404)
		So(KindUnavailable.HTTPStatus(), ShouldEqual, 503)
		So(KindUpstream.HTTPStatus(), ShouldEqual, 500)
		So(KindInternal.HTTPStatus(), ShouldEqual, 500)
	})

	Convey("KindOf", t, func() {
		Convey("extracts the kind of a boundary error", func() {
			So(KindOf(NotFound("no such series")), ShouldEqual, KindNotFound)
		})

		Convey("classifies foreign errors as internal", func() {
			So(KindOf(errForeign), ShouldEqual, KindInternal)
		})
	})

	Convey("Upstream preserves its cause", t, func() {
		err := Upstream(errForeign, "fetch of %s failed", "GDP")
		So(err.Error(), ShouldEqual, "fetch of GDP failed: boom")
		So(err.Unwrap(), ShouldEqual, errForeign)
		So(AsError(err), ShouldEqual, err)
	})
}

type foreignError struct{}

func (foreignError) Error() string { return "boom" }

var errForeign = foreignError{}
