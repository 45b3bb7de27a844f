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
	"strconv"

	"github.com/macrofeed/macrofeed/census"
	"github.com/macrofeed/macrofeed/series"
)

// FromSeries tabulates the observations of one series. Missing values come
// out as empty cells.
func FromSeries(s *series.Series) *Table {
	t := New("date", "value")
	for _, p := range s.Data {
		value := ""
		if p.Value != nil {
			value = strconv.FormatFloat(*p.Value, 'f', -1, 64)
		}
		t.Add(p.Date, value)
	}
	return t
}

// FromSearch tabulates search results.
func FromSearch(resp *series.SearchResponse) *Table {
	t := New("series_id", "title", "units", "frequency")
	for _, r := range resp.Results {
		t.Add(r.ID, r.Title, r.Units, r.Frequency)
	}
	return t
}

// FromMulti tabulates the per-series summary of a batch fetch, successes
// first in ID order of the request, then failures.
func FromMulti(res *series.MultiSeries, ids []string) *Table {
	t := New("series_id", "points", "start", "end", "status")
	for _, id := range ids {
		s, ok := res.Series[id]
		if !ok {
			continue
		}
		t.Add(id, strconv.Itoa(s.DataPoints), s.ObservationStart, s.ObservationEnd, "ok")
	}
	for _, e := range res.Errors {
		t.Add(e.ID, "0", "", "", e.Error)
	}
	return t
}

// FromDatasets tabulates the census dataset catalog.
func FromDatasets(datasets []census.Dataset) *Table {
	t := New("id", "name", "years")
	for _, d := range datasets {
		years := ""
		if len(d.Years) > 0 {
			min, max := d.Years[0], d.Years[0]
			for _, y := range d.Years {
				if y < min {
					min = y
				}
				if y > max {
					max = y
				}
			}
			years = strconv.Itoa(min) + "-" + strconv.Itoa(max)
		}
		t.Add(d.ID, d.Name, years)
	}
	return t
}

// FromVariables tabulates discovered census variables.
func FromVariables(vars []census.Variable) *Table {
	t := New("id", "name", "description")
	for _, v := range vars {
		t.Add(v.ID, v.Name, v.Description)
	}
	return t
}

// FromGeographies tabulates the census geography filters.
func FromGeographies(geos []census.Geography) *Table {
	t := New("id", "name", "level")
	for _, g := range geos {
		t.Add(g.ID, g.Name, g.Level)
	}
	return t
}

// FromQuery tabulates a raw census query result in its header order.
func FromQuery(res *census.QueryResult) *Table {
	t := New(res.Headers...)
	for _, row := range res.Data {
		cells := make([]string, len(res.Headers))
		for i, h := range res.Headers {
			cells[i] = row[h]
		}
		t.Add(cells...)
	}
	return t
}
