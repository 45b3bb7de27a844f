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
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/stockparfait/logging"
)

// Variable discovery caps: the metadata endpoint is richer than a probe
// query, so it gets a higher cap.
const (
	metadataCap = 200
	probeCap    = 100
)

// probeHeaders runs a sample query and returns its non-geography headers.
func (c *Client) probeHeaders(ctx context.Context, uri string, query url.Values) ([]string, bool) {
	status, body, err := c.get(ctx, uri, query)
	if err != nil || status != http.StatusOK {
		return nil, false
	}
	t, err := parseTable(body)
	if err != nil {
		return nil, false
	}
	var vars []string
	for _, h := range t.headers {
		if !geographyColumns[h] {
			vars = append(vars, h)
		}
	}
	if len(vars) == 0 {
		return nil, false
	}
	if len(vars) > probeCap {
		vars = vars[:probeCap]
	}
	return vars, true
}

func headersToVariables(headers []string) []Variable {
	out := make([]Variable, len(headers))
	for i, h := range headers {
		out[i] = Variable{ID: h, Name: h}
	}
	return out
}

// metadataVariables queries the variables.json endpoint of a year-based
// dataset. Variables are returned in ID order for a stable cap.
func (c *Client) metadataVariables(ctx context.Context, year int, dataset string) ([]Variable, bool) {
	uri := c.baseURL + "/" + strconv.Itoa(year) + "/" + dataset + "/variables.json"
	status, body, err := c.get(ctx, uri, nil)
	if err != nil || status != http.StatusOK {
		return nil, false
	}
	var payload struct {
		Variables map[string]struct {
			Label   string `json:"label"`
			Concept string `json:"concept"`
		} `json:"variables"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Variables) == 0 {
		return nil, false
	}
	ids := make([]string, 0, len(payload.Variables))
	for id := range payload.Variables {
		if geographyColumns[id] {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > metadataCap {
		ids = ids[:metadataCap]
	}
	out := make([]Variable, len(ids))
	for i, id := range ids {
		v := payload.Variables[id]
		name := v.Label
		if name == "" {
			name = id
		}
		out[i] = Variable{ID: id, Name: name, Description: v.Concept}
	}
	return out, true
}

// staticVariables is the last-resort catalog per dataset family, so that an
// unreachable provider still yields something to query.
func staticVariables(dataset string) []Variable {
	switch {
	case strings.Contains(dataset, "pep"):
		return []Variable{
			{ID: "POP", Name: "Population", Description: "Total population"},
			{ID: "BIRTHS", Name: "Births", Description: "Number of births"},
			{ID: "DEATHS", Name: "Deaths", Description: "Number of deaths"},
			{ID: "NATURALINC", Name: "Natural Increase", Description: "Natural population increase"},
		}
	case strings.Contains(dataset, "acs"):
		return []Variable{
			{ID: "B01001_001E", Name: "Total Population", Description: "Total population"},
			{ID: "B19013_001E", Name: "Median Household Income", Description: "Median household income"},
			{ID: "B25064_001E", Name: "Median Gross Rent", Description: "Median gross rent"},
			{ID: "B25077_001E", Name: "Median Home Value", Description: "Median home value"},
			{ID: "B08301_001E", Name: "Means of Transportation to Work", Description: "Commuting data"},
		}
	case strings.Contains(dataset, "timeseries"):
		if strings.Contains(dataset, "eits") {
			return []Variable{
				{ID: "EMPSALUS", Name: "Employment and Salaries - US"},
				{ID: "EMPSALUSM", Name: "Employment and Salaries - US Monthly"},
				{ID: "RETAILUS", Name: "Retail Trade - US"},
				{ID: "RETAILUSM", Name: "Retail Trade - US Monthly"},
				{ID: "MANUFUS", Name: "Manufacturing - US"},
				{ID: "MANUFUSM", Name: "Manufacturing - US Monthly"},
			}
		}
		return []Variable{
			{ID: "EMPSALUS", Name: "Employment and Salaries - US"},
			{ID: "RETAILUS", Name: "Retail Trade - US"},
		}
	}
	return []Variable{}
}

// Variables discovers the variables available in a dataset. The discovery
// is tiered: live metadata or a probe query first, a secondary probe with
// well-known variables next, and a static per-family catalog last. A
// discovery never fails outright; an unknown dataset family yields an empty
// list.
func (c *Client) Variables(ctx context.Context, dataset string, year int) []Variable {
	if strings.HasPrefix(dataset, "timeseries") {
		probe := "NAME"
		if strings.Contains(dataset, "eits") {
			probe = "EMPSALUS"
		}
		query := make(url.Values)
		query.Set("get", probe)
		query.Set("for", "us:1")
		query.Set("time", "from 2023 to 2023")
		if headers, ok := c.probeHeaders(ctx, c.baseURL+"/"+dataset, query); ok {
			return headersToVariables(headers)
		}
		logging.Warningf(ctx, "variable discovery probe failed for %s, using static catalog", dataset)
		return staticVariables(dataset)
	}
	if year == 0 {
		year = catalogYear(dataset)
	}
	if vars, ok := c.metadataVariables(ctx, year, dataset); ok {
		return vars
	}
	probe := "NAME"
	switch {
	case strings.Contains(dataset, "pep"):
		probe = "POP,NAME"
	case strings.Contains(dataset, "acs"):
		probe = "B01001_001E,NAME"
	}
	query := make(url.Values)
	query.Set("get", probe)
	query.Set("for", "us:1")
	uri := c.baseURL + "/" + strconv.Itoa(year) + "/" + dataset
	if headers, ok := c.probeHeaders(ctx, uri, query); ok {
		return headersToVariables(headers)
	}
	logging.Warningf(ctx, "variable discovery failed for %s (year=%d), using static catalog",
		dataset, year)
	return staticVariables(dataset)
}
