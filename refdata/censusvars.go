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

package refdata

// EconomicIndicators are variables of the eits/mid time-series dataset:
// employment and salaries by cadence and seasonal adjustment.
var EconomicIndicators = []string{
	"EMPSAL", "EMPSALUS", "EMPSALUSM", "EMPSALUSQ", "EMPSALUSY",
	"EMPSALUSMNSA", "EMPSALUSQNSA", "EMPSALUSYNSA",
	"EMPSALUSMSA", "EMPSALUSQSA", "EMPSALUSYSA",
	"EMPSALUSMCH", "EMPSALUSQCH", "EMPSALUSYCH",
	"EMPSALUSMPCH", "EMPSALUSQPCH", "EMPSALUSYPCH",
	"EMPSALUSMCHNSA", "EMPSALUSQCHNSA", "EMPSALUSYCHNSA",
	"EMPSALUSMPCHNSA", "EMPSALUSQPCHNSA", "EMPSALUSYPCHNSA",
	"EMPSALUSMCHSA", "EMPSALUSQCHSA", "EMPSALUSYCHSA",
	"EMPSALUSMPCHSA", "EMPSALUSQPCHSA", "EMPSALUSYPCHSA",
}

// RetailTrade are variables of the eits/retail dataset.
var RetailTrade = []string{
	"RETAIL", "RETAILUS", "RETAILUSM", "RETAILUSQ", "RETAILUSY",
	"RETAILUSMNSA", "RETAILUSQNSA", "RETAILUSYNSA",
	"RETAILUSMSA", "RETAILUSQSA", "RETAILUSYSA",
}

// Manufacturing are variables of the eits/manufacturing dataset.
var Manufacturing = []string{
	"MANUF", "MANUFUS", "MANUFUSM", "MANUFUSQ", "MANUFUSY",
	"MANUFUSMNSA", "MANUFUSQNSA", "MANUFUSYNSA",
	"MANUFUSMSA", "MANUFUSQSA", "MANUFUSYSA",
}

// Construction are variables of the eits/construction dataset.
var Construction = []string{
	"CONST", "CONSTUS", "CONSTUSM", "CONSTUSQ", "CONSTUSY",
	"CONSTUSMNSA", "CONSTUSQNSA", "CONSTUSYNSA",
	"CONSTUSMSA", "CONSTUSQSA", "CONSTUSYSA",
}

// Wholesale are variables of the eits/wholesale dataset.
var Wholesale = []string{
	"WHOLESALE", "WHOLESALEUS", "WHOLESALEUSM", "WHOLESALEUSQ", "WHOLESALEUSY",
}

// ACSVariables are common American Community Survey table variables.
var ACSVariables = []string{
	"B01001_001E", "B19013_001E", "B25064_001E", "B25077_001E", "B08301_001E",
	"B15003_001E", "B17001_001E", "B25001_001E", "B25002_001E", "B25003_001E",
}

// EconomicCensus are common Economic Census variables.
var EconomicCensus = []string{
	"NAICS2012", "NAICS2017", "GEO_ID", "NAME", "YEAR", "ESTAB", "EMP",
	"PAYANN", "RCPTOT",
}

var (
	// AllVariables is the combined catalog, sorted and deduplicated.
	AllVariables = sortedSet(EconomicIndicators, RetailTrade, Manufacturing,
		Construction, Wholesale, ACSVariables, EconomicCensus)

	variableCategories = map[string][]string{
		"economic_indicators": EconomicIndicators,
		"retail_trade":        RetailTrade,
		"manufacturing":       Manufacturing,
		"construction":        Construction,
		"wholesale":           Wholesale,
		"acs":                 ACSVariables,
		"economic_census":     EconomicCensus,
	}
)

// VariablesByCategory returns the catalog of a category, or the full catalog
// for an unknown one.
func VariablesByCategory(category string) []string {
	if l, ok := variableCategories[category]; ok {
		return l
	}
	return AllVariables
}

// ValidateVariable checks the census variable name format: alphanumeric or
// underscore, 3-50 characters.
func ValidateVariable(variable string) bool {
	if len(variable) < 3 || len(variable) > 50 {
		return false
	}
	for _, r := range variable {
		if !('A' <= r && r <= 'Z' || 'a' <= r && r <= 'z' ||
			'0' <= r && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}

// SearchVariables finds catalog variables containing query,
// case-insensitively, optionally restricted to a category, capped at limit.
func SearchVariables(query, category string, limit int) []string {
	return substringSearch(VariablesByCategory(category), query, limit)
}
