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

import "strings"

// Indices are the major market indices in the caret notation of the consumer
// finance provider.
var Indices = []string{
	"^GSPC", "^DJI", "^IXIC", "^RUT", "^VIX", "^TNX", "^FVX", "^IRX",
}

// ETFs are popular exchange-traded funds.
var ETFs = []string{
	"SPY", "QQQ", "DIA", "IWM", "VTI", "VOO", "VEA", "VWO", "BND", "GLD",
	"SLV", "USO", "TLT", "HYG", "EFA", "EEM",
}

// Dow30 are the Dow Jones Industrial Average components.
var Dow30 = []string{
	"AAPL", "MSFT", "UNH", "GS", "HD", "CAT", "MCD", "V", "HON", "TRV",
	"AXP", "AMGN", "JPM", "CVX", "WMT", "MRK", "PG", "BA", "DIS", "DOW",
	"IBM", "AMZN", "CRM", "NKE", "JNJ", "CSCO", "VZ", "INTC", "WBA",
}

// SP500Top are the most traded S&P 500 constituents.
var SP500Top = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "TSLA", "BRK.B",
	"UNH", "XOM", "JNJ", "JPM", "V", "PG", "MA", "CVX", "HD", "ABBV", "PFE",
	"AVGO", "COST", "MRK", "WMT", "PEP", "TMO", "CSCO", "ABT", "ACN", "ADBE",
	"NFLX", "NKE", "DHR", "VZ", "TXN", "CMCSA", "NEE", "PM", "LIN", "DIS",
	"RTX", "HON", "QCOM", "AMGN", "AMT", "INTU", "IBM", "UNP", "LOW", "SPGI",
	"AXP", "GE", "BKNG", "PLD", "AMAT", "DE", "ADI", "SBUX", "GILD", "MDT",
	"ISRG", "ADP", "C", "VRTX", "TJX", "ZTS", "REGN", "MMC", "LMT", "ETN",
	"PANW", "FI", "CDNS", "KLAC", "SNPS", "APH", "SHW", "MCO", "ICE", "EQIX",
	"CRWD", "FTNT", "CTSH", "NXPI", "CDW", "FAST", "PAYX", "ANET", "PCAR",
	"ODFL", "CTAS", "KEYS", "IDXX", "MCHP", "ON", "DXCM", "TTD", "FDS",
	"NDAQ", "EXPD", "WDAY", "CPRT", "VRSN", "FTV", "MPWR", "INCY", "CHTR",
	"ALGN", "TEAM", "ZS", "DOCN", "DOCU",
}

// NasdaqPopular are widely traded NASDAQ listings.
var NasdaqPopular = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "TSLA", "AVGO",
	"COST", "NFLX", "ADBE", "PEP", "CSCO", "CMCSA", "TXN", "QCOM", "INTU",
	"AMGN", "ISRG", "AMD", "INTC", "AMAT", "MU", "LRCX", "KLAC", "MCHP",
	"NXPI", "SWKS", "QRVO", "MRVL", "CRWD", "FTNT", "ZS", "PANW", "OKTA",
	"ZM", "DOCU", "TEAM", "WDAY", "SNOW", "DDOG", "NET", "MDB", "ESTC",
	"SPLK", "NOW", "CRM", "ORCL", "ADSK", "ANSS", "CDNS", "SNPS", "KEYS",
	"TTWO", "EA", "ATVI", "RBLX", "U", "HOOD", "COIN", "SQ", "PYPL", "AFRM",
	"UPST", "SOFI", "LCID", "RIVN", "F", "GM", "NIO", "XPEV", "LI", "BIDU",
	"JD", "PDD", "BABA", "TME", "NTES",
}

var (
	// AllTickers is the combined catalog, sorted and deduplicated.
	AllTickers = sortedSet(Indices, ETFs, Dow30, SP500Top, NasdaqPopular)

	tickerCategories = map[string][]string{
		"indices": Indices,
		"etfs":    ETFs,
		"dow_30":  Dow30,
		"sp500":   SP500Top,
		"nasdaq":  NasdaqPopular,
	}
)

// TickersByCategory returns the catalog of a category, or the full catalog
// for an unknown one.
func TickersByCategory(category string) []string {
	if l, ok := tickerCategories[category]; ok {
		return l
	}
	return AllTickers
}

// ValidateTicker checks the ticker format: an optional leading circumflex
// (index notation) followed by 1-10 alphanumeric characters.
func ValidateTicker(symbol string) bool {
	if symbol == "" {
		return false
	}
	clean := strings.TrimLeft(symbol, "^")
	return isAlnum(clean) && len(clean) <= 10
}

// SearchTickers finds catalog tickers containing query, case-insensitively,
// capped at limit.
func SearchTickers(query string, limit int) []string {
	return substringSearch(AllTickers, query, limit)
}
