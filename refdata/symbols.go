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

// Market symbol categories of the commercial market-data provider.
const (
	SymbolStock   = "stock"
	SymbolForex   = "forex"
	SymbolCrypto  = "crypto"
	SymbolInvalid = "invalid"
)

// Stocks are popular US equity symbols, largely the S&P 500 top holdings.
var Stocks = []string{
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
	"ALGN", "TEAM", "ZS",
}

// ForexPairs are the major currency pairs in BASE/QUOTE notation.
var ForexPairs = []string{
	"EUR/USD", "GBP/USD", "USD/JPY", "USD/CHF", "AUD/USD", "USD/CAD",
	"NZD/USD", "EUR/GBP", "EUR/JPY", "GBP/JPY", "EUR/CHF", "AUD/JPY",
	"EUR/AUD", "GBP/AUD", "USD/CNH", "USD/HKD", "USD/SGD", "USD/ZAR",
	"USD/MXN", "USD/BRL", "USD/INR", "USD/KRW", "USD/TRY", "USD/RUB",
	"EUR/CAD", "GBP/CAD", "AUD/CAD", "EUR/NZD", "GBP/NZD", "AUD/NZD",
	"CHF/JPY", "CAD/JPY", "NZD/JPY", "EUR/SEK", "EUR/NOK", "EUR/DKK",
	"EUR/PLN", "EUR/CZK", "GBP/CHF", "AUD/CHF", "CAD/CHF",
}

// Crypto are the major cryptocurrency codes.
var Crypto = []string{
	"BTC", "ETH", "BNB", "SOL", "XRP", "ADA", "DOGE", "DOT", "MATIC", "AVAX",
	"LINK", "UNI", "LTC", "ATOM", "ETC", "XLM", "ALGO", "VET", "ICP", "FIL",
	"TRX", "EOS", "AAVE", "MKR", "COMP", "SUSHI", "CRV", "YFI", "SNX", "1INCH",
}

var (
	allStocks = sortedSet(Stocks)
	allForex  = sortedSet(ForexPairs)
	allCrypto = sortedSet(Crypto)

	// AllSymbols is the full catalog: stocks, then forex pairs, then crypto.
	AllSymbols = concat(allStocks, allForex, allCrypto)

	symbolCategories = map[string][]string{
		"stocks": allStocks,
		"forex":  allForex,
		"crypto": allCrypto,
	}

	cryptoSet = toSet(allCrypto)
)

func concat(lists ...[]string) []string {
	var res []string
	for _, l := range lists {
		res = append(res, l...)
	}
	return res
}

func toSet(list []string) map[string]bool {
	m := make(map[string]bool, len(list))
	for _, s := range list {
		m[s] = true
	}
	return m
}

// SymbolsByCategory returns the catalog of the category ("stocks", "forex" or
// "crypto"), or the full catalog for anything else.
func SymbolsByCategory(category string) []string {
	if l, ok := symbolCategories[category]; ok {
		return l
	}
	return AllSymbols
}

// ValidateSymbol checks the market symbol format and classifies it. This is
// intentionally soft: any alphanumeric-with-dots string of length 1-10 passes
// as a stock, since the provider has no validation endpoint.
func ValidateSymbol(symbol string) (bool, string) {
	if symbol == "" {
		return false, SymbolInvalid
	}
	upper := strings.ToUpper(symbol)
	if strings.Contains(upper, "/") {
		parts := strings.Split(upper, "/")
		if len(parts) == 2 && len(parts[0]) == 3 && len(parts[1]) == 3 &&
			isAlpha(parts[0]) && isAlpha(parts[1]) {
			return true, SymbolForex
		}
		return false, SymbolInvalid
	}
	if cryptoSet[upper] {
		return true, SymbolCrypto
	}
	if isAlnum(strings.ReplaceAll(upper, ".", "")) && len(upper) <= 10 {
		return true, SymbolStock
	}
	return false, SymbolInvalid
}

// SymbolMatch is a search hit with its category.
type SymbolMatch struct {
	Symbol string
	Type   string
}

// SymbolType classifies a catalog symbol.
func SymbolType(symbol string) string {
	if strings.Contains(symbol, "/") {
		return SymbolForex
	}
	if cryptoSet[strings.ToUpper(symbol)] {
		return SymbolCrypto
	}
	return SymbolStock
}

// SearchSymbols finds catalog symbols containing query, case-insensitively,
// optionally restricted to a category, capped at limit. An empty query
// returns the head of the catalog.
func SearchSymbols(query, category string, limit int) []SymbolMatch {
	matches := substringSearch(SymbolsByCategory(category), query, limit)
	res := make([]SymbolMatch, len(matches))
	for i, s := range matches {
		res[i] = SymbolMatch{Symbol: s, Type: SymbolType(s)}
	}
	return res
}
