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

// Package refdata holds the static symbol and variable catalogs used for
// format validation and autocomplete suggestions. The catalogs are read-only
// in-memory tables; searching is case-insensitive substring match capped at a
// caller-supplied limit.
package refdata

import (
	"sort"
	"strings"
)

func isAlpha(s string) bool {
	for _, r := range s {
		if !('A' <= r && r <= 'Z' || 'a' <= r && r <= 'z') {
			return false
		}
	}
	return len(s) > 0
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !('A' <= r && r <= 'Z' || 'a' <= r && r <= 'z' || '0' <= r && r <= '9') {
			return false
		}
	}
	return len(s) > 0
}

// sortedSet returns a sorted copy of the union of the given lists with
// duplicates removed.
func sortedSet(lists ...[]string) []string {
	seen := make(map[string]bool)
	var res []string
	for _, l := range lists {
		for _, s := range l {
			if !seen[s] {
				seen[s] = true
				res = append(res, s)
			}
		}
	}
	sort.Strings(res)
	return res
}

// substringSearch returns up to limit entries of list containing query,
// case-insensitively. An empty query returns the head of the list.
func substringSearch(list []string, query string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}
	if query == "" {
		if len(list) < limit {
			limit = len(list)
		}
		return append([]string{}, list[:limit]...)
	}
	q := strings.ToUpper(query)
	res := []string{}
	for _, s := range list {
		if strings.Contains(strings.ToUpper(s), q) {
			res = append(res, s)
			if len(res) >= limit {
				break
			}
		}
	}
	return res
}
