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

// Package table renders fetched data as CSV or aligned text for the CLI
// apps.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/stockparfait/errors"
)

// Table is a header plus string rows. Every row must have the header's
// width.
type Table struct {
	Header []string
	Rows   [][]string
}

// New creates a table with the given column headers.
func New(header ...string) *Table {
	return &Table{Header: header}
}

// Add appends one row.
func (t *Table) Add(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Params control table output.
type Params struct {
	Rows     int  // max. number of rows to write; 0 = unlimited
	NoHeader bool // whether to skip the header
}

func (t *Table) limited(p Params) [][]string {
	if p.Rows > 0 && len(t.Rows) > p.Rows {
		return t.Rows[:p.Rows]
	}
	return t.Rows
}

// WriteCSV writes the table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if !p.NoHeader {
		if err := cw.Write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for _, row := range t.limited(p) {
		if err := cw.Write(row); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// WriteText writes the table as aligned text with a header separator.
func (t *Table) WriteText(w io.Writer, p Params) error {
	widths := make([]int, len(t.Header))
	update := func(row []string) error {
		if len(row) != len(widths) {
			return errors.Reason("row size [%d] != header size [%d]", len(row), len(widths))
		}
		for i, cell := range row {
			if widths[i] < len(cell) {
				widths[i] = len(cell)
			}
		}
		return nil
	}
	if !p.NoHeader {
		if err := update(t.Header); err != nil {
			return err
		}
	}
	rows := t.limited(p)
	for _, row := range rows {
		if err := update(row); err != nil {
			return err
		}
	}
	write := func(row []string) error {
		padded := make([]string, len(row))
		for i, cell := range row {
			padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(padded, "  "), " "))
		return err
	}
	if !p.NoHeader {
		if err := write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		dashes := make([]string, len(widths))
		for i, n := range widths {
			dashes[i] = strings.Repeat("-", n)
		}
		if err := write(dashes); err != nil {
			return errors.Annotate(err, "failed to write header separator")
		}
	}
	for _, row := range rows {
		if err := write(row); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}
