// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package table

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// Format writes a human-readable dump of this table to w, one line per
// transition, with columns aligned by display width.
func (t *Table) Format(w io.Writer) error {
	rows := [][]string{{"state", "accepts", "on", "goto"}}
	for i, state := range t.States {
		accepts := ""
		if state.Accepting {
			accepts = state.Token
			if state.Ignore {
				accepts += " (ignored)"
			}
		}

		if len(state.Transitions) == 0 {
			rows = append(rows, []string{strconv.Itoa(i), accepts, "", ""})
			continue
		}
		for j, tr := range state.Transitions {
			row := []string{"", "", formatRange(tr.Start, tr.End), strconv.Itoa(tr.Dest)}
			if j == 0 {
				row[0], row[1] = strconv.Itoa(i), accepts
			}
			rows = append(rows, row)
		}
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], uniseg.StringWidth(cell))
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "initial %d, end %q, error %q\n", t.Initial, t.End, t.Error)
	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(cell)
			line.WriteString(strings.Repeat(" ", widths[i]-uniseg.StringWidth(cell)))
		}
		out.WriteString(strings.TrimRight(line.String(), " "))
		out.WriteByte('\n')
	}
	_, err := io.WriteString(w, out.String())
	return err
}

func formatRange(start, end rune) string {
	if start == end {
		return strconv.QuoteRune(start)
	}
	return strconv.QuoteRune(start) + "-" + strconv.QuoteRune(end)
}
