package report

import (
	"fmt"
	"strings"

	apperrors "storereport/internal/errors"
)

// Fixed structural offsets of the export format: two preamble rows, a
// merged-cell metric group row, a sub-label row, then data.
const (
	primaryHeaderRow   = 2
	secondaryHeaderRow = 3
	dataStartRow       = 4
)

// Reconcile turns a raw export grid into a uniquely keyed dataset.
//
// The primary header row models merged cells as a value followed by blanks,
// so it is forward-filled left to right. Each column then resolves its
// (primary, secondary) pair by blank inheritance in both directions, and gets
// a key built from its original position, which stays unique even when labels
// repeat. The entity column is forward-filled top to bottom to undo the
// merged grouping cells, and fully blank rows are dropped.
func Reconcile(raw RawTable) (*Dataset, error) {
	if len(raw) < dataStartRow+1 {
		return nil, apperrors.MalformedInput(fmt.Sprintf(
			"table has %d rows, need at least %d (two preamble rows, two header rows, one data row)",
			len(raw), dataStartRow+1))
	}

	width := 0
	for _, row := range raw {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < 2 {
		return nil, apperrors.MalformedInput(fmt.Sprintf(
			"table has %d columns, need at least the entity and owner columns", width))
	}

	primary := forwardFill(padded(raw[primaryHeaderRow], width))
	secondary := padded(raw[secondaryHeaderRow], width)

	headers := make([]HeaderEntry, width)
	for i := 0; i < width; i++ {
		h1 := strings.TrimSpace(primary[i])
		h2 := strings.TrimSpace(secondary[i])
		if h1 == "" {
			h1 = h2
		}
		if h2 == "" {
			h2 = h1
		}
		headers[i] = HeaderEntry{Primary: h1, Secondary: h2, Key: columnKey(i, h1, h2)}
	}

	var records []Record
	lastEntity := ""
	for _, row := range raw[dataStartRow:] {
		cells := padded(row, width)
		if isBlankRow(cells) {
			continue
		}
		rec := make(Record, width)
		for i, h := range headers {
			rec[h.Key] = strings.TrimSpace(cells[i])
		}
		if rec[ColEntity] == "" {
			rec[ColEntity] = lastEntity
		} else {
			lastEntity = rec[ColEntity]
		}
		records = append(records, rec)
	}

	return &Dataset{Headers: headers, Records: records}, nil
}

// columnKey builds the unique key for column i. The positional index keeps
// keys collision-free even when both labels repeat across columns. The two
// identity columns get fixed keys regardless of their header text.
func columnKey(i int, h1, h2 string) string {
	switch i {
	case 0:
		return ColEntity
	case 1:
		return ColOwner
	}
	return fmt.Sprintf("%d_%s_%s", i, h1, h2)
}

// forwardFill replaces each blank cell with the nearest preceding non-blank
// value. Applying it twice yields the same result as once.
func forwardFill(cells []string) []string {
	out := make([]string, len(cells))
	last := ""
	for i, c := range cells {
		if strings.TrimSpace(c) != "" {
			last = strings.TrimSpace(c)
		}
		out[i] = last
	}
	return out
}

// padded extends a ragged row to the table width with empty cells.
func padded(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
