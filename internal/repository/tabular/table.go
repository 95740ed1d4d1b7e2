package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed indicates tabular content that cannot be turned into records.
var ErrMalformed = errors.New("malformed tabular data")

// Row maps column names to raw cell values.
type Row map[string]interface{}

// Table is a header-keyed view over decoded tabular content. SerialDates
// marks workbook content whose date cells may hold Excel serial numbers.
type Table struct {
	Columns     []string
	Rows        []Row
	SerialDates bool
}

// Has reports whether the table carries the named column.
func (t Table) Has(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Require fails with ErrMalformed when any of the named columns is missing.
func (t Table) Require(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", ErrMalformed, strings.Join(missing, ", "))
	}
	return nil
}

// FromValues builds a table from a rectangular value grid whose first row is
// the header, as returned by spreadsheet APIs. Short rows are padded with nil.
func FromValues(values [][]interface{}) (Table, error) {
	if len(values) == 0 {
		return Table{}, fmt.Errorf("%w: no header row", ErrMalformed)
	}

	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	if err := checkHeader(header); err != nil {
		return Table{}, err
	}

	table := Table{Columns: header, Rows: make([]Row, 0, len(values)-1)}
	for _, record := range values[1:] {
		if isBlank(record) {
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = nil
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func fromStrings(records [][]string) (Table, error) {
	values := make([][]interface{}, len(records))
	for i, record := range records {
		values[i] = make([]interface{}, len(record))
		for j, cell := range record {
			values[i][j] = cell
		}
	}
	return FromValues(values)
}

func checkHeader(header []string) error {
	seen := make(map[string]struct{}, len(header))
	for _, col := range header {
		if col == "" {
			continue
		}
		if _, dup := seen[col]; dup {
			return fmt.Errorf("%w: duplicate column %q", ErrMalformed, col)
		}
		seen[col] = struct{}{}
	}
	return nil
}

func isBlank(record []interface{}) bool {
	for _, v := range record {
		if v != nil && strings.TrimSpace(fmt.Sprint(v)) != "" {
			return false
		}
	}
	return true
}
