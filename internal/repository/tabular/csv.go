package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV decodes comma-separated content whose first record is the header.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("%w: read csv: %v", ErrMalformed, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		// Excel-exported CSVs start with a UTF-8 byte order mark.
		records[0][0] = trimBOM(records[0][0])
	}
	return fromStrings(records)
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
